package render

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	fixzip "github.com/hidez8891/zip"
	"go.uber.org/zap"

	"qrender/misc"
)

// sink receives produced files. It is used from a single goroutine.
type sink interface {
	// Write stores data under name relative to destination and returns
	// location of the result for logging.
	Write(name string, data []byte) (string, error)
	Close() error
}

// newSink writes into zip archive when destination has .zip extension and
// into directory otherwise.
func newSink(dst string, overwrite bool, log *zap.Logger) (sink, error) {
	if !strings.EqualFold(filepath.Ext(dst), ".zip") {
		return &dirSink{dir: dst, overwrite: overwrite, names: make(map[string]bool), log: log}, nil
	}

	if _, err := os.Stat(dst); err == nil {
		if !overwrite {
			return nil, fmt.Errorf("output archive already exists: %s", dst)
		}
		log.Warn("Overwriting existing archive", zap.String("file", dst))
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(dst), misc.GetAppName()+"-*.zip")
	if err != nil {
		return nil, fmt.Errorf("unable to create temporary archive: %w", err)
	}
	return &zipSink{dst: dst, f: f, zw: zip.NewWriter(f), names: make(map[string]bool)}, nil
}

type dirSink struct {
	dir       string
	overwrite bool
	names     map[string]bool
	log       *zap.Logger
}

func (s *dirSink) Write(name string, data []byte) (string, error) {
	if s.names[name] {
		return "", fmt.Errorf("duplicate output name: %s", name)
	}
	s.names[name] = true

	outputName := filepath.Join(s.dir, name)
	if _, err := os.Stat(outputName); err == nil {
		if !s.overwrite {
			return "", fmt.Errorf("output file already exists: %s", outputName)
		}
		s.log.Warn("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return "", err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return "", fmt.Errorf("unable to create output directory: %w", err)
	}
	if err := os.WriteFile(outputName, data, 0644); err != nil {
		return "", fmt.Errorf("unable to write output file: %w", err)
	}
	return outputName, nil
}

func (s *dirSink) Close() error {
	return nil
}

type zipSink struct {
	dst   string
	f     *os.File
	zw    *zip.Writer
	names map[string]bool
}

func (s *zipSink) Write(name string, data []byte) (string, error) {
	name = filepath.ToSlash(name)
	if s.names[name] {
		return "", fmt.Errorf("duplicate output name: %s", name)
	}
	s.names[name] = true

	w, err := s.zw.Create(name)
	if err != nil {
		return "", fmt.Errorf("unable to add %s to archive: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("unable to write %s to archive: %w", name, err)
	}
	return s.dst + "/" + name, nil
}

// Close finalizes archive. Streaming zip writer leaves data descriptors
// behind which some consumers do not handle, so final archive is a copy
// without them.
func (s *zipSink) Close() error {
	tmpName := s.f.Name()
	defer os.Remove(tmpName)

	if err := s.zw.Close(); err != nil {
		s.f.Close()
		return fmt.Errorf("unable to finalize archive: %w", err)
	}
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("unable to finalize archive: %w", err)
	}
	return copyZipWithoutDataDescriptors(tmpName, s.dst)
}

func copyZipWithoutDataDescriptors(from, to string) error {

	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	defer w.Close()

	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	return nil
}
