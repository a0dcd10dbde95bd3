package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/maruel/natural"

	"qrender/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report. When configured destination cannot be
// created report goes to temporary directory.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{entries: make(map[string]entry), file: f}, nil
}

// entry is either in memory data or path to be collected when report is
// closed.
type entry struct {
	source string
	data   []byte
	stamp  time.Time
}

// Report accumulates debugging artifacts: configuration, logs, asset packs,
// rendered results and resolution trees. All methods are safe for concurrent
// use and do nothing on nil receiver, so callers never check whether report
// was requested.
type Report struct {
	mu      sync.Mutex
	entries map[string]entry
	file    *os.File
}

// Close writes report archive.
func (r *Report) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.write(r.file)
	if er := r.file.Close(); er != nil && err == nil {
		err = er
	}
	r.file = nil
	return err
}

// Name returns absolute name of report archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store schedules file or directory at path to be put into report under
// name. Content is read when report is closed, so logs get there complete.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if p, err := filepath.Abs(path); err == nil {
		path = p
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, exists := r.entries[name]; exists && old.source != path {
		panic(fmt.Sprintf("report entry [%s] is already taken by %q, cannot store %q", name, old.source, path))
	}
	r.entries[name] = entry{source: path}
}

// StoreData puts data into report under name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		panic(fmt.Sprintf("report entry [%s] is already taken", name))
	}
	r.entries[name] = entry{data: data, stamp: time.Now()}
}

// sortedNames returns entry names with record-2 going before record-10.
func (r *Report) sortedNames() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		default:
			return 0
		}
	})
	return names
}

// write produces archive: MANIFEST first, then entries in manifest order.
// Scheduled paths which disappeared are listed in manifest as missing.
func (r *Report) write(out io.Writer) error {
	arc := zip.NewWriter(out)

	now := time.Now()
	names := r.sortedNames()

	manifest := new(bytes.Buffer)
	for _, name := range names {
		e := r.entries[name]
		switch {
		case len(e.source) == 0:
			fmt.Fprintf(manifest, "%s\t%s\t%d bytes\n", e.stamp.UTC().Format(time.RFC3339), name, len(e.data))
		default:
			state := "collected"
			if _, err := os.Stat(e.source); err != nil {
				state = "missing"
			}
			fmt.Fprintf(manifest, "%s\t%s\t%s (%s)\n", now.UTC().Format(time.RFC3339), name, e.source, state)
		}
	}
	if err := addEntry(arc, "MANIFEST", now, manifest); err != nil {
		return err
	}

	for _, name := range names {
		e := r.entries[name]
		if len(e.source) == 0 {
			if err := addEntry(arc, name, e.stamp, bytes.NewReader(e.data)); err != nil {
				return err
			}
			continue
		}
		if err := addPath(arc, name, e.source); err != nil {
			return fmt.Errorf("unable to put %s into report: %w", e.source, err)
		}
	}
	return arc.Close()
}

func addEntry(arc *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

func addFile(arc *zip.Writer, name, fname string, t time.Time) error {
	f, err := os.Open(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	return addEntry(arc, name, t, f)
}

// addPath adds regular file or every regular file under directory, absent
// paths are skipped.
func addPath(arc *zip.Writer, name, src string) error {
	info, err := os.Stat(src)
	if err != nil {
		return nil
	}
	if info.Mode().IsRegular() {
		return addFile(arc, name, src, info.ModTime())
	}
	if !info.IsDir() {
		return nil
	}
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			// links, sockets and directories themselves
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		return addFile(arc, path.Join(name, filepath.ToSlash(rel)), p, fi.ModTime())
	})
}
