// Package archive walks record files stored in zip archives.
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/unicode/norm"
)

// WalkFunc is called for each file in archive visited by Walk. The archive
// argument contains path to archive passed to Walk, name is the entry name
// as returned by EntryName. If an error is returned, processing stops.
type WalkFunc func(archive, name string, file *zip.File) error

// MatchFunc reports whether entry with given name should be visited.
type MatchFunc func(name string) bool

// Walk walks all files in the archive under prefix which satisfy match,
// calling walkFn for each item. Nil match accepts everything. Archives with
// entries carrying absolute paths or ".." components are rejected.
func Walk(archive, prefix string, cp encoding.Encoding, match MatchFunc, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if !isSafePath(f.Name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.Name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		name, err := EntryName(f, cp)
		if err != nil {
			return fmt.Errorf("zip entry %q: %w", f.Name, err)
		}
		if !strings.HasPrefix(name, prefix) || (match != nil && !match(name)) {
			continue
		}
		if err := walkFn(archive, name, f); err != nil {
			return err
		}
	}
	return nil
}

// EntryName returns NFC normalized entry name. Zip does not define name
// encoding, when cp is not nil names not flagged as UTF-8 are decoded with it.
func EntryName(f *zip.File, cp encoding.Encoding) (string, error) {
	name := f.Name
	if cp != nil && f.NonUTF8 {
		n, err := cp.NewDecoder().String(name)
		if err != nil {
			return "", fmt.Errorf("unable to decode entry name: %w", err)
		}
		name = n
	}
	return norm.NFC.String(name), nil
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
