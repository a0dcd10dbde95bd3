package render

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDirSink(t *testing.T) {
	dst := t.TempDir()
	log := testLogger(t)

	s, err := newSink(dst, false, log)
	if err != nil {
		t.Fatalf("newSink() error = %v", err)
	}
	location, err := s.Write(filepath.Join("sub", "q-1.yaml"), []byte("one"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if want := filepath.Join(dst, "sub", "q-1.yaml"); location != want {
		t.Errorf("Write() = %q, want %q", location, want)
	}
	if _, err := s.Write(filepath.Join("sub", "q-1.yaml"), []byte("again")); err == nil {
		t.Error("Write() of duplicate name error = nil, want error")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// existing files are kept unless overwrite was requested
	s, _ = newSink(dst, false, log)
	if _, err := s.Write(filepath.Join("sub", "q-1.yaml"), []byte("two")); err == nil {
		t.Error("Write() over existing file error = nil, want error")
	}
	s, _ = newSink(dst, true, log)
	if _, err := s.Write(filepath.Join("sub", "q-1.yaml"), []byte("two")); err != nil {
		t.Errorf("Write() with overwrite error = %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dst, "sub", "q-1.yaml"))
	if string(data) != "two" {
		t.Errorf("file content = %q, want %q", data, "two")
	}
}

func TestZipSink(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out", "rendered.zip")
	log := testLogger(t)

	s, err := newSink(dst, false, log)
	if err != nil {
		t.Fatalf("newSink() error = %v", err)
	}
	files := map[string]string{
		filepath.Join("cardio", "q-1.html"): "<p>one</p>",
		"q-2.html":                          "<p>two</p>",
	}
	for name, content := range files {
		if _, err := s.Write(name, []byte(content)); err != nil {
			t.Fatalf("Write(%s) error = %v", name, err)
		}
	}
	if _, err := s.Write("q-2.html", nil); err == nil {
		t.Error("Write() of duplicate name error = nil, want error")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	r, err := zip.OpenReader(dst)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer r.Close()

	got := make(map[string]string)
	for _, f := range r.File {
		if f.Flags&0x8 != 0 {
			t.Errorf("entry %s still has data descriptor", f.Name)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Open(%s) error = %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Read(%s) error = %v", f.Name, err)
		}
		got[f.Name] = string(data)
	}
	want := map[string]string{"cardio/q-1.html": "<p>one</p>", "q-2.html": "<p>two</p>"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("archive mismatch (-want +got):\n%s", diff)
	}

	// temporary file is gone
	entries, _ := os.ReadDir(filepath.Dir(dst))
	if len(entries) != 1 {
		t.Errorf("output directory has %d entries, want 1", len(entries))
	}

	if _, err := newSink(dst, false, log); err == nil {
		t.Error("newSink() over existing archive error = nil, want error")
	}
}
