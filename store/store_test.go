package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"qrender/asset"
	"qrender/common"
	"qrender/config"
	"qrender/resolve"
)

const testPack = `
images:
  - id: img-1
    name: heart.png
  - id: img-10
    name: lung.png
    path: cdn\x\lung.png
  - id: img-2
    name: liver.png
audio:
  - id: aud-1
    name: murmur.mp3
videos:
  - id: vid-1
    name: echo.mp4
pages:
  - id: page-1
    content: "<p>See [[img-1]]</p>"
tables:
  - id: tbl-1
    content: "<table><tr><td>[[page-1]]</td></tr></table>"
`

func testLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
}

func TestParsePack(t *testing.T) {
	p, err := ParsePack([]byte(testPack))
	if err != nil {
		t.Fatalf("ParsePack() error = %v", err)
	}
	if p.Len() != 7 {
		t.Errorf("Len() = %d, want 7", p.Len())
	}

	assets, err := p.Assets("assets")
	if err != nil {
		t.Fatalf("Assets() error = %v", err)
	}
	want := []asset.Asset{
		&asset.File{ID: "img-1", Name: "heart.png", Kind: asset.KindImage, Locator: "assets/images/heart.png"},
		&asset.File{ID: "img-10", Name: "lung.png", Kind: asset.KindImage, Locator: `cdn\x\lung.png`},
		&asset.File{ID: "img-2", Name: "liver.png", Kind: asset.KindImage, Locator: "assets/images/liver.png"},
		&asset.File{ID: "aud-1", Name: "murmur.mp3", Kind: asset.KindAudio, Locator: "assets/audio/murmur.mp3"},
		&asset.File{ID: "vid-1", Name: "echo.mp4", Kind: asset.KindVideo, Locator: "assets/videos/echo.mp4"},
		&asset.Content{ID: "page-1", Kind: asset.KindPage, Body: "<p>See [[img-1]]</p>"},
		&asset.Content{ID: "tbl-1", Kind: asset.KindTable, Body: "<table><tr><td>[[page-1]]</td></tr></table>"},
	}
	if diff := cmp.Diff(want, assets); diff != "" {
		t.Errorf("Assets() mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePack_JSON(t *testing.T) {
	p, err := ParsePack([]byte(`{"pages": [{"id": "p", "content": "x"}], "audio": [{"id": "a", "name": "a.ogg"}]}`))
	if err != nil {
		t.Fatalf("ParsePack() error = %v", err)
	}
	if len(p.Pages) != 1 || len(p.Audio) != 1 {
		t.Errorf("pack = %+v", p)
	}
}

func TestParsePack_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "unknown collection", data: "slides: []\n"},
		{name: "missing id", data: "pages:\n  - content: x\n"},
		{name: "file without name or path", data: "images:\n  - id: x\n"},
		{name: "malformed", data: "images: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePack([]byte(tt.data)); err == nil {
				t.Error("ParsePack() error = nil, want error")
			}
		})
	}
}

func TestLoadPack_Extension(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "pack.txt")
	if err := os.WriteFile(fname, []byte(testPack), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPack(fname); err == nil {
		t.Error("LoadPack() error = nil, want unsupported extension")
	}
}

// backendContract checks behavior shared by every backend.
func backendContract(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	p, err := ParsePack([]byte(testPack))
	if err != nil {
		t.Fatalf("ParsePack() error = %v", err)
	}
	if _, err := Fill(ctx, b, p, "assets"); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}

	got, err := b.Lookup(ctx, asset.KindTable, "tbl-1")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if c, ok := got.(*asset.Content); !ok || c.Body != "<table><tr><td>[[page-1]]</td></tr></table>" {
		t.Errorf("Lookup() = %#v", got)
	}

	got, err = b.Lookup(ctx, asset.KindImage, "img-10")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if diff := cmp.Diff(&asset.File{ID: "img-10", Name: "lung.png", Kind: asset.KindImage, Locator: `cdn\x\lung.png`}, got); diff != "" {
		t.Errorf("Lookup() mismatch (-want +got):\n%s", diff)
	}

	// kinds are separate namespaces
	if _, err := b.Lookup(ctx, asset.KindPage, "img-1"); !errors.Is(err, resolve.ErrNotFound) {
		t.Errorf("Lookup(page, img-1) error = %v, want not found", err)
	}

	ids, err := b.IDs(ctx, asset.KindImage)
	if err != nil {
		t.Fatalf("IDs() error = %v", err)
	}
	if diff := cmp.Diff([]string{"img-1", "img-2", "img-10"}, ids); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}

	if err := b.Put(ctx, &asset.Link{URL: "http://example.org"}); err == nil {
		t.Error("Put(link) error = nil, want error")
	}
}

func TestMemory(t *testing.T) {
	backendContract(t, NewMemory())
}

func TestSQLite(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "assets.db"), 2, false, testLogger(t))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer s.Close()
	backendContract(t, s)
}

func TestSQLite_Import(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "assets.db")
	s, err := OpenSQLite(ctx, path, 1, false, testLogger(t))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}

	p, _ := ParsePack([]byte(testPack))
	assets, _ := p.Assets("assets")
	added, skipped, err := s.Import(ctx, assets)
	if err != nil || added != 7 || skipped != 0 {
		t.Fatalf("Import() = %d, %d, %v, want 7, 0, nil", added, skipped, err)
	}

	changed := &asset.Content{ID: "page-1", Kind: asset.KindPage, Body: "changed"}
	added, skipped, err = s.Import(ctx, []asset.Asset{changed})
	if err != nil || added != 0 || skipped != 1 {
		t.Fatalf("second Import() = %d, %d, %v, want 0, 1, nil", added, skipped, err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// read-only reopen sees imported data
	ro, err := OpenSQLite(ctx, path, 2, true, testLogger(t))
	if err != nil {
		t.Fatalf("OpenSQLite(read-only) error = %v", err)
	}
	defer ro.Close()

	got, err := ro.Lookup(ctx, asset.KindPage, "page-1")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got.(*asset.Content).Body != "<p>See [[img-1]]</p>" {
		t.Errorf("existing asset was overwritten: %q", got.(*asset.Content).Body)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	packPath := filepath.Join(dir, "pack.yaml")
	if err := os.WriteFile(packPath, []byte(testPack), 0644); err != nil {
		t.Fatal(err)
	}

	b, err := Open(ctx, &config.StoreConfig{Backend: common.StoreBackendMemory, Path: packPath, LocatorPrefix: "/media"}, testLogger(t))
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	defer b.Close()

	got, err := resolve.New(b, testLogger(t)).Resolve(ctx, "aud-1")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if f := got.(*asset.File); f.Locator != "/media/audio/murmur.mp3" {
		t.Errorf("Locator = %q", f.Locator)
	}

	empty, err := Open(ctx, &config.StoreConfig{Backend: common.StoreBackendMemory}, testLogger(t))
	if err != nil {
		t.Fatalf("Open(empty memory) error = %v", err)
	}
	if _, err := empty.Lookup(ctx, asset.KindImage, "img-1"); !errors.Is(err, resolve.ErrNotFound) {
		t.Errorf("Lookup() error = %v, want not found", err)
	}
}
