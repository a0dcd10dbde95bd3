package asset

import (
	"errors"
	"testing"
)

func TestKind_Classes(t *testing.T) {
	tests := []struct {
		kind    Kind
		file    bool
		content bool
	}{
		{KindImage, true, false},
		{KindAudio, true, false},
		{KindVideo, true, false},
		{KindPage, false, true},
		{KindTable, false, true},
		{Kind("pdf"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.IsFile(); got != tt.file {
				t.Errorf("IsFile() = %v, want %v", got, tt.file)
			}
			if got := tt.kind.IsContent(); got != tt.content {
				t.Errorf("IsContent() = %v, want %v", got, tt.content)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, name := range KindNames() {
		k, err := ParseKind(name)
		if err != nil {
			t.Errorf("ParseKind(%q) error = %v", name, err)
		}
		if k.String() != name {
			t.Errorf("ParseKind(%q) = %q", name, k)
		}
	}

	if _, err := ParseKind("Image"); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("ParseKind is expected to be case sensitive, got %v", err)
	}
}

func TestKind_UnmarshalText(t *testing.T) {
	var k Kind
	if err := k.UnmarshalText([]byte("table")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if k != KindTable {
		t.Errorf("UnmarshalText() = %q, want %q", k, KindTable)
	}
	if err := k.UnmarshalText([]byte("sound")); err == nil {
		t.Error("Expected error for unknown kind")
	}
}

func TestNewFile(t *testing.T) {
	f, err := NewFile("img-1", "heart.png", KindImage, "assets/images/heart.png")
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if f.Ref() != "img-1" {
		t.Errorf("Ref() = %q, want img-1", f.Ref())
	}

	if _, err := NewFile("p-1", "", KindPage, "x"); err == nil {
		t.Error("Expected error for content kind passed to NewFile")
	}
}

func TestNewContent(t *testing.T) {
	c, err := NewContent("tbl-1", KindTable, "<table></table>")
	if err != nil {
		t.Fatalf("NewContent() error = %v", err)
	}
	if c.Ref() != "tbl-1" {
		t.Errorf("Ref() = %q, want tbl-1", c.Ref())
	}

	if _, err := NewContent("a-1", KindAudio, ""); err == nil {
		t.Error("Expected error for file kind passed to NewContent")
	}
}

func TestKindOf(t *testing.T) {
	if k, ok := KindOf(&File{ID: "a", Kind: KindAudio}); !ok || k != KindAudio {
		t.Errorf("KindOf(file) = %q, %v", k, ok)
	}
	if k, ok := KindOf(&Content{ID: "p", Kind: KindPage}); !ok || k != KindPage {
		t.Errorf("KindOf(content) = %q, %v", k, ok)
	}
	if _, ok := KindOf(&Link{URL: "http://example.org"}); ok {
		t.Error("Links are not expected to have kind")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name  string
		asset Asset
		want  string
	}{
		{"file with name", &File{ID: "i1", Name: "ECG strip"}, "ECG strip"},
		{"file without name", &File{ID: "i1", Name: "  "}, "i1"},
		{"content", &Content{ID: "page-9"}, "page-9"},
		{"link", &Link{URL: "https://example.org"}, "https://example.org"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayName(tt.asset); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
