// Package asset defines auxiliary content referenced from question records.
//
// Asset is a closed set of variants: File (image, audio, video), Content (page,
// table) and the transient Link. Code switching over assets is expected to
// handle every variant.
package asset

import (
	"fmt"
	"strings"
)

// Asset is implemented by File, Content and Link only.
type Asset interface {
	// Ref returns identifier of stored assets and URL of links.
	Ref() string
	isAsset()
}

// File is an asset whose substance is an external file. Locator is opaque
// and never interpreted here.
type File struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name,omitempty" json:"name,omitempty"`
	Kind    Kind   `yaml:"kind" json:"kind"`
	Locator string `yaml:"locator" json:"locator"`
}

// Content is an asset hosting raw HTML which may contain further placeholders.
type Content struct {
	ID   string `yaml:"id" json:"id"`
	Kind Kind   `yaml:"kind" json:"kind"`
	Body string `yaml:"body" json:"body"`
}

// Link is constructed when placeholder holds URL rather than identifier.
type Link struct {
	URL string `yaml:"url" json:"url"`
}

func (f *File) Ref() string { return f.ID }
func (c *Content) Ref() string { return c.ID }
func (l *Link) Ref() string { return l.URL }

func (*File) isAsset() {}
func (*Content) isAsset() {}
func (*Link) isAsset() {}

// NewFile builds file asset making sure kind is one of the file kinds.
func NewFile(id, name string, kind Kind, locator string) (*File, error) {
	if !kind.IsFile() {
		return nil, fmt.Errorf("kind %q is not a file kind", kind)
	}
	return &File{ID: id, Name: name, Kind: kind, Locator: locator}, nil
}

// NewContent builds content asset making sure kind is one of the content kinds.
func NewContent(id string, kind Kind, body string) (*Content, error) {
	if !kind.IsContent() {
		return nil, fmt.Errorf("kind %q is not a content kind", kind)
	}
	return &Content{ID: id, Kind: kind, Body: body}, nil
}

// KindOf returns kind of stored asset, links have no kind.
func KindOf(a Asset) (Kind, bool) {
	switch v := a.(type) {
	case *File:
		return v.Kind, true
	case *Content:
		return v.Kind, true
	case *Link:
		return "", false
	default:
		// this should never happen
		panic(fmt.Sprintf("unexpected asset type %T", a))
	}
}

// DisplayName returns human readable label for asset.
func DisplayName(a Asset) string {
	switch v := a.(type) {
	case *File:
		if len(strings.TrimSpace(v.Name)) > 0 {
			return v.Name
		}
		return v.ID
	case *Content:
		return v.ID
	case *Link:
		return v.URL
	default:
		// this should never happen
		panic(fmt.Sprintf("unexpected asset type %T", a))
	}
}
