// Package store provides asset storage backends used by resolver.
package store

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rupor-github/gencfg"
	yaml "gopkg.in/yaml.v3"

	"qrender/asset"
)

// FileEntry describes file backed asset in pack. When Path is empty locator
// is derived from Name.
type FileEntry struct {
	ID   string `yaml:"id" json:"id" validate:"required"`
	Name string `yaml:"name" json:"name" validate:"required_without=Path"`
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
}

// ContentEntry describes asset hosting HTML.
type ContentEntry struct {
	ID      string `yaml:"id" json:"id" validate:"required"`
	Content string `yaml:"content" json:"content"`
}

// Pack is interchange format for assets, one list per asset collection.
type Pack struct {
	Images []FileEntry    `yaml:"images,omitempty" json:"images,omitempty" validate:"dive"`
	Audio  []FileEntry    `yaml:"audio,omitempty" json:"audio,omitempty" validate:"dive"`
	Videos []FileEntry    `yaml:"videos,omitempty" json:"videos,omitempty" validate:"dive"`
	Pages  []ContentEntry `yaml:"pages,omitempty" json:"pages,omitempty" validate:"dive"`
	Tables []ContentEntry `yaml:"tables,omitempty" json:"tables,omitempty" validate:"dive"`
}

// collection returns directory name used for files of kind.
func collection(kind asset.Kind) string {
	switch kind {
	case asset.KindImage:
		return "images"
	case asset.KindAudio:
		return "audio"
	case asset.KindVideo:
		return "videos"
	default:
		// this should never happen
		panic(fmt.Sprintf("no collection for asset kind %q", kind))
	}
}

// Locator returns locator for file entry of kind. Explicit path wins, otherwise
// it is prefix/collection/name.
func (e FileEntry) Locator(kind asset.Kind, prefix string) string {
	if len(e.Path) > 0 {
		return filepath.ToSlash(e.Path)
	}
	return path.Join(prefix, collection(kind), e.Name)
}

// ParsePack decodes pack data. JSON is accepted as well since it is a subset
// of YAML.
func ParsePack(data []byte) (*Pack, error) {
	var p Pack
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("unable to decode asset pack: %w", err)
	}
	if err := gencfg.Validate(&p); err != nil {
		return nil, fmt.Errorf("invalid asset pack: %w", err)
	}
	return &p, nil
}

// LoadPack reads pack from file.
func LoadPack(fname string) (*Pack, error) {
	switch ext := strings.ToLower(filepath.Ext(fname)); ext {
	case ".yaml", ".yml", ".json":
	default:
		return nil, fmt.Errorf("unsupported asset pack extension %q", ext)
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("unable to read asset pack: %w", err)
	}
	return ParsePack(data)
}

// Assets converts pack entries into assets, in pack order, collections in
// the order of declaration.
func (p *Pack) Assets(prefix string) ([]asset.Asset, error) {
	var out []asset.Asset
	files := []struct {
		kind    asset.Kind
		entries []FileEntry
	}{
		{asset.KindImage, p.Images},
		{asset.KindAudio, p.Audio},
		{asset.KindVideo, p.Videos},
	}
	for _, fs := range files {
		for _, e := range fs.entries {
			f, err := asset.NewFile(e.ID, e.Name, fs.kind, e.Locator(fs.kind, prefix))
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
	}
	contents := []struct {
		kind    asset.Kind
		entries []ContentEntry
	}{
		{asset.KindPage, p.Pages},
		{asset.KindTable, p.Tables},
	}
	for _, cs := range contents {
		for _, e := range cs.entries {
			c, err := asset.NewContent(e.ID, cs.kind, e.Content)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// Len returns number of entries in pack.
func (p *Pack) Len() int {
	return len(p.Images) + len(p.Audio) + len(p.Videos) + len(p.Pages) + len(p.Tables)
}
