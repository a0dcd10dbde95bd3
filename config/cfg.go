package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"qrender/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	HydrationConfig struct {
		MaxDepth    int           `yaml:"max_depth" validate:"min=1,max=64"`
		Concurrency int           `yaml:"concurrency" validate:"min=1"`
		Timeout     time.Duration `yaml:"timeout" validate:"gte=0"`
	}

	StoreConfig struct {
		Backend       common.StoreBackend `yaml:"backend" validate:"required,oneof=memory sqlite"`
		Path          string              `yaml:"path" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required_if=Backend sqlite"`
		LocatorPrefix string              `yaml:"locator_prefix"`
		PoolSize      int                 `yaml:"pool_size" validate:"min=1,max=64"`
	}

	CacheConfig struct {
		Enable     bool  `yaml:"enable"`
		MaxEntries int64 `yaml:"max_entries" validate:"required_if=Enable true,gte=0"`
	}

	OutputConfig struct {
		FileNameTransliterate bool   `yaml:"file_name_transliterate"`
		FileNameTemplate      string `yaml:"file_name_template"`
		StylesheetPath        string `yaml:"stylesheet_path" sanitize:"path_clean" validate:"omitempty,filepath"`
		Lint                  bool   `yaml:"lint"`
	}

	Config struct {
		Version   int             `yaml:"version" validate:"eq=1"`
		Hydration HydrationConfig `yaml:"hydration"`
		Store     StoreConfig     `yaml:"store"`
		Cache     CacheConfig     `yaml:"cache"`
		Output    OutputConfig    `yaml:"output"`
		Logging   LoggingConfig   `yaml:"logging"`
		Reporting ReporterConfig  `yaml:"reporting"`
	}

	// TemplateFieldName names configuration field holding user template.
	TemplateFieldName string
)

const (
	// NOTE: must match yaml field names above. Locator prefix may legitimately
	// contain template-like text for the hosting application, file name
	// template is expanded per record when output is written.
	LocatorPrefixFieldName                      = "locator_prefix"
	FileNameTemplateFieldName TemplateFieldName = "file_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(LocatorPrefixFieldName),
	gencfg.WithDoNotExpandField(string(FileNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
