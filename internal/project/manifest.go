package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ErrInvalidManifest matches every *ManifestError.
var ErrInvalidManifest = errors.New("invalid project manifest")

// ManifestError reports a problem with one manifest file.
type ManifestError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ManifestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

func (e *ManifestError) Is(target error) bool { return target == ErrInvalidManifest }

func (e *ManifestError) Unwrap() error { return e.Err }

type Config struct {
	Package   PackageConfig   `toml:"package" yaml:"package"`
	Sources   SourcesConfig   `toml:"sources" yaml:"sources"`
	Generator GeneratorConfig `toml:"generator" yaml:"generator"`
	Lint      LintConfig      `toml:"lint" yaml:"lint"`
}

type PackageConfig struct {
	Name string `toml:"name" yaml:"name"`
}

type SourcesConfig struct {
	Include []string `toml:"include" yaml:"include"`
	Exclude []string `toml:"exclude" yaml:"exclude"`
}

type GeneratorConfig struct {
	Marker             string `toml:"marker" yaml:"marker"`
	MarkerNamespace    string `toml:"marker_namespace" yaml:"marker_namespace"`
	Target             string `toml:"target" yaml:"target"`
	TemplatesDir       string `toml:"templates_dir" yaml:"templates_dir"`
	OutDir             string `toml:"out_dir" yaml:"out_dir"`
	StrictPlaceholders bool   `toml:"strict_placeholders" yaml:"strict_placeholders"`
}

type LintConfig struct {
	// Enabled is a pointer so an absent key keeps the default.
	Enabled *bool    `toml:"enabled" yaml:"enabled"`
	Kinds   []string `toml:"kinds" yaml:"kinds"`
}

// LintEnabled reports whether the naming analyzer runs.
func (c LintConfig) LintEnabled() bool { return c.Enabled == nil || *c.Enabled }

// Default values applied to keys the manifest leaves out.
const (
	DefaultInclude = "**/*.decl"
	DefaultMarker  = "ExtendAttribute"
	DefaultTarget  = "csharp"
	DefaultOutDir  = "generated"
)

// Default returns the configuration used when no manifest exists.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if len(c.Sources.Include) == 0 {
		c.Sources.Include = []string{DefaultInclude}
	}
	if c.Generator.Marker == "" {
		c.Generator.Marker = DefaultMarker
	}
	if c.Generator.Target == "" {
		c.Generator.Target = DefaultTarget
	}
	if c.Generator.OutDir == "" {
		c.Generator.OutDir = DefaultOutDir
	}
	if len(c.Lint.Kinds) == 0 {
		c.Lint.Kinds = []string{"class", "struct", "enum"}
	}
}

// Manifest is a loaded project manifest.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Load reads the manifest at path; the format follows the file extension.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = decodeYAML(path, data)
	default:
		cfg, err = decodeTOML(path, data)
	}
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

func decodeTOML(path string, data []byte) (Config, error) {
	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, &ManifestError{Path: path, Msg: "failed to parse TOML", Err: err}
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, &ManifestError{Path: path, Msg: "missing [package].name"}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, &ManifestError{Path: path, Msg: fmt.Sprintf("unknown key %q", undecoded[0].String())}
	}
	return cfg, nil
}

func decodeYAML(path string, data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, &ManifestError{Path: path, Msg: "failed to parse YAML", Err: err}
	}
	if strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, &ManifestError{Path: path, Msg: "missing package.name"}
	}
	return cfg, nil
}

func (c *Config) validate(path string) error {
	for _, pattern := range append(append([]string(nil), c.Sources.Include...), c.Sources.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return &ManifestError{Path: path, Msg: fmt.Sprintf("invalid source pattern %q", pattern)}
		}
	}
	return nil
}

// Discover finds the manifest above startDir and loads it. Without a manifest
// it returns the defaults rooted at startDir and ok=false.
func Discover(startDir string) (m *Manifest, ok bool, err error) {
	path, found, err := FindManifest(startDir)
	if err != nil {
		return nil, false, err
	}
	if !found {
		root, err := filepath.Abs(startDir)
		if err != nil {
			return nil, false, err
		}
		return &Manifest{Root: root, Config: Default()}, false, nil
	}
	m, err = Load(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// Template is written by `extgen init`.
const Template = `[package]
name = %q

[sources]
include = ["**/*.decl"]
exclude = []

[generator]
marker = "ExtendAttribute"
marker_namespace = ""
target = "csharp"
templates_dir = ""
out_dir = "generated"
strict_placeholders = false

[lint]
enabled = true
kinds = ["class", "struct", "enum"]
`
