// Package config loads .jgen.yaml, the per project settings of jgen.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/jgen/codegen"
)

// FileName is looked up in the directory of the edited file and its
// parents.
const FileName = ".jgen.yaml"

// JavaSrcEnv names a source archive, usually the JDK's src.zip, that is
// indexed in addition to the configured ones.
const JavaSrcEnv = "JAVA_SRC"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// Indent is one level of indentation of generated code.
	Indent          string   `yaml:"indent,omitempty"`
	ImplicitImports []string `yaml:"implicit_imports,omitempty"`
	NameHints       bool     `yaml:"name_hints,omitempty"`
	// SourceRoots are directories whose .java files are indexed.
	// Relative entries are relative to the config file.
	SourceRoots    []string `yaml:"source_roots,omitempty"`
	SourceArchives []string `yaml:"source_archives,omitempty"`
	LogLevel       string   `yaml:"log_level,omitempty"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

var logLevels = map[string]int{
	"none":     -4,
	"critical": -3,
	"error":    -2,
	"warning":  -1,
	"notice":   0,
	"info":     1,
	"debug":    2,
}

func Default() *Config {
	return &Config{Indent: "    ", LogLevel: "notice"}
}

// Load reads the config at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidConfig, path, err)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	cfg.SourceRoots = resolvePaths(dir, cfg.SourceRoots)
	cfg.SourceArchives = resolvePaths(dir, cfg.SourceArchives)
	return cfg, nil
}

func resolvePaths(dir string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		out = append(out, p)
	}
	return out
}

func (c *Config) Validate() error {
	if c.Indent == "" || strings.Trim(c.Indent, " \t") != "" {
		return fmt.Errorf("%w: indent %q is not made of spaces or tabs", ErrInvalidConfig, c.Indent)
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// Find returns the nearest FileName in dir or one of its parents.
func Find(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Resolve loads explicit when it is set, else the config nearest to dir,
// else the defaults. The JAVA_SRC archive is appended in every case.
func Resolve(explicit, dir string) (*Config, error) {
	cfg := Default()
	path := explicit
	if path == "" {
		path, _ = Find(dir)
	}
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if src := os.Getenv(JavaSrcEnv); src != "" {
		cfg.SourceArchives = append(cfg.SourceArchives, src)
	}
	return cfg, nil
}

// Verbosity maps LogLevel to a commonlog verbosity.
func (c *Config) Verbosity() int {
	return logLevels[strings.ToLower(c.LogLevel)]
}

// Generator returns the generation options the config asks for.
func (c *Config) Generator() codegen.Options {
	return codegen.Options{
		Indent:          c.Indent,
		ImplicitImports: c.ImplicitImports,
		NameHints:       c.NameHints,
	}
}
