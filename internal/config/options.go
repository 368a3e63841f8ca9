// Package config loads and validates a project's verifier
// configuration (whack.config.yaml): target platform, strictness,
// the fixed-point engine's MAX_CYCLES bound, CONFIG:: constant
// defines, and source roots. Documents are validated against an
// embedded CUE schema before being decoded into CompilerOptions, the
// same two-step "unify then decode" shape the teacher's
// internal/validation package uses for its own YAML/JSON artifacts.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CompilerOptions is the fully-resolved configuration for one
// verification run, after defaults have been applied and the document
// has passed schema validation.
type CompilerOptions struct {
	Target           string            `yaml:"target"`
	Strict           bool              `yaml:"strict"`
	MaxCycles        int               `yaml:"maxCycles"`
	Defines          map[string]string `yaml:"defines"`
	SourcePath       []string          `yaml:"sourcePath"`
	WarningsAsErrors []string          `yaml:"warningsAsErrors"`

	// baseDir is the directory the config file lives in; SourcePath
	// entries are resolved relative to it. Empty when Options came from
	// Default() rather than Load().
	baseDir string
}

// Default returns the zero-configuration CompilerOptions, equivalent
// to validating an empty YAML document against the schema.
func Default() *CompilerOptions {
	return &CompilerOptions{
		Target:           "js",
		Strict:           false,
		MaxCycles:        512,
		Defines:          map[string]string{},
		SourcePath:       []string{"src"},
		WarningsAsErrors: []string{},
	}
}

// Load reads, schema-validates, and decodes the YAML configuration
// file at path.
func Load(path string) (*CompilerOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("invalid YAML: %w", err)}
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	if err := validateDocument(raw); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	opts := Default()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("decoding into CompilerOptions: %w", err)}
	}
	opts.baseDir = filepath.Dir(path)

	return opts, nil
}

// ResolvedSourcePaths returns SourcePath entries resolved against the
// config file's directory (or the current working directory, for
// options built via Default).
func (o *CompilerOptions) ResolvedSourcePaths() []string {
	base := o.baseDir
	resolved := make([]string, len(o.SourcePath))
	for i, p := range o.SourcePath {
		if filepath.IsAbs(p) {
			resolved[i] = p
			continue
		}
		resolved[i] = filepath.Join(base, p)
	}
	return resolved
}

// IsWarningPromoted reports whether kindName (diag.Kind.String()'s
// output) should be treated as an error: either Strict is set, or the
// name appears explicitly in WarningsAsErrors.
func (o *CompilerOptions) IsWarningPromoted(kindName string) bool {
	if o.Strict {
		return true
	}
	for _, n := range o.WarningsAsErrors {
		if n == kindName {
			return true
		}
	}
	return false
}
