package config

import "fmt"

// LoadError wraps a configuration-loading failure (missing file,
// invalid YAML, schema validation failure) with the path that caused
// it. This is an ambient Go-level error, never a diag.Sink
// diagnostic: a malformed config file prevents a run from starting at
// all, it is not a semantic finding about source code.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
