package config

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed cue/compiler-options.cue
var compilerOptionsCUE string

// schemaValidator lazily compiles the embedded CUE schema once and
// reuses it for every CompilerOptions document validated over the
// process's lifetime, mirroring the teacher's global-singleton
// validator (one CUE context is comparatively expensive to build).
type schemaValidator struct {
	ctx        *cue.Context
	definition cue.Value
}

var (
	globalValidator *schemaValidator
	validatorOnce   sync.Once
	validatorErr    error
)

func getValidator() (*schemaValidator, error) {
	validatorOnce.Do(func() {
		ctx := cuecontext.New()
		schema := ctx.CompileString(compilerOptionsCUE)
		if schema.Err() != nil {
			validatorErr = fmt.Errorf("config: failed to compile embedded schema: %w", schema.Err())
			return
		}
		def := schema.LookupPath(cue.ParsePath("#CompilerOptions"))
		if def.Err() != nil {
			validatorErr = fmt.Errorf("config: schema missing #CompilerOptions: %w", def.Err())
			return
		}
		globalValidator = &schemaValidator{ctx: ctx, definition: def}
	})
	return globalValidator, validatorErr
}

// validateDocument unifies a decoded YAML document against
// #CompilerOptions, surfacing every unification/incompleteness error
// CUE reports rather than stopping at the first one.
func validateDocument(doc map[string]interface{}) error {
	v, err := getValidator()
	if err != nil {
		return err
	}

	dataValue := v.ctx.Encode(doc)
	if dataValue.Err() != nil {
		return fmt.Errorf("config: failed to encode document: %w", dataValue.Err())
	}

	unified := v.definition.Unify(dataValue)
	if unified.Err() != nil {
		return formatValidationError(unified.Err())
	}
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var msgs []string
	for _, e := range errors.Errors(err) {
		msgs = append(msgs, e.Error())
	}
	if len(msgs) == 0 {
		return fmt.Errorf("config: validation failed: %w", err)
	}
	joined := msgs[0]
	for _, m := range msgs[1:] {
		joined += "; " + m
	}
	return fmt.Errorf("config: validation failed: %s", joined)
}
