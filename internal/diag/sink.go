package diag

import "fmt"

// Loc is a source-location handle. CompilationUnit identifies the unit
// the location belongs to; Offset is a byte offset used for de-dup.
type Loc struct {
	CompilationUnit string
	Offset          int
	Line            int
	Column          int
}

func (l Loc) String() string {
	return fmt.Sprintf("%s:%d:%d", l.CompilationUnit, l.Line, l.Column)
}

// Diagnostic is the structured (kind, location, arguments) tuple recorded
// on a compilation unit. Diagnostics are never thrown across the engine
// boundary; they are attached to the sink and verification continues.
type Diagnostic struct {
	Kind     Kind
	Loc      Loc
	Severity Severity
	Args     []string
}

func (d Diagnostic) String() string {
	if len(d.Args) == 0 {
		return fmt.Sprintf("%s: %s", d.Loc, d.Kind)
	}
	return fmt.Sprintf("%s: %s %v", d.Loc, d.Kind, d.Args)
}

// Sink records diagnostics keyed by compilation unit and guards against
// emitting more than one error or one warning per source offset, matching
// the prevent_equal_offset_error/warning de-dup contract of the core.
type Sink struct {
	byUnit map[string][]Diagnostic
	seen   map[string]map[int]bool // unit -> offset -> any diagnostic already recorded at this severity class
}

// NewSink creates an empty diagnostic sink.
func NewSink() *Sink {
	return &Sink{
		byUnit: make(map[string][]Diagnostic),
		seen:   make(map[string]map[int]bool),
	}
}

// Add records a diagnostic unless an error (or warning) was already
// recorded at the exact same offset within the same compilation unit.
// Errors and warnings are de-duplicated independently of one another:
// an offset may carry at most one error AND at most one warning.
func (s *Sink) Add(kind Kind, loc Loc, args ...string) {
	s.add(Diagnostic{Kind: kind, Loc: loc, Severity: kind.DefaultSeverity(), Args: args})
}

// AddWithSeverity records a diagnostic whose severity has been overridden
// by CompilerOptions (e.g. a warning promoted to an error).
func (s *Sink) AddWithSeverity(kind Kind, sev Severity, loc Loc, args ...string) {
	s.add(Diagnostic{Kind: kind, Loc: loc, Severity: sev, Args: args})
}

func (s *Sink) add(d Diagnostic) {
	unit := d.Loc.CompilationUnit
	key := d.Loc.Offset*2 + int(d.Severity)
	if s.seen[unit] == nil {
		s.seen[unit] = make(map[int]bool)
	}
	if s.seen[unit][key] {
		return
	}
	s.seen[unit][key] = true
	s.byUnit[unit] = append(s.byUnit[unit], d)
}

// ForUnit returns all diagnostics recorded for a compilation unit, in the
// order they were added.
func (s *Sink) ForUnit(unit string) []Diagnostic {
	return s.byUnit[unit]
}

// All returns every diagnostic recorded across all compilation units.
// Within a unit they keep the order they were added; the order of the
// units follows Go map iteration and is not defined.
func (s *Sink) All() []Diagnostic {
	var all []Diagnostic
	for _, ds := range s.byUnit {
		all = append(all, ds...)
	}
	return all
}

// HasErrors reports whether any recorded diagnostic is an error.
func (s *Sink) HasErrors() bool {
	for _, ds := range s.byUnit {
		for _, d := range ds {
			if d.Severity == SeverityError {
				return true
			}
		}
	}
	return false
}

// Count returns the number of diagnostics recorded for a unit.
func (s *Sink) Count(unit string) int {
	return len(s.byUnit[unit])
}
