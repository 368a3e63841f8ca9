package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_DedupBySeverityAndOffset(t *testing.T) {
	s := NewSink()
	loc := Loc{CompilationUnit: "a.as", Offset: 10}

	s.Add(KindCannotExtendFinalClass, loc, "Foo")
	s.Add(KindCannotExtendFinalClass, loc, "Bar") // same offset, same severity: dropped
	s.AddWithSeverity(KindUnused, SeverityWarning, loc, "x")

	got := s.ForUnit("a.as")
	require.Len(t, got, 2)
	assert.Equal(t, KindCannotExtendFinalClass, got[0].Kind)
	assert.Equal(t, []string{"Foo"}, got[0].Args)
	assert.Equal(t, SeverityWarning, got[1].Severity)
}

func TestSink_ErrorAndWarningCoexistAtSameOffset(t *testing.T) {
	s := NewSink()
	loc := Loc{CompilationUnit: "a.as", Offset: 5}

	s.Add(KindNotAClass, loc)                                  // error
	s.AddWithSeverity(KindUnused, SeverityWarning, loc, "x")    // warning, same offset

	require.Len(t, s.ForUnit("a.as"), 2)
}

func TestSink_HasErrors(t *testing.T) {
	s := NewSink()
	assert.False(t, s.HasErrors())

	s.AddWithSeverity(KindUnused, SeverityWarning, Loc{CompilationUnit: "a.as"})
	assert.False(t, s.HasErrors())

	s.Add(KindNotAClass, Loc{CompilationUnit: "a.as", Offset: 1})
	assert.True(t, s.HasErrors())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "MustOverrideAMethod", KindMustOverrideAMethod.String())
	assert.Equal(t, SeverityWarning, KindUnused.DefaultSeverity())
	assert.Equal(t, SeverityError, KindCannotExtendFinalClass.DefaultSeverity())
}
