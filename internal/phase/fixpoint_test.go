package phase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_DefaultsToAlphaAndAdvancesMonotonically(t *testing.T) {
	m := NewMap[string]()
	assert.Equal(t, Alpha, m.Get("n1"))

	assert.Equal(t, Beta, m.Advance("n1"))
	assert.Equal(t, Delta, m.Advance("n1"))
	m.Finish("n1")
	assert.True(t, m.IsFinished("n1"))
}

func TestMap_Set_PanicsOnNonMonotoneTransition(t *testing.T) {
	m := NewMap[string]()
	m.Set("n1", Delta)
	assert.Panics(t, func() {
		m.Set("n1", Beta)
	})
}

func TestFixpoint_TerminatesWhenNoLongerDeferring(t *testing.T) {
	remaining := 3
	cycles, reachedMax, err := Fixpoint(10, func() error {
		remaining--
		if remaining <= 0 {
			return nil
		}
		return NewDefer()
	})
	require.NoError(t, err)
	assert.False(t, reachedMax)
	assert.Equal(t, 3, cycles)
}

func TestFixpoint_ReachesMaximumCycles(t *testing.T) {
	cycles, reachedMax, err := Fixpoint(5, func() error {
		return NewDefer()
	})
	require.NoError(t, err)
	assert.True(t, reachedMax)
	assert.Equal(t, 5, cycles)
}

func TestFixpoint_PropagatesAmbientError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := Fixpoint(5, func() error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunMachine_FollowsOrchestratorLifecycle(t *testing.T) {
	m := NewRunMachine()
	require.Equal(t, RunIdle, m.State())

	require.NoError(t, m.Fire(EventBegin))
	require.NoError(t, m.Fire(EventPackagesDeclared))
	require.NoError(t, m.Fire(EventDirectivesSettled))
	require.NoError(t, m.Fire(EventFunctionBodiesDrained))
	assert.Equal(t, RunFlushed, m.State())

	// Skipping a stage is rejected.
	m2 := NewRunMachine()
	require.NoError(t, m2.Fire(EventBegin))
	assert.Error(t, m2.Fire(EventDirectivesSettled))
}
