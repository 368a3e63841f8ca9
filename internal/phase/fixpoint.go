package phase

// DefaultMaxCycles is the default MAX_CYCLES bound on fixpoint rounds,
// matching spec's suggested cap (section 4.1).
const DefaultMaxCycles = 512

// Map tracks the current Phase of every node, keyed by a stable node
// identity K (an ast.NodeID in practice, but kept generic here so this
// package carries no dependency on the syntax-tree representation).
// Nodes not yet present default to Alpha, the phase every node starts
// verification in.
type Map[K comparable] struct {
	phases map[K]Phase
}

// NewMap creates an empty phase map.
func NewMap[K comparable]() *Map[K] {
	return &Map[K]{phases: make(map[K]Phase)}
}

// Get returns the current phase of a node, defaulting to Alpha.
func (m *Map[K]) Get(k K) Phase {
	if p, ok := m.phases[k]; ok {
		return p
	}
	return Alpha
}

// Set assigns a node's phase. Transitions must be monotone: Set panics
// if asked to move a node backward, since that would violate the
// "phase sequence is a prefix of Alpha..Finished" testable property.
func (m *Map[K]) Set(k K, p Phase) {
	if cur, ok := m.phases[k]; ok && p < cur {
		panic("phase: attempted non-monotone transition")
	}
	m.phases[k] = p
}

// Advance moves a node to its next phase and returns it. Used by
// subverifiers that finish the work for their current phase and must
// defer into the next one.
func (m *Map[K]) Advance(k K) Phase {
	next := m.Get(k).Next()
	m.Set(k, next)
	return next
}

// Finish marks a node Finished.
func (m *Map[K]) Finish(k K) {
	m.Set(k, Finished)
}

// IsFinished reports whether a node has reached Finished.
func (m *Map[K]) IsFinished(k K) bool {
	return m.Get(k) == Finished
}

// Each round runs verify() once. verify should attempt to make progress and
// return:
//   - nil, if the unit of work is now Finished (or otherwise does not
//     need revisiting),
//   - a Defer, if at least one part of the work could not complete this
//     round and must be revisited,
//   - any other error, which is an ambient (non-semantic) failure and
//     aborts the fixpoint immediately.
//
// Fixpoint calls verify up to maxCycles times. It returns the number of
// rounds actually run and whether the cap was reached with work still
// outstanding (the caller is expected to attach a ReachedMaximumCycles
// diagnostic in that case).
func Fixpoint(maxCycles int, verify func() error) (cycles int, reachedMax bool, err error) {
	if maxCycles <= 0 {
		maxCycles = DefaultMaxCycles
	}
	for cycles = 1; cycles <= maxCycles; cycles++ {
		verr := verify()
		if verr == nil {
			return cycles, false, nil
		}
		if !IsDefer(verr) {
			return cycles, false, verr
		}
	}
	return cycles - 1, true, nil
}
