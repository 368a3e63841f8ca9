package entity

import "strconv"

// Arena owns every Entity created during a verification run, keyed by
// Handle. No entity is ever removed from an Arena; invalidation
// replaces an entity's stored value with an InvalidationEntity rather
// than deallocating it, so that Handles captured elsewhere (a node's
// node->entity mapping, a class's known_subclasses) remain valid
// lookups instead of dangling references.
type Arena struct {
	entities []Entity

	// substitutionCache interns TypeAfterSubstitution entities so that
	// applying the same type arguments to the same generic origin
	// twice yields the same Handle (e.g. two `Vector.<int>` mentions).
	substitutionCache map[string]Handle
}

// NewArena creates an empty arena. Index 0 is reserved so the zero
// Handle (Nil) never aliases a real entity.
func NewArena() *Arena {
	a := &Arena{
		entities:          make([]Entity, 1),
		substitutionCache: make(map[string]Handle),
	}
	return a
}

// Alloc stores e and returns a fresh Handle referencing it.
func (a *Arena) Alloc(e Entity) Handle {
	a.entities = append(a.entities, e)
	return Handle{index: uint32(len(a.entities) - 1)}
}

// Get dereferences h. Looking up Nil or an out-of-range handle returns
// nil, which callers treat the same as an absent entity.
func (a *Arena) Get(h Handle) Entity {
	if h.IsNil() || int(h.index) >= len(a.entities) {
		return nil
	}
	return a.entities[h.index]
}

// Replace overwrites the entity stored at h, used to invalidate a
// definition in place (h becomes an InvalidationEntity) while every
// existing reference to h observes the replacement.
func (a *Arena) Replace(h Handle, e Entity) {
	if h.IsNil() || int(h.index) >= len(a.entities) {
		return
	}
	a.entities[h.index] = e
}

// Invalidate replaces the entity at h with an InvalidationEntity
// carrying cause for diagnostics/logging.
func (a *Arena) Invalidate(h Handle, cause string) {
	a.Replace(h, InvalidationEntity{Cause: cause})
}

// InternSubstitution returns the Handle for `origin<args...>`,
// allocating a new TypeAfterSubstitution the first time this exact
// (origin, args) pair is requested and reusing it thereafter.
func (a *Arena) InternSubstitution(origin Handle, args []Handle) Handle {
	key := substitutionKey(origin, args)
	if h, ok := a.substitutionCache[key]; ok {
		return h
	}
	h := a.Alloc(&TypeAfterSubstitution{Origin: origin, Args: append([]Handle(nil), args...)})
	a.substitutionCache[key] = h
	return h
}

func substitutionKey(origin Handle, args []Handle) string {
	s := strconv.FormatUint(uint64(origin.index), 36)
	for _, arg := range args {
		s += "," + strconv.FormatUint(uint64(arg.index), 36)
	}
	return s
}
