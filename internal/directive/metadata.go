package directive

import (
	"strconv"

	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/entity"
)

// collectMetadata reads every `[Name(k=v, ...)]` annotation attached
// to a definition node into the entity.Metadata slice ClassType and
// InterfaceType carry verbatim, per spec section 4.4's "attach
// metadata and flags" step. Each KindMetadataAnnotation node's Name is
// the annotation name; its Kids are KindAttribute nodes whose own Name
// is the argument key and StringValue the argument value (a bare
// argument, e.g. `[RecordLike]`, has no Kids).
func collectMetadata(ctx *Context, nodes []ast.NodeID) []entity.Metadata {
	out := make([]entity.Metadata, 0, len(nodes))
	for _, id := range nodes {
		n := ctx.Tree.Get(id)
		if n == nil {
			continue
		}
		m := entity.Metadata{Name: n.Name}
		if len(n.Kids) > 0 {
			m.Args = make(map[string]string, len(n.Kids))
			for _, argID := range n.Kids {
				arg := ctx.Tree.Get(argID)
				if arg == nil {
					continue
				}
				m.Args[arg.Name] = arg.StringValue
			}
		}
		out = append(out, m)
	}
	return out
}

func findMetadata(meta []entity.Metadata, name string) (entity.Metadata, bool) {
	for _, m := range meta {
		if m.Name == name {
			return m, true
		}
	}
	return entity.Metadata{}, false
}

// parseExternalSlots reads the `slots="N"` pair a `[whack_external]`
// annotation requires, and the optional `local` flag.
func parseExternalSlots(m entity.Metadata) (count int, local bool) {
	if s, ok := m.Args["slots"]; ok {
		if n, err := strconv.Atoi(s); err == nil {
			count = n
		}
	}
	_, local = m.Args["local"]
	return
}

// parseEventInfo reads an `[Event(name=, bubbles=, type=)]` entry.
// Type is left unresolved (Nil); neither the class nor the interface
// subverifier resolves it in a later phase.
func parseEventInfo(m entity.Metadata) entity.EventInfo {
	return entity.EventInfo{
		Name:    m.Args["name"],
		Bubbles: m.Args["bubbles"] == "true",
	}
}
