package steps

import (
	"github.com/dgallion1/filingest/internal/elements"
)

// IrrelevantPruner drops IrrelevantElements from the sequence. Runs last so
// earlier steps still see the original adjacency of real content blocks.
type IrrelevantPruner struct{}

func (IrrelevantPruner) Name() string { return "IrrelevantPruner" }

func (IrrelevantPruner) Process(els []elements.SemanticElement) []elements.SemanticElement {
	out := make([]elements.SemanticElement, 0, len(els))
	for _, el := range els {
		if _, ok := el.(*elements.IrrelevantElement); ok {
			continue
		}
		out = append(out, el)
	}
	return out
}
