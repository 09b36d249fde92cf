// Package steps contains the ordered processing passes that turn a freshly
// scanned element sequence into its final classified form.
package steps

import (
	"github.com/dgallion1/filingest/internal/elements"
)

// Step is a single pass over the element sequence. A step returns a fresh
// sequence and never mutates the input slice.
type Step interface {
	Name() string
	Process(els []elements.SemanticElement) []elements.SemanticElement
}

// Run applies steps in order.
func Run(els []elements.SemanticElement, steps ...Step) []elements.SemanticElement {
	for _, s := range steps {
		els = s.Process(els)
	}
	return els
}

// Default returns the standard pipeline for a single document. Classifier
// state is per-document, so build a fresh pipeline per parse.
func Default() []Step {
	return []Step{
		NewTitleClassifier(),
		TitleMerger{},
		IrrelevantPruner{},
	}
}
