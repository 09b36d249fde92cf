// Package elements defines the closed set of semantic element kinds the
// pipeline moves between processing steps.
package elements

import (
	"fmt"

	"github.com/dgallion1/filingest/internal/htmltag"
)

// SemanticElement is one item of the classified element sequence. The set
// of implementations is closed: steps distinguish kinds by type switch, and
// only TitleElement carries a heading level.
type SemanticElement interface {
	Tag() *htmltag.Tag
	Text() string
	Log() *ProcessingLog

	semanticElement()
}

type base struct {
	tag *htmltag.Tag
	log *ProcessingLog
}

func newBase(tag *htmltag.Tag, log *ProcessingLog) base {
	if log == nil {
		log = NewProcessingLog()
	}
	return base{tag: tag, log: log}
}

func (b *base) Tag() *htmltag.Tag  { return b.tag }
func (b *base) Text() string       { return b.tag.Text() }
func (b *base) Log() *ProcessingLog { return b.log }

func (b *base) semanticElement() {}

// TitleElement is a section or sub-section heading. Level 0 is the
// outermost heading of the document; larger levels nest deeper.
type TitleElement struct {
	base
	level int
}

// NewTitleElement builds a title over the given tag. A nil log allocates a
// fresh one. The origin label records which step produced the element.
func NewTitleElement(tag *htmltag.Tag, log *ProcessingLog, level int, origin string) *TitleElement {
	e := &TitleElement{base: newBase(tag, log), level: level}
	e.log.AddItem(fmt.Sprintf("TitleElement (level %d)", level), origin)
	return e
}

func (e *TitleElement) Level() int { return e.level }

// TextElement is a block of body text.
type TextElement struct {
	base
}

func NewTextElement(tag *htmltag.Tag, log *ProcessingLog, origin string) *TextElement {
	e := &TextElement{base: newBase(tag, log)}
	e.log.AddItem("TextElement", origin)
	return e
}

// IrrelevantElement is a block with no semantic content (typically empty
// after whitespace normalization). Kept as a variant rather than silently
// dropped at classification time so pruning stays a visible pipeline step.
type IrrelevantElement struct {
	base
}

func NewIrrelevantElement(tag *htmltag.Tag, log *ProcessingLog, origin string) *IrrelevantElement {
	e := &IrrelevantElement{base: newBase(tag, log)}
	e.log.AddItem("IrrelevantElement", origin)
	return e
}

// UndeterminedElement is the initial kind of every scanned block before
// classification decides what it is.
type UndeterminedElement struct {
	base
}

func NewUndeterminedElement(tag *htmltag.Tag) *UndeterminedElement {
	return &UndeterminedElement{base: newBase(tag, nil)}
}
