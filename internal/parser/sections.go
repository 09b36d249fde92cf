package parser

import (
	"strings"

	"github.com/dgallion1/filingest/internal/outline"
)

// sectionStack folds a linear stream of heading and text events into a
// nested Section tree. Shared by the parsers whose source format exposes
// explicit heading levels (markdown, docx).
type sectionStack struct {
	root  *outline.Section
	stack []*outline.Section
	text  strings.Builder
}

func newSectionStack() *sectionStack {
	root := &outline.Section{Level: 0}
	return &sectionStack{root: root, stack: []*outline.Section{root}}
}

// Heading closes the buffered text and opens a section at the given level
// (1-based, as in h1..h6).
func (s *sectionStack) Heading(level int, heading string) {
	s.flush()
	sec := &outline.Section{Heading: heading, Level: level}
	for len(s.stack) > 1 && s.stack[len(s.stack)-1].Level >= level {
		s.stack = s.stack[:len(s.stack)-1]
	}
	parent := s.stack[len(s.stack)-1]
	parent.Children = append(parent.Children, sec)
	s.stack = append(s.stack, sec)
}

// Text buffers body text under the current section.
func (s *sectionStack) Text(t string) {
	t = strings.TrimSpace(t)
	if t == "" {
		return
	}
	if s.text.Len() > 0 {
		s.text.WriteString("\n\n")
	}
	s.text.WriteString(t)
}

func (s *sectionStack) flush() {
	t := strings.TrimSpace(s.text.String())
	if t != "" {
		top := s.stack[len(s.stack)-1]
		if top.Text != "" {
			top.Text += "\n\n" + t
		} else {
			top.Text = t
		}
	}
	s.text.Reset()
}

// Finish returns the accumulated sections. A document with no headings at
// all comes back as a single loose-text section.
func (s *sectionStack) Finish() []*outline.Section {
	s.flush()
	if len(s.root.Children) == 0 && s.root.Text != "" {
		return []*outline.Section{{Text: s.root.Text}}
	}
	return s.root.Children
}
