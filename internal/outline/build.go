package outline

import (
	"github.com/dgallion1/filingest/internal/elements"
)

// Build folds a classified element sequence into a section tree. Titles
// open sections nested by level; every other element's text attaches to the
// section currently on top of the stack.
func Build(title string, els []elements.SemanticElement) *Outline {
	root := &Section{Level: -1}
	stack := []*Section{root}

	for _, el := range els {
		if t, ok := el.(*elements.TitleElement); ok {
			sec := &Section{Heading: t.Text(), Level: t.Level()}
			for len(stack) > 1 && stack[len(stack)-1].Level >= t.Level() {
				stack = stack[:len(stack)-1]
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, sec)
			stack = append(stack, sec)
			continue
		}

		text := el.Text()
		if text == "" {
			continue
		}
		top := stack[len(stack)-1]
		if top.Text != "" {
			top.Text += "\n\n" + text
		} else {
			top.Text = text
		}
	}

	o := &Outline{Title: title, Sections: root.Children}
	// A document with no headings still gets its text surfaced.
	if len(o.Sections) == 0 && root.Text != "" {
		o.Sections = []*Section{{Text: root.Text}}
	}
	return o
}
