package outline

import (
	"strings"
)

// Markdown renders the outline as a markdown document. Heading depth
// follows tree depth, not the raw classification level, so style-derived
// levels still render as a sane hierarchy.
func (o *Outline) Markdown() string {
	var b strings.Builder
	if o.Title != "" {
		b.WriteString("# ")
		b.WriteString(o.Title)
		b.WriteString("\n")
	}
	writeSections(&b, o.Sections, 2)
	return b.String()
}

func writeSections(b *strings.Builder, secs []*Section, depth int) {
	if depth > 6 {
		depth = 6
	}
	for _, s := range secs {
		if s.Heading != "" {
			b.WriteString("\n")
			b.WriteString(strings.Repeat("#", depth))
			b.WriteString(" ")
			b.WriteString(s.Heading)
			b.WriteString("\n")
		}
		if s.Text != "" {
			b.WriteString("\n")
			b.WriteString(s.Text)
			b.WriteString("\n")
		}
		writeSections(b, s.Children, depth+1)
	}
}
