package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/filingest/internal/outline"
)

// TextParser handles plain-text exhibits (older EDGAR filings and press
// releases). Blank lines delimit paragraphs; each paragraph becomes a
// loose-text section.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*outline.Outline, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	o := &outline.Outline{Title: stripExt(filename)}
	var current strings.Builder

	emit := func() {
		if current.Len() == 0 {
			return
		}
		o.Sections = append(o.Sections, &outline.Section{Text: current.String()})
		current.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			emit()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	emit()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return o, nil
}
