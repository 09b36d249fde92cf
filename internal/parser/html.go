package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/filingest/internal/elements"
	"github.com/dgallion1/filingest/internal/htmltag"
	"github.com/dgallion1/filingest/internal/outline"
	"github.com/dgallion1/filingest/internal/steps"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML filings. The document body is scanned into a
// flat sequence of leaf blocks, classified and repaired by the processing
// steps, then folded into a section outline.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*outline.Outline, error) {
	title, els, err := p.ParseElements(r)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = stripExt(filename)
	}
	return outline.Build(title, els), nil
}

// ParseElements runs the scan and the processing steps, returning the
// document title and the final element sequence. The sync parse endpoint
// uses this directly so callers can inspect the elements themselves.
func (p *HTMLParser) ParseElements(r io.Reader) (string, []elements.SemanticElement, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", nil, fmt.Errorf("parse html: %w", err)
	}

	root := findBody(doc)
	if root == nil {
		root = doc
	}

	var blocks []*htmltag.Tag
	collectBlocks(root, &blocks)

	els := make([]elements.SemanticElement, len(blocks))
	for i, b := range blocks {
		els[i] = elements.NewUndeterminedElement(b)
	}
	els = steps.Run(els, steps.Default()...)

	return findTitle(doc), els, nil
}

// collectBlocks flattens the tree into leaf content blocks in document
// order. A node whose text is spread over several element children is
// descended into (the split-title case lives there); a node carrying its
// own text, or wrapping a single inline run, is a block itself.
func collectBlocks(n *html.Node, out *[]*htmltag.Tag) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "script", "style", "title", "head", "nav":
			continue
		}
		if isHeadingName(c.Data) {
			*out = append(*out, htmltag.NewTag(c))
			continue
		}
		if !bearsText(c) {
			continue
		}
		if hasDirectText(c) {
			*out = append(*out, htmltag.NewTag(c))
			continue
		}
		kids := textBearingChildren(c)
		if len(kids) == 1 && isInlineName(kids[0].Data) {
			*out = append(*out, htmltag.NewTag(c))
			continue
		}
		collectBlocks(c, out)
	}
}

func isHeadingName(name string) bool {
	return len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6'
}

func isInlineName(name string) bool {
	switch name {
	case "span", "font", "b", "strong", "i", "em", "u", "a", "sup", "sub":
		return true
	}
	return false
}

// hasDirectText reports whether the node has a non-whitespace text node as
// a direct child.
func hasDirectText(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return true
		}
	}
	return false
}

// bearsText reports whether the subtree contains any non-whitespace text.
func bearsText(n *html.Node) bool {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data) != ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if bearsText(c) {
			return true
		}
	}
	return false
}

func textBearingChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && bearsText(c) {
			out = append(out, c)
		}
	}
	return out
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return strings.TrimSpace(htmltag.NewTag(n).Text())
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
