package htmltag

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// MergedTitleTag is the element name reserved for the synthetic node that
// groups the fragments of a merged title under a single parent. It is not a
// valid HTML element name, so it can never collide with a tag parsed from
// real input.
const MergedTitleTag = "filingest-merged-title"

// Tag wraps a single node of the parsed markup tree. It is the only way the
// rest of the pipeline touches the tree: name, parent, derived text, and
// node identity all go through it.
type Tag struct {
	node *html.Node

	text     string
	textDone bool
}

// NewTag wraps an element node of an x/net/html tree.
func NewTag(n *html.Node) *Tag {
	return &Tag{node: n}
}

// Name returns the element name, e.g. "div" or "span".
func (t *Tag) Name() string {
	return t.node.Data
}

// Parent returns the nearest enclosing element, or nil if the node is
// detached or sits directly under the document root.
func (t *Tag) Parent() *Tag {
	for p := t.node.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return NewTag(p)
		}
	}
	return nil
}

// SameNode reports whether two handles wrap the same underlying tree node.
// Handles are cheap throwaway wrappers, so == on Tags is meaningless;
// identity lives with the node itself.
func (t *Tag) SameNode(other *Tag) bool {
	return other != nil && t.node == other.node
}

// Children returns handles for the direct element children, in order.
func (t *Tag) Children() []*Tag {
	var out []*Tag
	for c := t.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, NewTag(c))
		}
	}
	return out
}

// Attr returns the value of the named attribute, or "".
func (t *Tag) Attr(name string) string {
	for _, a := range t.node.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// StyleProperty extracts a single property value from the style attribute,
// e.g. StyleProperty("font-weight") on style="font-weight:bold;" -> "bold".
func (t *Tag) StyleProperty(prop string) string {
	style := t.Attr("style")
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), prop) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// Text returns the whitespace-normalized text content of the subtree. The
// result is derived on first use and cached; for the synthetic merged-title
// node it is assembled from the member fragments (see joinFragments) rather
// than from raw text nodes.
func (t *Tag) Text() string {
	if !t.textDone {
		if t.node.Data == MergedTitleTag {
			t.text = mergedText(t.node)
		} else {
			t.text = normalize(rawText(t.node))
		}
		t.textDone = true
	}
	return t.text
}

// WrapTagsInNewParent detaches the given tags from the source tree and
// reparents them, in order, under a new node with the given element name.
func WrapTagsInNewParent(name string, tags []*Tag) *Tag {
	parent := &html.Node{Type: html.ElementNode, Data: name}
	for _, t := range tags {
		if t.node.Parent != nil {
			t.node.Parent.RemoveChild(t.node)
		}
		parent.AppendChild(t.node)
	}
	return NewTag(parent)
}

func rawText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

// normalize collapses all whitespace runs to single spaces and trims.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func mergedText(n *html.Node) string {
	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := NewTag(c).Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return joinFragments(parts)
}

// joinFragments concatenates the texts of merged title fragments. Fragments
// produced by mid-word markup splits glue back together without a space
// ("FINANCI" + "AL INFORMATION"), while fragments that each start cleanly
// keep a space at the seam ("AL STATEMENTS" + "AND NOTES"). The seam is
// treated as a mid-word split when both boundary characters are letters and
// the right side opens with a word fragment of at most two letters.
func joinFragments(parts []string) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 && seamNeedsSpace(parts[i-1], p) {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return b.String()
}

func seamNeedsSpace(left, right string) bool {
	l, _ := utf8.DecodeLastRuneInString(left)
	r, _ := utf8.DecodeRuneInString(right)
	if !unicode.IsLetter(l) || !unicode.IsLetter(r) {
		return true
	}
	word := right
	if i := strings.IndexFunc(right, unicode.IsSpace); i >= 0 {
		word = right[:i]
	}
	return utf8.RuneCountInString(word) > 2
}
