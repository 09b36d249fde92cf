package steps

import (
	"strconv"
	"strings"

	"github.com/dgallion1/filingest/internal/elements"
	"github.com/dgallion1/filingest/internal/htmltag"
)

const classifierOrigin = "TitleClassifier"

// styledLevelBase is the first level handed out to bold-styled titles.
// Heading tags own levels 0..5 (h1..h6); style-derived titles follow.
const styledLevelBase = 6

// TitleClassifier turns undetermined blocks into titles or body text.
// Heading tags map directly to levels; blocks whose text is entirely bold
// are titles too, with a level per distinct style signature in order of
// first appearance. Filings rarely use h-tags, so the styled path is the
// common one.
type TitleClassifier struct {
	styleLevels map[string]int
}

func NewTitleClassifier() *TitleClassifier {
	return &TitleClassifier{styleLevels: make(map[string]int)}
}

func (c *TitleClassifier) Name() string { return "TitleClassifier" }

func (c *TitleClassifier) Process(els []elements.SemanticElement) []elements.SemanticElement {
	out := make([]elements.SemanticElement, 0, len(els))
	for _, el := range els {
		und, ok := el.(*elements.UndeterminedElement)
		if !ok {
			out = append(out, el)
			continue
		}
		tag := und.Tag()

		if level, ok := headingLevel(tag.Name()); ok {
			out = append(out, elements.NewTitleElement(tag, und.Log(), level, classifierOrigin))
			continue
		}
		if strings.TrimSpace(und.Text()) == "" {
			out = append(out, elements.NewIrrelevantElement(tag, und.Log(), classifierOrigin))
			continue
		}
		if isBoldBlock(tag) {
			level := c.styledLevel(tag)
			out = append(out, elements.NewTitleElement(tag, und.Log(), level, classifierOrigin))
			continue
		}
		out = append(out, elements.NewTextElement(tag, und.Log(), classifierOrigin))
	}
	return out
}

// styledLevel assigns a stable level to each distinct bold style signature.
// Same signature, same level, so split fragments of one heading stay
// mergeable.
func (c *TitleClassifier) styledLevel(tag *htmltag.Tag) int {
	sig := styleSignature(tag)
	if level, ok := c.styleLevels[sig]; ok {
		return level
	}
	level := styledLevelBase + len(c.styleLevels)
	c.styleLevels[sig] = level
	return level
}

func styleSignature(tag *htmltag.Tag) string {
	size := tag.StyleProperty("font-size")
	if size == "" {
		for _, child := range tag.Children() {
			if s := child.StyleProperty("font-size"); s != "" {
				size = s
				break
			}
		}
	}
	return tag.Name() + "|" + size
}

func headingLevel(name string) (int, bool) {
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
		n, _ := strconv.Atoi(name[1:])
		return n - 1, true
	}
	return 0, false
}

// isBoldBlock reports whether all of a block's text sits in bold runs (or
// the block itself is bold).
func isBoldBlock(tag *htmltag.Tag) bool {
	if isBoldStyled(tag) {
		return true
	}
	bold := false
	for _, child := range tag.Children() {
		if strings.TrimSpace(child.Text()) == "" {
			continue
		}
		if !isBoldBlock(child) {
			return false
		}
		bold = true
	}
	return bold
}

func isBoldStyled(tag *htmltag.Tag) bool {
	switch tag.Name() {
	case "b", "strong":
		return true
	}
	switch weight := tag.StyleProperty("font-weight"); weight {
	case "bold", "bolder":
		return true
	default:
		if n, err := strconv.Atoi(weight); err == nil && n >= 600 {
			return true
		}
	}
	return false
}
