package steps

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/dgallion1/filingest/internal/elements"
	"github.com/dgallion1/filingest/internal/htmltag"
)

// fragmentTags builds sibling child elements under a shared parent and
// returns a handle per child. This is the shape the scanner produces for a
// heading split across inline runs.
func fragmentTags(parentName, childName string, texts ...string) []*htmltag.Tag {
	parent := &html.Node{Type: html.ElementNode, Data: parentName}
	tags := make([]*htmltag.Tag, 0, len(texts))
	for _, text := range texts {
		child := &html.Node{Type: html.ElementNode, Data: childName}
		child.AppendChild(&html.Node{Type: html.TextNode, Data: text})
		parent.AppendChild(child)
		tags = append(tags, htmltag.NewTag(child))
	}
	return tags
}

func titlesAt(level int, tags ...*htmltag.Tag) []elements.SemanticElement {
	els := make([]elements.SemanticElement, len(tags))
	for i, tag := range tags {
		els[i] = elements.NewTitleElement(tag, nil, level, "TitleClassifier")
	}
	return els
}

func elementTexts(els []elements.SemanticElement) []string {
	out := make([]string, len(els))
	for i, el := range els {
		out[i] = el.Text()
	}
	return out
}

func TestTitleMerger_MergesSplitHeading(t *testing.T) {
	tags := fragmentTags("div", "span", "PART I. FINANCI", "AL INFORMATION")
	els := titlesAt(6, tags...)

	out := TitleMerger{}.Process(els)

	require.Len(t, out, 1)
	title, ok := out[0].(*elements.TitleElement)
	require.True(t, ok)
	assert.Equal(t, "PART I. FINANCIAL INFORMATION", title.Text())
	assert.Equal(t, htmltag.MergedTitleTag, title.Tag().Name())
	assert.Equal(t, 6, title.Level())
}

func TestTitleMerger_MergesThreeFragments(t *testing.T) {
	tags := fragmentTags("div", "font", "ITEM 1. FINANCI", "AL STATEMENTS", "AND NOTES")
	els := titlesAt(7, tags...)

	out := TitleMerger{}.Process(els)

	require.Len(t, out, 1)
	assert.Equal(t, "ITEM 1. FINANCIAL STATEMENTS AND NOTES", out[0].Text())

	var messages []string
	for _, item := range out[0].Log().Items() {
		messages = append(messages, item.Message)
	}
	assert.Contains(t, messages, fmt.Sprintf("Merged 3 TitleElements: %q",
		[]string{"ITEM 1. FINANCI", "AL STATEMENTS", "AND NOTES"}))
}

func TestTitleMerger_SingleTitleUntouched(t *testing.T) {
	tags := fragmentTags("div", "span", "OVERVIEW")
	els := titlesAt(6, tags...)
	logLen := els[0].Log().Len()

	out := TitleMerger{}.Process(els)

	require.Len(t, out, 1)
	assert.Same(t, els[0], out[0])
	assert.Equal(t, logLen, out[0].Log().Len())
}

func TestTitleMerger_DifferentLevelsDoNotMerge(t *testing.T) {
	tags := fragmentTags("div", "span", "PART I. FINANCI", "AL INFORMATION")
	els := []elements.SemanticElement{
		elements.NewTitleElement(tags[0], nil, 6, "TitleClassifier"),
		elements.NewTitleElement(tags[1], nil, 7, "TitleClassifier"),
	}

	out := TitleMerger{}.Process(els)

	assert.Len(t, out, 2)
}

func TestTitleMerger_DifferentParentsDoNotMerge(t *testing.T) {
	left := fragmentTags("div", "span", "PART I. FINANCI")
	right := fragmentTags("div", "span", "AL INFORMATION")
	els := titlesAt(6, left[0], right[0])

	out := TitleMerger{}.Process(els)

	assert.Len(t, out, 2)
}

func TestTitleMerger_MissingParentDoesNotMerge(t *testing.T) {
	a := htmltag.NewTag(&html.Node{Type: html.ElementNode, Data: "span"})
	b := htmltag.NewTag(&html.Node{Type: html.ElementNode, Data: "span"})
	els := titlesAt(6, a, b)

	out := TitleMerger{}.Process(els)

	assert.Len(t, out, 2)
}

func TestTitleMerger_NonTitleBreaksRun(t *testing.T) {
	tags := fragmentTags("div", "span", "PART I. FINANCI", "between", "AL INFORMATION")
	els := []elements.SemanticElement{
		elements.NewTitleElement(tags[0], nil, 6, "TitleClassifier"),
		elements.NewTextElement(tags[1], nil, "TitleClassifier"),
		elements.NewTitleElement(tags[2], nil, 6, "TitleClassifier"),
	}

	out := TitleMerger{}.Process(els)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"PART I. FINANCI", "between", "AL INFORMATION"}, elementTexts(out))
}

func TestTitleMerger_SeparateContainerTitlesStayApart(t *testing.T) {
	// Two sibling divs, each a complete heading on its own. Both texts are
	// substantial and the seam is a letter on both sides, so the
	// container/container guard keeps them separate.
	tags := fragmentTags("body", "div", "Components of Results of Operations", "Revenue")
	els := titlesAt(6, tags...)

	out := TitleMerger{}.Process(els)

	require.Len(t, out, 2)
	assert.Equal(t, []string{"Components of Results of Operations", "Revenue"}, elementTexts(out))
}

func TestTitleMerger_ShortContainerFragmentsMerge(t *testing.T) {
	// "2023" is a lone short token, so the guard does not treat the pair
	// as two complete headings.
	tags := fragmentTags("body", "div", "Overview", "2023")
	els := titlesAt(6, tags...)

	out := TitleMerger{}.Process(els)

	require.Len(t, out, 1)
	assert.Equal(t, "Overview 2023", out[0].Text())
}

func TestTitleMerger_InlineRunSkipsContainerGuard(t *testing.T) {
	// The guard is container/container only; substantial inline fragments
	// with a letter seam still merge.
	tags := fragmentTags("div", "span", "MANAGEMENT'S DISCUSSION A", "ND ANALYSIS")
	els := titlesAt(6, tags...)

	out := TitleMerger{}.Process(els)

	require.Len(t, out, 1)
	assert.Equal(t, "MANAGEMENT'S DISCUSSION AND ANALYSIS", out[0].Text())
}

func TestTitleMerger_MixedSequencePreservesOrder(t *testing.T) {
	headingTags := fragmentTags("div", "span", "PART I. FINANCI", "AL INFORMATION")
	bodyTags := fragmentTags("body", "p", "Some body text.", "More body text.")
	els := []elements.SemanticElement{
		elements.NewTextElement(bodyTags[0], nil, "TitleClassifier"),
		elements.NewTitleElement(headingTags[0], nil, 6, "TitleClassifier"),
		elements.NewTitleElement(headingTags[1], nil, 6, "TitleClassifier"),
		elements.NewTextElement(bodyTags[1], nil, "TitleClassifier"),
	}

	out := TitleMerger{}.Process(els)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"Some body text.", "PART I. FINANCIAL INFORMATION", "More body text."}, elementTexts(out))
}

func TestTitleMerger_Idempotent(t *testing.T) {
	tags := fragmentTags("div", "span", "PART I. FINANCI", "AL INFORMATION")
	els := titlesAt(6, tags...)

	once := TitleMerger{}.Process(els)
	twice := TitleMerger{}.Process(once)

	assert.Equal(t, elementTexts(once), elementTexts(twice))
}

func TestTitleMerger_EmptyInput(t *testing.T) {
	out := TitleMerger{}.Process(nil)
	assert.Empty(t, out)
}

func TestTitleMerger_DoesNotMutateInput(t *testing.T) {
	tags := fragmentTags("div", "span", "PART I. FINANCI", "AL INFORMATION")
	els := titlesAt(6, tags...)
	first, second := els[0], els[1]

	TitleMerger{}.Process(els)

	assert.Same(t, first, els[0])
	assert.Same(t, second, els[1])
}

func TestMergeTitles_Empty(t *testing.T) {
	merged, err := MergeTitles(nil)
	require.EqualError(t, err, "cannot merge empty list of elements")
	assert.Nil(t, merged)
}

func TestMergeTitles_SingleReturnsSameElement(t *testing.T) {
	tags := fragmentTags("div", "span", "OVERVIEW")
	title := elements.NewTitleElement(tags[0], nil, 6, "TitleClassifier")
	logLen := title.Log().Len()

	merged, err := MergeTitles([]*elements.TitleElement{title})

	require.NoError(t, err)
	assert.Same(t, title, merged)
	assert.Equal(t, logLen, merged.Log().Len())
}

func TestMergeTitles_KeepsFirstLogOnly(t *testing.T) {
	tags := fragmentTags("div", "span", "PART I. FINANCI", "AL INFORMATION")
	first := elements.NewTitleElement(tags[0], nil, 6, "TitleClassifier")
	first.Log().AddItem("kept entry", "test")
	second := elements.NewTitleElement(tags[1], nil, 6, "TitleClassifier")
	second.Log().AddItem("dropped entry", "test")

	merged, err := MergeTitles([]*elements.TitleElement{first, second})
	require.NoError(t, err)

	var messages []string
	for _, item := range merged.Log().Items() {
		messages = append(messages, item.Message)
	}
	assert.Contains(t, messages, "kept entry")
	assert.NotContains(t, messages, "dropped entry")
	// The first member's own log must not gain the merge entry.
	assert.Equal(t, 2, first.Log().Len())
}

func TestMergeTitles_WrapperAdoptsFragments(t *testing.T) {
	tags := fragmentTags("div", "span", "PART I. FINANCI", "AL INFORMATION")
	titles := []*elements.TitleElement{
		elements.NewTitleElement(tags[0], nil, 6, "TitleClassifier"),
		elements.NewTitleElement(tags[1], nil, 6, "TitleClassifier"),
	}

	merged, err := MergeTitles(titles)
	require.NoError(t, err)

	children := merged.Tag().Children()
	require.Len(t, children, 2)
	assert.True(t, children[0].SameNode(tags[0]))
	assert.True(t, children[1].SameNode(tags[1]))
	assert.Nil(t, merged.Tag().Parent())
}
