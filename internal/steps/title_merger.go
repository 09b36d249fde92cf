package steps

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/filingest/internal/elements"
	"github.com/dgallion1/filingest/internal/htmltag"
)

// containerTag is the generic block-grouping element. Two adjacent titles
// that are each their own container block get the stricter separate-titles
// guard; inline runs (span, font, ...) never do.
const containerTag = "div"

const mergerOrigin = "TitleMerger"

// minSingleWordLength is part of the corpus-tuned guard below; a lone word
// longer than this counts as substantial.
const minSingleWordLength = 5

// TitleMerger merges adjacent TitleElements that are fragments of a single
// visual heading. Filings routinely split one heading across sibling markup
// nodes, e.g.
//
//	<div style="..."><font style="font-weight:bold">PART I. FINANCI</font></div>
//	<div style="..."><font style="font-weight:bold">AL INFORMATION</font></div>
//
// and the classifier then produces two truncated titles where the document
// has one. The merger collapses each maximal run of mergeable titles into a
// single element and leaves everything else untouched. It never
// re-classifies, re-levels, or reorders.
type TitleMerger struct{}

func (TitleMerger) Name() string { return "TitleMerger" }

func (m TitleMerger) Process(els []elements.SemanticElement) []elements.SemanticElement {
	result := make([]elements.SemanticElement, len(els))
	copy(result, els)

	// Partition into maximal runs of mergeable title indices. A run is
	// always tested against its first element, and any non-title closes
	// the open run.
	runs := [][]int{nil}
	for i, el := range els {
		title, ok := el.(*elements.TitleElement)
		if !ok {
			if len(runs[len(runs)-1]) > 0 {
				runs = append(runs, nil)
			}
			continue
		}
		open := runs[len(runs)-1]
		if len(open) > 0 && m.canMergeWithRun(title, els[open[0]].(*elements.TitleElement)) {
			runs[len(runs)-1] = append(open, i)
			continue
		}
		if len(open) > 0 {
			runs = append(runs, nil)
		}
		runs[len(runs)-1] = append(runs[len(runs)-1], i)
	}

	for _, run := range runs {
		if len(run) <= 1 {
			continue
		}
		members := make([]*elements.TitleElement, len(run))
		for j, i := range run {
			members[j] = result[i].(*elements.TitleElement)
		}
		merged, err := MergeTitles(members)
		if err != nil {
			// Unreachable: runs handed to MergeTitles are never empty.
			continue
		}
		result[run[0]] = merged
		for _, i := range run[1:] {
			result[i] = nil
		}
	}

	out := make([]elements.SemanticElement, 0, len(els))
	for _, el := range result {
		if el != nil {
			out = append(out, el)
		}
	}
	return out
}

// canMergeWithRun decides whether el belongs to the run opened by head.
// Missing parents fail safe to "not mergeable".
func (m TitleMerger) canMergeWithRun(el, head *elements.TitleElement) bool {
	if el.Level() != head.Level() {
		return false
	}

	headParent := head.Tag().Parent()
	elParent := el.Tag().Parent()
	if headParent == nil || elParent == nil || !headParent.SameNode(elParent) {
		return false
	}

	if head.Tag().Name() == containerTag && el.Tag().Name() == containerTag {
		headText := strings.TrimSpace(head.Text())
		elText := strings.TrimSpace(el.Text())
		if headText != "" && elText != "" && areSeparateCompleteTitles(headText, elText) {
			return false
		}
	}

	return true
}

// areSeparateCompleteTitles guards the container/container case: two
// substantial texts whose seam is a letter on both sides look like two
// complete, independent headings rather than a mid-word split. This is a
// heuristic tuned on real filings, kept exactly as-is; both failure modes
// exist and are accepted.
func areSeparateCompleteTitles(batchText, elementText string) bool {
	if !isSubstantial(batchText) || !isSubstantial(elementText) {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(batchText)
	first, _ := utf8.DecodeRuneInString(elementText)
	return unicode.IsLetter(last) && unicode.IsLetter(first)
}

func isSubstantial(s string) bool {
	return len(strings.Fields(s)) > 1 || utf8.RuneCountInString(s) > minSingleWordLength
}

// MergeTitles combines titles, in order, into a single TitleElement whose
// tag is a synthetic wrapper over the member tags. A single element is
// returned as-is with its log untouched. Calling with no elements is a
// broken invariant in the caller, not a data condition.
func MergeTitles(titles []*elements.TitleElement) (*elements.TitleElement, error) {
	if len(titles) == 0 {
		return nil, errors.New("cannot merge empty list of elements")
	}
	if len(titles) == 1 {
		return titles[0], nil
	}

	tags := make([]*htmltag.Tag, len(titles))
	texts := make([]string, len(titles))
	for i, t := range titles {
		tags[i] = t.Tag()
		texts[i] = t.Text()
	}

	wrapper := htmltag.WrapTagsInNewParent(htmltag.MergedTitleTag, tags)

	// The merged element keeps only the first member's log. Keeping every
	// member's log would leave entries whose subject no longer exists.
	log := titles[0].Log().Copy()
	log.AddItem(fmt.Sprintf("Merged %d TitleElements: %q", len(titles), texts), mergerOrigin)

	return elements.NewTitleElement(wrapper, log, titles[0].Level(), mergerOrigin), nil
}
