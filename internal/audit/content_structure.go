package audit

import (
	"fmt"
	"strings"

	"github.com/huiren/geoaudit/internal/page"
)

const (
	h1Points        = 4
	h1MultiPoints   = 2 // multiple H1s is a lesser defect than none
	hierarchyPoints = 2
	listPoints      = 4
	tablePoints     = 3
	faqPoints       = 3
	paragraphPoints = 4

	goodListCount     = 2
	goodListItemCount = 5
	longParagraphWords = 100
	avgParagraphWords  = 60
)

var faqHeadingMarkers = []string{"faq", "frequently asked", "questions", "q&a"}

func contentStructureChecks() []Check {
	return []Check{
		{
			ID:       "content-h1",
			Category: CategoryContent,
			Max:      h1Points,
			Gate:     true,
			Evaluate: checkH1Count,
		},
		{
			ID:       "content-heading-hierarchy",
			Category: CategoryContent,
			Max:      hierarchyPoints,
			Evaluate: checkHeadingHierarchy,
		},
		{
			ID:       "content-lists",
			Category: CategoryContent,
			Max:      listPoints,
			Evaluate: checkLists,
		},
		{
			ID:       "content-tables",
			Category: CategoryContent,
			Max:      tablePoints,
			Evaluate: checkTables,
		},
		{
			ID:       "content-faq",
			Category: CategoryContent,
			Max:      faqPoints,
			Evaluate: checkFAQ,
		},
		{
			ID:       "content-paragraphs",
			Category: CategoryContent,
			Max:      paragraphPoints,
			Evaluate: checkParagraphs,
		},
	}
}

// contentDoc returns the boilerplate-stripped view of the page, falling back
// to the full document when the stripped view is unavailable.
func contentDoc(sc *SiteContext) *page.Document {
	if sc.Content != nil {
		return sc.Content
	}
	return sc.Doc
}

func checkH1Count(sc *SiteContext) CheckResult {
	count := 0
	for _, h := range contentDoc(sc).Headings() {
		if h.Level == 1 {
			count++
		}
	}

	switch {
	case count == 0:
		return CheckResult{
			Earned:  0,
			Finding: "No H1 heading found",
			Detail:  "H1 is the primary page topic signal for LLMs",
			FixHint: "Add one clear H1 heading that describes the page",
			Impact:  7,
		}
	case count > 1:
		return CheckResult{
			Earned:  h1MultiPoints,
			Finding: fmt.Sprintf("Multiple H1 headings (%d)", count),
			Detail:  "Multiple H1s can confuse LLMs about page topic",
			FixHint: "Use only one H1, use H2+ for subsections",
			Impact:  4,
		}
	default:
		return CheckResult{
			Earned:  h1Points,
			Finding: "Single H1 heading",
		}
	}
}

// checkHeadingHierarchy wants a monotone heading outline: each heading is at
// most one level deeper than the one before it (h2 then h4 is a skip).
func checkHeadingHierarchy(sc *SiteContext) CheckResult {
	headings := contentDoc(sc).Headings()

	if len(headings) == 0 {
		return CheckResult{
			Earned:  0,
			Finding: "No headings found",
			Detail:  "Headings give LLMs the content outline",
			FixHint: "Break content into sections with H2/H3 headings",
			Impact:  4,
		}
	}

	prev := headings[0].Level
	for _, h := range headings[1:] {
		if h.Level > prev+1 {
			return CheckResult{
				Earned:  0,
				Finding: fmt.Sprintf("Heading level skip (h%d follows h%d)", h.Level, prev),
				Detail:  "Skipped levels break the content outline",
				FixHint: "Keep heading levels sequential; don't jump from h2 to h4",
				Impact:  3,
			}
		}
		prev = h.Level
	}

	if len(headings) < 3 {
		return CheckResult{
			Earned:  1,
			Finding: fmt.Sprintf("Minimal heading structure (%d headings)", len(headings)),
			Detail:  "More headings help LLMs understand content hierarchy",
			FixHint: "Break content into sections with H2/H3 headings",
			Impact:  3,
		}
	}

	return CheckResult{
		Earned:  hierarchyPoints,
		Finding: fmt.Sprintf("Clean heading hierarchy (%d headings)", len(headings)),
	}
}

func checkLists(sc *SiteContext) CheckResult {
	lists, items := contentDoc(sc).ListStats()

	switch {
	case lists >= goodListCount && items >= goodListItemCount:
		return CheckResult{
			Earned:  listPoints,
			Finding: fmt.Sprintf("Good list usage (%d lists, %d items)", lists, items),
			Detail:  "LLMs favor structured lists for extraction",
		}
	case lists >= 1:
		return CheckResult{
			Earned:  2,
			Finding: fmt.Sprintf("Some list usage (%d lists)", lists),
			Detail:  "Lists make content easier for LLMs to quote",
			FixHint: "Convert appropriate content to bullet/numbered lists",
			Impact:  3,
		}
	default:
		return CheckResult{
			Earned:  0,
			Finding: "No lists found",
			Detail:  "Lists are LLM-friendly and easy to quote",
			FixHint: "Add bulleted lists for features, steps, or key points",
			Impact:  4,
		}
	}
}

func checkTables(sc *SiteContext) CheckResult {
	tables, withHeaders := contentDoc(sc).TableStats()

	switch {
	case tables == 0:
		return CheckResult{
			Earned:  0,
			Finding: "No data tables",
			Detail:  "Well-structured tables are easy for LLMs to parse",
			FixHint: "Present comparative or numeric data as tables with header cells",
			Impact:  2,
		}
	case withHeaders == tables:
		return CheckResult{
			Earned:  tablePoints,
			Finding: fmt.Sprintf("Tables with headers found (%d)", tables),
		}
	default:
		return CheckResult{
			Earned:  1,
			Finding: "Tables found but some lack headers",
			FixHint: "Add <th> header cells to tables",
			Impact:  2,
		}
	}
}

func checkFAQ(sc *SiteContext) CheckResult {
	var headingText strings.Builder
	for _, h := range contentDoc(sc).Headings() {
		headingText.WriteString(strings.ToLower(h.Text))
		headingText.WriteString(" ")
	}
	joined := headingText.String()

	for _, marker := range faqHeadingMarkers {
		if strings.Contains(joined, marker) {
			return CheckResult{
				Earned:  faqPoints,
				Finding: "FAQ section detected",
				Detail:  "FAQs are highly quotable by LLMs",
			}
		}
	}
	return CheckResult{
		Earned:  0,
		Finding: "No FAQ section found",
		Detail:  "FAQ sections are frequently cited by LLMs",
		FixHint: "Consider adding an FAQ section with common questions",
		Impact:  4,
	}
}

func checkParagraphs(sc *SiteContext) CheckResult {
	counts := contentDoc(sc).ParagraphWordCounts()
	if len(counts) == 0 {
		return CheckResult{
			Earned:  0,
			Finding: "No paragraph content found",
			Detail:  "Prose paragraphs give LLMs quotable context",
			FixHint: "Add descriptive paragraphs alongside headings and lists",
			Impact:  3,
		}
	}

	total, long := 0, 0
	for _, c := range counts {
		total += c
		if c > longParagraphWords {
			long++
		}
	}
	avg := total / len(counts)

	if avg < avgParagraphWords && long == 0 {
		return CheckResult{
			Earned:  paragraphPoints,
			Finding: fmt.Sprintf("Good paragraph length (avg %d words)", avg),
		}
	}
	if long > 0 {
		return CheckResult{
			Earned:  2,
			Finding: fmt.Sprintf("%d long paragraph(s) (>%d words)", long, longParagraphWords),
			Detail:  "Long paragraphs are harder for LLMs to quote",
			FixHint: "Break long paragraphs into smaller chunks",
			Impact:  3,
		}
	}
	return CheckResult{
		Earned:  2,
		Finding: fmt.Sprintf("Paragraphs run long on average (%d words)", avg),
		FixHint: "Aim for paragraphs under 60 words",
		Impact:  2,
	}
}
