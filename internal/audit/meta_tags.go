package audit

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Title and description length bands. Full credit inside the band, degraded
// credit in the shoulder, minimal credit far outside.
const (
	titleMinLen      = 10
	titleMaxLen      = 60
	titleShoulderLen = 80

	descMinLen      = 50
	descMaxLen      = 160
	descShoulderLen = 200

	metaTitlePoints     = 5
	metaDescPoints      = 5
	metaOGPoints        = 5
	metaCanonicalPoints = 5
)

// requiredOGTags is the fixed Open Graph set coverage is counted against.
var requiredOGTags = []string{"og:title", "og:description", "og:image", "og:type", "og:url"}

func metaTagChecks() []Check {
	return []Check{
		{
			ID:       "meta-title",
			Category: CategoryMetaTags,
			Max:      metaTitlePoints,
			Gate:     true,
			Evaluate: checkMetaTitle,
		},
		{
			ID:       "meta-description",
			Category: CategoryMetaTags,
			Max:      metaDescPoints,
			Gate:     true,
			Evaluate: checkMetaDescription,
		},
		{
			ID:       "meta-og",
			Category: CategoryMetaTags,
			Max:      metaOGPoints,
			Evaluate: checkOpenGraph,
		},
		{
			ID:       "meta-canonical",
			Category: CategoryMetaTags,
			Max:      metaCanonicalPoints,
			Evaluate: checkCanonical,
		},
	}
}

func checkMetaTitle(sc *SiteContext) CheckResult {
	title := sc.Doc.Title()
	n := utf8.RuneCountInString(title)

	switch {
	case n == 0:
		return CheckResult{
			Earned:  0,
			Finding: "Missing page title",
			FixHint: "Add a descriptive <title> tag",
			Impact:  8,
		}
	case n < titleMinLen:
		return CheckResult{
			Earned:  2,
			Finding: fmt.Sprintf("Title too short (%d chars)", n),
			Detail:  fmt.Sprintf("Current: %q", title),
			FixHint: "Expand title to 50-60 characters with key descriptors",
			Impact:  5,
		}
	case n <= titleMaxLen:
		return CheckResult{
			Earned:  metaTitlePoints,
			Finding: fmt.Sprintf("Good title length (%d chars)", n),
		}
	case n <= titleShoulderLen:
		return CheckResult{
			Earned:  3,
			Finding: fmt.Sprintf("Title slightly long (%d chars)", n),
			Detail:  "May be truncated in search results",
			FixHint: "Trim to under 60 characters",
			Impact:  3,
		}
	default:
		return CheckResult{
			Earned:  2,
			Finding: fmt.Sprintf("Title too long (%d chars)", n),
			FixHint: "Trim to under 60 characters",
			Impact:  4,
		}
	}
}

func checkMetaDescription(sc *SiteContext) CheckResult {
	desc := sc.Doc.MetaName("description")
	n := utf8.RuneCountInString(desc)

	switch {
	case n == 0:
		return CheckResult{
			Earned:  0,
			Finding: "Missing meta description",
			Detail:  "Meta descriptions are often used by LLMs to summarize pages",
			FixHint: "Add a 150-160 character description summarizing the page",
			Impact:  7,
		}
	case n < descMinLen:
		return CheckResult{
			Earned:  2,
			Finding: fmt.Sprintf("Meta description too short (%d chars)", n),
			Detail:  "Short descriptions miss opportunity to provide context",
			FixHint: "Expand to 150-160 characters with key information",
			Impact:  5,
		}
	case n <= descMaxLen:
		return CheckResult{
			Earned:  metaDescPoints,
			Finding: fmt.Sprintf("Good meta description length (%d chars)", n),
		}
	case n <= descShoulderLen:
		return CheckResult{
			Earned:  4,
			Finding: fmt.Sprintf("Meta description slightly long (%d chars)", n),
			Detail:  "May be truncated, but more content for LLMs",
			Impact:  2,
		}
	default:
		return CheckResult{
			Earned:  3,
			Finding: fmt.Sprintf("Meta description very long (%d chars)", n),
			FixHint: "Keep the summary under 160 characters",
			Impact:  3,
		}
	}
}

func checkOpenGraph(sc *SiteContext) CheckResult {
	var present, missing []string
	for _, tag := range requiredOGTags {
		if sc.Doc.MetaProperty(tag) != "" {
			present = append(present, tag)
		} else {
			missing = append(missing, tag)
		}
	}

	switch {
	case len(present) == len(requiredOGTags):
		return CheckResult{
			Earned:  metaOGPoints,
			Finding: fmt.Sprintf("Full Open Graph coverage (%d/%d tags)", len(present), len(requiredOGTags)),
		}
	case len(present) >= 4:
		return CheckResult{
			Earned:  4,
			Finding: fmt.Sprintf("Good Open Graph coverage (%d/%d tags)", len(present), len(requiredOGTags)),
			Detail:  "Missing: " + strings.Join(missing, ", "),
			FixHint: "Add the remaining OG tags for complete previews",
			Impact:  2,
		}
	case len(present) >= 2:
		return CheckResult{
			Earned:  2,
			Finding: fmt.Sprintf("Partial Open Graph tags (%d/%d)", len(present), len(requiredOGTags)),
			Detail:  "Missing: " + strings.Join(missing, ", "),
			FixHint: "Add missing OG tags for better social sharing and LLM context",
			Impact:  3,
		}
	default:
		return CheckResult{
			Earned:  0,
			Finding: "Missing or minimal Open Graph tags",
			Detail:  "Open Graph helps LLMs and social platforms understand your content",
			FixHint: "Add og:title, og:description, og:image, og:type, og:url",
			Impact:  4,
		}
	}
}

func checkCanonical(sc *SiteContext) CheckResult {
	if sc.Doc.CanonicalURL() != "" {
		return CheckResult{
			Earned:  metaCanonicalPoints,
			Finding: "Canonical URL set",
		}
	}
	return CheckResult{
		Earned:  0,
		Finding: "No canonical URL",
		Detail:  "Canonical URLs help prevent duplicate content confusion",
		FixHint: "Add <link rel=\"canonical\" href=\"...\">",
		Impact:  3,
	}
}
