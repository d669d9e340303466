package audit

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Partial-credit constants for llms.txt quality. Tunable; the split keeps the
// category honest without punishing a short-but-valid file too hard.
const (
	llmsTxtPresentPoints = 15
	llmsTxtFullPoints    = 5

	llmsQualityDescPoints   = 2
	llmsQualityLinksPoints  = 2
	llmsQualityLengthPoints = 1

	llmsTxtMinLength = 200
	llmsTxtMaxLength = 2000
)

var markdownLinkRe = regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`)

func llmsTxtChecks() []Check {
	return []Check{
		{
			ID:       "llms-txt-present",
			Category: CategoryLlmsTxt,
			Max:      llmsTxtPresentPoints,
			Gate:     true,
			Evaluate: checkLlmsTxtPresent,
		},
		{
			ID:       "llms-txt-quality",
			Category: CategoryLlmsTxt,
			Max:      llmsQualityDescPoints + llmsQualityLinksPoints + llmsQualityLengthPoints,
			Evaluate: checkLlmsTxtQuality,
		},
		{
			ID:       "llms-full-present",
			Category: CategoryLlmsTxt,
			Max:      llmsTxtFullPoints,
			Evaluate: checkLlmsFullPresent,
		},
	}
}

func checkLlmsTxtPresent(sc *SiteContext) CheckResult {
	if !sc.LlmsTxt.Present {
		return CheckResult{
			Earned:  0,
			Finding: "No llms.txt file found",
			Detail:  "llms.txt helps AI systems understand your site. Very few sites have one - easy win.",
			FixHint: "Create /llms.txt with: company name, description, key pages, and contact info. See llmstxt.org",
			Impact:  9,
		}
	}
	lines := nonEmptyLines(sc.LlmsTxt.Body)
	return CheckResult{
		Earned:  llmsTxtPresentPoints,
		Finding: "llms.txt found",
		Detail:  fmt.Sprintf("%d lines of content", len(lines)),
	}
}

func checkLlmsTxtQuality(sc *SiteContext) CheckResult {
	if !sc.LlmsTxt.Present {
		return CheckResult{
			Earned:  0,
			Finding: "llms.txt content quality not assessable",
			Detail:  "The file is missing, so no quality credit applies.",
			FixHint: "Add company description, key products/services, and important pages.",
			Impact:  6,
		}
	}

	body := strings.TrimSpace(sc.LlmsTxt.Body)
	lines := nonEmptyLines(body)

	earned := 0
	var missing []string

	// A description: either a blockquote summary or at least three lines of prose.
	hasBlockquote := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), ">") {
			hasBlockquote = true
			break
		}
	}
	if hasBlockquote || len(lines) >= 3 {
		earned += llmsQualityDescPoints
	} else {
		missing = append(missing, "a short description (blockquote after the title)")
	}

	if markdownLinkRe.MatchString(body) {
		earned += llmsQualityLinksPoints
	} else {
		missing = append(missing, "markdown links to key pages")
	}

	chars := utf8.RuneCountInString(body)
	if chars >= llmsTxtMinLength && chars <= llmsTxtMaxLength {
		earned += llmsQualityLengthPoints
	} else if chars < llmsTxtMinLength {
		missing = append(missing, fmt.Sprintf("more content (only %d chars)", chars))
	} else {
		missing = append(missing, fmt.Sprintf("trimming (%d chars is long for a summary file)", chars))
	}

	if len(missing) == 0 {
		return CheckResult{
			Earned:  earned,
			Finding: "llms.txt has good content",
		}
	}
	return CheckResult{
		Earned:  earned,
		Finding: "llms.txt exists but could say more",
		Detail:  "Missing: " + strings.Join(missing, "; "),
		FixHint: "Follow the llms.txt convention: H1 title, blockquote summary, linked key pages.",
		Impact:  6,
	}
}

func checkLlmsFullPresent(sc *SiteContext) CheckResult {
	if sc.LlmsFull.Present {
		return CheckResult{
			Earned:  llmsTxtFullPoints,
			Finding: "llms-full.txt found (extended version)",
			Detail:  "Extended version provides more context for LLMs",
		}
	}
	return CheckResult{
		Earned:  0,
		Finding: "No llms-full.txt",
		Detail:  "An extended variant lets AI systems read full page content in one place.",
		FixHint: "Publish /llms-full.txt with expanded page content once /llms.txt exists.",
		Impact:  2,
	}
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
