package audit

import (
	"fmt"
	"strings"
)

const (
	httpsPoints    = 2
	robotsPoints   = 3
	robotsNoFile   = 2 // no robots.txt means all crawlers allowed by default
	sitemapPoints  = 2
	viewportPoints = 2
	langPoints     = 1
)

// aiCrawlerAgents are the user agents whose robots.txt blocks reduce LLM
// visibility. Lower-case, matched against a lower-cased robots body.
var aiCrawlerAgents = []string{
	"gptbot",
	"chatgpt",
	"anthropic",
	"claude",
	"google-extended",
	"ccbot",
	"perplexitybot",
}

func technicalChecks() []Check {
	return []Check{
		{
			ID:       "tech-https",
			Category: CategoryTechnical,
			Max:      httpsPoints,
			Gate:     true,
			Evaluate: checkHTTPS,
		},
		{
			ID:       "tech-robots-ai",
			Category: CategoryTechnical,
			Max:      robotsPoints,
			Evaluate: checkRobotsAICrawlers,
		},
		{
			ID:       "tech-sitemap",
			Category: CategoryTechnical,
			Max:      sitemapPoints,
			Evaluate: checkSitemap,
		},
		{
			ID:       "tech-viewport",
			Category: CategoryTechnical,
			Max:      viewportPoints,
			Evaluate: checkViewport,
		},
		{
			ID:       "tech-lang",
			Category: CategoryTechnical,
			Max:      langPoints,
			Evaluate: checkLang,
		},
	}
}

func checkHTTPS(sc *SiteContext) CheckResult {
	if sc.Target.Scheme == "https" {
		return CheckResult{
			Earned:  httpsPoints,
			Finding: "HTTPS enabled",
		}
	}
	return CheckResult{
		Earned:  0,
		Finding: "Not using HTTPS",
		Detail:  "HTTPS is a trust signal",
		FixHint: "Enable HTTPS on your site",
		Impact:  5,
	}
}

// checkRobotsAICrawlers scans robots.txt for user-agent sections that block
// known AI crawlers site-wide. The scan mirrors crawler behavior loosely: a
// "disallow: /" within 200 chars of the user-agent line counts as a block.
func checkRobotsAICrawlers(sc *SiteContext) CheckResult {
	if !sc.Robots.Present {
		return CheckResult{
			Earned:  robotsNoFile,
			Finding: "No robots.txt (all crawlers allowed by default)",
		}
	}

	body := strings.ToLower(sc.Robots.Body)
	var blocked []string
	for _, agent := range aiCrawlerAgents {
		needle := "user-agent: " + agent
		idx := strings.Index(body, needle)
		if idx < 0 {
			continue
		}
		end := idx + 200
		if end > len(body) {
			end = len(body)
		}
		if strings.Contains(body[idx:end], "disallow: /") {
			blocked = append(blocked, agent)
		}
	}

	if len(blocked) > 0 {
		return CheckResult{
			Earned:  0,
			Finding: "AI crawlers blocked: " + strings.Join(blocked, ", "),
			Detail:  "Blocking AI crawlers reduces LLM training/indexing",
			FixHint: "Consider allowing GPTBot and other AI crawlers if you want LLM visibility",
			Impact:  6,
		}
	}
	return CheckResult{
		Earned:  robotsPoints,
		Finding: "No AI crawler blocks detected",
	}
}

func checkSitemap(sc *SiteContext) CheckResult {
	if sc.Sitemap.Present {
		return CheckResult{
			Earned:  sitemapPoints,
			Finding: "sitemap.xml found",
		}
	}
	return CheckResult{
		Earned:  0,
		Finding: "No sitemap.xml found",
		Detail:  "Sitemaps help crawlers discover content",
		FixHint: "Add a sitemap.xml file",
		Impact:  3,
	}
}

func checkViewport(sc *SiteContext) CheckResult {
	if sc.Doc.MetaName("viewport") != "" {
		return CheckResult{
			Earned:  viewportPoints,
			Finding: "Mobile viewport set",
		}
	}
	return CheckResult{
		Earned:  0,
		Finding: "No viewport meta tag",
		Detail:  "Mobile-friendliness is a ranking factor",
		FixHint: "Add <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">",
		Impact:  3,
	}
}

func checkLang(sc *SiteContext) CheckResult {
	if lang := sc.Doc.Lang(); lang != "" {
		return CheckResult{
			Earned:  langPoints,
			Finding: fmt.Sprintf("Language declared: %s", lang),
		}
	}
	return CheckResult{
		Earned:  0,
		Finding: "No language declaration",
		Detail:  "Language helps LLMs serve content to right audiences",
		FixHint: "Add lang attribute to <html> tag",
		Impact:  2,
	}
}
