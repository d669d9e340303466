package audit

import (
	"fmt"
	"strings"
	"testing"

	"github.com/huiren/geoaudit/internal/logging"
)

const goodLlmsTxt = `# Acme Widgets

> Acme builds industrial widgets for manufacturers across forty countries.

## Key Pages

- [Products](https://acme.example/products): The full widget catalog with specs.
- [Docs](https://acme.example/docs): Integration guides and API reference.
- [About](https://acme.example/about): Company history and leadership team.
`

// runAudit evaluates the default registry against the given page and returns
// the report plus results indexed by check ID.
func runAudit(t *testing.T, target, html string, mutate func(*SiteContext)) (*Report, map[string]CheckResult) {
	t.Helper()
	reg, err := NewDefaultRegistry(logging.Nop{})
	if err != nil {
		t.Fatalf("NewDefaultRegistry: %v", err)
	}
	sc := newSiteContext(t, target, html)
	if mutate != nil {
		mutate(sc)
	}
	results := reg.Evaluate(sc)
	byID := make(map[string]CheckResult, len(results))
	for _, res := range results {
		byID[res.ID] = res
	}
	return Aggregate(sc, results), byID
}

func categoryEarned(t *testing.T, rep *Report, cat Category) int {
	t.Helper()
	for _, cs := range rep.Categories {
		if cs.Category == cat {
			return cs.Earned
		}
	}
	t.Fatalf("category %s not in report", cat)
	return 0
}

func TestPoorSiteScoresLow(t *testing.T) {
	html := `<html><head><title>Home</title></head>
<body><h1>Welcome</h1><p>We make widgets.</p></body></html>`

	rep, byID := runAudit(t, "https://poor.example", html, nil)

	if rep.Composite >= 40 {
		t.Errorf("poor site composite = %d, want < 40", rep.Composite)
	}
	if got := categoryEarned(t, rep, CategoryLlmsTxt); got != 0 {
		t.Errorf("llms.txt category = %d, want 0", got)
	}
	if got := categoryEarned(t, rep, CategoryStructure); got != 0 {
		t.Errorf("structured-data category = %d, want 0", got)
	}
	if res := byID["llms-txt-present"]; res.Status != StatusError {
		t.Errorf("missing llms.txt status = %s, want %s", res.Status, StatusError)
	}
	if res := byID["meta-title"]; res.Earned != 2 {
		t.Errorf("4-char title earned %d, want 2", res.Earned)
	}
	if len(rep.QuickWins) == 0 {
		t.Error("poor site should produce quick wins")
	}
}

func TestLlmsTxtImprovesScore(t *testing.T) {
	html := `<html><head><title>Acme Widgets</title></head>
<body><h1>Acme</h1><p>We make widgets.</p></body></html>`

	without, _ := runAudit(t, "https://acme.example", html, nil)
	with, byID := runAudit(t, "https://acme.example", html, func(sc *SiteContext) {
		sc.LlmsTxt = Resource{URL: "https://acme.example/llms.txt", Present: true, StatusCode: 200, Body: goodLlmsTxt}
	})

	if with.Composite <= without.Composite {
		t.Errorf("adding llms.txt did not raise composite: %d vs %d", with.Composite, without.Composite)
	}
	if got := categoryEarned(t, with, CategoryLlmsTxt); got != 20 {
		t.Errorf("llms.txt category with good file = %d, want 20", got)
	}
	if res := byID["llms-txt-quality"]; res.Earned != 5 || res.Status != StatusOK {
		t.Errorf("quality check = %d earned %s, want full credit", res.Earned, res.Status)
	}

	full, _ := runAudit(t, "https://acme.example", html, func(sc *SiteContext) {
		sc.LlmsTxt = Resource{Present: true, Body: goodLlmsTxt}
		sc.LlmsFull = Resource{Present: true, Body: goodLlmsTxt}
	})
	if got := categoryEarned(t, full, CategoryLlmsTxt); got != CategoryCaps[CategoryLlmsTxt] {
		t.Errorf("llms.txt category with both files = %d, want %d", got, CategoryCaps[CategoryLlmsTxt])
	}
}

func TestMalformedJSONLDGetsPartialCredit(t *testing.T) {
	html := `<html><head><title>Acme Widgets Industrial Supply</title>
<script type="application/ld+json">{"@type": "Organization",}</script>
</head><body><h1>Acme</h1></body></html>`

	_, byID := runAudit(t, "https://acme.example", html, nil)

	res := byID["jsonld-present"]
	if res.Earned != jsonldMalformedPoints {
		t.Errorf("malformed JSON-LD earned %d, want %d", res.Earned, jsonldMalformedPoints)
	}
	if res.Status != StatusWarning {
		t.Errorf("malformed JSON-LD status = %s, want %s", res.Status, StatusWarning)
	}
}

func TestValidJSONLDScoring(t *testing.T) {
	html := `<html><head><title>Acme Widgets Industrial Supply</title>
<script type="application/ld+json">
{"@context": "https://schema.org", "@type": "Organization",
 "name": "Acme", "description": "Widget maker", "url": "https://acme.example",
 "logo": "https://acme.example/logo.png",
 "sameAs": ["https://linkedin.com/company/acme", "https://twitter.com/acme"],
 "contactPoint": {"@type": "ContactPoint", "email": "hi@acme.example"}}
</script>
</head><body><h1>Acme</h1></body></html>`

	rep, byID := runAudit(t, "https://acme.example", html, nil)

	checks := map[string]int{
		"jsonld-present":      jsonldPresentPoints,
		"jsonld-high-value":   jsonldHighValuePoints,
		"jsonld-org-complete": jsonldOrgPoints,
		"jsonld-sameas":       jsonldSameAsPoints,
	}
	for id, want := range checks {
		if got := byID[id].Earned; got != want {
			t.Errorf("%s earned %d, want %d", id, got, want)
		}
	}
	if got := categoryEarned(t, rep, CategoryStructure); got != CategoryCaps[CategoryStructure] {
		t.Errorf("structured-data category = %d, want %d", got, CategoryCaps[CategoryStructure])
	}
}

func TestPartialOrganizationSchema(t *testing.T) {
	html := `<html><head><title>Acme Widgets Industrial Supply</title>
<script type="application/ld+json">
{"@type": "Organization", "name": "Acme", "url": "https://acme.example", "description": "Widgets"}
</script>
</head><body><h1>Acme</h1></body></html>`

	_, byID := runAudit(t, "https://acme.example", html, nil)

	// 3 of 6 recommended fields present: half credit, rounded down.
	res := byID["jsonld-org-complete"]
	if res.Earned != jsonldOrgPoints*3/6 {
		t.Errorf("partial org schema earned %d, want %d", res.Earned, jsonldOrgPoints*3/6)
	}
	if res.Status != StatusWarning {
		t.Errorf("partial org schema status = %s, want %s", res.Status, StatusWarning)
	}
}

func TestMultipleH1Penalty(t *testing.T) {
	html := `<html><head><title>Acme Widgets Industrial Supply</title></head>
<body><h1>Acme</h1><h1>Widgets</h1><p>Hi.</p></body></html>`

	_, byID := runAudit(t, "https://acme.example", html, nil)

	res := byID["content-h1"]
	if res.Earned != h1MultiPoints {
		t.Errorf("two H1s earned %d, want %d", res.Earned, h1MultiPoints)
	}
	if res.Status != StatusWarning {
		t.Errorf("two H1s status = %s, want %s", res.Status, StatusWarning)
	}
}

func TestMissingH1IsError(t *testing.T) {
	html := `<html><head><title>Acme Widgets Industrial Supply</title></head>
<body><h2>Widgets</h2><p>Hi.</p></body></html>`

	_, byID := runAudit(t, "https://acme.example", html, nil)

	if res := byID["content-h1"]; res.Earned != 0 || res.Status != StatusError {
		t.Errorf("no H1 = %d earned, %s status; want 0, %s", res.Earned, res.Status, StatusError)
	}
}

func TestRobotsAICrawlerBlocking(t *testing.T) {
	html := `<html><head><title>Acme Widgets Industrial Supply</title></head><body><h1>Acme</h1></body></html>`

	cases := []struct {
		name    string
		robots  Resource
		earned  int
		blocked bool
	}{
		{
			name:   "no robots file",
			earned: robotsNoFile,
		},
		{
			name:   "permissive robots",
			robots: Resource{Present: true, Body: "User-agent: *\nAllow: /\nSitemap: https://acme.example/sitemap.xml\n"},
			earned: robotsPoints,
		},
		{
			name:    "gptbot blocked",
			robots:  Resource{Present: true, Body: "User-agent: GPTBot\nDisallow: /\n\nUser-agent: *\nAllow: /\n"},
			earned:  0,
			blocked: true,
		},
		{
			name:   "gptbot allowed explicitly",
			robots: Resource{Present: true, Body: "User-agent: GPTBot\nAllow: /\n\nUser-agent: *\nAllow: /\n"},
			earned: robotsPoints,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, byID := runAudit(t, "https://acme.example", html, func(sc *SiteContext) {
				sc.Robots = tc.robots
			})
			res := byID["tech-robots-ai"]
			if res.Earned != tc.earned {
				t.Errorf("earned %d, want %d", res.Earned, tc.earned)
			}
			if tc.blocked && !strings.Contains(strings.ToLower(res.Finding), "gptbot") {
				t.Errorf("finding %q should name the blocked agent", res.Finding)
			}
		})
	}
}

func TestHTTPSGate(t *testing.T) {
	html := `<html><head><title>Acme Widgets Industrial Supply</title></head><body><h1>Acme</h1></body></html>`

	_, byID := runAudit(t, "http://acme.example", html, nil)
	if res := byID["tech-https"]; res.Earned != 0 || res.Status != StatusError {
		t.Errorf("plain HTTP = %d earned, %s status; want 0, %s", res.Earned, res.Status, StatusError)
	}

	_, byID = runAudit(t, "https://acme.example", html, nil)
	if res := byID["tech-https"]; res.Earned != httpsPoints || res.Status != StatusOK {
		t.Errorf("HTTPS = %d earned, %s status; want %d, %s", res.Earned, res.Status, httpsPoints, StatusOK)
	}
}

func TestTitleLengthBands(t *testing.T) {
	cases := []struct {
		name   string
		length int
		letter string
		earned int
	}{
		{length: 0, earned: 0},
		{length: 4, earned: 2},
		{length: 30, earned: metaTitlePoints},
		{length: 60, earned: metaTitlePoints},
		{length: 70, earned: 3},
		{length: 90, earned: 2},
		// 30 characters but 90 bytes; the band is measured in characters.
		{name: "multibyte30", length: 30, letter: "咖", earned: metaTitlePoints},
	}

	for _, tc := range cases {
		name := tc.name
		if name == "" {
			name = fmt.Sprintf("len%d", tc.length)
		}
		t.Run(name, func(t *testing.T) {
			letter := tc.letter
			if letter == "" {
				letter = "x"
			}
			title := strings.Repeat(letter, tc.length)
			html := fmt.Sprintf(`<html><head><title>%s</title></head><body><h1>A</h1></body></html>`, title)
			_, byID := runAudit(t, "https://acme.example", html, nil)
			if got := byID["meta-title"].Earned; got != tc.earned {
				t.Errorf("title of %d chars earned %d, want %d", tc.length, got, tc.earned)
			}
		})
	}
}

func TestDescriptionLengthBands(t *testing.T) {
	cases := []struct {
		length int
		earned int
	}{
		{length: 0, earned: 0},
		{length: 30, earned: 2},
		{length: 120, earned: metaDescPoints},
		{length: 180, earned: 4},
		{length: 240, earned: 3},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("len%d", tc.length), func(t *testing.T) {
			var meta string
			if tc.length > 0 {
				meta = fmt.Sprintf(`<meta name="description" content="%s">`, strings.Repeat("y", tc.length))
			}
			html := fmt.Sprintf(`<html><head><title>Acme Widgets Industrial Supply</title>%s</head><body><h1>A</h1></body></html>`, meta)
			_, byID := runAudit(t, "https://acme.example", html, nil)
			if got := byID["meta-description"].Earned; got != tc.earned {
				t.Errorf("description of %d chars earned %d, want %d", tc.length, got, tc.earned)
			}
		})
	}
}

func TestFAQDetection(t *testing.T) {
	html := `<html><head><title>Acme Widgets Industrial Supply</title></head>
<body><h1>Acme</h1><h2>Frequently Asked Questions</h2><p>Answers.</p></body></html>`

	_, byID := runAudit(t, "https://acme.example", html, nil)
	if res := byID["content-faq"]; res.Earned != faqPoints {
		t.Errorf("FAQ section earned %d, want %d", res.Earned, faqPoints)
	}
}
