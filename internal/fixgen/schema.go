package fixgen

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/huiren/geoaudit/internal/page"
	"github.com/huiren/geoaudit/internal/urlutil"
)

// maxFAQItems bounds the mainEntity list of a generated FAQPage.
const maxFAQItems = 10

// GenerateSchema builds one JSON-LD schema of the requested type from page
// evidence. Fields the page doesn't evidence (logo, sameAs, contact page)
// are omitted rather than filled with placeholders.
func GenerateSchema(doc *page.Document, u *url.URL, schemaType string) (map[string]any, error) {
	switch schemaType {
	case "Organization":
		return organizationSchema(doc, u), nil
	case "WebSite":
		return websiteSchema(doc, u), nil
	case "FAQPage":
		return faqPageSchema(doc, u), nil
	}
	return nil, fmt.Errorf("unknown schema type %q (have Organization, WebSite, FAQPage)", schemaType)
}

// GenerateAllSchemas returns the schemas recommended for any home page.
func GenerateAllSchemas(doc *page.Document, u *url.URL) []map[string]any {
	return []map[string]any{
		organizationSchema(doc, u),
		websiteSchema(doc, u),
	}
}

// SchemaHTML wraps a schema in the script tag sites paste into <head>.
func SchemaHTML(schema map[string]any) string {
	buf, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return ""
	}
	return fmt.Sprintf("<script type=\"application/ld+json\">\n%s\n</script>", buf)
}

func organizationSchema(doc *page.Document, u *url.URL) map[string]any {
	base := urlutil.Root(u)
	schema := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     OrgName(doc, u),
		"url":      base,
	}
	if desc := description(doc); desc != "" {
		schema["description"] = desc
	}
	if logo := logoURL(doc, u); logo != "" {
		schema["logo"] = logo
	}
	if links := socialLinks(doc, 10); len(links) > 0 {
		schema["sameAs"] = links
	}
	info := ExtractPageInfo(doc, u)
	if info.HasContact {
		schema["contactPoint"] = map[string]any{
			"@type":       "ContactPoint",
			"contactType": "customer service",
			"url":         base + "/contact",
		}
	}
	return schema
}

func websiteSchema(doc *page.Document, u *url.URL) map[string]any {
	base := urlutil.Root(u)
	schema := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     OrgName(doc, u),
		"url":      base,
	}
	if desc := description(doc); desc != "" {
		schema["description"] = desc
	}
	schema["potentialAction"] = map[string]any{
		"@type": "SearchAction",
		"target": map[string]any{
			"@type":       "EntryPoint",
			"urlTemplate": base + "/search?q={search_term_string}",
		},
		"query-input": "required name=search_term_string",
	}
	return schema
}

// faqPageSchema extracts question/answer pairs from h3/h4 headings followed
// by a paragraph. With no extractable pairs it emits a two-question template
// the site owner fills in.
func faqPageSchema(doc *page.Document, u *url.URL) map[string]any {
	var items []map[string]any

	doc.Find("h3, h4").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		question := strings.TrimSpace(s.Text())
		if question == "" || (!strings.Contains(question, "?") && len(question) >= 100) {
			return true
		}
		answer := strings.TrimSpace(s.NextAllFiltered("p").First().Text())
		if len(answer) <= 20 {
			return true
		}
		items = append(items, map[string]any{
			"@type": "Question",
			"name":  question,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  answer,
			},
		})
		return len(items) < maxFAQItems
	})

	if len(items) == 0 {
		name := OrgName(doc, u)
		base := urlutil.Root(u)
		answer := description(doc)
		if answer == "" {
			answer = fmt.Sprintf("%s is a [description]. Visit %s to learn more.", name, base)
		}
		items = []map[string]any{
			{
				"@type": "Question",
				"name":  fmt.Sprintf("What is %s?", name),
				"acceptedAnswer": map[string]any{
					"@type": "Answer",
					"text":  answer,
				},
			},
			{
				"@type": "Question",
				"name":  fmt.Sprintf("How do I get started with %s?", name),
				"acceptedAnswer": map[string]any{
					"@type": "Answer",
					"text":  fmt.Sprintf("Visit %s to get started.", base),
				},
			},
		}
	}

	return map[string]any{
		"@context":   "https://schema.org",
		"@type":      "FAQPage",
		"mainEntity": items,
	}
}
