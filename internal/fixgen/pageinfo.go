// Package fixgen synthesizes remediation artifacts (llms.txt, JSON-LD
// markup) from an already-fetched page. It only describes what the page
// itself evidences; nothing is invented to fill a field.
package fixgen

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/huiren/geoaudit/internal/page"
	"github.com/huiren/geoaudit/internal/urlutil"
)

const (
	maxHeadings    = 10
	maxNavLinks    = 15
	maxSocialLinks = 5
)

// titleSepRe splits page titles on the separators sites put between page
// name and brand name.
var titleSepRe = regexp.MustCompile(`\s*[|–—\-\\•·]\s*`)

var genericTitleWords = map[string]bool{
	"home":     true,
	"welcome":  true,
	"homepage": true,
	"official": true,
	"site":     true,
	"website":  true,
}

var socialHosts = []string{
	"twitter.com", "x.com", "linkedin.com", "facebook.com",
	"github.com", "instagram.com", "youtube.com", "wikipedia.org",
}

// PageInfo is everything the generators read off a page.
type PageInfo struct {
	URL         string
	Domain      string
	Title       string
	Description string
	Headings    []string
	NavLinks    []page.Link
	SocialLinks []string

	HasBlog    bool
	HasDocs    bool
	HasPricing bool
	HasAbout   bool
	HasContact bool
}

// ExtractPageInfo pulls the generator inputs from a parsed page.
func ExtractPageInfo(doc *page.Document, u *url.URL) PageInfo {
	info := PageInfo{
		URL:    u.String(),
		Domain: urlutil.Domain(u),
	}

	info.Title = siteTitle(doc, info.Domain)
	info.Description = description(doc)

	for _, h := range doc.Headings() {
		if h.Level > 2 || h.Text == "" || len(h.Text) >= 100 {
			continue
		}
		info.Headings = append(info.Headings, h.Text)
		if len(info.Headings) == maxHeadings {
			break
		}
	}

	for _, l := range doc.NavLinks() {
		if l.Text == "" || len(l.Text) >= 50 {
			continue
		}
		if !strings.HasPrefix(l.Href, "/") && !strings.HasPrefix(l.Href, "http") {
			continue
		}
		l.Href = urlutil.Resolve(u, l.Href)
		info.NavLinks = append(info.NavLinks, l)
		if len(info.NavLinks) == maxNavLinks {
			break
		}
	}

	info.SocialLinks = socialLinks(doc, maxSocialLinks)

	for _, l := range doc.Links() {
		href := strings.ToLower(l.Href)
		switch {
		case strings.Contains(href, "/blog"):
			info.HasBlog = true
		case strings.Contains(href, "/docs"), strings.Contains(href, "/documentation"):
			info.HasDocs = true
		case strings.Contains(href, "/pricing"):
			info.HasPricing = true
		case strings.Contains(href, "/about"):
			info.HasAbout = true
		case strings.Contains(href, "/contact"):
			info.HasContact = true
		}
	}

	return info
}

// siteTitle prefers og:site_name, then the first non-generic segment of the
// <title>, then the bare domain.
func siteTitle(doc *page.Document, domain string) string {
	if name := doc.MetaProperty("og:site_name"); name != "" {
		return name
	}
	if candidates := titleCandidates(doc); len(candidates) > 0 {
		return candidates[0]
	}
	return domain
}

// OrgName is the brand name used in generated schemas. Unlike siteTitle it
// prefers the shortest title segment, since brand names tend to be concise.
func OrgName(doc *page.Document, u *url.URL) string {
	if name := doc.MetaProperty("og:site_name"); name != "" {
		return name
	}
	candidates := titleCandidates(doc)
	if len(candidates) == 0 {
		label, _, _ := strings.Cut(urlutil.Domain(u), ".")
		return capitalize(label)
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c) < len(best) {
			best = c
		}
	}
	return best
}

func titleCandidates(doc *page.Document) []string {
	title := doc.Title()
	if title == "" {
		return nil
	}
	var out []string
	for _, part := range titleSepRe.Split(title, -1) {
		part = strings.TrimSpace(part)
		if part == "" || genericTitleWords[strings.ToLower(part)] {
			continue
		}
		out = append(out, part)
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func description(doc *page.Document) string {
	if desc := doc.MetaName("description"); desc != "" {
		return desc
	}
	return doc.MetaProperty("og:description")
}

func socialLinks(doc *page.Document, limit int) []string {
	var out []string
	seen := map[string]bool{}
	for _, l := range doc.Links() {
		if seen[l.Href] {
			continue
		}
		for _, host := range socialHosts {
			if strings.Contains(l.Href, host) {
				out = append(out, l.Href)
				seen[l.Href] = true
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out
}

// logoURL hunts for a logo: og:image, an image in the header or nav, then
// touch icon or favicon. Empty when nothing is found.
func logoURL(doc *page.Document, u *url.URL) string {
	if img := doc.MetaProperty("og:image"); img != "" {
		return urlutil.Resolve(u, img)
	}

	var src string
	for _, container := range []string{"header", "nav"} {
		doc.Find(container).First().Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			src, _ = s.Attr("src")
			return false
		})
		if src != "" {
			return urlutil.Resolve(u, src)
		}
	}

	for _, rel := range []string{"apple-touch-icon", "icon"} {
		if href := doc.LinkRelHref(rel); href != "" {
			return urlutil.Resolve(u, href)
		}
	}
	return ""
}
