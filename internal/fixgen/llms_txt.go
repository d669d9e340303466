package fixgen

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/huiren/geoaudit/internal/page"
	"github.com/huiren/geoaudit/internal/urlutil"
)

// maxKeyPages bounds the Key Pages section including the well-known entries.
const maxKeyPages = 10

// GenerateLlmsTxt renders an llms.txt file for the page, following the
// llmstxt.org convention: H1 title, blockquote summary, About, Key Pages,
// Connect.
func GenerateLlmsTxt(doc *page.Document, u *url.URL) string {
	info := ExtractPageInfo(doc, u)
	base := urlutil.Root(u)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", info.Title)

	if info.Description != "" {
		fmt.Fprintf(&b, "> %s\n\n", info.Description)
	}

	b.WriteString("## About\n\n")
	if info.Description != "" {
		b.WriteString(info.Description)
	} else {
		fmt.Fprintf(&b, "%s - Visit %s to learn more.", info.Title, info.Domain)
	}
	b.WriteString("\n\n")

	b.WriteString("## Key Pages\n\n")
	fmt.Fprintf(&b, "- [Home](%s/)\n", base)

	added := map[string]bool{"/": true, "/about": true, "/pricing": true, "/docs": true, "/blog": true, "/contact": true}
	if info.HasAbout {
		fmt.Fprintf(&b, "- [About](%s/about)\n", base)
	}
	if info.HasPricing {
		fmt.Fprintf(&b, "- [Pricing](%s/pricing)\n", base)
	}
	if info.HasDocs {
		fmt.Fprintf(&b, "- [Documentation](%s/docs)\n", base)
	}
	if info.HasBlog {
		fmt.Fprintf(&b, "- [Blog](%s/blog)\n", base)
	}
	if info.HasContact {
		fmt.Fprintf(&b, "- [Contact](%s/contact)\n", base)
	}

	for _, link := range info.NavLinks {
		if !urlutil.SameHost(u, link.Href) {
			continue
		}
		parsed, err := url.Parse(link.Href)
		if err != nil {
			continue
		}
		path := strings.TrimRight(parsed.Path, "/")
		if path == "" {
			path = "/"
		}
		if added[path] {
			continue
		}
		fmt.Fprintf(&b, "- [%s](%s)\n", link.Text, link.Href)
		added[path] = true
		if len(added) > maxKeyPages {
			break
		}
	}
	b.WriteString("\n")

	if len(info.SocialLinks) > 0 {
		b.WriteString("## Connect\n\n")
		for _, link := range info.SocialLinks {
			if label := socialLabel(link); label != "" {
				fmt.Fprintf(&b, "- [%s](%s)\n", label, link)
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\nGenerated by geoaudit • %s\n", info.Domain)
	return b.String()
}

func socialLabel(link string) string {
	switch {
	case strings.Contains(link, "twitter.com"), strings.Contains(link, "x.com"):
		return "Twitter/X"
	case strings.Contains(link, "linkedin.com"):
		return "LinkedIn"
	case strings.Contains(link, "github.com"):
		return "GitHub"
	case strings.Contains(link, "facebook.com"):
		return "Facebook"
	case strings.Contains(link, "instagram.com"):
		return "Instagram"
	case strings.Contains(link, "youtube.com"):
		return "YouTube"
	case strings.Contains(link, "wikipedia.org"):
		return "Wikipedia"
	}
	return ""
}
