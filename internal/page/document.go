package page

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is the parsed home page handed to checks and generators. It wraps
// goquery with the handful of typed queries the audit needs so that checks
// never deal with raw selections.
type Document struct {
	doc *goquery.Document
	raw []byte
}

// Heading is one hN element in document order.
type Heading struct {
	Level int
	Text  string
}

// Link is an anchor with its visible text and href attribute.
type Link struct {
	Text string
	Href string
}

// Parse builds a Document from raw HTML bytes.
func Parse(html []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc, raw: html}, nil
}

// Find exposes a raw goquery selection for callers with one-off needs.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Title returns the trimmed <title> text, empty when absent.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// MetaName returns the content of <meta name=...>.
func (d *Document) MetaName(name string) string {
	sel := d.doc.Find(fmt.Sprintf(`meta[name=%q]`, name)).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

// MetaProperty returns the content of <meta property=...> (Open Graph style).
func (d *Document) MetaProperty(property string) string {
	sel := d.doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

// CanonicalURL returns the href of <link rel="canonical">, empty when absent.
func (d *Document) CanonicalURL() string {
	href, _ := d.doc.Find(`link[rel="canonical"]`).First().Attr("href")
	return strings.TrimSpace(href)
}

// Lang returns the lang attribute of the <html> element.
func (d *Document) Lang() string {
	lang, _ := d.doc.Find("html").First().Attr("lang")
	return strings.TrimSpace(lang)
}

// LinkRelHref returns the href of the first <link rel=...> matching rel.
func (d *Document) LinkRelHref(rel string) string {
	href, _ := d.doc.Find(fmt.Sprintf(`link[rel=%q]`, rel)).First().Attr("href")
	return strings.TrimSpace(href)
}

// JSONLDBlocks returns the raw text of every
// <script type="application/ld+json"> block in document order.
func (d *Document) JSONLDBlocks() []string {
	var blocks []string
	d.doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	return blocks
}

// Links returns every anchor with a non-empty href.
func (d *Document) Links() []Link {
	var links []Link
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		links = append(links, Link{Text: strings.TrimSpace(s.Text()), Href: href})
	})
	return links
}

// NavLinks returns anchors inside the first <nav>, falling back to <header>.
func (d *Document) NavLinks() []Link {
	container := d.doc.Find("nav").First()
	if container.Length() == 0 {
		container = d.doc.Find("header").First()
	}
	var links []Link
	container.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		links = append(links, Link{Text: strings.TrimSpace(s.Text()), Href: href})
	})
	return links
}

// Content returns a view of the document with boilerplate chrome removed
// (script, style, nav, footer, header, aside). Content-structure checks run
// against this view so navigation menus don't count as lists or headings.
// The receiver is left untouched; Content re-parses the original bytes.
func (d *Document) Content() (*Document, error) {
	clone, err := goquery.NewDocumentFromReader(bytes.NewReader(d.raw))
	if err != nil {
		return nil, fmt.Errorf("reparse html: %w", err)
	}
	clone.Find("script, style, nav, footer, header, aside").Remove()
	return &Document{doc: clone, raw: d.raw}, nil
}

// Headings returns every h1..h6 in document order.
func (d *Document) Headings() []Heading {
	var out []Heading
	d.doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		level := int(s.Nodes[0].Data[1] - '0')
		out = append(out, Heading{Level: level, Text: strings.TrimSpace(s.Text())})
	})
	return out
}

// ListStats counts ul/ol elements and their li children.
func (d *Document) ListStats() (lists, items int) {
	lists = d.doc.Find("ul, ol").Length()
	items = d.doc.Find("li").Length()
	return lists, items
}

// TableStats counts tables and how many of them have th header cells.
func (d *Document) TableStats() (tables, withHeaders int) {
	d.doc.Find("table").Each(func(_ int, s *goquery.Selection) {
		tables++
		if s.Find("th").Length() > 0 {
			withHeaders++
		}
	})
	return tables, withHeaders
}

// ParagraphWordCounts returns the word count of each non-empty <p>.
func (d *Document) ParagraphWordCounts() []int {
	var counts []int
	d.doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		words := strings.Fields(s.Text())
		if len(words) > 0 {
			counts = append(counts, len(words))
		}
	})
	return counts
}
