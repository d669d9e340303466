package visibility

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParseResponseMentionVariants(t *testing.T) {
	cases := []struct {
		name       string
		brand      string
		text       string
		mentioned  bool
		confidence Confidence
	}{
		{
			name:       "exact match",
			brand:      "BrandX",
			text:       "BrandX is a company that makes widgets.",
			mentioned:  true,
			confidence: ConfidenceExplicit,
		},
		{
			name:       "case insensitive",
			brand:      "BrandX",
			text:       "I believe brandx is a widget maker.",
			mentioned:  true,
			confidence: ConfidenceExplicit,
		},
		{
			name:       "space squeezed",
			brand:      "Brand X",
			text:       "BrandX ships widgets.",
			mentioned:  true,
			confidence: ConfidenceInferred,
		},
		{
			name:       "hyphen squeezed",
			brand:      "brand-x",
			text:       "Brandx is known for widgets.",
			mentioned:  true,
			confidence: ConfidenceInferred,
		},
		{
			name:       "no mention",
			brand:      "BrandX",
			text:       "I am not aware of that company.",
			mentioned:  false,
			confidence: ConfidenceNone,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := ParseResponse(tc.brand, nil, tc.text)
			if a.Mentioned != tc.mentioned {
				t.Errorf("mentioned = %v, want %v", a.Mentioned, tc.mentioned)
			}
			if a.Confidence != tc.confidence {
				t.Errorf("confidence = %s, want %s", a.Confidence, tc.confidence)
			}
			if tc.mentioned && a.MentionContext == "" {
				t.Error("mention context missing")
			}
		})
	}
}

func TestParseResponseSentiment(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Sentiment
	}{
		{name: "positive", text: "BrandX is a leading and trusted widget maker.", want: SentimentPositive},
		{name: "negative", text: "BrandX has been criticized for poor quality.", want: SentimentNegative},
		{name: "no signal", text: "BrandX makes widgets in Ohio.", want: SentimentUnknown},
		{name: "unmentioned is unknown", text: "I have never heard of that.", want: SentimentUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseResponse("BrandX", nil, tc.text).Sentiment; got != tc.want {
				t.Errorf("sentiment = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestParseResponseCompetitors(t *testing.T) {
	text := "BrandX competes with WidgetCo and Acme in this market."
	a := ParseResponse("BrandX", []string{"WidgetCo", "Acme", "Globex", "BrandX"}, text)

	if len(a.Competitors) != 2 {
		t.Fatalf("competitors = %v", a.Competitors)
	}
	if a.Competitors[0] != "WidgetCo" || a.Competitors[1] != "Acme" {
		t.Errorf("competitors = %v", a.Competitors)
	}
}

func TestMentionContextSnippet(t *testing.T) {
	long := strings.Repeat("a", 200) + " BrandX rest of the sentence " + strings.Repeat("b", 200)
	a := ParseResponse("BrandX", nil, long)

	if !strings.HasPrefix(a.MentionContext, "...") || !strings.HasSuffix(a.MentionContext, "...") {
		t.Errorf("snippet not elided: %q", a.MentionContext)
	}
	if !strings.Contains(a.MentionContext, "BrandX") {
		t.Errorf("snippet missing brand: %q", a.MentionContext)
	}
}

func TestParseResponseNonASCII(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{
			// U+023A lowercases from 2 bytes to 3, shifting byte offsets
			// between the text and its lowercase form.
			name: "growing lowercase before brand",
			text: strings.Repeat("Ⱥ", 200) + " BrandX makes widgets.",
		},
		{
			// U+0130 lowercases into a multi-byte sequence too.
			name: "dotted capital I before brand",
			text: strings.Repeat("İ", 80) + " BrandX makes widgets.",
		},
		{
			name: "japanese text around brand",
			text: strings.Repeat("ウィジェット", 30) + " BrandX " + strings.Repeat("製造会社", 30),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := ParseResponse("BrandX", nil, tc.text)
			if !a.Mentioned {
				t.Fatal("brand not detected")
			}
			if !utf8.ValidString(a.MentionContext) {
				t.Errorf("snippet is not valid UTF-8: %q", a.MentionContext)
			}
			if !strings.Contains(a.MentionContext, "BrandX") {
				t.Errorf("snippet missing brand: %q", a.MentionContext)
			}
		})
	}
}

func TestFoldIndexOffsets(t *testing.T) {
	text := "İİ brandx here"
	start, end := foldIndex(text, "brandx")
	if start < 0 {
		t.Fatal("no match")
	}
	if got := text[start:end]; got != "brandx" {
		t.Errorf("text[%d:%d] = %q, want brandx", start, end, got)
	}

	if start, _ := foldIndex("no such thing", "brandx"); start != -1 {
		t.Errorf("start = %d, want -1", start)
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("BrandX", "")
	if !strings.Contains(p, "BrandX") {
		t.Errorf("prompt = %q", p)
	}
	p = BuildPrompt("BrandX", "industrial automation")
	if !strings.Contains(p, "industrial automation") {
		t.Errorf("prompt = %q", p)
	}
}
