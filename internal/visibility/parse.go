package visibility

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentiment is the tone of a provider's description of the brand.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentUnknown  Sentiment = "unknown"
)

// Confidence distinguishes an exact brand match from a looser variant match.
type Confidence string

const (
	ConfidenceExplicit Confidence = "explicit"
	ConfidenceInferred Confidence = "inferred"
	ConfidenceNone     Confidence = "none"
)

const (
	contextBefore = 50
	contextAfter  = 100
)

// Keyword lexicon for the three-way sentiment classifier. This is a
// heuristic over the provider's own wording, not a model call.
var (
	positiveWords = []string{
		"leading", "popular", "well-known", "trusted", "excellent",
		"innovative", "reliable", "reputable", "widely used", "top",
		"strong", "respected", "successful",
	}
	negativeWords = []string{
		"not familiar", "no information", "unaware", "don't have information",
		"do not have information", "couldn't find", "could not find",
		"poor", "controversial", "criticized", "declining", "unreliable",
		"scam", "complaints",
	}
)

// Analysis is everything parsed out of one provider's free-text response.
type Analysis struct {
	Mentioned      bool       `json:"mentioned"`
	MentionContext string     `json:"mention_context,omitempty"`
	Sentiment      Sentiment  `json:"sentiment"`
	Confidence     Confidence `json:"confidence"`
	Competitors    []string   `json:"competitors,omitempty"`
}

// ParseResponse runs mention, sentiment and competitor detection over a
// response. Competitor names are matched case-insensitively for
// co-occurrence; sentiment is unknown when the lexicon finds no signal.
func ParseResponse(brand string, competitors []string, text string) Analysis {
	a := Analysis{Sentiment: SentimentUnknown, Confidence: ConfidenceNone}
	if text == "" {
		return a
	}

	lower := strings.ToLower(text)
	brandLower := strings.ToLower(brand)

	// An exact brand occurrence is explicit; the squeezed variants catch
	// "BrandX" written as "Brand X" or "brand-x".
	variants := []struct {
		needle     string
		confidence Confidence
	}{
		{needle: brandLower, confidence: ConfidenceExplicit},
		{needle: strings.ReplaceAll(brandLower, " ", ""), confidence: ConfidenceInferred},
		{needle: strings.ReplaceAll(brandLower, "-", ""), confidence: ConfidenceInferred},
	}
	for _, v := range variants {
		if v.needle == "" {
			continue
		}
		start, end := foldIndex(text, v.needle)
		if start < 0 {
			continue
		}
		a.Mentioned = true
		a.Confidence = v.confidence
		a.MentionContext = snippet(text, start, end)
		break
	}

	if a.Mentioned {
		a.Sentiment = classifySentiment(lower)
	}

	for _, comp := range competitors {
		comp = strings.TrimSpace(comp)
		if comp == "" || strings.EqualFold(comp, brand) {
			continue
		}
		if strings.Contains(lower, strings.ToLower(comp)) {
			a.Competitors = append(a.Competitors, comp)
		}
	}

	return a
}

// foldIndex reports the byte range in text of the first case-insensitive
// occurrence of needle. Matching is rune-wise against text itself, so the
// returned offsets are always valid rune boundaries of text even when case
// folding changes a rune's byte length. Returns (-1, -1) on no match.
func foldIndex(text, needle string) (start, end int) {
	needleRunes := []rune(needle)
	if len(needleRunes) == 0 {
		return -1, -1
	}

	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		if matchEnd, ok := foldMatchAt(text, i, needleRunes); ok {
			return i, matchEnd
		}
		i += size
	}
	return -1, -1
}

// foldMatchAt reports whether needleRunes matches text at byte offset i,
// and the byte offset just past the match.
func foldMatchAt(text string, i int, needleRunes []rune) (end int, ok bool) {
	for _, nr := range needleRunes {
		if i >= len(text) {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.ToLower(r) != unicode.ToLower(nr) {
			return 0, false
		}
		i += size
	}
	return i, true
}

// snippet returns the text around the [matchStart, matchEnd) byte range with
// up to contextBefore runes before and contextAfter runes after.
func snippet(text string, matchStart, matchEnd int) string {
	start := matchStart
	for n := 0; n < contextBefore && start > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	end := matchEnd
	for n := 0; n < contextAfter && end < len(text); n++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}

	out := text[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(text) {
		out = out + "..."
	}
	return out
}

func classifySentiment(lower string) Sentiment {
	pos, neg := 0, 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}
	switch {
	case pos == 0 && neg == 0:
		return SentimentUnknown
	case pos > neg:
		return SentimentPositive
	case neg > pos:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
