// Package render turns reports into terminal text or JSON. Both forms carry
// the same fields; rendering never recomputes scores.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/huiren/geoaudit/internal/audit"
	"github.com/huiren/geoaudit/internal/history"
	"github.com/huiren/geoaudit/internal/visibility"
)

const barWidth = 20

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// AuditText renders an audit report for the terminal. Verbose shows every
// finding; otherwise only non-passing ones.
func AuditText(w io.Writer, rep *audit.Report, verbose bool) {
	fmt.Fprintf(w, "\nGEO audit: %s\n", rep.Target)
	if rep.FinalURL != "" && rep.FinalURL != rep.Target {
		fmt.Fprintf(w, "  (resolved to %s)\n", rep.FinalURL)
	}
	fmt.Fprintf(w, "\n  Score  %3d/100  %s\n\n", rep.Composite, scoreBar(rep.Composite, 100))

	for _, cs := range rep.Categories {
		fmt.Fprintf(w, "  %-20s %3d/%-3d %s\n", cs.Category, cs.Earned, cs.Max, scoreBar(cs.Earned, cs.Max))
	}

	fmt.Fprintln(w)
	for _, res := range rep.Results {
		if !verbose && res.Status == audit.StatusOK {
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", statusIcon(res.Status), res.Finding)
		if res.Detail != "" {
			fmt.Fprintf(w, "      %s\n", res.Detail)
		}
		if res.FixHint != "" && res.Status != audit.StatusOK {
			fmt.Fprintf(w, "      fix: %s\n", res.FixHint)
		}
	}

	if len(rep.QuickWins) > 0 {
		fmt.Fprintf(w, "\n  Quick wins:\n")
		for i, win := range rep.QuickWins {
			fmt.Fprintf(w, "  %d. %s (impact %d)\n", i+1, win.Finding, win.Impact)
		}
	}
	fmt.Fprintln(w)
}

// ProbeText renders a visibility report. Failed providers are shown inline
// next to successful ones, never dropped.
func ProbeText(w io.Writer, rep *visibility.Report) {
	fmt.Fprintf(w, "\nVisibility probe: %s", rep.Brand)
	if rep.Industry != "" {
		fmt.Fprintf(w, " (%s)", rep.Industry)
	}
	fmt.Fprintln(w)

	for _, resp := range rep.Responses {
		if resp.Failure != nil {
			fmt.Fprintf(w, "  ✗ %-12s %s: %s\n", resp.Provider, resp.Failure.Kind, resp.Failure.Message)
			continue
		}
		mark := "—"
		if resp.Analysis.Mentioned {
			mark = "mentioned"
			if resp.Analysis.Sentiment != visibility.SentimentUnknown {
				mark += ", " + string(resp.Analysis.Sentiment)
			}
		} else {
			mark = "not mentioned"
		}
		fmt.Fprintf(w, "  %s %-12s %s (%dms)\n", mentionIcon(resp.Analysis.Mentioned), resp.Provider, mark, resp.LatencyMS)
		if resp.Analysis.MentionContext != "" {
			fmt.Fprintf(w, "      %q\n", resp.Analysis.MentionContext)
		}
		if len(resp.Analysis.Competitors) > 0 {
			fmt.Fprintf(w, "      competitors mentioned: %s\n", strings.Join(resp.Analysis.Competitors, ", "))
		}
	}

	fmt.Fprintf(w, "\n  Mention rate: %.0f%% (%d of %d providers answered)\n\n",
		rep.MentionRate*100, rep.ProvidersOK, len(rep.Responses))
}

// HistoryText lists recorded runs, newest first.
func HistoryText(w io.Writer, target string, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "no recorded runs for %s\n", target)
		return
	}
	fmt.Fprintf(w, "\nHistory: %s\n", target)
	for _, e := range entries {
		fmt.Fprintf(w, "  %s  %3d/100  %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Composite, e.ID)
	}
	fmt.Fprintln(w)
}

// ComparisonText renders score movement between two runs.
func ComparisonText(w io.Writer, cmp *history.Comparison) {
	fmt.Fprintf(w, "\nCompare: %s\n", cmp.Target)
	fmt.Fprintf(w, "  %s → %s\n", cmp.FromAt.Format("2006-01-02 15:04"), cmp.ToAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "  Composite %d → %d (%+d)\n\n", cmp.CompositeFrom, cmp.CompositeTo, cmp.CompositeDelta)
	for _, cd := range cmp.Categories {
		fmt.Fprintf(w, "  %-20s %3d → %-3d (%+d)\n", cd.Category, cd.From, cd.To, cd.Delta)
	}
	if cmp.FindingsDiff != "" {
		fmt.Fprintf(w, "\n  Finding changes:\n%s\n", indent(cmp.FindingsDiff, "  "))
	}
	fmt.Fprintln(w)
}

func scoreBar(earned, max int) string {
	if max <= 0 {
		return ""
	}
	filled := earned * barWidth / max
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func statusIcon(status audit.Status) string {
	switch status {
	case audit.StatusOK:
		return "✓"
	case audit.StatusWarning:
		return "⚠"
	default:
		return "✗"
	}
}

func mentionIcon(mentioned bool) string {
	if mentioned {
		return "✓"
	}
	return "⚠"
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
