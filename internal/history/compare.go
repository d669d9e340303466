package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/huiren/geoaudit/internal/audit"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// CategoryDelta is one category's score movement between two runs.
type CategoryDelta struct {
	Category string `json:"category"`
	From     int    `json:"from"`
	To       int    `json:"to"`
	Delta    int    `json:"delta"`
}

// Comparison summarizes movement between two recorded runs of the same
// target.
type Comparison struct {
	Target         string          `json:"target"`
	FromID         string          `json:"from_id"`
	ToID           string          `json:"to_id"`
	FromAt         time.Time       `json:"from_at"`
	ToAt           time.Time       `json:"to_at"`
	CompositeFrom  int             `json:"composite_from"`
	CompositeTo    int             `json:"composite_to"`
	CompositeDelta int             `json:"composite_delta"`
	Categories     []CategoryDelta `json:"categories"`
	FindingsDiff   string          `json:"findings_diff,omitempty"`
}

// Compare diffs run a against run b (a is the older baseline). Both entries
// must carry their full reports.
func Compare(a, b *Entry) (*Comparison, error) {
	if a.Target != b.Target {
		return nil, fmt.Errorf("runs are for different targets: %s vs %s", a.Target, b.Target)
	}
	if a.Report == nil || b.Report == nil {
		return nil, fmt.Errorf("comparison needs full reports (use Get, not List)")
	}

	cmp := &Comparison{
		Target:         a.Target,
		FromID:         a.ID,
		ToID:           b.ID,
		FromAt:         a.CreatedAt,
		ToAt:           b.CreatedAt,
		CompositeFrom:  a.Composite,
		CompositeTo:    b.Composite,
		CompositeDelta: b.Composite - a.Composite,
	}

	for _, cat := range audit.CategoryOrder {
		from := a.Categories[string(cat)]
		to := b.Categories[string(cat)]
		cmp.Categories = append(cmp.Categories, CategoryDelta{
			Category: string(cat),
			From:     from,
			To:       to,
			Delta:    to - from,
		})
	}

	fromFindings := findingsText(a.Report)
	toFindings := findingsText(b.Report)
	if fromFindings != toFindings {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(fromFindings, toFindings, true)
		diffs = dmp.DiffCleanupSemantic(diffs)
		cmp.FindingsDiff = dmp.DiffPrettyText(diffs)
	}

	return cmp, nil
}

func findingsText(report *audit.Report) string {
	var b strings.Builder
	for _, res := range report.Results {
		fmt.Fprintf(&b, "[%s] %s: %s\n", res.Status, res.ID, res.Finding)
	}
	return b.String()
}
