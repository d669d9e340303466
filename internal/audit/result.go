package audit

// Status classifies how a single check went. It feeds quick-win ranking and
// rendering, not the numeric score.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Category is one of the five fixed scoring categories.
type Category string

const (
	CategoryLlmsTxt   Category = "llms.txt"
	CategoryStructure Category = "structured-data"
	CategoryMetaTags  Category = "meta-tags"
	CategoryContent   Category = "content-structure"
	CategoryTechnical Category = "technical"
)

// CategoryOrder is the fixed presentation and tie-break order.
var CategoryOrder = []Category{
	CategoryLlmsTxt,
	CategoryStructure,
	CategoryMetaTags,
	CategoryContent,
	CategoryTechnical,
}

// CategoryCaps fixes the maximum points per category. The caps total 100,
// which makes the composite score a plain sum with no extra weighting.
var CategoryCaps = map[Category]int{
	CategoryLlmsTxt:   25,
	CategoryStructure: 25,
	CategoryMetaTags:  20,
	CategoryContent:   20,
	CategoryTechnical: 10,
}

func categoryRank(c Category) int {
	for i, cat := range CategoryOrder {
		if cat == c {
			return i
		}
	}
	return len(CategoryOrder)
}

// CheckResult is the immutable outcome of one check.
type CheckResult struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Earned   int      `json:"earned"`
	Max      int      `json:"max"`
	Status   Status   `json:"status"`
	Finding  string   `json:"finding"`
	Detail   string   `json:"detail,omitempty"`
	FixHint  string   `json:"fix_hint,omitempty"`

	// Impact weights remediation priority on a 1-10 scale.
	Impact int `json:"impact,omitempty"`
}

// CategoryScore sums a category's checks.
type CategoryScore struct {
	Category Category `json:"category"`
	Earned   int      `json:"earned"`
	Max      int      `json:"max"`
}

// Report is the full outcome of one audit. Construction is build-then-freeze:
// evaluating the same SiteContext twice yields an identical Report.
type Report struct {
	Target      string          `json:"target"`
	FinalURL    string          `json:"final_url"`
	FetchTimeMS int64           `json:"fetch_time_ms"`
	Categories  []CategoryScore `json:"categories"`
	Composite   int             `json:"composite"`
	Results     []CheckResult   `json:"results"`
	QuickWins   []CheckResult   `json:"quick_wins"`
}
