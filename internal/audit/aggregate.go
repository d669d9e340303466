package audit

import "sort"

// maxQuickWins bounds the quick-win list.
const maxQuickWins = 5

// Aggregate folds check results into a Report. Results must be in the
// registry's registration order; that order is preserved and used as the
// final tie-break for quick wins.
func Aggregate(sc *SiteContext, results []CheckResult) *Report {
	byCat := make(map[Category]*CategoryScore, len(CategoryOrder))
	for _, cat := range CategoryOrder {
		byCat[cat] = &CategoryScore{Category: cat, Max: CategoryCaps[cat]}
	}
	for _, res := range results {
		if cs, ok := byCat[res.Category]; ok {
			cs.Earned += res.Earned
		}
	}

	categories := make([]CategoryScore, 0, len(CategoryOrder))
	composite := 0
	for _, cat := range CategoryOrder {
		categories = append(categories, *byCat[cat])
		composite += byCat[cat].Earned
	}

	return &Report{
		Target:      sc.Target.String(),
		FinalURL:    sc.FinalURL,
		FetchTimeMS: sc.FetchTimeMS,
		Categories:  categories,
		Composite:   composite,
		Results:     results,
		QuickWins:   quickWins(results),
	}
}

// quickWins picks the top non-passing results by remediation impact.
// Ties break by category order, then by registration order, so the list is
// deterministic for a fixed registry.
func quickWins(results []CheckResult) []CheckResult {
	type indexed struct {
		res CheckResult
		idx int
	}
	var candidates []indexed
	for i, res := range results {
		if res.Status != StatusOK {
			candidates = append(candidates, indexed{res: res, idx: i})
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.res.Impact != cb.res.Impact {
			return ca.res.Impact > cb.res.Impact
		}
		ra, rb := categoryRank(ca.res.Category), categoryRank(cb.res.Category)
		if ra != rb {
			return ra < rb
		}
		return ca.idx < cb.idx
	})

	n := len(candidates)
	if n > maxQuickWins {
		n = maxQuickWins
	}
	wins := make([]CheckResult, 0, n)
	for _, c := range candidates[:n] {
		wins = append(wins, c.res)
	}
	return wins
}
