package audit

import (
	"fmt"

	"github.com/huiren/geoaudit/internal/logging"
)

// EvaluateFunc scores one rule against a SiteContext. Implementations must be
// pure: no I/O, no clock, no randomness. The registry fills in ID, Category,
// Max and Status on the returned result.
type EvaluateFunc func(*SiteContext) CheckResult

// Check is one scoring rule as a tagged record. Rules are registered flat,
// not as a type hierarchy.
type Check struct {
	ID       string
	Category Category
	Max      int

	// Gate marks all-or-nothing rules (llms.txt present, HTTPS on). Earning
	// zero on a gate is an error-level finding; on a non-gate it is a warning.
	Gate bool

	Evaluate EvaluateFunc
}

// ConfigError reports an invalid registry. It is fatal at startup, before any
// network I/O happens.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return "audit config: " + e.msg }

// Registry holds the ordered set of checks. Order is registration order and
// is part of the contract: it breaks ties in quick-win ranking and fixes the
// rendering order of results.
type Registry struct {
	checks []Check
	logger logging.Logger
}

// NewRegistry validates the check set and returns a Registry. Each category's
// check maxima must sum exactly to its cap; IDs must be unique. Violations
// return a ConfigError so a bad build fails before fetching anything.
func NewRegistry(logger logging.Logger, checks []Check) (*Registry, error) {
	if logger == nil {
		logger = logging.Nop{}
	}

	seen := make(map[string]bool, len(checks))
	sums := make(map[Category]int)
	for _, c := range checks {
		if c.ID == "" {
			return nil, &ConfigError{msg: "check with empty ID"}
		}
		if seen[c.ID] {
			return nil, &ConfigError{msg: fmt.Sprintf("duplicate check ID %q", c.ID)}
		}
		seen[c.ID] = true
		if c.Evaluate == nil {
			return nil, &ConfigError{msg: fmt.Sprintf("check %q has no evaluate func", c.ID)}
		}
		if c.Max <= 0 {
			return nil, &ConfigError{msg: fmt.Sprintf("check %q has non-positive max %d", c.ID, c.Max)}
		}
		if _, ok := CategoryCaps[c.Category]; !ok {
			return nil, &ConfigError{msg: fmt.Sprintf("check %q has unknown category %q", c.ID, c.Category)}
		}
		sums[c.Category] += c.Max
	}

	for _, cat := range CategoryOrder {
		if sums[cat] != CategoryCaps[cat] {
			return nil, &ConfigError{msg: fmt.Sprintf(
				"category %s checks sum to %d points, cap is %d", cat, sums[cat], CategoryCaps[cat])}
		}
	}

	return &Registry{checks: checks, logger: logger.With(logging.Field{Key: "component", Value: "check-registry"})}, nil
}

// NewDefaultRegistry builds the shipped check set.
func NewDefaultRegistry(logger logging.Logger) (*Registry, error) {
	var checks []Check
	checks = append(checks, llmsTxtChecks()...)
	checks = append(checks, structuredDataChecks()...)
	checks = append(checks, metaTagChecks()...)
	checks = append(checks, contentStructureChecks()...)
	checks = append(checks, technicalChecks()...)
	return NewRegistry(logger, checks)
}

// Checks returns the registered checks in registration order.
func (r *Registry) Checks() []Check {
	return r.checks
}

// Evaluate runs every check against sc and returns results in registration
// order. Each check runs inside a panic boundary: a misbehaving rule becomes
// a degraded result instead of aborting the audit.
func (r *Registry) Evaluate(sc *SiteContext) []CheckResult {
	results := make([]CheckResult, 0, len(r.checks))
	for _, c := range r.checks {
		results = append(results, r.runOne(c, sc))
	}
	return results
}

func (r *Registry) runOne(c Check, sc *SiteContext) (res CheckResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("check panicked",
				logging.Field{Key: "check", Value: c.ID},
				logging.Field{Key: "panic", Value: fmt.Sprint(rec)})
			res = CheckResult{
				ID:       c.ID,
				Category: c.Category,
				Earned:   0,
				Max:      c.Max,
				Status:   StatusWarning,
				Finding:  "Check could not evaluate this page",
				Detail:   "The rule hit unexpected input and was skipped.",
				Impact:   1,
			}
		}
	}()

	res = c.Evaluate(sc)
	res.ID = c.ID
	res.Category = c.Category
	res.Max = c.Max

	if res.Earned < 0 {
		res.Earned = 0
	}
	if res.Earned > c.Max {
		res.Earned = c.Max
	}

	switch {
	case res.Earned == c.Max:
		res.Status = StatusOK
	case res.Earned == 0 && c.Gate:
		res.Status = StatusError
	default:
		res.Status = StatusWarning
	}
	return res
}
