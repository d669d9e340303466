package audit

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// highValueSchemas are the schema.org types that matter most for brand
// recognition by answer engines.
var highValueSchemas = map[string]bool{
	"Organization":        true,
	"LocalBusiness":       true,
	"Product":             true,
	"Service":             true,
	"Person":              true,
	"Article":             true,
	"BlogPosting":         true,
	"FAQPage":             true,
	"HowTo":               true,
	"Recipe":              true,
	"Event":               true,
	"Course":              true,
	"SoftwareApplication": true,
	"WebApplication":      true,
}

var recommendedOrgFields = []string{"name", "description", "url", "logo", "sameAs", "contactPoint"}

const (
	jsonldPresentPoints   = 5
	jsonldMalformedPoints = 2 // present-but-invalid still carries signal
	jsonldHighValuePoints = 10
	jsonldOrgPoints       = 5
	jsonldSameAsPoints    = 5
)

func structuredDataChecks() []Check {
	return []Check{
		{
			ID:       "jsonld-present",
			Category: CategoryStructure,
			Max:      jsonldPresentPoints,
			Gate:     true,
			Evaluate: checkJSONLDPresent,
		},
		{
			ID:       "jsonld-high-value",
			Category: CategoryStructure,
			Max:      jsonldHighValuePoints,
			Evaluate: checkJSONLDHighValue,
		},
		{
			ID:       "jsonld-org-complete",
			Category: CategoryStructure,
			Max:      jsonldOrgPoints,
			Evaluate: checkJSONLDOrgComplete,
		},
		{
			ID:       "jsonld-sameas",
			Category: CategoryStructure,
			Max:      jsonldSameAsPoints,
			Evaluate: checkJSONLDSameAs,
		},
	}
}

// parseJSONLD decodes every JSON-LD block on the page. Blocks whose JSON does
// not parse are counted, not discarded: partial markup still carries signal.
// A top-level array contributes each of its object elements.
func parseJSONLD(sc *SiteContext) (objects []map[string]any, malformed int) {
	if sc.Doc == nil {
		return nil, 0
	}
	for _, block := range sc.Doc.JSONLDBlocks() {
		var generic any
		if err := json.Unmarshal([]byte(block), &generic); err != nil {
			malformed++
			continue
		}
		switch v := generic.(type) {
		case map[string]any:
			objects = append(objects, v)
		case []any:
			ok := false
			for _, item := range v {
				if obj, isMap := item.(map[string]any); isMap {
					objects = append(objects, obj)
					ok = true
				}
			}
			if !ok {
				malformed++
			}
		default:
			malformed++
		}
	}
	return objects, malformed
}

// schemaTypes collects @type values, descending into @graph containers.
func schemaTypes(obj map[string]any) []string {
	var types []string
	switch v := obj["@type"].(type) {
	case string:
		types = append(types, v)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				types = append(types, s)
			}
		}
	}
	if graph, ok := obj["@graph"].([]any); ok {
		for _, item := range graph {
			if node, ok := item.(map[string]any); ok {
				types = append(types, schemaTypes(node)...)
			}
		}
	}
	return types
}

func allSchemaTypes(objects []map[string]any) map[string]bool {
	set := make(map[string]bool)
	for _, obj := range objects {
		for _, t := range schemaTypes(obj) {
			set[t] = true
		}
	}
	return set
}

// orgObjects returns objects typed Organization/LocalBusiness, including
// nodes nested in @graph.
func orgObjects(objects []map[string]any) []map[string]any {
	var out []map[string]any
	var visit func(obj map[string]any)
	visit = func(obj map[string]any) {
		for _, t := range schemaTypes(obj) {
			if t == "Organization" || t == "LocalBusiness" {
				out = append(out, obj)
				break
			}
		}
		if graph, ok := obj["@graph"].([]any); ok {
			for _, item := range graph {
				if node, ok := item.(map[string]any); ok {
					visit(node)
				}
			}
		}
	}
	for _, obj := range objects {
		visit(obj)
	}
	return out
}

func checkJSONLDPresent(sc *SiteContext) CheckResult {
	objects, malformed := parseJSONLD(sc)

	if len(objects) == 0 && malformed == 0 {
		return CheckResult{
			Earned:  0,
			Finding: "No JSON-LD structured data found",
			Detail:  "JSON-LD helps LLMs understand your content structure and entity relationships.",
			FixHint: "Add at minimum an Organization schema.",
			Impact:  8,
		}
	}

	if len(objects) == 0 {
		return CheckResult{
			Earned:  jsonldMalformedPoints,
			Finding: fmt.Sprintf("JSON-LD present but invalid (%d malformed block(s))", malformed),
			Detail:  "The markup exists but does not parse as JSON, so most engines will skip it.",
			FixHint: "Validate your JSON-LD blocks; a trailing comma or comment is the usual culprit.",
			Impact:  7,
		}
	}

	res := CheckResult{
		Earned:  jsonldPresentPoints,
		Finding: fmt.Sprintf("Found %d JSON-LD block(s)", len(objects)+malformed),
	}
	if malformed > 0 {
		res.Earned = jsonldPresentPoints - 1
		res.Detail = fmt.Sprintf("%d block(s) did not parse and were ignored", malformed)
		res.FixHint = "Fix the malformed blocks so every schema is machine-readable."
		res.Impact = 4
	}
	return res
}

func checkJSONLDHighValue(sc *SiteContext) CheckResult {
	objects, _ := parseJSONLD(sc)
	types := allSchemaTypes(objects)

	var found []string
	for t := range types {
		if highValueSchemas[t] {
			found = append(found, t)
		}
	}
	sort.Strings(found)

	if len(found) > 0 {
		return CheckResult{
			Earned:  jsonldHighValuePoints,
			Finding: "High-value schemas found: " + strings.Join(found, ", "),
		}
	}
	return CheckResult{
		Earned:  0,
		Finding: "No high-value schema types found",
		Detail:  "Consider adding: Organization, Product, Article, FAQPage, or HowTo",
		FixHint: "Add Organization schema at minimum - helps LLMs identify your brand.",
		Impact:  7,
	}
}

func checkJSONLDOrgComplete(sc *SiteContext) CheckResult {
	objects, _ := parseJSONLD(sc)
	orgs := orgObjects(objects)

	if len(orgs) == 0 {
		return CheckResult{
			Earned:  0,
			Finding: "No Organization/LocalBusiness schema",
			Detail:  "Organization schema establishes your brand identity for LLMs",
			FixHint: "Add Organization schema with name, description, logo, url, and sameAs (social links)",
			Impact:  7,
		}
	}

	org := orgs[0]
	var missing []string
	for _, field := range recommendedOrgFields {
		if _, ok := org[field]; !ok {
			missing = append(missing, field)
		}
	}

	if len(missing) == 0 {
		return CheckResult{
			Earned:  jsonldOrgPoints,
			Finding: "Organization schema has all recommended fields",
		}
	}
	// Scale by field coverage so a mostly-complete schema gets most credit.
	covered := len(recommendedOrgFields) - len(missing)
	earned := jsonldOrgPoints * covered / len(recommendedOrgFields)
	return CheckResult{
		Earned:  earned,
		Finding: "Organization schema missing recommended fields",
		Detail:  "Missing: " + strings.Join(missing, ", "),
		FixHint: "Add " + strings.Join(missing, ", ") + " to your Organization schema",
		Impact:  4,
	}
}

func checkJSONLDSameAs(sc *SiteContext) CheckResult {
	objects, _ := parseJSONLD(sc)

	for _, obj := range objects {
		sameAs, ok := obj["sameAs"].([]any)
		if ok && len(sameAs) >= 2 {
			return CheckResult{
				Earned:  jsonldSameAsPoints,
				Finding: fmt.Sprintf("Good entity linking via sameAs (%d links)", len(sameAs)),
				Detail:  "Social links help LLMs verify your brand identity",
			}
		}
	}

	return CheckResult{
		Earned:  0,
		Finding: "Missing or minimal sameAs links",
		Detail:  "sameAs links to social profiles help LLMs connect your brand across the web",
		FixHint: "Add sameAs array with links to LinkedIn, Twitter, Facebook, Wikipedia if applicable",
		Impact:  5,
	}
}
