package fixgen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/huiren/geoaudit/internal/audit"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Options selects what to generate. With neither LlmsTxt nor Schema set,
// everything is generated.
type Options struct {
	LlmsTxt    bool
	Schema     bool
	SchemaType string
}

// Artifact is one generated file, named by its suggested filename.
type Artifact struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Generate produces remediation artifacts from a fetched site snapshot.
func Generate(sc *audit.SiteContext, opts Options) ([]Artifact, error) {
	all := !opts.LlmsTxt && !opts.Schema

	var artifacts []Artifact
	if opts.LlmsTxt || all {
		artifacts = append(artifacts, Artifact{
			Name:    "llms.txt",
			Content: GenerateLlmsTxt(sc.Doc, sc.Target),
		})
	}
	if opts.Schema || all {
		if opts.SchemaType != "" {
			schema, err := GenerateSchema(sc.Doc, sc.Target, opts.SchemaType)
			if err != nil {
				return nil, err
			}
			artifacts = append(artifacts, Artifact{Name: "schema.html", Content: SchemaHTML(schema)})
		} else {
			for _, schema := range GenerateAllSchemas(sc.Doc, sc.Target) {
				name := fmt.Sprintf("schema-%s.html", schema["@type"])
				artifacts = append(artifacts, Artifact{Name: name, Content: SchemaHTML(schema)})
			}
		}
	}
	return artifacts, nil
}

// WriteArtifacts persists artifacts under dir, creating it when needed.
func WriteArtifacts(dir string, artifacts []Artifact) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	for _, a := range artifacts {
		path := filepath.Join(dir, a.Name)
		if err := os.WriteFile(path, []byte(a.Content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// PreviewDiff renders an inline diff between the site's current llms.txt and
// the generated one, for preview mode when a live file already exists.
func PreviewDiff(current, generated string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(current, generated, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffPrettyText(diffs)
}
