package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/huiren/geoaudit/internal/app"
	"github.com/huiren/geoaudit/internal/fixgen"
	"github.com/huiren/geoaudit/internal/logging"
	"github.com/huiren/geoaudit/internal/render"
	"github.com/huiren/geoaudit/internal/server"
	"github.com/huiren/geoaudit/internal/webclient"
)

// Run executes one CLI invocation and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	parsed, err := ParseArgs(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(stdout, Usage)
			return 0
		}
		fmt.Fprintf(stderr, "geoaudit: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, parsed, stdout); err != nil {
		fmt.Fprintf(stderr, "geoaudit: %v\n", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, a *Args, stdout io.Writer) error {
	cfg := appConfig(a)

	if a.Command == "serve" {
		return serve(a, cfg)
	}

	application, err := app.New(cfg, logging.Nop{})
	if err != nil {
		return err
	}
	defer application.Close()

	switch a.Command {
	case "audit":
		return runAudit(ctx, application, a, stdout)
	case "probe":
		return runProbe(ctx, application, a, stdout)
	case "fix":
		return runFix(ctx, application, a, stdout)
	case "history":
		return runHistory(ctx, application, a, stdout)
	}
	return fmt.Errorf("unknown command %q", a.Command)
}

func appConfig(a *Args) *app.Config {
	cfg := app.DefaultConfig()
	if a.Render {
		cfg.WebClient.Backend = webclient.BackendChromedp
	}
	if a.Timeout > 0 {
		cfg.WebClient.Timeout = a.Timeout
		cfg.Prober.ProviderTimeout = a.Timeout
	}
	cfg.Providers = a.Providers
	cfg.Prober.Competitors = a.Competitors
	return cfg
}

func runAudit(ctx context.Context, application *app.Application, a *Args, stdout io.Writer) error {
	report, err := application.Audit(ctx, a.Target)
	if err != nil {
		return err
	}

	if a.JSON {
		return render.JSON(stdout, report)
	}
	render.AuditText(stdout, report, a.Verbose)
	return nil
}

func runProbe(ctx context.Context, application *app.Application, a *Args, stdout io.Writer) error {
	report, err := application.Probe(ctx, a.Target, a.Industry)
	if err != nil {
		return err
	}

	if a.JSON {
		return render.JSON(stdout, report)
	}
	render.ProbeText(stdout, report)
	return nil
}

func runFix(ctx context.Context, application *app.Application, a *Args, stdout io.Writer) error {
	opts := fixgen.Options{LlmsTxt: a.LlmsTxt, Schema: a.Schema, SchemaType: a.SchemaType}

	artifacts, sc, err := application.Fix(ctx, a.Target, opts)
	if err != nil {
		return err
	}

	if a.Preview {
		for _, art := range artifacts {
			current := ""
			if art.Name == "llms.txt" && sc.LlmsTxt.Present {
				current = sc.LlmsTxt.Body
			}
			fmt.Fprintf(stdout, "--- %s ---\n%s\n", art.Name, fixgen.PreviewDiff(current, art.Content))
		}
		return nil
	}

	if a.OutDir != "" {
		if err := fixgen.WriteArtifacts(a.OutDir, artifacts); err != nil {
			return err
		}
		for _, art := range artifacts {
			fmt.Fprintf(stdout, "wrote %s\n", art.Name)
		}
		return nil
	}

	if a.JSON {
		return render.JSON(stdout, artifacts)
	}
	for _, art := range artifacts {
		fmt.Fprintf(stdout, "--- %s ---\n%s\n", art.Name, art.Content)
	}
	return nil
}

func runHistory(ctx context.Context, application *app.Application, a *Args, stdout io.Writer) error {
	if a.CompareA != "" {
		cmp, err := application.Compare(ctx, a.CompareA, a.CompareB)
		if err != nil {
			return err
		}
		if a.JSON {
			return render.JSON(stdout, cmp)
		}
		render.ComparisonText(stdout, cmp)
		return nil
	}

	entries, err := application.History(ctx, a.Target, a.Limit)
	if err != nil {
		return err
	}
	if a.JSON {
		return render.JSON(stdout, entries)
	}
	render.HistoryText(stdout, a.Target, entries)
	return nil
}

func serve(a *Args, cfg *app.Config) error {
	logger := logging.NewStdoutLogger("geoaudit")

	s, err := server.NewServer(server.Config{
		ListenAddr: a.Addr,
		AppConfig:  cfg,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	logger.Info("listening", logging.Field{Key: "addr", Value: a.Addr})
	return s.HTTPServer().ListenAndServe()
}
