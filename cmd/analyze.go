package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"production_advisor/internal/advisor"
	"production_advisor/internal/formatter"
	"production_advisor/internal/logger"
	"production_advisor/internal/normalize"
	"production_advisor/internal/service"

	"github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// snapshotFile is the on-disk layout read by analyze; it matches the inline evaluate request.
type snapshotFile struct {
	Shape    string             `json:"shape"`
	Orders   []normalize.Record `json:"orders"`
	Machines []normalize.Record `json:"machines"`
	Schedule []normalize.Record `json:"schedule"`
}

type analyzeOptions struct {
	input       string
	shape       string
	now         string
	top         int
	asJSON      bool
	noColor     bool
	diagnostics bool
}

func newAnalyzeCmd(v *viper.Viper) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Evaluate a plan snapshot file once and print the ranked recommendations",
		Example: "  production-advisor analyze --input plan.json --shape kera --top 5\n" +
			"  curl -s $PLAN_URL | production-advisor analyze --input - --json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(v)
			if err != nil {
				return err
			}
			return analyze(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "snapshot JSON file with orders, machines and schedule; - reads stdin")
	f.StringVar(&opts.shape, "shape", "", "record shape: kera, legacy or canonical (default: file, then canonical)")
	f.StringVar(&opts.now, "now", "", "evaluation time, RFC3339 or YYYY-MM-DD (default: current time)")
	f.IntVarP(&opts.top, "top", "n", 0, "print only the N most urgent recommendations (0 = all)")
	f.BoolVar(&opts.asJSON, "json", false, "print the run as JSON")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colors even on a terminal")
	f.BoolVar(&opts.diagnostics, "diagnostics", false, "list dropped input records")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func analyze(ctx context.Context, stdin io.Reader, out io.Writer, cfg appConfig, opts analyzeOptions) error {
	if opts.top < 0 {
		return fmt.Errorf("--top must not be negative, got %d", opts.top)
	}
	snap, err := readSnapshot(stdin, opts.input)
	if err != nil {
		return err
	}

	shape := snap.Shape
	if opts.shape != "" {
		shape = opts.shape
	}
	var now time.Time
	if opts.now != "" {
		if now, err = parseNow(opts.now); err != nil {
			return err
		}
	}

	engine, err := advisor.NewEngine(cfg.Advisor)
	if err != nil {
		return err
	}
	// analyze is a pipe-friendly one-shot: nothing is persisted and logs would pollute stdout
	svc, err := service.NewAnalysisService(nil, service.Deps{Engine: engine, Log: logger.Nop()})
	if err != nil {
		return err
	}
	run, err := svc.Evaluate(ctx, service.EvaluateInput{
		Shape: shape,
		Raw: normalize.RawSnapshot{
			Orders:   snap.Orders,
			Machines: snap.Machines,
			Schedule: snap.Schedule,
		},
		Now: now,
	})
	if err != nil {
		return err
	}

	if opts.asJSON {
		return formatter.WriteJSON(out, run, opts.top)
	}
	return formatter.WriteReport(out, run, formatter.Options{
		Color:       !opts.noColor && isTerminal(out),
		Top:         opts.top,
		ReasonWidth: 60,
		Diagnostics: opts.diagnostics,
	})
}

func readSnapshot(stdin io.Reader, path string) (snapshotFile, error) {
	var (
		body []byte
		err  error
	)
	if path == "-" {
		body, err = io.ReadAll(stdin)
	} else {
		body, err = os.ReadFile(path)
	}
	if err != nil {
		return snapshotFile{}, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap snapshotFile
	if err := json.Unmarshal(body, &snap); err != nil {
		return snapshotFile{}, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	return snap, nil
}

func parseNow(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --now %q; use RFC3339 or YYYY-MM-DD", s)
}

// isTerminal reports whether w is a terminal; colors are only emitted there.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
