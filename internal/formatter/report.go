package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"production_advisor/internal/models"

	"github.com/goccy/go-json"
)

// Options controls how a run is printed.
type Options struct {
	// Color enables ANSI styling; callers turn it off when stdout is not a terminal.
	Color bool
	// Top keeps only the first N recommendations; 0 prints all.
	Top int
	// ReasonWidth truncates the reason column; 0 leaves it untouched.
	ReasonWidth int
	// Diagnostics lists every dropped input record below the table.
	Diagnostics bool
}

var tableHeaders = []string{"#", "SEVERITY", "KIND", "SUBJECT", "OPERATION", "REASON", "SUGGESTED ACTION"}

// WriteReport prints a run as a severity-colored table followed by a summary.
func WriteReport(w io.Writer, run *models.AnalysisRun, opts Options) error {
	if run == nil {
		return fmt.Errorf("formatter: nil run")
	}
	p := newPalette(opts.Color)

	var b strings.Builder
	b.WriteString(p.bold.Render("Production advisor report"))
	b.WriteString("  ")
	b.WriteString(p.dim.Render(run.EvaluatedAt.UTC().Format(time.RFC3339)))
	b.WriteString("\n\n")

	recs := run.Recommendations
	if opts.Top > 0 && opts.Top < len(recs) {
		recs = recs[:opts.Top]
	}

	if len(recs) == 0 {
		b.WriteString(p.dim.Render("No recommendations: the plan looks healthy."))
		b.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(recs))
		for i, r := range recs {
			rows = append(rows, []string{
				strconv.Itoa(i),
				p.indicator(r.Severity),
				string(r.Kind),
				r.SubjectID,
				r.OperationName,
				truncate(r.Reason, opts.ReasonWidth),
				r.SuggestedAction,
			})
		}
		b.WriteString(p.renderTable(tableHeaders, rows))
	}

	b.WriteString("\n")
	b.WriteString(summaryLine(run, len(recs)))
	b.WriteString("\n")

	if len(run.FixedOrders) > 0 {
		b.WriteString(p.dim.Render("Fixed orders: " + strings.Join(run.FixedOrders, ", ")))
		b.WriteString("\n")
	}

	if opts.Diagnostics && len(run.Diagnostics) > 0 {
		b.WriteString("\n")
		b.WriteString(p.header.Render("Dropped records"))
		b.WriteString("\n")
		rows := make([][]string, 0, len(run.Diagnostics))
		for _, d := range run.Diagnostics {
			rows = append(rows, []string{d.Collection, strconv.Itoa(d.Index), d.RecordID, d.Field, d.Reason})
		}
		b.WriteString(p.renderTable([]string{"COLLECTION", "INDEX", "ID", "FIELD", "REASON"}, rows))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// summaryLine reads like "3 recommendations (1 critical, 1 high, 1 medium), showing 2; 1 record dropped".
func summaryLine(run *models.AnalysisRun, shown int) string {
	total := len(run.Recommendations)
	bySev := run.Counts.BySeverity

	var parts []string
	for _, s := range []models.Severity{models.SeverityCritical, models.SeverityHigh, models.SeverityMedium} {
		if n := bySev[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, strings.ToLower(string(s))))
		}
	}

	line := plural(total, "recommendation")
	if len(parts) > 0 {
		line += " (" + strings.Join(parts, ", ") + ")"
	}
	if shown < total {
		line += fmt.Sprintf(", showing %d", shown)
	}
	if run.Counts.Dropped > 0 {
		line += "; " + plural(run.Counts.Dropped, "record") + " dropped"
	}
	return line
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// WriteJSON prints the run as indented JSON, keeping only the top N recommendations when set.
func WriteJSON(w io.Writer, run *models.AnalysisRun, top int) error {
	if run == nil {
		return fmt.Errorf("formatter: nil run")
	}
	out := *run
	if top > 0 && top < len(out.Recommendations) {
		out.Recommendations = out.Recommendations[:top]
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
