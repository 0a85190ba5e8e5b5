package formatter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"production_advisor/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun() *models.AnalysisRun {
	return &models.AnalysisRun{
		RunID:       "run-1",
		EvaluatedAt: time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC),
		Origin:      models.OriginInline,
		Recommendations: []models.Recommendation{
			{Kind: models.KindUrgentOrder, SubjectID: "ORD-1", Severity: models.SeverityCritical,
				Reason: "Delivery in 1 day(s)", SuggestedAction: "Immediate attention required"},
			{Kind: models.KindOverload, SubjectID: "M-TUFT", Severity: models.SeverityHigh, OperationName: "Tufting",
				Reason: "Requires 10 hours, exceeds 8 hours", SuggestedAction: "Consider outsourcing or adding shifts."},
			{Kind: models.KindIdleMachine, SubjectID: "M-DYE", Severity: models.SeverityMedium, OperationName: "Dyeing",
				Reason: "Machine is idle", SuggestedAction: "Move lower-priority tasks earlier here"},
		},
		Diagnostics: []models.Diagnostic{
			{Collection: "orders", Index: 3, RecordID: "ORD-9", Field: "deliveryDate", Reason: "required field missing"},
		},
		FixedOrders: []string{"ORD-2"},
		Counts: models.RunCounts{
			Dropped: 1,
			BySeverity: map[models.Severity]int{
				models.SeverityCritical: 1,
				models.SeverityHigh:     1,
				models.SeverityMedium:   1,
			},
		},
	}
}

func TestWriteReport_PlainHasNoEscapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleRun(), Options{Diagnostics: true}))
	out := buf.String()

	assert.NotContains(t, out, "\x1b[")
	for _, want := range []string{
		"SEVERITY", "● CRITICAL", "ORD-1", "M-TUFT", "Tufting", "M-DYE",
		"3 recommendations (1 critical, 1 high, 1 medium); 1 record dropped",
		"Fixed orders: ORD-2",
		"Dropped records", "deliveryDate",
		"2025-03-15T08:00:00Z",
	} {
		assert.Contains(t, out, want)
	}
}

func TestWriteReport_RowsFollowRunOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleRun(), Options{}))
	out := buf.String()

	iCrit := strings.Index(out, "ORD-1")
	iHigh := strings.Index(out, "M-TUFT")
	iMed := strings.Index(out, "M-DYE")
	assert.True(t, iCrit < iHigh && iHigh < iMed, "rows out of order:\n%s", out)
	assert.NotContains(t, out, "Dropped records")
}

func TestWriteReport_ColumnsAligned(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleRun(), Options{}))

	lines := strings.Split(buf.String(), "\n")
	var header string
	var rows []string
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "#"):
			header = line
		case strings.Contains(line, "●"):
			rows = append(rows, line)
		}
	}
	require.NotEmpty(t, header)
	require.Len(t, rows, 3)

	col := lipgloss.Width(header[:strings.Index(header, "KIND")])
	for i, kind := range []string{"UrgentOrder", "Overload", "IdleMachine"} {
		r := rows[i]
		assert.Equal(t, col, lipgloss.Width(r[:strings.Index(r, kind)]), "misaligned row %q", r)
	}
}

func TestWriteReport_Top(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleRun(), Options{Top: 1}))
	out := buf.String()

	assert.Contains(t, out, "ORD-1")
	assert.NotContains(t, out, "M-TUFT")
	assert.Contains(t, out, "showing 1")
}

func TestWriteReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	run := &models.AnalysisRun{Recommendations: []models.Recommendation{}}
	require.NoError(t, WriteReport(&buf, run, Options{}))
	assert.Contains(t, buf.String(), "No recommendations")
	assert.Contains(t, buf.String(), "0 recommendations")
}

func TestWriteReport_NilRun(t *testing.T) {
	assert.Error(t, WriteReport(&bytes.Buffer{}, nil, Options{}))
	assert.Error(t, WriteJSON(&bytes.Buffer{}, nil, 0))
}

func TestWriteJSON_TopDoesNotMutate(t *testing.T) {
	run := sampleRun()
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, run, 2))

	var got models.AnalysisRun
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-1", got.RunID)
	require.Len(t, got.Recommendations, 2)
	assert.Equal(t, "M-TUFT", got.Recommendations[1].SubjectID)
	assert.Len(t, run.Recommendations, 3)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 0))
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
	assert.Equal(t, "…", truncate("abcd", 1))
}

func TestPaletteSeverity(t *testing.T) {
	p := newPalette(false)
	assert.Equal(t, "● HIGH", p.indicator(models.SeverityHigh))
	assert.Equal(t, "● UNKNOWN", p.indicator(""))
}
