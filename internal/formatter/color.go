package formatter

import (
	"production_advisor/internal/models"

	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorRed    = lipgloss.Color("#fb4934")
	ColorOrange = lipgloss.Color("#fe8019")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#83a598")
)

// palette holds the styles of one rendering. A colorless palette renders plain text.
type palette struct {
	critical lipgloss.Style
	high     lipgloss.Style
	medium   lipgloss.Style
	header   lipgloss.Style
	dim      lipgloss.Style
	bold     lipgloss.Style
}

func newPalette(color bool) palette {
	if !color {
		plain := lipgloss.NewStyle()
		return palette{plain, plain, plain, plain, plain, plain}
	}
	return palette{
		critical: lipgloss.NewStyle().Foreground(ColorRed).Bold(true),
		high:     lipgloss.NewStyle().Foreground(ColorOrange),
		medium:   lipgloss.NewStyle().Foreground(ColorYellow),
		header:   lipgloss.NewStyle().Foreground(ColorHeader).Bold(true),
		dim:      lipgloss.NewStyle().Foreground(ColorDim),
		bold:     lipgloss.NewStyle().Foreground(ColorFg).Bold(true),
	}
}

// severity returns the style for a recommendation severity.
func (p palette) severity(s models.Severity) lipgloss.Style {
	switch s {
	case models.SeverityCritical:
		return p.critical
	case models.SeverityHigh:
		return p.high
	case models.SeverityMedium:
		return p.medium
	default:
		return p.dim
	}
}

// indicator renders a marker such as "● CRITICAL".
func (p palette) indicator(s models.Severity) string {
	label := string(s)
	if label == "" {
		label = "unknown"
	}
	return p.severity(s).Render("● " + upper(label))
}
