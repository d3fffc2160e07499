package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// recentShown bounds the finished-files list so large batches stay readable.
const recentShown = 10

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5FAFFF"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	okIconStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F"))
	activeIconStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D7D75F"))
	errIconStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D75F5F"))
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	footerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#888888")).
			Padding(0, 1).
			Width(60)
)

// renderAnalysisView renders the main in-progress view
func renderAnalysisView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	b.WriteString(renderActiveFiles(m))
	b.WriteString(renderRecentResults(m))
	b.WriteString("\n")

	b.WriteString(renderFooter(m))

	return b.String()
}

func renderHeader(m Model) string {
	title := titleStyle.Render("audioquality 🎧 - Audio Collection Quality Analyzer")
	subtitle := subtitleStyle.Render(
		fmt.Sprintf("Analyzing %d file(s) against the %s profile", m.TotalFiles, m.Profile))
	return title + "\n" + subtitle
}

// renderActiveFiles lists every file currently being measured
func renderActiveFiles(m Model) string {
	var b strings.Builder
	icon := activeIconStyle.Render("⚙")

	for _, f := range m.Files {
		if f.Status != StatusAnalyzing {
			continue
		}
		elapsed := time.Since(f.StartTime).Seconds()
		b.WriteString(fmt.Sprintf(" %s %s %s\n",
			icon,
			filepath.Base(f.Path),
			mutedStyle.Render(fmt.Sprintf("(%.1fs)", elapsed))))
	}

	return b.String()
}

// renderRecentResults lists the most recently finished files
func renderRecentResults(m Model) string {
	start := 0
	if len(m.finished) > recentShown {
		start = len(m.finished) - recentShown
	}

	var b strings.Builder
	for _, idx := range m.finished[start:] {
		b.WriteString(renderResultLine(m.Files[idx]))
		b.WriteString("\n")
	}
	return b.String()
}

func renderResultLine(f FileProgress) string {
	name := filepath.Base(f.Path)

	if f.Status == StatusError {
		icon := errIconStyle.Render("✗")
		return fmt.Sprintf(" %s %s\n   Error: %v", icon, name, f.Error)
	}

	icon := okIconStyle.Render("✓")
	suffix := ""
	if f.Confidence < 1.0 {
		suffix += mutedStyle.Render(fmt.Sprintf(" (confidence %.2f)", f.Confidence))
	}
	if f.CacheHit {
		suffix += mutedStyle.Render(" (cached)")
	}
	return fmt.Sprintf(" %s %s  [score %d] [%s]%s", icon, name, f.Score, f.StatusText, suffix)
}

func renderFooter(m Model) string {
	done := m.CompletedFiles + m.FailedFiles
	var content strings.Builder

	content.WriteString(renderProgressBar(float64(done)/float64(max(m.TotalFiles, 1)), 40))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("%d of %d analyzed", done, m.TotalFiles))
	if m.FailedFiles > 0 {
		content.WriteString(fmt.Sprintf(", %d failed", m.FailedFiles))
	}
	content.WriteString(fmt.Sprintf(" | elapsed %.0fs", time.Since(m.StartTime).Seconds()))
	content.WriteString("\n")
	content.WriteString(mutedStyle.Render("Press q to quit"))

	return footerStyle.Render(content.String())
}

// renderProgressBar renders a progress bar
func renderProgressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	filled := int(progress * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %d%%", bar, int(progress*100))
}

// renderCompletionSummary renders the final screen before the program exits
func renderCompletionSummary(m Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Analysis complete"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf(" %s %d analyzed\n", okIconStyle.Render("✓"), m.CompletedFiles))
	if m.FailedFiles > 0 {
		b.WriteString(fmt.Sprintf(" %s %d failed\n", errIconStyle.Render("✗"), m.FailedFiles))
		for _, f := range m.Files {
			if f.Status == StatusError {
				b.WriteString(fmt.Sprintf("   %s: %v\n", filepath.Base(f.Path), f.Error))
			}
		}
	}
	b.WriteString(fmt.Sprintf("\n Total time: %.1fs\n", time.Since(m.StartTime).Seconds()))

	return b.String()
}
