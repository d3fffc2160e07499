// Package report turns a batch of analyses into output artifacts: a CSV
// report sorted by score, a JSON dump, and a styled terminal summary.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Freedom18946/audioquality/internal/safeio"
	"github.com/Freedom18946/audioquality/internal/scoring"
)

var csvHeader = []string{
	"qualityScore", "status", "confidence", "filePath", "notes",
	"integratedLoudnessLufs", "truePeakDbtp", "lra",
	"peakAmplitudeDb", "overallRmsDb",
	"rmsDbAbove16k", "rmsDbAbove18k", "rmsDbAbove20k",
	"sampleRateHz", "bitrateKbps", "channels", "codecName",
	"fileSizeBytes", "processingTimeMs", "errorCodes",
}

// sortByScore orders analyses by descending score, path as tie-breaker so
// output is deterministic across runs.
func sortByScore(analyses []scoring.Analysis) []scoring.Analysis {
	sorted := make([]scoring.Analysis, len(analyses))
	copy(sorted, analyses)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].FilePath < sorted[j].FilePath
	})
	return sorted
}

// WriteCSV writes all analyses to path as a CSV report, best score first.
func WriteCSV(analyses []scoring.Analysis, path string, safeMode bool) error {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, a := range sortByScore(analyses) {
		if err := w.Write(csvRow(a)); err != nil {
			return fmt.Errorf("write csv row for %s: %w", a.FilePath, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return safeio.WriteFileAtomic(path, []byte(b.String()), safeMode)
}

func csvRow(a scoring.Analysis) []string {
	r := a.Record
	return []string{
		strconv.Itoa(a.Score),
		a.StatusText,
		strconv.FormatFloat(a.Confidence, 'f', 2, 64),
		a.FilePath,
		strings.Join(a.Notes, "; "),
		formatFloat(r.IntegratedLUFS),
		formatFloat(r.TruePeakDBTP),
		formatFloat(r.LRA),
		formatFloat(r.PeakDB),
		formatFloat(r.OverallRMSDB),
		formatFloat(r.RMSAbove16k),
		formatFloat(r.RMSAbove18k),
		formatFloat(r.RMSAbove20k),
		formatInt(r.SampleRateHz),
		formatInt(r.BitrateKbps),
		formatInt(r.Channels),
		r.CodecName,
		strconv.FormatInt(r.FileSizeBytes, 10),
		strconv.FormatInt(r.ProcessingTime.Milliseconds(), 10),
		strings.Join(r.ErrorCodes, ";"),
	}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// WriteJSON dumps all analyses, including their full measurement records,
// to path as indented JSON, best score first.
func WriteJSON(analyses []scoring.Analysis, path string, safeMode bool) error {
	data, err := json.MarshalIndent(sortByScore(analyses), "", "  ")
	if err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	return safeio.WriteFileAtomic(path, data, safeMode)
}

// Styles for the terminal summary.
var (
	summaryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#5FAFFF")).
				MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#AFAFAF"))

	goodScoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F"))
	midScoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D7D75F"))
	badScoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D75F5F"))
)

func scoreStyle(score int) lipgloss.Style {
	switch {
	case score > 90:
		return goodScoreStyle
	case score >= 60:
		return midScoreStyle
	default:
		return badScoreStyle
	}
}

// TopN is the default ranking length in the summary.
const TopN = 10

// Summary renders the human-readable batch summary: status distribution,
// top-ranked files and score statistics.
func Summary(analyses []scoring.Analysis) string {
	if len(analyses) == 0 {
		return "No analysis results to display.\n"
	}

	var b strings.Builder
	b.WriteString(summaryTitleStyle.Render("Quality analysis summary"))
	b.WriteString("\n\n")

	writeStatusDistribution(&b, analyses)
	writeTopRanking(&b, analyses, TopN)
	writeStatistics(&b, analyses)

	return b.String()
}

func writeStatusDistribution(b *strings.Builder, analyses []scoring.Analysis) {
	counts := make(map[string]int)
	var order []string
	for _, a := range analyses {
		if counts[a.StatusText] == 0 {
			order = append(order, a.StatusText)
		}
		counts[a.StatusText]++
	}
	sort.Slice(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return order[i] < order[j]
	})

	b.WriteString(sectionStyle.Render("Status distribution"))
	b.WriteString("\n")

	t := table{}
	for _, status := range order {
		n := counts[status]
		pct := float64(n) / float64(len(analyses)) * 100
		t.Rows = append(t.Rows, row{
			Label:  status,
			Values: []string{strconv.Itoa(n), fmt.Sprintf("(%.1f%%)", pct)},
		})
	}
	t.Headers = make([]string, 2)
	b.WriteString(t.String())
	b.WriteString("\n")
}

func writeTopRanking(b *strings.Builder, analyses []scoring.Analysis, n int) {
	sorted := sortByScore(analyses)
	if n > len(sorted) {
		n = len(sorted)
	}

	b.WriteString(sectionStyle.Render(fmt.Sprintf("Top %d files", n)))
	b.WriteString("\n")
	for i, a := range sorted[:n] {
		score := scoreStyle(a.Score).Render(fmt.Sprintf("%2d", a.Score))
		b.WriteString(fmt.Sprintf("  %2d. [%s] [%s] %s\n",
			i+1, score, a.StatusText, filepath.Base(a.FilePath)))
	}
	b.WriteString("\n")
}

func writeStatistics(b *strings.Builder, analyses []scoring.Analysis) {
	scores := make([]int, len(analyses))
	sum := 0
	for i, a := range analyses {
		scores[i] = a.Score
		sum += a.Score
	}
	sort.Ints(scores)

	mean := float64(sum) / float64(len(scores))
	median := float64(scores[len(scores)/2])
	if len(scores)%2 == 0 {
		median = float64(scores[len(scores)/2-1]+scores[len(scores)/2]) / 2
	}

	b.WriteString(sectionStyle.Render("Score statistics"))
	b.WriteString("\n")
	t := table{Rows: []row{
		{Label: "Files", Values: []string{strconv.Itoa(len(scores))}},
		{Label: "Mean", Values: []string{fmt.Sprintf("%.1f", mean)}},
		{Label: "Median", Values: []string{fmt.Sprintf("%.1f", median)}},
		{Label: "Min", Values: []string{strconv.Itoa(scores[0])}},
		{Label: "Max", Values: []string{strconv.Itoa(scores[len(scores)-1])}},
	}}
	t.Headers = make([]string, 1)
	b.WriteString(t.String())
}
