package report

import (
	"fmt"
	"strings"
)

// row is one line of an aligned summary table. Values are pre-formatted
// strings so callers can mix integer, decimal and percentage formatting.
type row struct {
	Label  string
	Values []string
}

// table formats aligned columns for the terminal summary: labels
// left-aligned, values right-aligned per column.
type table struct {
	Headers []string
	Rows    []row
}

func (t *table) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	labelWidth := 0
	for _, r := range t.Rows {
		if len(r.Label) > labelWidth {
			labelWidth = len(r.Label)
		}
	}

	valueWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		valueWidths[i] = len(h)
	}
	for _, r := range t.Rows {
		for i, v := range r.Values {
			if i < len(valueWidths) && len(v) > valueWidths[i] {
				valueWidths[i] = len(v)
			}
		}
	}

	var b strings.Builder

	if headersNonEmpty(t.Headers) {
		b.WriteString(fmt.Sprintf("  %-*s", labelWidth, ""))
		for i, h := range t.Headers {
			b.WriteString(fmt.Sprintf("  %*s", valueWidths[i], h))
		}
		b.WriteString("\n")
	}

	for _, r := range t.Rows {
		b.WriteString(fmt.Sprintf("  %-*s", labelWidth, r.Label))
		for i, v := range r.Values {
			if i < len(valueWidths) {
				b.WriteString(fmt.Sprintf("  %*s", valueWidths[i], v))
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func headersNonEmpty(headers []string) bool {
	for _, h := range headers {
		if h != "" {
			return true
		}
	}
	return false
}
