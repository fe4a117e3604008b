package leads

import (
	"fmt"
	"strings"
	"time"
)

const (
	// staleAfterDays: a lead untouched this long counts as stale.
	staleAfterDays = 7
	// maxStaleRows caps the stale section so an abandoned pipeline does
	// not swallow the whole memory file.
	maxStaleRows = 20
)

// Report renders the optional analysis section: leads created today, leads
// gone stale, and hot leads whose status mentions a site visit.
func Report(rows []Lead, now time.Time) string {
	now = now.UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	staleCutoff := now.AddDate(0, 0, -staleAfterDays)

	var newToday, stale, hot []string
	for _, l := range rows {
		line := reportLine(l)

		if t, ok := parseTime(l.CreatedAt); ok && !t.Before(todayStart) {
			newToday = append(newToday, line)
		}
		if t, ok := parseTime(l.UpdatedAt); ok && t.Before(staleCutoff) {
			days := int(now.Sub(t).Hours() / 24)
			stale = append(stale, fmt.Sprintf("%s (last updated %dd ago)", line, days))
		}
		if strings.Contains(strings.ToLower(l.Status), "site visit") {
			hot = append(hot, line)
		}
	}

	var b strings.Builder
	b.WriteString("\n## Leads Report\n\n")
	fmt.Fprintf(&b, "_Generated %s. %d leads total._\n", now.Format("2006-01-02"), len(rows))

	fmt.Fprintf(&b, "\n### New Today (%d)\n\n", len(newToday))
	writeLines(&b, newToday, 0)

	fmt.Fprintf(&b, "\n### Stale — No Update in %d+ Days (%d)\n\n", staleAfterDays, len(stale))
	writeLines(&b, stale, maxStaleRows)

	fmt.Fprintf(&b, "\n### Hot — Site Visit Status (%d)\n\n", len(hot))
	writeLines(&b, hot, 0)

	return b.String()
}

func reportLine(l Lead) string {
	fields := []string{l.Name, l.Phone, l.Project, l.Status, l.Priority}
	for i, f := range fields {
		if strings.TrimSpace(f) == "" {
			fields[i] = "-"
		}
	}
	return "- " + strings.Join(fields, " | ")
}

func writeLines(b *strings.Builder, lines []string, limit int) {
	if len(lines) == 0 {
		b.WriteString("None.\n")
		return
	}
	shown := lines
	if limit > 0 && len(lines) > limit {
		shown = lines[:limit]
	}
	for _, l := range shown {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if len(shown) < len(lines) {
		fmt.Fprintf(b, "…and %d more.\n", len(lines)-len(shown))
	}
}
