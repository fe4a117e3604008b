package leads

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// maxCellLen caps the Project and Status columns so one verbose CRM entry
// cannot blow up the table layout.
const maxCellLen = 20

// IndexTable renders the leads index section appended to the memory file.
// now is the fetch time; ages are whole-day differences from it.
func IndexTable(rows []Lead, now time.Time) string {
	var b strings.Builder
	b.WriteString("\n## Leads Index\n\n")
	fmt.Fprintf(&b, "_Snapshot of %d leads, fetched %s._\n\n", len(rows), now.UTC().Format("2006-01-02 15:04 MST"))
	b.WriteString("| Name | Phone | Project | Status | Priority | Updated |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, l := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			cell(l.Name),
			cell(l.Phone),
			cell(truncate(l.Project)),
			cell(truncate(l.Status)),
			cell(l.Priority),
			cell(age(l.UpdatedAt, now)),
		)
	}
	return b.String()
}

// age formats the whole-day difference between ts and now as "<N>d ago".
// If ts does not parse, the raw string is shown verbatim. That fallback is
// deliberate: a mangled timestamp in the table still tells the agent more
// than a blank cell would.
func age(ts string, now time.Time) string {
	t, ok := parseTime(ts)
	if !ok {
		return ts
	}
	days := int(now.Sub(t).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return fmt.Sprintf("%dd ago", days)
}

// parseTime accepts the timestamp shapes PostgREST emits: RFC3339 with
// offset or Z (optionally fractional), a bare datetime, or a bare date.
func parseTime(ts string) (time.Time, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// truncate cuts s to maxCellLen characters. Counting runes, not bytes,
// keeps a multibyte value from being severed mid-character and corrupting
// the file's UTF-8.
func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxCellLen {
		return s
	}
	return string([]rune(s)[:maxCellLen])
}

// cell escapes pipes and fills empties so every row stays a valid table row.
func cell(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "|", "\\|"))
	if s == "" {
		return "-"
	}
	return s
}
