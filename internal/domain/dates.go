package domain

import "strings"

// NormalizeDate converts DD/MM/YYYY into the canonical YYYY-MM-DD form.
// Strings containing '-' are assumed canonical already; anything else that
// is not a three part slash date is returned unchanged. The result is not
// checked against the calendar.
func NormalizeDate(d string) string {
	if d == "" || strings.Contains(d, "-") || !strings.Contains(d, "/") {
		return d
	}

	parts := strings.Split(d, "/")
	if len(parts) != 3 {
		return d
	}
	day, month, year := parts[0], parts[1], parts[2]
	return year + "-" + month + "-" + day
}
