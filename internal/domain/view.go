package domain

import (
	"fmt"
	"time"
)

type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// PriorityTier buckets a final score for display.
func PriorityTier(score float64) Tier {
	switch {
	case score >= 7:
		return TierHigh
	case score >= 4:
		return TierMedium
	default:
		return TierLow
	}
}

// DaysRemaining returns the whole calendar days from now's date to dueDate.
// ok is false when the due date is unset or not in canonical form.
func DaysRemaining(dueDate string, now time.Time) (days int, ok bool) {
	if dueDate == "" {
		return 0, false
	}
	due, err := time.ParseInLocation("2006-1-2", NormalizeDate(dueDate), now.Location())
	if err != nil {
		return 0, false
	}

	// Compare as UTC dates so a DST shift inside the span cannot skew the count.
	a := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24), true
}

// DeadlineLabel renders the deadline line shown next to an analysed task.
func DeadlineLabel(dueDate string, now time.Time) string {
	days, ok := DaysRemaining(dueDate, now)
	switch {
	case !ok:
		return "Not set"
	case days > 0:
		return fmt.Sprintf("%d days left", days)
	case days == 0:
		return "Due today"
	default:
		return fmt.Sprintf("Overdue by %d days", -days)
	}
}
