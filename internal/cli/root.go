package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/remindue/internal/config"
	"github.com/julianstephens/remindue/internal/constants"
	"github.com/julianstephens/remindue/internal/dates"
	"github.com/julianstephens/remindue/internal/engine"
	"github.com/julianstephens/remindue/internal/gateway"
	"github.com/julianstephens/remindue/internal/storage"
)

type Context struct {
	Store   storage.Provider
	Engine  *engine.Engine
	Gateway *gateway.Local
	Config  config.Config
}

// ParseDueAt combines a date and an optional time-of-day into a local
// timestamp. An empty timeStr falls back to the default due time.
func ParseDueAt(dateStr, timeStr string) (time.Time, error) {
	day, err := time.ParseInLocation(constants.DateFormat, dateStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}

	if timeStr == "" {
		timeStr = constants.DefaultDueTime
	}
	tod, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format (expected HH:MM): %w", err)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, time.Local), nil
}

// DueBadge returns the list badge for a due date: "Overdue", "Soon" for
// dates within the soon threshold, otherwise empty.
func DueBadge(now, due time.Time) string {
	days := dates.DaysUntil(now, due)
	switch {
	case days < 0:
		return "Overdue"
	case days <= constants.SoonThresholdDays:
		return "Soon"
	default:
		return ""
	}
}
