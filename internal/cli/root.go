package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/rollcall/internal/constants"
	"github.com/sadopc/rollcall/internal/logger"
	"github.com/sadopc/rollcall/internal/notify"
	"github.com/sadopc/rollcall/internal/store"
)

type Context struct {
	Store     *store.Store
	Scheduler *notify.Scheduler
	Out       io.Writer
	Now       func() time.Time
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

// Reschedule rebuilds the reminder queue from current data. Failures are
// logged and never interrupt the command that triggered them.
func (c *Context) Reschedule() {
	if c.Scheduler == nil {
		return
	}
	rs, err := c.Store.ReminderSettings()
	if err != nil {
		logger.Warn("Could not load reminder settings", "error", err)
		return
	}
	settings := notify.Settings{ClassReminders: rs.ClassReminders, TaskReminders: rs.TaskReminders}
	if err := c.Scheduler.RescheduleAll(settings); err != nil {
		logger.Warn("Reminder reschedule failed", "error", err)
	}
}

// ParseDate accepts YYYY-MM-DD or one of today, yesterday and tomorrow. An
// empty string means today.
func ParseDate(s string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now.Format(constants.DateFormat), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(constants.DateFormat), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(constants.DateFormat), nil
	}
	if err := store.ValidateDate("date", s); err != nil {
		return "", err
	}
	return s, nil
}

// ParseWeekday accepts a weekday name, its three-letter abbreviation or a
// number where 0 is Sunday.
func ParseWeekday(s string) (int, error) {
	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	part := strings.TrimSpace(strings.ToLower(s))
	if wd, ok := dayMap[part]; ok {
		return int(wd), nil
	}
	num, err := strconv.Atoi(part)
	if err == nil && num >= 0 && num <= 6 {
		return num, nil
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}

// weekdayOf returns the day of week for a YYYY-MM-DD date.
func weekdayOf(date string) (int, error) {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatPercent(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *p)
}
