package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/rollcall/internal/constants"
	"github.com/sadopc/rollcall/internal/logger"
	"github.com/sadopc/rollcall/internal/store"
)

type MarkCmd struct {
	Class  int64  `arg:"" help:"Class ID."`
	Status string `arg:"" enum:"present,absent,cancelled,holiday" help:"Status (present, absent, cancelled, holiday)."`
	Date   string `short:"d" help:"Date (YYYY-MM-DD, today, yesterday)." default:"today"`
	Note   string `short:"n" help:"Attach a note to the mark."`
}

func (c *MarkCmd) Run(ctx *Context) error {
	date, err := ParseDate(c.Date, ctx.now())
	if err != nil {
		return err
	}
	entry, err := ctx.Store.GetTimetableEntry(c.Class)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("class %d not found", c.Class)
	}
	if day, _ := weekdayOf(date); day != entry.DayOfWeek {
		logger.Warn("Marking a class on a day it is not scheduled", "class", c.Class, "date", date)
	}

	status := store.Status(c.Status)
	if err := ctx.Store.UpsertAttendance(c.Class, date, status); err != nil {
		return err
	}
	if c.Note != "" {
		if _, err := ctx.Store.SetAttendanceNotes(c.Class, date, optional(c.Note)); err != nil {
			return err
		}
	}
	ctx.Reschedule()
	ctx.printf("Marked class %d %s on %s\n", c.Class, statusLabel(&status), date)
	return nil
}

type UnmarkCmd struct {
	Class int64  `arg:"" help:"Class ID."`
	Date  string `short:"d" help:"Date (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *UnmarkCmd) Run(ctx *Context) error {
	date, err := ParseDate(c.Date, ctx.now())
	if err != nil {
		return err
	}
	if err := ctx.Store.ClearAttendance(c.Class, date); err != nil {
		return err
	}
	ctx.Reschedule()
	ctx.printf("Cleared mark for class %d on %s\n", c.Class, date)
	return nil
}

type TodayCmd struct {
	Interactive bool `short:"i" help:"Step through today's classes and mark each one."`
}

func (c *TodayCmd) Run(ctx *Context) error {
	date := ctx.now().Format(constants.DateFormat)
	if c.Interactive {
		if err := markInteractively(ctx, date); err != nil {
			return err
		}
	}
	return renderDay(ctx, date)
}

type DayCmd struct {
	Date        string `arg:"" help:"Date (YYYY-MM-DD, today, yesterday, tomorrow)."`
	Interactive bool   `short:"i" help:"Step through the day's classes and mark each one."`
}

func (c *DayCmd) Run(ctx *Context) error {
	date, err := ParseDate(c.Date, ctx.now())
	if err != nil {
		return err
	}
	if c.Interactive {
		if err := markInteractively(ctx, date); err != nil {
			return err
		}
	}
	return renderDay(ctx, date)
}

// markInteractively prompts for a status for every class scheduled on date
// and reschedules reminders once at the end.
func markInteractively(ctx *Context, date string) error {
	day, err := weekdayOf(date)
	if err != nil {
		return err
	}
	details, err := ctx.Store.AttendanceDetailsForDate(date, day)
	if err != nil {
		return err
	}

	changed := 0
	for _, d := range details {
		title := fmt.Sprintf("%s %s-%s", d.SubjectName, d.StartTime, d.EndTime)
		choice, err := selectStatusFunc(title, d.Status)
		if err != nil {
			return err
		}
		if choice == skipChoice || (d.Status != nil && string(*d.Status) == choice) {
			continue
		}
		if err := ctx.Store.UpsertAttendance(d.ID, date, store.Status(choice)); err != nil {
			return err
		}
		changed++
	}
	if changed > 0 {
		ctx.Reschedule()
	}
	return nil
}

// renderDay prints every class scheduled on the weekday of date with its
// mark and its subject's running percentage.
func renderDay(ctx *Context, date string) error {
	day, err := weekdayOf(date)
	if err != nil {
		return err
	}
	details, err := ctx.Store.AttendanceDetailsForDate(date, day)
	if err != nil {
		return err
	}
	classes, err := ctx.Store.ClassesForDay(day)
	if err != nil {
		return err
	}
	rates := make(map[int64]store.ClassWithAttendance, len(classes))
	for _, cl := range classes {
		rates[cl.ID] = cl
	}

	t, _ := time.Parse(constants.DateFormat, date)
	ctx.printf("%s\n", titleStyle.Render(t.Format("Monday, 02 Jan 2006")))
	if len(details) == 0 {
		ctx.printf("%s\n", mutedStyle.Render("  No classes scheduled."))
		return nil
	}
	for _, d := range details {
		pct := "n/a"
		if cl, ok := rates[d.ID]; ok {
			p := cl.Percentage()
			meets := p == nil || *p >= cl.TargetAttendance
			pct = targetStyle(meets).Render(formatPercent(p))
		}
		ctx.printf("  %-4d %s-%s %s %-20s %-10s %s\n",
			d.ID, d.StartTime, d.EndTime, colorDot(d.SubjectColor), d.SubjectName,
			statusLabel(d.Status), pct)
	}
	return nil
}

type CalendarCmd struct {
	Month string `short:"m" help:"Month to show (YYYY-MM). Defaults to the current month."`
}

func (c *CalendarCmd) Run(ctx *Context) error {
	now := ctx.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if c.Month != "" {
		m, err := time.Parse("2006-01", c.Month)
		if err != nil {
			return fmt.Errorf("invalid month %q, expected YYYY-MM", c.Month)
		}
		first = m
	}
	last := first.AddDate(0, 1, -1)

	summary, err := ctx.Store.MonthlyAttendanceSummary(first.Format(constants.DateFormat), last.Format(constants.DateFormat))
	if err != nil {
		return err
	}
	ctx.printf("%s", renderCalendar(first, summary))
	return nil
}

// renderCalendar draws a month grid. Each marked day is colored by its worst
// mark: red with any absence, green when only present, amber otherwise.
func renderCalendar(first time.Time, summary map[string]store.DaySummary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(first.Format("January 2006")) + "\n")
	b.WriteString(mutedStyle.Render("Su Mo Tu We Th Fr Sa") + "\n")

	b.WriteString(strings.Repeat("   ", int(first.Weekday())))
	days := first.AddDate(0, 1, -1).Day()
	var present, absent, other int
	for d := 1; d <= days; d++ {
		date := time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
		cell := fmt.Sprintf("%2d", d)
		style := lipgloss.NewStyle()
		if s, ok := summary[date.Format(constants.DateFormat)]; ok {
			present += s.Present
			absent += s.Absent
			other += s.Cancelled + s.Holiday
			switch {
			case s.Absent > 0:
				style = errorStyle
			case s.Present > 0 && s.Present == s.Total():
				style = successStyle
			default:
				style = warningStyle
			}
		}
		b.WriteString(style.Render(cell))
		if date.Weekday() == time.Saturday {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %d  %s %d  %s %d\n",
		successStyle.Render("present"), present,
		errorStyle.Render("absent"), absent,
		warningStyle.Render("cancelled/holiday"), other))
	return b.String()
}
