package cli

import (
	"fmt"
	"time"

	"github.com/sadopc/rollcall/internal/store"
)

type ClassAddCmd struct {
	Subject  int64  `arg:"" help:"Subject ID."`
	Day      string `arg:"" help:"Weekday (mon, tuesday, 0-6 with 0 = Sunday)."`
	Start    string `arg:"" help:"Start time (HH:MM)."`
	End      string `arg:"" help:"End time (HH:MM)."`
	Location string `short:"l" help:"Room or location."`
}

func (c *ClassAddCmd) Run(ctx *Context) error {
	day, err := ParseWeekday(c.Day)
	if err != nil {
		return err
	}
	entry, err := ctx.Store.AddTimetableEntry(store.TimetableInput{
		SubjectID: c.Subject,
		DayOfWeek: day,
		StartTime: c.Start,
		EndTime:   c.End,
		Location:  optional(c.Location),
	})
	if err != nil {
		return err
	}
	ctx.Reschedule()
	ctx.printf("Added class %d on %s %s-%s\n", entry.ID, time.Weekday(entry.DayOfWeek), entry.StartTime, entry.EndTime)
	return nil
}

// ClassEditCmd replaces the fields that were given and keeps the rest.
type ClassEditCmd struct {
	ID            int64  `arg:"" help:"Class ID."`
	Subject       int64  `help:"Move the class to another subject."`
	Day           string `help:"New weekday."`
	Start         string `help:"New start time (HH:MM)."`
	End           string `help:"New end time (HH:MM)."`
	Location      string `short:"l" help:"New location."`
	ClearLocation bool   `help:"Remove the location."`
}

func (c *ClassEditCmd) Run(ctx *Context) error {
	entry, err := ctx.Store.GetTimetableEntry(c.ID)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("class %d not found", c.ID)
	}

	in := store.TimetableInput{
		SubjectID: entry.SubjectID,
		DayOfWeek: entry.DayOfWeek,
		StartTime: entry.StartTime,
		EndTime:   entry.EndTime,
		Location:  entry.Location,
	}
	if c.Subject != 0 {
		in.SubjectID = c.Subject
	}
	if c.Day != "" {
		if in.DayOfWeek, err = ParseWeekday(c.Day); err != nil {
			return err
		}
	}
	if c.Start != "" {
		in.StartTime = c.Start
	}
	if c.End != "" {
		in.EndTime = c.End
	}
	if c.Location != "" {
		in.Location = optional(c.Location)
	}
	if c.ClearLocation {
		in.Location = nil
	}

	if err := ctx.Store.UpdateTimetableEntry(c.ID, in); err != nil {
		return err
	}
	ctx.Reschedule()
	ctx.printf("Updated class %d\n", c.ID)
	return nil
}

type ClassListCmd struct{}

func (c *ClassListCmd) Run(ctx *Context) error {
	entries, err := ctx.Store.GetFullTimetable()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		ctx.printf("%s\n", mutedStyle.Render("Timetable is empty. Add a class with: rollcall class add <subject> <day> <start> <end>"))
		return nil
	}

	day := -1
	for _, e := range entries {
		if e.DayOfWeek != day {
			day = e.DayOfWeek
			ctx.printf("%s\n", headingStyle.Render(time.Weekday(day).String()))
		}
		ctx.printf("  %-4d %s-%s %s %-20s %s\n",
			e.ID, e.StartTime, e.EndTime, colorDot(e.SubjectColor), e.SubjectName,
			mutedStyle.Render(deref(e.Location)))
	}
	return nil
}

type ClassDeleteCmd struct {
	ID  int64 `arg:"" help:"Class ID."`
	Yes bool  `short:"y" help:"Delete without asking."`
}

func (c *ClassDeleteCmd) Run(ctx *Context) error {
	entry, err := ctx.Store.GetTimetableEntry(c.ID)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("class %d not found", c.ID)
	}
	if !c.Yes {
		ok, err := confirmFunc(fmt.Sprintf("Delete class %d and its attendance?", c.ID))
		if err != nil {
			return err
		}
		if !ok {
			ctx.printf("Cancelled\n")
			return nil
		}
	}
	if err := ctx.Store.DeleteTimetableEntry(c.ID); err != nil {
		return err
	}
	ctx.Reschedule()
	ctx.printf("Deleted class %d and its attendance\n", c.ID)
	return nil
}
