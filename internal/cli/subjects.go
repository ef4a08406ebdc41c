package cli

import (
	"fmt"

	"github.com/sadopc/rollcall/internal/store"
)

type SubjectAddCmd struct {
	Name     string  `arg:"" help:"Subject name."`
	Color    string  `short:"c" help:"Display color (hex)." default:"#6C63FF"`
	Target   float64 `short:"t" help:"Target attendance percentage (0-100)." default:"75"`
	Teacher  string  `help:"Teacher name."`
	Held     int     `help:"Classes already held before tracking began."`
	Attended int     `help:"Classes already attended before tracking began."`
}

func (c *SubjectAddCmd) Run(ctx *Context) error {
	subject, err := ctx.Store.AddSubject(store.SubjectInput{
		Name:                      c.Name,
		Color:                     c.Color,
		TargetAttendance:          c.Target,
		TeacherName:               optional(c.Teacher),
		HistoricalClassesHeld:     c.Held,
		HistoricalClassesAttended: c.Attended,
	})
	if err != nil {
		return err
	}
	ctx.Reschedule()
	ctx.printf("Added subject %s %s (ID: %d)\n", colorDot(subject.Color), subject.Name, subject.ID)
	return nil
}

// SubjectEditCmd replaces the fields that were given and keeps the rest.
type SubjectEditCmd struct {
	ID           int64   `arg:"" help:"Subject ID."`
	Name         string  `help:"New name."`
	Color        string  `short:"c" help:"New display color."`
	Target       float64 `short:"t" help:"New target attendance percentage." default:"-1"`
	Teacher      string  `help:"New teacher name."`
	ClearTeacher bool    `help:"Remove the teacher name."`
	Held         int     `help:"New historical classes held." default:"-1"`
	Attended     int     `help:"New historical classes attended." default:"-1"`
}

func (c *SubjectEditCmd) Run(ctx *Context) error {
	subject, err := ctx.Store.GetSubjectByID(c.ID)
	if err != nil {
		return err
	}
	if subject == nil {
		return fmt.Errorf("subject %d not found", c.ID)
	}

	in := store.SubjectInput{
		Name:                      subject.Name,
		Color:                     subject.Color,
		TargetAttendance:          subject.TargetAttendance,
		TeacherName:               subject.TeacherName,
		HistoricalClassesHeld:     subject.HistoricalClassesHeld,
		HistoricalClassesAttended: subject.HistoricalClassesAttended,
	}
	if c.Name != "" {
		in.Name = c.Name
	}
	if c.Color != "" {
		in.Color = c.Color
	}
	if c.Target >= 0 {
		in.TargetAttendance = c.Target
	}
	if c.Teacher != "" {
		in.TeacherName = optional(c.Teacher)
	}
	if c.ClearTeacher {
		in.TeacherName = nil
	}
	if c.Held >= 0 {
		in.HistoricalClassesHeld = c.Held
	}
	if c.Attended >= 0 {
		in.HistoricalClassesAttended = c.Attended
	}

	if err := ctx.Store.UpdateSubject(c.ID, in); err != nil {
		return err
	}
	ctx.Reschedule()
	ctx.printf("Updated subject %s\n", in.Name)
	return nil
}

type SubjectListCmd struct{}

func (c *SubjectListCmd) Run(ctx *Context) error {
	subjects, err := ctx.Store.SubjectsWithAttendance()
	if err != nil {
		return err
	}
	if len(subjects) == 0 {
		ctx.printf("%s\n", mutedStyle.Render("No subjects yet. Add one with: rollcall subject add <name>"))
		return nil
	}

	ctx.printf("%s\n", mutedStyle.Render(fmt.Sprintf("  %-4s %-22s %-18s %9s %8s %7s", "ID", "Subject", "Teacher", "Attended", "Rate", "Target")))
	for _, s := range subjects {
		rate := targetStyle(s.MeetsTarget()).Render(fmt.Sprintf("%8s", formatPercent(s.Percentage())))
		ctx.printf("  %-4d %s %-20s %-18s %4d/%-4d %s %6.0f%%\n",
			s.ID, colorDot(s.Color), s.Name, deref(s.TeacherName),
			s.Attended(), s.Held(), rate, s.TargetAttendance)
	}
	return nil
}

type SubjectDeleteCmd struct {
	ID  int64 `arg:"" help:"Subject ID."`
	Yes bool  `short:"y" help:"Delete without asking."`
}

func (c *SubjectDeleteCmd) Run(ctx *Context) error {
	subject, err := ctx.Store.GetSubjectByID(c.ID)
	if err != nil {
		return err
	}
	if subject == nil {
		return fmt.Errorf("subject %d not found", c.ID)
	}
	if !c.Yes {
		ok, err := confirmFunc(fmt.Sprintf("Delete %s with all its classes and attendance?", subject.Name))
		if err != nil {
			return err
		}
		if !ok {
			ctx.printf("Cancelled\n")
			return nil
		}
	}
	if err := ctx.Store.DeleteSubject(c.ID); err != nil {
		return err
	}
	ctx.Reschedule()
	ctx.printf("Deleted subject %s with its classes and attendance\n", subject.Name)
	return nil
}
