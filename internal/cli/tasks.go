package cli

import (
	"fmt"

	"github.com/sadopc/rollcall/internal/constants"
	"github.com/sadopc/rollcall/internal/store"
)

type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Due         string `short:"d" help:"Due date (YYYY-MM-DD, today, tomorrow)." required:""`
	Subject     int64  `short:"s" help:"Subject ID the task belongs to."`
	Description string `help:"Longer description."`
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	due, err := ParseDate(c.Due, ctx.now())
	if err != nil {
		return err
	}
	in := store.TaskInput{
		Title:       c.Title,
		Description: optional(c.Description),
		DueDate:     due,
	}
	if c.Subject != 0 {
		in.SubjectID = &c.Subject
	}
	task, err := ctx.Store.AddTask(in)
	if err != nil {
		return err
	}
	ctx.Reschedule()
	ctx.printf("Added task %q due %s (ID: %d)\n", task.Title, task.DueDate, task.ID)
	return nil
}

// TaskEditCmd replaces the fields that were given and keeps the rest.
type TaskEditCmd struct {
	ID               int64  `arg:"" help:"Task ID."`
	Title            string `help:"New title."`
	Due              string `short:"d" help:"New due date."`
	Subject          int64  `short:"s" help:"New subject ID."`
	ClearSubject     bool   `help:"Detach the task from its subject."`
	Description      string `help:"New description."`
	ClearDescription bool   `help:"Remove the description."`
}

func (c *TaskEditCmd) Run(ctx *Context) error {
	task, err := ctx.Store.GetTask(c.ID)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("task %d not found", c.ID)
	}

	in := store.TaskInput{
		SubjectID:   task.SubjectID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
	}
	if c.Title != "" {
		in.Title = c.Title
	}
	if c.Due != "" {
		if in.DueDate, err = ParseDate(c.Due, ctx.now()); err != nil {
			return err
		}
	}
	if c.Subject != 0 {
		in.SubjectID = &c.Subject
	}
	if c.ClearSubject {
		in.SubjectID = nil
	}
	if c.Description != "" {
		in.Description = optional(c.Description)
	}
	if c.ClearDescription {
		in.Description = nil
	}

	if err := ctx.Store.UpdateTask(c.ID, in); err != nil {
		return err
	}
	ctx.Reschedule()
	ctx.printf("Updated task %d\n", c.ID)
	return nil
}

type TaskListCmd struct {
	All bool `short:"a" help:"Include completed tasks."`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		return err
	}
	today := ctx.now().Format(constants.DateFormat)

	shown := 0
	for _, t := range tasks {
		if t.IsCompleted && !c.All {
			continue
		}
		shown++
		box := "[ ]"
		title := t.Title
		if t.IsCompleted {
			box = successStyle.Render("[x]")
			title = mutedStyle.Render(t.Title)
		}
		due := t.DueDate
		switch {
		case t.IsCompleted:
			due = mutedStyle.Render(due)
		case t.DueDate < today:
			due = errorStyle.Render(due)
		case t.DueDate == today:
			due = warningStyle.Render(due)
		}
		subject := ""
		if t.SubjectName != nil {
			color := ""
			if t.SubjectColor != nil {
				color = *t.SubjectColor
			}
			subject = colorDot(color) + " " + *t.SubjectName
		}
		ctx.printf("  %-4d %s %s  %s  %s\n", t.ID, box, due, title, subject)
		if t.Description != nil {
			ctx.printf("       %s\n", mutedStyle.Render(*t.Description))
		}
	}
	if shown == 0 {
		ctx.printf("%s\n", mutedStyle.Render("No open tasks."))
	}
	return nil
}

// TaskDoneCmd flips a task between open and completed.
type TaskDoneCmd struct {
	ID int64 `arg:"" help:"Task ID."`
}

func (c *TaskDoneCmd) Run(ctx *Context) error {
	task, err := ctx.Store.GetTask(c.ID)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("task %d not found", c.ID)
	}
	if err := ctx.Store.ToggleTaskCompletion(c.ID, task.IsCompleted); err != nil {
		return err
	}
	ctx.Reschedule()
	if task.IsCompleted {
		ctx.printf("Reopened task %q\n", task.Title)
	} else {
		ctx.printf("Completed task %q\n", task.Title)
	}
	return nil
}

type TaskDeleteCmd struct {
	ID int64 `arg:"" help:"Task ID."`
}

func (c *TaskDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.DeleteTask(c.ID); err != nil {
		return err
	}
	ctx.Reschedule()
	ctx.printf("Deleted task %d\n", c.ID)
	return nil
}
