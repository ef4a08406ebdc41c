package cli

import (
	"github.com/sadopc/rollcall/internal/notify"
)

type RemindersShowCmd struct{}

func (c *RemindersShowCmd) Run(ctx *Context) error {
	rs, err := ctx.Store.ReminderSettings()
	if err != nil {
		return err
	}
	ctx.printf("Class reminders: %s\n", onOff(rs.ClassReminders))
	ctx.printf("Task reminders:  %s\n", onOff(rs.TaskReminders))

	pending, err := ctx.Store.PendingNotifications()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		ctx.printf("%s\n", mutedStyle.Render("No reminders queued."))
		return nil
	}
	ctx.printf("%s\n", headingStyle.Render("Queued"))
	for _, n := range pending {
		ctx.printf("  %s  %s  %s\n",
			mutedStyle.Render(n.FireAt.Format("Mon 02 Jan 15:04")), titleStyle.Render(n.Title), n.Body)
	}
	return nil
}

// RemindersSetCmd turns reminder families on or off and rebuilds the queue.
type RemindersSetCmd struct {
	Class string `enum:"on,off,keep" default:"keep" help:"Daily class reminders at 07:00 (on, off)."`
	Task  string `enum:"on,off,keep" default:"keep" help:"Task reminders the day before the due date (on, off)."`
}

func (c *RemindersSetCmd) Run(ctx *Context) error {
	rs, err := ctx.Store.ReminderSettings()
	if err != nil {
		return err
	}
	rs.ClassReminders = applyToggle(c.Class, rs.ClassReminders)
	rs.TaskReminders = applyToggle(c.Task, rs.TaskReminders)
	if err := ctx.Store.SaveReminderSettings(rs); err != nil {
		return err
	}
	ctx.Reschedule()

	pending, err := ctx.Store.PendingNotifications()
	if err != nil {
		return err
	}
	ctx.printf("Class reminders %s, task reminders %s. %d reminder(s) queued.\n",
		onOff(rs.ClassReminders), onOff(rs.TaskReminders), len(pending))
	return nil
}

// RemindersDispatchCmd delivers queued reminders that are due. It is meant
// to be run periodically, for example from cron.
type RemindersDispatchCmd struct {
	Tray bool `help:"Deliver through the tray application instead of printing."`
}

func (c *RemindersDispatchCmd) Run(ctx *Context) error {
	var deliverer notify.Deliverer = notify.LogDeliverer{Out: ctx.Out}
	if c.Tray {
		deliverer = notify.NewTrayDeliverer()
	}
	n, err := notify.NewDispatcher(ctx.Store, deliverer).Dispatch(ctx.now())
	if err != nil {
		return err
	}
	if n == 0 && !c.Tray {
		ctx.printf("%s\n", mutedStyle.Render("Nothing due."))
	}
	return nil
}

func applyToggle(v string, current bool) bool {
	switch v {
	case "on":
		return true
	case "off":
		return false
	}
	return current
}

func onOff(b bool) string {
	if b {
		return successStyle.Render("on")
	}
	return mutedStyle.Render("off")
}
