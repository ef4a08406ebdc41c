package notify

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/rollcall/internal/logger"
	"github.com/sadopc/rollcall/internal/store"
)

// Deliverer shows a due reminder to the user.
type Deliverer interface {
	Deliver(n store.Notification) error
}

// Dispatcher moves due reminders from the queue to a Deliverer.
type Dispatcher struct {
	queue     Queue
	deliverer Deliverer
}

func NewDispatcher(queue Queue, deliverer Deliverer) *Dispatcher {
	return &Dispatcher{queue: queue, deliverer: deliverer}
}

// Dispatch delivers every undelivered reminder due at or before now and
// marks each one delivered. A reminder that fails to deliver stays queued
// and is retried on the next call. It returns the number delivered.
func (d *Dispatcher) Dispatch(now time.Time) (int, error) {
	due, err := d.queue.DueNotifications(now)
	if err != nil {
		return 0, fmt.Errorf("load due reminders: %w", err)
	}
	delivered := 0
	for _, n := range due {
		if err := d.deliverer.Deliver(n); err != nil {
			logger.Warn("reminder delivery failed", "id", n.ID, "title", n.Title, "err", err)
			continue
		}
		if err := d.queue.MarkNotificationDelivered(n.ID, now); err != nil {
			logger.Error("failed to mark reminder delivered", "id", n.ID, "err", err)
			continue
		}
		delivered++
	}
	return delivered, nil
}

var (
	reminderTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6C63FF"))
	reminderTimeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// LogDeliverer prints reminders to a writer, typically the terminal.
type LogDeliverer struct {
	Out io.Writer
}

func (l LogDeliverer) Deliver(n store.Notification) error {
	_, err := fmt.Fprintf(l.Out, "%s %s %s\n",
		reminderTimeStyle.Render(n.FireAt.Format("Mon 02 Jan 15:04")),
		reminderTitleStyle.Render(n.Title),
		n.Body)
	return err
}
