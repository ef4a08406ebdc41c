package notify

import (
	"time"

	"github.com/sadopc/rollcall/internal/logger"
	"github.com/sadopc/rollcall/internal/store"
)

// Queue is the persistent notification queue. *store.Store satisfies it.
type Queue interface {
	CancelAllNotifications() (int64, error)
	ScheduleNotification(title, body string, fireAt time.Time) (*store.Notification, error)
	DueNotifications(now time.Time) ([]store.Notification, error)
	MarkNotificationDelivered(id int64, at time.Time) error
}

// QueueNotifier schedules reminders into the local queue, where a
// Dispatcher later picks them up.
type QueueNotifier struct {
	queue Queue
}

func NewQueueNotifier(queue Queue) *QueueNotifier {
	return &QueueNotifier{queue: queue}
}

func (q *QueueNotifier) CancelAll() error {
	n, err := q.queue.CancelAllNotifications()
	if err != nil {
		return err
	}
	logger.Debug("cancelled pending reminders", "count", n)
	return nil
}

func (q *QueueNotifier) Schedule(n Notification) error {
	_, err := q.queue.ScheduleNotification(n.Title, n.Body, n.FireAt)
	return err
}
