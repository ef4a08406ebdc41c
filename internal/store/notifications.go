package store

import (
	"database/sql"
	"fmt"
	"time"
)

// CancelAllNotifications drops every reminder that has not been delivered
// yet and returns how many were removed.
func (s *Store) CancelAllNotifications() (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	res, err := db.Exec(`DELETE FROM scheduled_notifications WHERE delivered_at IS NULL`)
	if err != nil {
		return 0, wrap("cancel notifications", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *Store) ScheduleNotification(title, body string, fireAt time.Time) (*Notification, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	res, err := db.Exec(
		`INSERT INTO scheduled_notifications (title, body, fire_at) VALUES (?, ?, ?)`,
		title, body, fireAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, wrap("schedule notification", err)
	}
	id, _ := res.LastInsertId()
	return &Notification{ID: id, Title: title, Body: body, FireAt: fireAt}, nil
}

// PendingNotifications lists undelivered reminders by fire time.
func (s *Store) PendingNotifications() ([]Notification, error) {
	return s.listNotifications(`WHERE delivered_at IS NULL ORDER BY fire_at, id`)
}

// DueNotifications lists undelivered reminders whose fire time is at or
// before now.
func (s *Store) DueNotifications(now time.Time) ([]Notification, error) {
	return s.listNotifications(`WHERE delivered_at IS NULL AND fire_at <= ? ORDER BY fire_at, id`,
		now.UTC().Format(time.RFC3339))
}

func (s *Store) MarkNotificationDelivered(id int64, at time.Time) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(`UPDATE scheduled_notifications SET delivered_at = ? WHERE id = ?`,
		at.UTC().Format(time.RFC3339), id)
	return wrap(fmt.Sprintf("mark notification %d delivered", id), err)
}

func (s *Store) listNotifications(where string, args ...any) ([]Notification, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`SELECT id, title, body, fire_at, delivered_at FROM scheduled_notifications `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var (
			n           Notification
			fireAt      string
			deliveredAt sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &fireAt, &deliveredAt); err != nil {
			return nil, err
		}
		n.FireAt, _ = time.Parse(time.RFC3339, fireAt)
		n.FireAt = n.FireAt.Local()
		if deliveredAt.Valid {
			t, _ := time.Parse(time.RFC3339, deliveredAt.String)
			t = t.Local()
			n.DeliveredAt = &t
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
