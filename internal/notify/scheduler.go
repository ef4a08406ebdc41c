// Package notify computes the reminder schedule from the timetable and task
// list and hands it to a Notifier. It also delivers queued reminders once
// they fall due.
package notify

import (
	"fmt"
	"time"

	"github.com/sadopc/rollcall/internal/constants"
	"github.com/sadopc/rollcall/internal/logger"
	"github.com/sadopc/rollcall/internal/store"
)

// Notification is a reminder to be shown at FireAt.
type Notification struct {
	Title  string
	Body   string
	FireAt time.Time
}

// Settings selects which reminder families are scheduled.
type Settings struct {
	ClassReminders bool
	TaskReminders  bool
}

// Notifier is the scheduling primitive reminders are handed to.
type Notifier interface {
	CancelAll() error
	Schedule(n Notification) error
}

// Source supplies the data reminders are computed from. *store.Store
// satisfies it.
type Source interface {
	ClassesForDay(dayOfWeek int) ([]store.ClassWithAttendance, error)
	GetAllTasks() ([]store.TaskWithSubject, error)
}

// SchedulingError reports a single reminder the Notifier refused.
type SchedulingError struct {
	Notification Notification
	Err          error
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("schedule %q at %s: %v", e.Notification.Title, e.Notification.FireAt.Format(time.RFC3339), e.Err)
}

func (e *SchedulingError) Unwrap() error { return e.Err }

type Scheduler struct {
	source   Source
	notifier Notifier
	now      func() time.Time
}

func NewScheduler(source Source, notifier Notifier) *Scheduler {
	return &Scheduler{source: source, notifier: notifier, now: time.Now}
}

// RescheduleAll cancels every pending reminder and rebuilds the schedule
// from current data. A failed cancel aborts before anything is scheduled.
// Reminders the Notifier rejects are logged and skipped; the first such
// failure is returned after the rest have been attempted.
func (s *Scheduler) RescheduleAll(settings Settings) error {
	if err := s.notifier.CancelAll(); err != nil {
		return fmt.Errorf("cancel scheduled reminders: %w", err)
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var pending []Notification
	if settings.ClassReminders {
		classes, err := s.classReminders(today)
		if err != nil {
			return err
		}
		pending = append(pending, classes...)
	}
	if settings.TaskReminders {
		tasks, err := s.taskReminders(today)
		if err != nil {
			return err
		}
		pending = append(pending, tasks...)
	}

	var firstErr error
	scheduled := 0
	for _, n := range pending {
		if err := s.notifier.Schedule(n); err != nil {
			schedErr := &SchedulingError{Notification: n, Err: err}
			logger.Warn("reminder not scheduled", "title", n.Title, "fire_at", n.FireAt, "err", err)
			if firstErr == nil {
				firstErr = schedErr
			}
			continue
		}
		scheduled++
	}
	logger.Info("reminders rescheduled",
		"class", settings.ClassReminders, "task", settings.TaskReminders, "scheduled", scheduled)
	return firstErr
}

// classReminders builds one 07:00 reminder for each of the next seven days
// that has at least one class.
func (s *Scheduler) classReminders(today time.Time) ([]Notification, error) {
	var out []Notification
	for offset := 1; offset <= constants.ClassReminderDays; offset++ {
		day := today.AddDate(0, 0, offset)
		classes, err := s.source.ClassesForDay(int(day.Weekday()))
		if err != nil {
			return nil, fmt.Errorf("classes for %s: %w", day.Format(constants.DateFormat), err)
		}
		if len(classes) == 0 {
			continue
		}
		out = append(out, Notification{
			Title:  classTitle(len(classes)),
			Body:   fmt.Sprintf("Your first class is %s.", classes[0].SubjectName),
			FireAt: atHour(day, constants.ClassReminderHour),
		})
	}
	return out, nil
}

// taskReminders builds a 09:00 reminder the day before each open task is
// due, unless that day has already passed.
func (s *Scheduler) taskReminders(today time.Time) ([]Notification, error) {
	tasks, err := s.source.GetAllTasks()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	var out []Notification
	for _, t := range tasks {
		if t.IsCompleted {
			continue
		}
		due, err := time.ParseInLocation(constants.DateFormat, t.DueDate, today.Location())
		if err != nil {
			logger.Warn("skipping task with unreadable due date", "task", t.ID, "due", t.DueDate)
			continue
		}
		remindOn := due.AddDate(0, 0, -constants.TaskReminderLeadDays)
		if remindOn.Before(today) {
			continue
		}
		out = append(out, Notification{
			Title:  "Task Reminder",
			Body:   fmt.Sprintf(`Your task "%s" is due tomorrow!`, t.Title),
			FireAt: atHour(remindOn, constants.TaskReminderHour),
		})
	}
	return out, nil
}

func classTitle(count int) string {
	if count == 1 {
		return "You have 1 class today!"
	}
	return fmt.Sprintf("You have %d classes today!", count)
}

func atHour(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}
