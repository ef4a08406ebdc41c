package store

import "time"

// Status is the mark stored for one class occurrence.
type Status string

const (
	StatusPresent   Status = "present"
	StatusAbsent    Status = "absent"
	StatusCancelled Status = "cancelled"
	StatusHoliday   Status = "holiday"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPresent, StatusAbsent, StatusCancelled, StatusHoliday}

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusCancelled, StatusHoliday:
		return true
	}
	return false
}

type Subject struct {
	ID                        int64
	Name                      string
	Color                     string
	TargetAttendance          float64
	TeacherName               *string
	HistoricalClassesHeld     int
	HistoricalClassesAttended int
}

// SubjectInput carries the mutable fields of a subject for add and update.
type SubjectInput struct {
	Name                      string
	Color                     string
	TargetAttendance          float64
	TeacherName               *string
	HistoricalClassesHeld     int
	HistoricalClassesAttended int
}

type TimetableEntry struct {
	ID        int64
	SubjectID int64
	DayOfWeek int // 0 = Sunday
	StartTime string
	EndTime   string
	Location  *string
}

type TimetableInput struct {
	SubjectID int64
	DayOfWeek int
	StartTime string
	EndTime   string
	Location  *string
}

// FullTimetableEntry is a timetable entry joined with its subject.
type FullTimetableEntry struct {
	TimetableEntry
	SubjectName  string
	SubjectColor string
}

type AttendanceRecord struct {
	ID          int64
	TimetableID int64
	Date        string
	Status      Status
	Notes       *string
}

type Task struct {
	ID          int64
	SubjectID   *int64
	Title       string
	Description *string
	DueDate     string
	IsCompleted bool
}

type TaskInput struct {
	SubjectID   *int64
	Title       string
	Description *string
	DueDate     string
}

// TaskWithSubject is a task joined with its subject, when it has one.
type TaskWithSubject struct {
	Task
	SubjectName  *string
	SubjectColor *string
}

// SubjectWithAttendance is a subject plus its live recorded counts.
type SubjectWithAttendance struct {
	Subject
	RecordedPresent int
	RecordedAbsent  int
}

func (s SubjectWithAttendance) Attended() int {
	return s.HistoricalClassesAttended + s.RecordedPresent
}

func (s SubjectWithAttendance) Held() int {
	return s.HistoricalClassesHeld + s.RecordedPresent + s.RecordedAbsent
}

// Percentage returns nil when no classes have been held.
func (s SubjectWithAttendance) Percentage() *float64 {
	return percentage(s.Attended(), s.Held())
}

// MeetsTarget reports whether the subject is at or above its target. A
// subject with no held classes is not below target.
func (s SubjectWithAttendance) MeetsTarget() bool {
	p := s.Percentage()
	return p == nil || *p >= s.TargetAttendance
}

// ClassWithAttendance is a scheduled class joined with its subject's
// attendance state.
type ClassWithAttendance struct {
	FullTimetableEntry
	TargetAttendance          float64
	HistoricalClassesHeld     int
	HistoricalClassesAttended int
	RecordedPresent           int
	RecordedAbsent            int
}

func (c ClassWithAttendance) Percentage() *float64 {
	return percentage(
		c.HistoricalClassesAttended+c.RecordedPresent,
		c.HistoricalClassesHeld+c.RecordedPresent+c.RecordedAbsent,
	)
}

// AttendanceDetail is a class scheduled on a weekday with the mark for one
// specific date. Status is nil when the class is unmarked.
type AttendanceDetail struct {
	FullTimetableEntry
	Status *Status
}

// DaySummary counts marks of each status on a single date.
type DaySummary struct {
	Present   int
	Absent    int
	Cancelled int
	Holiday   int
}

func (d DaySummary) Total() int {
	return d.Present + d.Absent + d.Cancelled + d.Holiday
}

// HistoryRecord is one attendance mark with its class and subject context.
type HistoryRecord struct {
	RecordID    int64
	Date        string
	Status      Status
	Notes       *string
	TimetableID int64
	DayOfWeek   int
	StartTime   string
	EndTime     string
	Location    *string
	SubjectID   int64
	SubjectName string
	TeacherName *string
}

type Setting struct {
	Key   string
	Value string
}

// ReminderSettings holds the two reminder feature flags.
type ReminderSettings struct {
	ClassReminders bool
	TaskReminders  bool
}

// Notification is a queued local reminder.
type Notification struct {
	ID          int64
	Title       string
	Body        string
	FireAt      time.Time
	DeliveredAt *time.Time
}

func percentage(attended, held int) *float64 {
	if held == 0 {
		return nil
	}
	p := float64(attended) / float64(held) * 100
	return &p
}
