package store

import (
	"strings"
	"time"

	"github.com/sadopc/rollcall/internal/constants"
)

func (in SubjectInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if strings.TrimSpace(in.Color) == "" {
		return invalid("color", "must not be empty")
	}
	if in.TargetAttendance < 0 || in.TargetAttendance > 100 {
		return invalid("target_attendance", "%.2f is outside 0-100", in.TargetAttendance)
	}
	if in.HistoricalClassesHeld < 0 {
		return invalid("historical_classes_held", "must not be negative")
	}
	if in.HistoricalClassesAttended < 0 {
		return invalid("historical_classes_attended", "must not be negative")
	}
	if in.HistoricalClassesAttended > in.HistoricalClassesHeld {
		return invalid("historical_classes_attended", "%d exceeds classes held (%d)",
			in.HistoricalClassesAttended, in.HistoricalClassesHeld)
	}
	return nil
}

func (in TimetableInput) Validate() error {
	if in.SubjectID <= 0 {
		return invalid("subject_id", "a subject is required")
	}
	if err := ValidateDayOfWeek(in.DayOfWeek); err != nil {
		return err
	}
	if err := ValidateTime("start_time", in.StartTime); err != nil {
		return err
	}
	if err := ValidateTime("end_time", in.EndTime); err != nil {
		return err
	}
	// Fixed-width HH:MM compares correctly as strings.
	if in.StartTime >= in.EndTime {
		return invalid("end_time", "%s is not after start %s", in.EndTime, in.StartTime)
	}
	return nil
}

func (in TaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return invalid("title", "must not be empty")
	}
	if in.SubjectID != nil && *in.SubjectID <= 0 {
		return invalid("subject_id", "invalid subject %d", *in.SubjectID)
	}
	return ValidateDate("due_date", in.DueDate)
}

func ValidateDayOfWeek(day int) error {
	if day < 0 || day > 6 {
		return invalid("day_of_week", "%d is outside 0-6", day)
	}
	return nil
}

// ValidateDate checks a zero-padded YYYY-MM-DD calendar date.
func ValidateDate(field, value string) error {
	t, err := time.Parse(constants.DateFormat, value)
	if err != nil || t.Format(constants.DateFormat) != value {
		return invalid(field, "%q is not a YYYY-MM-DD date", value)
	}
	return nil
}

// ValidateTime checks a zero-padded 24-hour HH:MM time.
func ValidateTime(field, value string) error {
	t, err := time.Parse(constants.TimeFormat, value)
	if err != nil || t.Format(constants.TimeFormat) != value {
		return invalid(field, "%q is not an HH:MM time", value)
	}
	return nil
}
