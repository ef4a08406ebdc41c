package store

import (
	"database/sql"
	"fmt"

	"github.com/sadopc/rollcall/internal/constants"
)

// Live per-subject counts. Only present and absent count as held classes;
// cancelled and holiday marks are excluded from both sides.
const recordedCounts = `
	COALESCE((
		SELECT COUNT(*) FROM attendance_records ar JOIN timetable tp ON ar.timetable_id = tp.id
		WHERE tp.subject_id = s.id AND ar.status = 'present'
	), 0) AS recorded_present,
	COALESCE((
		SELECT COUNT(*) FROM attendance_records ar JOIN timetable ta ON ar.timetable_id = ta.id
		WHERE ta.subject_id = s.id AND ar.status = 'absent'
	), 0) AS recorded_absent`

// SubjectsWithAttendance returns every subject with its live counts, ordered
// by name.
func (s *Store) SubjectsWithAttendance() ([]SubjectWithAttendance, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`
		SELECT s.id, s.name, s.color, s.target_attendance, s.teacher_name,
		       s.historical_classes_held, s.historical_classes_attended,` + recordedCounts + `
		FROM subjects s
		ORDER BY s.name, s.id`)
	if err != nil {
		return nil, fmt.Errorf("subjects with attendance: %w", err)
	}
	defer rows.Close()

	var subjects []SubjectWithAttendance
	for rows.Next() {
		var (
			sw      SubjectWithAttendance
			target  sql.NullFloat64
			teacher sql.NullString
		)
		if err := rows.Scan(&sw.ID, &sw.Name, &sw.Color, &target, &teacher,
			&sw.HistoricalClassesHeld, &sw.HistoricalClassesAttended,
			&sw.RecordedPresent, &sw.RecordedAbsent); err != nil {
			return nil, err
		}
		sw.TargetAttendance = targetOrDefault(target)
		sw.TeacherName = nullString(teacher)
		subjects = append(subjects, sw)
	}
	return subjects, rows.Err()
}

// OverallAttendance combines historical counters of all subjects with every
// recorded mark. It returns nil when nothing has been held.
func (s *Store) OverallAttendance() (*float64, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var histHeld, histAttended, present, absent int
	err = db.QueryRow(`
		SELECT COALESCE(SUM(historical_classes_held), 0),
		       COALESCE(SUM(historical_classes_attended), 0)
		FROM subjects`).Scan(&histHeld, &histAttended)
	if err != nil {
		return nil, fmt.Errorf("overall attendance: historical totals: %w", err)
	}
	err = db.QueryRow(`
		SELECT COALESCE(SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'absent' THEN 1 ELSE 0 END), 0)
		FROM attendance_records`).Scan(&present, &absent)
	if err != nil {
		return nil, fmt.Errorf("overall attendance: record totals: %w", err)
	}
	return percentage(histAttended+present, histHeld+present+absent), nil
}

// ClassesForDay returns the classes scheduled on a weekday with their
// subject's attendance state, ordered by start time.
func (s *Store) ClassesForDay(dayOfWeek int) ([]ClassWithAttendance, error) {
	if err := ValidateDayOfWeek(dayOfWeek); err != nil {
		return nil, err
	}
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	query := `
		SELECT t.id, t.subject_id, t.day_of_week, t.start_time, t.end_time, t.location,
		       s.name, s.color, s.target_attendance,
		       s.historical_classes_held, s.historical_classes_attended,` + recordedCounts + `
		FROM timetable t
		JOIN subjects s ON t.subject_id = s.id
		WHERE t.day_of_week = ?
		ORDER BY t.start_time, t.id`
	rows, err := db.Query(query, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("classes for day %d: %w", dayOfWeek, err)
	}
	defer rows.Close()

	var classes []ClassWithAttendance
	for rows.Next() {
		var (
			c        ClassWithAttendance
			location sql.NullString
			target   sql.NullFloat64
		)
		if err := rows.Scan(&c.ID, &c.SubjectID, &c.DayOfWeek, &c.StartTime, &c.EndTime, &location,
			&c.SubjectName, &c.SubjectColor, &target,
			&c.HistoricalClassesHeld, &c.HistoricalClassesAttended,
			&c.RecordedPresent, &c.RecordedAbsent); err != nil {
			return nil, err
		}
		c.Location = nullString(location)
		c.TargetAttendance = targetOrDefault(target)
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// AttendanceForDate maps timetable id to status for the marks stored on
// date. A missing key means unmarked.
func (s *Store) AttendanceForDate(date string) (map[int64]Status, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`SELECT timetable_id, status FROM attendance_records WHERE date = ?`, date)
	if err != nil {
		return nil, fmt.Errorf("attendance for %s: %w", date, err)
	}
	defer rows.Close()

	marks := make(map[int64]Status)
	for rows.Next() {
		var (
			id     int64
			status string
		)
		if err := rows.Scan(&id, &status); err != nil {
			return nil, err
		}
		marks[id] = Status(status)
	}
	return marks, rows.Err()
}

// AttendanceDetailsForDate lists every class scheduled on dayOfWeek with its
// mark for date, including unmarked classes (Status nil).
func (s *Store) AttendanceDetailsForDate(date string, dayOfWeek int) ([]AttendanceDetail, error) {
	if err := ValidateDayOfWeek(dayOfWeek); err != nil {
		return nil, err
	}
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`
		SELECT t.id, t.subject_id, t.day_of_week, t.start_time, t.end_time, t.location,
		       s.name, s.color, ar.status
		FROM timetable t
		JOIN subjects s ON t.subject_id = s.id
		LEFT JOIN attendance_records ar ON t.id = ar.timetable_id AND ar.date = ?
		WHERE t.day_of_week = ?
		ORDER BY t.start_time, t.id`, date, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("attendance details for %s: %w", date, err)
	}
	defer rows.Close()

	var details []AttendanceDetail
	for rows.Next() {
		var (
			d        AttendanceDetail
			location sql.NullString
			status   sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.SubjectID, &d.DayOfWeek, &d.StartTime, &d.EndTime, &location,
			&d.SubjectName, &d.SubjectColor, &status); err != nil {
			return nil, err
		}
		d.Location = nullString(location)
		if status.Valid {
			st := Status(status.String)
			d.Status = &st
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// MonthlyAttendanceSummary counts marks per status for each date in the
// inclusive range. Dates without marks are absent from the map.
func (s *Store) MonthlyAttendanceSummary(startDate, endDate string) (map[string]DaySummary, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`
		SELECT date,
		       SUM(CASE WHEN status = 'present'   THEN 1 ELSE 0 END),
		       SUM(CASE WHEN status = 'absent'    THEN 1 ELSE 0 END),
		       SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN status = 'holiday'   THEN 1 ELSE 0 END)
		FROM attendance_records
		WHERE date BETWEEN ? AND ?
		GROUP BY date`, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("monthly summary %s..%s: %w", startDate, endDate, err)
	}
	defer rows.Close()

	summary := make(map[string]DaySummary)
	for rows.Next() {
		var (
			date string
			d    DaySummary
		)
		if err := rows.Scan(&date, &d.Present, &d.Absent, &d.Cancelled, &d.Holiday); err != nil {
			return nil, err
		}
		summary[date] = d
	}
	return summary, rows.Err()
}

// FullAttendanceHistoryForExport returns every mark with its class and
// subject, ordered by date and start time.
func (s *Store) FullAttendanceHistoryForExport() ([]HistoryRecord, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`
		SELECT ar.id, ar.date, ar.status, ar.notes,
		       t.id, t.day_of_week, t.start_time, t.end_time, t.location,
		       s.id, s.name, s.teacher_name
		FROM attendance_records ar
		JOIN timetable t ON ar.timetable_id = t.id
		JOIN subjects s ON t.subject_id = s.id
		ORDER BY ar.date, t.start_time, ar.id`)
	if err != nil {
		return nil, fmt.Errorf("attendance history: %w", err)
	}
	defer rows.Close()

	var history []HistoryRecord
	for rows.Next() {
		var (
			h                        HistoryRecord
			status                   string
			notes, location, teacher sql.NullString
		)
		if err := rows.Scan(&h.RecordID, &h.Date, &status, &notes,
			&h.TimetableID, &h.DayOfWeek, &h.StartTime, &h.EndTime, &location,
			&h.SubjectID, &h.SubjectName, &teacher); err != nil {
			return nil, err
		}
		h.Status = Status(status)
		h.Notes = nullString(notes)
		h.Location = nullString(location)
		h.TeacherName = nullString(teacher)
		history = append(history, h)
	}
	return history, rows.Err()
}

func targetOrDefault(target sql.NullFloat64) float64 {
	if target.Valid {
		return target.Float64
	}
	return constants.DefaultTargetAttendance
}
