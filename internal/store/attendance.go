package store

import (
	"database/sql"
	"fmt"
)

// UpsertAttendance marks one class occurrence. An existing mark for the same
// (timetableID, date) has its status replaced; notes are left untouched.
func (s *Store) UpsertAttendance(timetableID int64, date string, status Status) error {
	if err := ValidateDate("date", date); err != nil {
		return err
	}
	if !status.Valid() {
		return invalid("status", "unknown status %q", status)
	}
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO attendance_records (timetable_id, date, status) VALUES (?, ?, ?)
		 ON CONFLICT(timetable_id, date) DO UPDATE SET status = excluded.status`,
		timetableID, date, string(status),
	)
	return wrap(fmt.Sprintf("mark attendance %d on %s", timetableID, date), err)
}

// SetAttendanceNotes attaches notes to an existing mark. It reports whether a
// mark existed.
func (s *Store) SetAttendanceNotes(timetableID int64, date string, notes *string) (bool, error) {
	db, err := s.conn()
	if err != nil {
		return false, err
	}
	res, err := db.Exec(
		`UPDATE attendance_records SET notes = ? WHERE timetable_id = ? AND date = ?`,
		notes, timetableID, date,
	)
	if err != nil {
		return false, wrap(fmt.Sprintf("set attendance notes %d on %s", timetableID, date), err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ClearAttendance returns a class occurrence to the unmarked state.
func (s *Store) ClearAttendance(timetableID int64, date string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(`DELETE FROM attendance_records WHERE timetable_id = ? AND date = ?`, timetableID, date)
	return wrap(fmt.Sprintf("clear attendance %d on %s", timetableID, date), err)
}

// GetAttendanceRecord returns nil, nil when the occurrence is unmarked.
func (s *Store) GetAttendanceRecord(timetableID int64, date string) (*AttendanceRecord, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(
		`SELECT id, timetable_id, date, status, notes FROM attendance_records WHERE timetable_id = ? AND date = ?`,
		timetableID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("get attendance %d on %s: %w", timetableID, date, err)
	}
	defer rows.Close()

	records, err := scanAttendance(rows)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return &records[0], nil
}

// ListAttendanceForTimetable returns every mark for one class, oldest first.
func (s *Store) ListAttendanceForTimetable(timetableID int64) ([]AttendanceRecord, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(
		`SELECT id, timetable_id, date, status, notes FROM attendance_records WHERE timetable_id = ? ORDER BY date`,
		timetableID,
	)
	if err != nil {
		return nil, fmt.Errorf("list attendance for %d: %w", timetableID, err)
	}
	defer rows.Close()
	return scanAttendance(rows)
}

type attendanceRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanAttendance(rows attendanceRows) ([]AttendanceRecord, error) {
	var records []AttendanceRecord
	for rows.Next() {
		var (
			r      AttendanceRecord
			status string
			notes  sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.TimetableID, &r.Date, &status, &notes); err != nil {
			return nil, err
		}
		r.Status = Status(status)
		r.Notes = nullString(notes)
		records = append(records, r)
	}
	return records, rows.Err()
}
