package store

import (
	"database/sql"
	"errors"
	"fmt"
)

func (s *Store) AddTimetableEntry(in TimetableInput) (*TimetableEntry, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	res, err := db.Exec(
		`INSERT INTO timetable (subject_id, day_of_week, start_time, end_time, location) VALUES (?, ?, ?, ?, ?)`,
		in.SubjectID, in.DayOfWeek, in.StartTime, in.EndTime, in.Location,
	)
	if err != nil {
		return nil, wrap("insert timetable entry", err)
	}
	id, _ := res.LastInsertId()
	entry, err := s.GetTimetableEntry(id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("insert timetable entry: row %d not found after insert", id)
	}
	return entry, nil
}

// GetTimetableEntry returns nil, nil when no entry has the id.
func (s *Store) GetTimetableEntry(id int64) (*TimetableEntry, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var (
		e        TimetableEntry
		location sql.NullString
	)
	err = db.QueryRow(
		`SELECT id, subject_id, day_of_week, start_time, end_time, location FROM timetable WHERE id = ?`, id,
	).Scan(&e.ID, &e.SubjectID, &e.DayOfWeek, &e.StartTime, &e.EndTime, &location)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get timetable entry %d: %w", id, err)
	}
	e.Location = nullString(location)
	return &e, nil
}

func (s *Store) UpdateTimetableEntry(id int64, in TimetableInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`UPDATE timetable SET subject_id = ?, day_of_week = ?, start_time = ?, end_time = ?, location = ? WHERE id = ?`,
		in.SubjectID, in.DayOfWeek, in.StartTime, in.EndTime, in.Location, id,
	)
	return wrap(fmt.Sprintf("update timetable entry %d", id), err)
}

// DeleteTimetableEntry removes the entry and, by cascade, its attendance
// records.
func (s *Store) DeleteTimetableEntry(id int64) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(`DELETE FROM timetable WHERE id = ?`, id)
	return wrap(fmt.Sprintf("delete timetable entry %d", id), err)
}

// GetFullTimetable returns the whole week ordered by day, then start time.
func (s *Store) GetFullTimetable() ([]FullTimetableEntry, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`
		SELECT t.id, t.subject_id, t.day_of_week, t.start_time, t.end_time, t.location,
		       s.name, s.color
		FROM timetable t
		JOIN subjects s ON t.subject_id = s.id
		ORDER BY t.day_of_week, t.start_time, t.id`)
	if err != nil {
		return nil, fmt.Errorf("full timetable: %w", err)
	}
	defer rows.Close()

	var entries []FullTimetableEntry
	for rows.Next() {
		var (
			e        FullTimetableEntry
			location sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.SubjectID, &e.DayOfWeek, &e.StartTime, &e.EndTime, &location,
			&e.SubjectName, &e.SubjectColor); err != nil {
			return nil, err
		}
		e.Location = nullString(location)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
