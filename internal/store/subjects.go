package store

import (
	"database/sql"
	"errors"
	"fmt"
)

const subjectColumns = `id, name, color, target_attendance, teacher_name, historical_classes_held, historical_classes_attended`

func (s *Store) AddSubject(in SubjectInput) (*Subject, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	res, err := db.Exec(
		`INSERT INTO subjects (name, color, target_attendance, teacher_name, historical_classes_held, historical_classes_attended)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.Name, in.Color, in.TargetAttendance, in.TeacherName, in.HistoricalClassesHeld, in.HistoricalClassesAttended,
	)
	if err != nil {
		return nil, wrap("insert subject", err)
	}
	id, _ := res.LastInsertId()
	subject, err := s.GetSubjectByID(id)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, fmt.Errorf("insert subject: row %d not found after insert", id)
	}
	return subject, nil
}

// GetSubjectByID returns nil, nil when no subject has the id.
func (s *Store) GetSubjectByID(id int64) (*Subject, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	subject, err := scanSubject(db.QueryRow(`SELECT `+subjectColumns+` FROM subjects WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subject %d: %w", id, err)
	}
	return subject, nil
}

func (s *Store) ListSubjects() ([]Subject, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`SELECT ` + subjectColumns + ` FROM subjects ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []Subject
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, *subject)
	}
	return subjects, rows.Err()
}

// UpdateSubject replaces every mutable field of the subject.
func (s *Store) UpdateSubject(id int64, in SubjectInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`UPDATE subjects
		 SET name = ?, color = ?, target_attendance = ?, teacher_name = ?,
		     historical_classes_held = ?, historical_classes_attended = ?
		 WHERE id = ?`,
		in.Name, in.Color, in.TargetAttendance, in.TeacherName,
		in.HistoricalClassesHeld, in.HistoricalClassesAttended, id,
	)
	return wrap(fmt.Sprintf("update subject %d", id), err)
}

// DeleteSubject removes the subject. Its timetable entries and their
// attendance records go with it; tasks keep existing with no subject.
func (s *Store) DeleteSubject(id int64) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(`DELETE FROM subjects WHERE id = ?`, id)
	return wrap(fmt.Sprintf("delete subject %d", id), err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubject(row rowScanner) (*Subject, error) {
	var (
		subject Subject
		target  sql.NullFloat64
		teacher sql.NullString
	)
	err := row.Scan(&subject.ID, &subject.Name, &subject.Color, &target, &teacher,
		&subject.HistoricalClassesHeld, &subject.HistoricalClassesAttended)
	if err != nil {
		return nil, err
	}
	subject.TargetAttendance = targetOrDefault(target)
	subject.TeacherName = nullString(teacher)
	return &subject, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func nullInt64(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}
