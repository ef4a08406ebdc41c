package store

import (
	"database/sql"
	"errors"
	"fmt"
)

func (s *Store) AddTask(in TaskInput) (*Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	res, err := db.Exec(
		`INSERT INTO tasks (subject_id, title, description, due_date, is_completed) VALUES (?, ?, ?, ?, 0)`,
		in.SubjectID, in.Title, in.Description, in.DueDate,
	)
	if err != nil {
		return nil, wrap("insert task", err)
	}
	id, _ := res.LastInsertId()
	task, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("insert task: row %d not found after insert", id)
	}
	return task, nil
}

// GetTask returns nil, nil when no task has the id.
func (s *Store) GetTask(id int64) (*Task, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var (
		t         Task
		subjectID sql.NullInt64
		desc      sql.NullString
		completed int
	)
	err = db.QueryRow(
		`SELECT id, subject_id, title, description, due_date, is_completed FROM tasks WHERE id = ?`, id,
	).Scan(&t.ID, &subjectID, &t.Title, &desc, &t.DueDate, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	t.SubjectID = nullInt64(subjectID)
	t.Description = nullString(desc)
	t.IsCompleted = completed == 1
	return &t, nil
}

// GetAllTasks lists tasks with their subject, open tasks first, then by due
// date.
func (s *Store) GetAllTasks() ([]TaskWithSubject, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`
		SELECT t.id, t.subject_id, t.title, t.description, t.due_date, t.is_completed,
		       s.name, s.color
		FROM tasks t
		LEFT JOIN subjects s ON t.subject_id = s.id
		ORDER BY t.is_completed, t.due_date, t.id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []TaskWithSubject
	for rows.Next() {
		var (
			t                 TaskWithSubject
			subjectID         sql.NullInt64
			desc, name, color sql.NullString
			completed         int
		)
		if err := rows.Scan(&t.ID, &subjectID, &t.Title, &desc, &t.DueDate, &completed, &name, &color); err != nil {
			return nil, err
		}
		t.SubjectID = nullInt64(subjectID)
		t.Description = nullString(desc)
		t.IsCompleted = completed == 1
		t.SubjectName = nullString(name)
		t.SubjectColor = nullString(color)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(id int64, in TaskInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`UPDATE tasks SET subject_id = ?, title = ?, description = ?, due_date = ? WHERE id = ?`,
		in.SubjectID, in.Title, in.Description, in.DueDate, id,
	)
	return wrap(fmt.Sprintf("update task %d", id), err)
}

// ToggleTaskCompletion stores the opposite of currentStatus.
func (s *Store) ToggleTaskCompletion(id int64, currentStatus bool) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	next := 1
	if currentStatus {
		next = 0
	}
	_, err = db.Exec(`UPDATE tasks SET is_completed = ? WHERE id = ?`, next, id)
	return wrap(fmt.Sprintf("toggle task %d", id), err)
}

func (s *Store) DeleteTask(id int64) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	return wrap(fmt.Sprintf("delete task %d", id), err)
}
