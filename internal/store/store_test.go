package store

import (
	"database/sql"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustSubject(t *testing.T, s *Store, name string, held, attended int) *Subject {
	t.Helper()
	subject, err := s.AddSubject(SubjectInput{
		Name:                      name,
		Color:                     "#6C63FF",
		TargetAttendance:          75,
		HistoricalClassesHeld:     held,
		HistoricalClassesAttended: attended,
	})
	if err != nil {
		t.Fatalf("add subject %q: %v", name, err)
	}
	return subject
}

func mustEntry(t *testing.T, s *Store, subjectID int64, day int, start, end string) *TimetableEntry {
	t.Helper()
	entry, err := s.AddTimetableEntry(TimetableInput{SubjectID: subjectID, DayOfWeek: day, StartTime: start, EndTime: end})
	if err != nil {
		t.Fatalf("add timetable entry: %v", err)
	}
	return entry
}

func mustMark(t *testing.T, s *Store, timetableID int64, date string, status Status) {
	t.Helper()
	if err := s.UpsertAttendance(timetableID, date, status); err != nil {
		t.Fatalf("mark %d on %s: %v", timetableID, date, err)
	}
}

func strPtr(v string) *string { return &v }

func schemaSQL(t *testing.T, s *Store) []string {
	t.Helper()
	rows, err := s.db.Query(`SELECT COALESCE(sql, '') FROM sqlite_master WHERE name NOT LIKE 'sqlite_%' ORDER BY type, name`)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var ddl string
		if err := rows.Scan(&ddl); err != nil {
			t.Fatal(err)
		}
		out = append(out, ddl)
	}
	return out
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != currentVersion {
		t.Fatalf("expected user_version %d, got %d", currentVersion, version)
	}
}

func TestOpenWithPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "rollcall.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen, should succeed and not re-migrate
	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	if s2.Path() != path {
		t.Fatalf("expected path %s, got %s", path, s2.Path())
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "rollcall.db" {
		t.Fatalf("unexpected path: %s", path)
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)

	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestWALModeOnFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "wal.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var mode string
	s.db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	if mode != "wal" {
		t.Fatalf("expected journal_mode=wal, got %q", mode)
	}
}

func TestInitializeTwiceKeepsSchema(t *testing.T) {
	s := newTestStore(t)
	before := schemaSQL(t, s)

	if err := s.Initialize(); err != nil {
		t.Fatalf("second initialize: %v", err)
	}
	// Force every migration step to run again, including the column adds.
	if _, err := s.db.Exec("PRAGMA user_version = 0"); err != nil {
		t.Fatal(err)
	}
	if err := migrate(s.db); err != nil {
		t.Fatalf("re-running migrations: %v", err)
	}

	after := schemaSQL(t, s)
	if len(before) != len(after) {
		t.Fatalf("schema object count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("schema changed:\n%s\n---\n%s", before[i], after[i])
		}
	}
}

func TestInitializeConcurrentSharesHandle(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "rollcall.db"))
	t.Cleanup(func() { s.Close() })

	const callers = 16
	handles := make([]*sql.DB, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = s.conn()
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if handles[i] != handles[0] {
			t.Fatalf("caller %d got a different handle", i)
		}
	}
}

func TestInitializeFailureIsSticky(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(filepath.Join(blocker, "rollcall.db"))
	err := s.Initialize()
	var initErr *InitializationError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected InitializationError, got %v", err)
	}
	if err2 := s.Initialize(); err2 != err {
		t.Fatalf("expected the memoized error, got %v", err2)
	}
	if _, err := s.ListSubjects(); err == nil {
		t.Fatal("queries on a failed store should return the init error")
	}
}

func TestLegacyFileGetsMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = raw.Exec(`
		CREATE TABLE subjects (
			id INTEGER PRIMARY KEY NOT NULL,
			name TEXT NOT NULL,
			color TEXT NOT NULL,
			target_attendance REAL DEFAULT 75.0,
			historical_classes_held INTEGER NOT NULL DEFAULT 0,
			historical_classes_attended INTEGER NOT NULL DEFAULT 0
		);
		INSERT INTO subjects (name, color) VALUES ('Physics', 'blue');`)
	if err != nil {
		t.Fatal(err)
	}
	raw.Close()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open legacy file: %v", err)
	}
	defer s.Close()

	subjects, err := s.ListSubjects()
	if err != nil {
		t.Fatal(err)
	}
	if len(subjects) != 1 || subjects[0].TeacherName != nil {
		t.Fatalf("expected legacy subject with nil teacher, got %+v", subjects)
	}
	if subjects[0].TargetAttendance != 75 {
		t.Fatalf("expected default target 75, got %v", subjects[0].TargetAttendance)
	}
}

func TestCloseWithoutInitialize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never.db")
	s := New(path)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("closing an unopened store should not create the file")
	}
}

// ============================================================
// Subjects
// ============================================================

func TestAddAndGetSubject(t *testing.T) {
	s := newTestStore(t)
	subject, err := s.AddSubject(SubjectInput{
		Name:                      "Maths",
		Color:                     "#FF0000",
		TargetAttendance:          80,
		TeacherName:               strPtr("Dr. Rao"),
		HistoricalClassesHeld:     10,
		HistoricalClassesAttended: 8,
	})
	if err != nil {
		t.Fatal(err)
	}
	if subject.ID == 0 {
		t.Fatal("expected non-zero ID")
	}
	if subject.Name != "Maths" || subject.TargetAttendance != 80 || *subject.TeacherName != "Dr. Rao" {
		t.Fatalf("unexpected subject: %+v", subject)
	}

	fetched, err := s.GetSubjectByID(subject.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fetched == nil || fetched.HistoricalClassesAttended != 8 {
		t.Fatalf("GetSubjectByID returned %+v", fetched)
	}
}

func TestGetSubjectNotFound(t *testing.T) {
	s := newTestStore(t)
	subject, err := s.GetSubjectByID(999)
	if err != nil {
		t.Fatal(err)
	}
	if subject != nil {
		t.Fatal("expected nil for missing subject")
	}
}

func TestAddSubjectValidation(t *testing.T) {
	s := newTestStore(t)
	cases := []struct {
		name string
		in   SubjectInput
	}{
		{"empty name", SubjectInput{Name: " ", Color: "red", TargetAttendance: 75}},
		{"target above 100", SubjectInput{Name: "A", Color: "red", TargetAttendance: 101}},
		{"negative target", SubjectInput{Name: "A", Color: "red", TargetAttendance: -1}},
		{"attended exceeds held", SubjectInput{Name: "A", Color: "red", TargetAttendance: 75, HistoricalClassesHeld: 3, HistoricalClassesAttended: 4}},
		{"negative held", SubjectInput{Name: "A", Color: "red", TargetAttendance: 75, HistoricalClassesHeld: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.AddSubject(tc.in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	subjects, _ := s.ListSubjects()
	if len(subjects) != 0 {
		t.Fatal("rejected subjects should not be stored")
	}
}

func TestListSubjectsSortedByName(t *testing.T) {
	s := newTestStore(t)
	mustSubject(t, s, "Physics", 0, 0)
	mustSubject(t, s, "Biology", 0, 0)

	subjects, err := s.ListSubjects()
	if err != nil {
		t.Fatal(err)
	}
	if len(subjects) != 2 || subjects[0].Name != "Biology" || subjects[1].Name != "Physics" {
		t.Fatalf("expected sorted by name: %+v", subjects)
	}
}

func TestListSubjectsEmpty(t *testing.T) {
	s := newTestStore(t)
	subjects, err := s.ListSubjects()
	if err != nil {
		t.Fatal(err)
	}
	if subjects != nil {
		t.Fatalf("expected nil slice, got %d items", len(subjects))
	}
}

func TestUpdateSubjectReplacesFields(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "Old", 5, 5)

	err := s.UpdateSubject(subject.ID, SubjectInput{
		Name:                      "New",
		Color:                     "#00FF00",
		TargetAttendance:          60,
		HistoricalClassesHeld:     12,
		HistoricalClassesAttended: 9,
	})
	if err != nil {
		t.Fatal(err)
	}
	updated, _ := s.GetSubjectByID(subject.ID)
	if updated.Name != "New" || updated.Color != "#00FF00" || updated.TargetAttendance != 60 ||
		updated.HistoricalClassesHeld != 12 || updated.HistoricalClassesAttended != 9 || updated.TeacherName != nil {
		t.Fatalf("update failed: %+v", updated)
	}
}

func TestUpdateSubjectRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "Chem", 5, 5)
	err := s.UpdateSubject(subject.ID, SubjectInput{Name: "Chem", Color: "red", TargetAttendance: 75, HistoricalClassesHeld: 1, HistoricalClassesAttended: 2})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	unchanged, _ := s.GetSubjectByID(subject.ID)
	if unchanged.HistoricalClassesHeld != 5 {
		t.Fatal("invalid update should not be applied")
	}
}

func TestDeleteSubjectCascades(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "History", 0, 0)
	entry := mustEntry(t, s, subject.ID, 1, "09:00", "10:00")
	mustMark(t, s, entry.ID, "2024-07-01", StatusPresent)

	other := mustSubject(t, s, "Art", 0, 0)
	otherEntry := mustEntry(t, s, other.ID, 1, "11:00", "12:00")
	mustMark(t, s, otherEntry.ID, "2024-07-01", StatusAbsent)

	if err := s.DeleteSubject(subject.ID); err != nil {
		t.Fatal(err)
	}

	if got, _ := s.GetTimetableEntry(entry.ID); got != nil {
		t.Fatal("timetable entry should be deleted with its subject")
	}
	if rec, _ := s.GetAttendanceRecord(entry.ID, "2024-07-01"); rec != nil {
		t.Fatal("attendance should be deleted with its subject")
	}
	marks, _ := s.AttendanceForDate("2024-07-01")
	if len(marks) != 1 || marks[otherEntry.ID] != StatusAbsent {
		t.Fatalf("other subject's marks should survive: %v", marks)
	}
}

func TestDeleteSubjectNullsTaskReference(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "Maths", 0, 0)
	task, err := s.AddTask(TaskInput{SubjectID: &subject.ID, Title: "Homework", DueDate: "2024-07-10"})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteSubject(subject.ID); err != nil {
		t.Fatal(err)
	}

	kept, err := s.GetTask(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if kept == nil {
		t.Fatal("task should survive subject deletion")
	}
	if kept.SubjectID != nil {
		t.Fatalf("expected nil subject reference, got %d", *kept.SubjectID)
	}
}

// ============================================================
// Timetable
// ============================================================

func TestAddTimetableEntry(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "Maths", 0, 0)
	entry, err := s.AddTimetableEntry(TimetableInput{
		SubjectID: subject.ID,
		DayOfWeek: 3,
		StartTime: "08:30",
		EndTime:   "09:20",
		Location:  strPtr("Room 101"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if entry.SubjectID != subject.ID || entry.DayOfWeek != 3 || *entry.Location != "Room 101" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestAddTimetableEntryValidation(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "Maths", 0, 0)
	cases := []TimetableInput{
		{SubjectID: subject.ID, DayOfWeek: 7, StartTime: "08:00", EndTime: "09:00"},
		{SubjectID: subject.ID, DayOfWeek: 1, StartTime: "09:00", EndTime: "09:00"},
		{SubjectID: subject.ID, DayOfWeek: 1, StartTime: "10:00", EndTime: "09:00"},
		{SubjectID: subject.ID, DayOfWeek: 1, StartTime: "8:00", EndTime: "09:00"},
		{SubjectID: 0, DayOfWeek: 1, StartTime: "08:00", EndTime: "09:00"},
	}
	for _, in := range cases {
		_, err := s.AddTimetableEntry(in)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%+v: expected ValidationError, got %v", in, err)
		}
	}
}

func TestAddTimetableEntryMissingSubject(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddTimetableEntry(TimetableInput{SubjectID: 999, DayOfWeek: 1, StartTime: "08:00", EndTime: "09:00"})
	var ce *ConstraintError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConstraintError for missing subject, got %v", err)
	}
}

func TestGetFullTimetableOrdering(t *testing.T) {
	s := newTestStore(t)
	maths := mustSubject(t, s, "Maths", 0, 0)
	art := mustSubject(t, s, "Art", 0, 0)
	mustEntry(t, s, maths.ID, 2, "10:00", "11:00")
	mustEntry(t, s, art.ID, 1, "13:00", "14:00")
	mustEntry(t, s, maths.ID, 1, "09:00", "10:00")

	entries, err := s.GetFullTimetable()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].DayOfWeek != 1 || entries[0].StartTime != "09:00" || entries[0].SubjectName != "Maths" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].SubjectName != "Art" || entries[2].DayOfWeek != 2 {
		t.Fatalf("unexpected ordering: %+v", entries)
	}
}

func TestUpdateAndDeleteTimetableEntry(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "Maths", 0, 0)
	entry := mustEntry(t, s, subject.ID, 1, "09:00", "10:00")
	mustMark(t, s, entry.ID, "2024-07-01", StatusPresent)

	err := s.UpdateTimetableEntry(entry.ID, TimetableInput{SubjectID: subject.ID, DayOfWeek: 2, StartTime: "11:00", EndTime: "12:00"})
	if err != nil {
		t.Fatal(err)
	}
	updated, _ := s.GetTimetableEntry(entry.ID)
	if updated.DayOfWeek != 2 || updated.StartTime != "11:00" {
		t.Fatalf("update failed: %+v", updated)
	}

	if err := s.DeleteTimetableEntry(entry.ID); err != nil {
		t.Fatal(err)
	}
	if rec, _ := s.GetAttendanceRecord(entry.ID, "2024-07-01"); rec != nil {
		t.Fatal("attendance should be deleted with its timetable entry")
	}
}

// ============================================================
// Attendance
// ============================================================

func TestUpsertAttendanceOverwrites(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "Maths", 0, 0)
	entry := mustEntry(t, s, subject.ID, 1, "09:00", "10:00")

	mustMark(t, s, entry.ID, "2024-07-01", StatusPresent)
	mustMark(t, s, entry.ID, "2024-07-01", StatusAbsent)

	records, err := s.ListAttendanceForTimetable(entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(records))
	}
	if records[0].Status != StatusAbsent {
		t.Fatalf("expected latest status absent, got %s", records[0].Status)
	}
}

func TestUpsertAttendanceKeepsNotes(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "Maths", 0, 0)
	entry := mustEntry(t, s, subject.ID, 1, "09:00", "10:00")

	mustMark(t, s, entry.ID, "2024-07-01", StatusAbsent)
	ok, err := s.SetAttendanceNotes(entry.ID, "2024-07-01", strPtr("doctor"))
	if err != nil || !ok {
		t.Fatalf("set notes: ok=%v err=%v", ok, err)
	}
	mustMark(t, s, entry.ID, "2024-07-01", StatusPresent)

	rec, _ := s.GetAttendanceRecord(entry.ID, "2024-07-01")
	if rec.Status != StatusPresent || rec.Notes == nil || *rec.Notes != "doctor" {
		t.Fatalf("expected status replaced and notes kept: %+v", rec)
	}
}

func TestSetNotesOnUnmarked(t *testing.T) {
	s := newTestStore(t)
	ok, err := s.SetAttendanceNotes(1, "2024-07-01", strPtr("x"))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected no record to be updated")
	}
}

func TestUpsertAttendanceConcurrent(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "concurrent.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	subject := mustSubject(t, s, "Maths", 0, 0)
	entry := mustEntry(t, s, subject.ID, 1, "09:00", "10:00")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := StatusPresent
			if i%2 == 1 {
				status = StatusAbsent
			}
			if err := s.UpsertAttendance(entry.ID, "2024-07-01", status); err != nil {
				t.Errorf("upsert: %v", err)
			}
		}(i)
	}
	wg.Wait()

	records, _ := s.ListAttendanceForTimetable(entry.ID)
	if len(records) != 1 {
		t.Fatalf("expected one record after concurrent marks, got %d", len(records))
	}
}

func TestUpsertAttendanceRejectsBadInput(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "Maths", 0, 0)
	entry := mustEntry(t, s, subject.ID, 1, "09:00", "10:00")

	var ve *ValidationError
	if err := s.UpsertAttendance(entry.ID, "2024-7-1", StatusPresent); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for bad date, got %v", err)
	}
	if err := s.UpsertAttendance(entry.ID, "2024-07-01", Status("late")); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for bad status, got %v", err)
	}

	var ce *ConstraintError
	if err := s.UpsertAttendance(999, "2024-07-01", StatusPresent); !errors.As(err, &ce) {
		t.Fatalf("expected ConstraintError for missing timetable entry, got %v", err)
	}
}

func TestDirectDuplicateInsertIsConstraintError(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "Maths", 0, 0)
	entry := mustEntry(t, s, subject.ID, 1, "09:00", "10:00")
	mustMark(t, s, entry.ID, "2024-07-01", StatusPresent)

	_, err := s.db.Exec(`INSERT INTO attendance_records (timetable_id, date, status) VALUES (?, ?, 'absent')`,
		entry.ID, "2024-07-01")
	if err == nil {
		t.Fatal("expected uniqueness violation")
	}
	var ce *ConstraintError
	if !errors.As(wrap("insert", err), &ce) {
		t.Fatalf("expected ConstraintError, got %v", err)
	}
}

func TestClearAttendance(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "Maths", 0, 0)
	entry := mustEntry(t, s, subject.ID, 1, "09:00", "10:00")
	mustMark(t, s, entry.ID, "2024-07-01", StatusPresent)

	if err := s.ClearAttendance(entry.ID, "2024-07-01"); err != nil {
		t.Fatal(err)
	}
	marks, _ := s.AttendanceForDate("2024-07-01")
	if _, ok := marks[entry.ID]; ok {
		t.Fatal("cleared occurrence should be unmarked")
	}
}

// ============================================================
// Tasks
// ============================================================

func TestAddAndListTasks(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "Maths", 0, 0)
	if _, err := s.AddTask(TaskInput{Title: "Free", DueDate: "2024-07-12"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddTask(TaskInput{SubjectID: &subject.ID, Title: "Problem set", Description: strPtr("ch. 4"), DueDate: "2024-07-10"}); err != nil {
		t.Fatal(err)
	}

	tasks, err := s.GetAllTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "Problem set" || tasks[0].SubjectName == nil || *tasks[0].SubjectName != "Maths" {
		t.Fatalf("expected subject join on earliest task: %+v", tasks[0])
	}
	if tasks[1].SubjectName != nil || tasks[1].SubjectColor != nil {
		t.Fatalf("task without subject should have nil join fields: %+v", tasks[1])
	}
}

func TestAddTaskValidation(t *testing.T) {
	s := newTestStore(t)
	var ve *ValidationError
	if _, err := s.AddTask(TaskInput{Title: "", DueDate: "2024-07-10"}); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for empty title, got %v", err)
	}
	if _, err := s.AddTask(TaskInput{Title: "x", DueDate: "10/07/2024"}); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for bad date, got %v", err)
	}
	missing := int64(42)
	var ce *ConstraintError
	if _, err := s.AddTask(TaskInput{SubjectID: &missing, Title: "x", DueDate: "2024-07-10"}); !errors.As(err, &ce) {
		t.Fatalf("expected ConstraintError for missing subject, got %v", err)
	}
}

func TestToggleTaskCompletion(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.AddTask(TaskInput{Title: "Essay", DueDate: "2024-07-10"})
	if task.IsCompleted {
		t.Fatal("new task should be incomplete")
	}

	if err := s.ToggleTaskCompletion(task.ID, task.IsCompleted); err != nil {
		t.Fatal(err)
	}
	done, _ := s.GetTask(task.ID)
	if !done.IsCompleted {
		t.Fatal("expected task completed after toggle")
	}

	if err := s.ToggleTaskCompletion(task.ID, done.IsCompleted); err != nil {
		t.Fatal(err)
	}
	reopened, _ := s.GetTask(task.ID)
	if reopened.IsCompleted {
		t.Fatal("expected task reopened after second toggle")
	}
}

func TestUpdateAndDeleteTask(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.AddTask(TaskInput{Title: "Old", DueDate: "2024-07-10"})
	if err := s.UpdateTask(task.ID, TaskInput{Title: "New", DueDate: "2024-07-11"}); err != nil {
		t.Fatal(err)
	}
	updated, _ := s.GetTask(task.ID)
	if updated.Title != "New" || updated.DueDate != "2024-07-11" {
		t.Fatalf("update failed: %+v", updated)
	}

	if err := s.DeleteTask(task.ID); err != nil {
		t.Fatal(err)
	}
	if gone, _ := s.GetTask(task.ID); gone != nil {
		t.Fatal("task should be deleted")
	}
}

// ============================================================
// Settings
// ============================================================

func TestReminderSettingsDefaultOff(t *testing.T) {
	s := newTestStore(t)
	rs, err := s.ReminderSettings()
	if err != nil {
		t.Fatal(err)
	}
	if rs.ClassReminders || rs.TaskReminders {
		t.Fatalf("expected reminders off by default: %+v", rs)
	}
}

func TestSaveReminderSettings(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveReminderSettings(ReminderSettings{ClassReminders: true}); err != nil {
		t.Fatal(err)
	}
	rs, _ := s.ReminderSettings()
	if !rs.ClassReminders || rs.TaskReminders {
		t.Fatalf("unexpected settings: %+v", rs)
	}

	val, _ := s.GetSetting("class_reminders")
	if val != "true" {
		t.Fatalf("expected stored 'true', got %q", val)
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("custom", "1")
	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != 3 {
		t.Fatalf("expected 3 settings, got %d", len(settings))
	}
}

func TestGetSettingMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSetting("nope"); err == nil {
		t.Fatal("expected error for missing setting")
	}
}

// ============================================================
// Notification queue
// ============================================================

func TestNotificationQueue(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 7, 1, 7, 0, 0, 0, time.Local)

	first, err := s.ScheduleNotification("Classes", "Maths first", base)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.ScheduleNotification("Task", "Essay", base.Add(48*time.Hour)); err != nil {
		t.Fatal(err)
	}

	pending, _ := s.PendingNotifications()
	if len(pending) != 2 || pending[0].ID != first.ID {
		t.Fatalf("expected 2 pending ordered by fire time: %+v", pending)
	}
	if !pending[0].FireAt.Equal(base) {
		t.Fatalf("fire time round-trip: %v != %v", pending[0].FireAt, base)
	}

	due, _ := s.DueNotifications(base.Add(time.Hour))
	if len(due) != 1 || due[0].ID != first.ID {
		t.Fatalf("expected only the first notification due: %+v", due)
	}

	if err := s.MarkNotificationDelivered(first.ID, base.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	n, err := s.CancelAllNotifications()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 pending cancelled, got %d", n)
	}
	pending, _ = s.PendingNotifications()
	if len(pending) != 0 {
		t.Fatal("expected queue empty after cancel")
	}
}

// ============================================================
// Aggregation
// ============================================================

func TestSubjectPercentageExample(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "A", 20, 15)
	entry := mustEntry(t, s, subject.ID, 1, "09:00", "10:00")
	mustMark(t, s, entry.ID, "2024-07-01", StatusPresent)
	mustMark(t, s, entry.ID, "2024-07-08", StatusAbsent)
	mustMark(t, s, entry.ID, "2024-07-15", StatusCancelled)
	mustMark(t, s, entry.ID, "2024-07-22", StatusHoliday)

	subjects, err := s.SubjectsWithAttendance()
	if err != nil {
		t.Fatal(err)
	}
	if len(subjects) != 1 {
		t.Fatalf("expected 1 subject, got %d", len(subjects))
	}
	sw := subjects[0]
	if sw.RecordedPresent != 1 || sw.RecordedAbsent != 1 {
		t.Fatalf("unexpected counts: %+v", sw)
	}
	p := sw.Percentage()
	if p == nil || math.Abs(*p-16.0/22.0*100) > 1e-9 {
		t.Fatalf("expected ~72.73, got %v", p)
	}
	if sw.MeetsTarget() {
		t.Fatal("72.73 should be below the 75 target")
	}
}

func TestSubjectsWithAttendanceNoClasses(t *testing.T) {
	s := newTestStore(t)
	mustSubject(t, s, "Fresh", 0, 0)
	subjects, _ := s.SubjectsWithAttendance()
	if subjects[0].Percentage() != nil {
		t.Fatal("expected nil percentage with no held classes")
	}
	if !subjects[0].MeetsTarget() {
		t.Fatal("a subject with no classes should not be flagged below target")
	}
}

func TestOverallAttendance(t *testing.T) {
	s := newTestStore(t)

	overall, err := s.OverallAttendance()
	if err != nil {
		t.Fatal(err)
	}
	if overall != nil {
		t.Fatal("expected nil with no subjects")
	}

	a := mustSubject(t, s, "A", 0, 0)
	entry := mustEntry(t, s, a.ID, 1, "09:00", "10:00")
	mustMark(t, s, entry.ID, "2024-07-01", StatusCancelled)
	overall, _ = s.OverallAttendance()
	if overall != nil {
		t.Fatal("cancelled marks alone should not count as held")
	}

	mustSubject(t, s, "B", 10, 7)
	mustMark(t, s, entry.ID, "2024-07-08", StatusPresent)
	mustMark(t, s, entry.ID, "2024-07-15", StatusAbsent)
	overall, _ = s.OverallAttendance()
	// (7 + 1) / (10 + 1 + 1)
	if overall == nil || math.Abs(*overall-8.0/12.0*100) > 1e-9 {
		t.Fatalf("expected ~66.67, got %v", overall)
	}
	if *overall < 0 || *overall > 100 {
		t.Fatalf("overall out of range: %v", *overall)
	}
}

func TestClassesForDay(t *testing.T) {
	s := newTestStore(t)
	maths := mustSubject(t, s, "Maths", 4, 3)
	art := mustSubject(t, s, "Art", 0, 0)
	late := mustEntry(t, s, maths.ID, 2, "14:00", "15:00")
	mustEntry(t, s, art.ID, 2, "08:00", "09:00")
	mustEntry(t, s, art.ID, 3, "08:00", "09:00")
	mustMark(t, s, late.ID, "2024-07-02", StatusPresent)

	classes, err := s.ClassesForDay(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(classes) != 2 {
		t.Fatalf("expected 2 classes on Tuesday, got %d", len(classes))
	}
	if classes[0].SubjectName != "Art" || classes[1].SubjectName != "Maths" {
		t.Fatalf("expected ordering by start time: %+v", classes)
	}
	p := classes[1].Percentage()
	if p == nil || math.Abs(*p-80) > 1e-9 {
		t.Fatalf("expected Maths at 80%%, got %v", p)
	}
	if classes[0].Percentage() != nil {
		t.Fatal("Art has no held classes")
	}

	empty, _ := s.ClassesForDay(0)
	if len(empty) != 0 {
		t.Fatal("expected no classes on Sunday")
	}
}

func TestAttendanceForDate(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "Maths", 0, 0)
	e1 := mustEntry(t, s, subject.ID, 1, "09:00", "10:00")
	e2 := mustEntry(t, s, subject.ID, 1, "11:00", "12:00")
	mustMark(t, s, e1.ID, "2024-07-01", StatusHoliday)
	mustMark(t, s, e2.ID, "2024-07-08", StatusPresent)

	marks, err := s.AttendanceForDate("2024-07-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(marks) != 1 || marks[e1.ID] != StatusHoliday {
		t.Fatalf("unexpected marks: %v", marks)
	}
}

func TestAttendanceDetailsForDateIncludesUnmarked(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "Maths", 0, 0)
	e1 := mustEntry(t, s, subject.ID, 1, "09:00", "10:00")
	e2 := mustEntry(t, s, subject.ID, 1, "11:00", "12:00")
	mustMark(t, s, e1.ID, "2024-07-01", StatusPresent)
	mustMark(t, s, e2.ID, "2024-07-08", StatusAbsent)

	details, err := s.AttendanceDetailsForDate("2024-07-01", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(details))
	}
	if details[0].Status == nil || *details[0].Status != StatusPresent {
		t.Fatalf("expected first class present: %+v", details[0])
	}
	if details[1].Status != nil {
		t.Fatalf("expected second class unmarked, got %s", *details[1].Status)
	}
}

func TestMonthlyAttendanceSummary(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "Maths", 0, 0)
	e1 := mustEntry(t, s, subject.ID, 5, "09:00", "10:00")
	e2 := mustEntry(t, s, subject.ID, 6, "09:00", "10:00")
	mustMark(t, s, e1.ID, "2024-07-05", StatusPresent)
	mustMark(t, s, e2.ID, "2024-07-06", StatusAbsent)
	mustMark(t, s, e1.ID, "2024-08-02", StatusPresent)

	summary, err := s.MonthlyAttendanceSummary("2024-07-01", "2024-07-31")
	if err != nil {
		t.Fatal(err)
	}
	if len(summary) != 2 {
		t.Fatalf("expected exactly 2 dates, got %v", summary)
	}
	if summary["2024-07-05"] != (DaySummary{Present: 1}) {
		t.Fatalf("unexpected 07-05: %+v", summary["2024-07-05"])
	}
	if summary["2024-07-06"] != (DaySummary{Absent: 1}) {
		t.Fatalf("unexpected 07-06: %+v", summary["2024-07-06"])
	}
	if _, ok := summary["2024-07-07"]; ok {
		t.Fatal("days without marks should be absent, not zero-filled")
	}
}

func TestMonthlySummaryInclusiveBounds(t *testing.T) {
	s := newTestStore(t)
	subject := mustSubject(t, s, "Maths", 0, 0)
	e := mustEntry(t, s, subject.ID, 1, "09:00", "10:00")
	mustMark(t, s, e.ID, "2024-07-01", StatusCancelled)
	mustMark(t, s, e.ID, "2024-07-31", StatusHoliday)

	summary, _ := s.MonthlyAttendanceSummary("2024-07-01", "2024-07-31")
	if summary["2024-07-01"].Cancelled != 1 || summary["2024-07-31"].Holiday != 1 {
		t.Fatalf("range bounds should be inclusive: %v", summary)
	}
}

func TestFullAttendanceHistoryForExport(t *testing.T) {
	s := newTestStore(t)
	subject, _ := s.AddSubject(SubjectInput{Name: "Maths", Color: "red", TargetAttendance: 75, TeacherName: strPtr("Rao")})
	e := mustEntry(t, s, subject.ID, 1, "09:00", "10:00")
	mustMark(t, s, e.ID, "2024-07-08", StatusAbsent)
	mustMark(t, s, e.ID, "2024-07-01", StatusPresent)

	history, err := s.FullAttendanceHistoryForExport()
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(history))
	}
	first := history[0]
	if first.Date != "2024-07-01" || first.Status != StatusPresent || first.SubjectName != "Maths" ||
		first.StartTime != "09:00" || first.TeacherName == nil || *first.TeacherName != "Rao" {
		t.Fatalf("unexpected first row: %+v", first)
	}
}
