package store

import (
	"fmt"
	"strconv"

	"github.com/sadopc/rollcall/internal/constants"
)

func (s *Store) GetSetting(key string) (string, error) {
	db, err := s.conn()
	if err != nil {
		return "", err
	}
	var value string
	err = db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return wrap(fmt.Sprintf("set setting %q", key), err)
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var st Setting
		if err := rows.Scan(&st.Key, &st.Value); err != nil {
			return nil, err
		}
		settings = append(settings, st)
	}
	return settings, rows.Err()
}

// ReminderSettings loads the two reminder flags. Unparseable values read as
// disabled.
func (s *Store) ReminderSettings() (ReminderSettings, error) {
	var rs ReminderSettings
	classVal, err := s.GetSetting(constants.SettingClassReminders)
	if err != nil {
		return rs, err
	}
	taskVal, err := s.GetSetting(constants.SettingTaskReminders)
	if err != nil {
		return rs, err
	}
	rs.ClassReminders, _ = strconv.ParseBool(classVal)
	rs.TaskReminders, _ = strconv.ParseBool(taskVal)
	return rs, nil
}

func (s *Store) SaveReminderSettings(rs ReminderSettings) error {
	if err := s.SetSetting(constants.SettingClassReminders, strconv.FormatBool(rs.ClassReminders)); err != nil {
		return err
	}
	return s.SetSetting(constants.SettingTaskReminders, strconv.FormatBool(rs.TaskReminders))
}
