package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/sadopc/rollcall/internal/store"
)

// Field is one named value of a Row.
type Field struct {
	Key   string
	Value any
}

// Row is a flat record whose fields keep their insertion order.
type Row []Field

// Get returns the value stored under key.
func (r Row) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// ToDelimitedText renders rows as comma-separated text. See
// ToDelimitedTextWith.
func ToDelimitedText(rows []Row) (string, error) {
	return ToDelimitedTextWith(rows, ',')
}

// ToDelimitedTextWith renders a header line from the first row's keys
// followed by one line per row. Rows are read by the header keys, so a key
// missing from a later row renders empty, as do nil values. Fields holding
// the delimiter, a quote or a line break are quoted. No rows yields "".
func ToDelimitedTextWith(rows []Row, delim rune) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	headers := make([]string, len(rows[0]))
	for i, f := range rows[0] {
		headers[i] = f.Key
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Comma = delim

	if err := w.Write(headers); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		for i, h := range headers {
			v, _ := row.Get(h)
			record[i] = formatValue(v)
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}

func formatValue(v any) string {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		v = rv.Elem().Interface()
	}
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// HistoryRows flattens attendance history into export rows.
func HistoryRows(records []store.HistoryRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{
			{"date", r.Date},
			{"day", time.Weekday(r.DayOfWeek).String()},
			{"start_time", r.StartTime},
			{"end_time", r.EndTime},
			{"subject", r.SubjectName},
			{"teacher", r.TeacherName},
			{"location", r.Location},
			{"status", string(r.Status)},
			{"notes", r.Notes},
		})
	}
	return rows
}

func ToCSV(records []store.HistoryRecord, path string) error {
	text, err := ToDelimitedText(HistoryRows(records))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write csv file: %w", err)
	}
	return nil
}
