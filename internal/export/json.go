package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/rollcall/internal/store"
)

type jsonExport struct {
	ExportedAt string       `json:"exported_at"`
	Count      int          `json:"count"`
	Records    []jsonRecord `json:"records"`
}

type jsonRecord struct {
	Date      string  `json:"date"`
	Day       string  `json:"day"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	SubjectID int64   `json:"subject_id"`
	Subject   string  `json:"subject"`
	Teacher   *string `json:"teacher,omitempty"`
	Location  *string `json:"location,omitempty"`
	Status    string  `json:"status"`
	Notes     *string `json:"notes,omitempty"`
}

func ToJSON(records []store.HistoryRecord, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(records),
		Records:    []jsonRecord{},
	}

	for _, r := range records {
		export.Records = append(export.Records, jsonRecord{
			Date:      r.Date,
			Day:       time.Weekday(r.DayOfWeek).String(),
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			SubjectID: r.SubjectID,
			Subject:   r.SubjectName,
			Teacher:   r.TeacherName,
			Location:  r.Location,
			Status:    string(r.Status),
			Notes:     r.Notes,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
