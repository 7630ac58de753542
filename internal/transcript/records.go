package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"captioner/internal/captions"
	"captioner/internal/fileutil"
	"captioner/internal/services"
)

// record is one line of the records export. Speaker is null when absent.
type record struct {
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Speaker   *string `json:"speaker"`
	Text      string  `json:"text"`
}

// WriteRecords writes the table as JSON lines, one object per utterance.
func WriteRecords(path string, table []captions.Utterance) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, u := range table {
		rec := record{StartTime: u.StartTime, EndTime: u.EndTime, Text: u.Text}
		if u.Speaker != "" {
			speaker := u.Speaker
			rec.Speaker = &speaker
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return services.Wrap(services.ErrDirectoryUnavailable, services.StageExport, "write records", path, err)
	}
	return nil
}

// ReadRecords loads a records export.
func ReadRecords(path string) ([]captions.Utterance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrCorruptCache, services.StageExport, "open records", path, err)
	}
	defer f.Close()

	var table []captions.Utterance
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for line := 1; scanner.Scan(); line++ {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, services.Wrap(services.ErrCorruptCache, services.StageExport, "read records", fmt.Sprintf("%s line %d", path, line), err)
		}
		u := captions.Utterance{StartTime: rec.StartTime, EndTime: rec.EndTime, Text: rec.Text}
		if rec.Speaker != nil {
			u.Speaker = *rec.Speaker
		}
		table = append(table, u)
	}
	if err := scanner.Err(); err != nil {
		return nil, services.Wrap(services.ErrCorruptCache, services.StageExport, "read records", path, err)
	}
	return table, nil
}
