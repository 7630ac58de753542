package transcript

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"captioner/internal/captions"
	"captioner/internal/fileutil"
	"captioner/internal/services"
)

// tableHeader is the column layout of transcript.csv. Existing caches were
// written by pandas with the same header and no index column.
var tableHeader = []string{"start_time", "end_time", "speaker", "text"}

// SaveTable writes utterances to path as CSV. An absent speaker is an empty
// cell.
func SaveTable(path string, table []captions.Utterance) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(tableHeader); err != nil {
		return err
	}
	for _, u := range table {
		if err := w.Write([]string{u.StartTime, u.EndTime, u.Speaker, u.Text}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode table: %w", err)
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

// LoadTable reads a table written by SaveTable. Any structural problem is
// reported as services.ErrCorruptCache.
func LoadTable(path string) ([]captions.Utterance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, corruptTable(path, "open", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(tableHeader)
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, corruptTable(path, "empty file", nil)
		}
		return nil, corruptTable(path, "read header", err)
	}
	if !sameHeader(header) {
		return nil, corruptTable(path, fmt.Sprintf("unexpected header %q", strings.Join(header, ",")), nil)
	}

	var table []captions.Utterance
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, corruptTable(path, "read row", err)
		}
		table = append(table, captions.Utterance{
			StartTime: row[0],
			EndTime:   row[1],
			Speaker:   normalizeSpeaker(row[2]),
			Text:      row[3],
		})
	}
	return table, nil
}

func sameHeader(header []string) bool {
	if len(header) != len(tableHeader) {
		return false
	}
	for i, name := range header {
		// A UTF-8 BOM survives round trips through spreadsheet tools.
		if strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) != tableHeader[i] {
			return false
		}
	}
	return true
}

// normalizeSpeaker maps pandas-style floats ("1.0") back to integer labels.
func normalizeSpeaker(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "nan") {
		return ""
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return value
}

func corruptTable(path, message string, err error) error {
	return services.Wrap(services.ErrCorruptCache, services.StageTranscribe, "load table", path+": "+message, err)
}
