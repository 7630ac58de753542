package pipeline

import (
	"fmt"
	"strings"

	"captioner/internal/services"
)

// Format selects which artifact Run returns.
type Format string

const (
	FormatSubtitle Format = "subtitle"
	FormatTable    Format = "table"
	FormatRecords  Format = "records"
)

// fileFormats maps download extensions to formats.
var fileFormats = map[string]Format{
	"srt":  FormatSubtitle,
	"csv":  FormatTable,
	"json": FormatRecords,
}

// ParseFormat accepts a format name (subtitle, table, records) or the file
// extension it produces (srt, csv, json).
func ParseFormat(value string) (Format, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch Format(v) {
	case FormatSubtitle, FormatTable, FormatRecords:
		return Format(v), nil
	}
	if f, ok := fileFormats[v]; ok {
		return f, nil
	}
	return "", services.Wrap(services.ErrUnsupportedFormat, services.StageValidate, "parse format", fmt.Sprintf("%q", value), nil)
}

// Extension returns the file extension of the artifact, without the dot.
func (f Format) Extension() string {
	for ext, format := range fileFormats {
		if format == f {
			return ext
		}
	}
	return ""
}
