package attendance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"SIABSEN/models"
)

const (
	TimeLayout = "2006-01-02 15:04:05"
	bom        = "\uFEFF"
)

var ErrNoRecords = errors.New("tidak ada catatan untuk diexport")

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat menerima "csv" atau "json" (tidak peka huruf besar).
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("format export tidak dikenal: %q", s)
}

func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv; charset=utf-8"
}

// Filename menghasilkan attendance_YYYY-MM-DD.<ext>.
func (f Format) Filename(now time.Time) string {
	return fmt.Sprintf("attendance_%s.%s", now.Format("2006-01-02"), f)
}

// Export memfilter, mengurutkan menurun, lalu encode sesuai format.
func Export(entries []models.AttendanceEntry, name string, f Format, loc *time.Location) ([]byte, error) {
	rows := Filter(entries, name)
	if len(rows) == 0 {
		return nil, ErrNoRecords
	}
	switch f {
	case FormatCSV:
		return EncodeCSV(rows, loc), nil
	case FormatJSON:
		return EncodeJSON(rows)
	}
	return nil, fmt.Errorf("format export tidak dikenal: %q", f)
}

// EncodeCSV menulis BOM, header name,time, lalu baris dengan field ber-quote
// dan dipisah CRLF. encoding/csv hanya quote jika perlu, jadi ditulis manual.
func EncodeCSV(entries []models.AttendanceEntry, loc *time.Location) []byte {
	if loc == nil {
		loc = time.Local
	}
	var buf bytes.Buffer
	buf.WriteString(bom)
	buf.WriteString("name,time")
	for _, e := range entries {
		buf.WriteString("\r\n")
		buf.WriteString(quote(e.Name))
		buf.WriteByte(',')
		buf.WriteString(quote(e.Time.In(loc).Format(TimeLayout)))
	}
	return buf.Bytes()
}

func EncodeJSON(entries []models.AttendanceEntry) ([]byte, error) {
	return json.MarshalIndent(entries, "", "  ")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
