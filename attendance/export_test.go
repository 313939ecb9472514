package attendance

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"SIABSEN/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV_SingleEntry(t *testing.T) {
	entries := []models.AttendanceEntry{{Name: "Alice", Time: t0}}

	out, err := Export(entries, "", FormatCSV, time.UTC)
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "\uFEFF"), "harus diawali BOM")
	lines := strings.Split(strings.TrimPrefix(s, "\uFEFF"), "\r\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "name,time", lines[0])
	assert.Equal(t, `"Alice","2024-05-01 08:00:00"`, lines[1])
}

func TestExportCSV_EscapesQuotesAndSorts(t *testing.T) {
	entries := []models.AttendanceEntry{
		{Name: `Budi "B"`, Time: t0},
		{Name: "Citra, S.Kom", Time: t0.Add(time.Hour)},
	}
	out := string(EncodeCSV(Filter(entries, ""), time.UTC))
	lines := strings.Split(strings.TrimPrefix(out, "\uFEFF"), "\r\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"Citra, S.Kom","2024-05-01 09:00:00"`, lines[1])
	assert.Equal(t, `"Budi ""B""","2024-05-01 08:00:00"`, lines[2])
}

func TestExportCSV_Timezone(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	out := string(EncodeCSV([]models.AttendanceEntry{{Name: "A", Time: t0}}, jakarta))
	assert.Contains(t, out, `"2024-05-01 15:00:00"`)
}

func TestExportJSON_FilteredDescending(t *testing.T) {
	entries := []models.AttendanceEntry{
		{Name: "Alice", Time: t0},
		{Name: "Bob", Time: t0.Add(time.Minute)},
		{Name: "Alice", Time: t0.Add(2 * time.Minute)},
	}
	out, err := Export(entries, "Alice", FormatJSON, time.UTC)
	require.NoError(t, err)

	var got []models.AttendanceEntry
	require.NoError(t, json.Unmarshal(out, &got))
	require.Len(t, got, 2)
	assert.Equal(t, t0.Add(2*time.Minute), got[0].Time.UTC())
	assert.Contains(t, string(out), "\n  ", "JSON harus ter-indent")
}

func TestExport_NoRecords(t *testing.T) {
	_, err := Export(nil, "", FormatCSV, time.UTC)
	assert.ErrorIs(t, err, ErrNoRecords)

	_, err = Export([]models.AttendanceEntry{{Name: "Alice", Time: t0}}, "Bob", FormatJSON, time.UTC)
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestParseFormatAndFilename(t *testing.T) {
	f, err := ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	assert.Equal(t, "attendance_2024-05-01.csv", f.Filename(t0))
	assert.Equal(t, "application/json", FormatJSON.ContentType())

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
