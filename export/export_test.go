package export_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sajhasahayog/relief-api/export"
	"github.com/sajhasahayog/relief-api/i18n"
	"github.com/sajhasahayog/relief-api/models"
)

var fixedNow = time.Date(2025, 4, 25, 11, 56, 0, 0, time.UTC)

func team(t models.TeamID) *models.TeamID { return &t }

func reports() []models.Report {
	return []models.Report{
		{
			ID: "d1", Type: models.KindDamage, Title: `Collapsed "old" temple`, Description: "Basantapur, near the square",
			Time: fixedNow, Latitude: 27.7042, Longitude: 85.3067, Critical: true, Status: models.StatusPending,
		},
		{
			ID: "m1", Type: models.KindMissing, Title: "Sita Tamang", Description: "Barpak",
			Time: fixedNow.Add(-time.Hour), Latitude: 28.3949, Longitude: 84.124,
			Status: models.StatusDispatched, DispatchedTeam: team(models.TeamMedical),
		},
		{
			ID: "d2", Type: models.KindDamage, Title: "Bridge <washed> away", Description: "",
			Time: fixedNow.Add(-2 * time.Hour), Status: models.StatusResolved, Verified: true, Critical: true,
			DispatchedTeam: team(models.TeamArmy),
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want export.Format
		ok   bool
	}{
		{"", export.CSV, true},
		{"CSV", export.CSV, true},
		{"pdf", export.HTML, true},
		{"html", export.HTML, true},
		{"xlsx", export.XLSX, true},
		{"docx", "", false},
	}
	for _, tt := range tests {
		got, ok := export.ParseFormat(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "sajhasahayog-reports-2025-04-25.csv", export.Filename(export.CSV, fixedNow))
	assert.Equal(t, "sajhasahayog-reports-2025-04-25.xlsx", export.Filename(export.XLSX, fixedNow))
}

func TestWriteCSVQuotesEveryCell(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, reports()[:2], i18n.English))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Type,Title,Description,Date,Latitude,Longitude,Status,Dispatched Team,Critical", lines[0])
	assert.Equal(t, `"damage","Collapsed ""old"" temple","Basantapur, near the square","2025-04-25T11:56:00Z","27.7042","85.3067","pending","","Yes"`, lines[1])
	assert.Equal(t, `"missing","Sita Tamang","Barpak","2025-04-25T10:56:00Z","28.3949","84.124","dispatched","Medical Team","No"`, lines[2])
}

func TestCSVRoundTrip(t *testing.T) {
	in := reports()
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, in, i18n.Nepali))

	rows, err := export.ParseCSV(&buf)
	require.NoError(t, err)
	require.Len(t, rows, len(in))

	type tuple struct{ kind, title, status string }
	want := make([]tuple, 0, len(in))
	for _, r := range in {
		want = append(want, tuple{string(r.Type), r.Title, string(r.Status)})
	}
	got := make([]tuple, 0, len(rows))
	for _, row := range rows {
		got = append(got, tuple{row["Type"], row["Title"], row["Status"]})
	}
	assert.ElementsMatch(t, want, got)
}

func TestCSVRoundTripMultilineCells(t *testing.T) {
	in := []models.Report{
		{ID: "d1", Type: models.KindDamage, Title: "Bridge\nwashed out", Description: "north span\nsouth span", Status: models.StatusPending},
		{ID: "d2", Type: models.KindDamage, Title: "Road\r\nblocked", Description: "old\rrecord", Status: models.StatusResolved},
	}
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, in, i18n.English))

	rows, err := export.ParseCSV(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for i, r := range in {
		assert.Equal(t, models.NormalizeLineEndings(r.Title), rows[i]["Title"])
		assert.Equal(t, models.NormalizeLineEndings(r.Description), rows[i]["Description"])
	}
	assert.Equal(t, "Bridge\nwashed out", rows[0]["Title"])
}

func TestParseCSVEmpty(t *testing.T) {
	_, err := export.ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteHTML(&buf, reports(), i18n.English, fixedNow))
	out := buf.String()

	assert.Contains(t, out, "<h1>SajhaSahayog Incident Reports</h1>")
	assert.Contains(t, out, "Total: 3 | Pending: 1 | Dispatched: 1 | Resolved: 1")
	assert.Contains(t, out, "<td>Damage / Hazard</td>")
	assert.Contains(t, out, "<td>Missing Person</td>")
	assert.Contains(t, out, "Pending (CRITICAL)")
	assert.Contains(t, out, "Bridge &lt;washed&gt; away")
	assert.Contains(t, out, "<td>Nepal Army</td>")
	assert.Equal(t, 1, strings.Count(out, "(CRITICAL)"), "resolved critical reports are not flagged")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, reports(), i18n.English))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reports")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, export.Header, rows[0])
	assert.Equal(t, "damage", rows[1][0])
	assert.Equal(t, `Collapsed "old" temple`, rows[1][1])
	assert.Equal(t, "Medical Team", rows[2][7])

	total, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "3", total)
}

func TestWriteUnsupported(t *testing.T) {
	err := export.Write(&bytes.Buffer{}, export.Format("docx"), nil, i18n.English, fixedNow)
	assert.Error(t, err)
}
