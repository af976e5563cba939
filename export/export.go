// Package export renders a report snapshot as CSV, a printable HTML page or an XLSX workbook.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/sajhasahayog/relief-api/i18n"
	"github.com/sajhasahayog/relief-api/models"
)

// Format is an export file format
type Format string

// Export formats
const (
	CSV  Format = "csv"
	HTML Format = "html"
	XLSX Format = "xlsx"
)

// ContentType returns the MIME type for f
func (f Format) ContentType() string {
	switch f {
	case CSV:
		return "text/csv; charset=utf-8"
	case HTML:
		return "text/html; charset=utf-8"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// ParseFormat accepts csv, html, pdf (the printable page) and xlsx. Empty means csv.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return CSV, true
	case "html", "pdf":
		return HTML, true
	case "xlsx", "excel":
		return XLSX, true
	default:
		return "", false
	}
}

// Filename names the download, e.g. sajhasahayog-reports-2025-04-25.csv
func Filename(f Format, now time.Time) string {
	return fmt.Sprintf("sajhasahayog-reports-%s.%s", now.UTC().Format("2006-01-02"), f)
}

// Header is the column row shared by the CSV and XLSX exports
var Header = []string{"Type", "Title", "Description", "Date", "Latitude", "Longitude", "Status", "Dispatched Team", "Critical"}

// Row flattens one report in Header order. The team column carries its display label.
// Line breaks in free text are written as LF.
func Row(r models.Report, lang i18n.Language) []string {
	team := ""
	if r.DispatchedTeam != nil {
		team = i18n.Team(lang, *r.DispatchedTeam)
	}
	critical := "No"
	if r.Critical {
		critical = "Yes"
	}
	return []string{
		string(r.Type),
		models.NormalizeLineEndings(r.Title),
		models.NormalizeLineEndings(r.Description),
		r.Time.UTC().Format(time.RFC3339),
		strconv.FormatFloat(r.Latitude, 'f', -1, 64),
		strconv.FormatFloat(r.Longitude, 'f', -1, 64),
		string(r.Status),
		team,
		critical,
	}
}

// WriteCSV writes the header and one row per report with every cell quoted
func WriteCSV(w io.Writer, reports []models.Report, lang i18n.Language) error {
	lines := make([]string, 0, len(reports)+1)
	lines = append(lines, strings.Join(Header, ","))
	for _, r := range reports {
		cells := Row(r, lang)
		for i, c := range cells {
			cells[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// ParseCSV reads a file written by WriteCSV back into rows keyed by header name
func ParseCSV(r io.Reader) ([]map[string]string, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv")
	}
	if len(records) == 0 {
		return nil, errors.New("csv has no header row")
	}
	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Summary are the totals printed above the HTML table and on the XLSX summary sheet
type Summary struct {
	Total      int
	Pending    int
	Dispatched int
	Resolved   int
}

// Summarize counts reports the way the dashboard does. Dispatched includes in-progress.
func Summarize(reports []models.Report) Summary {
	s := Summary{Total: len(reports)}
	for _, r := range reports {
		switch r.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusDispatched, models.StatusInProgress:
			s.Dispatched++
		case models.StatusResolved:
			s.Resolved++
		}
	}
	return s
}

var page = template.Must(template.New("reports").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>SajhaSahayog Reports</title>
  <style>
    body { font-family: Arial, sans-serif; padding: 20px; }
    h1 { color: #0D6A6A; }
    table { width: 100%; border-collapse: collapse; margin-top: 20px; }
    th, td { border: 1px solid #ddd; padding: 8px; text-align: left; font-size: 12px; }
    th { background-color: #0D6A6A; color: white; }
    tr:nth-child(even) { background-color: #f9f9f9; }
    .critical { color: #DC3545; font-weight: bold; }
    .dispatched { color: #7c3aed; }
    .in_progress { color: #3b82f6; }
    .resolved { color: #22c55e; }
  </style>
</head>
<body onload="window.print()">
  <h1>SajhaSahayog Incident Reports</h1>
  <p>Generated: {{.Generated}}</p>
  <p>Total: {{.Summary.Total}} | Pending: {{.Summary.Pending}} | Dispatched: {{.Summary.Dispatched}} | Resolved: {{.Summary.Resolved}}</p>
  <table>
    <thead>
      <tr><th>Type</th><th>Title</th><th>Description</th><th>Date</th><th>Status</th><th>Team</th></tr>
    </thead>
    <tbody>
{{- range .Rows}}
      <tr>
        <td>{{.Type}}</td>
        <td>{{.Title}}</td>
        <td>{{.Description}}</td>
        <td>{{.Date}}</td>
        <td class="{{.Class}}">{{.Status}}{{if .Flag}} ({{.Flag}}){{end}}</td>
        <td>{{.Team}}</td>
      </tr>
{{- end}}
    </tbody>
  </table>
</body>
</html>
`))

type htmlRow struct {
	Type, Title, Description, Date, Status, Flag, Team, Class string
}

// WriteHTML renders the printable report page. Pending critical reports are flagged.
func WriteHTML(w io.Writer, reports []models.Report, lang i18n.Language, now time.Time) error {
	rows := make([]htmlRow, 0, len(reports))
	for _, r := range reports {
		row := htmlRow{
			Type:        i18n.Kind(lang, r.Type),
			Title:       r.Title,
			Description: r.Description,
			Date:        r.Time.UTC().Format("2006-01-02"),
			Status:      i18n.Status(lang, r.Status),
			Team:        "-",
			Class:       string(r.Status),
		}
		if row.Description == "" {
			row.Description = "-"
		}
		if r.DispatchedTeam != nil {
			row.Team = i18n.Team(lang, *r.DispatchedTeam)
		}
		if r.Critical && r.Status == models.StatusPending {
			row.Flag = i18n.Critical(lang)
			row.Class += " critical"
		}
		rows = append(rows, row)
	}

	return page.Execute(w, struct {
		Generated string
		Summary   Summary
		Rows      []htmlRow
	}{
		Generated: now.UTC().Format("2006-01-02 15:04 MST"),
		Summary:   Summarize(reports),
		Rows:      rows,
	})
}

const (
	reportSheet  = "Reports"
	summarySheet = "Summary"
)

// WriteXLSX writes the CSV columns to a Reports sheet and the totals to a Summary sheet
func WriteXLSX(w io.Writer, reports []models.Report, lang i18n.Language) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return errors.Wrap(err, "failed to name report sheet")
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#0D6A6A"}, Pattern: 1},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create header style")
	}

	if err := writeRow(f, reportSheet, 1, Header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(Header), 1)
	if err := f.SetCellStyle(reportSheet, "A1", last, headerStyle); err != nil {
		return errors.Wrap(err, "failed to style header")
	}
	for i, r := range reports {
		if err := writeRow(f, reportSheet, i+2, Row(r, lang)); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(reportSheet, "B", "C", 40); err != nil {
		return errors.Wrap(err, "failed to set column width")
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return errors.Wrap(err, "failed to create summary sheet")
	}
	s := Summarize(reports)
	summary := [][]interface{}{
		{"Total", s.Total},
		{"Pending", s.Pending},
		{"Dispatched", s.Dispatched},
		{"Resolved", s.Resolved},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return errors.Wrap(err, "failed to write summary row")
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return errors.Wrap(err, "failed to encode workbook")
	}
	_, err = buf.WriteTo(w)
	return err
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(err, "failed to convert coordinates")
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return errors.Wrapf(err, "failed to write row %d", row)
	}
	return nil
}

// Write renders reports in format f
func Write(w io.Writer, f Format, reports []models.Report, lang i18n.Language, now time.Time) error {
	switch f {
	case CSV:
		return WriteCSV(w, reports, lang)
	case HTML:
		return WriteHTML(w, reports, lang, now)
	case XLSX:
		return WriteXLSX(w, reports, lang)
	default:
		return errors.Errorf("unsupported export format %q", f)
	}
}
