package templates

import (
	"fmt"
	"html"
	"strings"
)

// ReportUpdateData holds the fields of a report status email
type ReportUpdateData struct {
	ReporterName string
	ReportTitle  string
	KindLabel    string
	StatusLabel  string
	TeamLabel    string
	Note         string
}

// RenderReportUpdateEmail generates the HTML sent to a reporter when their report is
// dispatched or resolved
func RenderReportUpdateEmail(subject string, d ReportUpdateData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Namaste %s,</p>", html.EscapeString(d.ReporterName))
	fmt.Fprintf(&b, "<p>Your %s report <strong>%s</strong> has a new status:</p>",
		html.EscapeString(strings.ToLower(d.KindLabel)), html.EscapeString(d.ReportTitle))
	fmt.Fprintf(&b, `<p><span class="status">%s</span></p>`, html.EscapeString(d.StatusLabel))
	if d.TeamLabel != "" {
		fmt.Fprintf(&b, "<p>Responding team: %s</p>", html.EscapeString(d.TeamLabel))
	}
	if d.Note != "" {
		fmt.Fprintf(&b, "<p>Note from the coordinators: %s</p>", html.EscapeString(d.Note))
	}
	b.WriteString("<p>Thank you for helping your community.</p>")
	return layout(subject, b.String())
}

// DigestRow is one overdue rehab case in the admin digest
type DigestRow struct {
	ReportTitle string
	Needs       string
	Priority    string
	Status      string
	AssignedOrg string
	TargetDate  string
}

// RenderOverdueDigestEmail generates the HTML digest of rehab cases past their target date
func RenderOverdueDigestEmail(subject string, rows []DigestRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>%d rehabilitation case(s) are past their target date.</p>", len(rows))
	b.WriteString("<table><tr><th>Damage report</th><th>Needs</th><th>Priority</th><th>Status</th><th>Assigned</th><th>Target</th></tr>")
	for _, r := range rows {
		assigned := r.AssignedOrg
		if assigned == "" {
			assigned = "-"
		}
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(r.ReportTitle),
			html.EscapeString(r.Needs),
			html.EscapeString(r.Priority),
			html.EscapeString(r.Status),
			html.EscapeString(assigned),
			html.EscapeString(r.TargetDate),
		)
	}
	b.WriteString("</table>")
	return layout(subject, b.String())
}
