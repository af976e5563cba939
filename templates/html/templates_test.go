package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderGenericEmailEscapes(t *testing.T) {
	out := RenderGenericEmail("Hello <team>", "line one\n<b>two</b>")

	assert.Contains(t, out, "<title>Hello &lt;team&gt;</title>")
	assert.Contains(t, out, "line one<br>&lt;b&gt;two&lt;/b&gt;")
	assert.Contains(t, out, "width: 100%;")
}

func TestRenderReportUpdateEmail(t *testing.T) {
	out := RenderReportUpdateEmail("Report update", ReportUpdateData{
		ReporterName: "Maya",
		ReportTitle:  "Landslide <Ward 3>",
		KindLabel:    "Damage / Hazard",
		StatusLabel:  "Team Dispatched",
		TeamLabel:    "Nepal Army",
		Note:         "arriving by noon",
	})

	assert.Contains(t, out, "Namaste Maya")
	assert.Contains(t, out, "Landslide &lt;Ward 3&gt;")
	assert.Contains(t, out, "Team Dispatched")
	assert.Contains(t, out, "Responding team: Nepal Army")
	assert.Contains(t, out, "arriving by noon")

	out = RenderReportUpdateEmail("Report update", ReportUpdateData{StatusLabel: "Resolved"})
	assert.False(t, strings.Contains(out, "Responding team"))
}

func TestRenderOverdueDigestEmail(t *testing.T) {
	out := RenderOverdueDigestEmail("Overdue", []DigestRow{
		{ReportTitle: "Flood", Needs: "Food Support", Priority: "High", Status: "Open", TargetDate: "2025-05-01"},
	})

	assert.Contains(t, out, "1 rehabilitation case(s)")
	assert.Contains(t, out, "<td>Flood</td>")
	assert.Contains(t, out, "<td>-</td>")
}
