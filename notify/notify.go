// Package notify emails reporters about their reports and admins about overdue rehab work.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/sajhasahayog/relief-api/databases"
	"github.com/sajhasahayog/relief-api/events"
	"github.com/sajhasahayog/relief-api/i18n"
	"github.com/sajhasahayog/relief-api/models"
	templates "github.com/sajhasahayog/relief-api/templates/html"
)

const senderName = "SajhaSahayog"

// Mailer delivers one email
type Mailer interface {
	Send(ctx context.Context, toName, toEmail, subject, plainText, htmlContent string) error
}

// SendGrid sends mail through the SendGrid v3 API
type SendGrid struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendGrid returns a SendGrid mailer sending from fromEmail
func NewSendGrid(apiKey, fromEmail string) *SendGrid {
	return &SendGrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(senderName, fromEmail),
	}
}

// Send delivers one message. A 4xx or 5xx answer is an error.
func (s *SendGrid) Send(ctx context.Context, toName, toEmail, subject, plainText, htmlContent string) error {
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail(toName, toEmail), plainText, htmlContent)
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return errors.Wrapf(err, "failed to send email to %s", toEmail)
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", toEmail)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	zap.S().Infow("email sent successfully", "to", toEmail, "subject", subject)
	return nil
}

// Notifier turns report events into reporter emails
type Notifier struct {
	Users   databases.UserDatabase
	Mailer  Mailer
	Timeout time.Duration
}

// Handle sends the email for e in the background. Submission, dispatch and resolution are announced.
func (n *Notifier) Handle(e events.Event) {
	if e.Report == nil {
		return
	}
	switch e.Kind {
	case events.ReportSubmitted, events.ReportDispatched, events.ReportResolved:
	default:
		return
	}
	go func() {
		timeout := n.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := n.NotifyReporter(ctx, *e.Report); err != nil {
			zap.S().Warnw("failed to notify reporter", "report", e.Report.ID, "error", err)
		}
	}()
}

// NotifyReporter emails the user who submitted r about its current status. Reports without
// a known reporter email are skipped.
func (n *Notifier) NotifyReporter(ctx context.Context, r models.Report) error {
	if r.ReporterID == "" {
		return nil
	}
	user, err := n.Users.FindOne(ctx, bson.M{"_id": r.ReporterID})
	if err != nil {
		return errors.Wrapf(err, "failed to find reporter %s", r.ReporterID)
	}
	if user.Details.Email == "" {
		return nil
	}

	lang := i18n.English
	if r.Status == models.StatusPending {
		subject := fmt.Sprintf("We received your report %q", r.Title)
		plain := fmt.Sprintf("Namaste %s,\n\nYour %s report %q has been received and is waiting for a response team.",
			user.Details.Name, strings.ToLower(i18n.Kind(lang, r.Type)), r.Title)
		return n.Mailer.Send(ctx, user.Details.Name, user.Details.Email, subject, plain,
			templates.RenderGenericEmail(subject, plain))
	}

	data := templates.ReportUpdateData{
		ReporterName: user.Details.Name,
		ReportTitle:  r.Title,
		KindLabel:    i18n.Kind(lang, r.Type),
		StatusLabel:  i18n.Status(lang, r.Status),
	}
	if r.DispatchedTeam != nil {
		data.TeamLabel = i18n.Team(lang, *r.DispatchedTeam)
	}
	if r.DispatchNote != nil {
		data.Note = *r.DispatchNote
	}

	subject := fmt.Sprintf("Your report %q: %s", r.Title, data.StatusLabel)
	plain := fmt.Sprintf("Namaste %s,\n\nYour report %q is now: %s.", data.ReporterName, r.Title, data.StatusLabel)
	if data.TeamLabel != "" {
		plain += "\nResponding team: " + data.TeamLabel
	}
	return n.Mailer.Send(ctx, user.Details.Name, user.Details.Email, subject, plain,
		templates.RenderReportUpdateEmail(subject, data))
}

// SendDigest emails the overdue rehab cases to one admin address. An empty list sends nothing.
func SendDigest(ctx context.Context, m Mailer, to string, cases []models.RehabCase) error {
	if len(cases) == 0 || to == "" {
		return nil
	}
	lang := i18n.English
	rows := make([]templates.DigestRow, 0, len(cases))
	lines := make([]string, 0, len(cases))
	for _, c := range cases {
		needs := make([]string, 0, len(c.Needs))
		for _, need := range c.Needs {
			needs = append(needs, i18n.Need(lang, need))
		}
		row := templates.DigestRow{
			ReportTitle: c.DamageReportTitle,
			Needs:       strings.Join(needs, ", "),
			Priority:    i18n.Priority(lang, c.Priority),
			Status:      i18n.RehabStatus(lang, c.Status),
		}
		if c.AssignedOrg != nil {
			row.AssignedOrg = *c.AssignedOrg
		}
		if c.TargetDate != nil {
			row.TargetDate = c.TargetDate.UTC().Format("2006-01-02")
		}
		rows = append(rows, row)
		lines = append(lines, fmt.Sprintf("- %s (%s, due %s)", row.ReportTitle, row.Status, row.TargetDate))
	}

	subject := fmt.Sprintf("%d overdue rehabilitation case(s)", len(cases))
	plain := subject + "\n\n" + strings.Join(lines, "\n")
	return m.Send(ctx, "Relief coordinators", to, subject, plain, templates.RenderOverdueDigestEmail(subject, rows))
}
