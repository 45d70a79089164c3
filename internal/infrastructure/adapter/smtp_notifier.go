package adapter

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/iprofitlabs/lending-service/internal/domain/port"
)

// SMTPNotifier implements port.Notifier by sending templated emails. The
// recipient address is resolved through the applicant directory.
type SMTPNotifier struct {
	dialer    *gomail.Dialer
	from      string
	directory port.ApplicantDirectory
}

// NewSMTPNotifier creates a notifier that delivers over SMTP.
func NewSMTPNotifier(host string, smtpPort int, username, password, from string, directory port.ApplicantDirectory) *SMTPNotifier {
	return &SMTPNotifier{
		dialer:    gomail.NewDialer(host, smtpPort, username, password),
		from:      from,
		directory: directory,
	}
}

// notificationTemplates maps a template ID to a mail subject and body.
// Placeholders of the form {key} are substituted from the vars map.
var notificationTemplates = map[string]struct {
	subject string
	body    string
}{
	"loan_applied": {
		subject: "Your loan application was received",
		body:    "We received your application for loan {loan_id} of {amount}. Your monthly installment will be {emi}.",
	},
	"loan_approved": {
		subject: "Your loan was approved",
		body:    "Loan {loan_id} has been approved. {reason}",
	},
	"loan_rejected": {
		subject: "Your loan application was declined",
		body:    "Loan {loan_id} was declined. {reason}",
	},
	"loan_disbursed": {
		subject: "Your loan has been disbursed",
		body:    "Loan {loan_id} of {amount} has been disbursed. The first installment is due on {first_due}.",
	},
	"payment_received": {
		subject: "Payment received",
		body:    "We received your payment of {amount} against loan {loan_id}. Remaining balance: {remaining}.",
	},
	"loan_completed": {
		subject: "Your loan is fully repaid",
		body:    "Congratulations, loan {loan_id} is fully repaid.",
	},
	"loan_defaulted": {
		subject: "Your loan is in default",
		body:    "Loan {loan_id} has been marked as defaulted with {remaining} outstanding. Please contact support.",
	},
}

// Send resolves the user's email address and delivers the rendered template.
// An empty address is skipped silently.
func (n *SMTPNotifier) Send(ctx context.Context, userID, templateID string, vars map[string]string) error {
	tmpl, ok := notificationTemplates[templateID]
	if !ok {
		return fmt.Errorf("unknown notification template: %q", templateID)
	}

	profile, err := n.directory.Profile(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}
	if profile.Email == "" {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", profile.Email)
	msg.SetHeader("Subject", tmpl.subject)
	msg.SetBody("text/plain", render(tmpl.body, vars))

	if err := n.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", profile.Email, err)
	}
	return nil
}

func render(body string, vars map[string]string) string {
	for k, v := range vars {
		body = strings.ReplaceAll(body, "{"+k+"}", v)
	}
	return body
}
