package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"pamoja-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	fromEmail string
	fromName  string
	send      func(ctx context.Context, msg *mail.SGMailV3) error
}

// NewEmailService returns a SendGrid backed EmailService. Without an API key messages are only logged.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	s := &emailService{fromEmail: fromEmail, fromName: fromName}
	if apiKey == "" {
		logger.Warn("SendGrid API key not configured, emails will be logged and dropped")
		s.send = func(_ context.Context, msg *mail.SGMailV3) error {
			logger.Info("Email dropped", "subject", msg.Subject)
			return nil
		}
		return s
	}

	client := sendgrid.NewSendClient(apiKey)
	s.send = func(ctx context.Context, msg *mail.SGMailV3) error {
		response, err := client.SendWithContext(ctx, msg)
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		if response.StatusCode >= 400 {
			return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		}
		return nil
	}
	return s
}

func (s *emailService) deliver(ctx context.Context, to, toName, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)

	greeting := fmt.Sprintf("Hello %s,\n\n", toName)
	signature := "\n\nBest regards,\n" + s.fromName
	plain := greeting + body + signature
	htmlContent := "<p>" + strings.ReplaceAll(html.EscapeString(plain), "\n", "<br>") + "</p>"

	message := mail.NewSingleEmail(from, subject, recipient, plain, htmlContent)

	logger.ExternalServiceCall("sendgrid", "Send", "to", to, "subject", subject)
	err := s.send(ctx, message)
	logger.ExternalServiceResult("sendgrid", "Send", err, "to", to)
	return err
}

func (s *emailService) SendWelcome(ctx context.Context, email, name string) error {
	body := "Welcome! Your account has been created.\n\n" +
		"To unlock member features, submit your activation fee payment from the payments page. " +
		"An administrator will review it and activate your account."
	return s.deliver(ctx, email, name, fmt.Sprintf("Welcome to %s", s.fromName), body)
}

func (s *emailService) SendDecisionNotification(ctx context.Context, email, name, subject, message string) error {
	return s.deliver(ctx, email, name, subject, message)
}

func (s *emailService) SendContactReply(ctx context.Context, email, name, subject, reply string) error {
	body := fmt.Sprintf("Thank you for contacting us about %q.\n\n%s", subject, reply)
	return s.deliver(ctx, email, name, "Re: "+subject, body)
}

func (s *emailService) SendShareAdvisory(ctx context.Context, email, name string, sharesOwned, minimum int32) error {
	body := fmt.Sprintf("Your share balance is %d, which is below the recommended minimum of %d shares.\n\n"+
		"Please consider purchasing additional shares. Balances that fall below the minimum after a "+
		"deduction lead to deactivation of the account.", sharesOwned, minimum)
	return s.deliver(ctx, email, name, "Your share balance is low", body)
}

func (s *emailService) SendPendingReviewDigest(ctx context.Context, email, name string, pending map[string]int32) error {
	kinds := make([]string, 0, len(pending))
	for k := range pending {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	var b strings.Builder
	b.WriteString("The following items are waiting for review:\n")
	for _, k := range kinds {
		fmt.Fprintf(&b, "\n  %s: %d", k, pending[k])
	}
	return s.deliver(ctx, email, name, "Pending reviews", b.String())
}
