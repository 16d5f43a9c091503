package notification

import (
	"fmt"
	"strconv"
	"strings"

	"go-worklog/internal/events"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	sender string
	logger *zap.Logger
}

func NewSMTPMailer(host, port, username, password, sender string, logger ...*zap.Logger) Mailer {
	l := zap.L().Named("notification.mailer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.mailer")
	}

	p, err := strconv.Atoi(port)
	if err != nil || p == 0 {
		p = 587
	}

	return &smtpMailer{
		dialer: gomail.NewDialer(host, p, username, password),
		sender: sender,
		logger: l,
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("send email failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}

	m.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// DecisionEmail builds the owner notification for an approve/reject event.
func DecisionEmail(event events.DecisionEvent) (subject, body string) {
	kind := strings.ReplaceAll(event.EntityKind, "_", " ")
	subject = fmt.Sprintf("Your %s has been %s", kind, event.Status)

	var b strings.Builder
	name := event.OwnerName
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "Your %s (%s) has been %s.\n", kind, event.EntityID, event.Status)
	if event.Comments != "" {
		fmt.Fprintf(&b, "\nReviewer comments: %s\n", event.Comments)
	}
	b.WriteString("\nThis is an automated notification.\n")

	return subject, b.String()
}
