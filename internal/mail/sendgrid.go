// Package mail delivers transactional emails through the SendGrid v3 API.
package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/adanyl0v/task-manager/internal/config"
)

const sendEndpoint = "/v3/mail/send"

type Message struct {
	ToAddress string
	ToName    string
	Subject   string
	Text      string
}

type SendGridMailer struct {
	apiKey  string
	apiHost string
	from    *sgmail.Email
}

// NewSendGridMailer builds a mailer from cfg. An empty cfg.APIHost means
// the public SendGrid API.
func NewSendGridMailer(cfg config.MailConfig) *SendGridMailer {
	return &SendGridMailer{
		apiKey:  cfg.SendGridKey,
		apiHost: cfg.APIHost,
		from:    sgmail.NewEmail(cfg.FromName, cfg.FromAddress),
	}
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	email := sgmail.NewSingleEmail(
		m.from,
		msg.Subject,
		sgmail.NewEmail(msg.ToName, msg.ToAddress),
		msg.Text,
		"",
	)

	request := sendgrid.GetRequest(m.apiKey, sendEndpoint, m.apiHost)
	request.Method = rest.Post
	request.Body = sgmail.GetRequestBody(email)

	resp, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("failed to send email: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
