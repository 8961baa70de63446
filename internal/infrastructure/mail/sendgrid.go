package mail

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const senderName = "EducTrack"

type SendGridConfig struct {
	APIKey   string
	From     string
	Validity time.Duration
}

// SendGridMailer delivers OTP emails through the SendGrid v3 API.
type SendGridMailer struct {
	send     func(*sgmail.SGMailV3) sendResult
	from     *sgmail.Email
	validity time.Duration
}

type sendResult struct {
	status int
	body   string
	err    error
}

func NewSendGridMailer(cfg SendGridConfig) *SendGridMailer {
	client := sendgrid.NewSendClient(cfg.APIKey)
	return &SendGridMailer{
		send: func(v3 *sgmail.SGMailV3) sendResult {
			res, err := client.Send(v3)
			if err != nil {
				return sendResult{err: err}
			}
			return sendResult{status: res.StatusCode, body: res.Body}
		},
		from:     sgmail.NewEmail(senderName, cfg.From),
		validity: cfg.Validity,
	}
}

func (m *SendGridMailer) SendOTP(ctx context.Context, to, code, role string) error {
	msg, err := RenderOTP(to, code, role, m.validity)
	if err != nil {
		return err
	}

	// The client has no context support, so the caller stops waiting when
	// ctx is done and the request finishes in the background.
	done := make(chan sendResult, 1)
	v3 := m.prepare(msg)
	go func() { done <- m.send(v3) }()

	var res sendResult
	select {
	case <-ctx.Done():
		return fmt.Errorf("sendgrid send to %s: %w", to, ctx.Err())
	case res = <-done:
	}
	if res.err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", to, res.err)
	}
	if res.status >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid send to %s: status %d: %s", to, res.status, res.body)
	}
	return nil
}

func (m *SendGridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail("", msg.To))

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	v3.AddContent(
		sgmail.NewContent("text/plain", msg.Text),
		sgmail.NewContent("text/html", msg.HTML),
	)
	return v3
}
