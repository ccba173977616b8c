// Package email delivers the planner's transactional mail (password reset links).
package email

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"
)

// SendRequest is one outgoing message. From and ReplyTo fall back to the sender's defaults.
type SendRequest struct {
	To      []string
	From    string
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult is the provider's acknowledgement.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

var (
	ErrNoRecipients = errors.New("email has no recipients")
	ErrNoSubject    = errors.New("email has no subject")
)

// Validate reports requests no provider would accept. Such requests are never retried.
func (r SendRequest) Validate() error {
	if len(r.To) == 0 {
		return ErrNoRecipients
	}
	if r.Subject == "" {
		return ErrNoSubject
	}
	return nil
}

// PasswordResetMessage builds the reset email for a couple. The link is escaped into the body.
func PasswordResetMessage(to, coupleName, link string) SendRequest {
	name := coupleName
	if name == "" {
		name = "there"
	}
	return SendRequest{
		To:      []string{to},
		Subject: "Reset your wedding planner password",
		HTML: fmt.Sprintf(
			`<p>Hi %s,</p><p>Use the link below to choose a new password. It expires in one hour.</p><p><a href="%s">%s</a></p>`,
			html.EscapeString(name), html.EscapeString(link), html.EscapeString(link),
		),
	}
}
