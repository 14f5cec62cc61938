package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTP sends plain-text mail through a single relay. Auth is optional;
// many internal relays accept unauthenticated submission.
type SMTP struct {
	Addr     string // host:port
	From     string
	Username string
	Password string

	// send is swappable in tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(addr, from, username, password string) *SMTP {
	return &SMTP{
		Addr:     addr,
		From:     from,
		Username: username,
		Password: password,
		send:     smtp.SendMail,
	}
}

func (s *SMTP) Send(ctx context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return errors.New("smtp: no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.Username != "" {
		host := s.Addr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", s.Username, s.Password, host)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.From, strings.Join(recipients, ", "), subject, body)

	return s.send(s.Addr, auth, s.From, recipients, []byte(msg))
}
