package mailer

import (
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// SMTP delivers through a plain SMTP relay.
type SMTP struct {
	addr string // host:port
}

func NewSMTP(host, port string) *SMTP {
	return &SMTP{addr: net.JoinHostPort(host, port)}
}

func (s *SMTP) Send(subject, message, from string, to []string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		from, strings.Join(to, ", "), subject, message)
	return smtp.SendMail(s.addr, nil, from, to, []byte(msg))
}
