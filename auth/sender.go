package auth

import (
	"fmt"

	"github.com/jimiolaniyan/authflow/mailer"
)

const codeSubject = "Your verification code"

type mailCodeSender struct {
	mailer mailer.Mailer
}

// NewMailCodeSender delivers issued codes by email.
func NewMailCodeSender(m mailer.Mailer) CodeSender {
	return &mailCodeSender{mailer: m}
}

func (s *mailCodeSender) SendCode(email, code string) error {
	body := fmt.Sprintf("<p>Your verification code is <b>%s</b>. It expires in a few minutes.</p>", code)
	return s.mailer.QuickSend(email, codeSubject, body)
}
