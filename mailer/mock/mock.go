package mock

import (
	"github.com/stretchr/testify/mock"
)

type MailerMock struct {
	mock.Mock
}

func (m *MailerMock) QuickSend(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}
