package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	mailermock "github.com/jimiolaniyan/authflow/mailer/mock"
)

func TestMailCodeSenderSendsCodeToAddress(t *testing.T) {
	m := &mailermock.MailerMock{}
	m.On("QuickSend", "a@b.com", codeSubject, mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "123456")
	})).Return(nil)

	err := NewMailCodeSender(m).SendCode("a@b.com", "123456")

	assert.NoError(t, err)
	m.AssertExpectations(t)
}

func TestMailCodeSenderPropagatesDeliveryError(t *testing.T) {
	m := &mailermock.MailerMock{}
	m.On("QuickSend", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	err := NewMailCodeSender(m).SendCode("a@b.com", "123456")

	assert.Error(t, err)
}
