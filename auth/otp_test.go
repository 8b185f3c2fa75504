package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type sentCode struct {
	email, code string
}

type senderSpy struct {
	sent []sentCode
	err  error
}

func (s *senderSpy) SendCode(email, code string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentCode{email, code})
	return nil
}

func (s *senderSpy) lastCode() string {
	if len(s.sent) == 0 {
		return ""
	}
	return s.sent[len(s.sent)-1].code
}

// wrongCode derives a code guaranteed not to match the given one.
func wrongCode(code string) string {
	b := []byte(code)
	if b[0] == '9' {
		b[0] = '0'
	} else {
		b[0]++
	}
	return string(b)
}

func TestIssueDeliversCode(t *testing.T) {
	sender := &senderSpy{}
	store := NewMemoryOTPStore(sender, time.Minute)

	code, err := store.Issue("a@b.com")

	assert.NoError(t, err)
	assert.Len(t, code, otpDigits)
	assert.Equal(t, []sentCode{{"a@b.com", code}}, sender.sent)
}

func TestVerifyConsumesChallengeOnSuccess(t *testing.T) {
	store := NewMemoryOTPStore(&senderSpy{}, time.Minute)
	code, _ := store.Issue("a@b.com")

	assert.True(t, store.Verify("a@b.com", code))
	assert.False(t, store.Verify("a@b.com", code))
}

func TestVerifyLeavesChallengeOnWrongCode(t *testing.T) {
	store := NewMemoryOTPStore(&senderSpy{}, time.Minute)
	code, _ := store.Issue("a@b.com")

	assert.False(t, store.Verify("a@b.com", wrongCode(code)))
	assert.True(t, store.Verify("a@b.com", code))
}

func TestVerifyFailsForUnknownAddress(t *testing.T) {
	store := NewMemoryOTPStore(&senderSpy{}, time.Minute)

	assert.False(t, store.Verify("nobody@b.com", "123456"))
}

func TestVerifyFailsAfterExpiry(t *testing.T) {
	store := NewMemoryOTPStore(&senderSpy{}, time.Minute)
	code, _ := store.Issue("a@b.com")

	issued := time.Now()
	store.now = func() time.Time { return issued.Add(2 * time.Minute) }

	assert.False(t, store.Verify("a@b.com", code))
}

func TestReissueReplacesOutstandingChallenge(t *testing.T) {
	store := NewMemoryOTPStore(&senderSpy{}, time.Minute)
	first, _ := store.Issue("a@b.com")
	second, _ := store.Issue("a@b.com")

	if first != second {
		assert.False(t, store.Verify("a@b.com", first))
	}
	assert.True(t, store.Verify("a@b.com", second))
}

func TestIssueDiscardsChallengeWhenDeliveryFails(t *testing.T) {
	store := NewMemoryOTPStore(&senderSpy{err: errors.New("smtp down")}, time.Minute)

	_, err := store.Issue("a@b.com")

	assert.Error(t, err)
	assert.Empty(t, store.challenges)
}

func TestSweepDropsExpiredChallenges(t *testing.T) {
	store := NewMemoryOTPStore(&senderSpy{}, time.Minute)
	store.Issue("a@b.com")

	issued := time.Now()
	store.now = func() time.Time { return issued.Add(2 * time.Minute) }
	store.sweep()

	assert.Empty(t, store.challenges)
}
