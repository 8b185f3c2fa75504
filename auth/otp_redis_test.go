package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newTestRedisStore(t *testing.T, sender CodeSender) (*redisOTPStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisOTPStore(client, sender, time.Minute), mr
}

func TestRedisIssueDeliversCode(t *testing.T) {
	sender := &senderSpy{}
	store, _ := newTestRedisStore(t, sender)

	code, err := store.Issue("a@b.com")

	assert.NoError(t, err)
	assert.Len(t, code, otpDigits)
	assert.Equal(t, []sentCode{{"a@b.com", code}}, sender.sent)
}

func TestRedisVerifyConsumesChallengeOnSuccess(t *testing.T) {
	store, _ := newTestRedisStore(t, &senderSpy{})
	code, _ := store.Issue("a@b.com")

	assert.True(t, store.Verify("a@b.com", code))
	assert.False(t, store.Verify("a@b.com", code))
}

func TestRedisVerifyLeavesChallengeOnWrongCode(t *testing.T) {
	store, _ := newTestRedisStore(t, &senderSpy{})
	code, _ := store.Issue("a@b.com")

	assert.False(t, store.Verify("a@b.com", wrongCode(code)))
	assert.True(t, store.Verify("a@b.com", code))
}

func TestRedisVerifyFailsAfterExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t, &senderSpy{})
	code, _ := store.Issue("a@b.com")

	mr.FastForward(2 * time.Minute)

	assert.False(t, store.Verify("a@b.com", code))
}

func TestRedisIssueDiscardsChallengeWhenDeliveryFails(t *testing.T) {
	store, mr := newTestRedisStore(t, &senderSpy{err: errors.New("smtp down")})

	_, err := store.Issue("a@b.com")

	assert.Error(t, err)
	assert.False(t, mr.Exists("otp:a@b.com"))
}
