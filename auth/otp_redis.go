package auth

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisOTPStore keeps challenges in redis with a TTL, for deployments
// running more than one instance of the service.
type redisOTPStore struct {
	client redis.UniversalClient
	sender CodeSender
	ttl    time.Duration
	prefix string
}

func NewRedisOTPStore(client redis.UniversalClient, sender CodeSender, ttl time.Duration) *redisOTPStore {
	return &redisOTPStore{client: client, sender: sender, ttl: ttl, prefix: "otp"}
}

func (s *redisOTPStore) key(email string) string {
	return s.prefix + ":" + email
}

func (s *redisOTPStore) Issue(email string) (string, error) {
	code, err := generateCode(otpDigits)
	if err != nil {
		return "", err
	}

	if err := s.client.Set(context.TODO(), s.key(email), code, s.ttl).Err(); err != nil {
		return "", err
	}

	if err := s.sender.SendCode(email, code); err != nil {
		s.client.Del(context.TODO(), s.key(email))
		return "", err
	}

	return code, nil
}

func (s *redisOTPStore) Verify(email, code string) bool {
	stored, err := s.client.Get(context.TODO(), s.key(email)).Result()
	if err != nil {
		return false
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false
	}

	s.client.Del(context.TODO(), s.key(email))
	return true
}
