package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"sync"
	"time"
)

// CodeSender delivers an issued code to its target address out-of-band.
type CodeSender interface {
	SendCode(email, code string) error
}

// OTPService issues one-time codes and validates submissions against the
// most recently issued challenge for an address. A successful Verify
// consumes the challenge; a failed one leaves it outstanding.
type OTPService interface {
	Issue(email string) (string, error)
	Verify(email, code string) bool
}

const otpDigits = 6

type challenge struct {
	code      string
	expiresAt time.Time
}

type memoryOTPStore struct {
	mu         sync.Mutex
	challenges map[string]challenge
	sender     CodeSender
	ttl        time.Duration
	now        func() time.Time
}

func NewMemoryOTPStore(sender CodeSender, ttl time.Duration) *memoryOTPStore {
	return &memoryOTPStore{
		challenges: map[string]challenge{},
		sender:     sender,
		ttl:        ttl,
		now:        time.Now,
	}
}

// StartSweeping drops expired challenges every interval until stop is closed.
func (s *memoryOTPStore) StartSweeping(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-stop:
				return
			}
		}
	}()
}

func (s *memoryOTPStore) sweep() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, c := range s.challenges {
		if now.After(c.expiresAt) {
			delete(s.challenges, email)
		}
	}
}

// Issue replaces any outstanding challenge for email. The challenge is
// discarded if delivery fails, so a code that was never sent can't verify.
func (s *memoryOTPStore) Issue(email string) (string, error) {
	code, err := generateCode(otpDigits)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.challenges[email] = challenge{code: code, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()

	if err := s.sender.SendCode(email, code); err != nil {
		s.mu.Lock()
		delete(s.challenges, email)
		s.mu.Unlock()
		return "", err
	}

	return code, nil
}

func (s *memoryOTPStore) Verify(email, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.challenges[email]
	if !ok {
		return false
	}

	if s.now().After(c.expiresAt) {
		delete(s.challenges, email)
		return false
	}

	if subtle.ConstantTimeCompare([]byte(c.code), []byte(code)) != 1 {
		return false
	}

	delete(s.challenges, email)
	return true
}

func generateCode(digits int) (string, error) {
	max := big.NewInt(10)
	code := make([]byte, digits)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}
