package auth

import (
	"log"
	"time"
)

type Service interface {
	Register(req registerRequest) (string, error)
	Verify(email, otp string) error
	RequestPasswordReset(email string) (string, error)
	ResetPassword(req resetPasswordRequest) error
	SignIn(email, password string) (SessionClaims, error)
}

type service struct {
	users Repository
	otp   OTPService

	// requireVerified gates sign-in on a completed email verification.
	requireVerified bool
}

func NewService(users Repository, otp OTPService) Service {
	return &service{users: users, otp: otp}
}

// NewServiceWithVerifiedSignIn is NewService with unverified accounts
// rejected at sign-in.
func NewServiceWithVerifiedSignIn(users Repository, otp OTPService) Service {
	return &service{users: users, otp: otp, requireVerified: true}
}

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name,omitempty"`
	Role            string `json:"role,omitempty"`
}

type resetPasswordRequest struct {
	Email              string `json:"email"`
	OTP                string `json:"otp"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// Register stores an unverified user and dispatches a verification code.
// The two effects are all-or-nothing: a dispatch failure deletes the user
// again so no unverifiable record is left behind.
func (svc *service) Register(req registerRequest) (string, error) {
	if req.Password != req.ConfirmPassword {
		return "", ErrPasswordMismatch
	}

	user, err := NewUser(req.Email, req.Name, req.Role)
	if err != nil {
		return "", err
	}

	if len(req.Password) < 8 {
		return "", ErrInvalidPassword
	}

	if u, err := svc.users.FindByEmail(req.Email); u != nil && err == nil {
		return "", ErrExistingEmail
	}

	user.ID = NewID()
	hash, err := hashPassword(req.Password)
	if err != nil {
		return "", err
	}
	user.Password = hash
	user.CreatedAt = time.Now().UTC()

	if err := svc.users.Store(user); err != nil {
		return "", err
	}

	if _, err := svc.otp.Issue(user.Email); err != nil {
		log.Printf("register: error sending OTP to %s: %v", user.Email, err)
		if derr := svc.users.Delete(user.ID); derr != nil {
			// the original dispatch failure is still what the caller sees
			log.Printf("register: error deleting unverifiable user %s: %v", user.Email, derr)
		}
		return "", ErrOTPDispatch
	}

	return user.Email, nil
}

func (svc *service) Verify(email, otp string) error {
	if !svc.otp.Verify(email, otp) {
		return ErrInvalidOTP
	}

	user, err := svc.users.FindByEmail(email)
	if err != nil {
		return err
	}

	if user.Verified {
		return nil
	}

	user.Verified = true
	return svc.users.Update(user)
}

func (svc *service) RequestPasswordReset(email string) (string, error) {
	if _, err := svc.users.FindByEmail(email); err != nil {
		return "", err
	}

	if _, err := svc.otp.Issue(email); err != nil {
		log.Printf("request password reset: error sending OTP to %s: %v", email, err)
		return "", ErrOTPDispatch
	}

	return email, nil
}

func (svc *service) ResetPassword(req resetPasswordRequest) error {
	if req.NewPassword != req.ConfirmNewPassword {
		return ErrPasswordMismatch
	}

	if len(req.NewPassword) < 8 {
		return ErrInvalidPassword
	}

	if !svc.otp.Verify(req.Email, req.OTP) {
		return ErrInvalidOTP
	}

	user, err := svc.users.FindByEmail(req.Email)
	if err != nil {
		return err
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hash
	return svc.users.Update(user)
}

// SignIn deliberately returns the same error for an unknown email and a
// wrong password so callers can't enumerate accounts.
func (svc *service) SignIn(email, password string) (SessionClaims, error) {
	user, err := svc.users.FindByEmail(email)
	if err != nil {
		return SessionClaims{}, ErrInvalidCredentials
	}

	if !hashMatchesPassword(user.Password, password) {
		return SessionClaims{}, ErrInvalidCredentials
	}

	if svc.requireVerified && !user.Verified {
		return SessionClaims{}, ErrAccountNotVerified
	}

	return SessionClaims{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}
