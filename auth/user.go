package auth

import (
	"errors"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rs/xid"
)

// RoleUser is the role assigned to accounts that register without one.
const RoleUser = "user"

type ID string

// User is the credential record owned by the auth flow. Password always
// holds a bcrypt hash, never the cleartext.
type User struct {
	ID        ID `bson:"_id"`
	Email     string
	Password  string
	Name      string
	Role      string
	Verified  bool
	CreatedAt time.Time
}

var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrExistingEmail      = errors.New("user already exists")
	ErrNotFound           = errors.New("user does not exist")
	ErrInvalidOTP         = errors.New("invalid OTP")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotVerified = errors.New("account not verified")
	ErrOTPDispatch        = errors.New("error sending OTP, please try again")
)

type Repository interface {
	FindByID(id ID) (*User, error)
	FindByEmail(email string) (*User, error)
	Store(u *User) error
	Update(u *User) error
	Delete(id ID) error
}

var emailRegexp = regexp.MustCompile(`^\S+@\S+\.\S+$`)

//NewUser validates the email and returns an unverified User carrying the
// default role when none is given
func NewUser(email, name, role string) (*User, error) {
	if !emailRegexp.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	if role == "" {
		role = RoleUser
	}

	return &User{Email: email, Name: name, Role: role}, nil
}

func NewID() ID {
	return ID(xid.New().String())
}

func isValidID(id string) bool {
	if _, err := xid.FromString(id); err != nil {
		return false
	}
	return true
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", errors.New("error hashing password")
	}
	return string(hash), nil
}

func hashMatchesPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
