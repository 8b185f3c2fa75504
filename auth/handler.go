package auth

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// ResponseMode selects how the handlers report success: a JSON body or a
// redirect to the next page of the flow.
type ResponseMode int

const (
	ResponseJSON ResponseMode = iota
	ResponseRedirect
)

// HandlerConfig carries the deployment choices shared by the auth handlers.
type HandlerConfig struct {
	Mode          ResponseMode
	SecureCookies bool
}

const sessionTokenTTL = time.Hour

func RegisterHandler(svc Service, cfg HandlerConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRegisterRequest(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		email, err := svc.Register(req)
		if err != nil {
			log.Printf("register error for %s: %v", req.Email, err)
			encodeError(err, w)
			return
		}

		if cfg.Mode == ResponseRedirect {
			http.Redirect(w, r, "/verify?email="+url.QueryEscape(email), http.StatusSeeOther)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		encode(w, map[string]interface{}{"msg": "registered, pending verification", "email": email})
	})
}

func VerifyHandler(svc Service, cfg HandlerConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeVerifyRequest(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if err := svc.Verify(req.Email, req.OTP); err != nil {
			log.Printf("verify error for %s: %v", req.Email, err)
			encodeError(err, w)
			return
		}

		if cfg.Mode == ResponseRedirect {
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		encode(w, map[string]interface{}{"msg": "email verified"})
	})
}

func RequestPasswordResetHandler(svc Service, cfg HandlerConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeResetRequestRequest(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		email, err := svc.RequestPasswordReset(req.Email)
		if err != nil {
			log.Printf("request password reset error for %s: %v", req.Email, err)
			encodeError(err, w)
			return
		}

		if cfg.Mode == ResponseRedirect {
			http.Redirect(w, r, "/reset-password?email="+url.QueryEscape(email), http.StatusSeeOther)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		encode(w, map[string]interface{}{"msg": "OTP sent", "email": email})
	})
}

func ResetPasswordHandler(svc Service, cfg HandlerConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeResetPasswordRequest(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if err := svc.ResetPassword(req); err != nil {
			log.Printf("reset password error for %s: %v", req.Email, err)
			encodeError(err, w)
			return
		}

		if cfg.Mode == ResponseRedirect {
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		encode(w, map[string]interface{}{"msg": "password reset"})
	})
}

func SignInHandler(svc Service, issuer TokenIssuer, cfg HandlerConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeSignInRequest(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		claims, err := svc.SignIn(req.Email, req.Password)
		if err != nil {
			log.Printf("signin error for %s: %v", req.Email, err)
			encodeError(err, w)
			return
		}

		token, err := issuer.Sign(claims, sessionTokenTTL)
		if err != nil {
			log.Printf("signin error for %s: signing token: %v", req.Email, err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			encode(w, map[string]interface{}{"error": "server error"})
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "token",
			Value:    token,
			Path:     "/",
			MaxAge:   int(sessionTokenTTL / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
			Secure:   cfg.SecureCookies,
		})

		w.Header().Set("Content-Type", "application/json")
		encode(w, map[string]interface{}{"user": claims})
	})
}

func encode(w http.ResponseWriter, body map[string]interface{}) {
	if err := json.NewEncoder(w).Encode(body); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func encodeError(err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	switch err {
	case ErrPasswordMismatch, ErrInvalidEmail, ErrInvalidPassword, ErrInvalidOTP,
		ErrExistingEmail, ErrNotFound, ErrInvalidCredentials:
		w.WriteHeader(http.StatusBadRequest)
	case ErrAccountNotVerified:
		w.WriteHeader(http.StatusForbidden)
	case ErrOTPDispatch:
		w.WriteHeader(http.StatusInternalServerError)
	default:
		// don't leak store or signing internals to the client
		w.WriteHeader(http.StatusInternalServerError)
		encode(w, map[string]interface{}{"error": "server error"})
		return
	}
	encode(w, map[string]interface{}{"error": err.Error()})
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resetRequestRequest struct {
	Email string `json:"email"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func decodeRegisterRequest(body io.ReadCloser) (registerRequest, error) {
	req := registerRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return registerRequest{}, err
	}
	return req, nil
}

func decodeVerifyRequest(body io.ReadCloser) (verifyRequest, error) {
	req := verifyRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return verifyRequest{}, err
	}
	return req, nil
}

func decodeResetRequestRequest(body io.ReadCloser) (resetRequestRequest, error) {
	req := resetRequestRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return resetRequestRequest{}, err
	}
	return req, nil
}

func decodeResetPasswordRequest(body io.ReadCloser) (resetPasswordRequest, error) {
	req := resetPasswordRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return resetPasswordRequest{}, err
	}
	return req, nil
}

func decodeSignInRequest(body io.ReadCloser) (signInRequest, error) {
	req := signInRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return signInRequest{}, err
	}
	return req, nil
}
