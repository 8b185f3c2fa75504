package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"

	"github.com/jimiolaniyan/authflow/auth"
	"github.com/jimiolaniyan/authflow/mailer"
)

const otpTTL = 5 * time.Minute

func main() {
	signingKey := os.Getenv("AUTH_SIGNING_KEY")
	if signingKey == "" {
		log.Fatal("AUTH_SIGNING_KEY must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(envOr("MONGO_URI", "mongodb://127.0.0.1:27017")))
	if err != nil {
		log.Fatal(err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		log.Fatal(err)
	}

	users, err := auth.NewMongoUserRepository(client.Database("authflow").Collection("users"))
	if err != nil {
		log.Fatal(err)
	}

	smtpPort, err := strconv.Atoi(envOr("SMTP_PORT", "587"))
	if err != nil {
		log.Fatal(err)
	}

	m := mailer.NewMailer(mailer.SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     smtpPort,
		Email:    os.Getenv("SMTP_EMAIL"),
		Password: os.Getenv("SMTP_PASSWORD"),
	})
	sender := auth.NewMailCodeSender(m)

	var otp auth.OTPService
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		otp = auth.NewRedisOTPStore(redis.NewClient(&redis.Options{Addr: addr}), sender, otpTTL)
	} else {
		store := auth.NewMemoryOTPStore(sender, otpTTL)
		store.StartSweeping(time.Minute, make(chan struct{}))
		otp = store
	}

	var svc auth.Service
	if os.Getenv("REQUIRE_VERIFIED_SIGNIN") == "true" {
		svc = auth.NewServiceWithVerifiedSignIn(users, otp)
	} else {
		svc = auth.NewService(users, otp)
	}

	issuer := auth.NewJWTIssuer([]byte(signingKey))

	cfg := auth.HandlerConfig{SecureCookies: os.Getenv("APP_ENV") == "production"}
	if os.Getenv("RESPONSE_MODE") == "redirect" {
		cfg.Mode = auth.ResponseRedirect
	}

	router := httprouter.New()
	router.Handler(http.MethodPost, "/register", auth.RegisterHandler(svc, cfg))
	router.Handler(http.MethodPost, "/verify", auth.VerifyHandler(svc, cfg))
	router.Handler(http.MethodPost, "/request-password-reset", auth.RequestPasswordResetHandler(svc, cfg))
	router.Handler(http.MethodPost, "/reset-password", auth.ResetPasswordHandler(svc, cfg))
	router.Handler(http.MethodPost, "/signin", auth.SignInHandler(svc, issuer, cfg))
	router.Handler(http.MethodGet, "/me", auth.RequireAuth(auth.CurrentUserHandler(), issuer))

	port := envOr("PORT", "8090")
	log.Printf("Server started. Listening on port: %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
