package core

import (
	"net/mail"
	"time"
)

// NewTestConfig returns a fixed Config for tests; nothing is read from
// the environment.
func NewTestConfig() *Config {
	return &Config{
		Env:             "TEST",
		Debug:           true,
		TestMode:        true,
		AppName:         "SchoolNexus",
		Build:           "test",
		SecretKey:       []byte("secret"),
		FrontendBaseURL: "http://localhost:3000",
		DefaultFromEmail: mail.Address{
			Name:    "SchoolNexus",
			Address: "noreply@localhost",
		},
		Server: ServerConfig{
			Host:                      "localhost",
			Port:                      "8000",
			AuthCookieName:            "auth_token",
			JWTExpirationDelta:        24 * time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
			PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
			AuthRequestsPerMinute:     1000,
		},
	}
}
