package config

import (
	"os"
	"time"
)

const (
	sessionSecretVar = "SESSION_SECRET"
	cookieNameVar    = "SESSION_COOKIE_NAME"
	defaultSchemeVar = "SESSION_DEFAULT_SCHEME"
)

type Session struct{}

var _ SessionConfig = Session{}

// GetSessionSecret returns the secret the cookie codec derives its sealing
// key from. The default is only suitable for local development.
func (Session) GetSessionSecret() string {
	return GetEnv(sessionSecretVar, "dev-insecure-session-secret")
}

func (Session) GetCookieName() string {
	return GetEnv(cookieNameVar, "__session")
}

func (Session) GetDefaultScheme() string {
	return GetEnv(defaultSchemeVar, "cookie")
}

func (Session) GetSessionLifetime() time.Duration {
	return 8 * time.Hour
}

func (Session) GetSecureCookies() bool {
	return os.Getenv("ENV") == "PROD"
}
