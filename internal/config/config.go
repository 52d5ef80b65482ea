package config

import "time"

type Config interface {
	EnvConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type SessionConfig interface {
	GetSessionSecret() string
	GetCookieName() string
	GetDefaultScheme() string
	GetSessionLifetime() time.Duration
	GetSecureCookies() bool
}

type mainConfig struct {
	EnvVars
	Session
}

func New() Config {
	return mainConfig{}
}
