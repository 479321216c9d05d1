package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port            int
	GroupID         int64
	RobloxCookie    string
	SecretKey       string
	GinMode         string
	LogLevel        string
	FilterGuestRole bool
	TLSCertFile     string
	TLSKeyFile      string
}

type Env interface {
	Getenv(key string) string
}

type osEnv struct{}

func (osEnv) Getenv(key string) string { return os.Getenv(key) }

func LoadConfig() (Config, error) {
	return LoadConfigFromEnv(osEnv{})
}

func LoadConfigFromEnv(env Env) (Config, error) {
	cfg := Config{
		Port:            3000,
		GinMode:         "release",
		LogLevel:        "info",
		FilterGuestRole: true,
	}

	if raw := env.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT")
		}
		cfg.Port = port
	}

	raw := env.Getenv("GROUP_ID")
	if raw == "" {
		return Config{}, fmt.Errorf("GROUP_ID is required")
	}
	groupID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || groupID <= 0 {
		return Config{}, fmt.Errorf("invalid GROUP_ID")
	}
	cfg.GroupID = groupID

	cfg.RobloxCookie = env.Getenv("ROBLOX_COOKIE")
	if cfg.RobloxCookie == "" {
		return Config{}, fmt.Errorf("ROBLOX_COOKIE is required")
	}

	cfg.SecretKey = env.Getenv("SECRET_KEY")
	if cfg.SecretKey == "" {
		return Config{}, fmt.Errorf("SECRET_KEY is required")
	}

	if raw := env.Getenv("GIN_MODE"); raw != "" {
		cfg.GinMode = raw
	}

	if raw := env.Getenv("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = raw
	}

	if raw := env.Getenv("FILTER_GUEST_ROLE"); raw != "" {
		filter, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FILTER_GUEST_ROLE")
		}
		cfg.FilterGuestRole = filter
	}

	cfg.TLSCertFile = env.Getenv("TLS_CERT_FILE")
	cfg.TLSKeyFile = env.Getenv("TLS_KEY_FILE")

	return cfg, nil
}
