package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "PEERMATCH_"

type cliConfig struct {
	Server struct {
		BaseURL string `koanf:"base_url"`
		Token   string `koanf:"token"`
		Timeout string `koanf:"timeout"`
	} `koanf:"server"`

	User struct {
		ID    string `koanf:"id"`
		Email string `koanf:"email"`
	} `koanf:"user"`

	Replica struct {
		Path    string `koanf:"path"`
		Session string `koanf:"session"`
	} `koanf:"replica"`

	JWT struct {
		Secret    string `koanf:"secret"`
		ExpiresIn string `koanf:"expires_in"`
	} `koanf:"jwt"`

	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

// loadConfig layers defaults, then the TOML file, then PEERMATCH_* env vars.
// PEERMATCH_SERVER_BASE_URL maps to server.base_url: only the first
// underscore after the prefix separates section from key.
func loadConfig(path string) (cliConfig, error) {
	k := koanf.New(".")

	_ = k.Load(confmap.Provider(map[string]interface{}{
		"server.base_url": "http://localhost:8080",
		"server.timeout":  "10s",
		"replica.path":    "peerctl.db",
		"jwt.expires_in":  "15m",
		"log.level":       "warn",
	}, "."), nil)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return cliConfig{}, fmt.Errorf("error loading config: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return cliConfig{}, err
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	}), nil); err != nil {
		return cliConfig{}, fmt.Errorf("error loading env: %w", err)
	}

	var cfg cliConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return cliConfig{}, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return cfg, nil
}

func (c cliConfig) userID() (uuid.UUID, error) {
	raw := strings.TrimSpace(c.User.ID)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("user id is required (--user or %sUSER_ID)", envPrefix)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id %q: %w", raw, err)
	}
	return id, nil
}

func (c cliConfig) timeout() (time.Duration, error) {
	return parseDuration("server.timeout", c.Server.Timeout)
}

func (c cliConfig) tokenTTL() (time.Duration, error) {
	return parseDuration("jwt.expires_in", c.JWT.ExpiresIn)
}

func parseDuration(key, raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

const sampleConfig = `# peerctl configuration

[server]
base_url = "http://localhost:8080"
token = ""
timeout = "10s"

[user]
id = ""
email = ""

[replica]
path = "peerctl.db"
session = ""

[jwt]
secret = ""
expires_in = "15m"

[log]
level = "warn"
`

func initConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists at %s", path)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o600)
}
