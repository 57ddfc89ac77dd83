package repo

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/odvcencio/rig/pkg/object"
)

const (
	configFileName = "config.toml"

	// DefaultAuthorName and DefaultAuthorEmail are the identity used when
	// neither the environment nor config.toml provides one.
	DefaultAuthorName  = "rig"
	DefaultAuthorEmail = "rig@localhost"

	EnvAuthorName  = "RIG_AUTHOR_NAME"
	EnvAuthorEmail = "RIG_AUTHOR_EMAIL"
)

// Config stores repository-local settings.
type Config struct {
	User UserConfig `toml:"user"`
}

// UserConfig is the [user] table of config.toml.
type UserConfig struct {
	Name  string `toml:"name,omitempty"`
	Email string `toml:"email,omitempty"`
}

func (r *Repo) configPath() string {
	return filepath.Join(r.MetaDir, configFileName)
}

// ReadConfig reads .rig/config.toml. Missing config returns an empty config.
func (r *Repo) ReadConfig() (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(r.configPath(), &cfg); err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &cfg, nil
}

// WriteConfig atomically writes .rig/config.toml.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = &Config{}
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := writeFileLocked(r.configPath(), buf.Bytes()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Identity returns the name and email recorded on new commits. Environment
// variables take precedence over config.toml, which takes precedence over
// the built-in default.
func (r *Repo) Identity() (name, email string, err error) {
	cfg, err := r.ReadConfig()
	if err != nil {
		return "", "", err
	}
	name = firstNonEmpty(os.Getenv(EnvAuthorName), cfg.User.Name, DefaultAuthorName)
	email = firstNonEmpty(os.Getenv(EnvAuthorEmail), cfg.User.Email, DefaultAuthorEmail)
	if err := (object.Signature{Name: name, Email: email}).Validate(); err != nil {
		return "", "", fmt.Errorf("identity: %w", err)
	}
	return name, email, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
