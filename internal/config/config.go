package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"idt-crispr-bot/internal/idt"
)

// FileEnv names the optional YAML file with non-secret settings.
const FileEnv = "CRISPR_BOT_CONFIG"

// IDT holds the design service endpoints and credentials.
type IDT struct {
	TokenURL       string        `yaml:"token_url"       env:"IDT_TOKEN_URL"`
	BaseURL        string        `yaml:"base_url"        env:"IDT_API_BASE"`
	Scope          string        `yaml:"scope"           env:"IDT_SCOPE"`
	AuthTimeout    time.Duration `yaml:"auth_timeout"    env:"IDT_AUTH_TIMEOUT"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"IDT_REQUEST_TIMEOUT"`
	ResultCount    int           `yaml:"result_count"    env:"IDT_RESULT_COUNT"`

	ClientID     string `yaml:"-" env:"IDT_CLIENT_ID"`
	ClientSecret string `yaml:"-" env:"IDT_CLIENT_SECRET"`
	Username     string `yaml:"-" env:"IDT_USERNAME"`
	Password     string `yaml:"-" env:"IDT_PASSWORD"`
}

// Slack holds the chat transport tokens.
type Slack struct {
	BotToken string `yaml:"-" env:"SLACK_BOT_TOKEN"`
	AppToken string `yaml:"-" env:"SLACK_APP_TOKEN"`
	Debug    bool   `yaml:"debug" env:"SLACK_DEBUG"`
}

// Runtime is the process configuration, built once at startup.
type Runtime struct {
	IDT         IDT    `yaml:"idt"`
	Slack       Slack  `yaml:"slack"`
	LogLevel    string `yaml:"log_level"    env:"LOG_LEVEL"`
	MetricsAddr string `yaml:"metrics_addr" env:"METRICS_ADDR"`
}

// Defaults returns the built-in settings.
func Defaults() Runtime {
	return Runtime{
		IDT: IDT{
			TokenURL:       idt.DefaultTokenURL,
			BaseURL:        idt.DefaultBaseURL,
			Scope:          "test",
			AuthTimeout:    30 * time.Second,
			RequestTimeout: 60 * time.Second,
			ResultCount:    5,
		},
		LogLevel: "info",
	}
}

// LoadRuntime layers defaults, the optional YAML file and the environment,
// then checks that every credential is present.
func LoadRuntime() (Runtime, error) {
	cfg := Defaults()
	if path := os.Getenv(FileEnv); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Runtime{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Runtime{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Runtime{}, err
	}
	return cfg, nil
}

// LoadFile decodes the YAML file at path over cfg.
func LoadFile(path string, cfg *Runtime) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Validate reports every missing credential at once.
func (c Runtime) Validate() error {
	var missing []string
	for _, v := range []struct {
		name, value string
	}{
		{"SLACK_BOT_TOKEN", c.Slack.BotToken},
		{"SLACK_APP_TOKEN", c.Slack.AppToken},
		{"IDT_CLIENT_ID", c.IDT.ClientID},
		{"IDT_CLIENT_SECRET", c.IDT.ClientSecret},
		{"IDT_USERNAME", c.IDT.Username},
		{"IDT_PASSWORD", c.IDT.Password},
	} {
		if strings.TrimSpace(v.value) == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.IDT.ResultCount <= 0 {
		return errors.New("idt result_count must be positive")
	}
	return nil
}
