package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Addr                string `mapstructure:"addr"`
	ShutdownTimeoutSecs int    `mapstructure:"shutdown_timeout_secs"`
}

func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSecs) * time.Second
}

// VoiceConfig binds the hosted voice-agent account. PublicKey is the
// browser-safe project key, never the private API key.
type VoiceConfig struct {
	PublicKey          string `mapstructure:"public_key"`
	AssistantID        string `mapstructure:"assistant_id"`
	BaseURL            string `mapstructure:"base_url"`
	RequestTimeoutSecs int    `mapstructure:"request_timeout_secs"`
	StopTimeoutSecs    int    `mapstructure:"stop_timeout_secs"`
}

func (v VoiceConfig) RequestTimeout() time.Duration {
	return time.Duration(v.RequestTimeoutSecs) * time.Second
}

func (v VoiceConfig) StopTimeout() time.Duration {
	return time.Duration(v.StopTimeoutSecs) * time.Second
}

type Settings struct {
	Server ServerConfig `mapstructure:"server"`
	Voice  VoiceConfig  `mapstructure:"voice"`
	Env    string       `mapstructure:"env"`
	Debug  bool         `mapstructure:"debug"`
}

func (s *Settings) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Voice.PublicKey) == "" {
		missing = append(missing, "voice.public_key (VOICE_PUBLIC_KEY)")
	}
	if strings.TrimSpace(s.Voice.AssistantID) == "" {
		missing = append(missing, "voice.assistant_id (VOICE_ASSISTANT_ID)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	if s.Voice.RequestTimeoutSecs <= 0 || s.Voice.StopTimeoutSecs <= 0 {
		return fmt.Errorf("voice timeouts must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("debug", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout_secs", 5)
	v.SetDefault("voice.public_key", "")
	v.SetDefault("voice.assistant_id", "")
	v.SetDefault("voice.base_url", "https://api.vapi.ai")
	v.SetDefault("voice.request_timeout_secs", 15)
	v.SetDefault("voice.stop_timeout_secs", 5)
}

// Load resolves settings from, lowest priority first: defaults,
// config_<env>.yaml, environment (after .env), command line flags.
func Load(args []string) (*Settings, error) {
	flags := pflag.NewFlagSet("callpad", pflag.ContinueOnError)
	envFile := flags.StringP("env-file", "e", ".env", "Env file path")
	configDir := flags.StringP("config-dir", "c", ".", "Directory holding config_<env>.yaml")
	flags.StringP("addr", "a", ":8080", "Listen address")
	flags.Bool("debug", false, "Development logging")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", *envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlag("server.addr", flags.Lookup("addr")); err != nil {
		return nil, fmt.Errorf("failed to bind flag: %w", err)
	}
	if err := v.BindPFlag("debug", flags.Lookup("debug")); err != nil {
		return nil, fmt.Errorf("failed to bind flag: %w", err)
	}

	v.SetConfigName("config_" + genEnv(v))
	v.AddConfigPath(*configDir)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

func genEnv(v *viper.Viper) string {
	env := v.GetString("env")
	if env == "" {
		return "dev"
	}
	return env
}
