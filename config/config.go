// Package config loads engine configuration from an optional YAML file with
// environment variable overrides on top.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"ussd-loan-engine/shared"
)

// Config aggregates application configuration values.
type Config struct {
	Temporal TemporalConfig `yaml:"temporal"`
	Channels ChannelsConfig `yaml:"channels"`
	Loan     LoanConfig     `yaml:"loan"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TemporalConfig describes connectivity to the Temporal server.
type TemporalConfig struct {
	HostPort  string `yaml:"hostPort"`
	Namespace string `yaml:"namespace"`
}

// ChannelsConfig holds the provider-side addressing numbers.
type ChannelsConfig struct {
	SMSShortCode string `yaml:"smsShortCode"`
	VoiceNumber  string `yaml:"voiceNumber"`
	MpesaPaybill string `yaml:"mpesaPaybill"`
	UssdCode     string `yaml:"ussdCode"`
}

// LoanConfig governs disbursement and reminder timing.
type LoanConfig struct {
	PurseID          string   `yaml:"purseId"`
	ReminderLead     Duration `yaml:"reminderLead"`
	ReminderInterval Duration `yaml:"reminderInterval"`
}

// Duration is a time.Duration that unmarshals from YAML duration strings
// ("72h", "30m") as well as plain nanosecond integers.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(n)
		return nil
	}
	return fmt.Errorf("invalid duration value at line %d", value.Line)
}

// AsDuration returns the value as a time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text|json
}

const (
	defaultUssdCode = "*384*XX#"
	defaultLogLevel = "info"
	defaultLogFmt   = "text"
)

// Load builds the configuration: defaults, then the YAML file at path (if
// non-empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := Config{
		Channels: ChannelsConfig{UssdCode: defaultUssdCode},
		Loan: LoanConfig{
			ReminderLead:     Duration(shared.DefaultReminderLead),
			ReminderInterval: Duration(shared.DefaultReminderInterval),
		},
		Logging: LoggingConfig{Level: defaultLogLevel, Format: defaultLogFmt},
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setIfPresent(&cfg.Temporal.HostPort, "TEMPORAL_HOSTPORT")
	setIfPresent(&cfg.Temporal.Namespace, "TEMPORAL_NAMESPACE")
	setIfPresent(&cfg.Channels.SMSShortCode, "SMS_SHORT_CODE")
	setIfPresent(&cfg.Channels.VoiceNumber, "VOICE_NUMBER")
	setIfPresent(&cfg.Channels.MpesaPaybill, "MPESA_PAYBILL")
	setIfPresent(&cfg.Channels.UssdCode, "USSD_CODE")
	setIfPresent(&cfg.Loan.PurseID, "PURSE_ID")
	setDurationIfPresent(&cfg.Loan.ReminderLead, "REMINDER_LEAD")
	setDurationIfPresent(&cfg.Loan.ReminderInterval, "REMINDER_INTERVAL")
	setIfPresent(&cfg.Logging.Level, "LOG_LEVEL")
	setIfPresent(&cfg.Logging.Format, "LOG_FORMAT")
}

func setIfPresent(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDurationIfPresent(dst *Duration, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		*dst = Duration(d)
	}
}

// SMSChannel returns the configured SMS delivery channel.
func (c ChannelsConfig) SMSChannel() shared.Channel {
	return shared.Channel{Number: c.SMSShortCode, Kind: shared.ChannelSMS}
}

// VoiceChannel returns the configured voice delivery channel.
func (c ChannelsConfig) VoiceChannel() shared.Channel {
	return shared.Channel{Number: c.VoiceNumber, Kind: shared.ChannelVoice}
}

// MpesaChannel returns the configured payment disbursement channel.
func (c ChannelsConfig) MpesaChannel() shared.Channel {
	return shared.Channel{Number: c.MpesaPaybill, Kind: shared.ChannelCellular}
}
