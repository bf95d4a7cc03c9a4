// Package config provides configuration loading, validation, and defaults
// for the ankety bot. Configuration is read from a YAML file and ANKETY_*
// environment variables, with defaults applied for optional values.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration for all components:
// logging, Telegram transport, the user registry database, the Google
// Sheets sink, broadcasts, and scheduled tasks.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Sheets    SheetsConfig    `mapstructure:"sheets"`
	Broadcast BroadcastConfig `mapstructure:"broadcast"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls log verbosity and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and the operator allow-list.
// Only users in AdminIDs may trigger broadcasts.
type TelegramConfig struct {
	Token    string  `mapstructure:"token"     validate:"required"`
	AdminIDs []int64 `mapstructure:"admin_ids" validate:"required,min=1"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// SheetsConfig identifies the target spreadsheet and the service account
// credentials used to access it.
type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"   validate:"required"`
	CredentialsPath string `mapstructure:"credentials_path" validate:"required"`
}

// BroadcastConfig controls broadcast pacing. SendDelay is the minimum
// pause between consecutive sends to respect Telegram rate limits.
type BroadcastConfig struct {
	SendDelay time.Duration `mapstructure:"send_delay" validate:"min=0"`
}

// SchedulerConfig holds the scheduled task table keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a named task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// MessagesConfig holds every user-facing text the bot sends. All texts
// default to the Russian originals and can be overridden in config.yaml.
type MessagesConfig struct {
	Welcome          string `mapstructure:"welcome"`
	MenuPrompt       string `mapstructure:"menu_prompt"`
	Help             string `mapstructure:"help"`
	ConsentPrompt    string `mapstructure:"consent_prompt"`
	ConsentAccepted  string `mapstructure:"consent_accepted"`
	ConsentDeclined  string `mapstructure:"consent_declined"`
	ConsentUseButton string `mapstructure:"consent_use_button"`
	FormIntro        string `mapstructure:"form_intro"`
	FormSaving       string `mapstructure:"form_saving"`
	FormSaved        string `mapstructure:"form_saved"`
	FormSaveFailed   string `mapstructure:"form_save_failed"`
	CancelDone       string `mapstructure:"cancel_done"`
	CancelNothing    string `mapstructure:"cancel_nothing"`
	BroadcastPrompt  string `mapstructure:"broadcast_prompt"`
	BroadcastCancel  string `mapstructure:"broadcast_cancel"`
	BroadcastStarted string `mapstructure:"broadcast_started"`
	BroadcastDone    string `mapstructure:"broadcast_done"`
	BroadcastNoUsers string `mapstructure:"broadcast_no_users"`
	NotAuthorized    string `mapstructure:"not_authorized"`
}

// LoadConfig loads and validates configuration from:
// 1. Default values
// 2. The YAML file at configPath
// 3. ANKETY_* environment variables
//
// A missing config file is allowed (defaults plus environment are used),
// but validation failures are fatal: the process must not start without a
// bot token, spreadsheet identity, credentials, and a non-empty admin list.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("ANKETY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay, defaults and env remain.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
