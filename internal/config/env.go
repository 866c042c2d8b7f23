package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override file and default values
func LoadFromEnv(cfg *Config) {
	// Session configuration
	if dir := os.Getenv("CC_NOTIFIER_SESSION_DIR"); dir != "" {
		cfg.Session.Dir = dir
	}
	if days := os.Getenv("CC_NOTIFIER_RETENTION_DAYS"); days != "" {
		if n, err := strconv.Atoi(days); err == nil && n > 0 {
			cfg.Session.Retention = time.Duration(n) * 24 * time.Hour
		}
	}
	if window := os.Getenv("CC_NOTIFIER_DEDUP_WINDOW"); window != "" {
		if d, err := time.ParseDuration(window); err == nil && d > 0 {
			cfg.Session.DedupWindow = d
		}
	}

	// Window configuration
	if cli := os.Getenv("CC_NOTIFIER_HS_CLI"); cli != "" {
		cfg.Window.CLIPath = cli
	}
	if timeout := os.Getenv("CC_NOTIFIER_PROBE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Window.ProbeTimeout = d
		}
	}
	if settle := os.Getenv("CC_NOTIFIER_SETTLE_DELAY"); settle != "" {
		if d, err := time.ParseDuration(settle); err == nil && d > 0 {
			cfg.Window.SettleDelay = d
		}
	}

	// Idle configuration
	if sched := os.Getenv("CC_NOTIFIER_DESKTOP_SCHEDULE"); sched != "" {
		if ds, err := parseSchedule(sched); err == nil {
			cfg.Idle.DesktopSchedule = ds
		}
	}
	if sched := os.Getenv("CC_NOTIFIER_REMOTE_SCHEDULE"); sched != "" {
		if ds, err := parseSchedule(sched); err == nil {
			cfg.Idle.RemoteSchedule = ds
		}
	}
	if slack := os.Getenv("CC_NOTIFIER_IDLE_SLACK"); slack != "" {
		if d, err := time.ParseDuration(slack); err == nil && d >= 0 {
			cfg.Idle.Slack = d
		}
	}

	// Alert configuration
	if notifier := os.Getenv("CC_NOTIFIER_NOTIFIER"); notifier != "" {
		cfg.Alert.NotifierPath = notifier
	}
	if sound := os.Getenv("CC_NOTIFIER_SOUND"); sound != "" {
		cfg.Alert.Sound = sound
	}

	// Push configuration
	if token := os.Getenv("PUSHOVER_API_TOKEN"); token != "" {
		cfg.Push.Token = token
	}
	if user := os.Getenv("PUSHOVER_USER_KEY"); user != "" {
		cfg.Push.UserKey = user
	}
	if url := os.Getenv("CC_NOTIFIER_PUSH_URL"); url != "" {
		cfg.Push.URLTemplate = url
	}

	// History configuration
	if enabled := os.Getenv("CC_NOTIFIER_HISTORY"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.History.Enabled = val
		}
	}
	if path := os.Getenv("CC_NOTIFIER_HISTORY_PATH"); path != "" {
		cfg.History.Path = path
	}
}

// parseSchedule parses a comma-separated duration list like "3s,23s".
func parseSchedule(s string) ([]time.Duration, error) {
	parts := strings.Split(s, ",")
	schedule := make([]time.Duration, 0, len(parts))
	for _, part := range parts {
		d, err := time.ParseDuration(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		schedule = append(schedule, d)
	}
	return schedule, nil
}

// New creates a new Config with default values, merges the config file
// at path (or the default location when path is empty), and applies
// environment overrides.
func New(path string) (*Config, error) {
	cfg := Default()
	if err := LoadFile(cfg, path); err != nil {
		return nil, err
	}
	LoadFromEnv(cfg)
	return cfg, nil
}
