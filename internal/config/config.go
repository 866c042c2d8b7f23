// Package config loads and manages cc-notifier configuration.
// Source priority (highest to lowest):
// 1. Environment variables (CC_NOTIFIER_*, PUSHOVER_*)
// 2. Config file (--config flag or ~/.config/cc-notifier/config.yaml)
// 3. Built-in defaults
package config

import (
	"fmt"
	"time"

	"github.com/trentmcnitt/cc-notifier/pkg/idle"
	"github.com/trentmcnitt/cc-notifier/pkg/integrations/hammerspoon"
)

// Config holds all application configuration
type Config struct {
	// Session record storage and dedup behavior
	Session SessionConfig

	// Window probe / focus automation
	Window WindowConfig

	// Idle polling behavior
	Idle IdleConfig

	// Local desktop alerts
	Alert AlertConfig

	// Push notification provider
	Push PushConfig

	// Notification history database
	History HistoryConfig
}

// SessionConfig holds session-record storage configuration
type SessionConfig struct {
	Dir         string        // Directory holding one record file per session
	Retention   time.Duration // Age past which records are purged
	DedupWindow time.Duration // Repeat local alerts within this window are suppressed
}

// WindowConfig holds window-automation configuration
type WindowConfig struct {
	CLIPath      string        // Path to the Hammerspoon CLI binary
	ProbeTimeout time.Duration // Per-call subprocess timeout
	SettleDelay  time.Duration // Post-focus pause inside the click-action script
}

// IdleConfig holds idle-polling configuration
type IdleConfig struct {
	DesktopSchedule []time.Duration // Ascending re-check offsets, desktop mode
	RemoteSchedule  []time.Duration // Ascending re-check offsets, remote mode
	Slack           time.Duration   // Tolerated lag of idle time behind elapsed time
	SampleTimeout   time.Duration   // Per-sample subprocess timeout
}

// AlertConfig holds local-alert configuration
type AlertConfig struct {
	NotifierPath string // Path to the terminal-notifier binary
	Sound        string // Alert sound name
}

// PushConfig holds push-provider configuration
type PushConfig struct {
	Token       string        // Pushover application token
	UserKey     string        // Pushover user key
	URLTemplate string        // Optional deep link; {session_id} and {cwd} are interpolated
	Timeout     time.Duration // HTTP request timeout
}

// Enabled reports whether push credentials are configured. Absence
// disables the push channel entirely; it is not an error.
func (p PushConfig) Enabled() bool {
	return p.Token != "" && p.UserKey != ""
}

// HistoryConfig holds notification-history configuration
type HistoryConfig struct {
	Enabled bool   // Record sent notifications and errors to SQLite
	Path    string // Database path; empty means ~/.cc-notifier/history.db
}

// ScheduleFor returns the idle re-check schedule for the execution mode.
func (c IdleConfig) ScheduleFor(remote bool) []time.Duration {
	if remote {
		return c.RemoteSchedule
	}
	return c.DesktopSchedule
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			Dir:         "/tmp/cc-notifier",
			Retention:   5 * 24 * time.Hour,
			DedupWindow: 2 * time.Second,
		},
		Window: WindowConfig{
			CLIPath:      hammerspoon.DefaultCLIPath,
			ProbeTimeout: hammerspoon.DefaultProbeTimeout,
			SettleDelay:  hammerspoon.DefaultSettleDelay,
		},
		Idle: IdleConfig{
			DesktopSchedule: []time.Duration(idle.DesktopSchedule),
			RemoteSchedule:  []time.Duration(idle.RemoteSchedule),
			Slack:           idle.DefaultSlack,
			SampleTimeout:   5 * time.Second,
		},
		Alert: AlertConfig{
			NotifierPath: "/opt/homebrew/bin/terminal-notifier",
			Sound:        "Glass",
		},
		Push: PushConfig{
			Timeout: 10 * time.Second,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Session.Dir == "" {
		return fmt.Errorf("session directory cannot be empty")
	}
	if c.Session.Retention <= 0 {
		return fmt.Errorf("session retention must be positive, got %v", c.Session.Retention)
	}
	if c.Session.DedupWindow <= 0 {
		return fmt.Errorf("dedup window must be positive, got %v", c.Session.DedupWindow)
	}

	if c.Window.CLIPath == "" {
		return fmt.Errorf("window CLI path cannot be empty")
	}
	if c.Window.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be positive, got %v", c.Window.ProbeTimeout)
	}

	if err := validateSchedule("desktop", c.Idle.DesktopSchedule); err != nil {
		return err
	}
	if err := validateSchedule("remote", c.Idle.RemoteSchedule); err != nil {
		return err
	}
	if c.Idle.Slack < 0 {
		return fmt.Errorf("idle slack cannot be negative")
	}

	if c.Alert.NotifierPath == "" {
		return fmt.Errorf("notifier path cannot be empty")
	}

	if c.Push.Timeout <= 0 {
		return fmt.Errorf("push timeout must be positive, got %v", c.Push.Timeout)
	}

	return nil
}

// validateSchedule requires a non-empty, strictly ascending list of
// positive offsets.
func validateSchedule(name string, schedule []time.Duration) error {
	if len(schedule) == 0 {
		return fmt.Errorf("%s idle schedule cannot be empty", name)
	}
	prev := time.Duration(0)
	for _, d := range schedule {
		if d <= prev {
			return fmt.Errorf("%s idle schedule must be strictly ascending, got %v", name, schedule)
		}
		prev = d
	}
	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Session:
    Dir: %s
    Retention: %v
    Dedup Window: %v
  Window:
    CLI: %s
    Probe Timeout: %v
    Settle Delay: %v
  Idle:
    Desktop Schedule: %v
    Remote Schedule: %v
    Slack: %v
  Alert:
    Notifier: %s
    Sound: %s
  Push:
    Enabled: %v
  History:
    Enabled: %v
    Path: %s`,
		c.Session.Dir,
		c.Session.Retention,
		c.Session.DedupWindow,
		c.Window.CLIPath,
		c.Window.ProbeTimeout,
		c.Window.SettleDelay,
		c.Idle.DesktopSchedule,
		c.Idle.RemoteSchedule,
		c.Idle.Slack,
		c.Alert.NotifierPath,
		c.Alert.Sound,
		c.Push.Enabled(),
		c.History.Enabled,
		c.History.Path,
	)
}
