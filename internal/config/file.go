package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with YAML-friendly types; durations are
// strings in time.ParseDuration syntax.
type fileConfig struct {
	Session struct {
		Dir         string `yaml:"dir"`
		Retention   string `yaml:"retention"`
		DedupWindow string `yaml:"dedup_window"`
	} `yaml:"session"`
	Window struct {
		CLIPath      string `yaml:"cli_path"`
		ProbeTimeout string `yaml:"probe_timeout"`
		SettleDelay  string `yaml:"settle_delay"`
	} `yaml:"window"`
	Idle struct {
		DesktopSchedule []string `yaml:"desktop_schedule"`
		RemoteSchedule  []string `yaml:"remote_schedule"`
		Slack           string   `yaml:"slack"`
	} `yaml:"idle"`
	Alert struct {
		NotifierPath string `yaml:"notifier_path"`
		Sound        string `yaml:"sound"`
	} `yaml:"alert"`
	Push struct {
		Token       string `yaml:"token"`
		UserKey     string `yaml:"user_key"`
		URLTemplate string `yaml:"url_template"`
		Timeout     string `yaml:"timeout"`
	} `yaml:"push"`
	History struct {
		Enabled *bool  `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"history"`
}

// DefaultFilePath returns ~/.config/cc-notifier/config.yaml, or empty
// when the home directory cannot be resolved.
func DefaultFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cc-notifier", "config.yaml")
}

// LoadFile merges the YAML config at path onto cfg. With an empty path
// the default location is used and a missing file is not an error; an
// explicitly named file must exist and parse.
func LoadFile(cfg *Config, path string) error {
	explicit := path != ""
	if path == "" {
		path = DefaultFilePath()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read config file %s", path)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}

	applyFile(cfg, &fc)
	return nil
}

// applyFile copies the set fields of fc onto cfg; unparseable
// durations are ignored rather than fatal.
func applyFile(cfg *Config, fc *fileConfig) {
	if fc.Session.Dir != "" {
		cfg.Session.Dir = fc.Session.Dir
	}
	applyDuration(&cfg.Session.Retention, fc.Session.Retention)
	applyDuration(&cfg.Session.DedupWindow, fc.Session.DedupWindow)

	if fc.Window.CLIPath != "" {
		cfg.Window.CLIPath = fc.Window.CLIPath
	}
	applyDuration(&cfg.Window.ProbeTimeout, fc.Window.ProbeTimeout)
	applyDuration(&cfg.Window.SettleDelay, fc.Window.SettleDelay)

	if sched, ok := parseScheduleStrings(fc.Idle.DesktopSchedule); ok {
		cfg.Idle.DesktopSchedule = sched
	}
	if sched, ok := parseScheduleStrings(fc.Idle.RemoteSchedule); ok {
		cfg.Idle.RemoteSchedule = sched
	}
	applyDuration(&cfg.Idle.Slack, fc.Idle.Slack)

	if fc.Alert.NotifierPath != "" {
		cfg.Alert.NotifierPath = fc.Alert.NotifierPath
	}
	if fc.Alert.Sound != "" {
		cfg.Alert.Sound = fc.Alert.Sound
	}

	if fc.Push.Token != "" {
		cfg.Push.Token = fc.Push.Token
	}
	if fc.Push.UserKey != "" {
		cfg.Push.UserKey = fc.Push.UserKey
	}
	if fc.Push.URLTemplate != "" {
		cfg.Push.URLTemplate = fc.Push.URLTemplate
	}
	applyDuration(&cfg.Push.Timeout, fc.Push.Timeout)

	if fc.History.Enabled != nil {
		cfg.History.Enabled = *fc.History.Enabled
	}
	if fc.History.Path != "" {
		cfg.History.Path = fc.History.Path
	}
}

func applyDuration(dst *time.Duration, raw string) {
	if raw == "" {
		return
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		*dst = d
	}
}

func parseScheduleStrings(raw []string) ([]time.Duration, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	schedule := make([]time.Duration, 0, len(raw))
	for _, s := range raw {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, false
		}
		schedule = append(schedule, d)
	}
	return schedule, true
}
