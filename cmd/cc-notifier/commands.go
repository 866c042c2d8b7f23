package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trentmcnitt/cc-notifier/internal/config"
	"github.com/trentmcnitt/cc-notifier/internal/history"
	"github.com/trentmcnitt/cc-notifier/internal/hook"
	"github.com/trentmcnitt/cc-notifier/internal/logging"
	"github.com/trentmcnitt/cc-notifier/internal/notify"
	"github.com/trentmcnitt/cc-notifier/internal/push"
	"github.com/trentmcnitt/cc-notifier/internal/session"
	"github.com/trentmcnitt/cc-notifier/pkg/detector"
	"github.com/trentmcnitt/cc-notifier/pkg/idle"
	"github.com/trentmcnitt/cc-notifier/pkg/integrations/hammerspoon"
	"github.com/trentmcnitt/cc-notifier/pkg/window"
)

var (
	cfgFile   string
	debugMode bool
)

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	rootCmd := &cobra.Command{
		Use:   "cc-notifier",
		Short: "Session-aware notification hook for Claude Code on macOS",
		Long: "cc-notifier runs as a Claude Code hook. 'init' records the focused\n" +
			"window when a session starts; 'notify' alerts you when a task finishes\n" +
			"while you are on another window, with a click action that jumps back;\n" +
			"'cleanup' purges stale session records.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ~/.config/cc-notifier/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newNotifyCmd())
	rootCmd.AddCommand(newCleanupCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	if err := rootCmd.Execute(); err != nil {
		// A hook must never hang its caller: log, surface a
		// best-effort alert, and get out.
		log.Printf("Command failed: %v", err)
		notifierPath := config.Default().Alert.NotifierPath
		if cfg, cfgErr := config.New(cfgFile); cfgErr == nil {
			notifierPath = cfg.Alert.NotifierPath
		}
		notify.ErrorAlert(notifierPath, logging.Path(), err.Error())
		os.Exit(1)
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Record the focused window for a starting session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			return runInit(cfg)
		},
	}
}

func newNotifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Alert if the user switched away, push if they are idle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			return runNotify(cfg)
		},
	}
}

func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Purge session records and history past the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			return runCleanup(cfg)
		},
	}
}

func newVersionCmd(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cc-notifier version %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

// setup loads config and points logging at the log file.
func setup() (*config.Config, error) {
	if err := logging.Setup(debugMode); err != nil {
		// Keep going on stderr.
		log.Printf("Logging setup failed: %v", err)
	}

	cfg, err := config.New(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	logging.Debugf("Loaded configuration:\n%s", cfg)
	return cfg, nil
}

func runInit(cfg *config.Config) error {
	ev, err := hook.Decode(os.Stdin)
	if err != nil {
		return err
	}

	store := session.NewStore(cfg.Session.Dir)
	mode := detector.DetectMode()

	if mode == detector.ModeRemote {
		// No desktop to return to; the record still anchors the
		// push path and the dedup guard.
		log.Printf("Session %s: remote mode, storing without a window", ev.SessionID)
		return store.Create(ev.SessionID, window.Unknown, "")
	}

	probe := hammerspoon.NewClient(cfg.Window.CLIPath, cfg.Window.ProbeTimeout, cfg.Window.SettleDelay)
	if !probe.Available() {
		return errors.Errorf("Hammerspoon CLI not found at %s", cfg.Window.CLIPath)
	}

	info, err := probe.CurrentWindow(context.Background())
	if err != nil {
		// Missing the window now only costs focus restore later;
		// the unknown sentinel keeps alerts flowing.
		log.Printf("Session %s: window probe failed, storing unknown: %v", ev.SessionID, err)
		return store.Create(ev.SessionID, window.Unknown, "")
	}

	logging.Debugf("Session %s: window %s (%s)", ev.SessionID, info.ID, info.AppPath)
	return store.Create(ev.SessionID, info.ID, info.AppPath)
}

func runNotify(cfg *config.Config) error {
	ev, err := hook.Decode(os.Stdin)
	if err != nil {
		return err
	}

	store := session.NewStore(cfg.Session.Dir)
	rec, err := store.Load(ev.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			log.Printf("Session %s: no record, nothing to compare", ev.SessionID)
			return nil
		}
		return err
	}

	repo := openHistory(cfg)
	var pusher notify.PushSender
	if cfg.Push.Enabled() {
		pusher = push.NewClient(cfg.Push.Token, cfg.Push.UserKey, cfg.Push.Timeout)
	}

	mode := detector.DetectMode()
	probe := hammerspoon.NewClient(cfg.Window.CLIPath, cfg.Window.ProbeTimeout, cfg.Window.SettleDelay)
	dispatcher := notify.NewDispatcher(cfg, store, probe, pusher, repo)

	if mode == detector.ModeDesktop {
		if !probe.Available() {
			return errors.Errorf("Hammerspoon CLI not found at %s", cfg.Window.CLIPath)
		}
		current := window.Unknown
		info, probeErr := probe.CurrentWindow(context.Background())
		if probeErr == nil {
			current = info.ID
		}
		switched := window.SwitchedAway(rec.WindowID, current, probeErr)
		logging.Debugf("Session %s: stored=%s current=%s switched=%v",
			ev.SessionID, rec.WindowID, current, switched)
		dispatcher.MaybeLocal(ev, rec, switched)
	}

	if pusher != nil {
		sampler := detector.NewSampler(mode, cfg.Idle.SampleTimeout)
		schedule := idle.Schedule(cfg.Idle.ScheduleFor(mode == detector.ModeRemote))
		poller := idle.NewPoller(sampler, schedule, cfg.Idle.Slack)
		outcome := poller.Run(context.Background())
		dispatcher.MaybePush(context.Background(), ev, outcome)
	}

	return nil
}

func runCleanup(cfg *config.Config) error {
	// The Stop hook feeds an event here too, but its session id does
	// not reliably match the one init saw, so cleanup ignores it and
	// relies on the age-based purge.
	_, _ = hook.Decode(os.Stdin)

	store := session.NewStore(cfg.Session.Dir)
	removed, err := session.NewReaper(store).PurgeOlderThan(cfg.Session.Retention)
	if err != nil {
		return err
	}
	if removed > 0 {
		log.Printf("Purged %d stale session record(s)", removed)
	}

	if repo := openHistory(cfg); repo != nil {
		cutoff := time.Now().Add(-cfg.Session.Retention)
		if rows, err := repo.DeleteOlderThan(cutoff); err != nil {
			log.Printf("History purge failed: %v", err)
		} else if rows > 0 {
			log.Printf("Purged %d history row(s)", rows)
		}
	}

	return nil
}

// openHistory opens the notification history database, returning nil
// when history is disabled or unavailable. History is never worth
// failing a notification over.
func openHistory(cfg *config.Config) *history.Repository {
	if !cfg.History.Enabled {
		return nil
	}
	db, err := history.Connect(cfg.History.Path)
	if err != nil {
		log.Printf("History unavailable: %v", err)
		return nil
	}
	if err := db.Initialize(); err != nil {
		log.Printf("History schema init failed: %v", err)
		db.Close()
		return nil
	}
	return history.NewRepository(db)
}
