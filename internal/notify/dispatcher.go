package notify

import (
	"context"
	"log"
	"os/exec"
	"time"

	"github.com/trentmcnitt/cc-notifier/internal/config"
	"github.com/trentmcnitt/cc-notifier/internal/history"
	"github.com/trentmcnitt/cc-notifier/internal/hook"
	"github.com/trentmcnitt/cc-notifier/internal/models"
	"github.com/trentmcnitt/cc-notifier/internal/push"
	"github.com/trentmcnitt/cc-notifier/internal/session"
	"github.com/trentmcnitt/cc-notifier/pkg/idle"
	"github.com/trentmcnitt/cc-notifier/pkg/window"
)

// FocusCommander renders the shell command that refocuses a window.
type FocusCommander interface {
	FocusCommandLine(id window.ID) string
}

// PushSender delivers one push notification.
type PushSender interface {
	Send(ctx context.Context, title, message, link string) error
}

// Dispatcher owns the decision to send, and the sending, of both alert
// channels. pusher may be nil (push disabled); repo may be nil (history
// disabled). startCmd is swappable so tests never spawn processes.
type Dispatcher struct {
	cfg      *config.Config
	store    *session.Store
	focus    FocusCommander
	pusher   PushSender
	repo     *history.Repository
	startCmd func(name string, args ...string) error
}

// NewDispatcher wires a dispatcher from its collaborators.
func NewDispatcher(cfg *config.Config, store *session.Store, focus FocusCommander, pusher PushSender, repo *history.Repository) *Dispatcher {
	return &Dispatcher{
		cfg:      cfg,
		store:    store,
		focus:    focus,
		pusher:   pusher,
		repo:     repo,
		startCmd: startDetached,
	}
}

// startDetached launches a subprocess without waiting on it. The hook
// must return to its caller immediately; the alert outlives us.
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// MaybeLocal sends the desktop alert when the user has switched away
// and the dedup guard allows it. The click action, when the stored
// window id is concrete, is the cross-space focus command. Returns
// whether an alert was sent.
func (d *Dispatcher) MaybeLocal(ev *hook.Event, rec *session.Record, switchedAway bool) bool {
	if !switchedAway {
		log.Printf("Session %s: still on original window, no alert", ev.SessionID)
		return false
	}

	ok, err := d.store.ShouldNotify(ev.SessionID, d.cfg.Session.DedupWindow)
	if err != nil {
		log.Printf("Session %s: dedup check failed: %v", ev.SessionID, err)
		return false
	}
	if !ok {
		log.Printf("Session %s: duplicate alert suppressed", ev.SessionID)
		return false
	}

	content := LocalContent(ev)
	args := []string{
		"-title", content.Title,
		"-subtitle", content.Subtitle,
		"-message", content.Message,
		"-sound", d.cfg.Alert.Sound,
		"-ignoreDnD",
	}
	if rec.WindowID.Concrete() {
		args = append(args, "-execute", d.focus.FocusCommandLine(rec.WindowID))
	}

	if err := d.startCmd(d.cfg.Alert.NotifierPath, args...); err != nil {
		log.Printf("Session %s: failed to launch notifier: %v", ev.SessionID, err)
		d.recordError(ev.SessionID, "notifier launch failed: "+err.Error())
		return false
	}

	d.recordNotification(ev, models.ChannelLocal, content)
	log.Printf("Session %s: local alert sent", ev.SessionID)
	return true
}

// MaybePush sends one push notification when idle polling concluded
// the user is away. Provider failure is logged once and never retried.
// Returns whether a push was sent.
func (d *Dispatcher) MaybePush(ctx context.Context, ev *hook.Event, outcome idle.Outcome) bool {
	if outcome != idle.Idle {
		log.Printf("Session %s: user is %s, no push", ev.SessionID, outcome)
		return false
	}
	if d.pusher == nil {
		return false
	}

	content := PushContent(ev, time.Now())
	link := push.ExpandURL(d.cfg.Push.URLTemplate, ev.SessionID, ev.Cwd)
	if err := d.pusher.Send(ctx, content.Title, content.Message, link); err != nil {
		log.Printf("Session %s: push failed: %v", ev.SessionID, err)
		d.recordError(ev.SessionID, "push failed: "+err.Error())
		return false
	}

	d.recordNotification(ev, models.ChannelPush, content)
	log.Printf("Session %s: push sent", ev.SessionID)
	return true
}

func (d *Dispatcher) recordNotification(ev *hook.Event, channel string, content Content) {
	err := d.repo.RecordNotification(&models.Notification{
		SessionID: ev.SessionID,
		Channel:   channel,
		Title:     content.Title,
		Subtitle:  content.Subtitle,
		Message:   content.Message,
		Cwd:       ev.Cwd,
	})
	if err != nil {
		log.Printf("Failed to record notification history: %v", err)
	}
}

func (d *Dispatcher) recordError(sessionID, msg string) {
	if err := d.repo.RecordError(sessionID, msg); err != nil {
		log.Printf("Failed to record error history: %v", err)
	}
}
