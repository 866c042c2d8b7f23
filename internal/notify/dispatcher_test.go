package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/trentmcnitt/cc-notifier/internal/config"
	"github.com/trentmcnitt/cc-notifier/internal/hook"
	"github.com/trentmcnitt/cc-notifier/internal/session"
	"github.com/trentmcnitt/cc-notifier/pkg/idle"
	"github.com/trentmcnitt/cc-notifier/pkg/window"
)

type mockFocus struct {
	lastID window.ID
}

func (m *mockFocus) FocusCommandLine(id window.ID) string {
	m.lastID = id
	return "hs -c 'focus " + string(id) + "'"
}

type mockPusher struct {
	calls int
	err   error
	title string
}

func (m *mockPusher) Send(ctx context.Context, title, message, link string) error {
	m.calls++
	m.title = title
	return m.err
}

type launchRecorder struct {
	calls int
	name  string
	args  []string
	err   error
}

func (l *launchRecorder) start(name string, args ...string) error {
	l.calls++
	l.name = name
	l.args = args
	return l.err
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *session.Store, *launchRecorder, *mockFocus) {
	t.Helper()
	cfg := config.Default()
	cfg.Session.Dir = t.TempDir()
	store := session.NewStore(cfg.Session.Dir)
	focus := &mockFocus{}
	launcher := &launchRecorder{}

	d := NewDispatcher(cfg, store, focus, nil, nil)
	d.startCmd = launcher.start
	return d, store, launcher, focus
}

func testEvent() *hook.Event {
	return &hook.Event{
		SessionID:     "sess-1",
		Cwd:           "/home/me/my-project",
		HookEventName: hook.EventStop,
	}
}

func hasArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestMaybeLocalSameWindow(t *testing.T) {
	d, store, launcher, _ := newTestDispatcher(t)
	if err := store.Create("sess-1", window.ID("42"), "/app"); err != nil {
		t.Fatal(err)
	}
	rec, _ := store.Load("sess-1")

	if sent := d.MaybeLocal(testEvent(), rec, false); sent {
		t.Error("MaybeLocal() = true without a switch away")
	}
	if launcher.calls != 0 {
		t.Errorf("notifier launched %d times, want 0", launcher.calls)
	}
}

func TestMaybeLocalSwitchedAway(t *testing.T) {
	d, store, launcher, focus := newTestDispatcher(t)
	if err := store.Create("sess-1", window.ID("42"), "/app"); err != nil {
		t.Fatal(err)
	}
	rec, _ := store.Load("sess-1")

	if sent := d.MaybeLocal(testEvent(), rec, true); !sent {
		t.Fatal("MaybeLocal() = false, want true")
	}
	if launcher.calls != 1 {
		t.Fatalf("notifier launched %d times, want 1", launcher.calls)
	}

	if got := argAfter(launcher.args, "-subtitle"); got != "my-project" {
		t.Errorf("subtitle = %s, want my-project", got)
	}
	if got := argAfter(launcher.args, "-message"); got != "Completed task" {
		t.Errorf("message = %s, want Completed task", got)
	}
	if !hasArg(launcher.args, "-ignoreDnD") {
		t.Error("missing -ignoreDnD")
	}
	if got := argAfter(launcher.args, "-execute"); got == "" {
		t.Error("missing -execute click action for concrete window id")
	}
	if focus.lastID != window.ID("42") {
		t.Errorf("focus command built for %s, want 42", focus.lastID)
	}
}

func TestMaybeLocalUnknownWindowNoClickAction(t *testing.T) {
	d, store, launcher, _ := newTestDispatcher(t)
	if err := store.Create("sess-1", window.Unknown, ""); err != nil {
		t.Fatal(err)
	}
	rec, _ := store.Load("sess-1")

	if sent := d.MaybeLocal(testEvent(), rec, true); !sent {
		t.Fatal("MaybeLocal() = false, want true")
	}
	if hasArg(launcher.args, "-execute") {
		t.Error("click action bound for unknown window id")
	}
}

func TestMaybeLocalDedup(t *testing.T) {
	d, store, launcher, _ := newTestDispatcher(t)
	if err := store.Create("sess-1", window.ID("42"), "/app"); err != nil {
		t.Fatal(err)
	}
	rec, _ := store.Load("sess-1")

	if sent := d.MaybeLocal(testEvent(), rec, true); !sent {
		t.Fatal("first MaybeLocal() = false, want true")
	}
	if sent := d.MaybeLocal(testEvent(), rec, true); sent {
		t.Error("second MaybeLocal() within dedup window = true, want false")
	}
	if launcher.calls != 1 {
		t.Errorf("notifier launched %d times, want 1", launcher.calls)
	}
}

func TestMaybeLocalNotificationMessage(t *testing.T) {
	d, store, launcher, _ := newTestDispatcher(t)
	if err := store.Create("sess-1", window.ID("42"), "/app"); err != nil {
		t.Fatal(err)
	}
	rec, _ := store.Load("sess-1")

	ev := testEvent()
	ev.HookEventName = hook.EventNotification
	ev.Message = "Claude needs your permission"

	if sent := d.MaybeLocal(ev, rec, true); !sent {
		t.Fatal("MaybeLocal() = false, want true")
	}
	if got := argAfter(launcher.args, "-message"); got != "Claude needs your permission" {
		t.Errorf("message = %s, want hook message", got)
	}
}

func TestMaybeLocalLaunchFailure(t *testing.T) {
	d, store, launcher, _ := newTestDispatcher(t)
	launcher.err = errors.New("no such binary")
	if err := store.Create("sess-1", window.ID("42"), "/app"); err != nil {
		t.Fatal(err)
	}
	rec, _ := store.Load("sess-1")

	if sent := d.MaybeLocal(testEvent(), rec, true); sent {
		t.Error("MaybeLocal() = true despite launch failure")
	}
}

func TestMaybePushOnlyWhenIdle(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)
	pusher := &mockPusher{}
	d.pusher = pusher

	if sent := d.MaybePush(context.Background(), testEvent(), idle.Active); sent {
		t.Error("MaybePush(Active) = true, want false")
	}
	if pusher.calls != 0 {
		t.Errorf("pusher called %d times for Active, want 0", pusher.calls)
	}

	if sent := d.MaybePush(context.Background(), testEvent(), idle.Idle); !sent {
		t.Error("MaybePush(Idle) = false, want true")
	}
	if pusher.calls != 1 {
		t.Errorf("pusher called %d times, want 1", pusher.calls)
	}
}

func TestMaybePushTitleCarriesClock(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)
	pusher := &mockPusher{}
	d.pusher = pusher

	if sent := d.MaybePush(context.Background(), testEvent(), idle.Idle); !sent {
		t.Fatal("MaybePush() = false, want true")
	}
	want := "my-project" + time.Now().Format(" [3:04 PM]")
	if pusher.title != want {
		t.Errorf("push title = %s, want %s", pusher.title, want)
	}
}

func TestMaybePushDisabled(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)

	if sent := d.MaybePush(context.Background(), testEvent(), idle.Idle); sent {
		t.Error("MaybePush() = true with nil pusher")
	}
}

func TestMaybePushProviderFailure(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)
	pusher := &mockPusher{err: errors.New("invalid token")}
	d.pusher = pusher

	if sent := d.MaybePush(context.Background(), testEvent(), idle.Idle); sent {
		t.Error("MaybePush() = true despite provider failure")
	}
	if pusher.calls != 1 {
		t.Errorf("pusher called %d times, want exactly 1 (no retry)", pusher.calls)
	}
}
