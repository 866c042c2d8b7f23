// Package hammerspoon drives the Hammerspoon CLI as the window
// automation collaborator: focused-window queries and the cross-space
// focus script bound to notification click actions.
package hammerspoon

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/pkg/errors"

	"github.com/trentmcnitt/cc-notifier/pkg/window"
)

// DefaultCLIPath is where the Hammerspoon app installs its CLI.
const DefaultCLIPath = "/Applications/Hammerspoon.app/Contents/Frameworks/hs/hs"

const (
	// DefaultProbeTimeout bounds every CLI call; a wedged automation
	// channel must never hang the hook process.
	DefaultProbeTimeout = 10 * time.Second

	// DefaultSettleDelay is slept inside the focus script after the
	// focus call. Focusing is asynchronous relative to the call
	// returning; without the pause the space-switch animation is cut
	// short when the script process exits.
	DefaultSettleDelay = 300 * time.Millisecond
)

// probeScript prints the focused window's id and its owning app path,
// one per line, or "none" when no window has focus.
const probeScript = `local w = hs.window.focusedWindow()
if w then
  print(w:id())
  local app = w:application()
  print(app and app:path() or '')
else
  print('none')
end`

// Client implements window.Probe over the Hammerspoon CLI.
type Client struct {
	cliPath string
	timeout time.Duration
	settle  time.Duration
}

// NewClient creates a client for the CLI at cliPath. Zero values fall
// back to the package defaults.
func NewClient(cliPath string, timeout, settle time.Duration) *Client {
	if cliPath == "" {
		cliPath = DefaultCLIPath
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	return &Client{cliPath: cliPath, timeout: timeout, settle: settle}
}

// Available checks if the Hammerspoon CLI binary exists.
func (c *Client) Available() bool {
	if strings.ContainsRune(c.cliPath, os.PathSeparator) {
		info, err := os.Stat(c.cliPath)
		return err == nil && !info.IsDir()
	}
	_, err := exec.LookPath(c.cliPath)
	return err == nil
}

// CurrentWindow returns the focused window's identity and owning app
// path. A CLI failure or timeout is reported as window.ErrUnavailable,
// an empty desktop as window.ErrNoWindow.
func (c *Client) CurrentWindow(ctx context.Context) (*window.Info, error) {
	out, err := c.run(ctx, probeScript)
	if err != nil {
		return nil, errors.Wrap(window.ErrUnavailable, err.Error())
	}
	return parseProbeOutput(out)
}

// parseProbeOutput interprets the probe script's stdout: window id on
// the first line, owning app path on the second, or "none".
func parseProbeOutput(out string) (*window.Info, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	id := strings.TrimSpace(lines[0])
	if id == "" || id == "none" {
		return nil, window.ErrNoWindow
	}

	info := &window.Info{ID: window.ID(id)}
	if len(lines) > 1 {
		info.AppPath = strings.TrimSpace(lines[1])
	}
	return info, nil
}

// FocusScript builds a self-contained Lua script that relocates and
// raises the window with the given id, wherever it is.
//
// Asking the window filter for all spaces in one call
// (setCurrentSpace(nil)) can hang and invalidate the automation
// channel, so the script issues two disjoint queries instead: one for
// the current space, one for every other space, concatenated before
// the search. First match wins; a window listed by both queries is
// focused once. A target absent from both lists is a silent no-op.
//
// Spaces never visited since Hammerspoon last restarted may be missing
// from the other-spaces query. That is a recency limitation of the
// collaborator, not something this script can detect.
func (c *Client) FocusScript(id window.ID) string {
	return fmt.Sprintf(`local current = require('hs.window.filter').new():setCurrentSpace(true):getWindows()
local other = require('hs.window.filter').new():setCurrentSpace(false):getWindows()
for _, w in pairs(other) do table.insert(current, w) end
for _, w in pairs(current) do
  if w:id() == %s then
    w:focus()
    require('hs.timer').usleep(%d)
    return
  end
end`, id, c.settle.Microseconds())
}

// FocusCommandLine returns the focus invocation as a single
// shell-quoted command line, suitable for a notification's click
// action.
func (c *Client) FocusCommandLine(id window.ID) string {
	return shellescape.QuoteCommand([]string{c.cliPath, "-c", c.FocusScript(id)})
}

// run executes a script through the CLI with the client's timeout and
// returns stdout.
func (c *Client) run(ctx context.Context, script string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, c.cliPath, "-c", script).Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.Errorf("hs command timed out after %v", c.timeout)
		}
		return "", errors.Wrap(err, "hs command failed")
	}
	return strings.TrimSpace(string(out)), nil
}
