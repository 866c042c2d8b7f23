// Package push delivers notifications through the Pushover API.
package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	apiURL = "https://api.pushover.net/1/messages.json"

	// Pushover rejects payloads past these limits; content is
	// truncated client-side instead of failing the send.
	maxTitleLen   = 250
	maxMessageLen = 1024
)

// Client sends push notifications via Pushover. A nil *Client is a
// valid disabled sender; Send on it is a no-op.
type Client struct {
	token      string
	userKey    string
	apiURL     string
	httpClient *http.Client
}

// NewClient creates a Pushover client with the given credentials and
// request timeout.
func NewClient(token, userKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		token:      token,
		userKey:    userKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send posts one notification. link, when non-empty, becomes the
// notification's tap-through URL. The call is best-effort by contract:
// callers log a failure and move on, they never retry.
func (c *Client) Send(ctx context.Context, title, message, link string) error {
	if c == nil {
		return nil
	}

	form := url.Values{}
	form.Set("token", c.token)
	form.Set("user", c.userKey)
	form.Set("title", truncate(title, maxTitleLen))
	form.Set("message", truncate(message, maxMessageLen))
	if link != "" {
		form.Set("url", link)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "failed to build push request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "push request failed")
	}
	defer resp.Body.Close()

	var result struct {
		Status int      `json:"status"`
		Errors []string `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return errors.Wrapf(err, "failed to decode push response (HTTP %d)", resp.StatusCode)
	}
	if result.Status != 1 {
		return errors.Errorf("push rejected (HTTP %d): %s",
			resp.StatusCode, strings.Join(result.Errors, "; "))
	}
	return nil
}

// ExpandURL interpolates {session_id} and {cwd} placeholders in a
// link template, escaping the values for use in a URL.
func ExpandURL(template, sessionID, cwd string) string {
	if template == "" {
		return ""
	}
	link := strings.ReplaceAll(template, "{session_id}", url.QueryEscape(sessionID))
	link = strings.ReplaceAll(link, "{cwd}", url.QueryEscape(cwd))
	return link
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
