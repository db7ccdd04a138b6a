// Package slack is the chat-platform boundary: Web API calls, event payload
// types, request signature verification and a display-name cache.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultAPIBase = "https://slack.com/api"

// Client calls the Slack Web API with a bot token. It is constructed once
// and injected wherever outbound messaging is needed.
type Client struct {
	apiBase    string
	token      string
	httpClient *http.Client
}

func NewClient(apiBase, token string, httpClient *http.Client) *Client {
	if strings.TrimSpace(apiBase) == "" {
		apiBase = DefaultAPIBase
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		apiBase:    strings.TrimRight(apiBase, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// PostMessage sends text to a channel. Fire-and-forget from the core's
// perspective; callers log failures and never retry.
func (c *Client) PostMessage(ctx context.Context, channelID, text string) error {
	return c.postJSON(ctx, "chat.postMessage", map[string]any{
		"channel":      channelID,
		"text":         text,
		"unfurl_links": false,
	}, nil)
}

// PostThreadReply sends text as a reply in the thread rooted at rootTS.
func (c *Client) PostThreadReply(ctx context.Context, channelID, rootTS, text string) error {
	return c.postJSON(ctx, "chat.postMessage", map[string]any{
		"channel":      channelID,
		"thread_ts":    rootTS,
		"text":         text,
		"unfurl_links": false,
	}, nil)
}

// UserInfo resolves a user id to a display name.
func (c *Client) UserInfo(ctx context.Context, userID string) (string, error) {
	var parsed struct {
		apiResponse
		User struct {
			Name     string `json:"name"`
			RealName string `json:"real_name"`
		} `json:"user"`
	}
	if err := c.getForm(ctx, "users.info", url.Values{"user": {userID}}, &parsed); err != nil {
		return "", err
	}
	if parsed.User.RealName != "" {
		return parsed.User.RealName, nil
	}
	return parsed.User.Name, nil
}

// AuthTest verifies the bot token and returns the bot's own user id.
func (c *Client) AuthTest(ctx context.Context) (string, error) {
	var parsed struct {
		apiResponse
		UserID string `json:"user_id"`
	}
	if err := c.postJSON(ctx, "auth.test", map[string]any{}, &parsed); err != nil {
		return "", err
	}
	return parsed.UserID, nil
}

// ConnectionsOpen requests a Socket Mode websocket URL. Requires an
// app-level token, not the bot token, so it is passed explicitly.
func (c *Client) ConnectionsOpen(ctx context.Context, appToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/apps.connections.open", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+appToken)

	var parsed struct {
		apiResponse
		URL string `json:"url"`
	}
	if err := c.do(req, &parsed); err != nil {
		return "", err
	}
	if strings.TrimSpace(parsed.URL) == "" {
		return "", fmt.Errorf("slack: connections.open returned no url")
	}
	return parsed.URL, nil
}

func (c *Client) postJSON(ctx context.Context, method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/"+method, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.token)
	return c.do(req, out)
}

func (c *Client) getForm(ctx context.Context, method string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/"+method+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	return c.do(req, out)
}

// do executes the request and surfaces Slack's ok=false replies as errors.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("slack: %s failed: status=%d body=%s",
			req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var status apiResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return fmt.Errorf("slack: %s decode failed: %w", req.URL.Path, err)
	}
	if !status.OK {
		return fmt.Errorf("slack: %s failed: %s", req.URL.Path, status.Error)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("slack: %s decode failed: %w", req.URL.Path, err)
		}
	}
	return nil
}
