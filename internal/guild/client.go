// Package guild talks to the chat platform's REST API: member role lookups
// for the teacher gate and channel messages for the daily reminder.
package guild

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// MemberRoles returns the display names of the member's current roles.
// Always a fresh fetch; the teacher gate must not act on stale role sets.
func (c *Client) MemberRoles(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}

	endpoint := fmt.Sprintf("%s/members/%s/roles", c.BaseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("guild api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("guild api error %s: %s", resp.Status, string(body))
	}

	var out struct {
		Roles []string `json:"roles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return out.Roles, nil
}

// HasRole reports whether the member currently holds a role with the exact
// display name.
func (c *Client) HasRole(ctx context.Context, userID, name string) (bool, error) {
	roles, err := c.MemberRoles(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if r == name {
			return true, nil
		}
	}
	return false, nil
}

// SendChannelMessage posts a plain text message to a channel.
func (c *Client) SendChannelMessage(ctx context.Context, channelID, content string) error {
	if channelID == "" {
		return fmt.Errorf("channel id required")
	}

	body, _ := json.Marshal(map[string]string{"content": content})
	endpoint := fmt.Sprintf("%s/channels/%s/messages", c.BaseURL, url.PathEscape(channelID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("guild api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("guild api error %s: %s", resp.Status, string(respBody))
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bot "+c.Token)
	}
}
