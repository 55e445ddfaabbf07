// Package line is a small client for the LINE Messaging API: webhook event
// types, signature verification, the reply API and the profile API.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client calls the Messaging API with a channel access token.
type Client struct {
	apiURL      string
	accessToken string
	httpClient  *http.Client
}

// New creates a new Client.
func New(apiURL, accessToken string, httpClient *http.Client) (*Client, error) {
	parsedURL, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LINE API URL: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiURL:      strings.TrimSuffix(parsedURL.String(), "/"),
		accessToken: accessToken,
		httpClient:  httpClient,
	}, nil
}

// ReplyMessage answers an event using its reply token.
func (c *Client) ReplyMessage(ctx context.Context, replyToken string, messages []Message) error {
	body, err := json.Marshal(ReplyMessageRequest{ReplyToken: replyToken, Messages: messages})
	if err != nil {
		return fmt.Errorf("failed to marshal reply request: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, "/v2/bot/message/reply", body)
	return err
}

// GetProfile fetches the profile of a user who added the bot as a friend.
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	respBody, err := c.do(ctx, http.MethodGet, "/v2/bot/profile/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, err
	}
	var profile Profile
	if err := json.Unmarshal(respBody, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile response: %w", err)
	}
	return &profile, nil
}

// do sends a request and returns the response body. Non-2xx responses are
// returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send LINE API request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read LINE API response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(respBody))
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
		}
		return nil, apiErr
	}
	return respBody, nil
}
