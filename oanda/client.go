package oanda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// PracticeURL is the REST URL for OANDA's practice/demo environment
	PracticeURL = "https://api-fxpractice.oanda.com"
	// LiveURL is the REST URL for OANDA's live trading environment
	LiveURL = "https://api-fxtrade.oanda.com"
	// PracticeStreamURL is the streaming host for the practice environment
	PracticeStreamURL = "https://stream-fxpractice.oanda.com"
	// LiveStreamURL is the streaming host for the live environment
	LiveStreamURL = "https://stream-fxtrade.oanda.com"
)

// Client is an OANDA v20 REST API client scoped to one account.
type Client struct {
	baseURL    string
	streamURL  string
	token      string
	accountID  string
	httpClient *http.Client
}

// NewClient creates an OANDA API client for the given account.
func NewClient(token, accountID string, practice bool) *Client {
	baseURL, streamURL := LiveURL, LiveStreamURL
	if practice {
		baseURL, streamURL = PracticeURL, PracticeStreamURL
	}

	return &Client{
		baseURL:   baseURL,
		streamURL: streamURL,
		token:     token,
		accountID: accountID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AccountID returns the account the client is scoped to.
func (c *Client) AccountID() string { return c.accountID }

// APIError is a non-2xx response from the OANDA API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("oanda: http %d: %s", e.StatusCode, e.Body)
}

// get performs an authorized GET against the REST host and decodes the JSON
// response into v.
func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	u.Path = path
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
