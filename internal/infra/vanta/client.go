package vanta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fintrustai/compliance-copilot/internal/domain/compliance"
)

const defaultTimeout = 30 * time.Second

// Client reads compliance posture from the Vanta API. It holds the OAuth
// access token obtained through the login handshake; the token is the only
// mutable state and is guarded for concurrent use.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	redirectURI  string
	http         *http.Client

	mu          sync.RWMutex
	accessToken string
	tokenType   string
}

func NewClient(baseURL, clientID, clientSecret, redirectURI string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		http:         &http.Client{Timeout: timeout},
		tokenType:    "Bearer",
	}
}

// SetAccessToken installs a token obtained out of band.
func (c *Client) SetAccessToken(token, tokenType string) {
	if tokenType == "" {
		tokenType = "Bearer"
	}
	c.mu.Lock()
	c.accessToken = token
	c.tokenType = tokenType
	c.mu.Unlock()
}

// GetControls returns the compliance controls list.
func (c *Client) GetControls(ctx context.Context) (compliance.ControlsPage, error) {
	var page compliance.ControlsPage
	err := c.getJSON(ctx, "/controls", &page)
	return page, err
}

// GetRiskFindings returns the open risk findings list.
func (c *Client) GetRiskFindings(ctx context.Context) (compliance.FindingsPage, error) {
	var page compliance.FindingsPage
	err := c.getJSON(ctx, "/risk-findings", &page)
	return page, err
}

// GetOrganizationStatus returns the overall organization compliance status.
func (c *Client) GetOrganizationStatus(ctx context.Context) (map[string]any, error) {
	var status map[string]any
	err := c.getJSON(ctx, "/organization/status", &status)
	return status, err
}

// GetEvidence returns the evidence attached to one control.
func (c *Client) GetEvidence(ctx context.Context, controlID string) (map[string]any, error) {
	var evidence map[string]any
	err := c.getJSON(ctx, "/controls/"+controlID+"/evidence", &evidence)
	return evidence, err
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	c.mu.RLock()
	token, tokenType := c.accessToken, c.tokenType
	c.mu.RUnlock()
	if token == "" {
		return fmt.Errorf("%w: no access token, authenticate first", compliance.ErrProviderUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", tokenType+" "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", compliance.ErrProviderUnavailable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: GET %s: status %d", compliance.ErrProviderUnavailable, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: GET %s: %v", compliance.ErrProviderUnavailable, path, err)
	}
	return nil
}
