package vanta

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fintrustai/compliance-copilot/internal/domain/compliance"
)

const (
	authorizeEndpoint = "https://app.vanta.com/oauth/authorize"
	tokenEndpoint     = "https://app.vanta.com/oauth/token"
	oauthScopes       = "read:controls read:risks read:evidence read:organization"
)

// TokenResponse is the provider's code-exchange reply.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// AuthorizationURL builds the provider authorization URL for the given state
// token.
func (c *Client) AuthorizationURL(state string) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", c.redirectURI)
	params.Set("response_type", "code")
	params.Set("scope", oauthScopes)
	if state != "" {
		params.Set("state", state)
	}
	return authorizeEndpoint + "?" + params.Encode()
}

// ExchangeCode swaps an authorization code for an access token and installs
// the token on the client.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange: %v", compliance.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: token exchange: status %d", compliance.ErrProviderUnavailable, resp.StatusCode)
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("%w: token exchange: %v", compliance.ErrProviderUnavailable, err)
	}

	c.SetAccessToken(token.AccessToken, token.TokenType)
	return &token, nil
}
