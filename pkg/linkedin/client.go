package linkedin

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultOAuthBaseURL is the LinkedIn OAuth 2.0 endpoint base.
	DefaultOAuthBaseURL = "https://www.linkedin.com/oauth/v2"

	// DefaultAPIBaseURL is the LinkedIn REST API (v2) endpoint base.
	DefaultAPIBaseURL = "https://api.linkedin.com/v2"

	// DefaultTimeout bounds every outbound call to the provider.
	DefaultTimeout = 10 * time.Second
)

// Config holds the client credentials and endpoints for the LinkedIn API.
// ClientID, ClientSecret and RedirectURL are required; the base URLs
// default to the public LinkedIn endpoints.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	OAuthBaseURL string
	APIBaseURL   string
	Timeout      time.Duration
}

// Client interacts with LinkedIn through its exposed REST API.
// See https://developer.linkedin.com/docs/guide/v2 for the upstream
// documentation this client is based on.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient validates the configuration and returns a ready-to-use client.
func NewClient(config *Config) (*Client, error) {
	if config.ClientID == "" {
		return nil, &ConfigError{Field: "ClientID"}
	}
	if config.ClientSecret == "" {
		return nil, &ConfigError{Field: "ClientSecret"}
	}
	if config.RedirectURL == "" {
		return nil, &ConfigError{Field: "RedirectURL"}
	}

	cfg := *config
	if cfg.OAuthBaseURL == "" {
		cfg.OAuthBaseURL = DefaultOAuthBaseURL
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// AuthorizationURL builds the consent-screen redirect URL for the given
// scopes and CSRF state. Scopes are comma-joined before encoding, so the
// separator itself ends up percent-encoded; LinkedIn expects this exact
// shape. The call is pure and performs no I/O.
func (c *Client) AuthorizationURL(scopes []string, state string) (string, error) {
	if len(scopes) == 0 {
		return "", ErrNoScopes
	}
	return c.config.OAuthBaseURL + "/authorization" +
		"?response_type=code" +
		"&client_id=" + c.config.ClientID +
		"&redirect_uri=" + url.QueryEscape(c.config.RedirectURL) +
		"&state=" + url.QueryEscape(state) +
		"&scope=" + url.QueryEscape(strings.Join(scopes, ",")), nil
}

// ExchangeCode trades an authorization code for an access token.
// See https://developer.linkedin.com/docs/oauth2.
func (c *Client) ExchangeCode(ctx context.Context, code, state string) (string, error) {
	if code == "" {
		return "", ErrEmptyCode
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("state", state)
	form.Set("redirect_uri", c.config.RedirectURL)
	form.Set("client_id", c.config.ClientID)
	form.Set("client_secret", c.config.ClientSecret)

	var token tokenResponse
	found, err := c.invoke(ctx, http.MethodPost, c.config.OAuthBaseURL+"/accessToken",
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
		strings.NewReader(form.Encode()), "", &token)
	if err != nil {
		return "", err
	}
	if !found || token.AccessToken == "" {
		return "", ErrNoAccessToken
	}
	return token.AccessToken, nil
}

// Profile retrieves the current member's profile. A 404 from the provider
// means the profile is absent and yields (nil, nil).
func (c *Client) Profile(ctx context.Context, accessToken string) (*Profile, error) {
	if accessToken == "" {
		return nil, ErrEmptyAccessToken
	}

	var profile Profile
	found, err := c.invoke(ctx, http.MethodGet, c.config.APIBaseURL+"/me",
		nil, nil, accessToken, &profile)
	if err != nil || !found {
		return nil, err
	}
	return &profile, nil
}

// Email retrieves the current member's primary email address. It returns
// the empty string when the provider has no email on record, either via a
// 404 or an empty projection envelope.
func (c *Client) Email(ctx context.Context, accessToken string) (string, error) {
	if accessToken == "" {
		return "", ErrEmptyAccessToken
	}

	var lookup emailLookup
	found, err := c.invoke(ctx, http.MethodGet,
		c.config.APIBaseURL+"/emailAddress?q=members&projection=(elements*(handle~))",
		nil, nil, accessToken, &lookup)
	if err != nil || !found {
		return "", err
	}
	if len(lookup.Elements) == 0 {
		return "", nil
	}
	return lookup.Elements[0].Handle.EmailAddress, nil
}
