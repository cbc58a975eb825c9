// Package zohocrm provides a client for v2 of the Zoho CRM API.
//
// A Client is built from a Config holding the API client id, secret and
// refresh token. It can start with a preset access token, or fetch one
// lazily: every API method refreshes the token first if none is held, then
// reuses it on all subsequent requests. This makes it easy to keep tokens
// in external storage (see the tokenstore package) and hand them back in.
//
// The client performs no retries and is meant for exclusive use by one
// caller at a time; wrap calls in your own retry logic (see the retry
// package) and synchronize externally if you must share a client.
//
// OAuth overview: https://www.zoho.com/crm/developer/docs/api/oauth-overview.html
package zohocrm

import (
	"time"

	httpclient "github.com/AEtheve/zohoxide-crm/pkg/http"
	"go.uber.org/zap"
)

// Client talks to the Zoho CRM v2 API on behalf of one API client.
//
// accessToken and apiDomain start from the config and are rewritten only by
// RefreshToken; no other code path mutates them.
type Client struct {
	config     *Config
	httpClient *httpclient.Client
	logger     *zap.Logger

	accessToken string
	apiDomain   string
}

// NewClient creates a Client with a default production logger. The config's
// identity fields are validated.
func NewClient(cfg *Config) (*Client, error) {
	logger, _ := zap.NewProduction()
	return NewClientWithLogger(cfg, logger)
}

// NewClientWithLogger creates a Client with a custom logger.
func NewClientWithLogger(cfg *Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg = cfg.withDefaults()
	return &Client{
		config:      cfg,
		httpClient:  httpclient.NewClientWithLogger(logger),
		logger:      logger,
		accessToken: cfg.AccessToken,
		apiDomain:   cfg.APIDomain,
	}, nil
}

// Sandbox reports whether the client targets the Zoho sandbox.
func (c *Client) Sandbox() bool {
	return c.config.Sandbox
}

// Timeout returns the per-request timeout for CRM API calls.
func (c *Client) Timeout() time.Duration {
	return c.config.Timeout
}

// AccessToken returns the current access token, or the empty string when no
// token has been set or fetched yet.
func (c *Client) AccessToken() string {
	return c.accessToken
}

// APIDomain returns the API domain requests are sent to. With Sandbox set
// this is always the fixed sandbox URL, whatever the session holds.
func (c *Client) APIDomain() string {
	if c.config.Sandbox {
		return sandboxAPIDomain
	}
	return c.apiDomain
}

// AbbreviatedAccessToken returns a redacted form of the access token, safe
// to print or log: the first 9 and last 4 characters joined by "..".
// Returns the empty string when no token is held.
func (c *Client) AbbreviatedAccessToken() string {
	token := c.accessToken
	if token == "" {
		return ""
	}
	// Nothing left to hide in tokens this short.
	if len(token) < 14 {
		return token
	}
	return token[:9] + ".." + token[len(token)-4:]
}
