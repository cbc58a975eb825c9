package zohocrm

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultTimeout is the network timeout applied to CRM API requests.
	DefaultTimeout = 30 * time.Second

	// DefaultOAuthDomain is the Zoho accounts server used for token refresh.
	DefaultOAuthDomain = "https://accounts.zoho.com"

	// DefaultAPIDomain is the production Zoho CRM API server.
	DefaultAPIDomain = "https://www.zohoapis.com"

	// sandboxAPIDomain replaces any configured API domain when Sandbox is set.
	sandboxAPIDomain = "https://crmsandbox.zoho.com"
)

// Config holds the credentials and connection settings for a Client.
//
// ClientID, ClientSecret and RefreshToken identify the API client and are
// required. Everything else is optional:
//
//   - AccessToken presets a token so the first API call skips the refresh.
//     Useful when tokens are persisted externally, e.g. in a tokenstore.
//   - OAuthDomain defaults to DefaultOAuthDomain.
//   - APIDomain defaults to DefaultAPIDomain. The token refresh response may
//     carry a replacement value.
//   - Sandbox pins the effective API domain to the Zoho sandbox server,
//     ignoring APIDomain entirely. Defaults to false.
//   - Timeout is the per-request timeout for CRM calls, default
//     DefaultTimeout. The token refresh itself is not subject to it.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	AccessToken  string
	OAuthDomain  string
	APIDomain    string
	Sandbox      bool
	Timeout      time.Duration
}

// LoadConfig builds a Config from the environment. A .env file in the
// working directory is loaded first if present.
//
// Recognized variables: ZOHO_CLIENT_ID, ZOHO_CLIENT_SECRET,
// ZOHO_REFRESH_TOKEN, ZOHO_ACCESS_TOKEN, ZOHO_OAUTH_DOMAIN,
// ZOHO_API_DOMAIN, ZOHO_SANDBOX, ZOHO_TIMEOUT_SECONDS.
func LoadConfig() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		ClientID:     os.Getenv("ZOHO_CLIENT_ID"),
		ClientSecret: os.Getenv("ZOHO_CLIENT_SECRET"),
		RefreshToken: os.Getenv("ZOHO_REFRESH_TOKEN"),
		AccessToken:  os.Getenv("ZOHO_ACCESS_TOKEN"),
		OAuthDomain:  os.Getenv("ZOHO_OAUTH_DOMAIN"),
		APIDomain:    os.Getenv("ZOHO_API_DOMAIN"),
	}

	if v := os.Getenv("ZOHO_SANDBOX"); v != "" {
		sandbox, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("ZOHO_SANDBOX must be a boolean, got %q", v)
		}
		cfg.Sandbox = sandbox
	}

	if v := os.Getenv("ZOHO_TIMEOUT_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds < 0 {
			return nil, fmt.Errorf("ZOHO_TIMEOUT_SECONDS must be a non-negative integer, got %q", v)
		}
		cfg.Timeout = time.Duration(seconds) * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the required identity fields are set.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("client id is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("client secret is required")
	}
	if c.RefreshToken == "" {
		return fmt.Errorf("refresh token is required")
	}
	return nil
}

// withDefaults returns a copy of the config with unset optional fields
// filled in.
func (c *Config) withDefaults() *Config {
	out := *c
	if out.OAuthDomain == "" {
		out.OAuthDomain = DefaultOAuthDomain
	}
	if out.APIDomain == "" {
		out.APIDomain = DefaultAPIDomain
	}
	if out.Timeout == 0 {
		out.Timeout = DefaultTimeout
	}
	return &out
}
