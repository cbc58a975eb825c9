package zohocrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	httpclient "github.com/AEtheve/zohoxide-crm/pkg/http"
	"go.uber.org/zap"
)

// RefreshToken exchanges the refresh token for a new access token and
// stores it on the client, so you don't need to retrieve the token and set
// it in separate steps; a copy of the record is returned as well. An
// existing token is always overwritten. When RefreshToken returns nil the
// client is guaranteed to hold an access token.
//
// The OAuth endpoint reports failures in its own envelope
// ({"error": "..."}), distinct from the CRM error shape; those surface as
// plain errors carrying the server's message.
func (c *Client) RefreshToken(ctx context.Context) (*TokenRecord, error) {
	endpoint, err := httpclient.BuildURL(c.config.OAuthDomain, "/oauth/v2/token", map[string]string{
		"grant_type":    "refresh_token",
		"client_id":     c.config.ClientID,
		"client_secret": c.config.ClientSecret,
		"refresh_token": c.config.RefreshToken,
	})
	if err != nil {
		c.logger.Error("Failed to build token URL", zap.Error(err))
		return nil, fmt.Errorf("failed to build token URL: %w", err)
	}

	c.logger.Info("Refreshing access token", zap.String("oauth_domain", c.config.OAuthDomain))

	// The refresh is not subject to the configured API timeout.
	resp, err := c.httpClient.Post(ctx, endpoint, nil, nil, 0)
	if err != nil {
		c.logger.Error("Token refresh request failed", zap.Error(err))
		return nil, fmt.Errorf("token refresh request failed: %w", err)
	}

	var authErr authErrorResponse
	if err := json.Unmarshal(resp.Body, &authErr); err == nil && authErr.Error != nil {
		c.logger.Error("Token refresh rejected", zap.String("error", *authErr.Error))
		return nil, errors.New(*authErr.Error)
	}

	var record TokenRecord
	if err := json.Unmarshal(resp.Body, &record); err != nil {
		c.logger.Error("Failed to parse token response", zap.Error(err))
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	c.accessToken = record.AccessToken
	c.apiDomain = record.APIDomain

	if c.accessToken == "" {
		c.logger.Error("Token response contained no access token")
		return nil, errNoToken
	}

	c.logger.Info("Access token refreshed",
		zap.String("access_token", c.AbbreviatedAccessToken()),
		zap.String("api_domain", c.apiDomain),
		zap.Int64("expires_in_sec", record.ExpiresInSec))

	return &record, nil
}

// ensureAccessToken returns the held access token, refreshing once if none
// is set. Refresh failures propagate unwrapped; there is no retry.
func (c *Client) ensureAccessToken(ctx context.Context) (string, error) {
	if c.accessToken != "" {
		return c.accessToken, nil
	}

	c.logger.Debug("No access token held, refreshing")
	if _, err := c.RefreshToken(ctx); err != nil {
		return "", err
	}
	return c.accessToken, nil
}
