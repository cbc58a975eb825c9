package http_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	httpclient "github.com/AEtheve/zohoxide-crm/pkg/http"
)

func TestBuildURL(t *testing.T) {
	t.Run("joins base and path", func(t *testing.T) {
		url, err := httpclient.BuildURL("https://accounts.zoho.com", "/oauth/v2/token", nil)
		require.NoError(t, err)
		require.Equal(t, "https://accounts.zoho.com/oauth/v2/token", url)
	})

	t.Run("encodes query parameters", func(t *testing.T) {
		url, err := httpclient.BuildURL("https://accounts.zoho.com", "/oauth/v2/token", map[string]string{
			"grant_type": "refresh_token",
			"client_id":  "id with spaces",
		})
		require.NoError(t, err)
		require.Contains(t, url, "grant_type=refresh_token")
		require.Contains(t, url, "client_id=id+with+spaces")
	})

	t.Run("invalid base", func(t *testing.T) {
		_, err := httpclient.BuildURL("://nope", "/x", nil)
		require.Error(t, err)
	})
}
