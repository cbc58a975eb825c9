package http_test

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httpclient "github.com/AEtheve/zohoxide-crm/pkg/http"
)

func TestDo(t *testing.T) {
	t.Run("returns status and body", func(t *testing.T) {
		server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.WriteHeader(nethttp.StatusCreated)
			io.WriteString(w, `{"ok":true}`)
		}))
		t.Cleanup(server.Close)

		client := httpclient.NewClientWithLogger(zap.NewNop())
		resp, err := client.Get(context.Background(), server.URL, nil, 0)
		require.NoError(t, err)
		require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
		require.JSONEq(t, `{"ok":true}`, string(resp.Body))
	})

	t.Run("error statuses are not errors", func(t *testing.T) {
		server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.WriteHeader(nethttp.StatusUnauthorized)
			io.WriteString(w, `{"code":"INVALID_TOKEN"}`)
		}))
		t.Cleanup(server.Close)

		client := httpclient.NewClientWithLogger(zap.NewNop())
		resp, err := client.Get(context.Background(), server.URL, nil, 0)
		require.NoError(t, err)
		require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
		require.NotEmpty(t, resp.Body)
	})

	t.Run("marshals body and sets default headers", func(t *testing.T) {
		var gotContentType, gotAccept, gotRequestID string
		var gotBody []byte
		server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			gotContentType = r.Header.Get("Content-Type")
			gotAccept = r.Header.Get("Accept")
			gotRequestID = r.Header.Get("X-Request-Id")
			gotBody, _ = io.ReadAll(r.Body)
		}))
		t.Cleanup(server.Close)

		client := httpclient.NewClientWithLogger(zap.NewNop())
		body := map[string]string{"name": "sample"}
		_, err := client.Post(context.Background(), server.URL, nil, body, 0)
		require.NoError(t, err)

		require.Equal(t, "application/json", gotContentType)
		require.Equal(t, "application/json", gotAccept)
		require.NotEmpty(t, gotRequestID)

		var sent map[string]string
		require.NoError(t, json.Unmarshal(gotBody, &sent))
		require.Equal(t, body, sent)
	})

	t.Run("raw byte bodies pass through", func(t *testing.T) {
		var gotBody []byte
		server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			gotBody, _ = io.ReadAll(r.Body)
		}))
		t.Cleanup(server.Close)

		client := httpclient.NewClientWithLogger(zap.NewNop())
		_, err := client.Put(context.Background(), server.URL, nil, []byte("raw payload"), 0)
		require.NoError(t, err)
		require.Equal(t, "raw payload", string(gotBody))
	})

	t.Run("custom headers override defaults", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			gotAuth = r.Header.Get("Authorization")
		}))
		t.Cleanup(server.Close)

		client := httpclient.NewClientWithLogger(zap.NewNop())
		headers := map[string]string{"Authorization": "Zoho-oauthtoken TKN"}
		_, err := client.Get(context.Background(), server.URL, headers, 0)
		require.NoError(t, err)
		require.Equal(t, "Zoho-oauthtoken TKN", gotAuth)
	})

	t.Run("timeout aborts slow requests", func(t *testing.T) {
		server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(server.Close)

		client := httpclient.NewClientWithLogger(zap.NewNop())
		start := time.Now()
		_, err := client.Get(context.Background(), server.URL, nil, 50*time.Millisecond)
		require.Error(t, err)
		require.Less(t, time.Since(start), time.Second)
	})

	t.Run("connection failure is an error", func(t *testing.T) {
		server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {}))
		server.Close()

		client := httpclient.NewClientWithLogger(zap.NewNop())
		_, err := client.Get(context.Background(), server.URL, nil, 0)
		require.Error(t, err)
		require.Contains(t, err.Error(), "request failed")
	})
}
