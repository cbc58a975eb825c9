package services_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AEtheve/zohoxide-crm/export/services"
	"github.com/AEtheve/zohoxide-crm/pkg/tokenstore"
	zohocrm "github.com/AEtheve/zohoxide-crm/pkg/zoho/crm"
)

// fakeCRM serves two pages of Accounts, one page of Contacts, an error for
// Broken and an empty body for Empty.
func fakeCRM(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json;charset=UTF-8")
		switch {
		case strings.HasSuffix(r.URL.Path, "/Accounts"):
			if r.URL.Query().Get("page") == "1" {
				fmt.Fprint(w, `{"data":[{"id":"a1"},{"id":"a2"}],"info":{"more_records":true,"per_page":2,"count":2,"page":1}}`)
			} else {
				fmt.Fprint(w, `{"data":[{"id":"a3"}],"info":{"more_records":false,"per_page":2,"count":1,"page":2}}`)
			}
		case strings.HasSuffix(r.URL.Path, "/Contacts"):
			fmt.Fprint(w, `{"data":[{"id":"c1"}]}`)
		case strings.HasSuffix(r.URL.Path, "/Broken"):
			fmt.Fprint(w, `{"code":"INVALID_MODULE","details":{},"message":"no such module","status":"error"}`)
		default:
			// Empty modules answer with an empty body.
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(apiDomain string) *zohocrm.Config {
	return &zohocrm.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RefreshToken: "refresh_token",
		AccessToken:  "preset_token_000000",
		APIDomain:    apiDomain,
	}
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	if len(data) == 0 {
		return 0
	}
	return len(strings.Split(strings.TrimRight(string(data), "\n"), "\n"))
}

func TestExportAll(t *testing.T) {
	t.Run("exports modules concurrently", func(t *testing.T) {
		server := fakeCRM(t)
		outDir := t.TempDir()
		store := tokenstore.NewMemoryStore()

		exporter := services.NewExporter(testConfig(server.URL), store, zap.NewNop(), outDir)
		metrics, err := exporter.ExportAll(context.Background(), []string{"Accounts", "Contacts"})
		require.NoError(t, err)

		require.Equal(t, 2, metrics.ModulesSucceeded)
		require.Zero(t, metrics.ModulesFailed)
		require.Equal(t, 4, metrics.RecordsExported)

		require.Equal(t, 3, countLines(t, filepath.Join(outDir, "Accounts.jsonl")))
		require.Equal(t, 1, countLines(t, filepath.Join(outDir, "Contacts.jsonl")))

		// The preset token was persisted for the next run.
		rec, err := store.Load(context.Background(), "id")
		require.NoError(t, err)
		require.Equal(t, "preset_token_000000", rec.AccessToken)
	})

	t.Run("empty module is not a failure", func(t *testing.T) {
		server := fakeCRM(t)
		outDir := t.TempDir()

		exporter := services.NewExporter(testConfig(server.URL), nil, zap.NewNop(), outDir)
		metrics, err := exporter.ExportAll(context.Background(), []string{"Leads"})
		require.NoError(t, err)
		require.Equal(t, 1, metrics.ModulesSucceeded)
		require.Zero(t, metrics.RecordsExported)
		require.Zero(t, countLines(t, filepath.Join(outDir, "Leads.jsonl")))
	})

	t.Run("one failing module does not stop the others", func(t *testing.T) {
		server := fakeCRM(t)
		outDir := t.TempDir()

		exporter := services.NewExporter(testConfig(server.URL), nil, zap.NewNop(), outDir)
		metrics, err := exporter.ExportAll(context.Background(), []string{"Contacts", "Broken"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "Broken")

		require.Equal(t, 1, metrics.ModulesSucceeded)
		require.Equal(t, 1, metrics.ModulesFailed)
		require.Equal(t, 1, metrics.RecordsExported)
	})
}

func TestExportMetrics(t *testing.T) {
	metrics := &services.ExportMetrics{}
	metrics.AddModuleSuccess(10)
	metrics.AddModuleSuccess(5)
	metrics.AddModuleFailure()

	require.Equal(t, 2, metrics.ModulesSucceeded)
	require.Equal(t, 1, metrics.ModulesFailed)
	require.Equal(t, 15, metrics.RecordsExported)
}
