package assumable

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/assumable-map/internal/config"
	"github.com/assumable-map/internal/repository/filecache"
)

const pageBody = `{
	"SearchPagerBar": {"TotalPages": 2},
	"MapList": {"ListingsSummaryVM": [
		{"ListingId": 1, "CashFormat": "$150,000", "Centroid": {"latitude": 40.9, "longitude": -73.8}}
	]}
}`

func newTestConfig(baseURL string) *config.AssumableConfig {
	return &config.AssumableConfig{
		BaseURL:        baseURL,
		Token:          "test_token",
		Location:       "New York",
		GeoID:          3269,
		Viewport:       "-76.8,37.7,-72.4,43.0",
		RequestTimeout: 5 * time.Second,
	}
}

func TestClient_FetchListingPage(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful fetch persists page before returning", func(t *testing.T) {
		hits := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			assert.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "1", r.PostForm.Get("page"))
			assert.Equal(t, "test_token", r.PostForm.Get("_token"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(pageBody))
		}))
		defer server.Close()

		dir := t.TempDir()
		store, err := filecache.New(dir, logger)
		require.NoError(t, err)
		client := NewClient(newTestConfig(server.URL), store, logger)

		page, err := client.FetchListingPage(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 2, page.SearchPagerBar.TotalPages)
		require.Len(t, page.MapList.Listings, 1)
		assert.Equal(t, "$150,000", page.MapList.Listings[0].CashFormat)

		assert.FileExists(t, filepath.Join(dir, "page_0001.json"))

		// Second call is served from the cache; no new request.
		again, err := client.FetchListingPage(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, page.MapList.Listings, again.MapList.Listings)
		assert.Equal(t, 1, hits)
	})

	t.Run("error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		store, err := filecache.New(t.TempDir(), logger)
		require.NoError(t, err)
		client := NewClient(newTestConfig(server.URL), store, logger)

		_, err = client.FetchListingPage(context.Background(), 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 403")
	})

	t.Run("malformed response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>cloudflare</html>"))
		}))
		defer server.Close()

		dir := t.TempDir()
		store, err := filecache.New(dir, logger)
		require.NoError(t, err)
		client := NewClient(newTestConfig(server.URL), store, logger)

		_, err = client.FetchListingPage(context.Background(), 1)
		require.Error(t, err)
		assert.NoFileExists(t, filepath.Join(dir, "page_0001.json"))
	})
}
