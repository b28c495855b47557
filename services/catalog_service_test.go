package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"flickpick_server/models"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func newTestCatalog(baseURL string) *CatalogService {
	return &CatalogService{
		BaseURL: baseURL,
		APIKey:  "test-key",
		HTTP:    &http.Client{Timeout: 5 * time.Second},
		Limiter: rate.NewLimiter(rate.Inf, 1),
		Breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "test"}),
		Log:     zap.NewNop().Sugar(),
	}
}

func TestGetTitleSetsMediaType(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		fmt.Fprint(w, `{"id":603,"title":"The Matrix","release_date":"1999-03-31","vote_average":8.2}`)
	}))
	defer ts.Close()

	title, err := newTestCatalog(ts.URL).GetTitle(context.Background(), models.MediaTypeMovie, 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", title.DisplayName())
	assert.Equal(t, models.MediaTypeMovie, title.MediaType)
	assert.Equal(t, "1999", title.Year())
}

func TestCatalogErrorSurfacesUpstreamMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status_message":"Invalid API key"}`)
	}))
	defer ts.Close()

	_, err := newTestCatalog(ts.URL).TrendingTitles(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestHydrateTitlesIsolatesFailures(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/movie/2" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"status_message":"not found"}`)
			return
		}
		fmt.Fprintf(w, `{"id":%s,"title":"ok"}`, r.URL.Path[len("/movie/"):])
	}))
	defer ts.Close()

	refs := []models.TitleRef{
		{TitleID: 1, MediaType: models.MediaTypeMovie},
		{TitleID: 2, MediaType: models.MediaTypeMovie},
		{TitleID: 3, MediaType: models.MediaTypeMovie},
	}

	titles := newTestCatalog(ts.URL).HydrateTitles(context.Background(), refs)
	require.Len(t, titles, 2)
	assert.Equal(t, 1, titles[0].ID)
	assert.Equal(t, 3, titles[1].ID)
}

func TestCacheKeyOmitsCredential(t *testing.T) {
	params := url.Values{}
	params.Set("page", "2")

	key := catalogCacheKey("/trending/all/day", params)
	assert.Equal(t, "catalog:/trending/all/day?page=2", key)
	assert.NotContains(t, key, "api_key")
}

func TestSearchTitlesFiltersPeople(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/multi", r.URL.Path)
		fmt.Fprint(w, `{"page":1,"total_pages":1,"results":[
			{"id":1,"media_type":"movie","title":"Dune"},
			{"id":2,"media_type":"person","name":"Denis Villeneuve"},
			{"id":3,"media_type":"tv","name":"Dune: Prophecy"}
		]}`)
	}))
	defer ts.Close()

	page, err := newTestCatalog(ts.URL).SearchTitles(context.Background(), "dune", 1)
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, 1, page.Results[0].ID)
	assert.Equal(t, 3, page.Results[1].ID)
}
