package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"flickpick_server/config"
	"flickpick_server/models"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// CatalogService is the client for the external title catalog (TMDB-style API).
// Calls are rate limited against the provider quota and wrapped in a circuit
// breaker; responses are cached in Redis when a cache client is configured.
type CatalogService struct {
	BaseURL  string
	APIKey   string
	HTTP     *http.Client
	Cache    *redis.Client // optional; nil disables caching
	CacheTTL time.Duration
	Limiter  *rate.Limiter
	Breaker  *gobreaker.CircuitBreaker
	Log      *zap.SugaredLogger
}

// NewCatalogService creates a catalog client from configuration
func NewCatalogService(cfg config.CatalogConf, timeout time.Duration, cache *redis.Client, cacheTTL time.Duration, logger *zap.SugaredLogger) *CatalogService {
	st := gobreaker.Settings{
		Name: "catalog",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Infow("catalog circuit breaker state change", "from", from.String(), "to", to.String())
		},
	}

	return &CatalogService{
		BaseURL:  cfg.BaseURL,
		APIKey:   cfg.APIKey,
		HTTP:     &http.Client{Timeout: timeout},
		Cache:    cache,
		CacheTTL: cacheTTL,
		Limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		Breaker:  gobreaker.NewCircuitBreaker(st),
		Log:      logger,
	}
}

type catalogError struct {
	StatusMessage string `json:"status_message"`
}

// catalogCacheKey derives the cache key from the request path and the
// caller's params only; the API credential never enters the key.
func catalogCacheKey(path string, params url.Values) string {
	return "catalog:" + path + "?" + params.Encode()
}

// get performs a cached, throttled GET against the catalog provider and
// decodes the JSON response into out.
func (cs *CatalogService) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	cacheKey := catalogCacheKey(path, params)
	params.Set("api_key", cs.APIKey)
	requestURL := cs.BaseURL + path + "?" + params.Encode()

	if cs.Cache != nil {
		if cached, err := cs.Cache.Get(ctx, cacheKey).Bytes(); err == nil {
			return json.Unmarshal(cached, out)
		}
	}

	if err := cs.Limiter.Wait(ctx); err != nil {
		return fmt.Errorf("catalog rate limiter: %w", err)
	}

	body, err := cs.Breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := cs.HTTP.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 400 {
			var ce catalogError
			if json.Unmarshal(raw, &ce) == nil && ce.StatusMessage != "" {
				return nil, fmt.Errorf("catalog request failed (%d): %s", resp.StatusCode, ce.StatusMessage)
			}
			return nil, fmt.Errorf("catalog request failed (%d)", resp.StatusCode)
		}

		return raw, nil
	})
	if err != nil {
		return err
	}

	raw := body.([]byte)
	if cs.Cache != nil {
		if err := cs.Cache.Set(ctx, cacheKey, raw, cs.CacheTTL).Err(); err != nil {
			cs.Log.Warnw("failed to cache catalog response", "key", cacheKey, "error", err)
		}
	}

	return json.Unmarshal(raw, out)
}

// DiscoverTitles runs a faceted discover query for one media type
func (cs *CatalogService) DiscoverTitles(ctx context.Context, mediaType string, params url.Values) (*models.TitlePage, error) {
	var page models.TitlePage
	if err := cs.get(ctx, "/discover/"+mediaType, params, &page); err != nil {
		return nil, err
	}
	for i := range page.Results {
		if page.Results[i].MediaType == "" {
			page.Results[i].MediaType = mediaType
		}
	}
	return &page, nil
}

// SearchTitles runs a multi-type text search
func (cs *CatalogService) SearchTitles(ctx context.Context, query string, page int) (*models.TitlePage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	var result models.TitlePage
	if err := cs.get(ctx, "/search/multi", params, &result); err != nil {
		return nil, err
	}

	// Multi search mixes in people; keep only movie and tv entries.
	titles := result.Results[:0]
	for _, t := range result.Results {
		if t.MediaType == models.MediaTypeMovie || t.MediaType == models.MediaTypeTV {
			titles = append(titles, t)
		}
	}
	result.Results = titles
	return &result, nil
}

// TrendingTitles returns the generic trending feed
func (cs *CatalogService) TrendingTitles(ctx context.Context, page int) (*models.TitlePage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var result models.TitlePage
	if err := cs.get(ctx, "/trending/all/day", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTitle fetches full details for a single title
func (cs *CatalogService) GetTitle(ctx context.Context, mediaType string, titleID int) (*models.Title, error) {
	var title models.Title
	if err := cs.get(ctx, fmt.Sprintf("/%s/%d", mediaType, titleID), nil, &title); err != nil {
		return nil, err
	}
	title.MediaType = mediaType
	return &title, nil
}

// GetGenres merges the movie and tv genre lists, deduplicated by id
func (cs *CatalogService) GetGenres(ctx context.Context) ([]models.Genre, error) {
	var merged []models.Genre
	seen := map[int]bool{}

	for _, mediaType := range []string{models.MediaTypeMovie, models.MediaTypeTV} {
		var result struct {
			Genres []models.Genre `json:"genres"`
		}
		if err := cs.get(ctx, "/genre/"+mediaType+"/list", nil, &result); err != nil {
			return nil, err
		}
		for _, g := range result.Genres {
			if !seen[g.ID] {
				seen[g.ID] = true
				merged = append(merged, g)
			}
		}
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].Name < merged[j].Name })
	return merged, nil
}

// HydrateTitles resolves title refs to full details in parallel. A failed
// lookup drops only that title; input order is preserved for the rest.
func (cs *CatalogService) HydrateTitles(ctx context.Context, refs []models.TitleRef) []models.Title {
	resolved := make([]*models.Title, len(refs))

	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref models.TitleRef) {
			defer wg.Done()
			title, err := cs.GetTitle(ctx, ref.MediaType, ref.TitleID)
			if err != nil {
				cs.Log.Warnw("failed to hydrate title", "titleId", ref.TitleID, "mediaType", ref.MediaType, "error", err)
				return
			}
			resolved[i] = title
		}(i, ref)
	}
	wg.Wait()

	titles := make([]models.Title, 0, len(refs))
	for _, t := range resolved {
		if t != nil {
			titles = append(titles, *t)
		}
	}
	return titles
}
