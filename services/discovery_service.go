package services

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"flickpick_server/models"

	"go.uber.org/zap"
)

const (
	// Classic mode: titles released on or before this date, with at least
	// this community rating unless the user asked for a stricter floor.
	classicCutoff    = "2000-12-31"
	classicVoteFloor = 7.0

	// New releases: released within this many days.
	newReleaseDays = 90

	familyLikedPageSize = 20
)

// ProviderResolver resolves a group's available streaming providers.
type ProviderResolver interface {
	UnionProviders(ctx context.Context, groupID string) ([]int, error)
}

// DiscoveryService composes discovery requests into catalog provider queries
// and merges the results into a single feed page.
type DiscoveryService struct {
	Catalog   *CatalogService
	Swipes    *SwipeService
	Providers ProviderResolver
	Log       *zap.SugaredLogger
}

// ParseDiscoveryFilters builds the filter object from request query parameters
func ParseDiscoveryFilters(q url.Values) models.DiscoveryFilters {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	mediaType := q.Get("type")
	if mediaType != models.MediaTypeMovie && mediaType != models.MediaTypeTV {
		mediaType = "all"
	}

	minRating, _ := strconv.ParseFloat(q.Get("minRating"), 64)

	return models.DiscoveryFilters{
		Page:          page,
		Type:          mediaType,
		Genres:        splitCSV(q.Get("genres")),
		AgeRatings:    splitCSV(q.Get("ageRating")),
		MinRating:     minRating,
		Runtimes:      splitCSV(q.Get("runtimes")),
		Language:      q.Get("language"),
		NewReleases:   q.Get("newReleases") == "true",
		SortBy:        q.Get("sortBy"),
		Query:         strings.TrimSpace(q.Get("query")),
		IsFree:        q.Get("isFree") == "true",
		IsClassic:     q.Get("isClassic") == "true",
		FamilyLiked:   q.Get("familyLiked") == "true",
		LikedByMember: q.Get("likedByMember"),
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// RuntimeBounds maps the selected runtime buckets to a covering min/max range.
// Contiguous buckets tighten the range; a gapped selection (e.g. "<90" plus
// "2+ hours") cannot be expressed as one range, so the runtime filter is
// dropped entirely rather than silently losing a bucket. Returns ok=false when
// no runtime constraint should be applied; a zero min or max means unbounded
// on that side.
func RuntimeBounds(buckets []string) (minRuntime, maxRuntime int, ok bool) {
	var selected [3]bool
	for _, b := range buckets {
		switch b {
		case models.RuntimeUnder90:
			selected[0] = true
		case models.Runtime90To120:
			selected[1] = true
		case models.RuntimeOver120:
			selected[2] = true
		}
	}

	first, last, count := -1, -1, 0
	for i, s := range selected {
		if s {
			if first == -1 {
				first = i
			}
			last = i
			count++
		}
	}

	if count == 0 || last-first+1 != count {
		return 0, 0, false
	}

	lowerBounds := [3]int{0, 90, 120}
	upperBounds := [3]int{90, 120, 0}
	minRuntime, maxRuntime = lowerBounds[first], upperBounds[last]
	if minRuntime == 0 && maxRuntime == 0 {
		// All buckets selected: the covering range is unbounded.
		return 0, 0, false
	}
	return minRuntime, maxRuntime, true
}

// CertificationSet unions the selected age-rating labels into the provider's
// pipe-delimited certification filter (OR semantics).
func CertificationSet(ratings []string) string {
	return strings.Join(ratings, "|")
}

// BuildDiscoverParams maps the filter object to provider query parameters for
// one media type.
func BuildDiscoverParams(f models.DiscoveryFilters, mediaType string, now time.Time) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(f.Page))
	params.Set("include_adult", "false")

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = "popularity.desc"
	}

	dateField := "primary_release_date"
	if mediaType == models.MediaTypeTV {
		dateField = "first_air_date"
	}

	if f.IsClassic {
		// Classic wins over newReleases; the latter is ignored.
		params.Set(dateField+".lte", classicCutoff)
		floor := classicVoteFloor
		if f.MinRating > floor {
			floor = f.MinRating
		}
		params.Set("vote_average.gte", strconv.FormatFloat(floor, 'f', 1, 64))
	} else {
		if f.MinRating > 0 {
			params.Set("vote_average.gte", strconv.FormatFloat(f.MinRating, 'f', 1, 64))
		}
		if f.NewReleases {
			params.Set(dateField+".gte", now.AddDate(0, 0, -newReleaseDays).Format("2006-01-02"))
			sortBy = dateField + ".desc"
		}
	}

	if len(f.Genres) > 0 {
		params.Set("with_genres", strings.Join(f.Genres, ","))
	}
	if cert := CertificationSet(f.AgeRatings); cert != "" {
		params.Set("certification", cert)
		params.Set("certification_country", "US")
	}
	if minRuntime, maxRuntime, ok := RuntimeBounds(f.Runtimes); ok {
		if minRuntime > 0 {
			params.Set("with_runtime.gte", strconv.Itoa(minRuntime))
		}
		if maxRuntime > 0 {
			params.Set("with_runtime.lte", strconv.Itoa(maxRuntime))
		}
	}
	if f.Language != "" {
		params.Set("with_original_language", f.Language)
	}
	if f.IsFree {
		params.Set("with_watch_monetization_types", "flatrate|free|ads")
		params.Set("watch_region", "US")
	}
	if len(f.WatchProviders) > 0 {
		ids := make([]string, len(f.WatchProviders))
		for i, id := range f.WatchProviders {
			ids[i] = strconv.Itoa(id)
		}
		params.Set("with_watch_providers", strings.Join(ids, "|"))
		params.Set("watch_region", "US")
	}

	params.Set("sort_by", sortBy)
	return params
}

// HasActiveFilters reports whether any user-supplied faceted filter is in
// play. The server-resolved provider union does not count: it must not pull a
// filterless request out of trending mode.
func HasActiveFilters(f models.DiscoveryFilters) bool {
	return len(f.Genres) > 0 ||
		len(f.AgeRatings) > 0 ||
		f.MinRating > 0 ||
		len(f.Runtimes) > 0 ||
		f.Language != "" ||
		f.NewReleases ||
		f.IsFree ||
		f.IsClassic ||
		f.SortBy != ""
}

// InterleaveTitles merges two result lists element by element (a[0], b[0],
// a[1], b[1], ...) so a mixed feed does not cluster by media type.
func InterleaveTitles(a, b []models.Title) []models.Title {
	merged := make([]models.Title, 0, len(a)+len(b))
	for i := 0; i < len(a) || i < len(b); i++ {
		if i < len(a) {
			merged = append(merged, a[i])
		}
		if i < len(b) {
			merged = append(merged, b[i])
		}
	}
	return merged
}

// MergeFanOut combines the movie and tv sub-feeds of a fan-out query. The
// merged feed is only as long as its shorter half, so total_pages is the
// minimum of the two.
func MergeFanOut(movies, tv *models.TitlePage) *models.TitlePage {
	totalPages := movies.TotalPages
	if tv.TotalPages < totalPages {
		totalPages = tv.TotalPages
	}
	return &models.TitlePage{
		Page:       movies.Page,
		Results:    InterleaveTitles(movies.Results, tv.Results),
		TotalPages: totalPages,
	}
}

// Discover routes a discovery request to the right query mode and returns one
// merged feed page.
func (ds *DiscoveryService) Discover(ctx context.Context, f models.DiscoveryFilters, groupID, userID string) (*models.TitlePage, error) {
	// Search mode: a non-empty text query takes exclusive precedence over
	// every other filter.
	if f.Query != "" {
		return ds.Catalog.SearchTitles(ctx, f.Query, f.Page)
	}

	if f.FamilyLiked {
		return ds.FamilyLiked(ctx, groupID, userID, f.LikedByMember, f.Page)
	}

	now := time.Now()

	if f.Type == models.MediaTypeMovie || f.Type == models.MediaTypeTV {
		ds.resolveProviders(ctx, &f, groupID)
		return ds.Catalog.DiscoverTitles(ctx, f.Type, BuildDiscoverParams(f, f.Type, now))
	}

	// No user-supplied filter means trending, regardless of the group's
	// provider subscriptions on file.
	if !HasActiveFilters(f) {
		return ds.Catalog.TrendingTitles(ctx, f.Page)
	}

	ds.resolveProviders(ctx, &f, groupID)
	return ds.fanOut(ctx, f, now)
}

// resolveProviders fills in the group's streaming provider union. Availability
// filtering is best effort: a failed resolution falls back to an unfiltered
// feed.
func (ds *DiscoveryService) resolveProviders(ctx context.Context, f *models.DiscoveryFilters, groupID string) {
	if ds.Providers == nil || groupID == "" {
		return
	}
	providerIDs, err := ds.Providers.UnionProviders(ctx, groupID)
	if err != nil {
		ds.Log.Warnw("provider resolution failed, skipping availability filter", "groupId", groupID, "error", err)
		return
	}
	f.WatchProviders = providerIDs
}

// fanOut issues movie and tv sub-queries in parallel and interleaves them
func (ds *DiscoveryService) fanOut(ctx context.Context, f models.DiscoveryFilters, now time.Time) (*models.TitlePage, error) {
	var (
		moviePage, tvPage *models.TitlePage
		movieErr, tvErr   error
		wg                sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		moviePage, movieErr = ds.Catalog.DiscoverTitles(ctx, models.MediaTypeMovie, BuildDiscoverParams(f, models.MediaTypeMovie, now))
	}()
	go func() {
		defer wg.Done()
		tvPage, tvErr = ds.Catalog.DiscoverTitles(ctx, models.MediaTypeTV, BuildDiscoverParams(f, models.MediaTypeTV, now))
	}()
	wg.Wait()

	if movieErr != nil {
		return nil, fmt.Errorf("movie discovery failed: %w", movieErr)
	}
	if tvErr != nil {
		return nil, fmt.Errorf("tv discovery failed: %w", tvErr)
	}

	return MergeFanOut(moviePage, tvPage), nil
}

// FamilyLiked serves the "family liked" feed from already-recorded swipes of
// other group members instead of the catalog discovery endpoint. The local
// result set is deduplicated, paginated, then hydrated per title.
func (ds *DiscoveryService) FamilyLiked(ctx context.Context, groupID, userID, likedByMember string, page int) (*models.TitlePage, error) {
	if groupID == "" {
		return &models.TitlePage{Page: 1, Results: []models.Title{}, TotalPages: 0}, nil
	}

	swipes, err := ds.Swipes.GroupSwipes(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to read group swipes: %w", err)
	}

	refs := familyLikedRefs(swipes, userID, likedByMember)
	pageRefs, totalPages := paginateRefs(refs, page, familyLikedPageSize)

	return &models.TitlePage{
		Page:       page,
		Results:    ds.Catalog.HydrateTitles(ctx, pageRefs),
		TotalPages: totalPages,
	}, nil
}

// familyLikedRefs keeps other members' enthusiastic swipes (score >= want),
// optionally restricted to one member, deduplicated by title and ordered by
// best score then titleId.
func familyLikedRefs(swipes []models.Swipe, excludeUserID, likedByMember string) []models.TitleRef {
	type liked struct {
		ref   models.TitleRef
		score int
	}
	best := map[models.TitleRef]int{}

	for _, s := range swipes {
		if s.Score < models.ScoreWant || s.UserID == excludeUserID {
			continue
		}
		if likedByMember != "" && s.UserID != likedByMember {
			continue
		}
		ref := models.TitleRef{TitleID: s.TitleID, MediaType: s.MediaType}
		if s.Score > best[ref] {
			best[ref] = s.Score
		}
	}

	entries := make([]liked, 0, len(best))
	for ref, score := range best {
		entries = append(entries, liked{ref: ref, score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		if entries[i].ref.TitleID != entries[j].ref.TitleID {
			return entries[i].ref.TitleID < entries[j].ref.TitleID
		}
		return entries[i].ref.MediaType < entries[j].ref.MediaType
	})

	refs := make([]models.TitleRef, len(entries))
	for i, e := range entries {
		refs[i] = e.ref
	}
	return refs
}

// paginateRefs slices refs into fixed-size pages
func paginateRefs(refs []models.TitleRef, page, pageSize int) ([]models.TitleRef, int) {
	if page < 1 {
		page = 1
	}
	totalPages := (len(refs) + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start >= len(refs) {
		return nil, totalPages
	}
	end := start + pageSize
	if end > len(refs) {
		end = len(refs)
	}
	return refs[start:end], totalPages
}
