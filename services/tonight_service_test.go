package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"flickpick_server/models"
	"flickpick_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTonightStore keeps picks in memory keyed by sort key, mirroring the
// table's upsert-by-key semantics.
type fakeTonightStore struct {
	picks map[string]models.TonightPick
}

func newFakeTonightStore() *fakeTonightStore {
	return &fakeTonightStore{picks: map[string]models.TonightPick{}}
}

func storeKeySK(key map[string]types.AttributeValue) string {
	return key["SK"].(*types.AttributeValueMemberS).Value
}

func (f *fakeTonightStore) PutItem(ctx context.Context, tableName string, item interface{}) error {
	p := item.(models.TonightPick)
	f.picks[p.SK] = p
	return nil
}

func (f *fakeTonightStore) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	delete(f.picks, storeKeySK(key))
	return nil
}

func (f *fakeTonightStore) QueryItems(ctx context.Context, input *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	prefix := input.ExpressionAttributeValues[":prefix"].(*types.AttributeValueMemberS).Value
	var items []map[string]types.AttributeValue
	for sk, p := range f.picks {
		if !strings.HasPrefix(sk, prefix) {
			continue
		}
		av, err := attributevalue.MarshalMap(p)
		if err != nil {
			return nil, err
		}
		items = append(items, av)
	}
	return items, nil
}

func (f *fakeTonightStore) BatchDeleteItems(ctx context.Context, tableName string, keys []map[string]types.AttributeValue) error {
	for _, key := range keys {
		delete(f.picks, storeKeySK(key))
	}
	return nil
}

func pick(userID string, titleID int, age time.Duration, now time.Time) models.TonightPick {
	return models.TonightPick{
		GroupID:   "g1",
		UserID:    userID,
		TitleID:   titleID,
		MediaType: models.MediaTypeMovie,
		CreatedAt: now.Add(-age),
	}
}

func TestActivePicksWindow(t *testing.T) {
	now := time.Now().UTC()
	picks := []models.TonightPick{
		pick("u1", 1, time.Hour, now),
		pick("u2", 2, 11*time.Hour, now),
		pick("u3", 3, 13*time.Hour, now), // aged out
	}

	active := ActivePicks(picks, now)
	require.Len(t, active, 2)
	assert.Equal(t, 1, active[0].TitleID)
	assert.Equal(t, 2, active[1].TitleID)
}

func TestPickAgesOutSilently(t *testing.T) {
	now := time.Now().UTC()
	picks := []models.TonightPick{pick("u1", 1, time.Hour, now)}

	assert.Len(t, ActivePicks(picks, now), 1)
	assert.Empty(t, ActivePicks(picks, now.Add(13*time.Hour)))
}

func TestOverlapPicks(t *testing.T) {
	now := time.Now().UTC()
	picks := []models.TonightPick{
		pick("u1", 1, time.Hour, now),
		pick("u2", 1, 2*time.Hour, now),
		pick("u1", 2, time.Hour, now),
	}

	overlaps := OverlapPicks(picks)
	require.Len(t, overlaps, 2)
	for _, o := range overlaps {
		assert.Equal(t, 1, o.TitleID)
	}
}

func TestOverlapRequiresDistinctUsers(t *testing.T) {
	now := time.Now().UTC()
	picks := []models.TonightPick{
		pick("u1", 1, time.Hour, now),
		pick("u1", 2, time.Hour, now),
	}

	assert.Empty(t, OverlapPicks(picks))
}

func TestAddPickOverwritesSameTitle(t *testing.T) {
	store := newFakeTonightStore()
	ts := &TonightService{Dynamo: store, Log: zap.NewNop().Sugar()}

	p := models.TonightPick{GroupID: "g1", UserID: "u1", TitleID: 7, MediaType: models.MediaTypeMovie}
	require.NoError(t, ts.AddPick(context.Background(), p))
	require.NoError(t, ts.AddPick(context.Background(), p))

	// Same user/title lands on the same sort key, so the second pick
	// replaces the first instead of duplicating it.
	require.Len(t, store.picks, 1)
	saved, ok := store.picks[utils.PickSortKey("u1", models.MediaTypeMovie, 7)]
	require.True(t, ok)
	assert.Equal(t, 7, saved.TitleID)
	assert.False(t, saved.CreatedAt.IsZero())
}

func TestAddPickPurgesOwnExpiredPicks(t *testing.T) {
	now := time.Now().UTC()
	stale := pick("u1", 1, 13*time.Hour, now)
	fresh := pick("u1", 2, time.Hour, now)
	otherStale := pick("u2", 3, 13*time.Hour, now)

	store := newFakeTonightStore()
	for _, p := range []models.TonightPick{stale, fresh, otherStale} {
		p.SK = utils.PickSortKey(p.UserID, p.MediaType, p.TitleID)
		store.picks[p.SK] = p
	}

	ts := &TonightService{Dynamo: store, Log: zap.NewNop().Sugar()}
	require.NoError(t, ts.AddPick(context.Background(), pick("u1", 9, 0, now)))

	assert.NotContains(t, store.picks, utils.PickSortKey("u1", models.MediaTypeMovie, 1))
	assert.Contains(t, store.picks, utils.PickSortKey("u1", models.MediaTypeMovie, 2))
	// Purge is scoped to the inserting user; other members' stale picks age
	// out at read time instead.
	assert.Contains(t, store.picks, utils.PickSortKey("u2", models.MediaTypeMovie, 3))
	assert.Contains(t, store.picks, utils.PickSortKey("u1", models.MediaTypeMovie, 9))
}

func TestPickViewsDropUnhydratedTitles(t *testing.T) {
	now := time.Now().UTC()
	picks := []models.TonightPick{
		pick("u1", 1, time.Hour, now),
		pick("u2", 2, time.Hour, now),
	}
	titles := map[models.TitleRef]models.Title{
		{TitleID: 1, MediaType: models.MediaTypeMovie}: {ID: 1, Title: "Hydrated", PosterPath: "/p.jpg"},
	}

	views := buildPickViews(picks, titles)
	require.Len(t, views, 1)
	assert.Equal(t, 1, views[0].TitleID)
	assert.Equal(t, "Hydrated", views[0].Title)
	assert.Equal(t, "/p.jpg", views[0].Image)
}

func TestOverlapDistinguishesMediaType(t *testing.T) {
	now := time.Now().UTC()
	movie := pick("u1", 1, time.Hour, now)
	tv := pick("u2", 1, time.Hour, now)
	tv.MediaType = models.MediaTypeTV

	// Same titleId but different media types is not an overlap.
	assert.Empty(t, OverlapPicks([]models.TonightPick{movie, tv}))
}
