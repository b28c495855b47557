package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"flickpick_server/models"
	"flickpick_server/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// TonightStore is the slice of storage operations the tonight set needs.
// *DynamoService satisfies it.
type TonightStore interface {
	PutItem(ctx context.Context, tableName string, item interface{}) error
	DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error
	QueryItems(ctx context.Context, input *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error)
	BatchDeleteItems(ctx context.Context, tableName string, keys []map[string]types.AttributeValue) error
}

// TonightService maintains the rolling "what are we watching tonight" set.
// Expiry is lazy: the active view filters on age at read time, and a user's
// stale picks are purged when they insert a new one.
type TonightService struct {
	Dynamo  TonightStore
	Catalog *CatalogService
	Notify  Broadcaster // optional
	Log     *zap.SugaredLogger
}

// ActivePicks filters picks to those younger than the tonight window at now
func ActivePicks(picks []models.TonightPick, now time.Time) []models.TonightPick {
	var active []models.TonightPick
	for _, p := range picks {
		if now.Sub(p.CreatedAt) < models.TonightWindow {
			active = append(active, p)
		}
	}
	return active
}

// OverlapPicks returns the picks whose (title, mediaType) was independently
// chosen by at least two distinct users.
func OverlapPicks(picks []models.TonightPick) []models.TonightPick {
	users := map[models.TitleRef]map[string]bool{}
	for _, p := range picks {
		ref := models.TitleRef{TitleID: p.TitleID, MediaType: p.MediaType}
		if users[ref] == nil {
			users[ref] = map[string]bool{}
		}
		users[ref][p.UserID] = true
	}

	var overlaps []models.TonightPick
	for _, p := range picks {
		ref := models.TitleRef{TitleID: p.TitleID, MediaType: p.MediaType}
		if len(users[ref]) >= 2 {
			overlaps = append(overlaps, p)
		}
	}
	return overlaps
}

// AddPick upserts a pick after purging the user's picks older than the window
func (ts *TonightService) AddPick(ctx context.Context, pick models.TonightPick) error {
	if err := ts.purgeExpired(ctx, pick.GroupID, pick.UserID); err != nil {
		return err
	}

	pick.SK = utils.PickSortKey(pick.UserID, pick.MediaType, pick.TitleID)
	pick.CreatedAt = time.Now().UTC()
	if err := ts.Dynamo.PutItem(ctx, models.TonightPicksTable, pick); err != nil {
		return fmt.Errorf("failed to save tonight pick: %w", err)
	}

	ts.notifyOverlap(ctx, pick)
	return nil
}

// RemovePick deletes a pick (explicit un-pick, or resolved via watched status)
func (ts *TonightService) RemovePick(ctx context.Context, groupID, userID, mediaType string, titleID int) error {
	key := utils.GroupItemKey(groupID, utils.PickSortKey(userID, mediaType, titleID))
	return ts.Dynamo.DeleteItem(ctx, models.TonightPicksTable, key)
}

// GetTonight returns the group's active picks and the overlapping subset,
// both hydrated with catalog details.
func (ts *TonightService) GetTonight(ctx context.Context, groupID string) ([]models.TonightPickView, []models.TonightPickView, error) {
	picks, err := ts.groupPicks(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	active := ActivePicks(picks, time.Now().UTC())
	sort.Slice(active, func(i, j int) bool {
		if !active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].CreatedAt.After(active[j].CreatedAt)
		}
		return active[i].SK < active[j].SK
	})
	overlaps := OverlapPicks(active)

	titles := ts.hydratePickTitles(ctx, active)
	return buildPickViews(active, titles), buildPickViews(overlaps, titles), nil
}

func (ts *TonightService) groupPicks(ctx context.Context, groupID string) ([]models.TonightPick, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(models.TonightPicksTable),
		KeyConditionExpression: aws.String("groupId = :groupId AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":groupId": &types.AttributeValueMemberS{Value: groupID},
			":prefix":  &types.AttributeValueMemberS{Value: "PICK#"},
		},
	}

	items, err := ts.Dynamo.QueryItems(ctx, input)
	if err != nil {
		return nil, err
	}

	var picks []models.TonightPick
	if err := attributevalue.UnmarshalListOfMaps(items, &picks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tonight picks: %w", err)
	}
	return picks, nil
}

// purgeExpired deletes the user's picks older than the window so per-user
// history stays bounded without a background sweeper.
func (ts *TonightService) purgeExpired(ctx context.Context, groupID, userID string) error {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(models.TonightPicksTable),
		KeyConditionExpression: aws.String("groupId = :groupId AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":groupId": &types.AttributeValueMemberS{Value: groupID},
			":prefix":  &types.AttributeValueMemberS{Value: utils.UserPickPrefix(userID)},
		},
	}

	items, err := ts.Dynamo.QueryItems(ctx, input)
	if err != nil {
		return err
	}

	var picks []models.TonightPick
	if err := attributevalue.UnmarshalListOfMaps(items, &picks); err != nil {
		return fmt.Errorf("failed to unmarshal tonight picks: %w", err)
	}

	cutoff := time.Now().UTC().Add(-models.TonightWindow)
	var expired []map[string]types.AttributeValue
	for _, p := range picks {
		if p.CreatedAt.Before(cutoff) {
			expired = append(expired, utils.GroupItemKey(p.GroupID, p.SK))
		}
	}

	if len(expired) == 0 {
		return nil
	}
	return ts.Dynamo.BatchDeleteItems(ctx, models.TonightPicksTable, expired)
}

// notifyOverlap broadcasts when the new pick turned its title into an overlap
func (ts *TonightService) notifyOverlap(ctx context.Context, pick models.TonightPick) {
	if ts.Notify == nil {
		return
	}

	picks, err := ts.groupPicks(ctx, pick.GroupID)
	if err != nil {
		ts.Log.Warnw("failed to check for tonight overlap", "groupId", pick.GroupID, "error", err)
		return
	}

	for _, p := range OverlapPicks(ActivePicks(picks, time.Now().UTC())) {
		if p.TitleID == pick.TitleID && p.MediaType == pick.MediaType {
			ts.Notify.BroadcastToGroup(pick.GroupID, "tonightOverlap", map[string]interface{}{
				"movieId":   pick.TitleID,
				"mediaType": pick.MediaType,
			})
			return
		}
	}
}

func (ts *TonightService) hydratePickTitles(ctx context.Context, picks []models.TonightPick) map[models.TitleRef]models.Title {
	seen := map[models.TitleRef]bool{}
	var refs []models.TitleRef
	for _, p := range picks {
		ref := models.TitleRef{TitleID: p.TitleID, MediaType: p.MediaType}
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}

	byRef := map[models.TitleRef]models.Title{}
	for _, t := range ts.Catalog.HydrateTitles(ctx, refs) {
		byRef[models.TitleRef{TitleID: t.ID, MediaType: t.MediaType}] = t
	}
	return byRef
}

// buildPickViews assembles API views for picks whose title hydration
// succeeded; a failed hydration drops the pick from the response.
func buildPickViews(picks []models.TonightPick, titles map[models.TitleRef]models.Title) []models.TonightPickView {
	views := make([]models.TonightPickView, 0, len(picks))
	for _, p := range picks {
		t, ok := titles[models.TitleRef{TitleID: p.TitleID, MediaType: p.MediaType}]
		if !ok {
			continue
		}
		views = append(views, models.TonightPickView{
			UserID:    p.UserID,
			TitleID:   p.TitleID,
			MediaType: p.MediaType,
			Title:     t.DisplayName(),
			Image:     t.PosterPath,
			CreatedAt: p.CreatedAt,
		})
	}
	return views
}
