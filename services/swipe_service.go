package services

import (
	"context"
	"fmt"
	"time"

	"flickpick_server/models"
	"flickpick_server/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// SwipeService maintains the per-user-per-title rating records.
type SwipeService struct {
	Dynamo  *DynamoService
	Tonight *TonightService
	Log     *zap.SugaredLogger
}

// SaveSwipe upserts a swipe by (user, title, mediaType, group); the latest
// swipe replaces any prior one for the same key, so replays are safe.
func (ss *SwipeService) SaveSwipe(ctx context.Context, swipe models.Swipe) error {
	swipe.SK = utils.SwipeSortKey(swipe.UserID, swipe.MediaType, swipe.TitleID)
	swipe.CreatedAt = time.Now().UTC()

	if err := ss.Dynamo.PutItem(ctx, models.SwipesTable, swipe); err != nil {
		return fmt.Errorf("failed to save swipe: %w", err)
	}

	// Advancing a title to watched resolves any active tonight pick for it.
	if swipe.Status == models.StatusWatched {
		if err := ss.Tonight.RemovePick(ctx, swipe.GroupID, swipe.UserID, swipe.MediaType, swipe.TitleID); err != nil {
			ss.Log.Warnw("failed to clear tonight pick for watched title",
				"groupId", swipe.GroupID, "userId", swipe.UserID, "titleId", swipe.TitleID, "error", err)
		}
	}

	return nil
}

// DeleteSwipe removes a user's rating of one title
func (ss *SwipeService) DeleteSwipe(ctx context.Context, groupID, userID, mediaType string, titleID int) error {
	key := utils.GroupItemKey(groupID, utils.SwipeSortKey(userID, mediaType, titleID))
	return ss.Dynamo.DeleteItem(ctx, models.SwipesTable, key)
}

// GroupSwipes returns every swipe recorded for a group
func (ss *SwipeService) GroupSwipes(ctx context.Context, groupID string) ([]models.Swipe, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(models.SwipesTable),
		KeyConditionExpression: aws.String("groupId = :groupId AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":groupId": &types.AttributeValueMemberS{Value: groupID},
			":prefix":  &types.AttributeValueMemberS{Value: "SWIPE#"},
		},
	}

	items, err := ss.Dynamo.QueryItems(ctx, input)
	if err != nil {
		return nil, err
	}

	var swipes []models.Swipe
	if err := attributevalue.UnmarshalListOfMaps(items, &swipes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal swipes: %w", err)
	}
	return swipes, nil
}
