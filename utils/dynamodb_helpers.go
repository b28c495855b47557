package utils

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SwipeSortKey builds the sort key for a swipe row. The full key makes an
// upsert by (user, mediaType, title) a plain PutItem.
func SwipeSortKey(userID, mediaType string, titleID int) string {
	return fmt.Sprintf("SWIPE#%s#%s#%d", userID, mediaType, titleID)
}

// PickSortKey builds the sort key for a tonight pick row
func PickSortKey(userID, mediaType string, titleID int) string {
	return fmt.Sprintf("PICK#%s#%s#%d", userID, mediaType, titleID)
}

// UserPickPrefix is the sort-key prefix covering all of one user's picks
func UserPickPrefix(userID string) string {
	return fmt.Sprintf("PICK#%s#", userID)
}

// GroupItemKey builds the composite primary key for a row in a group-keyed table
func GroupItemKey(groupID, sortKey string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"groupId": &types.AttributeValueMemberS{Value: groupID},
		"SK":      &types.AttributeValueMemberS{Value: sortKey},
	}
}

// GroupKey builds the primary key for the Groups table
func GroupKey(groupID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"groupId": &types.AttributeValueMemberS{Value: groupID},
	}
}
