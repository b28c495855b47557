package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"flickpick_server/models"
	"flickpick_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GroupService manages the membership directory and per-member streaming
// provider subscriptions.
type GroupService struct {
	Dynamo *DynamoService
	Log    *zap.SugaredLogger
}

// UnionProviderIDs merges every member's provider subscriptions. Union, not
// intersection: if one member can stream a title, the group can watch it on
// that member's account.
func UnionProviderIDs(memberProviders map[string][]int) []int {
	seen := map[int]bool{}
	var ids []int
	for _, providers := range memberProviders {
		for _, id := range providers {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Ints(ids)
	return ids
}

// CreateGroup creates a new group with the creator as its first member
func (gs *GroupService) CreateGroup(ctx context.Context, name, userID string) (*models.Group, error) {
	group := models.Group{
		GroupID:    uuid.NewString(),
		Name:       name,
		InviteCode: newInviteCode(),
		Members:    []string{userID},
		CreatedAt:  time.Now().UTC(),
	}

	if err := gs.Dynamo.PutItem(ctx, models.GroupsTable, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return &group, nil
}

// newInviteCode produces a short shareable code
func newInviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

// GetGroup retrieves a group by ID
func (gs *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	item, err := gs.Dynamo.GetItem(ctx, models.GroupsTable, utils.GroupKey(groupID))
	if err != nil {
		return nil, err
	}

	var group models.Group
	if err := attributevalue.UnmarshalMap(item, &group); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group: %w", err)
	}
	return &group, nil
}

// JoinGroup adds a user to the group matching the invite code. Joining twice
// is a no-op.
func (gs *GroupService) JoinGroup(ctx context.Context, inviteCode, userID string) (*models.Group, error) {
	items, err := gs.Dynamo.QueryItemsWithIndex(ctx, models.GroupsTable, models.InviteCodeIndex,
		"inviteCode = :inviteCode",
		map[string]types.AttributeValue{
			":inviteCode": &types.AttributeValueMemberS{Value: inviteCode},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrItemNotFound
	}

	var group models.Group
	if err := attributevalue.UnmarshalMap(items[0], &group); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group: %w", err)
	}

	if group.HasMember(userID) {
		return &group, nil
	}

	group.Members = append(group.Members, userID)
	if err := gs.Dynamo.PutItem(ctx, models.GroupsTable, group); err != nil {
		return nil, fmt.Errorf("failed to join group: %w", err)
	}
	return &group, nil
}

// LeaveGroup removes a member. Their swipes remain stored but stop counting
// toward matches, since aggregation reads membership live.
func (gs *GroupService) LeaveGroup(ctx context.Context, groupID, userID string) error {
	group, err := gs.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}

	members := group.Members[:0]
	for _, m := range group.Members {
		if m != userID {
			members = append(members, m)
		}
	}
	group.Members = members
	if group.MemberProviders != nil {
		delete(group.MemberProviders, userID)
	}

	if err := gs.Dynamo.PutItem(ctx, models.GroupsTable, *group); err != nil {
		return fmt.Errorf("failed to leave group: %w", err)
	}
	return nil
}

// SetMemberProviders replaces one member's streaming provider subscriptions
func (gs *GroupService) SetMemberProviders(ctx context.Context, groupID, userID string, providerIDs []int) error {
	group, err := gs.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.HasMember(userID) {
		return errors.New("user is not a member of the group")
	}

	if group.MemberProviders == nil {
		group.MemberProviders = map[string][]int{}
	}
	group.MemberProviders[userID] = providerIDs

	if err := gs.Dynamo.PutItem(ctx, models.GroupsTable, *group); err != nil {
		return fmt.Errorf("failed to update member providers: %w", err)
	}
	return nil
}

// UnionProviders returns the group's available provider IDs for discovery
func (gs *GroupService) UnionProviders(ctx context.Context, groupID string) ([]int, error) {
	group, err := gs.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return UnionProviderIDs(group.MemberProviders), nil
}

// SetPhotoKey records the S3 object key of the group's uploaded photo
func (gs *GroupService) SetPhotoKey(ctx context.Context, groupID, key string) error {
	group, err := gs.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	group.PhotoKey = key
	if err := gs.Dynamo.PutItem(ctx, models.GroupsTable, *group); err != nil {
		return fmt.Errorf("failed to update group photo: %w", err)
	}
	return nil
}
