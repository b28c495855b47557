package models

import "time"

// Group is the membership directory entry: who can swipe together, plus each
// member's selected streaming providers.
type Group struct {
	GroupID         string           `dynamodbav:"groupId" json:"groupId"` // ✅ Partition Key
	Name            string           `dynamodbav:"name" json:"name"`
	InviteCode      string           `dynamodbav:"inviteCode" json:"inviteCode"` // Indexed via GSI
	Members         []string         `dynamodbav:"members" json:"members"`
	MemberProviders map[string][]int `dynamodbav:"memberProviders,omitempty" json:"memberProviders,omitempty"` // userId -> provider IDs
	PhotoKey        string           `dynamodbav:"photoKey,omitempty" json:"photoKey,omitempty"`
	CreatedAt       time.Time        `dynamodbav:"createdAt" json:"createdAt"`
}

// HasMember reports whether userID is a current member of the group
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// GroupsTable is the DynamoDB table name for groups
const GroupsTable = "Groups"

// InviteCodeIndex is the GSI for resolving invite codes to groups
const InviteCodeIndex = "inviteCode-index"
