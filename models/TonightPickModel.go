package models

import "time"

// TonightPick marks a member's intent to watch a title tonight. Picks age out
// of the active view after TonightWindow; expiry is computed at read time.
type TonightPick struct {
	GroupID   string    `dynamodbav:"groupId" json:"groupId"` // ✅ Partition Key
	SK        string    `dynamodbav:"SK" json:"-"`            // "PICK#<userId>#<mediaType>#<titleId>"
	UserID    string    `dynamodbav:"userId" json:"userId"`
	TitleID   int       `dynamodbav:"titleId" json:"movieId"`
	MediaType string    `dynamodbav:"mediaType" json:"mediaType"`
	CreatedAt time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

// TonightPickView is a pick enriched with catalog details for API responses.
type TonightPickView struct {
	UserID    string    `json:"userId"`
	TitleID   int       `json:"movieId"`
	MediaType string    `json:"mediaType"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}

// TonightPicksTable is the DynamoDB table name for tonight picks
const TonightPicksTable = "TonightPicks"

// TonightWindow is how long a pick stays in the active "tonight" view.
const TonightWindow = 12 * time.Hour
