package models

import "time"

// Swipe represents one user's rating of one title within one group.
// Unique per (groupId, userId, mediaType, titleId); re-rating replaces the row.
type Swipe struct {
	GroupID   string    `dynamodbav:"groupId" json:"groupId"`     // ✅ Partition Key
	SK        string    `dynamodbav:"SK" json:"-"`                // "SWIPE#<userId>#<mediaType>#<titleId>"
	UserID    string    `dynamodbav:"userId" json:"userId"`
	TitleID   int       `dynamodbav:"titleId" json:"movieId"`
	MediaType string    `dynamodbav:"mediaType" json:"mediaType"` // "movie" or "tv"
	Score     int       `dynamodbav:"score" json:"score"`         // 0..3
	Status    string    `dynamodbav:"status" json:"status"`       // swiped, watching, watched
	CreatedAt time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

// SwipesTable is the DynamoDB table name for swipe records
const SwipesTable = "Swipes"
