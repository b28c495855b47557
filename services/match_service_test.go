package services

import (
	"testing"

	"flickpick_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swipe(userID string, titleID int, mediaType string, score int) models.Swipe {
	return models.Swipe{
		GroupID:   "g1",
		UserID:    userID,
		TitleID:   titleID,
		MediaType: mediaType,
		Score:     score,
		Status:    models.StatusSwiped,
	}
}

func TestEvaluateConsensus(t *testing.T) {
	tests := []struct {
		name         string
		scores       []int
		totalMembers int
		wantScore    int
		wantMatch    bool
	}{
		{name: "enthusiastic pair matches", scores: []int{3, 2}, totalMembers: 2, wantScore: 5, wantMatch: true},
		{name: "single nope vetoes", scores: []int{3, 0}, totalMembers: 2, wantMatch: false},
		{name: "universal indifference is no match", scores: []int{1, 1}, totalMembers: 2, wantMatch: false},
		{name: "incomplete set has no verdict", scores: []int{3}, totalMembers: 2, wantMatch: false},
		{name: "lukewarm plus enthusiasts matches", scores: []int{2, 1, 3}, totalMembers: 3, wantScore: 6, wantMatch: true},
		{name: "group of one matches itself", scores: []int{2}, totalMembers: 1, wantScore: 2, wantMatch: true},
		{name: "group of one lukewarm does not", scores: []int{1}, totalMembers: 1, wantMatch: false},
		{name: "veto beats enthusiasm", scores: []int{0, 3, 3}, totalMembers: 3, wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			swipes := make([]models.Swipe, len(tt.scores))
			for i, s := range tt.scores {
				swipes[i] = swipe(string(rune('a'+i)), 42, models.MediaTypeMovie, s)
			}

			score, matched := EvaluateConsensus(swipes, tt.totalMembers)
			assert.Equal(t, tt.wantMatch, matched)
			if tt.wantMatch {
				assert.Equal(t, tt.wantScore, score)
			}
		})
	}
}

func TestComputeMatchesRanking(t *testing.T) {
	members := []string{"u1", "u2"}
	swipes := []models.Swipe{
		swipe("u1", 5, models.MediaTypeMovie, 2),
		swipe("u2", 5, models.MediaTypeMovie, 2),
		swipe("u1", 10, models.MediaTypeMovie, 3),
		swipe("u2", 10, models.MediaTypeMovie, 1),
		swipe("u1", 7, models.MediaTypeTV, 3),
		swipe("u2", 7, models.MediaTypeTV, 3),
	}

	matches := ComputeMatches(swipes, members)
	require.Len(t, matches, 3)

	// Highest sum first; equal sums fall back to ascending titleId.
	assert.Equal(t, 7, matches[0].TitleID)
	assert.Equal(t, 6, matches[0].Score)
	assert.Equal(t, 5, matches[1].TitleID)
	assert.Equal(t, 10, matches[2].TitleID)
	assert.Equal(t, 2, matches[0].SwipeCount)
}

func TestComputeMatchesRequiresFullParticipation(t *testing.T) {
	members := []string{"u1", "u2", "u3"}
	swipes := []models.Swipe{
		swipe("u1", 5, models.MediaTypeMovie, 3),
		swipe("u2", 5, models.MediaTypeMovie, 3),
	}

	matches := ComputeMatches(swipes, members)
	assert.Empty(t, matches)
}

func TestMatchesExcludeDepartedMembers(t *testing.T) {
	// u3 swiped a veto, then left the group. Membership is read live, so the
	// departed vote must neither veto nor count toward the sum.
	members := []string{"u1", "u2"}
	swipes := []models.Swipe{
		swipe("u1", 5, models.MediaTypeMovie, 3),
		swipe("u2", 5, models.MediaTypeMovie, 2),
		swipe("u3", 5, models.MediaTypeMovie, 0),
	}

	matches := ComputeMatches(swipes, members)
	require.Len(t, matches, 1)
	assert.Equal(t, 5, matches[0].Score)
	assert.Equal(t, 2, matches[0].SwipeCount)
}
