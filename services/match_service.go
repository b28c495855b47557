package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"flickpick_server/models"

	"go.uber.org/zap"
)

// Broadcaster pushes realtime events to a group's room.
type Broadcaster interface {
	BroadcastToGroup(groupID, event string, payload interface{})
}

// MatchService derives group consensus matches from swipe records. Matches are
// recomputed on every read, never stored.
type MatchService struct {
	Swipes  *SwipeService
	Groups  *GroupService
	Catalog *CatalogService
	Notify  Broadcaster // optional
	Log     *zap.SugaredLogger
}

// EvaluateConsensus applies the consensus rule to one title's swipes:
// no verdict until every member has rated; a single 0 vetoes the title;
// at least one member must score 2 or higher; the verdict is the score sum.
func EvaluateConsensus(swipes []models.Swipe, totalFamilyMembers int) (int, bool) {
	if len(swipes) < totalFamilyMembers {
		return 0, false
	}

	sum := 0
	hasEnthusiast := false
	for _, s := range swipes {
		if s.Score == models.ScoreNope {
			return 0, false
		}
		if s.Score >= models.ScoreWant {
			hasEnthusiast = true
		}
		sum += s.Score
	}

	if !hasEnthusiast {
		return 0, false
	}
	return sum, true
}

// ComputeMatches evaluates every title a group has swiped on and returns the
// matched ones ranked by aggregate score. Swipes from users who are no longer
// members are excluded before evaluation, so a departed member neither vetoes
// nor inflates a title.
func ComputeMatches(swipes []models.Swipe, members []string) []models.MatchCandidate {
	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}

	byTitle := map[models.TitleRef][]models.Swipe{}
	for _, s := range swipes {
		if !memberSet[s.UserID] {
			continue
		}
		ref := models.TitleRef{TitleID: s.TitleID, MediaType: s.MediaType}
		byTitle[ref] = append(byTitle[ref], s)
	}

	var matches []models.MatchCandidate
	for ref, titleSwipes := range byTitle {
		if score, ok := EvaluateConsensus(titleSwipes, len(members)); ok {
			matches = append(matches, models.MatchCandidate{
				TitleID:    ref.TitleID,
				MediaType:  ref.MediaType,
				Score:      score,
				SwipeCount: len(titleSwipes),
			})
		}
	}

	// Descending score; titleId then mediaType keep the order reproducible.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].TitleID != matches[j].TitleID {
			return matches[i].TitleID < matches[j].TitleID
		}
		return matches[i].MediaType < matches[j].MediaType
	})
	return matches
}

// GetMatches returns the group's ranked matches hydrated with catalog details
func (ms *MatchService) GetMatches(ctx context.Context, groupID string) ([]models.Match, error) {
	group, err := ms.Groups.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return []models.Match{}, nil
		}
		return nil, fmt.Errorf("failed to load group: %w", err)
	}

	swipes, err := ms.Swipes.GroupSwipes(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load group swipes: %w", err)
	}

	candidates := ComputeMatches(swipes, group.Members)

	refs := make([]models.TitleRef, len(candidates))
	for i, c := range candidates {
		refs[i] = models.TitleRef{TitleID: c.TitleID, MediaType: c.MediaType}
	}
	titles := ms.Catalog.HydrateTitles(ctx, refs)

	byRef := make(map[models.TitleRef]models.Title, len(titles))
	for _, t := range titles {
		byRef[models.TitleRef{TitleID: t.ID, MediaType: t.MediaType}] = t
	}

	matches := make([]models.Match, 0, len(candidates))
	for _, c := range candidates {
		title, ok := byRef[models.TitleRef{TitleID: c.TitleID, MediaType: c.MediaType}]
		if !ok {
			// Hydration failed for this title; drop it rather than fail the list.
			continue
		}
		matches = append(matches, models.Match{
			ID:         c.TitleID,
			Title:      title.DisplayName(),
			Image:      title.PosterPath,
			Score:      c.Score,
			SwipeCount: c.SwipeCount,
			MediaType:  c.MediaType,
			Year:       title.Year(),
		})
	}
	return matches, nil
}

// CheckTitle re-evaluates one title after a swipe and broadcasts a matchFound
// event to the group's room when consensus is reached. Returns the verdict.
func (ms *MatchService) CheckTitle(ctx context.Context, groupID string, titleID int, mediaType string) (int, bool, error) {
	group, err := ms.Groups.GetGroup(ctx, groupID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to load group: %w", err)
	}

	swipes, err := ms.Swipes.GroupSwipes(ctx, groupID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to load group swipes: %w", err)
	}

	memberSet := make(map[string]bool, len(group.Members))
	for _, m := range group.Members {
		memberSet[m] = true
	}

	var titleSwipes []models.Swipe
	for _, s := range swipes {
		if s.TitleID == titleID && s.MediaType == mediaType && memberSet[s.UserID] {
			titleSwipes = append(titleSwipes, s)
		}
	}

	score, matched := EvaluateConsensus(titleSwipes, len(group.Members))
	if matched && ms.Notify != nil {
		ms.Notify.BroadcastToGroup(groupID, "matchFound", map[string]interface{}{
			"movieId":   titleID,
			"mediaType": mediaType,
			"score":     score,
		})
	}
	return score, matched, nil
}
