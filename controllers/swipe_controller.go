package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"flickpick_server/models"

	"go.uber.org/zap"
)

type swipeWriter interface {
	SaveSwipe(ctx context.Context, swipe models.Swipe) error
	DeleteSwipe(ctx context.Context, groupID, userID, mediaType string, titleID int) error
}

type consensusChecker interface {
	CheckTitle(ctx context.Context, groupID string, titleID int, mediaType string) (int, bool, error)
}

// SwipeController handles HTTP requests for swipe recording
type SwipeController struct {
	SwipeService swipeWriter
	MatchService consensusChecker
	Log          *zap.SugaredLogger
}

// NewSwipeController creates a new SwipeController instance
func NewSwipeController(swipeService swipeWriter, matchService consensusChecker, logger *zap.SugaredLogger) *SwipeController {
	return &SwipeController{SwipeService: swipeService, MatchService: matchService, Log: logger}
}

// RecordSwipe handles upserting a user's rating of a title
func (sc *SwipeController) RecordSwipe(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID    string `json:"userId"`
		GroupID   string `json:"groupId"`
		MovieID   int    `json:"movieId"`
		MediaType string `json:"mediaType"`
		Score     *int   `json:"score"`
		Status    string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	switch {
	case payload.UserID == "":
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	case payload.GroupID == "":
		http.Error(w, "groupId is required", http.StatusBadRequest)
		return
	case payload.MovieID == 0:
		http.Error(w, "movieId is required", http.StatusBadRequest)
		return
	case !models.IsValidMediaType(payload.MediaType):
		http.Error(w, "mediaType must be 'movie' or 'tv'", http.StatusBadRequest)
		return
	case payload.Score == nil:
		http.Error(w, "score is required", http.StatusBadRequest)
		return
	case *payload.Score < models.ScoreNope || *payload.Score > models.ScoreMustWatch:
		http.Error(w, "score must be between 0 and 3", http.StatusBadRequest)
		return
	}

	status := payload.Status
	if status == "" {
		status = models.StatusSwiped
	}
	if !models.IsValidStatus(status) {
		http.Error(w, "status must be 'swiped', 'watching' or 'watched'", http.StatusBadRequest)
		return
	}

	swipe := models.Swipe{
		UserID:    payload.UserID,
		GroupID:   payload.GroupID,
		TitleID:   payload.MovieID,
		MediaType: payload.MediaType,
		Score:     *payload.Score,
		Status:    status,
	}
	if err := sc.SwipeService.SaveSwipe(r.Context(), swipe); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Re-evaluate consensus for this title; a broadcast goes out on a match.
	// The swipe is already saved, so a failed check only loses the inline
	// match hint.
	response := map[string]interface{}{"message": "Swipe recorded", "matched": false}
	score, matched, err := sc.MatchService.CheckTitle(r.Context(), payload.GroupID, payload.MovieID, payload.MediaType)
	if err != nil {
		sc.Log.Warnw("failed to re-evaluate consensus after swipe", "groupId", payload.GroupID, "movieId", payload.MovieID, "error", err)
	} else if matched {
		response["matched"] = true
		response["matchScore"] = score
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// DeleteSwipe handles removing a user's rating of a title
func (sc *SwipeController) DeleteSwipe(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID    string `json:"userId"`
		GroupID   string `json:"groupId"`
		MovieID   int    `json:"movieId"`
		MediaType string `json:"mediaType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if payload.UserID == "" || payload.GroupID == "" || payload.MovieID == 0 || !models.IsValidMediaType(payload.MediaType) {
		http.Error(w, "userId, groupId, movieId and mediaType are required", http.StatusBadRequest)
		return
	}

	if err := sc.SwipeService.DeleteSwipe(r.Context(), payload.GroupID, payload.UserID, payload.MediaType, payload.MovieID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Swipe removed"})
}
