package controllers

import (
	"encoding/json"
	"net/http"

	"flickpick_server/models"
	"flickpick_server/services"
)

// MatchController handles HTTP requests for consensus matches
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

// GetMatches handles fetching the ranked match list for a group
func (mc *MatchController) GetMatches(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("groupId")
	if groupID == "" {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"matches": []models.Match{},
			"message": "Join a group to see your matches",
		})
		return
	}

	matches, err := mc.MatchService.GetMatches(r.Context(), groupID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"matches": matches,
	})
}
