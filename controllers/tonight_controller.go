package controllers

import (
	"encoding/json"
	"net/http"

	"flickpick_server/models"
	"flickpick_server/services"
)

// TonightController handles HTTP requests for the tonight picks window
type TonightController struct {
	TonightService *services.TonightService
}

// NewTonightController creates a new TonightController instance
func NewTonightController(tonightService *services.TonightService) *TonightController {
	return &TonightController{TonightService: tonightService}
}

// GetTonight handles fetching a group's active picks and overlaps
func (tc *TonightController) GetTonight(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("groupId")
	if groupID == "" {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"picks":    []models.TonightPickView{},
			"overlaps": []models.TonightPickView{},
			"message":  "Join a group to plan tonight together",
		})
		return
	}

	picks, overlaps, err := tc.TonightService.GetTonight(r.Context(), groupID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if picks == nil {
		picks = []models.TonightPickView{}
	}
	if overlaps == nil {
		overlaps = []models.TonightPickView{}
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"picks":    picks,
		"overlaps": overlaps,
	})
}

type tonightPayload struct {
	UserID    string `json:"userId"`
	GroupID   string `json:"groupId"`
	MovieID   int    `json:"movieId"`
	MediaType string `json:"mediaType"`
}

func (p *tonightPayload) validate() string {
	switch {
	case p.UserID == "":
		return "userId is required"
	case p.GroupID == "":
		return "groupId is required"
	case p.MovieID == 0:
		return "movieId is required"
	case !models.IsValidMediaType(p.MediaType):
		return "mediaType must be 'movie' or 'tv'"
	}
	return ""
}

// AddPick handles inserting a pick for tonight
func (tc *TonightController) AddPick(w http.ResponseWriter, r *http.Request) {
	var payload tonightPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if msg := payload.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	pick := models.TonightPick{
		UserID:    payload.UserID,
		GroupID:   payload.GroupID,
		TitleID:   payload.MovieID,
		MediaType: payload.MediaType,
	}
	if err := tc.TonightService.AddPick(r.Context(), pick); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Pick added"})
}

// RemovePick handles un-picking a title
func (tc *TonightController) RemovePick(w http.ResponseWriter, r *http.Request) {
	var payload tonightPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if msg := payload.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	if err := tc.TonightService.RemovePick(r.Context(), payload.GroupID, payload.UserID, payload.MediaType, payload.MovieID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Pick removed"})
}
