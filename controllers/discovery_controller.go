package controllers

import (
	"encoding/json"
	"net/http"

	"flickpick_server/models"
	"flickpick_server/services"
)

// DiscoveryController handles HTTP requests for the discovery feed
type DiscoveryController struct {
	DiscoveryService *services.DiscoveryService
}

// NewDiscoveryController creates a new DiscoveryController instance
func NewDiscoveryController(discoveryService *services.DiscoveryService) *DiscoveryController {
	return &DiscoveryController{DiscoveryService: discoveryService}
}

type discoveryResponse struct {
	Results    []models.Title `json:"results"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Message    string         `json:"message,omitempty"`
}

// Discover handles a discovery request and returns one merged feed page
func (dc *DiscoveryController) Discover(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := services.ParseDiscoveryFilters(query)
	groupID := query.Get("groupId")
	userID := query.Get("userId")

	if filters.FamilyLiked && groupID == "" {
		// Group-scoped views without a group are empty, not an error.
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(discoveryResponse{
			Results: []models.Title{},
			Page:    1,
			Message: "Join a group to see titles your family liked",
		})
		return
	}

	page, err := dc.DiscoveryService.Discover(r.Context(), filters, groupID, userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if page.Results == nil {
		page.Results = []models.Title{}
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(discoveryResponse{
		Results:    page.Results,
		Page:       page.Page,
		TotalPages: page.TotalPages,
	})
}

// GetGenres handles fetching the merged movie/tv genre list
func (dc *DiscoveryController) GetGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := dc.DiscoveryService.Catalog.GetGenres(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"genres": genres})
}
