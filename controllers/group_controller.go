package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"flickpick_server/services"

	"github.com/gorilla/mux"
)

// GroupController handles HTTP requests for group membership
type GroupController struct {
	GroupService *services.GroupService
}

// NewGroupController creates a new GroupController instance
func NewGroupController(groupService *services.GroupService) *GroupController {
	return &GroupController{GroupService: groupService}
}

// CreateGroup handles creating a new group with the caller as first member
func (gc *GroupController) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name   string `json:"name"`
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if payload.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	group, err := gc.GroupService.CreateGroup(r.Context(), payload.Name, payload.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(group)
}

// JoinGroup handles joining a group by invite code
func (gc *GroupController) JoinGroup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		InviteCode string `json:"inviteCode"`
		UserID     string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.InviteCode == "" {
		http.Error(w, "inviteCode is required", http.StatusBadRequest)
		return
	}
	if payload.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	group, err := gc.GroupService.JoinGroup(r.Context(), payload.InviteCode, payload.UserID)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			http.Error(w, "Invite code not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(group)
}

// GetGroup handles fetching a group by ID
func (gc *GroupController) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	group, err := gc.GroupService.GetGroup(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			http.Error(w, "Group not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(group)
}

// LeaveGroup handles removing a member from a group
func (gc *GroupController) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	groupID := vars["groupId"]
	userID := vars["userId"]

	if err := gc.GroupService.LeaveGroup(r.Context(), groupID, userID); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			http.Error(w, "Group not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Left group"})
}

// GetProviders handles fetching a group's streaming provider subscriptions
func (gc *GroupController) GetProviders(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	group, err := gc.GroupService.GetGroup(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			http.Error(w, "Group not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	providers := services.UnionProviderIDs(group.MemberProviders)
	if providers == nil {
		providers = []int{}
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"providers":       providers,
		"memberProviders": group.MemberProviders,
	})
}

// SetProviders handles replacing one member's provider subscriptions
func (gc *GroupController) SetProviders(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	var payload struct {
		UserID    string `json:"userId"`
		Providers []int  `json:"providers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	if err := gc.GroupService.SetMemberProviders(r.Context(), groupID, payload.UserID, payload.Providers); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			http.Error(w, "Group not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Providers updated"})
}
