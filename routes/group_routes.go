package routes

import (
	"flickpick_server/controllers"
	"flickpick_server/services"

	"github.com/gorilla/mux"
)

// RegisterGroupRoutes sets up routes for group membership under /api/groups
func RegisterGroupRoutes(r *mux.Router, groupService *services.GroupService) {
	controller := controllers.NewGroupController(groupService)

	groupRouter := r.PathPrefix("/api/groups").Subrouter()
	groupRouter.HandleFunc("", controller.CreateGroup).Methods("POST")
	groupRouter.HandleFunc("/join", controller.JoinGroup).Methods("POST")
	groupRouter.HandleFunc("/{groupId}", controller.GetGroup).Methods("GET")
	groupRouter.HandleFunc("/{groupId}/members/{userId}", controller.LeaveGroup).Methods("DELETE")
	groupRouter.HandleFunc("/{groupId}/providers", controller.GetProviders).Methods("GET")
	groupRouter.HandleFunc("/{groupId}/providers", controller.SetProviders).Methods("POST")
}
