package routes

import (
	"flickpick_server/controllers"
	"flickpick_server/services"

	"github.com/gorilla/mux"
)

// RegisterDiscoveryRoutes sets up routes for the discovery feed under /api/discovery
func RegisterDiscoveryRoutes(r *mux.Router, discoveryService *services.DiscoveryService) {
	controller := controllers.NewDiscoveryController(discoveryService)

	discoveryRouter := r.PathPrefix("/api/discovery").Subrouter()
	discoveryRouter.HandleFunc("", controller.Discover).Methods("GET")
	discoveryRouter.HandleFunc("/genres", controller.GetGenres).Methods("GET")
}
