package routes

import (
	"flickpick_server/controllers"
	"flickpick_server/services"

	"github.com/gorilla/mux"
)

// RegisterTonightRoutes sets up routes for tonight picks under /api/tonight
func RegisterTonightRoutes(r *mux.Router, tonightService *services.TonightService) {
	controller := controllers.NewTonightController(tonightService)

	tonightRouter := r.PathPrefix("/api/tonight").Subrouter()
	tonightRouter.HandleFunc("", controller.GetTonight).Methods("GET")
	tonightRouter.HandleFunc("", controller.AddPick).Methods("POST")
	tonightRouter.HandleFunc("", controller.RemovePick).Methods("DELETE")
}
