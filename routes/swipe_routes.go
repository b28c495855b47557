package routes

import (
	"flickpick_server/controllers"
	"flickpick_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RegisterSwipeRoutes sets up routes for swipe operations under /api/swipes
func RegisterSwipeRoutes(r *mux.Router, swipeService *services.SwipeService, matchService *services.MatchService, logger *zap.SugaredLogger) {
	controller := controllers.NewSwipeController(swipeService, matchService, logger)

	swipeRouter := r.PathPrefix("/api/swipes").Subrouter()
	swipeRouter.HandleFunc("", controller.RecordSwipe).Methods("POST")
	swipeRouter.HandleFunc("", controller.DeleteSwipe).Methods("DELETE")
}
