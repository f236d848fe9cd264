package server

import (
	"net/http"

	"github.com/gigboard/gigboard/internal/favorite"
	"github.com/gigboard/gigboard/internal/job"
	"github.com/gigboard/gigboard/internal/search"
	"github.com/gigboard/gigboard/internal/user"
)

// NewHandler creates the full HTTP handler with routes and middleware.
// Exported for use in tests (e.g., httptest.NewServer).
func NewHandler(searchSvc *search.Service, jobSvc *job.Service, favoriteSvc *favorite.Service, userSvc *user.Service) http.Handler {
	return newMux(searchSvc, jobSvc, favoriteSvc, userSvc)
}

func newMux(searchSvc *search.Service, jobSvc *job.Service, favoriteSvc *favorite.Service, userSvc *user.Service) http.Handler {
	h := &handler{
		searchSvc:   searchSvc,
		jobSvc:      jobSvc,
		favoriteSvc: favoriteSvc,
		userSvc:     userSvc,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.health)

	mux.HandleFunc("POST /api/v1/search", h.search)

	mux.HandleFunc("GET /api/v1/tasks", h.listTasks)
	mux.HandleFunc("GET /api/v1/tasks/stats", h.taskStats)
	mux.HandleFunc("GET /api/v1/tasks/{id}", h.getTask)
	mux.HandleFunc("POST /api/v1/tasks/{id}/claim", h.claimTask)
	mux.HandleFunc("POST /api/v1/tasks/{id}/complete", h.completeTask)
	mux.HandleFunc("POST /api/v1/tasks/assign", h.assignTask)

	mux.HandleFunc("GET /api/v1/favorites", h.listFavorites)
	mux.HandleFunc("POST /api/v1/favorites", h.addFavorite)
	mux.HandleFunc("DELETE /api/v1/favorites/{id}", h.removeFavorite)

	mux.HandleFunc("GET /api/v1/filters", h.getFilter)
	mux.HandleFunc("PUT /api/v1/filters", h.saveFilter)

	mux.HandleFunc("GET /api/v1/users/analytics", h.userAnalytics)

	// Apply middleware stack: recovery -> requestID -> logging -> identity
	var handler http.Handler = mux
	handler = identity(handler)
	handler = logging(handler)
	handler = requestID(handler)
	handler = recovery(handler)

	return handler
}
