package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gigboard/gigboard/internal/favorite"
	"github.com/gigboard/gigboard/internal/job"
	"github.com/gigboard/gigboard/internal/search"
	"github.com/gigboard/gigboard/internal/user"
)

type Server struct {
	srv *http.Server
}

// New creates a server. The baseCtx is used as the base context for all
// incoming requests (via BaseContext). Cancelling it causes in-flight
// scraper processes to stop promptly during graceful shutdown.
func New(baseCtx context.Context, port string, searchSvc *search.Service, jobSvc *job.Service, favoriteSvc *favorite.Service, userSvc *user.Service) *Server {
	return &Server{
		srv: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: newMux(searchSvc, jobSvc, favoriteSvc, userSvc),
			BaseContext: func(_ net.Listener) context.Context {
				return baseCtx
			},
			ReadTimeout: 15 * time.Second,
			// Search blocks on the scraper fork-join, so writes may take a
			// while; keep this above the scrape timeout.
			WriteTimeout: 3 * time.Minute,
			IdleTimeout:  120 * time.Second,
		},
	}
}

func (s *Server) Start() error {
	slog.Info("starting server", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down server")
	return s.srv.Shutdown(ctx)
}
