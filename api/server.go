package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/codemart-app/backend/config"
	"github.com/codemart-app/backend/database"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(cfg config.Config, db database.Database, deps Deps) (Server, error) {
	address := fmt.Sprintf("0.0.0.0:%s", cfg.Port)

	startupTime := time.Now()

	router := newRouter(cfg, db, deps)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return Server{server, startupTime}, nil
}

func newRouter(cfg config.Config, db database.Database, deps Deps) *chi.Mux {
	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	chiRouter.Use(HTTPLoggingMiddleware)

	handlers := initializeHandlers(db, deps)
	authMiddleware := newAuthMiddleware(deps.Tokens)

	setupRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
