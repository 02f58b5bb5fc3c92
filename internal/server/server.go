// Package server exposes the game over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/nibzard/todopuzzle/internal/game"
	"github.com/nibzard/todopuzzle/internal/todo"
)

// Game is the subset of *game.Game the handlers use.
type Game interface {
	Snapshot() (game.Snapshot, error)
	AddTask(title string) (todo.Task, game.Snapshot, error)
	ToggleTask(id string) (todo.Task, game.Snapshot, error)
	DeleteTask(id string) (todo.Task, game.Snapshot, error)
	Reveal(ctx context.Context, pieceID int) (game.Snapshot, error)
	Reset() (game.Snapshot, error)
	SetCity(city string) (game.Snapshot, error)
}

// shutdownTimeout bounds graceful shutdown in Run.
const shutdownTimeout = 5 * time.Second

// Server is the todopuzzle HTTP API.
type Server struct {
	game   Game
	logger *log.Logger
	router *gin.Engine
}

// New creates a server and registers its routes.
func New(g Game, logger *log.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{
		game:   g,
		logger: logger,
		router: router,
	}

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/board", s.handleBoard)
		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleAddTask)
		api.POST("/tasks/:id/toggle", s.handleToggleTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/pieces/:id/reveal", s.handleReveal)
		api.POST("/reset", s.handleReset)
		api.PUT("/city", s.handleSetCity)
		api.GET("/layout", s.handleLayout)
	}

	return s
}

// Handler returns the router for use with httptest or a custom http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// requestLogger logs one line per request through the console logger.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
