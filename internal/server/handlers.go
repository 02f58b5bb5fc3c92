package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nibzard/todopuzzle/internal/board"
	"github.com/nibzard/todopuzzle/internal/tiling"
	"github.com/nibzard/todopuzzle/internal/todo"
)

// maxLayoutPieces caps /api/layout so a request cannot ask for a huge grid.
const maxLayoutPieces = 10000

type addTaskRequest struct {
	Title string `json:"title" binding:"required"`
}

type setCityRequest struct {
	City string `json:"city" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleBoard(c *gin.Context) {
	snap, err := s.game.Snapshot()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snap,
	})
}

func (s *Server) handleListTasks(c *gin.Context) {
	snap, err := s.game.Snapshot()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snap.Tasks,
	})
}

func (s *Server) handleAddTask(c *gin.Context) {
	var req addTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	task, snap, err := s.game.AddTask(req.Title)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"task":  task,
			"board": snap,
		},
	})
}

func (s *Server) handleToggleTask(c *gin.Context) {
	task, snap, err := s.game.ToggleTask(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"task":  task,
			"board": snap,
		},
	})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	task, snap, err := s.game.DeleteTask(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Task %s deleted", task.ID),
		"data": gin.H{
			"task":  task,
			"board": snap,
		},
	})
}

func (s *Server) handleReveal(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "piece id must be an integer")
		return
	}

	snap, err := s.game.Reveal(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snap,
	})
}

func (s *Server) handleReset(c *gin.Context) {
	snap, err := s.game.Reset()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snap,
	})
}

func (s *Server) handleSetCity(c *gin.Context) {
	var req setCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	snap, err := s.game.SetCity(req.City)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snap,
	})
}

// handleLayout generates a throwaway layout; game state is untouched.
func (s *Server) handleLayout(c *gin.Context) {
	count, err := strconv.Atoi(c.Query("count"))
	if err != nil || count < 1 || count > maxLayoutPieces {
		badRequest(c, fmt.Sprintf("count must be an integer between 1 and %d", maxLayoutPieces))
		return
	}

	var layout tiling.Layout
	if raw := c.Query("seed"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "seed must be an integer")
			return
		}
		layout = tiling.NewSeededGenerator(seed).Generate(count)
	} else {
		layout = tiling.Generate(count)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"layout": layout,
			"styles": layout.Styles(nil, 0),
		},
	})
}

// fail maps game errors to HTTP status codes.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, todo.ErrTaskNotFound), errors.Is(err, board.ErrUnknownPiece):
		return http.StatusNotFound
	case errors.Is(err, board.ErrAlreadyRevealed), errors.Is(err, board.ErrNoCredits):
		return http.StatusConflict
	case errors.Is(err, todo.ErrEmptyTitle), errors.Is(err, board.ErrEmptyCity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   msg,
	})
}
