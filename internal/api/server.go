// Package api exposes the task, category and habit services over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskflow/internal/service"
)

// Pinger reports database health and the database clock.
type Pinger interface {
	Ping(ctx context.Context) (time.Time, error)
}

// Server is the HTTP front of the tracker.
type Server struct {
	router     *gin.Engine
	http       *http.Server
	tasks      *service.TaskService
	habits     *service.HabitService
	categories *service.CategoryService
	db         Pinger
	log        *zap.Logger
}

// NewServer builds the gin engine and registers every route.
func NewServer(addr string, tasks *service.TaskService, habits *service.HabitService, categories *service.CategoryService, db Pinger, log *zap.Logger) *Server {
	log = log.Named("http")
	router := gin.New()
	router.Use(requestLogger(log), recovery(log))

	s := &Server{
		router:     router,
		tasks:      tasks,
		habits:     habits,
		categories: categories,
		db:         db,
		log:        log,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	router.GET("/health", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleListTasks)
		api.GET("/tasks/:id", s.handleGetTask)
		api.POST("/tasks", s.handleCreateTask)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.PATCH("/tasks/:id/toggle", s.handleToggleTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)

		api.GET("/categories", s.handleListCategories)
		api.GET("/categories/:id", s.handleGetCategory)
		api.GET("/categories/:id/tasks", s.handleCategoryTasks)
		api.POST("/categories", s.handleCreateCategory)
		api.PUT("/categories/:id", s.handleUpdateCategory)
		api.DELETE("/categories/:id", s.handleDeleteCategory)

		api.GET("/habits", s.handleListHabits)
		api.GET("/habits/stats/overview", s.handleHabitOverview)
		api.GET("/habits/:id", s.handleGetHabit)
		api.POST("/habits/:id/complete", s.handleCompleteHabit)
		api.GET("/habits/:id/stats", s.handleHabitStats)
		api.DELETE("/habits/:id/history/:date", s.handleDeleteHabitEntry)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Route not found"})
	})

	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens in the background. Listen errors other than a clean shutdown
// are logged.
func (s *Server) Start() {
	s.log.Info("http server listening", zap.String("addr", s.http.Addr))
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server stopped", zap.Error(err))
		}
	}()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	dbTime, err := s.db.Ping(c.Request.Context())
	if err != nil {
		s.log.Error("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "ERROR",
			"timestamp": now,
			"database":  "disconnected",
			"error":     err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": now,
		"database":  "connected",
		"dbTime":    dbTime,
	})
}
