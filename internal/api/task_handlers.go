package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskflow/internal/model"
	"taskflow/internal/repository"
	"taskflow/internal/service"
)

type timeBlockRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Date  string `json:"date"`
}

func (r *timeBlockRequest) input() *service.TimeBlockInput {
	if r == nil {
		return nil
	}
	return &service.TimeBlockInput{Start: r.Start, End: r.End, Date: r.Date}
}

type createTaskRequest struct {
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Category    string            `json:"category"`
	IsHabit     bool              `json:"isHabit"`
	TimeBlock   *timeBlockRequest `json:"timeBlock"`
}

type updateTaskRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Category    *string           `json:"category"`
	IsHabit     *bool             `json:"isHabit"`
	TimeBlock   *timeBlockRequest `json:"timeBlock"`
}

func (s *Server) handleListTasks(c *gin.Context) {
	filter, err := model.ParseTaskFilter(c.Query("filter"))
	if err != nil {
		badRequest(c, "Invalid filter")
		return
	}
	views, err := s.tasks.List(c.Request.Context(), repository.TaskQuery{
		Status:   filter,
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	okList(c, views)
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	view, err := s.tasks.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, view, "")
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	view, err := s.tasks.Create(c.Request.Context(), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		IsHabit:     req.IsHabit,
		TimeBlock:   req.TimeBlock.input(),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, view, "Task created successfully")
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	view, err := s.tasks.Update(c.Request.Context(), id, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		IsHabit:     req.IsHabit,
		TimeBlock:   req.TimeBlock.input(),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, view, "Task updated successfully")
}

func (s *Server) handleToggleTask(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	view, err := s.tasks.Toggle(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, view, "Task completion toggled successfully")
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	task, err := s.tasks.Delete(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, task, "Task deleted successfully")
}
