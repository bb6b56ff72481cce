package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskflow/internal/service"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(c *gin.Context, status int, data any, message string) {
	c.JSON(status, envelope{Success: true, Data: data, Message: message})
}

func okList[T any](c *gin.Context, items []T) {
	n := len(items)
	c.JSON(http.StatusOK, envelope{Success: true, Data: items, Count: &n})
}

// fail maps a service error onto a status code and the error envelope.
func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	var inUse *service.CategoryInUseError
	if errors.As(err, &inUse) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     inUse.Error(),
			"taskCount": inUse.TaskCount,
		})
		return
	}

	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		s.log.Error("unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, envelope{Error: "Internal server error", Message: err.Error()})
		return
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, envelope{Error: svcErr.Message})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, envelope{Error: svcErr.Message})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, envelope{Error: svcErr.Message})
	default:
		s.log.Error("store error", zap.Error(err))
		resp := envelope{Error: svcErr.Message}
		if svcErr.Err != nil {
			resp.Message = svcErr.Err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, envelope{Error: msg})
}

// idParam parses the numeric :id path segment, answering 400 when it is not one.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// daysQuery reads ?days=, falling back to def when absent.
func daysQuery(c *gin.Context, def int) (int, bool) {
	raw, present := c.GetQuery("days")
	if !present || raw == "" {
		return def, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		badRequest(c, "days must be a non-negative number")
		return 0, false
	}
	return days, true
}
