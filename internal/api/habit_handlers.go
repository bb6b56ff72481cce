package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskflow/internal/stats"
)

type completeHabitRequest struct {
	Date      string `json:"date"`
	Completed *bool  `json:"completed"`
}

func (s *Server) handleListHabits(c *gin.Context) {
	views, err := s.habits.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	okList(c, views)
}

func (s *Server) handleGetHabit(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	view, err := s.habits.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, view, "")
}

func (s *Server) handleCompleteHabit(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	var req completeHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	entry, err := s.habits.SetEntry(c.Request.Context(), id, req.Date, completed)
	if err != nil {
		s.fail(c, err)
		return
	}
	verb := "uncompleted"
	if completed {
		verb = "completed"
	}
	ok(c, http.StatusOK, entry, fmt.Sprintf("Habit %s for %s", verb, req.Date))
}

func (s *Server) handleHabitStats(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	days, valid := daysQuery(c, stats.DefaultHabitDays)
	if !valid {
		return
	}
	result, err := s.habits.Stats(c.Request.Context(), id, days)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, result, "")
}

func (s *Server) handleDeleteHabitEntry(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	date := c.Param("date")
	entry, err := s.habits.DeleteEntry(c.Request.Context(), id, date)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, entry, fmt.Sprintf("Habit history entry for %s deleted successfully", date))
}

func (s *Server) handleHabitOverview(c *gin.Context) {
	days, valid := daysQuery(c, stats.DefaultOverviewDays)
	if !valid {
		return
	}
	result, err := s.habits.Overview(c.Request.Context(), days)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, result, "")
}
