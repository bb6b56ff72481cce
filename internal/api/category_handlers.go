package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskflow/internal/service"
)

// categoryRequest accepts both textColor and text_color.
type categoryRequest struct {
	Name           *string `json:"name"`
	Color          *string `json:"color"`
	TextColor      *string `json:"textColor"`
	TextColorSnake *string `json:"text_color"`
}

func (r categoryRequest) input() service.CategoryInput {
	text := r.TextColor
	if text == nil || *text == "" {
		text = r.TextColorSnake
	}
	return service.CategoryInput{Name: r.Name, Color: r.Color, TextColor: text}
}

func (s *Server) handleListCategories(c *gin.Context) {
	categories, err := s.categories.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	okList(c, categories)
}

func (s *Server) handleGetCategory(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	category, err := s.categories.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, category, "")
}

func (s *Server) handleCategoryTasks(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	if _, err := s.categories.Get(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	views, err := s.categories.Tasks(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	okList(c, views)
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	category, err := s.categories.Create(c.Request.Context(), req.input())
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, category, "Category created successfully")
}

func (s *Server) handleUpdateCategory(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	category, err := s.categories.Update(c.Request.Context(), id, req.input())
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, category, "Category updated successfully")
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	category, err := s.categories.Delete(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, category, "Category deleted successfully")
}
