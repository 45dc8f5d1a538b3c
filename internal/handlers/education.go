package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/education"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/response"
)

type EducationHandler struct {
	education *education.Repo
	logger    *zap.Logger
}

func NewEducationHandler(e *education.Repo, logger *zap.Logger) *EducationHandler {
	return &EducationHandler{education: e, logger: logger}
}

// List returns content newest first, optionally by category.
// GET /api/education?category=...
func (h *EducationHandler) List(c *gin.Context) {
	list, err := h.education.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.logger.Error("education list failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch educational content")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{
		"content": list,
		"total":   len(list),
	})
}

// Get returns one content item. GET /api/education/:id.
func (h *EducationHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid content id")
		return
	}

	item, err := h.education.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, education.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "educational content not found")
			return
		}
		h.logger.Error("education lookup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch educational content")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"content": item})
}

// RandomFact returns a random content item. GET /api/education/random/fact.
func (h *EducationHandler) RandomFact(c *gin.Context) {
	fact, err := h.education.RandomFact(c.Request.Context())
	if err != nil {
		if errors.Is(err, education.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "no educational content available")
			return
		}
		h.logger.Error("random fact failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch random fact")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"fact": fact})
}

// Categories returns distinct categories with counts.
// GET /api/education/meta/categories.
func (h *EducationHandler) Categories(c *gin.Context) {
	cats, err := h.education.Categories(c.Request.Context())
	if err != nil {
		h.logger.Error("categories failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch categories")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"categories": cats})
}
