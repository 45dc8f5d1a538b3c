package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/facilities"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/response"
)

type FacilitiesHandler struct {
	facilities *facilities.Repo
	logger     *zap.Logger
}

func NewFacilitiesHandler(f *facilities.Repo, logger *zap.Logger) *FacilitiesHandler {
	return &FacilitiesHandler{facilities: f, logger: logger}
}

// List returns all facilities alphabetically. GET /api/facilities.
func (h *FacilitiesHandler) List(c *gin.Context) {
	list, err := h.facilities.List(c.Request.Context())
	if err != nil {
		h.logger.Error("facility list failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch facilities")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"facilities": list})
}

// Nearby returns facilities within radius_km of (lat, lng).
// GET /api/facilities/nearby?lat=..&lng=..&radius=..
func (h *FacilitiesHandler) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		response.Error(c, http.StatusBadRequest, "latitude and longitude are required")
		return
	}
	radius := 50.0
	if v := c.Query("radius"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 {
			response.Error(c, http.StatusBadRequest, "invalid radius")
			return
		}
		radius = r
	}

	list, err := h.facilities.Nearby(c.Request.Context(), lat, lng, radius)
	if err != nil {
		h.logger.Error("nearby facilities failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to find nearby facilities")
		return
	}

	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{
		"facilities": list,
		"search_params": gin.H{
			"latitude":  lat,
			"longitude": lng,
			"radius_km": radius,
		},
	})
}

// Get returns one facility. GET /api/facilities/:id.
func (h *FacilitiesHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid facility id")
		return
	}

	f, err := h.facilities.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, facilities.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "facility not found")
			return
		}
		h.logger.Error("facility lookup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch facility")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"facility": f})
}

// Create adds a facility. POST /api/facilities (admin).
func (h *FacilitiesHandler) Create(c *gin.Context) {
	var in facilities.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Name == "" || in.Address == "" || in.Latitude == 0 || in.Longitude == 0 {
		response.Error(c, http.StatusBadRequest, "name, address, latitude and longitude are required")
		return
	}

	id, err := h.facilities.Create(c.Request.Context(), in)
	if err != nil {
		h.logger.Error("facility create failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to create facility")
		return
	}
	response.Success(c, http.StatusCreated, "facility created successfully", gin.H{"facility_id": id})
}

// Update replaces a facility's fields. PUT /api/facilities/:id (admin).
func (h *FacilitiesHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid facility id")
		return
	}
	var in facilities.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.facilities.Update(c.Request.Context(), id, in); err != nil {
		if errors.Is(err, facilities.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "facility not found")
			return
		}
		h.logger.Error("facility update failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to update facility")
		return
	}
	response.Success(c, http.StatusOK, "facility updated successfully", nil)
}

// Delete removes a facility unless history still references it.
// DELETE /api/facilities/:id (admin).
func (h *FacilitiesHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid facility id")
		return
	}

	if err := h.facilities.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, facilities.ErrNotFound):
			response.Error(c, http.StatusNotFound, "facility not found")
		case errors.Is(err, facilities.ErrReferenced):
			response.Error(c, http.StatusConflict, "cannot delete facility: referenced by other records")
		default:
			h.logger.Error("facility delete failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "failed to delete facility")
		}
		return
	}
	response.Success(c, http.StatusOK, "facility deleted successfully", nil)
}
