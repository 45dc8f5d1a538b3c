package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/devices"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/facilities"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/middleware"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/recycling"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/response"
)

type DevicesHandler struct {
	devices    *devices.Repo
	facilities *facilities.Repo
	recycling  *recycling.Repo
	logger     *zap.Logger
}

func NewDevicesHandler(d *devices.Repo, f *facilities.Repo, r *recycling.Repo, logger *zap.Logger) *DevicesHandler {
	return &DevicesHandler{devices: d, facilities: f, recycling: r, logger: logger}
}

// List returns the whole device catalog. GET /api/devices.
func (h *DevicesHandler) List(c *gin.Context) {
	list, err := h.devices.List(c.Request.Context())
	if err != nil {
		h.logger.Error("device list failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch devices")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"devices": list})
}

type estimateRequest struct {
	ModelName string `json:"model_name"`
	Quantity  int    `json:"quantity"`
}

// Estimate prices a device by model name (exact match first, then
// substring). POST /api/devices/estimate.
func (h *DevicesHandler) Estimate(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ModelName) == "" {
		response.Error(c, http.StatusBadRequest, "device model name is required")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	d, err := h.devices.FindByModelName(c.Request.Context(), req.ModelName)
	if err != nil {
		if errors.Is(err, devices.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "device not found in our database")
			return
		}
		h.logger.Error("device estimate failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to estimate device credits")
		return
	}

	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{
		"estimate": devices.NewEstimate(d, req.Quantity),
	})
}

type recycleRequest struct {
	DeviceID   int64 `json:"device_id"`
	FacilityID int64 `json:"facility_id"`
	Quantity   int   `json:"quantity"`
}

// Recycle submits a device for recycling at a facility; the resulting
// request awaits admin approval. POST /api/devices/recycle (auth).
func (h *DevicesHandler) Recycle(c *gin.Context) {
	var req recycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DeviceID == 0 || req.FacilityID == 0 {
		response.Error(c, http.StatusBadRequest, "device id and facility id are required")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	userID := middleware.UserIDFrom(c.Request.Context())

	d, err := h.devices.FindByID(c.Request.Context(), req.DeviceID)
	if err != nil {
		if errors.Is(err, devices.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "device not found")
			return
		}
		h.logger.Error("device lookup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to submit recycling request")
		return
	}

	f, err := h.facilities.FindByID(c.Request.Context(), req.FacilityID)
	if err != nil {
		if errors.Is(err, facilities.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "facility not found")
			return
		}
		h.logger.Error("facility lookup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to submit recycling request")
		return
	}

	facilityID := req.FacilityID
	requestID, err := h.recycling.CreateRequest(c.Request.Context(), userID, req.DeviceID, &facilityID, nil)
	if err != nil {
		h.logger.Error("recycling request create failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to submit recycling request")
		return
	}

	response.Success(c, http.StatusOK, "recycling request submitted, awaiting admin review", gin.H{
		"request": gin.H{
			"request_id":        requestID,
			"device_name":       d.ModelName,
			"facility_name":     f.Name,
			"status":            recycling.StatusPending,
			"estimated_credits": d.CreditsValue * req.Quantity,
		},
	})
}

// Search matches devices by name, optionally filtered by category.
// GET /api/devices/search?q=...&category=...
func (h *DevicesHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error(c, http.StatusBadRequest, "search query is required")
		return
	}
	category := c.Query("category")

	list, err := h.devices.Search(c.Request.Context(), q, category)
	if err != nil {
		h.logger.Error("device search failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "device search failed")
		return
	}

	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{
		"devices":      list,
		"search_query": q,
	})
}
