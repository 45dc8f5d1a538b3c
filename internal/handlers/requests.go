package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/devices"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/middleware"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/recycling"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/response"
)

type RequestsHandler struct {
	devices   *devices.Repo
	recycling *recycling.Repo
	logger    *zap.Logger
}

func NewRequestsHandler(d *devices.Repo, r *recycling.Repo, logger *zap.Logger) *RequestsHandler {
	return &RequestsHandler{devices: d, recycling: r, logger: logger}
}

type createRequestBody struct {
	DeviceID       int64 `json:"device_id"`
	YearOfPurchase *int  `json:"year_of_purchase"`
}

// Create submits a recycling request without a facility (drop-off decided
// later). POST /api/requests (auth).
func (h *RequestsHandler) Create(c *gin.Context) {
	var req createRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DeviceID == 0 {
		response.Error(c, http.StatusBadRequest, "device id is required")
		return
	}
	if req.YearOfPurchase != nil {
		year := *req.YearOfPurchase
		if year < 1980 || year > time.Now().Year() {
			response.Error(c, http.StatusBadRequest, "invalid year of purchase")
			return
		}
	}
	userID := middleware.UserIDFrom(c.Request.Context())

	d, err := h.devices.FindByID(c.Request.Context(), req.DeviceID)
	if err != nil {
		if errors.Is(err, devices.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "device not found")
			return
		}
		h.logger.Error("device lookup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to submit request")
		return
	}

	id, err := h.recycling.CreateRequest(c.Request.Context(), userID, req.DeviceID, nil, req.YearOfPurchase)
	if err != nil {
		h.logger.Error("recycling request create failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to submit request")
		return
	}

	response.Success(c, http.StatusCreated, "recycling request submitted successfully", gin.H{
		"request": gin.H{
			"request_id":        id,
			"device_name":       d.ModelName,
			"status":            recycling.StatusPending,
			"estimated_credits": d.CreditsValue,
		},
	})
}

// MyRequests lists the caller's requests. GET /api/requests/my-requests (auth).
func (h *RequestsHandler) MyRequests(c *gin.Context) {
	userID := middleware.UserIDFrom(c.Request.Context())
	list, err := h.recycling.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("my requests failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch your requests")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"requests": list})
}
