package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/devices"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/middleware"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/notify"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/pickups"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/response"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/scheduling"
)

type PickupsHandler struct {
	pickups   *pickups.Repo
	devices   *devices.Repo
	extractor *scheduling.DistrictExtractor
	hub       *notify.Hub
	logger    *zap.Logger

	schedOpts []scheduling.Option
	serialize bool
}

func NewPickupsHandler(p *pickups.Repo, d *devices.Repo, ex *scheduling.DistrictExtractor, hub *notify.Hub, logger *zap.Logger, schedOpts []scheduling.Option, serialize bool) *PickupsHandler {
	return &PickupsHandler{
		pickups:   p,
		devices:   d,
		extractor: ex,
		hub:       hub,
		logger:    logger,
		schedOpts: schedOpts,
		serialize: serialize,
	}
}

type createPickupRequest struct {
	DeviceID int64  `json:"device_id"`
	Address  string `json:"address"`
}

// Create books a pickup: the district is extracted from the address and the
// earliest slot under the district's daily capacity is assigned.
// POST /api/pickups (auth).
func (h *PickupsHandler) Create(c *gin.Context) {
	var req createPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Address = strings.TrimSpace(req.Address)
	if req.DeviceID == 0 || req.Address == "" {
		response.Error(c, http.StatusBadRequest, "device id and address are required")
		return
	}
	ctx := c.Request.Context()
	userID := middleware.UserIDFrom(ctx)

	d, err := h.devices.FindByID(ctx, req.DeviceID)
	if err != nil {
		if errors.Is(err, devices.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "device not found")
			return
		}
		h.logger.Error("device lookup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to create pickup request")
		return
	}

	district := h.extractor.ExtractDistrict(ctx, req.Address)

	var (
		slot     scheduling.Slot
		pickupID int64
	)
	book := func(repo *pickups.Repo) error {
		s, err := scheduling.NewScheduler(repo, nil, h.schedOpts...).ComputeSchedule(ctx, district)
		if err != nil {
			return err
		}
		id, err := repo.Create(ctx, pickups.CreateParams{
			UserID:        userID,
			DeviceID:      req.DeviceID,
			Address:       req.Address,
			District:      district,
			ScheduledDate: s.PickupDate,
			ScheduledTime: s.PickupTime,
		})
		if err != nil {
			return err
		}
		slot, pickupID = s, id
		return nil
	}

	if h.serialize {
		err = h.pickups.WithDistrictLock(ctx, district, book)
	} else {
		err = book(h.pickups)
	}
	if err != nil {
		if errors.Is(err, scheduling.ErrLookaheadExceeded) {
			h.logger.Error("no pickup slot found", zap.String("district", district), zap.Error(err))
			response.Error(c, http.StatusConflict, "no pickup slot available for your district")
			return
		}
		h.logger.Error("pickup booking failed", zap.String("district", district), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to create pickup request")
		return
	}

	h.logger.Info("pickup request created",
		zap.Int64("pickup_id", pickupID),
		zap.Int64("user_id", userID),
		zap.String("district", district),
		zap.String("date", slot.PickupDate),
		zap.String("time", slot.PickupTime))

	response.Success(c, http.StatusCreated, "pickup request submitted successfully", gin.H{
		"pickup": gin.H{
			"pickup_id":         pickupID,
			"device_name":       d.ModelName,
			"address":           req.Address,
			"district":          district,
			"scheduled_date":    slot.PickupDate,
			"scheduled_time":    slot.PickupTime,
			"position_in_queue": slot.PositionInQueue,
			"status":            pickups.StatusPending,
		},
	})
}

// ListByUser returns a user's pickups; owner or admin only. The wildcard is
// the user id, not a pickup id. GET /api/pickups/:id (auth).
func (h *PickupsHandler) ListByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid user id")
		return
	}
	ctx := c.Request.Context()
	if userID != middleware.UserIDFrom(ctx) && middleware.RoleFrom(ctx) != "admin" {
		response.Error(c, http.StatusForbidden, "access denied to pickup requests")
		return
	}

	list, err := h.pickups.ListByUser(ctx, userID)
	if err != nil {
		h.logger.Error("pickup list failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch pickup requests")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"pickups": list})
}

// Get returns one pickup; owner or admin only. GET /api/pickups/single/:id (auth).
func (h *PickupsHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid pickup id")
		return
	}
	ctx := c.Request.Context()

	p, err := h.pickups.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pickups.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "pickup request not found")
			return
		}
		h.logger.Error("pickup lookup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch pickup request")
		return
	}
	if p.UserID != middleware.UserIDFrom(ctx) && middleware.RoleFrom(ctx) != "admin" {
		response.Error(c, http.StatusForbidden, "access denied to this pickup request")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"pickup": p})
}

// Cancel cancels a pending pickup; owner or admin only.
// PUT /api/pickups/:id/cancel (auth).
func (h *PickupsHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid pickup id")
		return
	}
	ctx := c.Request.Context()

	p, err := h.pickups.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pickups.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "pickup request not found")
			return
		}
		h.logger.Error("pickup lookup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to cancel pickup request")
		return
	}
	if p.UserID != middleware.UserIDFrom(ctx) && middleware.RoleFrom(ctx) != "admin" {
		response.Error(c, http.StatusForbidden, "you can only cancel your own pickup requests")
		return
	}

	if err := h.pickups.Cancel(ctx, id); err != nil {
		switch {
		case errors.Is(err, pickups.ErrNotFound):
			response.Error(c, http.StatusNotFound, "pickup request not found")
		case errors.Is(err, pickups.ErrNotPending):
			response.Error(c, http.StatusBadRequest, "only pending pickup requests can be cancelled")
		default:
			h.logger.Error("pickup cancel failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "failed to cancel pickup request")
		}
		return
	}

	h.hub.SendToUser(p.UserID, notify.Event{
		Type: "pickup:update",
		Data: notify.PickupUpdate{
			PickupID:     id,
			Status:       pickups.StatusCancelled,
			TrackingNote: "Cancelled by user",
			UpdatedAt:    time.Now().UTC().Format(time.RFC3339),
		},
	})

	response.Success(c, http.StatusOK, "pickup request cancelled successfully", nil)
}
