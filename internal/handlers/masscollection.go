package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/masscollection"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/middleware"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/notify"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/response"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/users"
)

type MassCollectionHandler struct {
	collections *masscollection.Repo
	users       *users.Repo
	hub         *notify.Hub
	logger      *zap.Logger
}

func NewMassCollectionHandler(m *masscollection.Repo, u *users.Repo, hub *notify.Hub, logger *zap.Logger) *MassCollectionHandler {
	return &MassCollectionHandler{collections: m, users: u, hub: hub, logger: logger}
}

type createCollectionRequest struct {
	OrgName        string  `json:"org_name"`
	OrgType        string  `json:"org_type"`
	ContactPerson  *string `json:"contact_person"`
	ContactPhone   *string `json:"contact_phone"`
	ContactEmail   *string `json:"contact_email"`
	Address        string  `json:"address"`
	Pincode        *string `json:"pincode"`
	EstimatedItems *int    `json:"estimated_items"`
	ScheduledDate  *string `json:"scheduled_date"`
	ScheduledTime  *string `json:"scheduled_time"`
}

// Create submits a mass collection request. Public: organizations do not
// need an account. POST /api/mass-collection.
func (h *MassCollectionHandler) Create(c *gin.Context) {
	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.OrgName = strings.TrimSpace(req.OrgName)
	req.Address = strings.TrimSpace(req.Address)
	if req.OrgName == "" || req.OrgType == "" || req.Address == "" {
		response.Error(c, http.StatusBadRequest, "organization name, type and address are required")
		return
	}
	if !masscollection.ValidOrgType(req.OrgType) {
		response.Error(c, http.StatusBadRequest, "invalid organization type")
		return
	}
	if req.ScheduledDate != nil {
		d, err := time.ParseInLocation("2006-01-02", *req.ScheduledDate, time.Local)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid scheduled date")
			return
		}
		today := time.Now()
		today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)
		if d.Before(today) {
			response.Error(c, http.StatusBadRequest, "scheduled date cannot be in the past")
			return
		}
	}

	id, err := h.collections.Create(c.Request.Context(), masscollection.CreateParams{
		OrgName:        req.OrgName,
		OrgType:        req.OrgType,
		ContactPerson:  req.ContactPerson,
		ContactPhone:   req.ContactPhone,
		ContactEmail:   req.ContactEmail,
		Address:        req.Address,
		Pincode:        req.Pincode,
		EstimatedItems: req.EstimatedItems,
		ScheduledDate:  req.ScheduledDate,
		ScheduledTime:  req.ScheduledTime,
	})
	if err != nil {
		h.logger.Error("mass collection create failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to create mass collection request")
		return
	}

	h.logger.Info("mass collection request created",
		zap.Int64("collection_id", id), zap.String("org", req.OrgName))

	response.Success(c, http.StatusCreated, "mass collection request submitted successfully", gin.H{
		"collection": gin.H{
			"collection_id":  id,
			"org_name":       req.OrgName,
			"org_type":       req.OrgType,
			"scheduled_date": req.ScheduledDate,
			"scheduled_time": req.ScheduledTime,
			"status":         masscollection.StatusPending,
		},
	})
}

// My returns requests whose contact email matches the caller's account.
// GET /api/mass-collection/my (auth).
func (h *MassCollectionHandler) My(c *gin.Context) {
	userID := middleware.UserIDFrom(c.Request.Context())
	u, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("user lookup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch your requests")
		return
	}

	list, err := h.collections.ListByEmail(c.Request.Context(), u.Email)
	if err != nil {
		h.logger.Error("mass collection list failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch your requests")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"collections": list})
}

// Track returns requests by contact email without authentication.
// GET /api/mass-collection/track/:email.
func (h *MassCollectionHandler) Track(c *gin.Context) {
	email := strings.TrimSpace(c.Param("email"))
	if email == "" {
		response.Error(c, http.StatusBadRequest, "email is required for tracking")
		return
	}

	list, err := h.collections.ListByEmail(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("mass collection track failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to track mass collection requests")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"collections": list})
}

// AdminList returns all requests with optional filters.
// GET /api/mass-collection/admin/all (admin).
func (h *MassCollectionHandler) AdminList(c *gin.Context) {
	f := masscollection.Filter{
		Status:  normalizeFilter(c.Query("status")),
		OrgType: normalizeFilter(c.Query("org_type")),
		Date:    c.Query("date"),
	}

	list, err := h.collections.List(c.Request.Context(), f)
	if err != nil {
		h.logger.Error("mass collection admin list failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch mass collection requests")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"collections": list})
}

// AdminGet returns one request. GET /api/mass-collection/admin/:id (admin).
func (h *MassCollectionHandler) AdminGet(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid collection id")
		return
	}

	col, err := h.collections.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, masscollection.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "mass collection request not found")
			return
		}
		h.logger.Error("mass collection lookup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch mass collection request")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"collection": col})
}

type updateCollectionStatusRequest struct {
	Status       string `json:"status"`
	TrackingNote string `json:"tracking_note"`
}

// AdminUpdateStatus changes the status and broadcasts the update.
// PUT /api/mass-collection/admin/:id/status (admin).
func (h *MassCollectionHandler) AdminUpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid collection id")
		return
	}
	var req updateCollectionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if !masscollection.ValidStatus(req.Status) {
		response.Error(c, http.StatusBadRequest, "invalid status")
		return
	}
	note := req.TrackingNote
	if note == "" {
		note = masscollection.DefaultTrackingNote(req.Status)
	}

	if err := h.collections.UpdateStatus(c.Request.Context(), id, req.Status, note); err != nil {
		if errors.Is(err, masscollection.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "mass collection request not found")
			return
		}
		h.logger.Error("mass collection status update failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to update mass collection status")
		return
	}

	col, err := h.collections.FindByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("mass collection reload failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to update mass collection status")
		return
	}

	h.hub.Broadcast(notify.Event{
		Type: "mass_collection:update",
		Data: notify.MassCollectionUpdate{
			CollectionID: id,
			Status:       req.Status,
			TrackingNote: note,
			UpdatedAt:    time.Now().UTC().Format(time.RFC3339),
			OrgName:      col.OrgName,
		},
	})

	response.Success(c, http.StatusOK, "mass collection status updated successfully", gin.H{"collection": col})
}

// normalizeFilter maps the frontend's "all" sentinel to no filter.
func normalizeFilter(v string) string {
	if v == "all" {
		return ""
	}
	return v
}
