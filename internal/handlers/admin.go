package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/chat"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/facilities"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/marketplace"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/middleware"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/notify"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/pickups"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/recycling"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/response"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/users"
)

// AdminHandler serves the back-office endpoints; the router guards the whole
// group with AdminOnly.
type AdminHandler struct {
	users       *users.Repo
	facilities  *facilities.Repo
	recycling   *recycling.Repo
	marketplace *marketplace.Repo
	pickups     *pickups.Repo
	chat        *chat.Repo
	hub         *notify.Hub
	logger      *zap.Logger
}

func NewAdminHandler(u *users.Repo, f *facilities.Repo, r *recycling.Repo, m *marketplace.Repo, p *pickups.Repo, ch *chat.Repo, hub *notify.Hub, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		users:       u,
		facilities:  f,
		recycling:   r,
		marketplace: m,
		pickups:     p,
		chat:        ch,
		hub:         hub,
		logger:      logger,
	}
}

// RecyclingRequests lists requests, optionally filtered by status.
// GET /api/admin/recycling-requests and GET /api/admin/requests.
func (h *AdminHandler) RecyclingRequests(c *gin.Context) {
	list, err := h.recycling.AdminList(c.Request.Context(), normalizeFilter(c.Query("status")))
	if err != nil {
		h.logger.Error("admin recycling requests failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch recycling requests")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"requests": list})
}

// ApproveRequest approves a pending request, records history and awards the
// device's credits in one transaction.
// PUT /api/admin/recycling-requests/:id/approve and /api/admin/requests/:id/approve.
func (h *AdminHandler) ApproveRequest(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid request id")
		return
	}
	adminID := middleware.UserIDFrom(c.Request.Context())

	credits, err := h.recycling.Approve(c.Request.Context(), id, adminID)
	if err != nil {
		if errors.Is(err, recycling.ErrAlreadyProcessed) {
			response.Error(c, http.StatusNotFound, "request not found or already processed")
			return
		}
		h.logger.Error("request approve failed", zap.Int64("request_id", id), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to approve request")
		return
	}

	h.logger.Info("recycling request approved",
		zap.Int64("request_id", id), zap.Int64("admin_id", adminID), zap.Int("credits", credits))

	response.Success(c, http.StatusOK, "request approved and credits awarded", gin.H{
		"credits_awarded": credits,
	})
}

// RejectRequest rejects a pending request.
// PUT /api/admin/recycling-requests/:id/reject and /api/admin/requests/:id/reject.
func (h *AdminHandler) RejectRequest(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid request id")
		return
	}
	adminID := middleware.UserIDFrom(c.Request.Context())

	if err := h.recycling.Reject(c.Request.Context(), id, adminID); err != nil {
		if errors.Is(err, recycling.ErrAlreadyProcessed) {
			response.Error(c, http.StatusNotFound, "request not found or already processed")
			return
		}
		h.logger.Error("request reject failed", zap.Int64("request_id", id), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to reject request")
		return
	}
	response.Success(c, http.StatusOK, "request rejected successfully", nil)
}

// Users lists accounts with recycled-device counts. GET /api/admin/users.
func (h *AdminHandler) Users(c *gin.Context) {
	list, err := h.users.AdminList(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.logger.Error("admin users failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch users")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"users": list})
}

// Marketplace lists listings of any status. GET /api/admin/marketplace.
func (h *AdminHandler) Marketplace(c *gin.Context) {
	list, err := h.marketplace.AdminList(c.Request.Context(), normalizeFilter(c.Query("status")))
	if err != nil {
		h.logger.Error("admin marketplace failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch marketplace listings")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"listings": list})
}

// ApproveListing moves a pending listing to active.
// PUT /api/admin/marketplace/:id/approve.
func (h *AdminHandler) ApproveListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid listing id")
		return
	}

	if err := h.marketplace.SetStatus(c.Request.Context(), id, marketplace.StatusActive); err != nil {
		if errors.Is(err, marketplace.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "listing not found")
			return
		}
		h.logger.Error("listing approve failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to approve listing")
		return
	}
	response.Success(c, http.StatusOK, "listing approved successfully", nil)
}

// DeleteListing removes a listing. DELETE /api/admin/marketplace/:id.
func (h *AdminHandler) DeleteListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid listing id")
		return
	}

	if err := h.marketplace.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, marketplace.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "listing not found")
			return
		}
		h.logger.Error("listing delete failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to remove listing")
		return
	}
	response.Success(c, http.StatusOK, "listing removed successfully", nil)
}

// StatsOverview returns the dashboard counters. GET /api/admin/stats/overview.
func (h *AdminHandler) StatsOverview(c *gin.Context) {
	ctx := c.Request.Context()

	totalUsers, err := h.users.CountByRole(ctx, "user")
	if err != nil {
		h.logger.Error("user count failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch overview stats")
		return
	}
	totalFacilities, err := h.facilities.Count(ctx)
	if err != nil {
		h.logger.Error("facility count failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch overview stats")
		return
	}
	pendingRequests, err := h.recycling.CountByStatus(ctx, recycling.StatusPending)
	if err != nil {
		h.logger.Error("pending request count failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch overview stats")
		return
	}
	activeListings, err := h.marketplace.CountByStatus(ctx, marketplace.StatusActive)
	if err != nil {
		h.logger.Error("active listing count failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch overview stats")
		return
	}

	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{
		"stats": gin.H{
			"total_users":      totalUsers,
			"total_facilities": totalFacilities,
			"pending_requests": pendingRequests,
			"active_listings":  activeListings,
		},
	})
}

type activity struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// StatsActivity merges the last week's registrations, requests and pickups
// into one feed, newest first, capped at 10. GET /api/admin/stats/activity.
func (h *AdminHandler) StatsActivity(c *gin.Context) {
	ctx := c.Request.Context()
	const days, perSource = 7, 5

	var feed []activity

	recentUsers, err := h.users.RecentRegistrations(ctx, days, perSource)
	if err != nil {
		h.logger.Error("recent registrations failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch recent activity")
		return
	}
	for _, u := range recentUsers {
		feed = append(feed, activity{
			Type:        "user_registered",
			Description: u.Name + " registered",
			Timestamp:   u.CreatedAt,
		})
	}

	recentRequests, err := h.recycling.RecentRequests(ctx, days, perSource)
	if err != nil {
		h.logger.Error("recent requests failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch recent activity")
		return
	}
	for _, r := range recentRequests {
		typ, verb := "request_submitted", " submitted "
		if r.Status == recycling.StatusApproved {
			typ, verb = "request_approved", " got approved for "
		}
		feed = append(feed, activity{
			Type:        typ,
			Description: r.UserName + verb + r.ModelName,
			Timestamp:   r.SubmittedAt,
		})
	}

	recentPickups, err := h.pickups.RecentPickups(ctx, days, perSource)
	if err != nil {
		h.logger.Error("recent pickups failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch recent activity")
		return
	}
	for _, p := range recentPickups {
		feed = append(feed, activity{
			Type:        "pickup_requested",
			Description: p.UserName + " requested pickup for " + p.ModelName,
			Timestamp:   p.CreatedAt,
		})
	}

	sort.Slice(feed, func(i, j int) bool { return feed[i].Timestamp.After(feed[j].Timestamp) })
	if len(feed) > 10 {
		feed = feed[:10]
	}

	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"activities": feed})
}

// Pickups lists all pickups with optional status/date filters.
// GET /api/admin/pickups.
func (h *AdminHandler) Pickups(c *gin.Context) {
	list, err := h.pickups.AdminList(c.Request.Context(), normalizeFilter(c.Query("status")), c.Query("date"))
	if err != nil {
		h.logger.Error("admin pickups failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch pickup requests")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"pickups": list})
}

// ChatLogs lists the newest assistant transcripts. GET /api/admin/chat-logs.
func (h *AdminHandler) ChatLogs(c *gin.Context) {
	limit := clampLimit(c.Query("limit"), 50, 200)
	list, err := h.chat.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("admin chat logs failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch chat logs")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"logs": list})
}

// clampLimit parses a user-supplied row limit, falling back to def and
// capping at max.
func clampLimit(raw string, def, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

type updatePickupStatusRequest struct {
	Status       string `json:"status"`
	TrackingNote string `json:"tracking_note"`
}

// UpdatePickupStatus changes a pickup's status, awarding credits exactly
// once on completion, and pushes the update to the owner.
// PUT /api/admin/pickups/:id/status.
func (h *AdminHandler) UpdatePickupStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid pickup id")
		return
	}
	var req updatePickupStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if !pickups.ValidStatus(req.Status) {
		response.Error(c, http.StatusBadRequest, "invalid status")
		return
	}
	note := req.TrackingNote
	if note == "" {
		note = pickups.DefaultTrackingNote(req.Status)
	}

	change, err := h.pickups.UpdateStatus(c.Request.Context(), id, req.Status, note)
	if err != nil {
		if errors.Is(err, pickups.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "pickup request not found")
			return
		}
		h.logger.Error("pickup status update failed", zap.Int64("pickup_id", id), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to update pickup status")
		return
	}

	updated, err := h.pickups.FindByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("pickup reload failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to update pickup status")
		return
	}

	h.hub.SendToUser(change.UserID, notify.Event{
		Type: "pickup:update",
		Data: notify.PickupUpdate{
			PickupID:       id,
			Status:         req.Status,
			TrackingNote:   note,
			UpdatedAt:      time.Now().UTC().Format(time.RFC3339),
			DeviceName:     change.DeviceName,
			CreditsAwarded: change.CreditsAwarded,
		},
	})

	h.logger.Info("pickup status updated",
		zap.Int64("pickup_id", id),
		zap.String("status", req.Status),
		zap.Int("credits_awarded", change.CreditsAwarded))

	response.Success(c, http.StatusOK, "pickup status updated successfully", gin.H{"pickup": updated})
}
