package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/middleware"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/recycling"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/response"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/users"
)

type HistoryHandler struct {
	recycling *recycling.Repo
	users     *users.Repo
	logger    *zap.Logger
}

func NewHistoryHandler(r *recycling.Repo, u *users.Repo, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{recycling: r, users: u, logger: logger}
}

// ByUser returns a user's recycling history; owner or admin only.
// GET /api/history/user/:userId (auth).
func (h *HistoryHandler) ByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || userID <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid user id")
		return
	}
	ctx := c.Request.Context()
	if userID != middleware.UserIDFrom(ctx) && middleware.RoleFrom(ctx) != "admin" {
		response.Error(c, http.StatusForbidden, "access denied to recycling history")
		return
	}

	h.respondHistory(c, userID, nil)
}

// MyHistory returns the caller's history with their current balance.
// GET /api/history/my-history (auth).
func (h *HistoryHandler) MyHistory(c *gin.Context) {
	userID := middleware.UserIDFrom(c.Request.Context())

	u, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("user lookup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch your recycling history")
		return
	}
	credits := u.Credits
	h.respondHistory(c, userID, &credits)
}

func (h *HistoryHandler) respondHistory(c *gin.Context, userID int64, currentCredits *int) {
	history, summary, err := h.recycling.HistoryByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("history fetch failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch recycling history")
		return
	}

	s := gin.H{
		"total_devices_recycled": summary.TotalDevicesRecycled,
		"total_credits_earned":   summary.TotalCreditsEarned,
	}
	if currentCredits != nil {
		s["current_credits"] = *currentCredits
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{
		"recycling_history": history,
		"summary":           s,
	})
}

// Stats returns platform-wide recycling statistics. GET /api/history/stats (admin).
func (h *HistoryHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	overview, err := h.recycling.StatsOverview(ctx)
	if err != nil {
		h.logger.Error("stats overview failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch statistics")
		return
	}
	monthly, err := h.recycling.MonthlyTrends(ctx)
	if err != nil {
		h.logger.Error("monthly trends failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch statistics")
		return
	}
	top, err := h.recycling.TopFacilities(ctx, 10)
	if err != nil {
		h.logger.Error("top facilities failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch statistics")
		return
	}

	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{
		"statistics": gin.H{
			"overview":       overview,
			"monthly_trends": monthly,
			"top_facilities": top,
		},
	})
}
