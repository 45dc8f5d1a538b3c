package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/marketplace"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/middleware"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/response"
)

type MarketplaceHandler struct {
	listings *marketplace.Repo
	logger   *zap.Logger
}

func NewMarketplaceHandler(l *marketplace.Repo, logger *zap.Logger) *MarketplaceHandler {
	return &MarketplaceHandler{listings: l, logger: logger}
}

// List returns active listings with optional condition/price/search filters.
// GET /api/marketplace.
func (h *MarketplaceHandler) List(c *gin.Context) {
	f := marketplace.Filter{
		Condition: c.Query("condition"),
		Search:    c.Query("search"),
	}
	if v := c.Query("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p <= 0 {
			response.Error(c, http.StatusBadRequest, "invalid max_price")
			return
		}
		f.MaxPrice = p
	}

	list, err := h.listings.ListActive(c.Request.Context(), f)
	if err != nil {
		h.logger.Error("marketplace list failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch marketplace listings")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{
		"listings": list,
		"total":    len(list),
	})
}

// Get returns one listing with seller identity. GET /api/marketplace/:id.
func (h *MarketplaceHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid listing id")
		return
	}

	l, err := h.listings.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, marketplace.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "listing not found")
			return
		}
		h.logger.Error("listing lookup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch listing")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"listing": l})
}

type createListingRequest struct {
	DeviceName    string  `json:"device_name"`
	ConditionType string  `json:"condition_type"`
	Price         float64 `json:"price"`
	Description   *string `json:"description"`
	ImageURL      *string `json:"image_url"`
}

// Create submits a listing for moderation. POST /api/marketplace (auth).
func (h *MarketplaceHandler) Create(c *gin.Context) {
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.DeviceName) == "" || req.ConditionType == "" || req.Price == 0 {
		response.Error(c, http.StatusBadRequest, "device name, condition and price are required")
		return
	}
	if !marketplace.ValidCondition(req.ConditionType) {
		response.Error(c, http.StatusBadRequest, "invalid condition type")
		return
	}
	if req.Price <= 0 {
		response.Error(c, http.StatusBadRequest, "price must be greater than 0")
		return
	}
	userID := middleware.UserIDFrom(c.Request.Context())

	id, err := h.listings.Create(c.Request.Context(), userID, req.DeviceName, req.ConditionType, req.Price, req.Description, req.ImageURL)
	if err != nil {
		h.logger.Error("listing create failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to create listing")
		return
	}
	response.Success(c, http.StatusCreated, "listing created successfully", gin.H{"listing_id": id})
}

type updateListingRequest struct {
	DeviceName    *string  `json:"device_name"`
	ConditionType *string  `json:"condition_type"`
	Price         *float64 `json:"price"`
	Description   *string  `json:"description"`
	ImageURL      *string  `json:"image_url"`
	Status        *string  `json:"status"`
}

// Update edits a listing; only the owner or an admin may. PUT /api/marketplace/:id.
func (h *MarketplaceHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid listing id")
		return
	}
	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ConditionType != nil && !marketplace.ValidCondition(*req.ConditionType) {
		response.Error(c, http.StatusBadRequest, "invalid condition type")
		return
	}
	if req.Price != nil && *req.Price <= 0 {
		response.Error(c, http.StatusBadRequest, "price must be greater than 0")
		return
	}

	if !h.authorizeOwner(c, id) {
		return
	}

	err = h.listings.Update(c.Request.Context(), id, marketplace.Update{
		DeviceName:    req.DeviceName,
		ConditionType: req.ConditionType,
		Price:         req.Price,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		Status:        req.Status,
	})
	if err != nil {
		if errors.Is(err, marketplace.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "listing not found")
			return
		}
		h.logger.Error("listing update failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to update listing")
		return
	}
	response.Success(c, http.StatusOK, "listing updated successfully", nil)
}

// Delete removes a listing; only the owner or an admin may. DELETE /api/marketplace/:id.
func (h *MarketplaceHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid listing id")
		return
	}
	if !h.authorizeOwner(c, id) {
		return
	}

	if err := h.listings.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, marketplace.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "listing not found")
			return
		}
		h.logger.Error("listing delete failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to delete listing")
		return
	}
	response.Success(c, http.StatusOK, "listing deleted successfully", nil)
}

// MyListings returns the caller's listings of any status.
// GET /api/marketplace/user/my-listings (auth).
func (h *MarketplaceHandler) MyListings(c *gin.Context) {
	userID := middleware.UserIDFrom(c.Request.Context())
	list, err := h.listings.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("my listings failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to fetch your listings")
		return
	}
	response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"listings": list})
}

// authorizeOwner verifies the listing belongs to the caller (admins pass).
// Writes the response on failure.
func (h *MarketplaceHandler) authorizeOwner(c *gin.Context, listingID int64) bool {
	owner, err := h.listings.OwnerOf(c.Request.Context(), listingID)
	if err != nil {
		if errors.Is(err, marketplace.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "listing not found")
			return false
		}
		h.logger.Error("listing owner lookup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to check listing")
		return false
	}
	ctx := c.Request.Context()
	if owner != middleware.UserIDFrom(ctx) && middleware.RoleFrom(ctx) != "admin" {
		response.Error(c, http.StatusForbidden, "you can only modify your own listings")
		return false
	}
	return true
}
