package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/middleware"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/notify"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers cannot set headers on WebSocket requests; the token itself
	// authenticates, so any origin is accepted.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSHandler struct {
	hub       *notify.Hub
	validator middleware.TokenValidator
	logger    *zap.Logger
}

func NewWSHandler(hub *notify.Hub, validator middleware.TokenValidator, logger *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, validator: validator, logger: logger}
}

// Connect upgrades to a WebSocket and keeps the connection registered for
// push updates until it drops. The JWT comes from the `token` query param
// (browser clients) or the Authorization header. GET /api/ws.
func (h *WSHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		raw := c.GetHeader(middleware.HeaderAuthorization)
		token = strings.TrimPrefix(raw, middleware.BearerPrefix)
	}
	userID, _, err := h.validator.ValidateToken(c.Request.Context(), token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "invalid or missing token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	connID := h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID, connID)

	h.logger.Info("websocket connected",
		zap.Int64("user_id", userID), zap.String("conn_id", connID))

	if err := h.hub.SendTo(userID, connID, notify.Event{
		Type: "auth:connected",
		Data: gin.H{"user_id": userID},
	}); err != nil {
		return
	}

	h.hub.KeepAlive(userID, connID)
}
