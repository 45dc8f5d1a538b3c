package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/response"
)

// Health reports liveness. GET /api/health.
func Health(c *gin.Context) {
	response.Success(c, http.StatusOK, "E-Waste Facility Locator API is running", gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
