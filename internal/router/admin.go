package router

import (
	"github.com/gin-gonic/gin"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/handlers"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/middleware"
)

// registerAdmin wires everything behind AdminOnly.
func registerAdmin(api *gin.RouterGroup, auth gin.HandlerFunc,
	facilities *handlers.FacilitiesHandler,
	history *handlers.HistoryHandler,
	collections *handlers.MassCollectionHandler,
	admin *handlers.AdminHandler,
) {
	g := api.Group("", auth, middleware.AdminOnly())

	g.POST("/facilities", facilities.Create)
	g.PUT("/facilities/:id", facilities.Update)
	g.DELETE("/facilities/:id", facilities.Delete)

	g.GET("/history/stats", history.Stats)

	g.GET("/mass-collection/admin/all", collections.AdminList)
	g.GET("/mass-collection/admin/:id", collections.AdminGet)
	g.PUT("/mass-collection/admin/:id/status", collections.AdminUpdateStatus)

	a := g.Group("/admin")

	// The dashboard calls both the long and the short request paths.
	a.GET("/recycling-requests", admin.RecyclingRequests)
	a.PUT("/recycling-requests/:id/approve", admin.ApproveRequest)
	a.PUT("/recycling-requests/:id/reject", admin.RejectRequest)
	a.GET("/requests", admin.RecyclingRequests)
	a.PUT("/requests/:id/approve", admin.ApproveRequest)
	a.PUT("/requests/:id/reject", admin.RejectRequest)

	a.GET("/users", admin.Users)

	a.GET("/marketplace", admin.Marketplace)
	a.PUT("/marketplace/:id/approve", admin.ApproveListing)
	a.DELETE("/marketplace/:id", admin.DeleteListing)

	a.GET("/stats/overview", admin.StatsOverview)
	a.GET("/stats/activity", admin.StatsActivity)

	a.GET("/pickups", admin.Pickups)
	a.PUT("/pickups/:id/status", admin.UpdatePickupStatus)

	a.GET("/chat-logs", admin.ChatLogs)
}
