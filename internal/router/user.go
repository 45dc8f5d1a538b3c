package router

import (
	"github.com/gin-gonic/gin"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/handlers"
)

// registerUser wires the routes that require a valid Bearer token.
func registerUser(api *gin.RouterGroup, auth gin.HandlerFunc,
	authH *handlers.AuthHandler,
	devices *handlers.DevicesHandler,
	marketplace *handlers.MarketplaceHandler,
	requests *handlers.RequestsHandler,
	history *handlers.HistoryHandler,
	pickups *handlers.PickupsHandler,
	collections *handlers.MassCollectionHandler,
) {
	g := api.Group("", auth)

	g.GET("/auth/profile", authH.Profile)

	g.POST("/devices/recycle", devices.Recycle)

	g.GET("/marketplace/user/my-listings", marketplace.MyListings)
	g.POST("/marketplace", marketplace.Create)
	g.PUT("/marketplace/:id", marketplace.Update)
	g.DELETE("/marketplace/:id", marketplace.Delete)

	g.POST("/requests", requests.Create)
	g.GET("/requests/my-requests", requests.MyRequests)

	g.GET("/history/my-history", history.MyHistory)
	g.GET("/history/user/:userId", history.ByUser)

	// The bare wildcard is a user id, the cancel wildcard a pickup id; gin
	// needs one name per position, so both routes use :id.
	g.POST("/pickups", pickups.Create)
	g.GET("/pickups/single/:id", pickups.Get)
	g.GET("/pickups/:id", pickups.ListByUser)
	g.PUT("/pickups/:id/cancel", pickups.Cancel)

	g.GET("/mass-collection/my", collections.My)
}
