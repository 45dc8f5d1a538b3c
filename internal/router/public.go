package router

import (
	"github.com/gin-gonic/gin"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/handlers"
)

// registerPublic wires every route that needs no Bearer token.
func registerPublic(api *gin.RouterGroup,
	auth *handlers.AuthHandler,
	devices *handlers.DevicesHandler,
	facilities *handlers.FacilitiesHandler,
	education *handlers.EducationHandler,
	marketplace *handlers.MarketplaceHandler,
	collections *handlers.MassCollectionHandler,
	chatbot *handlers.ChatbotHandler,
	recognize *handlers.RecognizeHandler,
	ws *handlers.WSHandler,
) {
	api.GET("/health", handlers.Health)

	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)

	api.GET("/devices", devices.List)
	api.GET("/devices/search", devices.Search)
	api.POST("/devices/estimate", devices.Estimate)

	// Static segments (nearby) must not shadow the :id routes; gin resolves
	// them by priority so registration order is free.
	api.GET("/facilities", facilities.List)
	api.GET("/facilities/nearby", facilities.Nearby)
	api.GET("/facilities/:id", facilities.Get)

	api.GET("/education", education.List)
	api.GET("/education/random/fact", education.RandomFact)
	api.GET("/education/meta/categories", education.Categories)
	api.GET("/education/:id", education.Get)

	api.GET("/marketplace", marketplace.List)
	api.GET("/marketplace/:id", marketplace.Get)

	api.POST("/mass-collection", collections.Create)
	api.GET("/mass-collection/track/:email", collections.Track)

	api.POST("/chatbot/query", chatbot.Query)
	api.POST("/ai/device-from-image", recognize.DeviceFromImage)

	api.GET("/ws", ws.Connect)
}
