// Router: gin engine with recovery, request logging, CORS and the per-IP
// rate limit; JWT auth only where a group explicitly attaches it.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/ai"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/chat"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/config"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/devices"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/education"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/facilities"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/handlers"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/marketplace"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/masscollection"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/middleware"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/notify"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/pickups"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/recycling"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/scheduling"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/security"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/users"
)

// Dependencies carries everything the router needs to assemble handlers.
type Dependencies struct {
	Pool      *pgxpool.Pool
	Redis     *redis.Client
	AI        *ai.Client
	Hub       *notify.Hub
	JWT       *security.JWTManager
	Validator middleware.TokenValidator
	Logger    *zap.Logger
	Config    *config.Config
}

// New assembles the gin engine: global recovery, request logging, CORS and
// rate limiting, then the /api route groups.
func New(deps Dependencies) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.RecoveryMiddleware(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	if deps.Redis != nil && deps.Config.Security.RateLimitRPS > 0 {
		r.Use(middleware.RateLimitMiddleware(deps.Redis, deps.Config.Security.RateLimitRPS))
	}

	// Repositories.
	usersRepo := users.NewRepo(deps.Pool)
	devicesRepo := devices.NewRepo(deps.Pool)
	facilitiesRepo := facilities.NewRepo(deps.Pool)
	educationRepo := education.NewRepo(deps.Pool)
	marketplaceRepo := marketplace.NewRepo(deps.Pool)
	recyclingRepo := recycling.NewRepo(deps.Pool)
	pickupsRepo := pickups.NewRepo(deps.Pool)
	collectionsRepo := masscollection.NewRepo(deps.Pool)
	chatRepo := chat.NewRepo(deps.Pool)

	extractor := scheduling.NewDistrictExtractor(deps.AI, deps.Config.AI.Timeout, deps.Logger)
	schedOpts := []scheduling.Option{
		scheduling.WithCapacity(deps.Config.Pickup.DailyCapacity),
		scheduling.WithSlotStartHour(deps.Config.Pickup.SlotStartHour),
		scheduling.WithCutoffHour(deps.Config.Pickup.CutoffHour),
		scheduling.WithMaxLookaheadDays(deps.Config.Pickup.MaxLookaheadDays),
	}

	// Handlers.
	authH := handlers.NewAuthHandler(usersRepo, deps.JWT, deps.Logger,
		deps.Config.Security.BcryptCost, deps.Config.Security.MinPasswordLen)
	devicesH := handlers.NewDevicesHandler(devicesRepo, facilitiesRepo, recyclingRepo, deps.Logger)
	facilitiesH := handlers.NewFacilitiesHandler(facilitiesRepo, deps.Logger)
	educationH := handlers.NewEducationHandler(educationRepo, deps.Logger)
	marketplaceH := handlers.NewMarketplaceHandler(marketplaceRepo, deps.Logger)
	requestsH := handlers.NewRequestsHandler(devicesRepo, recyclingRepo, deps.Logger)
	historyH := handlers.NewHistoryHandler(recyclingRepo, usersRepo, deps.Logger)
	pickupsH := handlers.NewPickupsHandler(pickupsRepo, devicesRepo, extractor, deps.Hub, deps.Logger,
		schedOpts, deps.Config.Pickup.SerializeBookings)
	collectionsH := handlers.NewMassCollectionHandler(collectionsRepo, usersRepo, deps.Hub, deps.Logger)
	chatbotH := handlers.NewChatbotHandler(deps.AI, chatRepo, deps.Redis, deps.Validator, deps.Logger)
	recognizeH := handlers.NewRecognizeHandler(deps.AI, devicesRepo, deps.Config.AI.VisionModel, deps.Logger)
	wsH := handlers.NewWSHandler(deps.Hub, deps.Validator, deps.Logger)
	adminH := handlers.NewAdminHandler(usersRepo, facilitiesRepo, recyclingRepo, marketplaceRepo,
		pickupsRepo, chatRepo, deps.Hub, deps.Logger)

	api := r.Group("/api")
	auth := middleware.AuthMiddleware(deps.Validator)

	registerPublic(api, authH, devicesH, facilitiesH, educationH, marketplaceH,
		collectionsH, chatbotH, recognizeH, wsH)
	registerUser(api, auth, authH, devicesH, marketplaceH, requestsH, historyH,
		pickupsH, collectionsH)
	registerAdmin(api, auth, facilitiesH, historyH, collectionsH, adminH)

	return r
}
