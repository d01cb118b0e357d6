package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/saeid-a/PowerScaleBack/internal/cache"
	"github.com/saeid-a/PowerScaleBack/internal/config"
	"github.com/saeid-a/PowerScaleBack/internal/handlers"
	"github.com/saeid-a/PowerScaleBack/internal/metrics"
	"github.com/saeid-a/PowerScaleBack/internal/middleware"
	"github.com/saeid-a/PowerScaleBack/internal/repository"
	"github.com/saeid-a/PowerScaleBack/internal/services"
	sessionws "github.com/saeid-a/PowerScaleBack/internal/websocket"
	log "github.com/sirupsen/logrus"
)

// Dependencies are the process-wide clients main has opened. Redis and the registry may be nil.
type Dependencies struct {
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Metrics  *metrics.Manager
	Registry *prometheus.Registry
	Hub      *sessionws.Hub
}

func RegisterRoutes(app *fiber.App, cfg *config.Config, deps Dependencies) error {
	db := deps.DB

	var kv, revocations cache.Store
	if deps.Redis != nil {
		kv = cache.NewRedisStore(deps.Redis)
		revocations = kv
	} else {
		log.Warn("redis not configured, drafts and sign-outs are kept in process memory")
		kv = cache.NewLocalStore(64)
		// draft and feed churn must not evict revoked tokens
		revocations = cache.NewLocalStore(16)
	}
	drafts := cache.NewDraftStore(kv)
	denylist := cache.NewTokenDenylist(revocations)
	feed := cache.NewFeedCache(kv)

	hub := deps.Hub
	if hub == nil {
		hub = sessionws.NewHub()
		go hub.Run()
	}

	userRepo := repository.NewUserRepository(db)
	userProfileRepo := repository.NewUserProfileRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	workoutPlanRepo := repository.NewWorkoutPlanRepository(db)
	dietPlanRepo := repository.NewDietPlanRepository(db)
	postRepo := repository.NewPostRepository(db)

	var blobStore services.BlobStore
	if cfg.StorageConfigured() {
		blobStore = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	accountService := services.NewAccountService(
		accountRepo,
		userRepo,
		userProfileRepo,
		denylist,
		hub,
		cfg.JWTSecret,
		cfg.JWTTTL,
	)
	goalService := services.NewGoalService(userProfileRepo)
	workoutPlanService := services.NewWorkoutPlanService(drafts, workoutPlanRepo, deps.Metrics)
	dietPlanService := services.NewDietPlanService(drafts, dietPlanRepo, deps.Metrics)
	trackerService := services.NewTrackerService(workoutPlanRepo, deps.Metrics)
	socialService := services.NewSocialService(userProfileRepo, postRepo, blobStore, feed, deps.Metrics)
	voucherService := services.NewVoucherService(userProfileRepo, deps.Metrics)

	authHandler := handlers.NewAuthHandler(accountService, hub)
	goalHandler := handlers.NewGoalHandler(goalService)
	workoutPlanHandler := handlers.NewWorkoutPlanHandler(workoutPlanService)
	dietPlanHandler := handlers.NewDietPlanHandler(dietPlanService)
	trackerHandler := handlers.NewTrackerHandler(trackerService)
	socialHandler := handlers.NewSocialHandler(socialService)
	voucherHandler := handlers.NewVoucherHandler(voucherService)

	if deps.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	authRequired := middleware.AuthRequired(accountService)
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authRequired, authHandler.Logout)
	auth.Get("/me", authRequired, authHandler.Me)

	api.Use("/v1/ws", authHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(authHandler.SessionEvents))

	authProtected := api.Group("/v1", authRequired)

	users := authProtected.Group("/users")
	users.Post("/goal", goalHandler.SaveGoal)
	users.Get("/profile", goalHandler.GetProfile)
	users.Get("/search", socialHandler.Search)
	users.Post("/me/posts", socialHandler.CreatePost)
	users.Post("/me/avatar", socialHandler.UploadAvatar)
	users.Get("/:id", socialHandler.GetProfile)
	users.Get("/:id/posts", socialHandler.ListPosts)

	authProtected.Post("/nutrition/preview", goalHandler.Preview)
	authProtected.Get("/catalog/:kind", handlers.SearchCatalog)

	plans := authProtected.Group("/plans")
	registerPlanRoutes(plans.Group("/workout"), workoutPlanHandler)
	registerPlanRoutes(plans.Group("/diet"), dietPlanHandler)

	tracker := authProtected.Group("/tracker")
	tracker.Get("/today", trackerHandler.Today)
	tracker.Get("/days/:day", trackerHandler.GetDay)
	tracker.Get("/days/:day/reel", trackerHandler.Reel)
	tracker.Post("/days/:day/items/:itemID/sets", trackerHandler.AddSet)

	authProtected.Post("/vouchers/redeem", voucherHandler.Redeem)

	return nil
}

type planRoutes interface {
	GetPlan(c *fiber.Ctx) error
	SavePlan(c *fiber.Ctx) error
	GetDraft(c *fiber.Ctx) error
	Discard(c *fiber.Ctx) error
	ChooseMode(c *fiber.Ctx) error
	SetDayName(c *fiber.Ctx) error
	AddItem(c *fiber.Ctx) error
	UpdateItem(c *fiber.Ctx) error
	RemoveItem(c *fiber.Ctx) error
	SaveDay(c *fiber.Ctx) error
	SkipDay(c *fiber.Ctx) error
	EditDay(c *fiber.Ctx) error
	Reopen(c *fiber.Ctx) error
}

func registerPlanRoutes(group fiber.Router, h planRoutes) {
	group.Get("", h.GetPlan)
	group.Post("", h.SavePlan)

	group.Get("/draft", h.GetDraft)
	group.Delete("/draft", h.Discard)
	group.Post("/draft/mode", h.ChooseMode)
	group.Put("/draft/day-name", h.SetDayName)
	group.Post("/draft/items", h.AddItem)
	group.Put("/draft/items/:itemID", h.UpdateItem)
	group.Delete("/draft/items/:itemID", h.RemoveItem)
	group.Post("/draft/save-day", h.SaveDay)
	group.Post("/draft/skip-day", h.SkipDay)
	group.Post("/draft/days/:day/edit", h.EditDay)
	group.Post("/draft/reopen", h.Reopen)
}
