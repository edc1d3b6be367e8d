package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rightartist/marketplace/internal/api/handler"
	"github.com/rightartist/marketplace/internal/api/middleware"
	"github.com/rightartist/marketplace/internal/core/domain"
	"github.com/rightartist/marketplace/internal/core/ports"
	"github.com/rightartist/marketplace/internal/core/service"
	"github.com/rightartist/marketplace/internal/infrastructure/config"
	mongodb "github.com/rightartist/marketplace/internal/infrastructure/db/mongo"
	redisdb "github.com/rightartist/marketplace/internal/infrastructure/db/redis"
	"github.com/rightartist/marketplace/internal/infrastructure/push"
	"github.com/rightartist/marketplace/internal/infrastructure/queue"
)

// NewRouter builds the Echo instance with all routes registered and returns
// it together with the notification dispatcher, which the caller must Start.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	gateway *push.Gateway,
	calendarSvc ports.CalendarService,
	charger ports.CardCharger,
	cfg *config.Config,
	log zerolog.Logger,
) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	commentRepo := mongodb.NewCommentRepository(db)
	designRepo := mongodb.NewDesignRepository(db)
	messageRepo := mongodb.NewMessageRepository(db)
	notificationRepo := mongodb.NewNotificationRepository(db)
	paymentRepo := mongodb.NewPaymentRepository(db)
	ratingRepo := mongodb.NewRatingRepository(db)
	badgeRepo := mongodb.NewBadgeRepository(db)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, gateway, log)
	dispatcher := queue.NewDispatcher(cfg.NotificationWorkers, notificationService, log)
	postService := service.NewPostService(
		postRepo, commentRepo, userRepo, messageRepo,
		notificationService, dispatcher, calendarSvc, gateway, log,
	)
	engagementService := service.NewEngagementService(commentRepo, postRepo, userRepo, notificationService, log)
	designService := service.NewDesignService(
		designRepo, commentRepo, postRepo, userRepo, paymentRepo, messageRepo,
		charger, notificationService, gateway, log,
	)
	messageService := service.NewMessageService(
		messageRepo, userRepo, commentRepo,
		notificationService, gateway, redisdb.NewPresence(rdb), log,
	)
	billingService := service.NewBillingService(userRepo, paymentRepo, charger, log)
	reputationService := service.NewReputationService(ratingRepo, badgeRepo, postRepo, userRepo, designRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	postHandler := handler.NewPostHandler(postService)
	commentHandler := handler.NewCommentHandler(engagementService)
	designHandler := handler.NewDesignHandler(designService)
	messageHandler := handler.NewMessageHandler(messageService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	billingHandler := handler.NewBillingHandler(billingService)
	ratingHandler := handler.NewRatingHandler(reputationService)

	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Live push channel ---
	e.GET("/ws", gateway.Handle, authMiddleware)

	// --- API v1 (authenticated) ---
	v1 := e.Group("/v1", authMiddleware)

	v1.POST("/posts", postHandler.Create)
	v1.GET("/posts/:id", postHandler.Get)
	v1.GET("/feeds/:feed_type", postHandler.Feed)
	v1.GET("/shops/bookings", postHandler.ShopBookings, middleware.RBAC(string(domain.RoleShop)))
	v1.POST("/posts/:id/accept-pitch", postHandler.AcceptPitch)
	v1.POST("/posts/:id/schedule", postHandler.Schedule)
	v1.POST("/posts/:id/complete", postHandler.Complete)
	v1.POST("/posts/:id/cancel", postHandler.Cancel)
	v1.GET("/posts/:id/event.ics", postHandler.EventICS)
	v1.DELETE("/posts/:id", postHandler.Delete, middleware.AdminOnly())

	v1.POST("/posts/:id/comments", commentHandler.Submit)
	v1.GET("/posts/:id/comments", commentHandler.ListByPost)
	v1.PUT("/comments/:id", commentHandler.Edit)
	v1.POST("/comments/:id/withdraw", commentHandler.Withdraw)

	v1.POST("/designs/accept/:comment_id", designHandler.Accept)
	v1.PUT("/designs/:id/stage", designHandler.AdvanceStage, middleware.RBAC(string(domain.RoleDesigner)))
	v1.POST("/designs/:id/purchase", designHandler.Purchase)
	v1.GET("/designs/pending", designHandler.ListPending)
	v1.GET("/designs/purchased", designHandler.ListPurchased)
	v1.GET("/designs/sold", designHandler.ListSold, middleware.RBAC(string(domain.RoleDesigner)))

	v1.POST("/messages", messageHandler.Send)
	v1.GET("/messages/inbox", messageHandler.Inbox)
	v1.GET("/messages/sent", messageHandler.Sent)
	v1.POST("/messages/:id/read", messageHandler.MarkRead)
	v1.GET("/messages/contacts", messageHandler.Contacts)

	v1.GET("/notifications", notificationHandler.List)
	v1.POST("/notifications/read", notificationHandler.MarkAllRead)

	v1.POST("/billing/subscribe", billingHandler.Subscribe)

	v1.POST("/ratings", ratingHandler.Rate)
	v1.GET("/ratings/post/:post_id", ratingHandler.ListByPost)
	v1.GET("/ratings/user/:user_id", ratingHandler.ListByUser)
	v1.GET("/badges", ratingHandler.Badges)

	return e, dispatcher
}
