package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"bazaarbondhu/internal/adapter/api"
	"bazaarbondhu/internal/adapter/api/handler"
	apimiddleware "bazaarbondhu/internal/adapter/api/middleware"
	"bazaarbondhu/internal/adapter/api/router"
	"bazaarbondhu/internal/adapter/cache"
	"bazaarbondhu/internal/adapter/repository"
	"bazaarbondhu/internal/adapter/repository/memory"
	domainrepo "bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/internal/domain/service"
	"bazaarbondhu/internal/infrastructure/firebase"
	"bazaarbondhu/internal/infrastructure/ratelimit"
	"bazaarbondhu/internal/infrastructure/redis"
	"bazaarbondhu/internal/infrastructure/websocket"
	"bazaarbondhu/internal/usecase"
	"bazaarbondhu/pkg/config"
	"bazaarbondhu/pkg/logger"
	"bazaarbondhu/pkg/response"
)

type repositories struct {
	users     domainrepo.UserRepository
	products  domainrepo.ProductRepository
	ads       domainrepo.AdvertisementRepository
	reviews   domainrepo.ReviewRepository
	watchlist domainrepo.WatchlistRepository
	orders    domainrepo.OrderRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	logger.Init("bazaarbondhu-api", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	useFirestore := cfg.StorageDriver != config.StorageMemory
	fb, err := firebase.NewClients(ctx, cfg, useFirestore)
	if err != nil {
		logger.Error("Failed to initialize Firebase: %v", err)
		os.Exit(1)
	}
	defer fb.Close()

	checks := map[string]handler.Pinger{}

	var repos repositories
	if useFirestore {
		repos = repositories{
			users:     repository.NewFirestoreUserRepository(fb.Firestore),
			products:  repository.NewFirestoreProductRepository(fb.Firestore),
			ads:       repository.NewFirestoreAdvertisementRepository(fb.Firestore),
			reviews:   repository.NewFirestoreReviewRepository(fb.Firestore),
			watchlist: repository.NewFirestoreWatchlistRepository(fb.Firestore),
			orders:    repository.NewFirestoreOrderRepository(fb.Firestore),
		}
		checks["firestore"] = fb
	} else {
		logger.Warn("STORAGE_DRIVER=memory: data is lost on restart")
		repos = repositories{
			users:     memory.NewUserRepository(),
			products:  memory.NewProductRepository(),
			ads:       memory.NewAdvertisementRepository(),
			reviews:   memory.NewReviewRepository(),
			watchlist: memory.NewWatchlistRepository(),
			orders:    memory.NewOrderRepository(),
		}
	}

	var roleCache domainrepo.RoleCache = cache.NewMemoryRoleCache()
	if cfg.RedisAddr != "" {
		redisClient, err := redis.NewClient(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		roleCache = cache.NewRedisRoleCache(redisClient)
		checks["redis"] = redisClient
	}

	var gateway service.PaymentGatewayService
	if cfg.StripeSecretKey != "" {
		gateway = service.NewStripePaymentService(cfg.StripeSecretKey, cfg.StripeAPIBase)
	} else {
		if !cfg.IsDevelopment() {
			logger.Error("STRIPE_SECRET_KEY is required outside development")
			os.Exit(1)
		}
		logger.Warn("STRIPE_SECRET_KEY not set, using the simulated payment gateway")
		gateway = service.NewSimulatedPaymentService()
	}

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	roleResolver := usecase.NewRoleResolver(repos.users, roleCache, cfg.RoleCacheTTL)
	userUseCase := usecase.NewUserUseCase(repos.users, roleResolver, wsManager)
	productUseCase := usecase.NewProductUseCase(repos.products, wsManager)
	reviewUseCase := usecase.NewReviewUseCase(repos.reviews, repos.products)
	watchlistUseCase := usecase.NewWatchlistUseCase(repos.watchlist, repos.products)
	advertisementUseCase := usecase.NewAdvertisementUseCase(repos.ads, wsManager)
	paymentUseCase := usecase.NewPaymentUseCase(repos.orders, repos.products, gateway, wsManager, cfg.PaymentCurrency)
	statsUseCase := usecase.NewStatsUseCase(repos.users, repos.products, repos.ads, repos.orders, repos.reviews, repos.watchlist)

	handler.Setup(userUseCase, productUseCase, reviewUseCase, watchlistUseCase, advertisementUseCase, paymentUseCase, statsUseCase)
	handler.SetupHealthHandler(checks)

	limiter := ratelimit.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(time.Minute, ctx.Done())

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = response.HTTPErrorHandler
	e.Validator = api.NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(apimiddleware.RequestLogger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(apimiddleware.RateLimit(limiter))

	authMiddleware := apimiddleware.NewAuthMiddleware(firebase.NewFirebaseAuthClient(fb.Auth))
	roleMiddleware := apimiddleware.NewRoleMiddleware(roleResolver)
	wsHandler := handler.NewWebSocketHandler(wsManager, cfg.AllowedOrigins)

	router.Setup(e, authMiddleware, roleMiddleware, wsHandler)

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			logger.Error("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}
