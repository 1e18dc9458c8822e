package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"sunushop-backend/config"
	"sunushop-backend/internal/delivery/http/middleware"
	v1 "sunushop-backend/internal/delivery/http/v1"
	"sunushop-backend/internal/domain"
	"sunushop-backend/internal/infrastructure/cache"
	"sunushop-backend/internal/infrastructure/events"
	"sunushop-backend/internal/infrastructure/geonames"
	"sunushop-backend/internal/infrastructure/payment"
	pgrepo "sunushop-backend/internal/repository/postgres"
	"sunushop-backend/internal/usecase"
	"sunushop-backend/pkg/logger"
	"sunushop-backend/pkg/storage"
	"sunushop-backend/pkg/tracing"
	"sunushop-backend/pkg/utils"
)

const serviceVersion = "1.0.0"

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := func(context.Context) error { return nil }
	if cfg.OtelEnabled {
		fn, err := tracing.Init(ctx, cfg.OtelServiceName)
		if err != nil {
			log.Warn().Err(err).Msg("Tracing disabled")
		} else {
			shutdownTracing = fn
		}
	}

	if cfg.RunMigrations {
		if err := pgrepo.RunMigrations(cfg.DBUrl); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	pgxPool, err := pgrepo.NewPgxPool(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgxPool.Close()
	log.Info().Msg("Successfully connected to PostgreSQL via pgx")

	// Repositories
	userRepo := pgrepo.NewUserRepository(pgxPool)
	productRepo := pgrepo.NewProductRepository(pgxPool)
	orderRepo := pgrepo.NewOrderRepository(pgxPool)
	deliveryRepo := pgrepo.NewDeliveryRepository(pgxPool)
	statsRepo := pgrepo.NewStatsRepository(pgxPool)
	txManager := pgrepo.NewTransactionManager(pgxPool)

	memCache := cache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// Outbound integrations
	cityFinder := geonames.NewClient(cfg.GeoNamesURL, cfg.GeoNamesUsername, cfg.GeoNamesMaxRows, cfg.GeoNamesTimeout)
	paymentGateway := payment.NewClient(cfg.PaymentAPIURL, cfg.PaymentAPIKey, cfg.PaymentTimeout)
	publisher := events.New(cfg.KafkaBrokerList(), cfg.KafkaOrderTopic)

	// --- Modules Initialization ---

	deliveryUC := usecase.NewDeliveryUsecase(deliveryRepo, memCache, usecase.NewDeliveryResolver(cfg.HomeCountry), cfg)
	deliveryAdminUC := usecase.NewDeliveryAdminUsecase(deliveryRepo, deliveryUC)
	checkoutUC := usecase.NewCheckoutUsecase(orderRepo, productRepo, deliveryUC, paymentGateway, publisher, txManager, memCache, cfg)
	orderUC := usecase.NewOrderUsecase(orderRepo, paymentGateway, txManager, memCache)
	catalogUC := usecase.NewCatalogUsecase(productRepo, memCache, cfg)
	revenueUC := usecase.NewRevenueUsecase(statsRepo, memCache, cfg)
	locationUC := usecase.NewLocationUsecase(cityFinder, memCache, cfg)
	authUC := usecase.NewAuthUsecase(userRepo, cfg.AccessTokenExpiry)

	deliveryHandler := v1.NewDeliveryHandler(deliveryUC)
	adminDeliveryHandler := v1.NewAdminDeliveryHandler(deliveryAdminUC)
	orderHandler := v1.NewOrderHandler(checkoutUC)
	adminOrderHandler := v1.NewAdminOrderHandler(orderUC)
	catalogHandler := v1.NewCatalogHandler(catalogUC)
	adminCatalogHandler := v1.NewAdminCatalogHandler(catalogUC)
	statsHandler := v1.NewStatsHandler(revenueUC)
	locationHandler := v1.NewLocationHandler(locationUC)
	authHandler := v1.NewAuthHandler(authUC, !cfg.IsDevelopment())

	mux := http.NewServeMux()

	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(h)
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.AdminMiddleware(h))
	}
	vendorOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.RoleMiddleware(domain.RoleVendor)(h))
	}

	// Auth
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/logout", authHandler.Logout)
	mux.Handle("GET /api/v1/auth/me", authed(authHandler.Me))
	mux.Handle("GET /api/v1/admin/users", adminOnly(authHandler.ListUsers))

	// Delivery (Public)
	mux.HandleFunc("GET /api/v1/delivery/quote", deliveryHandler.Quote)
	mux.HandleFunc("GET /api/v1/delivery/cities", deliveryHandler.Cities)
	mux.HandleFunc("GET /api/v1/delivery/regions", deliveryHandler.Regions)
	mux.HandleFunc("GET /api/v1/delivery/zones", deliveryHandler.Zones)
	mux.HandleFunc("GET /api/v1/delivery/transporteurs", deliveryHandler.Transporteurs)

	// Delivery (Admin)
	adminDeliveryHandler.Register(mux, adminOnly)

	// Locations
	mux.Handle("GET /api/v1/locations/cities", middleware.OptionalAuthMiddleware(http.HandlerFunc(locationHandler.SearchCities)))
	mux.HandleFunc("GET /api/v1/countries", locationHandler.Countries)

	// Catalog (Public)
	mux.HandleFunc("GET /api/v1/categories", catalogHandler.GetCategories)
	mux.HandleFunc("GET /api/v1/categories/tree", catalogHandler.GetCategoryTree)
	mux.HandleFunc("GET /api/v1/products", catalogHandler.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", catalogHandler.GetProduct)

	// Catalog (Admin)
	mux.Handle("GET /api/v1/admin/categories", adminOnly(adminCatalogHandler.GetCategories))
	mux.Handle("GET /api/v1/admin/categories/tree", adminOnly(adminCatalogHandler.GetCategoryTree))
	mux.Handle("POST /api/v1/admin/categories", adminOnly(adminCatalogHandler.CreateCategory))
	mux.Handle("PUT /api/v1/admin/categories/{id}", adminOnly(adminCatalogHandler.UpdateCategory))
	mux.Handle("DELETE /api/v1/admin/categories/{id}", adminOnly(adminCatalogHandler.DeleteCategory))

	mux.Handle("GET /api/v1/admin/products", adminOnly(adminCatalogHandler.ListProducts))
	mux.Handle("GET /api/v1/admin/products/deleted", adminOnly(adminCatalogHandler.ListDeletedProducts))
	mux.Handle("GET /api/v1/admin/products/{id}", adminOnly(adminCatalogHandler.GetProduct))
	mux.Handle("POST /api/v1/admin/products", adminOnly(adminCatalogHandler.CreateProduct))
	mux.Handle("PUT /api/v1/admin/products/{id}", adminOnly(adminCatalogHandler.UpdateProduct))
	mux.Handle("DELETE /api/v1/admin/products/{id}", adminOnly(adminCatalogHandler.DeleteProduct))
	mux.Handle("POST /api/v1/admin/products/{id}/restore", adminOnly(adminCatalogHandler.RestoreProduct))

	// Uploads go to R2 when it is configured
	if cfg.R2AccountID != "" {
		r2Storage, err := storage.NewR2Storage(ctx, storage.R2Options{
			AccountID:     cfg.R2AccountID,
			AccessKey:     cfg.R2AccessKeyID,
			SecretKey:     cfg.R2AccessKeySecret,
			Bucket:        cfg.R2BucketName,
			PublicURL:     cfg.R2PublicURL,
			UploadTimeout: cfg.R2UploadTimeout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 Storage")
		}
		uploadHandler := v1.NewUploadHandler(r2Storage, cfg.MaxUploadSizeMB)
		mux.Handle("POST /api/v1/admin/uploads", adminOnly(uploadHandler.UploadImage))
	} else {
		log.Warn().Msg("R2 not configured, uploads disabled")
	}

	// Orders
	mux.Handle("POST /api/v1/orders", authed(orderHandler.PlaceOrder))
	mux.Handle("POST /api/v1/orders/guest", middleware.OptionalAuthMiddleware(http.HandlerFunc(orderHandler.PlaceGuestOrder)))
	mux.Handle("GET /api/v1/orders", authed(orderHandler.GetMyOrders))
	mux.HandleFunc("GET /api/v1/orders/confirmation", orderHandler.Confirmation)
	mux.HandleFunc("POST /api/v1/payments/callback", adminOrderHandler.PaymentCallback)

	mux.Handle("GET /api/v1/admin/orders", adminOnly(adminOrderHandler.ListOrders))
	mux.Handle("GET /api/v1/admin/orders/{id}", adminOnly(adminOrderHandler.GetOrder))
	mux.Handle("PATCH /api/v1/admin/orders/{id}/status", adminOnly(adminOrderHandler.UpdateStatus))
	mux.Handle("GET /api/v1/admin/orders/{id}/history", adminOnly(adminOrderHandler.GetOrderHistory))

	// Revenue & Analytics
	mux.Handle("GET /api/v1/vendor/revenue", vendorOnly(statsHandler.MyRevenue))
	mux.Handle("GET /api/v1/admin/stats/vendor-revenue", adminOnly(statsHandler.VendorRevenue))
	mux.Handle("GET /api/v1/admin/stats/overview", adminOnly(statsHandler.Overview))

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		hctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pgxPool.Ping(hctx); err != nil {
			utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "db": "unreachable"})
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "db": "connected"})
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	rateLimiter := middleware.NewRateLimiter(
		ctx,
		rate.Limit(cfg.RateLimitRPS),
		cfg.RateLimitBurst,
		time.Minute,
		3*time.Minute,
	)

	// Metrics must see the mux first so r.Pattern is set
	handler := middleware.Metrics(mux)
	handler = middleware.NewCORSMiddleware(cfg)(handler)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)
	if cfg.OtelEnabled {
		handler = otelhttp.NewHandler(handler, "http.server")
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()
	logger.ServiceStart(cfg.OtelServiceName, serviceVersion, cfg.Port)

	<-ctx.Done()
	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := publisher.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close event publisher")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	logger.ServiceStop(cfg.OtelServiceName)
}
