package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/mercatino/vendor-api/docs"
	"github.com/mercatino/vendor-api/internal/api/handler"
	"github.com/mercatino/vendor-api/internal/api/middleware"
	"github.com/mercatino/vendor-api/internal/api/upload"
	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
	"github.com/mercatino/vendor-api/internal/core/service"
	mongodb "github.com/mercatino/vendor-api/internal/infrastructure/db/mongo"
	redisdb "github.com/mercatino/vendor-api/internal/infrastructure/db/redis"
	"github.com/mercatino/vendor-api/internal/pkg/config"
	"github.com/mercatino/vendor-api/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, store ports.AssetStore, mailer ports.Mailer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Get())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("vendorapi"))

	// --- Repositories ---
	vendorRepo := mongodb.NewVendorRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	announcementRepo := mongodb.NewAnnouncementRepository(db)
	requestRepo := mongodb.NewRequestRepository(db)
	contactCache := redisdb.NewContactCache(rdb)

	// --- Services ---
	log := logger.Get()
	authService := service.NewAuthService(vendorRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost)
	vendorService := service.NewVendorService(vendorRepo, store, contactCache, mailer, authService, log)
	productService := service.NewProductService(vendorRepo, productRepo, store, cfg.Upload.MaxGallerySize, log)
	announcementService := service.NewAnnouncementService(vendorRepo, announcementRepo, store, log)
	requestService := service.NewRequestService(vendorRepo, productRepo, requestRepo, log)

	// --- Handlers ---
	parser := upload.NewParser(cfg.Upload)
	authHandler := handler.NewAuthHandler(authService)
	vendorHandler := handler.NewVendorHandler(vendorService)
	productHandler := handler.NewProductHandler(productService, parser)
	announcementHandler := handler.NewAnnouncementHandler(announcementService, parser)
	requestHandler := handler.NewRequestHandler(requestService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	auth := middleware.Auth(authService)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	owner := middleware.RequireRole(domain.RoleAdmin, domain.RoleUser)
	public := middleware.RequireRole(domain.RoleAdmin, domain.RoleUser, domain.RoleGuest)

	// --- Probes and tooling ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	api := e.Group("/api", auth)

	api.GET("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"name": "vendor-api",
			"time": time.Now().UTC().Format(time.RFC3339),
		})
	})
	api.POST("/authenticate", authHandler.Authenticate)

	// --- Vendors ---
	api.POST("/vendor", vendorHandler.Create, adminOnly)
	api.GET("/vendor", vendorHandler.List, adminOnly)
	api.GET("/vendor/:vendor_id", vendorHandler.Get, owner)
	api.DELETE("/vendor/:vendor_id", vendorHandler.Delete, adminOnly)

	api.GET("/vendor/:vendor_id/account", vendorHandler.GetAccount, owner)
	api.PUT("/vendor/:vendor_id/account", vendorHandler.UpdateAccount, owner)
	api.GET("/vendor/:vendor_id/contact", vendorHandler.GetContact, public)
	api.PUT("/vendor/:vendor_id/contact", vendorHandler.UpdateContact, owner)
	api.POST("/vendor/:vendor_id/mailbox", vendorHandler.Mailbox, public)

	// --- Products ---
	api.GET("/vendor/:vendor_id/products", productHandler.List, public)
	api.POST("/vendor/:vendor_id/products", productHandler.Create, owner)
	api.DELETE("/vendor/:vendor_id/products", productHandler.DeleteAll, owner)
	api.GET("/vendor/:vendor_id/products/:product_id", productHandler.Get, public)
	api.PUT("/vendor/:vendor_id/products/:product_id", productHandler.Update, owner)
	api.DELETE("/vendor/:vendor_id/products/:product_id", productHandler.Delete, owner)
	api.POST("/vendor/:vendor_id/products/:product_id/image", productHandler.SetImage, owner)
	api.DELETE("/vendor/:vendor_id/products/:product_id/image", productHandler.ClearImage, owner)
	api.POST("/vendor/:vendor_id/products/:product_id/gallery", productHandler.AppendGalleryImage, owner)
	api.DELETE("/vendor/:vendor_id/products/:product_id/gallery", productHandler.ClearGallery, owner)

	// --- Announcements ---
	api.GET("/vendor/:vendor_id/announcements", announcementHandler.List, public)
	api.POST("/vendor/:vendor_id/announcements", announcementHandler.Create, owner)
	api.DELETE("/vendor/:vendor_id/announcements", announcementHandler.DeleteAll, owner)
	api.GET("/vendor/:vendor_id/announcements/:announcement_id", announcementHandler.Get, public)
	api.PUT("/vendor/:vendor_id/announcements/:announcement_id", announcementHandler.Update, owner)
	api.DELETE("/vendor/:vendor_id/announcements/:announcement_id", announcementHandler.Delete, owner)
	api.POST("/vendor/:vendor_id/announcements/:announcement_id/image", announcementHandler.SetImage, owner)
	api.DELETE("/vendor/:vendor_id/announcements/:announcement_id/image", announcementHandler.ClearImage, owner)

	// --- Requests ---
	api.GET("/vendor/:vendor_id/requests", requestHandler.List, owner)
	api.POST("/vendor/:vendor_id/requests", requestHandler.Create, public)
	api.DELETE("/vendor/:vendor_id/requests", requestHandler.DeleteAll, owner)
	api.GET("/vendor/:vendor_id/requests/:request_id", requestHandler.Get, owner)
	api.PUT("/vendor/:vendor_id/requests/:request_id", requestHandler.Update, owner)
	api.DELETE("/vendor/:vendor_id/requests/:request_id", requestHandler.Delete, owner)

	return e
}
