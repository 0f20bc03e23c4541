package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sweetmerry/booking-api/internal/audit"
	"github.com/sweetmerry/booking-api/internal/cache"
	"github.com/sweetmerry/booking-api/internal/config"
	"github.com/sweetmerry/booking-api/internal/handlers"
	infraRepo "github.com/sweetmerry/booking-api/internal/infra/repository"
	"github.com/sweetmerry/booking-api/internal/middleware"
	"github.com/sweetmerry/booking-api/internal/observability"
	"github.com/sweetmerry/booking-api/internal/payments"
	"github.com/sweetmerry/booking-api/internal/storage"
	ucBooking "github.com/sweetmerry/booking-api/internal/usecase/booking"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	logger *zap.Logger,
) error {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, logger)

	store := cache.New(cfg.Redis, logger)
	objectStore := storage.New(cfg.Storage)

	checkout, err := payments.New(cfg.Payment)
	if err != nil {
		return err
	}

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, auditDispatcher, cfg.Timezone)
	updateBookingUC := ucBooking.NewUpdateBooking(bookingRepo, auditDispatcher, cfg.Timezone)
	getBookingUC := ucBooking.NewGetBooking(bookingRepo)
	listBookingsUC := ucBooking.NewListBookings(bookingRepo, cfg.Timezone)
	deleteBookingUC := ucBooking.NewDeleteBooking(bookingRepo, auditDispatcher)
	statsOverviewUC := ucBooking.NewStatsOverview(bookingRepo, store)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, store)
	meHandler := handlers.NewMeHandler(db)
	serviceHandler := handlers.NewServiceHandler(db, store, auditDispatcher, objectStore)
	userHandler := handlers.NewUserHandler(db, store, auditDispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		updateBookingUC,
		getBookingUC,
		listBookingsUC,
		deleteBookingUC,
		statsOverviewUC,
		checkout,
		store,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	r.GET("/metrics", observability.MetricsHandler())

	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/services", serviceHandler.List)
		api.GET("/services/categories/list", serviceHandler.Categories)
		api.GET("/services/:id", serviceHandler.Get)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/bookings", bookingHandler.List)
			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.PUT("/bookings/:id", bookingHandler.Update)
			secured.POST("/bookings/:id/checkout", bookingHandler.Checkout)

			secured.PUT("/users/:id", userHandler.Update)

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/services", serviceHandler.Create)
				admin.PUT("/services/:id", serviceHandler.Update)
				admin.DELETE("/services/:id", serviceHandler.Delete)
				admin.POST("/services/:id/image", serviceHandler.UploadImage)

				admin.DELETE("/bookings/:id", bookingHandler.Delete)
				admin.GET("/bookings/stats/overview", bookingHandler.Stats)

				admin.GET("/users", userHandler.List)
				admin.GET("/users/:id", userHandler.Get)
				admin.DELETE("/users/:id", userHandler.Delete)
				admin.GET("/users/stats/overview", userHandler.Stats)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}

	return nil
}
