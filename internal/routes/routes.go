package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/weekly-signup/internal/cache"
	"github.com/BruksfildServices01/weekly-signup/internal/config"
	domain "github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
	"github.com/BruksfildServices01/weekly-signup/internal/handlers"
	"github.com/BruksfildServices01/weekly-signup/internal/idgen"
	"github.com/BruksfildServices01/weekly-signup/internal/metrics"
	"github.com/BruksfildServices01/weekly-signup/internal/middleware"
	ucBooking "github.com/BruksfildServices01/weekly-signup/internal/usecase/booking"
)

// Deps are the singletons built by main.
type Deps struct {
	Config  *config.Config
	Log     *zap.Logger
	Repo    domain.Repository
	Cache   cache.WeekCache
	IDs     idgen.Generator
	Auditor ucBooking.Auditor
	Metrics *metrics.Metrics

	// DB backs the audit-log listing; nil disables the route.
	DB *gorm.DB
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware())

	writeLimit := middleware.NewRateLimiter(d.Config.MaxWritesPerMin, d.Log).Middleware()

	// ======================================================
	// USE CASES
	// ======================================================
	listWeekUC := ucBooking.NewListWeek(d.Repo, d.Cache, d.Metrics)
	createBookingUC := ucBooking.NewCreateBooking(d.Repo, d.Cache, d.IDs, d.Auditor, d.Metrics)
	deleteBookingUC := ucBooking.NewDeleteBooking(d.Repo, d.Cache, d.Auditor, d.Metrics)

	// ======================================================
	// HANDLERS
	// ======================================================
	bookingHandler := handlers.NewBookingHandler(
		listWeekUC,
		createBookingUC,
		deleteBookingUC,
		d.Config.Timezone,
		d.Log,
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		api.GET("/slots", handlers.Slots)

		api.GET("/bookings", bookingHandler.List)
		api.GET("/bookings/grid", bookingHandler.Grid)
		api.POST("/bookings", writeLimit, bookingHandler.Create)
		api.DELETE("/bookings/:id", writeLimit, bookingHandler.Delete)

		if d.DB != nil {
			auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)
			api.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
