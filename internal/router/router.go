package router

import (
	"github.com/gin-gonic/gin"

	"github.com/furwell/clinic-api/internal/config"
	"github.com/furwell/clinic-api/internal/handler"
	"github.com/furwell/clinic-api/internal/handler/contact"
	"github.com/furwell/clinic-api/internal/handler/pet"
	"github.com/furwell/clinic-api/internal/handler/report"
	"github.com/furwell/clinic-api/internal/handler/reservation"
	"github.com/furwell/clinic-api/internal/middleware"
	"github.com/furwell/clinic-api/pkg/metrics"
)

type Router struct {
	engine       *gin.Engine
	h            *handler.Handler
	reservationH *reservation.Handler
	petH         *pet.Handler
	reportH      *report.Handler
	contactH     *contact.Handler
}

func NewRouter(
	cfg *config.Config,
	m *metrics.Metrics,
	h *handler.Handler,
	reservationH *reservation.Handler,
	petH *pet.Handler,
	reportH *report.Handler,
	contactH *contact.Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	handler.RegisterValidations()

	engine := gin.New()

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.Metrics(m),
	)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	if len(cfg.CORS.AllowedMethods) > 0 {
		corsConfig.AllowMethods = cfg.CORS.AllowedMethods
	}
	if len(cfg.CORS.AllowedHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.CORS.AllowedHeaders
	}
	engine.Use(middleware.CORS(corsConfig))

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		engine.Use(limiter.RateLimit())
	}

	return &Router{
		engine:       engine,
		h:            h,
		reservationH: reservationH,
		petH:         petH,
		reportH:      reportH,
		contactH:     contactH,
	}
}

func (r *Router) Setup() {
	r.setupHealthCheck()

	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupReservationRoutes(api)
	r.setupPetRoutes(api)
	r.setupReportRoutes(api)

	api.POST("/contact", r.contactH.SubmitContactForm)
}

func (r *Router) setupHealthCheck() {
	health := r.engine.Group("/health")
	{
		health.GET("", r.h.HealthCheck)
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
	}
	r.engine.GET("/metrics", r.h.MetricsHandler)
}

func (r *Router) setupReservationRoutes(rg *gin.RouterGroup) {
	reservations := rg.Group("/reservations")
	{
		reservations.POST("", r.reservationH.CreateReservation)
		reservations.GET("", r.reservationH.ListReservations)
		reservations.GET("/upcoming", r.reservationH.ListUpcoming)
		reservations.GET("/today", r.reservationH.ListToday)
		reservations.GET("/availability", r.reservationH.CheckAvailability)
		reservations.GET("/availability/full", r.reservationH.ListFullSlots)
		reservations.GET("/:id", r.reservationH.GetReservation)
		reservations.POST("/:id/done", r.reservationH.MarkDone)
		reservations.DELETE("/:id", r.reservationH.CancelReservation)
		reservations.DELETE("/:id/record", r.reservationH.DeleteRecord)
	}
}

func (r *Router) setupPetRoutes(rg *gin.RouterGroup) {
	pets := rg.Group("/pets")
	{
		pets.POST("", r.petH.CreatePet)
		pets.GET("", r.petH.ListPets)
		pets.GET("/:id", r.petH.GetPet)
		pets.PUT("/:id", r.petH.UpdatePet)
		pets.DELETE("/:id", r.petH.DeletePet)
	}

	adminPets := rg.Group("/admin/pets")
	{
		adminPets.POST("", r.petH.CreateAdminPet)
		adminPets.GET("", r.petH.SearchAdminPets)
		adminPets.GET("/:id", r.petH.GetAdminPet)
		adminPets.DELETE("/:id", r.petH.DeleteAdminPet)
		adminPets.GET("/:id/history", r.petH.ListHistory)
		adminPets.POST("/:id/history", r.petH.AddHistory)
		adminPets.PUT("/:id/history/:entryId", r.petH.UpdateHistory)
		adminPets.DELETE("/:id/history/:entryId", r.petH.DeleteHistory)
	}
}

func (r *Router) setupReportRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/monthly", r.reportH.MonthlyCounts)
		reports.GET("/dashboard", r.reportH.Dashboard)
		reports.GET("/history", r.reportH.History)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
