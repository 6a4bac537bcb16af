package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/harmoniawellness/wellness-scheduler/internal/audit"
	"github.com/harmoniawellness/wellness-scheduler/internal/cache"
	"github.com/harmoniawellness/wellness-scheduler/internal/config"
	"github.com/harmoniawellness/wellness-scheduler/internal/handlers"
	infraRepo "github.com/harmoniawellness/wellness-scheduler/internal/infra/repository"
	"github.com/harmoniawellness/wellness-scheduler/internal/middleware"
	"github.com/harmoniawellness/wellness-scheduler/internal/notification"
	"github.com/harmoniawellness/wellness-scheduler/internal/payments"
	ucAppointment "github.com/harmoniawellness/wellness-scheduler/internal/usecase/appointment"
	ucAvailability "github.com/harmoniawellness/wellness-scheduler/internal/usecase/availability"
	"github.com/harmoniawellness/wellness-scheduler/internal/wallet"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	log *zap.Logger,
	availCache *cache.AvailabilityCache,
	gateway payments.Gateway,
) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	repo := infraRepo.NewSchedulingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	notifier := notification.NewDispatcher(db, log)
	walletSvc := wallet.NewService(db)

	// ======================================================
	// USE CASES: AVAILABILITY
	// ======================================================
	getAvailabilityUC := ucAvailability.NewGetAvailability(repo, availCache)
	reserveSlotUC := ucAvailability.NewReserveSlot(repo, availCache)
	dayGridUC := ucAvailability.NewGetDayGrid(repo)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	createCheckoutUC := ucAppointment.NewCreateCheckout(repo, gateway)

	confirmPaymentUC := ucAppointment.NewConfirmPayment(
		repo,
		reserveSlotUC,
		walletSvc,
		notifier,
		log,
	)

	expirePaymentUC := ucAppointment.NewExpirePayment(repo)

	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(
		repo,
		notifier,
		auditDispatcher,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		repo,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		repo,
		walletSvc,
		notifier,
		availCache,
		auditDispatcher,
		log,
	)

	proposeRescheduleUC := ucAppointment.NewProposeReschedule(
		repo,
		notifier,
		auditDispatcher,
	)

	respondRescheduleUC := ucAppointment.NewRespondReschedule(
		repo,
		reserveSlotUC,
		walletSvc,
		notifier,
		availCache,
		log,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	providerHandler := handlers.NewProviderHandler(db)

	serviceHandler := handlers.NewServiceHandler(db)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db)
	blockedRangeHandler := handlers.NewBlockedRangeHandler(db, availCache)

	appointmentHandler := handlers.NewAppointmentHandler(
		repo,
		confirmAppointmentUC,
		completeAppointmentUC,
		cancelAppointmentUC,
		proposeRescheduleUC,
		dayGridUC,
	)

	customerHandler := handlers.NewCustomerHandler(
		db,
		cancelAppointmentUC,
		respondRescheduleUC,
	)

	walletHandler := handlers.NewWalletHandler(walletSvc)
	notificationHandler := handlers.NewNotificationHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(db, getAvailabilityUC, createCheckoutUC)
	webhookHandler := handlers.NewPaymentWebhookHandler(
		gateway,
		confirmPaymentUC,
		expirePaymentUC,
		log,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/checkout", middleware.OptionalAuth(cfg), publicHandler.CreateCheckout)
		}

		// ------------------------------
		// WEBHOOKS
		// ------------------------------
		api.POST("/webhooks/payments", webhookHandler.Handle)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA (CLIENTE)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/appointments", customerHandler.ListMyAppointments)
			secured.POST("/appointments/:id/cancel", customerHandler.Cancel)
			secured.POST("/reschedules/:id/respond", customerHandler.RespondReschedule)

			secured.GET("/wallet", walletHandler.GetStatement)
			secured.GET("/notifications", notificationHandler.List)
			secured.PATCH("/notifications/:id/read", notificationHandler.MarkRead)

			// ------------------------------
			// PORTAL DO PROFISSIONAL
			// ------------------------------
			portal := secured.Group("/me")
			portal.Use(middleware.RequireProvider())
			{
				portal.GET("/provider", providerHandler.GetMeProvider)
				portal.PATCH("/provider", providerHandler.UpdateMeProvider)

				portal.GET("/services", serviceHandler.List)
				portal.POST("/services", serviceHandler.Create)
				portal.PATCH("/services/:id", serviceHandler.Update)
				portal.PUT("/services/:id/duration", serviceHandler.SetDurationOverride)

				portal.GET("/working-hours", workingHoursHandler.Get)
				portal.PUT("/working-hours", workingHoursHandler.Update)

				portal.GET("/blocked-ranges", blockedRangeHandler.List)
				portal.POST("/blocked-ranges", blockedRangeHandler.Create)
				portal.DELETE("/blocked-ranges/:id", blockedRangeHandler.Delete)

				portal.GET("/appointments", appointmentHandler.ListByDate)
				portal.GET("/appointments/month", appointmentHandler.ListByMonth)
				portal.GET("/appointments/grid", appointmentHandler.DayGrid)
				portal.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
				portal.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
				portal.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
				portal.POST("/appointments/:id/reschedule", appointmentHandler.ProposeReschedule)

				portal.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
