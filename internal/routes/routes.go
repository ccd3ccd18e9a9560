package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clinicops/clinic-backoffice/internal/audit"
	"github.com/clinicops/clinic-backoffice/internal/cache"
	"github.com/clinicops/clinic-backoffice/internal/config"
	"github.com/clinicops/clinic-backoffice/internal/handlers"
	infraRepo "github.com/clinicops/clinic-backoffice/internal/infra/repository"
	"github.com/clinicops/clinic-backoffice/internal/middleware"
	"github.com/clinicops/clinic-backoffice/internal/models"
	ucAppointment "github.com/clinicops/clinic-backoffice/internal/usecase/appointment"
	ucSchedule "github.com/clinicops/clinic-backoffice/internal/usecase/schedule"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, slotCache *cache.SlotCache) {

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// 🧠 USE CASES — SCHEDULE
	// ======================================================
	getSlotsUC := ucSchedule.NewGetAvailableSlots(
		scheduleRepo,
		scheduleRepo,
		scheduleRepo,
		slotCache,
		cfg.DefaultTimezone,
	)

	replaceRulesUC := ucSchedule.NewReplaceRules(
		scheduleRepo,
		slotCache,
		auditDispatcher,
	)

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		auditDispatcher,
		slotCache,
		cfg.DefaultTimezone,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		appointmentRepo,
		auditDispatcher,
		slotCache,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		auditDispatcher,
		slotCache,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		appointmentRepo,
		cfg.DefaultTimezone,
	)

	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(
		appointmentRepo,
		cfg.DefaultTimezone,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	patientsHandler := handlers.NewPatientsHandler(db, auditDispatcher)
	consultantsHandler := handlers.NewConsultantsHandler(db, auditDispatcher)
	appointmentTypesHandler := handlers.NewAppointmentTypesHandler(db, auditDispatcher)
	inventoryHandler := handlers.NewInventoryHandler(db, auditDispatcher)
	purchasesHandler := handlers.NewPurchasesHandler(db, auditDispatcher)
	statisticsHandler := handlers.NewStatisticsHandler(db)

	workingHoursHandler := handlers.NewWorkingHoursHandler(
		db,
		replaceRulesUC,
		getSlotsUC,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		cfg,
		createAppointmentUC,
		completeAppointmentUC,
		cancelAppointmentUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.POST("/me/change-password", authHandler.ChangePassword)

			// ------------------------------
			// PATIENTS
			// ------------------------------
			secured.GET("/patients", patientsHandler.List)
			secured.POST("/patients", patientsHandler.Create)
			secured.GET("/patients/:id", patientsHandler.Get)
			secured.PATCH("/patients/:id", patientsHandler.Update)
			secured.DELETE("/patients/:id", patientsHandler.Delete)

			// ------------------------------
			// APPOINTMENT TYPES
			// ------------------------------
			secured.GET("/appointment-types", appointmentTypesHandler.List)
			secured.GET("/appointment-types/:id", appointmentTypesHandler.Get)

			// ------------------------------
			// WORKING HOURS + SLOTS
			// ------------------------------
			secured.GET("/me/working-hours", workingHoursHandler.GetMine)
			secured.PUT("/me/working-hours", workingHoursHandler.UpdateMine)
			secured.GET("/consultants/:id/slots", workingHoursHandler.Slots)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)

			// ------------------------------
			// PURCHASES + INVENTORY (read)
			// ------------------------------
			secured.GET("/inventory", inventoryHandler.List)
			secured.GET("/inventory/:id", inventoryHandler.Get)
			secured.POST("/purchases", purchasesHandler.Create)
			secured.GET("/purchases", purchasesHandler.List)

			// ------------------------------
			// 👑 ADMIN
			// ------------------------------
			admin := secured.Group("/")
			admin.Use(middleware.RequireRoles(models.RoleAdmin))
			{
				admin.GET("/consultants", consultantsHandler.List)
				admin.POST("/consultants", consultantsHandler.Create)
				admin.PATCH("/consultants/:id", consultantsHandler.Update)
				admin.POST("/consultants/:id/reset-password", consultantsHandler.ResetPassword)

				admin.GET("/consultants/:id/working-hours", workingHoursHandler.GetForUser)
				admin.PUT("/consultants/:id/working-hours", workingHoursHandler.UpdateForUser)

				admin.GET("/consultants/:id/appointment-types", consultantsHandler.GetAppointmentTypeVisibility)
				admin.PUT("/consultants/:id/appointment-types", consultantsHandler.UpdateAppointmentTypeVisibility)
				admin.GET("/consultants/:id/inventory", consultantsHandler.GetInventoryVisibility)
				admin.PUT("/consultants/:id/inventory", consultantsHandler.UpdateInventoryVisibility)
				admin.GET("/consultants/:id/stats", consultantsHandler.Stats)

				admin.POST("/appointment-types", appointmentTypesHandler.Create)
				admin.PATCH("/appointment-types/:id", appointmentTypesHandler.Update)
				admin.DELETE("/appointment-types/:id", appointmentTypesHandler.Delete)

				admin.POST("/inventory", inventoryHandler.Create)
				admin.PATCH("/inventory/:id", inventoryHandler.Update)
				admin.DELETE("/inventory/:id", inventoryHandler.Delete)
				admin.POST("/inventory/:id/restock", inventoryHandler.Restock)
				admin.GET("/inventory/stats", inventoryHandler.Stats)

				admin.GET("/statistics/revenue", statisticsHandler.Revenue)
				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
