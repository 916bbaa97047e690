package routes

import (
	"log"
	"os"

	controller "estatedesk/controllers"
	"estatedesk/middleware"
	"estatedesk/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints
	auth.Post("/login", controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", controller.Logout)
	protectedAuth.Post("/change-password", controller.ChangePassword)
	protectedAuth.Get("/me", controller.GetCurrentUser)

	// Account creation is an admin action on this backend
	protectedAuth.Post("/register", middleware.AdminOnly(), controller.Register)
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB, scheduler *utils.FollowUpScheduler, notifier *utils.Notifier, mailer *utils.Mailer, hub *controller.NotificationHub) {
	queryController := controller.NewQueryController(db, scheduler, notifier, mailer, log.New(os.Stdout, "QUERY: ", log.LstdFlags))
	leadController := controller.NewLeadController(db, scheduler, notifier, log.New(os.Stdout, "LEAD: ", log.LstdFlags))
	propertyController := controller.NewPropertyController(db, log.New(os.Stdout, "PROPERTY: ", log.LstdFlags))
	notificationController := controller.NewNotificationController(db, log.New(os.Stdout, "NOTIFY: ", log.LstdFlags))
	dashboardController := controller.NewDashboardController(db, log.New(os.Stdout, "DASHBOARD: ", log.LstdFlags))

	// Public endpoints
	app.Post("/queries", middleware.ContactRateLimiter(), queryController.CreateQuery)
	app.Get("/properties", propertyController.GetProperties)
	app.Get("/properties/slug/:slug", propertyController.GetPropertyBySlug)

	// Admin API group
	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.Get("/stats", dashboardController.GetDashboardStats)
	dashboard.Get("/page-views", dashboardController.GetPageViewsOverTime)
	dashboard.Get("/top-properties", dashboardController.GetTopProperties)
	dashboard.Get("/recent-leads", dashboardController.GetRecentLeads)

	// Property management routes
	property := api.Group("/properties", middleware.AdminOnly())
	property.Post("/", propertyController.CreateProperty)
	property.Get("/:id", propertyController.GetProperty)
	property.Put("/:id", propertyController.UpdateProperty)
	property.Delete("/:id", propertyController.DeleteProperty)

	// Enquiry review routes
	query := api.Group("/queries")
	query.Get("/", queryController.GetQueries)
	query.Get("/:id", queryController.GetQuery)
	query.Patch("/:id", queryController.UpdateQuery)

	// Lead routes
	lead := api.Group("/leads")
	lead.Get("/alerts", leadController.GetLeadAlerts)
	lead.Post("/remind", leadController.SendDueReminders)
	lead.Post("/", leadController.CreateLead)
	lead.Get("/", leadController.GetLeads)
	lead.Get("/:id", leadController.GetLead)
	lead.Patch("/:id", leadController.UpdateLead)
	lead.Delete("/:id", leadController.DeleteLead)
	lead.Post("/:id/follow-ups", leadController.AddFollowUp)
	lead.Patch("/:id/follow-ups/:followUpId/complete", leadController.CompleteFollowUp)

	// Notification routes
	notification := api.Group("/notifications")
	notification.Get("/", notificationController.GetNotifications)
	notification.Get("/unread-count", notificationController.GetUnreadCount)
	notification.Patch("/read-all", notificationController.MarkAllRead)
	notification.Patch("/:id/read", notificationController.MarkRead)

	// WebSocket stream for live notifications
	app.Get("/api/v1/notifications/stream", middleware.Protected(), websocket.New(hub.HandleNotificationWS))

	log.Println("API routes initialized successfully")
}

func SetupRoutes(app *fiber.App, db *gorm.DB, scheduler *utils.FollowUpScheduler, notifier *utils.Notifier, mailer *utils.Mailer, hub *controller.NotificationHub) {
	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app)
	SetupAPIRoutes(app, db, scheduler, notifier, mailer, hub)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
