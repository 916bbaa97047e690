package main

import (
	"log"
	"os"

	"estatedesk/config"
	controller "estatedesk/controllers"
	"estatedesk/middleware"
	"estatedesk/routes"
	"estatedesk/utils"
	"estatedesk/worker"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := log.New(os.Stdout, "ESTATEDESK: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Error reporting, only when a DSN is configured
	if dsn := config.AppConfig.SentryDSN; dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         dsn,
			Environment: config.AppConfig.Environment,
		}); err != nil {
			logger.Printf("Sentry initialization failed: %v", err)
		}
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Create Fiber app
	app := fiber.New()
	app.Use(recover.New())
	app.Use(middleware.CORS())

	// Wire the notification fan-out and the follow-up scheduler
	fanoutLogger := logrus.New()
	mailer := utils.NewMailer(config.AppConfig.SMTP, fanoutLogger)
	emailResolver := utils.NewAdminEmailResolver(config.AppConfig.AdminAlertEmails, config.DB)
	notifier := utils.NewNotifier(config.DB, mailer, emailResolver, fanoutLogger)

	hub := controller.NewNotificationHub()
	notifier.Publish = hub.Publish

	scheduler := utils.NewFollowUpScheduler(config.DB, notifier, log.New(os.Stdout, "FOLLOWUP: ", log.LstdFlags))

	// Optional periodic reminder dispatch
	if spec := config.AppConfig.ReminderCronSpec; spec != "" {
		reminderWorker := worker.NewReminderWorker(scheduler, log.New(os.Stdout, "REMINDER: ", log.LstdFlags))
		if err := reminderWorker.Setup(spec); err != nil {
			logger.Fatalf("Invalid reminder cron spec %q: %v", spec, err)
		}
		reminderWorker.Start()
		defer reminderWorker.Stop()
	}

	// Setup routes
	routes.SetupRoutes(app, config.DB, scheduler, notifier, mailer, hub)

	// Start server
	logger.Printf("🚀 Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
