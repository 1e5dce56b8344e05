package main

import (
	"log"
	"os"
	"strings"

	"fleetdocs/internal/database"
	"fleetdocs/internal/handlers"
	"fleetdocs/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env in development; production injects real environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize database
	if err := database.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Ensure the fixed reminder ladder exists
	if err := database.SeedReminderConfigs(); err != nil {
		log.Fatal("Failed to seed reminder configs:", err)
	}

	// Wire the reminder subsystem
	store := database.NewStore()
	scheduler := services.NewReminderScheduler(store, store, store)
	dispatcher := services.NewReminderDispatcher(store, store, services.NewEmailService())
	dailyJob := services.NewDailyJob(scheduler, dispatcher)
	dailyJob.Start()

	handlers.Init(dailyJob)

	// Initialize Gin router
	router := gin.Default()

	// Configure trusted proxies
	router.SetTrustedProxies([]string{"127.0.0.1"})

	// CORS for the dashboard frontend
	allowedOrigins := []string{"http://localhost:5173"}
	if origins := os.Getenv("FRONTEND_ORIGINS"); origins != "" {
		allowedOrigins = strings.Split(origins, ",")
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE"},
		AllowHeaders: []string{"Content-Type", "X-Actor-Username"},
	}))

	// Basic routes
	router.GET("/", handlers.HomeHandler)
	router.GET("/health", handlers.HealthHandler)

	// Vehicles
	router.POST("/vehicles", handlers.CreateVehicle)
	router.GET("/vehicles", handlers.GetVehicles)
	router.GET("/vehicles/:id", handlers.GetVehicle)
	router.PATCH("/vehicles/:id", handlers.UpdateVehicle)
	router.DELETE("/vehicles/:id", handlers.DeleteVehicle)

	// Document types
	router.POST("/document-types", handlers.CreateDocumentType)
	router.GET("/document-types", handlers.GetDocumentTypes)

	// Vehicle documents
	router.POST("/documents", handlers.CreateVehicleDocument)
	router.GET("/documents", handlers.GetVehicleDocuments)
	router.GET("/documents/expiring", handlers.GetExpiringDocuments)
	router.GET("/documents/search", handlers.SearchVehicleDocuments)
	router.GET("/documents/:id", handlers.GetVehicleDocument)
	router.PATCH("/documents/:id", handlers.UpdateVehicleDocument)
	router.DELETE("/documents/:id", handlers.DeleteVehicleDocument)
	router.POST("/documents/:id/scan", handlers.UploadDocumentScan)

	// Reminder administration
	router.GET("/reminder-configs", handlers.GetReminderConfigs)
	router.PATCH("/reminder-configs/:id", handlers.UpdateReminderConfig)
	router.GET("/recipients", handlers.GetRecipients)
	router.POST("/recipients", handlers.CreateRecipient)
	router.PATCH("/recipients/:id", handlers.UpdateRecipient)
	router.DELETE("/recipients/:id", handlers.DeleteRecipient)
	router.GET("/reminders/queue", handlers.GetReminderQueue)
	router.POST("/reminders/run", handlers.TriggerReminders)
	router.POST("/reminders/reschedule", handlers.RescheduleReminders)

	// Audit trail
	router.GET("/audit-logs", handlers.GetAuditLogs)

	// Start the server
	log.Println("Server starting on port 8080...")
	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
