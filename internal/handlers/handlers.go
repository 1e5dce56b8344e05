package handlers

import (
	"log"
	"net/http"

	"fleetdocs/internal/audit"
	"fleetdocs/internal/services"
	"fleetdocs/internal/utils"

	"github.com/gin-gonic/gin"
)

var (
	recorder      *audit.Recorder
	dailyJob      *services.DailyJob
	searchService *services.DocumentSearchService
	attachments   *services.AttachmentService
)

// Init wires the handler package to its collaborators. Called once from main
// after the database is up.
func Init(job *services.DailyJob) {
	recorder = audit.NewRecorder()
	dailyJob = job
	searchService = services.NewDocumentSearchService()

	svc, err := services.NewAttachmentService()
	if err != nil {
		log.Printf("Warning: document scan uploads disabled: %v", err)
	} else {
		attachments = svc
	}
}

// handleError provides a consistent way to handle and log errors
func handleError(c *gin.Context, status int, message string, err error) {
	log.Printf("Error: %v", err)
	c.JSON(status, gin.H{"error": message})
}

// actorFrom returns the acting username forwarded by the auth layer
func actorFrom(c *gin.Context) string {
	return c.GetHeader("X-Actor-Username")
}

// auditMeta builds the request metadata attached to audit context
func auditMeta(c *gin.Context) map[string]any {
	return map[string]any{
		"ip": utils.GetRealClientIP(c),
	}
}

// HomeHandler handles requests to the root path "/"
func HomeHandler(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to FleetDocs!")
}

// HealthHandler is a simple health check endpoint
func HealthHandler(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
