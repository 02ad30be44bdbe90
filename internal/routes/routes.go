package routes

import (
	"github.com/gin-gonic/gin"

	"oncology-dashboard/internal/apiclient"
	"oncology-dashboard/internal/config"
	"oncology-dashboard/internal/handlers"
	"oncology-dashboard/internal/history"
	"oncology-dashboard/internal/middleware"
	"oncology-dashboard/internal/models"
	"oncology-dashboard/internal/session"
)

// Dependencies are the long-lived services the routes are built on.
type Dependencies struct {
	Config  *config.Config
	Session *session.Manager
	Auth    *apiclient.AuthClient
	Client  *apiclient.Client
}

// SetupRoutes configures the dashboard screens. Every screen group is gated
// by its entry in the policy table.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.Session, deps.Auth)
	dashboardHandler := handlers.NewDashboardHandler(deps.Client)
	patientHandler := handlers.NewPatientHandler(deps.Client)
	doctorHandler := handlers.NewDoctorHandler(deps.Client, deps.Config.MaxUploadBytes)
	userHandler := handlers.NewUserHandler(deps.Client)
	predictionHandler := handlers.NewPredictionHandler(deps.Client, deps.Config.MaxUploadBytes)
	historyHandler := handlers.NewHistoryHandler(history.NewService(deps.Client))

	screen := func(path string) *gin.RouterGroup {
		return router.Group(path, middleware.RequireScreen(deps.Session, path))
	}

	// Public screens
	router.GET("/session", authHandler.GetSession)
	router.POST("/logout", authHandler.Logout)
	screen("/login").POST("", authHandler.Login)
	screen("/password-reset").POST("", authHandler.RequestPasswordReset)

	screen("/").GET("", authHandler.Home)

	// Admin screens
	screen("/admin-dashboard").GET("", dashboardHandler.GetAdminStats)
	users := screen("/user-management")
	{
		users.GET("", userHandler.GetUsers)
		users.POST("", userHandler.CreateUser)
		users.PATCH("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}
	screen("/register-user").POST("", userHandler.RegisterUser)

	// Doctor screens
	screen("/dashboard").GET("", dashboardHandler.GetDoctorStats)
	treatment := screen("/treatment-recommender")
	{
		treatment.GET("", predictionHandler.GetState(models.PredictionTreatment))
		treatment.POST("", predictionHandler.SubmitTreatment)
		treatment.DELETE("", predictionHandler.Reset(models.PredictionTreatment))
	}
	tumor := screen("/tumor-detection")
	{
		tumor.GET("", predictionHandler.GetState(models.PredictionImage))
		tumor.POST("", predictionHandler.SubmitImage)
		tumor.DELETE("", predictionHandler.Reset(models.PredictionImage))
	}
	survival := screen("/survival-prediction")
	{
		survival.GET("", predictionHandler.GetState(models.PredictionSurvival))
		survival.POST("", predictionHandler.SubmitSurvival)
		survival.DELETE("", predictionHandler.Reset(models.PredictionSurvival))
	}

	// Shared screens
	screen("/predictions").GET("", historyHandler.GetHistory)
	predictions := screen("/predictions-history")
	{
		predictions.GET("", historyHandler.GetHistory)
		predictions.GET("/export", historyHandler.ExportPage)
		predictions.GET("/:id/export", historyHandler.ExportRecord)
	}
	patients := screen("/patient-management")
	{
		patients.GET("", patientHandler.GetPatients)
		patients.POST("", patientHandler.CreatePatient)
		patients.GET("/:id", patientHandler.GetPatientByID)
		patients.PUT("/:id", patientHandler.UpdatePatient)
		patients.PATCH("/:id", patientHandler.PatchPatient)
		patients.DELETE("/:id", patientHandler.DeletePatient)
	}
	doctors := screen("/doctor-management")
	{
		doctors.GET("", doctorHandler.GetDoctors)
		doctors.POST("", doctorHandler.CreateDoctor)
		doctors.PATCH("/:id", doctorHandler.UpdateDoctor)
		doctors.DELETE("/:id", doctorHandler.DeleteDoctor)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "session": deps.Session.Snapshot().Status.String()})
	})
}
