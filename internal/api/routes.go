package api

import (
	"net/http"

	"alcyxob/training-scheduler/internal/domain"
	"alcyxob/training-scheduler/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	scheduleService service.ScheduleService,
	trainingService service.TrainingService,
	exportService service.ExportService,
	logger *zap.Logger,
) {
	sessionHandler := NewSessionHandler(scheduleService, trainingService, logger)
	scheduleHandler := NewScheduleHandler(scheduleService, exportService, logger)
	customerHandler := NewCustomerHandler(trainingService, logger)

	authMiddleware := AuthMiddleware(jwtSecret)
	trainerOnly := RoleMiddleware(domain.RoleTrainer)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	apiV1.Use(authMiddleware)
	{
		apiV1.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// Read-only schedule views are open to any authenticated role.
		apiV1.GET("/availability", sessionHandler.CheckAvailability)
		apiV1.GET("/availability/slots", scheduleHandler.GetDaySlots)
		apiV1.GET("/sessions/:customerId/training-day", sessionHandler.GetTrainingDay)

		sessionGroup := apiV1.Group("/sessions")
		sessionGroup.Use(trainerOnly)
		{
			sessionGroup.GET("", sessionHandler.ListSessions)
			sessionGroup.POST("", sessionHandler.CreateSession)
			sessionGroup.POST("/auto-complete", sessionHandler.AutoComplete)
			sessionGroup.PATCH("/:id", sessionHandler.UpdateSessionStatus)
			sessionGroup.DELETE("/:id", sessionHandler.DeleteSession)
		}

		scheduleGroup := apiV1.Group("/schedule")
		scheduleGroup.Use(trainerOnly)
		{
			scheduleGroup.GET("/occupancy", scheduleHandler.GetOccupancy)
			scheduleGroup.POST("/exports", scheduleHandler.ExportWeek)
		}

		customerGroup := apiV1.Group("/customers")
		customerGroup.Use(trainerOnly)
		{
			customerGroup.POST("", customerHandler.CreateCustomer)
			customerGroup.GET("", customerHandler.ListCustomers)
			customerGroup.GET("/:customerId", customerHandler.GetCustomer)
			customerGroup.POST("/:customerId/assignments", customerHandler.CreateAssignment)
			customerGroup.GET("/:customerId/assignments", customerHandler.ListAssignments)
			customerGroup.DELETE("/:customerId/assignments/:assignmentId", customerHandler.DeleteAssignment)
		}

		workoutGroup := apiV1.Group("/workouts")
		workoutGroup.Use(trainerOnly)
		{
			workoutGroup.POST("", customerHandler.CreateWorkout)
			workoutGroup.GET("", customerHandler.ListWorkouts)
		}
	}
}
