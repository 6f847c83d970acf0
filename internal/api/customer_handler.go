package api

import (
	"net/http"
	"time"

	"alcyxob/training-scheduler/internal/domain"
	"alcyxob/training-scheduler/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	trainingService service.TrainingService
	logger          *zap.Logger
}

func NewCustomerHandler(trainingService service.TrainingService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{trainingService: trainingService, logger: logger}
}

// --- DTOs ---

type CreateCustomerRequest struct {
	Name              string `json:"name" binding:"required"`
	Email             string `json:"email" binding:"omitempty,email"`
	TrainingType      string `json:"trainingType"`
	TrainingFrequency string `json:"trainingFrequency"`
}

type CustomerResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email,omitempty"`
	TrainingType      string    `json:"trainingType,omitempty"`
	TrainingFrequency string    `json:"trainingFrequency,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

type CreateWorkoutRequest struct {
	Name         string `json:"name" binding:"required"`
	TrainingType string `json:"trainingType"`
	Notes        string `json:"notes"`
}

type WorkoutResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	TrainingType string    `json:"trainingType,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreateAssignmentRequest sets exactly one of Weekday (1=Mon..7=Sun) and TrainingDay.
type CreateAssignmentRequest struct {
	WorkoutID   string `json:"workoutId" binding:"required"`
	Weekday     *int   `json:"weekday" binding:"omitempty,min=1,max=7"`
	TrainingDay *int   `json:"trainingDay" binding:"omitempty,min=1,max=7"`
}

type AssignmentResponse struct {
	ID          string           `json:"id"`
	CustomerID  string           `json:"customerId"`
	WorkoutID   string           `json:"workoutId"`
	Weekday     *int             `json:"weekday,omitempty"`
	TrainingDay *int             `json:"trainingDay,omitempty"`
	Workout     *WorkoutResponse `json:"workout,omitempty"`
}

func MapCustomerToResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                c.ID.Hex(),
		Name:              c.Name,
		Email:             c.Email,
		TrainingType:      c.TrainingType,
		TrainingFrequency: c.TrainingFrequency,
		CreatedAt:         c.CreatedAt,
	}
}

func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	return WorkoutResponse{
		ID:           w.ID.Hex(),
		Name:         w.Name,
		TrainingType: w.TrainingType,
		Notes:        w.Notes,
		CreatedAt:    w.CreatedAt,
	}
}

func MapAssignmentToResponse(a *domain.ScheduleAssignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:          a.ID.Hex(),
		CustomerID:  a.CustomerID.Hex(),
		WorkoutID:   a.WorkoutID.Hex(),
		Weekday:     a.Weekday,
		TrainingDay: a.TrainingDay,
	}
	if a.Workout != nil {
		w := MapWorkoutToResponse(a.Workout)
		resp.Workout = &w
	}
	return resp
}

// CreateCustomer godoc
// @Summary Create a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param customer body CreateCustomerRequest true "Customer"
// @Success 201 {object} CustomerResponse
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	customer, err := h.trainingService.CreateCustomer(c.Request.Context(), &domain.Customer{
		Name:              req.Name,
		Email:             req.Email,
		TrainingType:      req.TrainingType,
		TrainingFrequency: req.TrainingFrequency,
	})
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to create customer.")
		return
	}
	c.JSON(http.StatusCreated, MapCustomerToResponse(customer))
}

// ListCustomers godoc
// @Summary List customers
// @Tags Customers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} CustomerResponse
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.trainingService.ListCustomers(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to list customers.")
		return
	}
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = MapCustomerToResponse(&customers[i])
	}
	c.JSON(http.StatusOK, out)
}

// GetCustomer godoc
// @Summary Get a customer
// @Tags Customers
// @Produce json
// @Security BearerAuth
// @Param customerId path string true "Customer ID"
// @Success 200 {object} CustomerResponse
// @Failure 404 {object} gin.H "Customer not found"
// @Router /customers/{customerId} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "customerId")
	if !ok {
		return
	}
	customer, err := h.trainingService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to get customer.")
		return
	}
	c.JSON(http.StatusOK, MapCustomerToResponse(customer))
}

// CreateWorkout godoc
// @Summary Create a workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body CreateWorkoutRequest true "Workout"
// @Success 201 {object} WorkoutResponse
// @Router /workouts [post]
func (h *CustomerHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	workout, err := h.trainingService.CreateWorkout(c.Request.Context(), &domain.Workout{
		Name:         req.Name,
		TrainingType: req.TrainingType,
		Notes:        req.Notes,
	})
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to create workout.")
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// ListWorkouts godoc
// @Summary List workouts
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} WorkoutResponse
// @Router /workouts [get]
func (h *CustomerHandler) ListWorkouts(c *gin.Context) {
	workouts, err := h.trainingService.ListWorkouts(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to list workouts.")
		return
	}
	out := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		out[i] = MapWorkoutToResponse(&workouts[i])
	}
	c.JSON(http.StatusOK, out)
}

// CreateAssignment godoc
// @Summary Assign a workout to a weekday or training day of a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param customerId path string true "Customer ID"
// @Param assignment body CreateAssignmentRequest true "Assignment"
// @Success 201 {object} AssignmentResponse
// @Failure 404 {object} gin.H "Customer or workout not found"
// @Failure 409 {object} gin.H "AmbiguousAssignment"
// @Router /customers/{customerId}/assignments [post]
func (h *CustomerHandler) CreateAssignment(c *gin.Context) {
	customerID, ok := parseObjectIDParam(c, "customerId")
	if !ok {
		return
	}
	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(req.WorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workoutId format.")
		return
	}

	assignment, err := h.trainingService.AddAssignment(c.Request.Context(), &domain.ScheduleAssignment{
		CustomerID:  customerID,
		WorkoutID:   workoutID,
		Weekday:     req.Weekday,
		TrainingDay: req.TrainingDay,
	})
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to create assignment.")
		return
	}
	c.JSON(http.StatusCreated, MapAssignmentToResponse(assignment))
}

// ListAssignments godoc
// @Summary List a customer's assignments
// @Tags Customers
// @Produce json
// @Security BearerAuth
// @Param customerId path string true "Customer ID"
// @Success 200 {array} AssignmentResponse
// @Router /customers/{customerId}/assignments [get]
func (h *CustomerHandler) ListAssignments(c *gin.Context) {
	customerID, ok := parseObjectIDParam(c, "customerId")
	if !ok {
		return
	}
	assignments, err := h.trainingService.ListAssignments(c.Request.Context(), customerID)
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to list assignments.")
		return
	}
	out := make([]AssignmentResponse, len(assignments))
	for i := range assignments {
		out[i] = MapAssignmentToResponse(&assignments[i])
	}
	c.JSON(http.StatusOK, out)
}

// DeleteAssignment godoc
// @Summary Remove an assignment
// @Tags Customers
// @Security BearerAuth
// @Param customerId path string true "Customer ID"
// @Param assignmentId path string true "Assignment ID"
// @Success 204
// @Failure 404 {object} gin.H "Assignment not found"
// @Router /customers/{customerId}/assignments/{assignmentId} [delete]
func (h *CustomerHandler) DeleteAssignment(c *gin.Context) {
	customerID, ok := parseObjectIDParam(c, "customerId")
	if !ok {
		return
	}
	assignmentID, ok := parseObjectIDParam(c, "assignmentId")
	if !ok {
		return
	}
	if err := h.trainingService.RemoveAssignment(c.Request.Context(), customerID, assignmentID); err != nil {
		respondServiceError(c, h.logger, err, "Failed to delete assignment.")
		return
	}
	c.Status(http.StatusNoContent)
}
