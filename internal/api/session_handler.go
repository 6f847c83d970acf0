package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"alcyxob/training-scheduler/internal/domain"
	"alcyxob/training-scheduler/internal/repository"
	"alcyxob/training-scheduler/internal/schedule"
	"alcyxob/training-scheduler/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type SessionHandler struct {
	scheduleService service.ScheduleService
	trainingService service.TrainingService
	logger          *zap.Logger
}

func NewSessionHandler(scheduleService service.ScheduleService, trainingService service.TrainingService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		scheduleService: scheduleService,
		trainingService: trainingService,
		logger:          logger,
	}
}

// --- DTOs ---

type RecurringRequest struct {
	Weeks int `json:"weeks" binding:"min=1,max=52"`
}

type CreateSessionRequest struct {
	CustomerID      string            `json:"customerId" binding:"required"`
	Date            string            `json:"date" binding:"required"`
	StartTime       string            `json:"startTime" binding:"required"`
	DurationMinutes int               `json:"durationMinutes" binding:"omitempty,min=1,max=1440"`
	Type            string            `json:"type"`
	Notes           string            `json:"notes"`
	TrainingType    string            `json:"trainingType"`
	Recurring       *RecurringRequest `json:"recurring"`
}

type UpdateSessionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SessionResponse struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customerId"`
	Date         string    `json:"date"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	TrainingType string    `json:"trainingType,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type BookingFailureResponse struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	Reason    string `json:"reason"`
}

type AvailabilityResponse struct {
	Available bool              `json:"available"`
	Reason    string            `json:"reason,omitempty"`
	Conflicts []SessionResponse `json:"conflicts,omitempty"`
}

type TrainingDayResponse struct {
	Label       *string `json:"label"`
	Source      string  `json:"source,omitempty"`
	TrainingDay int     `json:"trainingDay"`
	SessionID   *string `json:"sessionId,omitempty"`
}

func MapSessionToResponse(s *domain.Session) SessionResponse {
	return SessionResponse{
		ID:           s.ID.Hex(),
		CustomerID:   s.CustomerID.Hex(),
		Date:         s.Date.String(),
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		Type:         string(s.Type),
		Status:       string(s.Status),
		Notes:        s.Notes,
		TrainingType: s.TrainingType,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func MapSessionsToResponse(sessions []domain.Session) []SessionResponse {
	out := make([]SessionResponse, len(sessions))
	for i := range sessions {
		out[i] = MapSessionToResponse(&sessions[i])
	}
	return out
}

func parseDateQuery(c *gin.Context, name string, required bool) (domain.Date, bool) {
	raw := c.Query(name)
	if raw == "" {
		if required {
			abortWithError(c, http.StatusBadRequest, "Query parameter '"+name+"' is required (YYYY-MM-DD).")
			return domain.Date{}, false
		}
		return domain.Date{}, true
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return domain.Date{}, false
	}
	return d, true
}

func parseDurationQuery(c *gin.Context) (int, bool) {
	raw := c.Query("duration")
	if raw == "" {
		return 0, true
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 || minutes > 24*60 {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'duration' must be a positive number of minutes.")
		return 0, false
	}
	return minutes, true
}

func parseObjectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// CheckAvailability godoc
// @Summary Check whether a slot can be booked
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param date query string true "YYYY-MM-DD"
// @Param time query string true "HH:MM"
// @Param duration query int false "Minutes, default 60"
// @Success 200 {object} AvailabilityResponse
// @Failure 400 {object} gin.H "Invalid date, time or duration"
// @Router /availability [get]
func (h *SessionHandler) CheckAvailability(c *gin.Context) {
	date, ok := parseDateQuery(c, "date", true)
	if !ok {
		return
	}
	duration, ok := parseDurationQuery(c)
	if !ok {
		return
	}
	slot := c.Query("time")
	if slot == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'time' is required (HH:MM).")
		return
	}

	verdict, err := h.scheduleService.CheckAvailability(c.Request.Context(), date, slot, duration)
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to check availability.")
		return
	}
	resp := AvailabilityResponse{Available: verdict.Available, Reason: string(verdict.Reason)}
	if len(verdict.Conflicts) > 0 {
		resp.Conflicts = MapSessionsToResponse(verdict.Conflicts)
	}
	c.JSON(http.StatusOK, resp)
}

// CreateSession godoc
// @Summary Book a session, optionally recurring weekly
// @Description Each occurrence is checked and booked on its own. When any occurrence is unavailable the
// @Description response is 409 and still lists the sessions that were created.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body CreateSessionRequest true "Booking"
// @Success 201 {object} gin.H "created sessions"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Customer not found"
// @Failure 409 {object} gin.H "SlotUnavailable with the failing occurrences"
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	customerID, err := primitive.ObjectIDFromHex(req.CustomerID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid customerId format.")
		return
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	booking := service.BookingRequest{
		CustomerID:      customerID,
		Date:            date,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Type:            domain.SessionType(req.Type),
		Notes:           req.Notes,
		TrainingType:    req.TrainingType,
	}
	if req.Recurring != nil {
		booking.Weeks = req.Recurring.Weeks
	}

	result, err := h.scheduleService.BookSessions(c.Request.Context(), booking)
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to book session.")
		return
	}

	created := MapSessionsToResponse(result.Created)
	if len(result.Failed) == 0 {
		c.JSON(http.StatusCreated, gin.H{"created": created})
		return
	}

	failures := make([]BookingFailureResponse, len(result.Failed))
	unavailable := false
	for i, f := range result.Failed {
		failures[i] = BookingFailureResponse{Date: f.Date.String(), StartTime: f.StartTime, Reason: f.Reason}
		if errors.Is(f.Err, schedule.ErrSlotUnavailable) {
			unavailable = true
		}
	}
	body := gin.H{
		"date":      failures[0].Date,
		"startTime": failures[0].StartTime,
		"created":   created,
		"failures":  failures,
		"requested": len(result.Created) + len(result.Failed),
	}
	if unavailable {
		body["error"] = "SlotUnavailable"
		c.JSON(http.StatusConflict, body)
		return
	}
	body["error"] = "BookingFailed"
	c.JSON(http.StatusServiceUnavailable, body)
}

// ListSessions godoc
// @Summary List sessions
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Param customerId query string false "Customer ID"
// @Param status query string false "scheduled, completed, cancelled or no-show"
// @Success 200 {array} SessionResponse
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	from, ok := parseDateQuery(c, "from", false)
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to", false)
	if !ok {
		return
	}
	filter := repository.SessionFilter{From: from, To: to, Status: domain.SessionStatus(c.Query("status"))}
	if raw := c.Query("customerId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid customerId format.")
			return
		}
		filter.CustomerID = id
	}

	sessions, err := h.scheduleService.ListSessions(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to list sessions.")
		return
	}
	c.JSON(http.StatusOK, MapSessionsToResponse(sessions))
}

// UpdateSessionStatus godoc
// @Summary Set the status of a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param status body UpdateSessionStatusRequest true "New status"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} gin.H "Unknown status"
// @Failure 404 {object} gin.H "Session not found"
// @Failure 409 {object} gin.H "Transition not allowed"
// @Router /sessions/{id} [patch]
func (h *SessionHandler) UpdateSessionStatus(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateSessionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	session, err := h.scheduleService.UpdateStatus(c.Request.Context(), id, domain.SessionStatus(req.Status))
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to update session.")
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// DeleteSession godoc
// @Summary Delete a session
// @Tags Sessions
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} gin.H "Session not found"
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.scheduleService.DeleteSession(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.logger, err, "Failed to delete session.")
		return
	}
	c.Status(http.StatusNoContent)
}

// AutoComplete godoc
// @Summary Mark every ended scheduled session as completed
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "updatedCount"
// @Router /sessions/auto-complete [post]
func (h *SessionHandler) AutoComplete(c *gin.Context) {
	n, err := h.scheduleService.AutoComplete(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to auto-complete sessions.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updatedCount": n})
}

// GetTrainingDay godoc
// @Summary Resolve the workout label of a customer's session
// @Description Clients may only read their own training day.
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param customerId path string true "Customer ID"
// @Param date query string true "YYYY-MM-DD"
// @Param time query string false "HH:MM, picks one of several sessions that day"
// @Success 200 {object} TrainingDayResponse
// @Failure 404 {object} gin.H "Customer not found"
// @Router /sessions/{customerId}/training-day [get]
func (h *SessionHandler) GetTrainingDay(c *gin.Context) {
	customerID, ok := parseObjectIDParam(c, "customerId")
	if !ok {
		return
	}
	if role, _ := getUserRoleFromContext(c); role == domain.RoleClient {
		if uid, _ := getUserIDFromContext(c); uid != customerID.Hex() {
			abortWithError(c, http.StatusForbidden, "Access denied: clients may only read their own schedule")
			return
		}
	}
	date, ok := parseDateQuery(c, "date", true)
	if !ok {
		return
	}

	day, err := h.trainingService.ResolveTrainingDay(c.Request.Context(), customerID, date, c.Query("time"))
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to resolve training day.")
		return
	}
	resp := TrainingDayResponse{Label: day.Label, Source: string(day.Source), TrainingDay: day.Ordinal}
	if day.SessionID != nil {
		hex := day.SessionID.Hex()
		resp.SessionID = &hex
	}
	c.JSON(http.StatusOK, resp)
}
