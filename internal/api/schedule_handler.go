package api

import (
	"net/http"
	"time"

	"alcyxob/training-scheduler/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ScheduleHandler struct {
	scheduleService service.ScheduleService
	exportService   service.ExportService
	logger          *zap.Logger
}

func NewScheduleHandler(scheduleService service.ScheduleService, exportService service.ExportService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		exportService:   exportService,
		logger:          logger,
	}
}

type SlotResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type ExportResponse struct {
	WeekStart   string    `json:"weekStart"`
	ObjectKey   string    `json:"objectKey"`
	DownloadURL string    `json:"downloadUrl"`
	Rows        int       `json:"rows"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// GetDaySlots godoc
// @Summary Availability of every grid slot on a day
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param date query string true "YYYY-MM-DD"
// @Param duration query int false "Minutes, default 60"
// @Success 200 {array} SlotResponse
// @Router /availability/slots [get]
func (h *ScheduleHandler) GetDaySlots(c *gin.Context) {
	date, ok := parseDateQuery(c, "date", true)
	if !ok {
		return
	}
	duration, ok := parseDurationQuery(c)
	if !ok {
		return
	}

	verdicts, err := h.scheduleService.DaySlots(c.Request.Context(), date, duration)
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to compute slots.")
		return
	}
	out := make([]SlotResponse, len(verdicts))
	for i, v := range verdicts {
		out[i] = SlotResponse{Time: v.Slot, Available: v.Available, Reason: string(v.Reason)}
	}
	c.JSON(http.StatusOK, out)
}

// GetOccupancy godoc
// @Summary Sessions of any status running at a point in time
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param date query string true "YYYY-MM-DD"
// @Param time query string true "HH:MM"
// @Success 200 {array} SessionResponse
// @Router /schedule/occupancy [get]
func (h *ScheduleHandler) GetOccupancy(c *gin.Context) {
	date, ok := parseDateQuery(c, "date", true)
	if !ok {
		return
	}
	slot := c.Query("time")
	if slot == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'time' is required (HH:MM).")
		return
	}

	sessions, err := h.scheduleService.SessionsAt(c.Request.Context(), date, slot)
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to read occupancy.")
		return
	}
	c.JSON(http.StatusOK, MapSessionsToResponse(sessions))
}

// ExportWeek godoc
// @Summary Export a Monday–Sunday week of sessions as CSV
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param week query string true "Any date in the week, YYYY-MM-DD"
// @Success 201 {object} ExportResponse
// @Failure 503 {object} gin.H "Object storage not configured"
// @Router /schedule/exports [post]
func (h *ScheduleHandler) ExportWeek(c *gin.Context) {
	week, ok := parseDateQuery(c, "week", true)
	if !ok {
		return
	}

	exp, err := h.exportService.ExportWeek(c.Request.Context(), week)
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to export schedule.")
		return
	}
	c.JSON(http.StatusCreated, ExportResponse{
		WeekStart:   exp.WeekStart.String(),
		ObjectKey:   exp.ObjectKey,
		DownloadURL: exp.DownloadURL,
		Rows:        exp.Rows,
		ExpiresAt:   exp.ExpiresAt,
	})
}
