package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/training-scheduler/internal/domain"
	"alcyxob/training-scheduler/internal/lock"
	"alcyxob/training-scheduler/internal/repository"
	"alcyxob/training-scheduler/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrInvalidRequest   = errors.New("invalid request")
)

// Failure reasons reported per occurrence of a booking.
const (
	FailureBreak    = "break"
	FailureConflict = "conflict"
	FailureBusy     = "busy"
	FailureError    = "error"
)

// BookingRequest asks for one session, or one per week for Weeks weeks.
type BookingRequest struct {
	CustomerID      primitive.ObjectID
	Date            domain.Date
	StartTime       string
	DurationMinutes int
	Type            domain.SessionType
	Notes           string
	TrainingType    string
	Weeks           int // 0 or 1 books a single session
}

// BookingFailure is one occurrence that could not be booked.
type BookingFailure struct {
	Date      domain.Date
	StartTime string
	Reason    string
	Err       error
}

// BookingResult lists what was created and what was not. Occurrences are
// booked independently, so both lists can be non-empty.
type BookingResult struct {
	Created []domain.Session
	Failed  []BookingFailure
}

// ScheduleService books sessions and answers availability questions against
// the sessions currently stored.
type ScheduleService interface {
	CheckAvailability(ctx context.Context, date domain.Date, slot string, durationMinutes int) (schedule.Availability, error)
	DaySlots(ctx context.Context, date domain.Date, durationMinutes int) ([]schedule.SlotVerdict, error)
	SessionsAt(ctx context.Context, date domain.Date, slot string) ([]domain.Session, error)
	BookSessions(ctx context.Context, req BookingRequest) (*BookingResult, error)
	ListSessions(ctx context.Context, filter repository.SessionFilter) ([]domain.Session, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.SessionStatus) (*domain.Session, error)
	DeleteSession(ctx context.Context, id primitive.ObjectID) error
	AutoComplete(ctx context.Context) (int, error)
}

// ScheduleOptions carries the booking rules taken from configuration.
type ScheduleOptions struct {
	Breaks         schedule.BreakPolicy
	Grid           schedule.Grid
	SessionMinutes int
	Location       *time.Location
	Now            func() time.Time
}

type scheduleService struct {
	sessionRepo  repository.SessionRepository
	customerRepo repository.CustomerRepository
	locker       lock.Locker
	engine       schedule.Engine
	grid         schedule.Grid
	sessionLen   int
	loc          *time.Location
	now          func() time.Time
	logger       *zap.Logger
}

// NewScheduleService creates a new instance of scheduleService.
func NewScheduleService(
	sessionRepo repository.SessionRepository,
	customerRepo repository.CustomerRepository,
	locker lock.Locker,
	opts ScheduleOptions,
	logger *zap.Logger,
) ScheduleService {
	if opts.Grid.Step == 0 {
		opts.Grid = schedule.DefaultGrid
	}
	if opts.SessionMinutes <= 0 {
		opts.SessionMinutes = schedule.DefaultSessionMinutes
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if locker == nil {
		locker = lock.NewLocal(lock.DefaultWait)
	}
	return &scheduleService{
		sessionRepo:  sessionRepo,
		customerRepo: customerRepo,
		locker:       locker,
		engine:       schedule.NewEngine(opts.Breaks),
		grid:         opts.Grid,
		sessionLen:   opts.SessionMinutes,
		loc:          opts.Location,
		now:          opts.Now,
		logger:       logger,
	}
}

func (s *scheduleService) duration(minutes int) int {
	if minutes <= 0 {
		return s.sessionLen
	}
	return minutes
}

func (s *scheduleService) sessionsOn(ctx context.Context, date domain.Date) ([]domain.Session, error) {
	return s.sessionRepo.Find(ctx, repository.SessionFilter{From: date, To: date})
}

// CheckAvailability evaluates one slot against the sessions stored for date.
func (s *scheduleService) CheckAvailability(ctx context.Context, date domain.Date, slot string, durationMinutes int) (schedule.Availability, error) {
	if _, err := schedule.ToMinutes(slot); err != nil {
		return schedule.Availability{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	booked, err := s.sessionsOn(ctx, date)
	if err != nil {
		return schedule.Availability{}, err
	}
	return s.engine.Evaluate(date, slot, s.duration(durationMinutes), booked)
}

// DaySlots evaluates every slot of the configured grid on date.
func (s *scheduleService) DaySlots(ctx context.Context, date domain.Date, durationMinutes int) ([]schedule.SlotVerdict, error) {
	booked, err := s.sessionsOn(ctx, date)
	if err != nil {
		return nil, err
	}
	return s.engine.DaySlots(s.grid, date, s.duration(durationMinutes), booked)
}

// SessionsAt lists the sessions of any status that cover slot on date.
func (s *scheduleService) SessionsAt(ctx context.Context, date domain.Date, slot string) ([]domain.Session, error) {
	if _, err := schedule.ToMinutes(slot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	sessions, err := s.sessionsOn(ctx, date)
	if err != nil {
		return nil, err
	}
	return schedule.SessionsActiveAt(date, slot, sessions)
}

// BookSessions books every occurrence of req independently. Each occurrence
// re-reads its date and is checked and inserted while holding that date's
// lock, so two concurrent requests cannot both take the same slot.
// Unavailable occurrences are reported in the result rather than as an error.
func (s *scheduleService) BookSessions(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	if req.CustomerID.IsZero() || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: customerId and date are required", ErrInvalidRequest)
	}
	if req.Type == "" {
		req.Type = domain.SessionOneOnOne
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown session type %q", ErrInvalidRequest, req.Type)
	}
	if req.Weeks < 0 {
		return nil, fmt.Errorf("%w: weeks must not be negative", ErrInvalidRequest)
	}
	start, err := schedule.ToMinutes(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	duration := s.duration(req.DurationMinutes)
	endTime, err := schedule.EndTime(req.StartTime, duration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	startTime := schedule.FormatMinutes(start)

	if _, err := s.customerRepo.GetByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	weeks := req.Weeks
	if weeks == 0 {
		weeks = 1
	}

	result := &BookingResult{Created: []domain.Session{}, Failed: []BookingFailure{}}
	for _, date := range schedule.Generate(req.Date, weeks) {
		session := domain.Session{
			CustomerID:   req.CustomerID,
			Date:         date,
			StartTime:    startTime,
			EndTime:      endTime,
			Type:         req.Type,
			Status:       domain.StatusScheduled,
			Notes:        req.Notes,
			TrainingType: req.TrainingType,
		}
		created, reason, err := s.bookOne(ctx, session, duration)
		if err != nil {
			result.Failed = append(result.Failed, BookingFailure{Date: date, StartTime: startTime, Reason: reason, Err: err})
			continue
		}
		result.Created = append(result.Created, *created)
	}

	s.logger.Info("booking processed",
		zap.String("customerId", req.CustomerID.Hex()),
		zap.String("date", req.Date.String()),
		zap.String("startTime", startTime),
		zap.Int("requested", weeks),
		zap.Int("created", len(result.Created)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

func (s *scheduleService) bookOne(ctx context.Context, session domain.Session, duration int) (*domain.Session, string, error) {
	release, err := s.locker.Lock(ctx, lock.BookingKey(session.Date.String()))
	if err != nil {
		s.logger.Warn("booking lock not acquired", zap.String("date", session.Date.String()), zap.Error(err))
		return nil, FailureBusy, err
	}
	defer func() {
		if err := release(context.Background()); err != nil {
			s.logger.Warn("booking lock release failed", zap.String("date", session.Date.String()), zap.Error(err))
		}
	}()

	booked, err := s.sessionsOn(ctx, session.Date)
	if err != nil {
		return nil, FailureError, err
	}
	verdict, err := s.engine.Evaluate(session.Date, session.StartTime, duration, booked)
	if err != nil {
		s.logger.Error("availability check failed", zap.String("date", session.Date.String()), zap.Error(err))
		return nil, FailureError, err
	}
	if !verdict.Available {
		return nil, string(verdict.Reason), schedule.ErrSlotUnavailable
	}

	id, err := s.sessionRepo.Create(ctx, &session)
	if err != nil {
		s.logger.Error("failed to create session", zap.String("date", session.Date.String()), zap.Error(err))
		return nil, FailureError, err
	}
	session.ID = id
	return &session, "", nil
}

// ListSessions returns the stored sessions matching filter.
func (s *scheduleService) ListSessions(ctx context.Context, filter repository.SessionFilter) ([]domain.Session, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidRequest)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, filter.Status)
	}
	return s.sessionRepo.Find(ctx, filter)
}

// UpdateStatus applies an operator status change.
func (s *scheduleService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.SessionStatus) (*domain.Session, error) {
	current, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	next, err := schedule.Transition(*current, status)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.UpdateStatus(ctx, id, next.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	next.UpdatedAt = s.now().UTC()
	s.logger.Info("session status changed",
		zap.String("sessionId", id.Hex()),
		zap.String("from", string(current.Status)),
		zap.String("to", string(next.Status)))
	return &next, nil
}

// DeleteSession removes a session.
func (s *scheduleService) DeleteSession(ctx context.Context, id primitive.ObjectID) error {
	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// AutoComplete marks every scheduled session that has ended as completed and
// returns how many it changed. Sessions that cannot be judged or saved are
// logged and skipped.
func (s *scheduleService) AutoComplete(ctx context.Context) (int, error) {
	now := s.now()
	today := domain.DateOf(now.In(s.loc))
	candidates, err := s.sessionRepo.Find(ctx, repository.SessionFilter{To: today, Status: domain.StatusScheduled})
	if err != nil {
		return 0, err
	}

	sweep := schedule.SweepCompleted(candidates, now, s.loc)
	for _, f := range sweep.Failed {
		s.logger.Warn("session skipped by auto-complete",
			zap.String("sessionId", f.Session.ID.Hex()),
			zap.Error(f.Err))
	}

	updated := 0
	for _, done := range sweep.Completed {
		changed, err := s.sessionRepo.CompleteIfScheduled(ctx, done.ID)
		if err != nil {
			s.logger.Error("auto-complete update failed", zap.String("sessionId", done.ID.Hex()), zap.Error(err))
			continue
		}
		if changed {
			updated++
		}
	}
	if updated > 0 || len(sweep.Failed) > 0 {
		s.logger.Info("auto-complete finished", zap.Int("updated", updated), zap.Int("skipped", len(sweep.Failed)))
	}
	return updated, nil
}
