package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alcyxob/training-scheduler/internal/domain"
	"alcyxob/training-scheduler/internal/repository"
	"alcyxob/training-scheduler/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ErrAssignmentNotFound = errors.New("assignment not found")

// TrainingDay is the resolved workout for one customer on one date. Label is
// nil when nothing in the fallback chain applies.
type TrainingDay struct {
	Label     *string
	Source    schedule.Source
	Ordinal   int
	SessionID *primitive.ObjectID
}

// TrainingService manages customers, workouts and their weekly assignments,
// and resolves which workout a session is.
type TrainingService interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id primitive.ObjectID) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)

	CreateWorkout(ctx context.Context, workout *domain.Workout) (*domain.Workout, error)
	ListWorkouts(ctx context.Context) ([]domain.Workout, error)

	AddAssignment(ctx context.Context, assignment *domain.ScheduleAssignment) (*domain.ScheduleAssignment, error)
	ListAssignments(ctx context.Context, customerID primitive.ObjectID) ([]domain.ScheduleAssignment, error)
	RemoveAssignment(ctx context.Context, customerID, assignmentID primitive.ObjectID) error

	// ResolveTrainingDay labels the customer's session on date. startTime picks
	// among several sessions that day; when no stored session matches, a
	// session at startTime (or midnight) is assumed.
	ResolveTrainingDay(ctx context.Context, customerID primitive.ObjectID, date domain.Date, startTime string) (*TrainingDay, error)
}

type trainingService struct {
	customerRepo   repository.CustomerRepository
	workoutRepo    repository.WorkoutRepository
	assignmentRepo repository.AssignmentRepository
	sessionRepo    repository.SessionRepository
	logger         *zap.Logger
}

// NewTrainingService creates a new instance of trainingService.
func NewTrainingService(
	customerRepo repository.CustomerRepository,
	workoutRepo repository.WorkoutRepository,
	assignmentRepo repository.AssignmentRepository,
	sessionRepo repository.SessionRepository,
	logger *zap.Logger,
) TrainingService {
	return &trainingService{
		customerRepo:   customerRepo,
		workoutRepo:    workoutRepo,
		assignmentRepo: assignmentRepo,
		sessionRepo:    sessionRepo,
		logger:         logger,
	}
}

// === Customers ===

func (s *trainingService) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Email = strings.ToLower(strings.TrimSpace(customer.Email))
	if customer.Name == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrInvalidRequest)
	}
	id, err := s.customerRepo.Create(ctx, customer)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: email %s is already used", ErrInvalidRequest, customer.Email)
		}
		return nil, err
	}
	customer.ID = id
	return customer, nil
}

func (s *trainingService) GetCustomer(ctx context.Context, id primitive.ObjectID) (*domain.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (s *trainingService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.customerRepo.List(ctx)
}

// === Workouts ===

func (s *trainingService) CreateWorkout(ctx context.Context, workout *domain.Workout) (*domain.Workout, error) {
	workout.Name = strings.TrimSpace(workout.Name)
	if workout.Name == "" {
		return nil, fmt.Errorf("%w: workout name is required", ErrInvalidRequest)
	}
	id, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = id
	return workout, nil
}

func (s *trainingService) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	return s.workoutRepo.List(ctx)
}

// === Assignments ===

// AddAssignment stores a new assignment after checking that it does not
// share a weekday or training day with the customer's existing ones.
func (s *trainingService) AddAssignment(ctx context.Context, assignment *domain.ScheduleAssignment) (*domain.ScheduleAssignment, error) {
	if _, err := s.GetCustomer(ctx, assignment.CustomerID); err != nil {
		return nil, err
	}
	workout, err := s.workoutRepo.GetByID(ctx, assignment.WorkoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	existing, err := s.assignmentRepo.GetByCustomerID(ctx, assignment.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := schedule.CheckAssignments(append(existing, *assignment)); err != nil {
		if errors.Is(err, schedule.ErrAmbiguousAssignment) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	id, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: assignment key already taken", schedule.ErrAmbiguousAssignment)
		}
		return nil, err
	}
	assignment.ID = id
	assignment.Workout = workout
	return assignment, nil
}

// ListAssignments returns the customer's assignments with their workouts.
func (s *trainingService) ListAssignments(ctx context.Context, customerID primitive.ObjectID) ([]domain.ScheduleAssignment, error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.assignmentsWithWorkouts(ctx, customerID)
}

func (s *trainingService) RemoveAssignment(ctx context.Context, customerID, assignmentID primitive.ObjectID) error {
	if err := s.assignmentRepo.Delete(ctx, assignmentID, customerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	return nil
}

func (s *trainingService) assignmentsWithWorkouts(ctx context.Context, customerID primitive.ObjectID) ([]domain.ScheduleAssignment, error) {
	assignments, err := s.assignmentRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.WorkoutID)
	}
	workouts, err := s.workoutRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*domain.Workout, len(workouts))
	for i := range workouts {
		byID[workouts[i].ID] = &workouts[i]
	}
	for i := range assignments {
		assignments[i].Workout = byID[assignments[i].WorkoutID]
	}
	return assignments, nil
}

func (s *trainingService) profile(ctx context.Context, customerID primitive.ObjectID) (schedule.TrainingProfile, error) {
	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return schedule.TrainingProfile{}, err
	}
	assignments, err := s.assignmentsWithWorkouts(ctx, customerID)
	if err != nil {
		return schedule.TrainingProfile{}, err
	}
	return schedule.TrainingProfile{Customer: *customer, Assignments: assignments}, nil
}

// weekSessions loads the customer's sessions in the Monday–Sunday week of
// date. Cancelled sessions are not training days and are left out.
func (s *trainingService) weekSessions(ctx context.Context, customerID primitive.ObjectID, date domain.Date) ([]domain.Session, error) {
	monday := date.WeekStart()
	all, err := s.sessionRepo.Find(ctx, repository.SessionFilter{From: monday, To: monday.AddDays(6), CustomerID: customerID})
	if err != nil {
		return nil, err
	}
	week := make([]domain.Session, 0, len(all))
	for _, sess := range all {
		if sess.Status != domain.StatusCancelled {
			week = append(week, sess)
		}
	}
	return week, nil
}

func (s *trainingService) ResolveTrainingDay(ctx context.Context, customerID primitive.ObjectID, date domain.Date, startTime string) (*TrainingDay, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidRequest)
	}
	if startTime != "" {
		m, err := schedule.ToMinutes(startTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		startTime = schedule.FormatMinutes(m)
	}

	profile, err := s.profile(ctx, customerID)
	if err != nil {
		return nil, err
	}
	week, err := s.weekSessions(ctx, customerID, date)
	if err != nil {
		return nil, err
	}

	target, found := pickSession(week, date, startTime)
	if !found {
		target = domain.Session{CustomerID: customerID, Date: date, StartTime: startTime, EndTime: startTime}
		if startTime == "" {
			target.StartTime, target.EndTime = "00:00", "00:00"
		}
	}

	res, err := schedule.Resolve(profile, target, week)
	if err != nil {
		return nil, err
	}
	if res.Ambiguous {
		s.logger.Warn("ambiguous schedule assignment, using the first match",
			zap.String("customerId", customerID.Hex()),
			zap.String("date", date.String()),
			zap.Int("trainingDay", res.Ordinal))
	}

	day := &TrainingDay{Source: res.Source, Ordinal: res.Ordinal}
	if res.Found {
		label := res.Label
		day.Label = &label
	}
	if found {
		id := target.ID
		day.SessionID = &id
	}
	return day, nil
}

// pickSession returns the session on date starting at startTime, or the
// earliest one that day when startTime is empty.
func pickSession(week []domain.Session, date domain.Date, startTime string) (domain.Session, bool) {
	ordered, err := schedule.Chronological(week)
	if err != nil {
		ordered = week
	}
	for _, sess := range ordered {
		if !sess.Date.Equal(date) {
			continue
		}
		if startTime == "" || sess.StartTime == startTime {
			return sess, true
		}
	}
	return domain.Session{}, false
}
