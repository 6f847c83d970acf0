package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/training-scheduler/internal/domain"
	"alcyxob/training-scheduler/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func intPtr(i int) *int { return &i }

type trainingFixture struct {
	svc         TrainingService
	customers   *fakeCustomerRepo
	workouts    *fakeWorkoutRepo
	assignments *fakeAssignmentRepo
	sessions    *fakeSessionRepo
}

func newTrainingFixture(customers ...domain.Customer) trainingFixture {
	f := trainingFixture{
		customers:   newFakeCustomerRepo(customers...),
		workouts:    newFakeWorkoutRepo(),
		assignments: &fakeAssignmentRepo{},
		sessions:    newFakeSessionRepo(),
	}
	f.svc = NewTrainingService(f.customers, f.workouts, f.assignments, f.sessions, zap.NewNop())
	return f
}

func (f trainingFixture) addSession(s domain.Session) domain.Session {
	f.sessions.sessions[s.ID] = s
	return s
}

func TestResolvePushPullLegsWeek(t *testing.T) {
	customer := domain.Customer{ID: primitive.NewObjectID(), Name: "Ana", TrainingType: "Push/Pull/Legs"}
	f := newTrainingFixture(customer)
	monday := domain.NewDate(2025, time.January, 13)
	f.addSession(booked(customer.ID, monday.AddDays(3), "10:00", "11:00", domain.StatusScheduled))
	f.addSession(booked(customer.ID, monday, "10:00", "11:00", domain.StatusScheduled))
	f.addSession(booked(customer.ID, monday.AddDays(1), "10:00", "11:00", domain.StatusScheduled))

	want := map[int]string{0: "Legs & Glutes", 1: "Back + Triceps + Abs", 3: "Chest + Shoulders + Biceps + Abs"}
	for offset, label := range want {
		day, err := f.svc.ResolveTrainingDay(context.Background(), customer.ID, monday.AddDays(offset), "")
		require.NoError(t, err)
		require.NotNil(t, day.Label)
		assert.Equal(t, label, *day.Label)
		assert.NotNil(t, day.SessionID)
	}
}

func TestResolveByTrainingDayAssignment(t *testing.T) {
	customer := domain.Customer{ID: primitive.NewObjectID(), Name: "Bo"}
	f := newTrainingFixture(customer)
	ctx := context.Background()

	legs, err := f.svc.CreateWorkout(ctx, &domain.Workout{Name: "Day 1 - Legs Workout"})
	require.NoError(t, err)
	back, err := f.svc.CreateWorkout(ctx, &domain.Workout{Name: "Day 2 - Back Workout"})
	require.NoError(t, err)
	_, err = f.svc.AddAssignment(ctx, &domain.ScheduleAssignment{CustomerID: customer.ID, TrainingDay: intPtr(1), WorkoutID: legs.ID})
	require.NoError(t, err)
	_, err = f.svc.AddAssignment(ctx, &domain.ScheduleAssignment{CustomerID: customer.ID, TrainingDay: intPtr(2), WorkoutID: back.ID})
	require.NoError(t, err)

	wed := domain.NewDate(2025, time.January, 15)
	f.addSession(booked(customer.ID, wed, "18:00", "19:00", domain.StatusScheduled))
	f.addSession(booked(customer.ID, wed.AddDays(-1), "09:00", "10:00", domain.StatusCancelled))

	day, err := f.svc.ResolveTrainingDay(ctx, customer.ID, wed, "18:00")
	require.NoError(t, err)
	require.NotNil(t, day.Label)
	assert.Equal(t, "Legs", *day.Label, "cancelled sessions do not take a training day")
	assert.Equal(t, schedule.SourceTrainingDay, day.Source)

	// A hypothetical second session later that week is training day 2.
	day, err = f.svc.ResolveTrainingDay(ctx, customer.ID, wed.AddDays(2), "9:00")
	require.NoError(t, err)
	require.NotNil(t, day.Label)
	assert.Equal(t, "Back", *day.Label)
	assert.Nil(t, day.SessionID)
}

func TestResolveWithoutAnythingIsNull(t *testing.T) {
	customer := domain.Customer{ID: primitive.NewObjectID(), Name: "Cy"}
	f := newTrainingFixture(customer)

	day, err := f.svc.ResolveTrainingDay(context.Background(), customer.ID, domain.NewDate(2025, time.January, 15), "")
	require.NoError(t, err)
	assert.Nil(t, day.Label)

	_, err = f.svc.ResolveTrainingDay(context.Background(), primitive.NewObjectID(), domain.NewDate(2025, time.January, 15), "")
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = f.svc.ResolveTrainingDay(context.Background(), customer.ID, domain.NewDate(2025, time.January, 15), "7pm")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestAddAssignmentRejectsDuplicates(t *testing.T) {
	customer := domain.Customer{ID: primitive.NewObjectID(), Name: "Di"}
	f := newTrainingFixture(customer)
	ctx := context.Background()
	w, err := f.svc.CreateWorkout(ctx, &domain.Workout{Name: "Upper"})
	require.NoError(t, err)

	created, err := f.svc.AddAssignment(ctx, &domain.ScheduleAssignment{CustomerID: customer.ID, Weekday: intPtr(2), WorkoutID: w.ID})
	require.NoError(t, err)
	assert.Equal(t, "Upper", created.Workout.Name)

	_, err = f.svc.AddAssignment(ctx, &domain.ScheduleAssignment{CustomerID: customer.ID, Weekday: intPtr(2), WorkoutID: w.ID})
	assert.ErrorIs(t, err, schedule.ErrAmbiguousAssignment)

	_, err = f.svc.AddAssignment(ctx, &domain.ScheduleAssignment{CustomerID: customer.ID, WorkoutID: w.ID})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = f.svc.AddAssignment(ctx, &domain.ScheduleAssignment{CustomerID: customer.ID, Weekday: intPtr(3), WorkoutID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	list, err := f.svc.ListAssignments(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Workout)

	require.NoError(t, f.svc.RemoveAssignment(ctx, customer.ID, list[0].ID))
	assert.ErrorIs(t, f.svc.RemoveAssignment(ctx, customer.ID, list[0].ID), ErrAssignmentNotFound)
}

func TestCreateCustomer(t *testing.T) {
	f := newTrainingFixture()
	ctx := context.Background()

	c, err := f.svc.CreateCustomer(ctx, &domain.Customer{Name: "  Eva ", Email: "Eva@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Eva", c.Name)
	assert.Equal(t, "eva@example.com", c.Email)

	_, err = f.svc.CreateCustomer(ctx, &domain.Customer{Name: "Eve", Email: "eva@example.com"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = f.svc.CreateCustomer(ctx, &domain.Customer{Name: " "})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	got, err := f.svc.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
}
