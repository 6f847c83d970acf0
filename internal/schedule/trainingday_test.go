package schedule

import (
	"math/rand"
	"testing"

	"alcyxob/training-scheduler/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func intPtr(i int) *int { return &i }

func byTrainingDay(day int, name string) domain.ScheduleAssignment {
	return domain.ScheduleAssignment{TrainingDay: intPtr(day), Workout: &domain.Workout{Name: name}}
}

func byWeekday(weekday int, name, trainingType string) domain.ScheduleAssignment {
	return domain.ScheduleAssignment{Weekday: intPtr(weekday), Workout: &domain.Workout{Name: name, TrainingType: trainingType}}
}

func resolveLabel(t *testing.T, p TrainingProfile, s domain.Session, week []domain.Session) Resolution {
	t.Helper()
	r, err := Resolve(p, s, week)
	require.NoError(t, err)
	return r
}

func TestPushPullLegsByWeekday(t *testing.T) {
	c := primitive.NewObjectID()
	profile := TrainingProfile{Customer: domain.Customer{ID: c, TrainingType: "Push/Pull/Legs"}}
	week := []domain.Session{
		session(c, monday, "10:00", "11:00", domain.StatusScheduled),
		session(c, tuesday, "10:00", "11:00", domain.StatusScheduled),
		session(c, thursday, "10:00", "11:00", domain.StatusScheduled),
	}
	want := []string{"Legs & Glutes", "Back + Triceps + Abs", "Chest + Shoulders + Biceps + Abs"}
	for i, s := range week {
		r := resolveLabel(t, profile, s, week)
		assert.True(t, r.Found)
		assert.Equal(t, SourceSplit, r.Source)
		assert.Equal(t, want[i], r.Label)
		assert.Equal(t, i+1, r.Ordinal)
	}
}

func TestOrdinalIsIndependentOfInputOrder(t *testing.T) {
	c := primitive.NewObjectID()
	profile := TrainingProfile{
		Customer: domain.Customer{ID: c},
		Assignments: []domain.ScheduleAssignment{
			byTrainingDay(1, "Day 1 - Legs & Glutes Workout"),
			byTrainingDay(2, "Day 2 - Back Workout"),
			byTrainingDay(3, "Day 3: Chest"),
		},
	}
	week := []domain.Session{
		session(c, wednesday, "18:00", "19:00", domain.StatusScheduled),
		session(c, wednesday, "08:30", "09:30", domain.StatusScheduled),
		session(c, saturday.AddDays(7), "10:00", "11:00", domain.StatusScheduled),
	}
	expected := map[primitive.ObjectID]string{
		week[1].ID: "Legs & Glutes",
		week[0].ID: "Back",
		week[2].ID: "Chest",
	}

	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 10; round++ {
		shuffled := append([]domain.Session{}, week...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		for _, s := range shuffled {
			r := resolveLabel(t, profile, s, shuffled)
			assert.Equal(t, SourceTrainingDay, r.Source)
			assert.Equal(t, expected[s.ID], r.Label)
		}
	}
}

func TestOrdinalCountsCandidateNotInWeek(t *testing.T) {
	c := primitive.NewObjectID()
	booked := []domain.Session{session(c, monday, "10:00", "11:00", domain.StatusScheduled)}
	candidate := domain.Session{CustomerID: c, Date: tuesday, StartTime: "09:00", EndTime: "10:00"}

	n, err := Ordinal(candidate, booked)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	early := domain.Session{CustomerID: c, Date: monday, StartTime: "08:30", EndTime: "09:30"}
	n, err = Ordinal(early, booked)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOrdinalIgnoresOtherCustomers(t *testing.T) {
	c := primitive.NewObjectID()
	week := []domain.Session{
		session(primitive.NewObjectID(), monday, "08:30", "09:30", domain.StatusScheduled),
		session(c, tuesday, "10:00", "11:00", domain.StatusScheduled),
	}
	n, err := Ordinal(week[1], week)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTrainingDayBeatsWeekdayAndSplit(t *testing.T) {
	c := primitive.NewObjectID()
	profile := TrainingProfile{
		Customer: domain.Customer{ID: c, TrainingType: "full body"},
		Assignments: []domain.ScheduleAssignment{
			byWeekday(1, "Monday Special", ""),
			byTrainingDay(1, "Day 1 - Glutes Workout"),
		},
	}
	s := session(c, monday, "10:00", "11:00", domain.StatusScheduled)
	r := resolveLabel(t, profile, s, []domain.Session{s})
	assert.Equal(t, "Glutes", r.Label)
	assert.Equal(t, SourceTrainingDay, r.Source)
}

func TestWeekdayAssignmentUsesWorkoutSplit(t *testing.T) {
	c := primitive.NewObjectID()
	profile := TrainingProfile{
		Customer: domain.Customer{ID: c, TrainingType: "full body"},
		Assignments: []domain.ScheduleAssignment{
			byWeekday(1, "Week plan", "upper-lower"),
			byWeekday(3, "Day 4 - Mobility Workout", "yoga"),
		},
	}
	mon := session(c, monday, "10:00", "11:00", domain.StatusScheduled)
	r := resolveLabel(t, profile, mon, []domain.Session{mon})
	assert.Equal(t, "Lower Body", r.Label)
	assert.Equal(t, SourceWeekday, r.Source)

	wed := session(c, monday.AddDays(2), "10:00", "11:00", domain.StatusScheduled)
	r = resolveLabel(t, profile, wed, []domain.Session{mon, wed})
	assert.Equal(t, "Mobility", r.Label)
	assert.Equal(t, SourceWeekday, r.Source)

	tue := session(c, tuesday, "10:00", "11:00", domain.StatusScheduled)
	r = resolveLabel(t, profile, tue, []domain.Session{mon, tue})
	assert.Equal(t, "Full Body", r.Label)
	assert.Equal(t, SourceSplit, r.Source)
}

func TestSplitFromFrequency(t *testing.T) {
	c := primitive.NewObjectID()
	profile := TrainingProfile{Customer: domain.Customer{ID: c, TrainingFrequency: "4x per week"}}
	s := session(c, friday, "10:00", "11:00", domain.StatusScheduled)
	r := resolveLabel(t, profile, s, nil)
	assert.Equal(t, "Upper Body", r.Label)
}

func TestFallsBackToSessionLabelThenNothing(t *testing.T) {
	c := primitive.NewObjectID()
	profile := TrainingProfile{Customer: domain.Customer{ID: c, TrainingType: "Push/Pull/Legs"}}

	wed := session(c, wednesday, "10:00", "11:00", domain.StatusScheduled)
	wed.TrainingType = "Cardio"
	r := resolveLabel(t, profile, wed, nil)
	assert.Equal(t, "Cardio", r.Label)
	assert.Equal(t, SourceSessionLabel, r.Source)

	wed.TrainingType = ""
	r = resolveLabel(t, profile, wed, nil)
	assert.False(t, r.Found)
	assert.Empty(t, r.Label)
	assert.Equal(t, SourceNone, r.Source)
}

func TestAmbiguousAssignmentTakesFirst(t *testing.T) {
	c := primitive.NewObjectID()
	profile := TrainingProfile{
		Customer: domain.Customer{ID: c},
		Assignments: []domain.ScheduleAssignment{
			byTrainingDay(1, "First"),
			byTrainingDay(1, "Second"),
		},
	}
	s := session(c, monday, "10:00", "11:00", domain.StatusScheduled)
	r := resolveLabel(t, profile, s, nil)
	assert.Equal(t, "First", r.Label)
	assert.True(t, r.Ambiguous)
}

func TestAssignmentWithoutWorkoutIsSkipped(t *testing.T) {
	c := primitive.NewObjectID()
	profile := TrainingProfile{
		Customer:    domain.Customer{ID: c, TrainingType: "full body"},
		Assignments: []domain.ScheduleAssignment{{TrainingDay: intPtr(1)}},
	}
	s := session(c, monday, "10:00", "11:00", domain.StatusScheduled)
	r := resolveLabel(t, profile, s, nil)
	assert.Equal(t, SourceSplit, r.Source)
}

func TestParseSplit(t *testing.T) {
	cases := map[string]Split{
		"Push/Pull/Legs":         SplitPushPullLegs,
		"3x per week":            SplitPushPullLegs,
		"Complete Body program":  SplitPushPullLegs,
		"UPPER/LOWER":            SplitUpperLower,
		"upper-lower":            SplitUpperLower,
		"Full Body":              SplitFullBody,
		"full-body, 2x per week": SplitFullBody,
		"":                       SplitUnknown,
		"marathon prep":          SplitUnknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseSplit(in), in)
	}
}

func TestCleanWorkoutName(t *testing.T) {
	cases := map[string]string{
		"Day 1 - Legs & Glutes Workout": "Legs & Glutes",
		"day 2: Back":                   "Back",
		"Chest Workout":                 "Chest",
		"Workout":                       "Workout",
		"Upper Body":                    "Upper Body",
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanWorkoutName(in), in)
	}
}

func TestCheckAssignments(t *testing.T) {
	assert.NoError(t, CheckAssignments([]domain.ScheduleAssignment{
		byTrainingDay(1, "a"), byTrainingDay(2, "b"), byWeekday(1, "c", ""),
	}))

	err := CheckAssignments([]domain.ScheduleAssignment{byWeekday(2, "a", ""), byWeekday(2, "b", "")})
	assert.ErrorIs(t, err, ErrAmbiguousAssignment)

	err = CheckAssignments([]domain.ScheduleAssignment{byTrainingDay(3, "a"), byTrainingDay(3, "b")})
	assert.ErrorIs(t, err, ErrAmbiguousAssignment)

	assert.Error(t, CheckAssignments([]domain.ScheduleAssignment{{}}))
	assert.Error(t, CheckAssignments([]domain.ScheduleAssignment{{Weekday: intPtr(8)}}))
	assert.Error(t, CheckAssignments([]domain.ScheduleAssignment{{Weekday: intPtr(1), TrainingDay: intPtr(1)}}))
}
