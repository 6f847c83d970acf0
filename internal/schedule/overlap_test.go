package schedule

import (
	"testing"

	"alcyxob/training-scheduler/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSessionsActiveAtCoversHalfOpenInterval(t *testing.T) {
	c := primitive.NewObjectID()
	a := session(c, wednesday, "10:00", "11:00", domain.StatusScheduled)
	b := session(c, wednesday, "10:30", "11:30", domain.StatusCancelled)
	other := session(c, thursday, "10:00", "11:00", domain.StatusScheduled)
	all := []domain.Session{a, b, other}

	active, err := SessionsActiveAt(wednesday, "10:30", all)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Session{a, b}, active)

	active, err = SessionsActiveAt(wednesday, "11:00", all)
	require.NoError(t, err)
	assert.Equal(t, []domain.Session{b}, active)

	active, err = SessionsActiveAt(wednesday, "09:30", all)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSessionsActiveAtComparesCalendarDays(t *testing.T) {
	late, err := domain.ParseDate("2025-01-15T23:00:00+05:00")
	require.NoError(t, err)
	s := session(primitive.NewObjectID(), late, "10:00", "11:00", domain.StatusScheduled)

	active, err := SessionsActiveAt(wednesday, "10:00", []domain.Session{s})
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestWeekSessionsFiltersCustomerAndWeek(t *testing.T) {
	c := primitive.NewObjectID()
	inWeek := []domain.Session{
		session(c, monday, "10:00", "11:00", domain.StatusScheduled),
		session(c, monday.AddDays(6), "10:00", "11:00", domain.StatusScheduled),
	}
	outside := []domain.Session{
		session(c, sunday, "10:00", "11:00", domain.StatusScheduled),
		session(c, monday.AddDays(7), "10:00", "11:00", domain.StatusScheduled),
		session(primitive.NewObjectID(), tuesday, "10:00", "11:00", domain.StatusScheduled),
	}
	got := WeekSessions(c, thursday, append(append([]domain.Session{}, inWeek...), outside...))
	assert.ElementsMatch(t, inWeek, got)
}

func TestChronologicalDoesNotTouchInput(t *testing.T) {
	c := primitive.NewObjectID()
	in := []domain.Session{
		session(c, thursday, "09:00", "10:00", domain.StatusScheduled),
		session(c, monday, "14:00", "15:00", domain.StatusScheduled),
		session(c, monday, "9:30", "10:30", domain.StatusScheduled),
	}
	snapshot := append([]domain.Session{}, in...)

	out, err := Chronological(in)
	require.NoError(t, err)
	assert.Equal(t, []domain.Session{snapshot[2], snapshot[1], snapshot[0]}, out)
	assert.Equal(t, snapshot, in)
}
