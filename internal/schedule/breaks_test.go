package schedule

import (
	"testing"
	"time"

	"alcyxob/training-scheduler/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	friday   = domain.NewDate(2025, time.January, 10)
	saturday = domain.NewDate(2025, time.January, 11)
	sunday   = domain.NewDate(2025, time.January, 12)
	monday   = domain.NewDate(2025, time.January, 13)
	tuesday  = domain.NewDate(2025, time.January, 14)
	thursday = domain.NewDate(2025, time.January, 16)
)

func blocked(t *testing.T, p BreakPolicy, d domain.Date, slot string) bool {
	t.Helper()
	b, err := p.IsBlocked(d, slot)
	require.NoError(t, err)
	return b
}

func TestWeekdayBreaksClosesSunday(t *testing.T) {
	for _, slot := range DefaultGrid.Slots() {
		assert.True(t, blocked(t, WeekdayBreaks, sunday, slot), slot)
	}
}

func TestWeekdayBreaksFridayEvening(t *testing.T) {
	assert.True(t, blocked(t, WeekdayBreaks, friday, "17:00"))
	assert.True(t, blocked(t, WeekdayBreaks, friday, "18:30"))
	assert.False(t, blocked(t, WeekdayBreaks, friday, "19:00"))
	assert.False(t, blocked(t, WeekdayBreaks, friday, "16:30"))

	assert.True(t, blocked(t, WeekdayBreaks, saturday, "17:30"))
	assert.False(t, blocked(t, WeekdayBreaks, monday, "17:00"))
}

func TestWeekdayBreaksLunchIsOpenAtItsEdges(t *testing.T) {
	assert.False(t, blocked(t, WeekdayBreaks, monday, "12:30"))
	assert.False(t, blocked(t, WeekdayBreaks, monday, "13:00"))
	assert.True(t, blocked(t, WeekdayBreaks, monday, "12:45"))
}

func TestUniformBreaksInclusiveBoundaries(t *testing.T) {
	for _, d := range []domain.Date{monday, friday, sunday} {
		assert.True(t, blocked(t, UniformBreaks, d, "12:30"))
		assert.True(t, blocked(t, UniformBreaks, d, "14:30"))
		assert.False(t, blocked(t, UniformBreaks, d, "15:00"))
		assert.False(t, blocked(t, UniformBreaks, d, "12:00"))
		assert.True(t, blocked(t, UniformBreaks, d, "17:30"))
		assert.True(t, blocked(t, UniformBreaks, d, "19:00"))
		assert.False(t, blocked(t, UniformBreaks, d, "19:30"))
	}
}

func TestIsBlockedIsStable(t *testing.T) {
	for _, p := range []WindowPolicy{UniformBreaks, WeekdayBreaks} {
		for _, slot := range DefaultGrid.Slots() {
			first := blocked(t, p, friday, slot)
			for i := 0; i < 3; i++ {
				assert.Equal(t, first, blocked(t, p, friday, slot))
			}
		}
	}
}

func TestIsBlockedRejectsMalformedSlot(t *testing.T) {
	_, err := WeekdayBreaks.IsBlocked(monday, "noon")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("Uniform")
	require.NoError(t, err)
	assert.Equal(t, PolicyUniform, p.Name)

	p, err = PolicyByName("")
	require.NoError(t, err)
	assert.Equal(t, PolicyWeekday, p.Name)

	p, err = PolicyByName("none")
	require.NoError(t, err)
	assert.False(t, blocked(t, p, sunday, "12:30"))

	_, err = PolicyByName("lunar")
	assert.Error(t, err)
}

func TestWeekdays(t *testing.T) {
	w := Days(time.Friday, time.Saturday)
	assert.True(t, w.Has(time.Friday))
	assert.False(t, w.Has(time.Sunday))
	for d := time.Sunday; d <= time.Saturday; d++ {
		assert.True(t, EveryDay.Has(d))
	}
}
