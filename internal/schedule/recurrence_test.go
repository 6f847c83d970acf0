package schedule

import (
	"testing"
	"time"

	"alcyxob/training-scheduler/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWeeklySeries(t *testing.T) {
	anchor := domain.NewDate(2025, time.January, 6)
	dates := Generate(anchor, 12)
	require.Len(t, dates, 12)
	assert.True(t, dates[0].Equal(anchor))
	for i := 1; i < len(dates); i++ {
		assert.Equal(t, 7, dates[i-1].DaysUntil(dates[i]))
		assert.Equal(t, anchor.Weekday(), dates[i].Weekday())
	}
	assert.Equal(t, "2025-03-24", dates[11].String())
}

func TestGenerateCrossesMonthAndYear(t *testing.T) {
	dates := Generate(domain.NewDate(2024, time.December, 24), 3)
	require.Len(t, dates, 3)
	assert.Equal(t, "2024-12-31", dates[1].String())
	assert.Equal(t, "2025-01-07", dates[2].String())
}

func TestGenerateNonPositive(t *testing.T) {
	assert.Empty(t, Generate(monday, 0))
	assert.Empty(t, Generate(monday, -3))
	assert.Len(t, Generate(monday, 1), 1)
}
