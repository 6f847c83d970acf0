package schedule

import "alcyxob/training-scheduler/internal/domain"

// Generate lists the occurrence dates of a weekly series: weeks dates, the
// first being anchor and each following one exactly seven days later. It makes
// no availability promise; every date must be checked on its own.
func Generate(anchor domain.Date, weeks int) []domain.Date {
	if weeks <= 0 {
		return nil
	}
	dates := make([]domain.Date, weeks)
	for i := range dates {
		dates[i] = anchor.AddDays(7 * i)
	}
	return dates
}
