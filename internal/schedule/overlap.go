package schedule

import (
	"sort"

	"alcyxob/training-scheduler/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionsActiveAt returns every session, whatever its status, whose interval
// covers slot on date: start <= slot < end.
func SessionsActiveAt(date domain.Date, slot string, sessions []domain.Session) ([]domain.Session, error) {
	minute, err := ToMinutes(slot)
	if err != nil {
		return nil, err
	}
	var active []domain.Session
	for _, s := range sessions {
		if !s.Date.Equal(date) {
			continue
		}
		iv, err := parseInterval(s.StartTime, s.EndTime)
		if err != nil {
			return nil, err
		}
		if iv.covers(minute) {
			active = append(active, s)
		}
	}
	return active, nil
}

// WeekSessions keeps the sessions of customerID whose date falls in the
// Monday–Sunday week containing date.
func WeekSessions(customerID primitive.ObjectID, date domain.Date, sessions []domain.Session) []domain.Session {
	monday := date.WeekStart()
	sunday := monday.AddDays(6)
	var week []domain.Session
	for _, s := range sessions {
		if s.CustomerID != customerID {
			continue
		}
		if s.Date.Before(monday) || s.Date.After(sunday) {
			continue
		}
		week = append(week, s)
	}
	return week
}

// Chronological returns a copy of sessions ordered by (date, start time),
// breaking ties by id so the order never depends on input order.
func Chronological(sessions []domain.Session) ([]domain.Session, error) {
	type keyed struct {
		s     domain.Session
		start int
	}
	ks := make([]keyed, len(sessions))
	for i, s := range sessions {
		m, err := ToMinutes(s.StartTime)
		if err != nil {
			return nil, err
		}
		ks[i] = keyed{s: s, start: m}
	}
	sort.SliceStable(ks, func(a, b int) bool {
		if !ks[a].s.Date.Equal(ks[b].s.Date) {
			return ks[a].s.Date.Before(ks[b].s.Date)
		}
		if ks[a].start != ks[b].start {
			return ks[a].start < ks[b].start
		}
		return ks[a].s.ID.Hex() < ks[b].s.ID.Hex()
	})
	out := make([]domain.Session, len(ks))
	for i, k := range ks {
		out[i] = k.s
	}
	return out, nil
}
