package schedule

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"alcyxob/training-scheduler/internal/domain"
)

// Split is a named weekly workout rotation.
type Split int

const (
	SplitUnknown Split = iota
	SplitPushPullLegs
	SplitUpperLower
	SplitFullBody
)

func (s Split) String() string {
	switch s {
	case SplitPushPullLegs:
		return "push-pull-legs"
	case SplitUpperLower:
		return "upper-lower"
	case SplitFullBody:
		return "full-body"
	}
	return "unknown"
}

// splitAliases is checked in order; the first alias found in the lowercased
// input wins.
var splitAliases = []struct {
	alias string
	split Split
}{
	{"push/pull/legs", SplitPushPullLegs},
	{"push-pull-legs", SplitPushPullLegs},
	{"push pull legs", SplitPushPullLegs},
	{"3x per week", SplitPushPullLegs},
	{"complete body", SplitPushPullLegs},
	{"upper/lower", SplitUpperLower},
	{"upper-lower", SplitUpperLower},
	{"upper lower", SplitUpperLower},
	{"4x per week", SplitUpperLower},
	{"full body", SplitFullBody},
	{"full-body", SplitFullBody},
	{"fullbody", SplitFullBody},
	{"2x per week", SplitFullBody},
}

// ParseSplit maps free text such as "Push/Pull/Legs" or "4x per week" to a Split.
func ParseSplit(s string) Split {
	s = strings.ToLower(s)
	if s == "" {
		return SplitUnknown
	}
	for _, a := range splitAliases {
		if strings.Contains(s, a.alias) {
			return a.split
		}
	}
	return SplitUnknown
}

// splitRule labels the training days of a split. anyDay, when set, applies on
// every day; otherwise only the listed weekdays are training days.
type splitRule struct {
	anyDay    string
	byWeekday map[time.Weekday]string
}

var splitRules = map[Split]splitRule{
	SplitPushPullLegs: {byWeekday: map[time.Weekday]string{
		time.Monday:   "Legs & Glutes",
		time.Tuesday:  "Back + Triceps + Abs",
		time.Thursday: "Chest + Shoulders + Biceps + Abs",
	}},
	SplitUpperLower: {byWeekday: map[time.Weekday]string{
		time.Monday:   "Lower Body",
		time.Tuesday:  "Upper Body",
		time.Thursday: "Lower Body",
		time.Friday:   "Upper Body",
	}},
	SplitFullBody: {anyDay: "Full Body"},
}

// Label returns the workout label of the split on weekday, or false when the
// day is not a training day for it.
func (s Split) Label(weekday time.Weekday) (string, bool) {
	rule, ok := splitRules[s]
	if !ok {
		return "", false
	}
	if rule.anyDay != "" {
		return rule.anyDay, true
	}
	label, ok := rule.byWeekday[weekday]
	return label, ok
}

var (
	dayPrefix     = regexp.MustCompile(`(?i)^\s*day\s*\d+\s*[-–:]\s*`)
	workoutSuffix = regexp.MustCompile(`(?i)\s+workout\s*$`)
)

// CleanWorkoutName strips a leading "Day N -" and a trailing "Workout" so that
// "Day 1 - Legs & Glutes Workout" reads "Legs & Glutes".
func CleanWorkoutName(name string) string {
	cleaned := dayPrefix.ReplaceAllString(name, "")
	cleaned = workoutSuffix.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return strings.TrimSpace(name)
	}
	return cleaned
}

// Source names the layer of the fallback chain a label came from.
type Source string

const (
	SourceNone         Source = ""
	SourceTrainingDay  Source = "training-day"
	SourceWeekday      Source = "weekday"
	SourceSplit        Source = "split"
	SourceSessionLabel Source = "session"
)

// Resolution is the outcome of resolving one session.
type Resolution struct {
	Label   string
	Found   bool
	Source  Source
	Ordinal int
	// Ambiguous is set when more than one assignment matched the deciding key;
	// the first one in input order was used.
	Ambiguous bool
}

// TrainingProfile is what the resolver needs to know about a customer.
// Assignments should carry their Workout.
type TrainingProfile struct {
	Customer    domain.Customer
	Assignments []domain.ScheduleAssignment
}

// Ordinal returns the 1-based position of session among the customer's
// sessions in its Monday–Sunday week, ordered by (date, start time). The
// session is counted even when weekSessions does not contain it.
func Ordinal(session domain.Session, weekSessions []domain.Session) (int, error) {
	week := WeekSessions(session.CustomerID, session.Date, weekSessions)
	present := false
	for _, s := range week {
		if sameOccurrence(s, session) {
			present = true
			break
		}
	}
	if !present {
		week = append(week, session)
	}
	ordered, err := Chronological(week)
	if err != nil {
		return 0, err
	}
	for i, s := range ordered {
		if sameOccurrence(s, session) {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: session missing from its week", ErrNotFound)
}

func sameOccurrence(a, b domain.Session) bool {
	if !a.ID.IsZero() || !b.ID.IsZero() {
		return a.ID == b.ID
	}
	return a.Date.Equal(b.Date) && a.StartTime == b.StartTime && a.CustomerID == b.CustomerID
}

// Resolve picks the workout label for session. The layers are tried in order:
// assignment by training day, assignment by weekday, the customer's split,
// the session's own label. A weekday assignment whose workout trainingType
// names no split label for that day is labelled with the cleaned workout name
// before the chain moves on.
func Resolve(profile TrainingProfile, session domain.Session, weekSessions []domain.Session) (Resolution, error) {
	ordinal, err := Ordinal(session, weekSessions)
	if err != nil {
		return Resolution{}, err
	}
	weekday := session.Date.Weekday()
	res := Resolution{Ordinal: ordinal}

	if a, n := firstAssignment(profile.Assignments, func(a domain.ScheduleAssignment) bool {
		return a.ByTrainingDay() && *a.TrainingDay == ordinal
	}); a != nil && a.Workout != nil {
		res.Label = CleanWorkoutName(a.Workout.Name)
		res.Source = SourceTrainingDay
		res.Found = res.Label != ""
		res.Ambiguous = n > 1
		if res.Found {
			return res, nil
		}
	}

	if a, n := firstAssignment(profile.Assignments, func(a domain.ScheduleAssignment) bool {
		return a.ByWeekday() && *a.Weekday == session.Date.ISOWeekday()
	}); a != nil && a.Workout != nil {
		label, ok := ParseSplit(a.Workout.TrainingType).Label(weekday)
		if !ok {
			label = CleanWorkoutName(a.Workout.Name)
		}
		if label != "" {
			return Resolution{Label: label, Found: true, Source: SourceWeekday, Ordinal: ordinal, Ambiguous: n > 1}, nil
		}
	}

	split := ParseSplit(profile.Customer.TrainingType)
	if split == SplitUnknown {
		split = ParseSplit(profile.Customer.TrainingFrequency)
	}
	if label, ok := split.Label(weekday); ok {
		return Resolution{Label: label, Found: true, Source: SourceSplit, Ordinal: ordinal, Ambiguous: res.Ambiguous}, nil
	}

	if session.TrainingType != "" {
		return Resolution{Label: session.TrainingType, Found: true, Source: SourceSessionLabel, Ordinal: ordinal, Ambiguous: res.Ambiguous}, nil
	}
	return Resolution{Ordinal: ordinal, Ambiguous: res.Ambiguous}, nil
}

func firstAssignment(assignments []domain.ScheduleAssignment, match func(domain.ScheduleAssignment) bool) (*domain.ScheduleAssignment, int) {
	var first *domain.ScheduleAssignment
	n := 0
	for i := range assignments {
		if !match(assignments[i]) {
			continue
		}
		if first == nil {
			first = &assignments[i]
		}
		n++
	}
	return first, n
}

// CheckAssignments rejects assignment sets in which two entries share a
// weekday or a training day, and entries that set neither or both keys.
func CheckAssignments(assignments []domain.ScheduleAssignment) error {
	weekdays := make(map[int]bool)
	days := make(map[int]bool)
	for _, a := range assignments {
		switch {
		case a.TrainingDay != nil && a.Weekday != nil:
			return fmt.Errorf("assignment sets both weekday and trainingDay")
		case a.TrainingDay != nil:
			if *a.TrainingDay < 1 || *a.TrainingDay > 7 {
				return fmt.Errorf("trainingDay %d out of range 1-7", *a.TrainingDay)
			}
			if days[*a.TrainingDay] {
				return fmt.Errorf("%w: trainingDay %d", ErrAmbiguousAssignment, *a.TrainingDay)
			}
			days[*a.TrainingDay] = true
		case a.Weekday != nil:
			if *a.Weekday < 1 || *a.Weekday > 7 {
				return fmt.Errorf("weekday %d out of range 1-7", *a.Weekday)
			}
			if weekdays[*a.Weekday] {
				return fmt.Errorf("%w: weekday %d", ErrAmbiguousAssignment, *a.Weekday)
			}
			weekdays[*a.Weekday] = true
		default:
			return fmt.Errorf("assignment needs a weekday or a trainingDay")
		}
	}
	return nil
}
