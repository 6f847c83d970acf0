package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// DateLayout is the canonical wire and storage format of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time-of-day component.
// Values are always held at midnight UTC so that == and Equal agree.
type Date struct {
	t time.Time
}

// NewDate builds a Date from its calendar parts. Out-of-range parts are
// normalized the same way time.Date normalizes them.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the wall-clock calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate accepts "YYYY-MM-DD" and RFC3339 timestamps. Timestamps are reduced
// to the calendar day they name in their own offset, so "2025-01-15T23:30:00+02:00"
// and "2025-01-15" are the same Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// ISOWeekday numbers the days Monday=1 through Sunday=7.
func (d Date) ISOWeekday() int {
	wd := int(d.t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// WeekStart returns the Monday of the Monday–Sunday week containing d.
func (d Date) WeekStart() Date { return d.AddDays(1 - d.ISOWeekday()) }

func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }

// DaysUntil returns the whole number of days from d to o.
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t).Hours() / 24)
}

// At returns the instant that is minutes past midnight of d in loc.
func (d Date) At(minutes int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, day := d.t.Date()
	return time.Date(y, m, day, 0, minutes, 0, 0, loc)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var legacyLocation atomic.Pointer[time.Location]

// SetLegacyLocation sets the zone in which dates stored as BSON datetimes were
// written. Such a record names the calendar day of its instant in that zone.
func SetLegacyLocation(loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	legacyLocation.Store(loc)
}

// LegacyLocation returns the zone set by SetLegacyLocation, UTC by default.
func LegacyLocation() *time.Location {
	if loc := legacyLocation.Load(); loc != nil {
		return loc
	}
	return time.UTC
}

// MarshalBSONValue stores dates as "YYYY-MM-DD" strings so range queries can
// compare them lexically.
func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.String())
}

// UnmarshalBSONValue reads either the string form or a BSON datetime written by
// older records, normalizing both to a calendar day. Datetimes are read in
// LegacyLocation.
func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*d = Date{}
		return nil
	case bsontype.String:
		s, ok := raw.StringValueOK()
		if !ok {
			return fmt.Errorf("malformed date string")
		}
		if s == "" {
			*d = Date{}
			return nil
		}
		parsed, err := ParseDate(s)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case bsontype.DateTime:
		ms, ok := raw.DateTimeOK()
		if !ok {
			return fmt.Errorf("malformed date datetime")
		}
		*d = DateOf(time.UnixMilli(ms).In(LegacyLocation()))
		return nil
	default:
		return fmt.Errorf("cannot decode date from BSON %s", t)
	}
}
