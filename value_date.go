package qlang

import (
	"errors"
	"fmt"
	"time"
)

// Date is either an absolute point in time (broken-down fields plus
// an implied proleptic Gregorian calendar) or a relative duration
// expressed in the same fields. Absolute dates are
// stored as a UTC time.Time; relative dates keep their per-field
// deltas unnormalized, because year/month lengths are variable.
type Date struct {
	ref      *refTag
	relative bool
	t        time.Time // meaningful iff !relative

	years, months, days, hours, minutes, seconds, millis int // meaningful iff relative
}

func NewAbsoluteDate(year, month, day, hour, minute, second, millis int) *Date {
	t := time.Date(year, time.Month(month), day, hour, minute, second, millis*int(time.Millisecond), time.UTC)
	return &Date{ref: newRefTag(), relative: false, t: t}
}

func NewRelativeDate(years, months, days, hours, minutes, seconds, millis int) *Date {
	return &Date{
		ref: newRefTag(), relative: true,
		years: years, months: months, days: days,
		hours: hours, minutes: minutes, seconds: seconds, millis: millis,
	}
}

// RelativeDateFromSeconds builds a relative date of exactly n seconds,
// used by Integer/Float/Bool's ToDate coercion.
func RelativeDateFromSeconds(n int64) *Date {
	return NewRelativeDate(0, 0, 0, 0, 0, int(n), 0)
}

func (d *Date) Type() TypeTag    { return TypeDate }
func (d *Date) RefSelf() Value   { d.ref.incr(); return d }
func (d *Date) Deref(sink *Sink) { d.ref.decr() }
func (d *Date) RealCopy() Value {
	cp := *d
	cp.ref = newRefTag()
	return &cp
}

func (d *Date) IsRelative() bool { return d.relative }
func (d *Date) IsAbsolute() bool { return !d.relative }

func (d *Date) ToBool() bool {
	if d.relative {
		return d.years != 0 || d.months != 0 || d.days != 0 || d.hours != 0 ||
			d.minutes != 0 || d.seconds != 0 || d.millis != 0
	}
	return !d.t.IsZero()
}

func (d *Date) ToInt() int64 {
	if d.relative {
		return int64(d.seconds) + int64(d.minutes)*60 + int64(d.hours)*3600 + int64(d.days)*86400
	}
	return d.t.Unix()
}

func (d *Date) ToFloat() float64 { return float64(d.ToInt()) }
func (d *Date) ToDate() *Date    { return d }
func (d *Date) NeedsEval() bool  { return false }

func (d *Date) ToStringValue(sink *Sink) *String {
	return NewString(d.Format(), DefaultEncoding())
}

// Format renders an ISO-8601-ish representation. Locale-aware
// date-format-string rendering is an external collaborator; this is the core's own minimal textual form.
func (d *Date) Format() string {
	if d.relative {
		return fmt.Sprintf("P%dY%dM%dDT%dH%dM%d.%03dS",
			d.years, d.months, d.days, d.hours, d.minutes, d.seconds, d.millis)
	}
	return d.t.Format("2006-01-02T15:04:05.000")
}

func (d *Date) IsEqual(o *Date) bool {
	if o == nil || d.relative != o.relative {
		return false
	}
	if d.relative {
		return d.years == o.years && d.months == o.months && d.days == o.days &&
			d.hours == o.hours && d.minutes == o.minutes && d.seconds == o.seconds && d.millis == o.millis
	}
	return d.t.Equal(o.t)
}

func (d *Date) IsEqualHard(other Value) bool {
	o, ok := other.(*Date)
	return ok && d.IsEqual(o)
}

func (d *Date) IsEqualSoft(other Value, sink *Sink) bool {
	if o, ok := other.(*Date); ok {
		return d.IsEqual(o)
	}
	return softEqual(d, other, sink)
}

// ParseAbsoluteDate parses a handful of common ISO-8601-ish layouts.
// Full date-format-string rendering/parsing is out of scope; this is enough for string->date coercion.
func ParseAbsoluteDate(s string) (*Date, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"20060102T150405",
		"20060102",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &Date{ref: newRefTag(), relative: false, t: t}, nil
		}
	}
	return nil, errors.New("unparseable date: " + s)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// addAbsoluteRelative applies rel to abs with the given sign (+1 for
// Add, -1 for Sub): year offsets are applied before month offsets,
// month overflow wraps into year, and the resulting day is clamped to
// the new month's last day.
func addAbsoluteRelative(abs, rel *Date, sign int) *Date {
	year := abs.t.Year() + sign*rel.years
	monthIdx := int(abs.t.Month()) - 1 + sign*rel.months
	year += floorDiv(monthIdx, 12)
	monthIdx = floorMod(monthIdx, 12)
	month := time.Month(monthIdx + 1)

	day := abs.t.Day()
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	base := time.Date(year, month, day, abs.t.Hour(), abs.t.Minute(), abs.t.Second(), abs.t.Nanosecond(), time.UTC)

	delta := time.Duration(sign) * (time.Duration(rel.days)*24*time.Hour +
		time.Duration(rel.hours)*time.Hour +
		time.Duration(rel.minutes)*time.Minute +
		time.Duration(rel.seconds)*time.Second +
		time.Duration(rel.millis)*time.Millisecond)

	return &Date{ref: newRefTag(), relative: false, t: base.Add(delta)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// absoluteDiff computes a-b normalized to days/hours/minutes/seconds/
// milliseconds.
func absoluteDiff(a, b *Date) *Date {
	dur := a.t.Sub(b.t)
	neg := dur < 0
	if neg {
		dur = -dur
	}
	days := int(dur / (24 * time.Hour))
	dur -= time.Duration(days) * 24 * time.Hour
	hours := int(dur / time.Hour)
	dur -= time.Duration(hours) * time.Hour
	minutes := int(dur / time.Minute)
	dur -= time.Duration(minutes) * time.Minute
	seconds := int(dur / time.Second)
	dur -= time.Duration(seconds) * time.Second
	millis := int(dur / time.Millisecond)
	if neg {
		days, hours, minutes, seconds, millis = -days, -hours, -minutes, -seconds, -millis
	}
	return NewRelativeDate(0, 0, days, hours, minutes, seconds, millis)
}

// Add implements date + date dispatch. Returns nil
// for the undefined absolute+absolute combination; callers raise
// whatever error their context requires.
func (d *Date) Add(other *Date) *Date {
	switch {
	case !d.relative && other.relative:
		return addAbsoluteRelative(d, other, 1)
	case d.relative && !other.relative:
		return addAbsoluteRelative(other, d, 1)
	case d.relative && other.relative:
		return NewRelativeDate(
			d.years+other.years, d.months+other.months, d.days+other.days,
			d.hours+other.hours, d.minutes+other.minutes, d.seconds+other.seconds, d.millis+other.millis)
	default:
		return nil
	}
}

// Sub implements date - date dispatch.
func (d *Date) Sub(other *Date) *Date {
	switch {
	case !d.relative && !other.relative:
		return absoluteDiff(d, other)
	case !d.relative && other.relative:
		return addAbsoluteRelative(d, other, -1)
	case d.relative && other.relative:
		return NewRelativeDate(
			d.years-other.years, d.months-other.months, d.days-other.days,
			d.hours-other.hours, d.minutes-other.minutes, d.seconds-other.seconds, d.millis-other.millis)
	default:
		return nil
	}
}

// ISOWeek returns the ISO-8601 (year, week, weekday) triple, weekday
// 1=Monday..7=Sunday. Week 53 exists only when Jan
// 1 falls on Thursday, or Wednesday in a leap year — this follows
// directly from Go's stdlib ISOWeek, which already implements the
// standard rule.
func (d *Date) ISOWeek() (year, week, weekday int) {
	y, w := d.t.ISOWeek()
	wd := int(d.t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return y, w, wd
}

// DateFromISOWeek is the inverse of ISOWeek: given an ISO (year, week,
// weekday) triple, returns the absolute date it names.
func DateFromISOWeek(year, week, weekday int) *Date {
	jan4 := time.Date(year, 1, 4, 0, 0, 0, 0, time.UTC)
	isoWd := int(jan4.Weekday())
	if isoWd == 0 {
		isoWd = 7
	}
	monday := jan4.AddDate(0, 0, -(isoWd - 1))
	result := monday.AddDate(0, 0, (week-1)*7+(weekday-1))
	return &Date{ref: newRefTag(), relative: false, t: result}
}
