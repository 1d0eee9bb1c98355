package core

import (
	"fmt"
	"time"
)

// MonthKey identifies a calendar month as year*12 + (month-1). Consecutive
// months have consecutive keys, so year boundaries need no special casing.
type MonthKey int

// BengaliMonths holds the display names used for month labels.
var BengaliMonths = [12]string{
	"জানুয়ারি", "ফেব্রুয়ারি", "মার্চ", "এপ্রিল", "মে", "জুন",
	"জুলাই", "আগস্ট", "সেপ্টেম্বর", "অক্টোবর", "নভেম্বর", "ডিসেম্বর",
}

// NewMonthKey builds a key from a year and a 1-12 month.
func NewMonthKey(year int, month time.Month) MonthKey {
	return MonthKey(year*12 + int(month) - 1)
}

// MonthKeyOf returns the month t falls in when read on the calendar of loc.
// A nil loc reads t in its own location.
func MonthKeyOf(t time.Time, loc *time.Location) MonthKey {
	if loc != nil {
		t = t.In(loc)
	}
	return NewMonthKey(t.Year(), t.Month())
}

func (k MonthKey) Year() int {
	return int(k) / 12
}

func (k MonthKey) Month() time.Month {
	return time.Month(int(k)%12 + 1)
}

// AddMonths returns the key n months after k (before, for negative n).
func (k MonthKey) AddMonths(n int) MonthKey {
	return k + MonthKey(n)
}

// Start returns the first instant of the month in loc.
func (k MonthKey) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(k.Year(), k.Month(), 1, 0, 0, 0, 0, loc)
}

// DaysIn returns the number of days in the month.
func (k MonthKey) DaysIn() int {
	return time.Date(k.Year(), k.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Label returns the Bengali month name.
func (k MonthKey) Label() string {
	return BengaliMonths[k.Month()-1]
}

// String returns the key as "2006-01".
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year(), int(k.Month()))
}

// Contains reports whether t falls in the month when read on loc's calendar.
func (k MonthKey) Contains(t time.Time, loc *time.Location) bool {
	return MonthKeyOf(t, loc) == k
}
