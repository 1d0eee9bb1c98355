// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for recurring transaction dueness
// checking. Each supported frequency has its own strategy that projects a
// template onto the current period and decides whether the occurrence is due.

package services

import (
	"fmt"
	"time"

	"zen/internal/core"
)

// DuenessChecker is the strategy interface for recurring templates.
type DuenessChecker interface {
	// Occurrence projects the template dated templateDate onto the period
	// containing now, read on now's calendar. It returns the occurrence date and
	// whether that occurrence is due.
	Occurrence(templateDate, now time.Time) (time.Time, bool)
}

// MonthlyChecker implements DuenessChecker for monthly templates.
type MonthlyChecker struct{}

// Occurrence places the template's day-of-month in now's month, clamped to the
// month's last day. It is due once that day has started and the template
// itself is dated before it; a template always stands for its own month.
func (MonthlyChecker) Occurrence(templateDate, now time.Time) (time.Time, bool) {
	loc := now.Location()
	targetDay := templateDate.In(loc).Day()

	month := core.MonthKeyOf(now, loc)
	if last := month.DaysIn(); targetDay > last {
		targetDay = last
	}
	date := time.Date(month.Year(), month.Month(), targetDay, 0, 0, 0, 0, loc)

	return date, !date.After(now) && templateDate.Before(date)
}

// duenessStrategies maps frequencies to their checkers.
var duenessStrategies = map[core.Frequency]DuenessChecker{
	core.FrequencyMonthly: MonthlyChecker{},
}

// GetDuenessChecker returns the checker for a frequency.
// Returns an error if the frequency is not supported.
func GetDuenessChecker(frequency core.Frequency) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unsupported frequency: %q", frequency)
	}
	return checker, nil
}

// RegisterDuenessChecker registers a checker for a new frequency.
func RegisterDuenessChecker(frequency core.Frequency, checker DuenessChecker) {
	duenessStrategies[frequency] = checker
}
