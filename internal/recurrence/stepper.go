// Package recurrence computes the dates of repeating transactions.
//
// Each frequency has its own Stepper strategy that knows how to advance a
// date by a number of units. Month and year steps clamp to the last valid
// day of the target month rather than overflowing into the next one.
package recurrence

import (
	"fmt"
	"time"

	"pennywise/internal/core"
)

// Stepper advances a date by interval units of one frequency.
type Stepper interface {
	Step(d core.Date, interval int) core.Date
}

// DailyStepper adds exactly interval days.
type DailyStepper struct{}

func (DailyStepper) Step(d core.Date, interval int) core.Date {
	return core.Date{Time: d.AddDate(0, 0, interval)}
}

// WeeklyStepper adds exactly 7*interval days.
type WeeklyStepper struct{}

func (WeeklyStepper) Step(d core.Date, interval int) core.Date {
	return core.Date{Time: d.AddDate(0, 0, 7*interval)}
}

// MonthlyStepper moves interval calendar months, keeping the day of month
// when the target month has it and using its last day otherwise.
type MonthlyStepper struct{}

func (MonthlyStepper) Step(d core.Date, interval int) core.Date {
	return addMonthsClamped(d, interval)
}

// YearlyStepper moves interval years; Feb 29 becomes Feb 28 in common years.
type YearlyStepper struct{}

func (YearlyStepper) Step(d core.Date, interval int) core.Date {
	return addMonthsClamped(d, 12*interval)
}

func addMonthsClamped(d core.Date, months int) core.Date {
	// Normalise on the first of the month so time.Date cannot overflow.
	first := time.Date(d.Year(), time.Month(d.Month())+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	lastDay := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	day := d.Day()
	if day > lastDay {
		day = lastDay
	}
	return core.NewDate(first.Year(), int(first.Month()), day)
}

// steppers maps frequencies to their strategies.
var steppers = map[core.Frequency]Stepper{
	core.Daily:   DailyStepper{},
	core.Weekly:  WeeklyStepper{},
	core.Monthly: MonthlyStepper{},
	core.Yearly:  YearlyStepper{},
}

// GetStepper returns the stepper registered for a frequency.
func GetStepper(frequency core.Frequency) (Stepper, error) {
	s, ok := steppers[frequency]
	if !ok {
		return nil, core.Invalid("frequency", fmt.Sprintf("unknown frequency %q", frequency))
	}
	return s, nil
}

// RegisterStepper adds or replaces the stepper for a frequency.
func RegisterStepper(frequency core.Frequency, s Stepper) {
	steppers[frequency] = s
}
