package recurrence

import (
	"fmt"

	"pennywise/internal/core"
)

// DefaultCount is how many occurrences are materialised when the caller
// does not ask for a specific number.
const DefaultCount = 12

// Generate returns count dates after start. Each date is obtained by stepping
// the previously generated one, the first by stepping start itself. The
// result is strictly increasing and depends only on the arguments.
func Generate(start core.Date, frequency core.Frequency, interval, count int) ([]core.Date, error) {
	if err := start.Validate(); err != nil {
		return nil, err
	}
	if interval < 1 {
		return nil, core.Invalid("interval", fmt.Sprintf("interval must be at least 1, got %d", interval))
	}
	if count < 0 {
		return nil, core.Invalid("count", fmt.Sprintf("count cannot be negative, got %d", count))
	}

	stepper, err := GetStepper(frequency)
	if err != nil {
		return nil, err
	}

	dates := make([]core.Date, 0, count)
	prev := start
	for i := 0; i < count; i++ {
		next := stepper.Step(prev, interval)
		if !next.After(prev) {
			return nil, &core.InvariantError{Detail: fmt.Sprintf("%s step from %s did not advance", frequency, prev)}
		}
		dates = append(dates, next)
		prev = next
	}
	return dates, nil
}
