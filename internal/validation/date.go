package validation

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the format of the date inputs in the filters view.
const DayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD input as midnight UTC. An empty input
// yields the zero time and no error.
func ParseDay(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DayLayout, input, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must look like YYYY-MM-DD", input)
	}
	return t, nil
}

// ParseDayRange parses the from/to inputs of the filters view. The upper
// bound covers the whole day it names. Either side may be empty.
func ParseDayRange(fromInput, toInput string) (from, to time.Time, err error) {
	from, err = ParseDay(fromInput)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("from: %w", err)
	}
	to, err = ParseDay(toInput)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("to: %w", err)
	}
	if !to.IsZero() {
		to = to.Add(24*time.Hour - time.Second)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to %s is before from %s",
			to.Format(DayLayout), from.Format(DayLayout))
	}
	return from, to, nil
}
