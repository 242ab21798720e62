package assessment

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSymptom = errors.New("unknown symptom")
	ErrInvalidWeight  = errors.New("symptom weight out of range")
	ErrInvalidTrip    = errors.New("invalid trip parameters")
	ErrInvalidConfig  = errors.New("invalid guideline")
)

// InsufficientDataError is returned when the gating symptom of the scoring
// rubric was not reported. The caller should re-prompt for it.
type InsufficientDataError struct {
	Missing Symptom
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %s is required to compute a score", e.Missing)
}

// UnreachableTargetError is returned when the target altitude cannot be
// reached in the planned number of days under the capped ascent rate.
type UnreachableTargetError struct {
	DaysPlanned int
	MinimumDays int
}

func (e *UnreachableTargetError) Error() string {
	return fmt.Sprintf("target unreachable in %d days: at least %d days required", e.DaysPlanned, e.MinimumDays)
}

// UnknownConditionError signals a condition outside the closed enumeration.
// It indicates a logic defect and must not be swallowed.
type UnknownConditionError struct {
	Condition Condition
}

func (e *UnknownConditionError) Error() string {
	return fmt.Sprintf("unknown condition %q", string(e.Condition))
}
