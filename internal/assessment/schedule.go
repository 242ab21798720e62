package assessment

import (
	"fmt"
	"math"
)

// maxScheduleDays bounds the day loop for pathologically slow ascent rates.
const maxScheduleDays = 3650

// ValidateTrip checks the trip invariants: non-negative finite altitudes, a
// target not below the start and a positive rate when there is ground to gain.
func ValidateTrip(t TripParameters) error {
	for _, v := range []float64{t.StartAltitude, t.TargetAltitude, t.AscentRatePerDay} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: values must be finite", ErrInvalidTrip)
		}
	}
	if t.StartAltitude < 0 || t.TargetAltitude < 0 {
		return fmt.Errorf("%w: altitudes must be non-negative", ErrInvalidTrip)
	}
	if t.TargetAltitude < t.StartAltitude {
		return fmt.Errorf("%w: target altitude below start altitude", ErrInvalidTrip)
	}
	if t.TargetAltitude > t.StartAltitude && t.AscentRatePerDay <= 0 {
		return fmt.Errorf("%w: ascent rate must be positive", ErrInvalidTrip)
	}
	if t.DaysPlanned < 0 {
		return fmt.Errorf("%w: days planned must be non-negative", ErrInvalidTrip)
	}
	return nil
}

// GenerateSchedule lays out the ascent day by day. Day 0 is the start
// altitude. Below the policy threshold the planned rate applies unchanged;
// above it the net daily gain is capped and every RestDayInterval-th day is
// a rest day. The last day is clamped to the target.
//
// When the trip needs more days than planned, the full minimum schedule is
// returned together with an *UnreachableTargetError.
func GenerateSchedule(t TripParameters, p AscentPolicy) ([]ScheduleEntry, error) {
	if err := ValidateTrip(t); err != nil {
		return nil, err
	}

	alt := t.StartAltitude
	entries := []ScheduleEntry{{Day: 0, Altitude: alt}}
	climbsSinceRest := 0

	for day := 1; alt < t.TargetAltitude; day++ {
		if day > maxScheduleDays {
			return nil, fmt.Errorf("%w: ascent needs more than %d days", ErrInvalidTrip, maxScheduleDays)
		}

		if p.RestDayInterval > 0 && climbsSinceRest >= p.RestDayInterval-1 {
			entries = append(entries, ScheduleEntry{Day: day, Altitude: alt, IsRestDay: true})
			climbsSinceRest = 0
			continue
		}

		alt = nextAltitude(alt, t, p)
		entries = append(entries, ScheduleEntry{Day: day, Altitude: alt})
		if alt > p.ThresholdAltitude {
			climbsSinceRest++
		}
	}

	if minimum := entries[len(entries)-1].Day; t.DaysPlanned > 0 && minimum > t.DaysPlanned {
		return entries, &UnreachableTargetError{DaysPlanned: t.DaysPlanned, MinimumDays: minimum}
	}
	return entries, nil
}

func nextAltitude(alt float64, t TripParameters, p AscentPolicy) float64 {
	ceiling := p.ThresholdAltitude + p.MaxDailyGain
	var next float64
	switch {
	case alt >= p.ThresholdAltitude:
		next = alt + math.Min(t.AscentRatePerDay, p.MaxDailyGain)
	default:
		next = math.Min(alt+t.AscentRatePerDay, ceiling)
	}
	return math.Min(next, t.TargetAltitude)
}
