package assessment

import "fmt"

// ValidateSymptoms rejects unknown tags and weights outside 0..3.
func ValidateSymptoms(symptoms SymptomSet) error {
	for sym, w := range symptoms {
		if !sym.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidSymptom, sym)
		}
		if w < MinWeight || w > MaxWeight {
			return fmt.Errorf("%w: %s=%d", ErrInvalidWeight, sym, w)
		}
	}
	return nil
}

// Score sums the weights of the guideline's scored symptoms and maps the
// total onto its score bands. Neurological and respiratory signs do not
// contribute. Without the gating symptom the score is not
// defined and an *InsufficientDataError is returned.
func Score(symptoms SymptomSet, g Guideline) (ScoreResult, error) {
	if err := ValidateSymptoms(symptoms); err != nil {
		return ScoreResult{}, err
	}
	if !symptoms.Has(g.GatingSymptom) {
		return ScoreResult{}, &InsufficientDataError{Missing: g.GatingSymptom}
	}

	total := 0
	for _, sym := range g.ScoredSymptoms {
		total += symptoms[sym]
	}
	return ScoreResult{TotalScore: total, Tier: g.TierFor(total)}, nil
}

// TierFor returns the tier of the highest band whose minimum total reaches.
func (g Guideline) TierFor(total int) Tier {
	tier := TierLow
	for _, b := range g.ScoreBands {
		if total < b.Min {
			break
		}
		tier = b.Tier
	}
	return tier
}
