package recommendation

import (
	"errors"
	"fmt"

	"github.com/Skufu/GoSummit/internal/assessment"
)

var ErrUnknownBlock = errors.New("unknown recommendation block")

// Treatment returns the treatment block ids for a diagnosed condition at
// the given score tier. A condition outside the closed enumeration yields an
// *assessment.UnknownConditionError.
func Treatment(tier assessment.Tier, condition assessment.Condition) ([]string, error) {
	switch condition {
	case assessment.ConditionNone:
		return []string{TreatmentNone}, nil
	case assessment.ConditionAMS:
		if tier.AtLeast(assessment.TierHigh) {
			return []string{TreatmentAMSModerateSevere}, nil
		}
		return []string{TreatmentAMSMild}, nil
	case assessment.ConditionHACE:
		return []string{TreatmentHACE}, nil
	case assessment.ConditionHAPE:
		return []string{TreatmentHAPE}, nil
	default:
		return nil, &assessment.UnknownConditionError{Condition: condition}
	}
}

// Treatments joins the blocks for several conditions, in the order given,
// without repeating a block.
func Treatments(tier assessment.Tier, conditions ...assessment.Condition) ([]string, error) {
	if len(conditions) == 0 {
		conditions = []assessment.Condition{assessment.ConditionNone}
	}
	var ids []string
	seen := make(map[string]bool)
	for _, c := range conditions {
		blocks, err := Treatment(tier, c)
		if err != nil {
			return nil, err
		}
		for _, id := range blocks {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// Prevention returns the prevention block ids for a pre-trip risk tier.
func Prevention(risk assessment.Tier, history assessment.MedicalHistory) []string {
	ids := []string{PreventionGradualAscent}
	if risk.AtLeast(assessment.TierModerate) {
		ids = append(ids, PreventionMedication)
	}
	if history.PriorHAPE || history.PriorHACE {
		ids = append(ids, PreventionHAPE)
	}
	return append(ids, PreventionGeneral)
}

// Get returns a copy of the block with the given id.
func Get(id string) (Block, error) {
	b, ok := catalog[id]
	if !ok {
		return Block{}, fmt.Errorf("%w: %s", ErrUnknownBlock, id)
	}
	b.Lines = append([]string(nil), b.Lines...)
	b.Medications = append([]Medication(nil), b.Medications...)
	return b, nil
}

// Resolve returns the blocks for ids in order.
func Resolve(ids []string) ([]Block, error) {
	out := make([]Block, 0, len(ids))
	for _, id := range ids {
		b, err := Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
