package assessment

// Rule is one row of the diagnosis table. Rules are evaluated in order and
// the first whose Match returns true decides the diagnosis.
type Rule struct {
	ID      string
	Note    string
	Match   func(Observation) bool
	Outcome func(Observation) Diagnosis
}

const (
	RuleHACE = "hace"
	RuleHAPE = "hape"
	RuleAMS  = "ams"
	RuleNone = "none"
)

// Classifier maps an observation to a diagnosis through an ordered rule
// table. It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	rules []Rule
}

func NewClassifier(g Guideline) *Classifier {
	return &Classifier{rules: Rules(g)}
}

// Rules builds the rule table in precedence order. Neurological signs come
// first so they dominate regardless of respiratory status.
func Rules(g Guideline) []Rule {
	return []Rule{
		{
			ID:    RuleHACE,
			Note:  "ataxia, altered consciousness or severe lassitude",
			Match: func(o Observation) bool { return o.Symptoms.HasAny(g.HACESigns) },
			Outcome: func(Observation) Diagnosis {
				return Diagnosis{Condition: ConditionHACE, Urgency: UrgencyEmergency}
			},
		},
		{
			ID:    RuleHAPE,
			Note:  "respiratory signs with low oxygen saturation",
			Match: func(o Observation) bool { return hapeSuspected(o, g) },
			Outcome: func(Observation) Diagnosis {
				return Diagnosis{Condition: ConditionHAPE, Urgency: UrgencyEmergency}
			},
		},
		{
			ID:    RuleAMS,
			Note:  "Lake Louise score at or above the moderate band",
			Match: func(o Observation) bool { return o.Score.Tier.AtLeast(TierModerate) },
			Outcome: func(o Observation) Diagnosis {
				if o.Score.Tier == TierSevere {
					return Diagnosis{Condition: ConditionAMS, Urgency: UrgencyUrgent}
				}
				return Diagnosis{Condition: ConditionAMS, Urgency: UrgencyRoutine}
			},
		},
		{
			ID:    RuleNone,
			Match: func(Observation) bool { return true },
			Outcome: func(Observation) Diagnosis {
				return Diagnosis{Condition: ConditionNone, Urgency: UrgencyRoutine}
			},
		},
	}
}

// Classify returns the outcome of the first matching rule.
func (c *Classifier) Classify(o Observation) Diagnosis {
	if found := c.Findings(o); len(found) > 0 {
		return found[0]
	}
	return Diagnosis{Condition: ConditionNone, Urgency: UrgencyRoutine, Rule: RuleNone}
}

// Findings returns the outcome of every matching rule in table order,
// leaving out the catch-all. The first entry is the diagnosis; the rest are
// conditions that also need treating.
func (c *Classifier) Findings(o Observation) []Diagnosis {
	var found []Diagnosis
	for _, r := range c.rules {
		if r.ID == RuleNone || !r.Match(o) {
			continue
		}
		d := r.Outcome(o)
		d.Rule = r.ID
		found = append(found, d)
	}
	return found
}

// hapeSuspected applies the saturation criterion when a reading exists and
// falls back to the clinical-sign criterion otherwise.
func hapeSuspected(o Observation, g Guideline) bool {
	if o.SpO2 != nil {
		return o.Symptoms.HasAny(g.RespiratorySigns) && *o.SpO2 < g.SpO2Threshold(o.Altitude, o.Age)
	}
	s, c := o.Symptoms, g.HAPEClinical
	if s.HasAny(c.Major) {
		return true
	}
	return s.HasAny(c.Exertional) && s.HasAny(c.Supporting)
}

// SpO2Threshold is the lowest expected saturation at altitude for a person
// of the given age. Readings below it count as hypoxemic.
func (g Guideline) SpO2Threshold(altitude float64, age int) float64 {
	ref := 0.0
	for _, b := range g.SpO2.Bands {
		ref = b.Reference
		if b.UpTo == 0 || altitude < b.UpTo {
			break
		}
	}
	if g.SpO2.ElderlyAge > 0 && age >= g.SpO2.ElderlyAge {
		ref -= g.SpO2.ElderlyAdjustment
	}
	return ref
}
