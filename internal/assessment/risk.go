package assessment

// RiskFactor is one contribution to the pre-trip risk score.
type RiskFactor struct {
	Factor string `json:"factor"`
	Points int    `json:"points"`
}

type PreTripRisk struct {
	Points  int          `json:"points"`
	Tier    Tier         `json:"tier"`
	Factors []RiskFactor `json:"factors"`
	// Escalated is set when a high-risk comorbidity raised the tier.
	Escalated bool `json:"escalated"`
}

// AssessPreTripRisk scores susceptibility before departure from illness
// history, sleeping altitude, planned ascent rate and age. A high-risk
// comorbidity raises Low to Moderate and Moderate to High.
func AssessPreTripRisk(trip TripParameters, history MedicalHistory, age int, g Guideline) PreTripRisk {
	rp := g.Risk
	var factors []RiskFactor
	add := func(name string, pts int) {
		if pts > 0 {
			factors = append(factors, RiskFactor{Factor: name, Points: pts})
		}
	}

	switch {
	case history.PriorHACE || history.PriorHAPE:
		add("prior HACE or HAPE", rp.PriorSevereIllnessPoints)
	case history.PriorAMS:
		add("prior AMS", rp.PriorAMSPoints)
	}

	switch {
	case trip.TargetAltitude > rp.HighAltitude:
		add("sleeping altitude above high threshold", rp.HighAltitudePoints)
	case trip.TargetAltitude >= rp.ModerateAltitude:
		add("sleeping altitude above moderate threshold", rp.ModerateAltitudePoints)
	}

	if trip.TargetAltitude > g.Ascent.ThresholdAltitude {
		switch {
		case trip.AscentRatePerDay > g.Ascent.MaxDailyGain:
			add("ascent faster than recommended daily gain", rp.FastAscentPoints)
		case trip.AscentRatePerDay == g.Ascent.MaxDailyGain:
			add("ascent at maximum recommended daily gain", rp.CappedAscentPoints)
		}
	}

	if age > 0 && (age < rp.ChildAge || age > rp.ElderlyAge) {
		add("age", rp.AgePoints)
	}

	total := 0
	for _, f := range factors {
		total += f.Points
	}

	tier := TierLow
	switch {
	case total >= rp.HighCutoff:
		tier = TierHigh
	case total >= rp.ModerateCutoff:
		tier = TierModerate
	}

	risk := PreTripRisk{Points: total, Tier: tier, Factors: factors}
	if history.HasComorbidity(rp.HighRiskComorbidities) {
		switch tier {
		case TierLow:
			risk.Tier, risk.Escalated = TierModerate, true
		case TierModerate:
			risk.Tier, risk.Escalated = TierHigh, true
		}
	}
	return risk
}
