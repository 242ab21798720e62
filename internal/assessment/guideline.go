package assessment

import "fmt"

// DefaultGuidelineVersion identifies the thresholds compiled into the binary.
const DefaultGuidelineVersion = "wms-2024"

// Guideline is the immutable set of clinical thresholds every component is
// evaluated against. Values are loaded once and never mutated; swapping in a
// new guideline version requires no code change.
type Guideline struct {
	Version string `yaml:"version" json:"version"`

	// GatingSymptom must be present for a score to be valid.
	GatingSymptom Symptom `yaml:"gatingSymptom" json:"gatingSymptom"`
	// ScoredSymptoms are the items summed into the total. Other tags are
	// signs for the classifier only.
	ScoredSymptoms []Symptom   `yaml:"scoredSymptoms" json:"scoredSymptoms"`
	ScoreBands     []ScoreBand `yaml:"scoreBands" json:"scoreBands"`

	HACESigns        []Symptom `yaml:"haceSigns" json:"haceSigns"`
	RespiratorySigns []Symptom `yaml:"respiratorySigns" json:"respiratorySigns"`
	HAPEClinical     HAPESigns `yaml:"hapeClinical" json:"hapeClinical"`

	SpO2   SpO2Reference `yaml:"spo2" json:"spo2"`
	Ascent AscentPolicy  `yaml:"ascent" json:"ascent"`
	Risk   RiskPolicy    `yaml:"risk" json:"risk"`
}

// ScoreBand maps every total score >= Min (up to the next band) to Tier.
type ScoreBand struct {
	Min  int  `yaml:"min" json:"min"`
	Tier Tier `yaml:"tier" json:"tier"`
}

// SpO2Band gives the lowest expected saturation for altitudes below UpTo.
// The last band has UpTo 0 and covers everything above.
type SpO2Band struct {
	UpTo      float64 `yaml:"upTo" json:"upTo"`
	Reference float64 `yaml:"reference" json:"reference"`
}

// HAPESigns is the clinical criterion used when no saturation reading is
// available: any Major sign, or any Exertional sign together with any
// Supporting sign.
type HAPESigns struct {
	Major      []Symptom `yaml:"major" json:"major"`
	Exertional []Symptom `yaml:"exertional" json:"exertional"`
	Supporting []Symptom `yaml:"supporting" json:"supporting"`
}

type SpO2Reference struct {
	Bands []SpO2Band `yaml:"bands" json:"bands"`
	// Reference is lowered by ElderlyAdjustment points from ElderlyAge on.
	ElderlyAge        int     `yaml:"elderlyAge" json:"elderlyAge"`
	ElderlyAdjustment float64 `yaml:"elderlyAdjustment" json:"elderlyAdjustment"`
}

type AscentPolicy struct {
	ThresholdAltitude float64 `yaml:"thresholdAltitude" json:"thresholdAltitude"`
	MaxDailyGain      float64 `yaml:"maxDailyGain" json:"maxDailyGain"`
	// Every RestDayInterval-th day above the threshold is a rest day.
	// Zero disables rest days.
	RestDayInterval int `yaml:"restDayInterval" json:"restDayInterval"`
}

type RiskPolicy struct {
	PriorSevereIllnessPoints int `yaml:"priorSevereIllnessPoints" json:"priorSevereIllnessPoints"`
	PriorAMSPoints           int `yaml:"priorAMSPoints" json:"priorAMSPoints"`

	HighAltitude           float64 `yaml:"highAltitude" json:"highAltitude"`
	HighAltitudePoints     int     `yaml:"highAltitudePoints" json:"highAltitudePoints"`
	ModerateAltitude       float64 `yaml:"moderateAltitude" json:"moderateAltitude"`
	ModerateAltitudePoints int     `yaml:"moderateAltitudePoints" json:"moderateAltitudePoints"`

	FastAscentPoints   int `yaml:"fastAscentPoints" json:"fastAscentPoints"`
	CappedAscentPoints int `yaml:"cappedAscentPoints" json:"cappedAscentPoints"`

	ChildAge   int `yaml:"childAge" json:"childAge"`
	ElderlyAge int `yaml:"elderlyAge" json:"elderlyAge"`
	AgePoints  int `yaml:"agePoints" json:"agePoints"`

	ModerateCutoff int `yaml:"moderateCutoff" json:"moderateCutoff"`
	HighCutoff     int `yaml:"highCutoff" json:"highCutoff"`

	HighRiskComorbidities []Comorbidity `yaml:"highRiskComorbidities" json:"highRiskComorbidities"`
}

// DefaultGuideline returns the Lake Louise 2018 / WMS 2024 thresholds. Each
// call returns a fresh value.
func DefaultGuideline() Guideline {
	return Guideline{
		Version:       DefaultGuidelineVersion,
		GatingSymptom: SymptomHeadache,
		ScoredSymptoms: []Symptom{
			SymptomHeadache,
			SymptomGastrointestinal,
			SymptomFatigue,
			SymptomDizziness,
		},
		ScoreBands: []ScoreBand{
			{Min: 0, Tier: TierLow},
			{Min: 3, Tier: TierModerate},
			{Min: 6, Tier: TierSevere},
		},
		HACESigns: []Symptom{SymptomAtaxia, SymptomConfusion, SymptomSevereLassitude},
		RespiratorySigns: []Symptom{
			SymptomDyspneaRest,
			SymptomDyspneaExertion,
			SymptomCough,
			SymptomChestTightness,
			SymptomCyanosis,
		},
		HAPEClinical: HAPESigns{
			Major:      []Symptom{SymptomDyspneaRest, SymptomCyanosis},
			Exertional: []Symptom{SymptomDyspneaExertion},
			Supporting: []Symptom{SymptomCough, SymptomChestTightness},
		},
		SpO2: SpO2Reference{
			Bands: []SpO2Band{
				{UpTo: 1500, Reference: 94},
				{UpTo: 2500, Reference: 92},
				{UpTo: 3500, Reference: 88},
				{UpTo: 4500, Reference: 84},
				{UpTo: 5500, Reference: 78},
				{UpTo: 0, Reference: 72},
			},
			ElderlyAge:        65,
			ElderlyAdjustment: 2,
		},
		Ascent: AscentPolicy{
			ThresholdAltitude: 3000,
			MaxDailyGain:      500,
			RestDayInterval:   3,
		},
		Risk: RiskPolicy{
			PriorSevereIllnessPoints: 3,
			PriorAMSPoints:           2,
			HighAltitude:             3500,
			HighAltitudePoints:       2,
			ModerateAltitude:         2800,
			ModerateAltitudePoints:   1,
			FastAscentPoints:         2,
			CappedAscentPoints:       1,
			ChildAge:                 12,
			ElderlyAge:               65,
			AgePoints:                1,
			ModerateCutoff:           3,
			HighCutoff:               5,
			HighRiskComorbidities: []Comorbidity{
				ComorbidityHeartDisease,
				ComorbidityLungDisease,
				ComorbidityPregnancy,
				ComorbidityRecentCOVID19,
				ComorbiditySickleCell,
			},
		},
	}
}

// Validate checks the guideline is internally consistent. Score bands must
// start at zero and ascend so that the tier never decreases as the score grows.
func (g Guideline) Validate() error {
	if g.Version == "" {
		return fmt.Errorf("%w: version is required", ErrInvalidConfig)
	}
	if !g.GatingSymptom.Valid() {
		return fmt.Errorf("%w: gating symptom %q", ErrInvalidConfig, g.GatingSymptom)
	}
	if len(g.ScoredSymptoms) == 0 {
		return fmt.Errorf("%w: no scored symptoms", ErrInvalidConfig)
	}
	scored := make(map[Symptom]bool, len(g.ScoredSymptoms))
	for _, s := range g.ScoredSymptoms {
		if !s.Valid() || scored[s] {
			return fmt.Errorf("%w: scored symptom %q", ErrInvalidConfig, s)
		}
		scored[s] = true
	}
	if len(g.ScoreBands) == 0 || g.ScoreBands[0].Min != 0 {
		return fmt.Errorf("%w: score bands must start at 0", ErrInvalidConfig)
	}
	for i, b := range g.ScoreBands {
		if !b.Tier.Valid() {
			return fmt.Errorf("%w: score band %d has tier %q", ErrInvalidConfig, i, b.Tier)
		}
		if i == 0 {
			continue
		}
		prev := g.ScoreBands[i-1]
		if b.Min <= prev.Min || b.Tier.Rank() < prev.Tier.Rank() {
			return fmt.Errorf("%w: score band %d out of order", ErrInvalidConfig, i)
		}
	}
	signs := append([]Symptom{}, g.HACESigns...)
	signs = append(signs, g.RespiratorySigns...)
	signs = append(signs, g.HAPEClinical.Major...)
	signs = append(signs, g.HAPEClinical.Exertional...)
	signs = append(signs, g.HAPEClinical.Supporting...)
	for _, s := range signs {
		if !s.Valid() {
			return fmt.Errorf("%w: sign %q", ErrInvalidConfig, s)
		}
	}
	bands := g.SpO2.Bands
	if len(bands) == 0 || bands[len(bands)-1].UpTo != 0 {
		return fmt.Errorf("%w: spo2 bands must end with an open band", ErrInvalidConfig)
	}
	for i := 0; i < len(bands)-1; i++ {
		if bands[i].UpTo <= 0 {
			return fmt.Errorf("%w: only the last spo2 band may be open", ErrInvalidConfig)
		}
		if i > 0 && bands[i].UpTo <= bands[i-1].UpTo {
			return fmt.Errorf("%w: spo2 band %d out of order", ErrInvalidConfig, i)
		}
	}
	if g.Ascent.ThresholdAltitude < 0 || g.Ascent.MaxDailyGain <= 0 {
		return fmt.Errorf("%w: ascent threshold and max daily gain", ErrInvalidConfig)
	}
	if g.Ascent.RestDayInterval < 0 || g.Ascent.RestDayInterval == 1 {
		return fmt.Errorf("%w: rest day interval must be 0 or at least 2", ErrInvalidConfig)
	}
	if g.Risk.ModerateCutoff <= 0 || g.Risk.HighCutoff < g.Risk.ModerateCutoff {
		return fmt.Errorf("%w: risk cutoffs", ErrInvalidConfig)
	}
	for _, c := range g.Risk.HighRiskComorbidities {
		if !c.Valid() {
			return fmt.Errorf("%w: comorbidity %q", ErrInvalidConfig, c)
		}
	}
	return nil
}
