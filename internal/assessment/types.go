// Package assessment holds the altitude illness rules engine: Lake Louise
// scoring, the ordered diagnosis rule table, pre-trip risk and the ascent
// schedule generator. Every function is pure over its inputs and a Guideline.
package assessment

import "sort"

type Symptom string

const (
	SymptomHeadache         Symptom = "headache"
	SymptomGastrointestinal Symptom = "gastrointestinal"
	SymptomFatigue          Symptom = "fatigue"
	SymptomDizziness        Symptom = "dizziness"
	SymptomAtaxia           Symptom = "ataxia"
	SymptomConfusion        Symptom = "confusion"
	SymptomSevereLassitude  Symptom = "severe_lassitude"
	SymptomDyspneaRest      Symptom = "dyspnea_rest"
	SymptomDyspneaExertion  Symptom = "dyspnea_exertion"
	SymptomCough            Symptom = "cough"
	SymptomChestTightness   Symptom = "chest_tightness"
	SymptomCyanosis         Symptom = "cyanosis"
)

var knownSymptoms = map[Symptom]bool{
	SymptomHeadache:         true,
	SymptomGastrointestinal: true,
	SymptomFatigue:          true,
	SymptomDizziness:        true,
	SymptomAtaxia:           true,
	SymptomConfusion:        true,
	SymptomSevereLassitude:  true,
	SymptomDyspneaRest:      true,
	SymptomDyspneaExertion:  true,
	SymptomCough:            true,
	SymptomChestTightness:   true,
	SymptomCyanosis:         true,
}

// Valid reports whether s is one of the enumerated symptom tags.
func (s Symptom) Valid() bool { return knownSymptoms[s] }

// "nausea" is accepted as an alias for the gastrointestinal item.
func ParseSymptom(raw string) (Symptom, bool) {
	if raw == "nausea" {
		return SymptomGastrointestinal, true
	}
	s := Symptom(raw)
	return s, s.Valid()
}

const (
	MinWeight = 0
	MaxWeight = 3
)

// SymptomSet maps a symptom to its severity weight (0 none, 1 mild,
// 2 moderate, 3 severe). A symptom is present when its weight is at least 1.
type SymptomSet map[Symptom]int

func (s SymptomSet) Has(sym Symptom) bool { return s[sym] >= 1 }

// HasAny reports whether any of syms is present.
func (s SymptomSet) HasAny(syms []Symptom) bool {
	for _, sym := range syms {
		if s.Has(sym) {
			return true
		}
	}
	return false
}

// Present returns the present symptoms in a stable order.
func (s SymptomSet) Present() []Symptom {
	out := make([]Symptom, 0, len(s))
	for sym, w := range s {
		if w >= 1 {
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Tier is the qualitative risk bucket. Tiers are ordered Low < Moderate <
// High < Severe.
type Tier string

const (
	TierLow      Tier = "low"
	TierModerate Tier = "moderate"
	TierHigh     Tier = "high"
	TierSevere   Tier = "severe"
)

var tierRank = map[Tier]int{
	TierLow:      0,
	TierModerate: 1,
	TierHigh:     2,
	TierSevere:   3,
}

// Rank returns the ordinal of t, or -1 for an unknown tier.
func (t Tier) Rank() int {
	r, ok := tierRank[t]
	if !ok {
		return -1
	}
	return r
}

func (t Tier) Valid() bool { return t.Rank() >= 0 }

// AtLeast reports whether t is the same as or above other.
func (t Tier) AtLeast(other Tier) bool { return t.Rank() >= other.Rank() }

type Condition string

const (
	ConditionNone Condition = "none"
	ConditionAMS  Condition = "ams"
	ConditionHACE Condition = "hace"
	ConditionHAPE Condition = "hape"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionNone, ConditionAMS, ConditionHACE, ConditionHAPE:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyRoutine   Urgency = "routine"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

type Comorbidity string

const (
	ComorbidityHeartDisease  Comorbidity = "heart_disease"
	ComorbidityLungDisease   Comorbidity = "lung_disease"
	ComorbidityPregnancy     Comorbidity = "pregnancy"
	ComorbidityRecentCOVID19 Comorbidity = "recent_covid19"
	ComorbiditySleepApnea    Comorbidity = "sleep_apnea"
	ComorbiditySickleCell    Comorbidity = "sickle_cell"
)

func (c Comorbidity) Valid() bool {
	switch c {
	case ComorbidityHeartDisease, ComorbidityLungDisease, ComorbidityPregnancy,
		ComorbidityRecentCOVID19, ComorbiditySleepApnea, ComorbiditySickleCell:
		return true
	}
	return false
}

type TripParameters struct {
	StartAltitude    float64 `json:"startAltitude"`
	TargetAltitude   float64 `json:"targetAltitude"`
	AscentRatePerDay float64 `json:"ascentRatePerDay"`
	// DaysPlanned of 0 means the caller accepts whatever the schedule needs.
	DaysPlanned int `json:"daysPlanned"`
}

type MedicalHistory struct {
	PriorAMS      bool          `json:"priorAMS"`
	PriorHACE     bool          `json:"priorHACE"`
	PriorHAPE     bool          `json:"priorHAPE"`
	Comorbidities []Comorbidity `json:"comorbidities,omitempty"`
}

// HasComorbidity reports whether any of the given conditions is listed.
func (h MedicalHistory) HasComorbidity(set []Comorbidity) bool {
	for _, c := range h.Comorbidities {
		for _, want := range set {
			if c == want {
				return true
			}
		}
	}
	return false
}

type ScoreResult struct {
	TotalScore int  `json:"totalScore"`
	Tier       Tier `json:"tier"`
}

type Diagnosis struct {
	Condition Condition `json:"condition"`
	Urgency   Urgency   `json:"urgency"`
	// Rule names the classifier rule that produced this diagnosis.
	Rule string `json:"rule"`
}

type ScheduleEntry struct {
	Day       int     `json:"day"`
	Altitude  float64 `json:"altitude"`
	IsRestDay bool    `json:"isRestDay"`
}

// Observation is everything the classifier looks at for one person.
type Observation struct {
	Score    ScoreResult
	Symptoms SymptomSet
	// SpO2 is a percentage; nil when no reading was taken.
	SpO2     *float64
	History  MedicalHistory
	Altitude float64
	Age      int
}
