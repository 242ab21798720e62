// Package recommendation holds the static prevention and treatment text
// blocks and the table that selects them for a diagnosis or risk tier.
package recommendation

type Kind string

const (
	KindPrevention Kind = "prevention"
	KindTreatment  Kind = "treatment"
)

type Medication struct {
	Name     string `json:"name"`
	Dose     string `json:"dose"`
	Schedule string `json:"schedule"`
	Note     string `json:"note,omitempty"`
}

type Block struct {
	ID          string       `json:"id"`
	Kind        Kind         `json:"kind"`
	Title       string       `json:"title"`
	Lines       []string     `json:"lines"`
	Medications []Medication `json:"medications,omitempty"`
}

const (
	PreventionGradualAscent = "prevention.gradual_ascent"
	PreventionMedication    = "prevention.medication"
	PreventionHAPE          = "prevention.hape_susceptible"
	PreventionGeneral       = "prevention.general"

	TreatmentNone              = "treatment.none"
	TreatmentAMSMild           = "treatment.ams.mild"
	TreatmentAMSModerateSevere = "treatment.ams.moderate_severe"
	TreatmentHACE              = "treatment.hace"
	TreatmentHAPE              = "treatment.hape"
)

var catalog = map[string]Block{
	PreventionGradualAscent: {
		ID:    PreventionGradualAscent,
		Kind:  KindPrevention,
		Title: "Gradual ascent",
		Lines: []string{
			"Above 3000 m, sleep no more than 500 m higher than the previous night.",
			"Take a rest day every 3-4 days.",
			"Spend a night at intermediate altitude (1500-2000 m) before going higher.",
		},
	},
	PreventionMedication: {
		ID:    PreventionMedication,
		Kind:  KindPrevention,
		Title: "Pharmacological prevention",
		Lines: []string{
			"Acetazolamide is the preferred agent.",
			"Dexamethasone only if acetazolamide is contraindicated; not for children.",
			"Ibuprofen is less effective and reserved for acetazolamide allergy.",
		},
		Medications: []Medication{
			{Name: "Acetazolamide", Dose: "125 mg", Schedule: "every 12 hours, from the night before ascent until 2 days at the highest altitude", Note: "250 mg every 12 hours in high-risk situations"},
			{Name: "Dexamethasone", Dose: "2 mg", Schedule: "every 6 hours, or 4 mg every 12 hours"},
			{Name: "Ibuprofen", Dose: "600 mg", Schedule: "every 8 hours"},
		},
	},
	PreventionHAPE: {
		ID:    PreventionHAPE,
		Kind:  KindPrevention,
		Title: "HAPE prevention for susceptible travellers",
		Lines: []string{
			"Start the day before ascent and continue for 4 days at the highest altitude.",
			"Monitor for hypotension.",
		},
		Medications: []Medication{
			{Name: "Nifedipine ER", Dose: "30 mg", Schedule: "every 12 hours"},
			{Name: "Tadalafil", Dose: "10 mg", Schedule: "every 12 hours", Note: "if nifedipine is not available"},
		},
	},
	PreventionGeneral: {
		ID:    PreventionGeneral,
		Kind:  KindPrevention,
		Title: "General recommendations",
		Lines: []string{
			"Stay hydrated but avoid overhydration.",
			"Avoid alcohol and sedatives.",
			"Eat a high-carbohydrate diet.",
			"Avoid strenuous exercise on the first day.",
			"Know the symptoms of altitude illness and report them early.",
		},
	},
	TreatmentNone: {
		ID:    TreatmentNone,
		Kind:  KindTreatment,
		Title: "No current altitude illness",
		Lines: []string{
			"Continue monitoring for symptoms.",
			"Follow the prevention guidance and ascend gradually.",
		},
	},
	TreatmentAMSMild: {
		ID:    TreatmentAMSMild,
		Kind:  KindTreatment,
		Title: "Mild AMS",
		Lines: []string{
			"Stop ascending and rest at the current altitude for 1-3 days.",
			"Treat headache and nausea symptomatically.",
			"Descend if symptoms worsen or do not improve within 24-48 hours.",
		},
		Medications: []Medication{
			{Name: "Ibuprofen", Dose: "600 mg", Schedule: "every 8 hours", Note: "or acetaminophen 1000 mg every 8 hours"},
			{Name: "Acetazolamide", Dose: "250 mg", Schedule: "every 12 hours"},
		},
	},
	TreatmentAMSModerateSevere: {
		ID:    TreatmentAMSModerateSevere,
		Kind:  KindTreatment,
		Title: "Moderate to severe AMS",
		Lines: []string{
			"Descend at least 300-1000 m or until symptoms resolve. Do not ascend further.",
			"Give supplemental oxygen if available, target SpO2 above 90%.",
			"Do not descend alone; seek medical attention and watch for ataxia or confusion.",
		},
		Medications: []Medication{
			{Name: "Dexamethasone", Dose: "4 mg", Schedule: "every 6 hours"},
			{Name: "Acetazolamide", Dose: "250 mg", Schedule: "every 12 hours"},
		},
	},
	TreatmentHACE: {
		ID:    TreatmentHACE,
		Kind:  KindTreatment,
		Title: "Medical emergency: HACE",
		Lines: []string{
			"Descend immediately and call for evacuation.",
			"Give supplemental oxygen, target SpO2 above 90%.",
			"Use a portable hyperbaric chamber if descent is delayed.",
			"No oral medication if mental status is altered.",
		},
		Medications: []Medication{
			{Name: "Dexamethasone", Dose: "8 mg", Schedule: "once, then 4 mg every 6 hours"},
		},
	},
	TreatmentHAPE: {
		ID:    TreatmentHAPE,
		Kind:  KindTreatment,
		Title: "Medical emergency: HAPE",
		Lines: []string{
			"Descend at least 300-1000 m, minimising exertion.",
			"Give supplemental oxygen, target SpO2 above 90%.",
			"Keep the patient warm and evacuate to a medical facility.",
		},
		Medications: []Medication{
			{Name: "Nifedipine ER", Dose: "30 mg", Schedule: "every 12 hours", Note: "only if descent is delayed or impossible"},
		},
	},
}
