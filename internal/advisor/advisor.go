// Package advisor runs a full altitude assessment: score, diagnosis,
// pre-trip risk, ascent schedule and the recommendation blocks that go with
// them.
package advisor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Skufu/GoSummit/internal/assessment"
	"github.com/Skufu/GoSummit/internal/recommendation"
)

var ErrInvalidRequest = errors.New("invalid assessment request")

type Request struct {
	Trip     assessment.TripParameters
	History  assessment.MedicalHistory
	Symptoms assessment.SymptomSet
	SpO2     *float64
	// CurrentAltitude defaults to the trip start altitude.
	CurrentAltitude *float64
	Age             int
}

type Assessment struct {
	ID               string                     `json:"id"`
	GuidelineVersion string                     `json:"guidelineVersion"`
	Score            *assessment.ScoreResult    `json:"score,omitempty"`
	ScoreError       string                     `json:"scoreError,omitempty"`
	Diagnosis        assessment.Diagnosis       `json:"diagnosis"`
	Findings         []assessment.Diagnosis     `json:"findings,omitempty"`
	PreTripRisk      assessment.PreTripRisk     `json:"preTripRisk"`
	Schedule         []assessment.ScheduleEntry `json:"schedule"`
	ScheduleError    string                     `json:"scheduleError,omitempty"`
	MinimumDays      int                        `json:"minimumDays"`
	Treatment        []string                   `json:"treatment"`
	Prevention       []string                   `json:"prevention"`
}

type Advisor struct {
	logger *zap.Logger
	newID  func() string
}

func New(logger *zap.Logger) *Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Advisor{logger: logger, newID: uuid.NewString}
}

// Validate checks the request before any rule runs.
func Validate(req Request) error {
	if err := assessment.ValidateTrip(req.Trip); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err := assessment.ValidateSymptoms(req.Symptoms); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	for _, c := range req.History.Comorbidities {
		if !c.Valid() {
			return fmt.Errorf("%w: unknown comorbidity %q", ErrInvalidRequest, c)
		}
	}
	if req.SpO2 != nil && (*req.SpO2 <= 0 || *req.SpO2 > 100) {
		return fmt.Errorf("%w: spo2 must be within (0, 100]", ErrInvalidRequest)
	}
	if req.CurrentAltitude != nil && *req.CurrentAltitude < 0 {
		return fmt.Errorf("%w: current altitude must be non-negative", ErrInvalidRequest)
	}
	if req.Age < 0 {
		return fmt.Errorf("%w: age must be non-negative", ErrInvalidRequest)
	}
	return nil
}

// Evaluate runs every component against g. A missing gating symptom or an
// unreachable schedule is reported in the result rather than failing the
// evaluation; an unknown condition is a defect and is returned as an error.
func (a *Advisor) Evaluate(req Request, g assessment.Guideline) (Assessment, error) {
	if err := Validate(req); err != nil {
		return Assessment{}, err
	}

	out := Assessment{ID: a.newID(), GuidelineVersion: g.Version}
	log := a.logger.With(zap.String("assessment_id", out.ID), zap.String("guideline", g.Version))

	score, err := assessment.Score(req.Symptoms, g)
	var insufficient *assessment.InsufficientDataError
	switch {
	case errors.As(err, &insufficient):
		out.ScoreError = err.Error()
		score = assessment.ScoreResult{Tier: assessment.TierLow}
		log.Info("score not computed", zap.String("missing", string(insufficient.Missing)))
	case err != nil:
		return Assessment{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	default:
		out.Score = &score
	}

	altitude := req.Trip.StartAltitude
	if req.CurrentAltitude != nil {
		altitude = *req.CurrentAltitude
	}
	obs := assessment.Observation{
		Score:    score,
		Symptoms: req.Symptoms,
		SpO2:     req.SpO2,
		History:  req.History,
		Altitude: altitude,
		Age:      req.Age,
	}
	classifier := assessment.NewClassifier(g)
	out.Diagnosis = classifier.Classify(obs)

	// The diagnosis block comes first; other matched conditions follow.
	conditions := []assessment.Condition{out.Diagnosis.Condition}
	out.Findings = classifier.Findings(obs)
	for _, f := range out.Findings {
		conditions = append(conditions, f.Condition)
	}
	out.Treatment, err = recommendation.Treatments(score.Tier, conditions...)
	if err != nil {
		log.Error("recommendation lookup failed", zap.Error(err))
		return Assessment{}, err
	}

	out.PreTripRisk = assessment.AssessPreTripRisk(req.Trip, req.History, req.Age, g)
	out.Prevention = recommendation.Prevention(out.PreTripRisk.Tier, req.History)

	schedule, err := assessment.GenerateSchedule(req.Trip, g.Ascent)
	var unreachable *assessment.UnreachableTargetError
	switch {
	case errors.As(err, &unreachable):
		out.ScheduleError = err.Error()
		out.MinimumDays = unreachable.MinimumDays
		log.Info("planned days insufficient",
			zap.Int("days_planned", unreachable.DaysPlanned),
			zap.Int("minimum_days", unreachable.MinimumDays))
	case err != nil:
		return Assessment{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	default:
		out.MinimumDays = schedule[len(schedule)-1].Day
	}
	out.Schedule = schedule

	log.Debug("assessment complete",
		zap.String("condition", string(out.Diagnosis.Condition)),
		zap.String("urgency", string(out.Diagnosis.Urgency)),
		zap.String("pre_trip_risk", string(out.PreTripRisk.Tier)))
	return out, nil
}

// Schedule generates only the ascent schedule for a trip.
func (a *Advisor) Schedule(trip assessment.TripParameters, g assessment.Guideline) ([]assessment.ScheduleEntry, error) {
	return assessment.GenerateSchedule(trip, g.Ascent)
}
