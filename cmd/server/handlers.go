package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/GoSummit/internal/advisor"
	"github.com/Skufu/GoSummit/internal/assessment"
	"github.com/Skufu/GoSummit/internal/guideline"
	"github.com/Skufu/GoSummit/internal/itinerary"
	"github.com/Skufu/GoSummit/internal/recommendation"
)

type tripPayload struct {
	StartAltitude    float64 `json:"startAltitude" binding:"gte=0,lte=9000"`
	TargetAltitude   float64 `json:"targetAltitude" binding:"gte=0,lte=9000,gtefield=StartAltitude"`
	AscentRatePerDay float64 `json:"ascentRatePerDay" binding:"gt=0,lte=3000"`
	DaysPlanned      int     `json:"daysPlanned" binding:"gte=0,lte=365"`
}

type historyPayload struct {
	PriorAMS      bool     `json:"priorAMS"`
	PriorHACE     bool     `json:"priorHACE"`
	PriorHAPE     bool     `json:"priorHAPE"`
	Comorbidities []string `json:"comorbidities" binding:"omitempty,dive,comorbidity"`
}

type assessmentPayload struct {
	GuidelineVersion string         `json:"guidelineVersion"`
	Trip             tripPayload    `json:"trip"`
	History          historyPayload `json:"history"`
	Symptoms         map[string]int `json:"symptoms" binding:"omitempty,dive,keys,symptom,endkeys,gte=0,lte=3"`
	SpO2             *float64       `json:"spo2" binding:"omitempty,gt=0,lte=100"`
	CurrentAltitude  *float64       `json:"currentAltitude" binding:"omitempty,gte=0,lte=9000"`
	Age              int            `json:"age" binding:"gte=0,lte=120"`
	// Title is only used for itineraries.
	Title string `json:"title" binding:"max=120"`
}

type schedulePayload struct {
	GuidelineVersion string      `json:"guidelineVersion"`
	Trip             tripPayload `json:"trip"`
}

type scheduleResponse struct {
	GuidelineVersion string                     `json:"guidelineVersion"`
	Schedule         []assessment.ScheduleEntry `json:"schedule"`
	MinimumDays      int                        `json:"minimumDays"`
	Error            string                     `json:"error,omitempty"`
	Message          string                     `json:"message,omitempty"`
}

func (p tripPayload) toTrip() assessment.TripParameters {
	return assessment.TripParameters{
		StartAltitude:    p.StartAltitude,
		TargetAltitude:   p.TargetAltitude,
		AscentRatePerDay: p.AscentRatePerDay,
		DaysPlanned:      p.DaysPlanned,
	}
}

func (p assessmentPayload) toRequest() advisor.Request {
	symptoms := make(assessment.SymptomSet, len(p.Symptoms))
	for raw, w := range p.Symptoms {
		sym, ok := assessment.ParseSymptom(raw)
		if !ok {
			sym = assessment.Symptom(raw)
		}
		// "nausea" and "gastrointestinal" name the same item; keep the worse.
		if prev, seen := symptoms[sym]; !seen || w > prev {
			symptoms[sym] = w
		}
	}

	comorbidities := make([]assessment.Comorbidity, 0, len(p.History.Comorbidities))
	for _, c := range p.History.Comorbidities {
		comorbidities = append(comorbidities, assessment.Comorbidity(c))
	}

	return advisor.Request{
		Trip: p.Trip.toTrip(),
		History: assessment.MedicalHistory{
			PriorAMS:      p.History.PriorAMS,
			PriorHACE:     p.History.PriorHACE,
			PriorHAPE:     p.History.PriorHAPE,
			Comorbidities: comorbidities,
		},
		Symptoms:        symptoms,
		SpO2:            p.SpO2,
		CurrentAltitude: p.CurrentAltitude,
		Age:             p.Age,
	}
}

type handler struct {
	advisor        *advisor.Advisor
	guidelines     guideline.Source
	defaultVersion string
	logger         *zap.Logger
}

// resolveGuideline writes the error response itself and returns false when
// the guideline cannot be used.
func (h *handler) resolveGuideline(c *gin.Context, version string) (assessment.Guideline, bool) {
	if version == "" {
		version = h.defaultVersion
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	g, err := h.guidelines.Get(ctx, version)
	if err == nil {
		return g, true
	}
	if errors.Is(err, guideline.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: codeNotFound, Message: err.Error()})
		return assessment.Guideline{}, false
	}
	h.logger.Error("guideline lookup failed", zap.String("version", version), zap.Error(err))
	c.JSON(http.StatusInternalServerError, errorResponse{Error: codeInternal, Message: "guideline unavailable"})
	return assessment.Guideline{}, false
}

func (h *handler) evaluate(c *gin.Context) (advisor.Assessment, assessmentPayload, bool) {
	var payload assessmentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return advisor.Assessment{}, payload, false
	}

	g, ok := h.resolveGuideline(c, payload.GuidelineVersion)
	if !ok {
		return advisor.Assessment{}, payload, false
	}

	result, err := h.advisor.Evaluate(payload.toRequest(), g)
	switch {
	case err == nil:
		return result, payload, true
	case errors.Is(err, advisor.ErrInvalidRequest):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: codeValidationFailed, Message: err.Error()})
	default:
		h.logger.Error("assessment failed",
			zap.String("request_id", c.GetString(requestIDHeader)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: codeInternal, Message: "assessment failed"})
	}
	return advisor.Assessment{}, payload, false
}

func (h *handler) createAssessment(c *gin.Context) {
	result, _, ok := h.evaluate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handler) createSchedule(c *gin.Context) {
	var payload schedulePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	g, ok := h.resolveGuideline(c, payload.GuidelineVersion)
	if !ok {
		return
	}

	schedule, err := h.advisor.Schedule(payload.Trip.toTrip(), g)
	resp := scheduleResponse{GuidelineVersion: g.Version, Schedule: schedule}

	var unreachable *assessment.UnreachableTargetError
	switch {
	case err == nil:
		resp.MinimumDays = schedule[len(schedule)-1].Day
		c.JSON(http.StatusOK, resp)
	case errors.As(err, &unreachable):
		resp.MinimumDays = unreachable.MinimumDays
		resp.Error = codeTargetUnreachable
		resp.Message = err.Error()
		c.JSON(http.StatusUnprocessableEntity, resp)
	default:
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: codeValidationFailed, Message: err.Error()})
	}
}

func (h *handler) createItinerary(c *gin.Context) {
	format, err := itinerary.ParseFormat(c.DefaultQuery("format", string(itinerary.FormatText)))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: codeInvalidPayload, Message: err.Error()})
		return
	}

	result, payload, ok := h.evaluate(c)
	if !ok {
		return
	}
	if result.ScheduleError != "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       codeTargetUnreachable,
			"message":     result.ScheduleError,
			"minimumDays": result.MinimumDays,
		})
		return
	}

	ids := append([]string{}, result.Prevention...)
	if result.Diagnosis.Condition != assessment.ConditionNone {
		ids = append(ids, result.Treatment...)
	}
	blocks, err := recommendation.Resolve(ids)
	if err != nil {
		h.logger.Error("recommendation blocks missing", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: codeInternal, Message: "itinerary unavailable"})
		return
	}

	title := payload.Title
	if title == "" {
		title = fmt.Sprintf("Ascent itinerary %.0fm to %.0fm", payload.Trip.StartAltitude, payload.Trip.TargetAltitude)
	}

	var buf bytes.Buffer
	err = itinerary.Render(&buf, itinerary.Itinerary{
		Title:            title,
		GuidelineVersion: result.GuidelineVersion,
		Schedule:         result.Schedule,
		Blocks:           blocks,
	}, format)
	if err != nil {
		h.logger.Error("itinerary render failed", zap.String("format", string(format)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: codeInternal, Message: "itinerary unavailable"})
		return
	}

	filename := fmt.Sprintf("itinerary-%s.%s", result.ID, format.Extension())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (h *handler) getRecommendation(c *gin.Context) {
	block, err := recommendation.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: codeNotFound, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, block)
}

func (h *handler) getGuideline(c *gin.Context) {
	g, ok := h.resolveGuideline(c, c.Param("version"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, g)
}
