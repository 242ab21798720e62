package main

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Skufu/GoSummit/internal/assessment"
)

var (
	validatorsOnce sync.Once
	// validatorSetups counts registrations on gin's shared validator.
	validatorSetups int
)

// registerValidators adds the domain tags used in request payloads to gin's
// process-wide validator. Only the first call has an effect.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("symptom", func(fl validator.FieldLevel) bool {
			_, ok := assessment.ParseSymptom(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("comorbidity", func(fl validator.FieldLevel) bool {
			return assessment.Comorbidity(fl.Field().String()).Valid()
		})
		validatorSetups++
	})
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

type errorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Details []fieldError `json:"details,omitempty"`
}

const (
	codeInvalidPayload    = "invalid_payload"
	codeValidationFailed  = "validation_failed"
	codeTargetUnreachable = "target_unreachable"
	codeNotFound          = "not_found"
	codeInternal          = "internal_error"
)

// respondBindError writes 422 for validator failures and 400 for payloads
// that could not be decoded at all.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: codeInvalidPayload, Message: "invalid payload"})
		return
	}

	details := make([]fieldError, 0, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := jsonPath(fe.Namespace())
		details = append(details, fieldError{Field: name, Rule: fe.Tag(), Param: fe.Param()})
		msgs = append(msgs, fmt.Sprintf("%s failed %s", name, fe.Tag()))
	}
	c.JSON(http.StatusUnprocessableEntity, errorResponse{
		Error:   codeValidationFailed,
		Message: strings.Join(msgs, "; "),
		Details: details,
	})
}

// jsonPath drops the payload type from a namespace such as
// "assessmentPayload.trip.targetAltitude".
func jsonPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
