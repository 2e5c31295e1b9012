package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/session-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps the struct-tag validator with the service's custom rules.
type Validator struct {
	structValidator *validator.Validate
}

// New creates the centralized validator instance.
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)
	return &Validator{structValidator: structValidator}
}

// Validate validates struct tags on a request DTO.
func (v *Validator) Validate(s interface{}) error {
	return v.structValidator.Struct(s)
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("session_mode", validateSessionMode)

	// Report JSON field names in error messages.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	switch models.QuestionType(fl.Field().String()) {
	case models.MultipleChoice, models.TrueFalse, models.MultipleSelect,
		models.FillInBlank, models.Matching, models.ShortAnswer, models.Essay:
		return true
	}
	return false
}

func validateSessionMode(fl validator.FieldLevel) bool {
	switch models.SessionMode(fl.Field().String()) {
	case models.ModeStandard, models.ModeAdaptive:
		return true
	}
	return false
}
