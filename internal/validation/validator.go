package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"learnflow/internal/domain"
	"learnflow/internal/util"

	"github.com/go-playground/validator/v10"
)

var catalogIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Validator checks request bodies and path parameters.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json names so errors match what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// ValidateStruct runs the validate tags of s.
func (v *Validator) ValidateStruct(s interface{}) domain.ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.ValidationErrors{{
			Field:   "body",
			Code:    domain.CodeValidation,
			Message: err.Error(),
		}}
	}

	var errs domain.ValidationErrors
	for _, fe := range fieldErrs {
		errs = append(errs, toValidationError(fe))
	}
	return errs
}

func toValidationError(fe validator.FieldError) domain.ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return domain.NewMissingFieldError(field)
	case "oneof":
		e := domain.NewInvalidFormatError(field, fe.Value())
		e.Message = fmt.Sprintf("field must be one of [%s]", fe.Param())
		return e
	case "gte", "min":
		return domain.ValidationError{Field: field, Code: domain.CodeOutOfRange, Message: "field must be at least " + fe.Param(), Value: deref(fe.Value())}
	case "lte", "max":
		return domain.ValidationError{Field: field, Code: domain.CodeOutOfRange, Message: "field must be at most " + fe.Param(), Value: deref(fe.Value())}
	default:
		return domain.NewInvalidFormatError(field, fe.Value())
	}
}

func deref(v interface{}) interface{} {
	if p, ok := v.(*float64); ok && p != nil {
		return *p
	}
	return v
}

// ValidateCatalogID checks a quiz, course or lesson id from the path.
func (v *Validator) ValidateCatalogID(field, id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if !catalogIDPattern.MatchString(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, id)}
	}
	return nil
}

// ValidateULID checks a session or playback id.
func (v *Validator) ValidateULID(field, id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if !util.IsULID(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, id)}
	}
	return nil
}
