package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError carries field-level detail so the 400 envelope can tell
// the client which fields were rejected.
type ValidationError struct {
	fields []ErrorDetail
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) ToErrorDetails() []ErrorDetail {
	return e.fields
}

func ValidateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	details := make([]ErrorDetail, 0, len(validationErrs))
	for _, fe := range validationErrs {
		details = append(details, ErrorDetail{
			Field:   strings.ToLower(fe.Field()),
			Message: fmt.Sprintf("field %s failed on the '%s' rule", strings.ToLower(fe.Field()), fe.Tag()),
		})
	}

	return &ValidationError{fields: details}
}
