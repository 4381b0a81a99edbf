package client

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/itiky/notes-sync/model"
)

// FormValidationMessage is shown to the user when the form is incomplete.
const FormValidationMessage = "please enter a name and description"

var formValidator = validator.New()

// ValidationError is returned when the note form is incomplete.
type ValidationError struct {
	// Invalid form fields
	Fields  []model.FormField
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		fields = append(fields, string(field))
	}

	return e.Message + " (" + strings.Join(fields, ", ") + ")"
}

// validateForm checks all the form fields are set.
func validateForm(form model.Form) error {
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	vErr := &ValidationError{Message: FormValidationMessage}
	for _, fieldErr := range fieldErrs {
		switch fieldErr.StructField() {
		case "Name":
			vErr.Fields = append(vErr.Fields, model.FormFieldName)
		case "Description":
			vErr.Fields = append(vErr.Fields, model.FormFieldDescription)
		}
	}

	return vErr
}
