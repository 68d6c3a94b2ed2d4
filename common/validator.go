package common

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the validation tags declared on a request struct.
func ValidateStruct(payload interface{}) error {
	if err := validate.Struct(payload); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return validationErrors
		}
		return err
	}
	return nil
}
