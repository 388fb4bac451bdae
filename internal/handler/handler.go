package handler

import (
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the JSON body returned on request failures
type ErrorResponse struct {
	Error string `json:"error"`
}

// CustomValidator adapts go-playground/validator to Echo's Validator
// interface
type CustomValidator struct {
	validator *validator.Validate
}

// NewCustomValidator creates the request validator
func NewCustomValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate validates a bound request struct
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
