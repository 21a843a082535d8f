// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import "github.com/go-playground/validator/v10"

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance with domain rules registered.
func New() *Validator {
	v := validator.New()

	// area_category matches the installation area categories accepted on
	// quote requests.
	_ = v.RegisterValidation("area_category", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "residenziale", "commerciale", "industriale", "utility":
			return true
		}
		return false
	})

	// quote_status matches the quote lifecycle states.
	_ = v.RegisterValidation("quote_status", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "draft", "confirmed", "sent", "accepted":
			return true
		}
		return false
	})

	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}
