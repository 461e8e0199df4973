// Package services defines the business logic for reviews, service-request
// orders and the internal dashboard. This file centralizes service-level
// error values so handlers can map them to HTTP results consistently.
//
// Validation errors carry the user-facing message shown next to the form.
package services

import "errors"

// Review errors, in the order Submit checks them.
var (
	// ErrServiceRequired is returned when the service name is blank.
	ErrServiceRequired = errors.New("Informe o serviço")

	// ErrRatingRequired is returned when the rating is outside 1..5.
	ErrRatingRequired = errors.New("Selecione uma avaliação")

	// ErrMessageRequired is returned when the review body is blank.
	ErrMessageRequired = errors.New("Escreva sua crítica")

	// ErrSignInRequired is returned when no user is signed in.
	ErrSignInRequired = errors.New("Faça login para enviar")
)

// Order intake errors.
var (
	ErrNameRequired        = errors.New("Informe seu nome")
	ErrInvalidEmail        = errors.New("Informe um e-mail válido")
	ErrInvalidCategory     = errors.New("Selecione uma categoria")
	ErrDescriptionRequired = errors.New("Descreva seu projeto")
	ErrInvalidBudget       = errors.New("Orçamento inválido")
	ErrInvalidContact      = errors.New("Forma de contato inválida")
)

// ErrOrderNotFound indicates that the requested order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// ErrEmptyDocument is returned when an imported order has no fields.
var ErrEmptyDocument = errors.New("order document is empty")

// ErrInvalidDocument is returned when an imported order cannot be encoded
// as JSON (NaN or infinite numbers, unsupported value types).
var ErrInvalidDocument = errors.New("order document is not valid JSON")

var validationErrs = []error{
	ErrServiceRequired, ErrRatingRequired, ErrMessageRequired,
	ErrNameRequired, ErrInvalidEmail, ErrInvalidCategory,
	ErrDescriptionRequired, ErrInvalidBudget, ErrInvalidContact,
}

// IsValidation reports whether err is a form validation failure. Its message
// is safe to show next to the form. ErrSignInRequired is not one.
func IsValidation(err error) bool {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
