package utils

import (
	"github.com/go-playground/validator/v10"

	"booking-service/data"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Request DTOs carry their rules on gin's binding tags; reuse them so
	// non-HTTP callers of the booking service get identical validation.
	v.SetTagName("binding")
	return v
}

// ValidateCreateBookingRequest applies the structural rules (required
// fields, email format, minimum guest count). Date semantics and occupancy
// are the admission service's business.
func ValidateCreateBookingRequest(req *data.CreateBookingRequest) error {
	return validate.Struct(req)
}
