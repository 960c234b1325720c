package profile

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidDivision = errors.New("division is not offered")
	ErrInvalidBatch    = errors.New("batch does not belong to the division")
)
