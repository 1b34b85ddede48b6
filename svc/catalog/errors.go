package catalog

import "errors"

var (
	// ErrInvalidMedicine is returned before any call when a medicine fails validation.
	ErrInvalidMedicine = errors.New("catalog.invalid_medicine")

	// ErrMissingID is returned when an update or delete names no medicine.
	ErrMissingID = errors.New("catalog.missing_id")
)
