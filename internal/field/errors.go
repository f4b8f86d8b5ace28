package field

import "errors"

// Validation errors for sampling operations.
var (
	// ErrInvalidDomain indicates min >= max (or a non-finite bound) on an axis.
	ErrInvalidDomain = errors.New("field: invalid domain (min must be below max on both axes)")

	// ErrGridTooSmall indicates fewer than two samples along an axis.
	ErrGridTooSmall = errors.New("field: grid needs at least 2 samples per axis")

	// ErrNilFunc indicates a missing scalar function.
	ErrNilFunc = errors.New("field: nil scalar function")

	// ErrNoPoints indicates an empty data set for the MSE surface.
	ErrNoPoints = errors.New("field: no data points")

	// ErrValueCount indicates explicit grid values that do not match nx*ny.
	ErrValueCount = errors.New("field: value count does not match grid dimensions")
)
