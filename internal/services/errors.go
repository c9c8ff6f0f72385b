package services

import apperrors "upscdash/internal/errors"

// Dashboard service errors
var (
	// ErrDatasetNotLoaded is returned by every read before the first
	// successful load.
	ErrDatasetNotLoaded error = apperrors.NewUnavailableError("dataset not loaded", nil)

	// ErrInvalidPage is returned for a negative limit or offset.
	ErrInvalidPage error = apperrors.NewAppValidationError("invalid page")
)
