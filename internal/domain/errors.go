package domain

import "errors"

// Error taxonomy for the prediction pipeline. Environmental and historical
// source failures are recoverable (the engine substitutes fallback scores);
// classifier failures are fatal to the request.
var (
	// ErrInvalidCoordinate marks input validation failures. Rejected before
	// any source is queried.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrSourceUnavailable marks a recoverable environmental or historical
	// source failure.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrClassifierUnavailable marks a transport-level classifier failure.
	ErrClassifierUnavailable = errors.New("classifier unavailable")

	// ErrClassifierInvalidResponse marks a structurally invalid classifier
	// response (missing, non-numeric, or out-of-range probability).
	ErrClassifierInvalidResponse = errors.New("classifier returned invalid response")

	// ErrPredictionFailed wraps the fatal classifier errors surfaced to the
	// caller of Predict.
	ErrPredictionFailed = errors.New("prediction failed")

	// ErrWeightConfiguration marks weights that cannot be normalized.
	// Fatal at startup, never at request time.
	ErrWeightConfiguration = errors.New("invalid weight configuration")
)
