package pbn

import "errors"

// Failures surfaced by the pipeline. Callers should test with errors.Is;
// returned errors wrap one of these with detail about the offending value.
var (
	// ErrInvalidInput reports an empty, zero-dimension or malformed image,
	// label map or option value. It is raised before any stage runs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidClusterCount reports K <= 0 or K greater than the number
	// of pixels in the working image.
	ErrInvalidClusterCount = errors.New("invalid cluster count")

	// ErrClusteringFailure reports that no clustering attempt produced K
	// distinct, non-empty clusters.
	ErrClusteringFailure = errors.New("clustering failure")
)
