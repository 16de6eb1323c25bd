package image

import "errors"

// Sentinel errors related to image reference handling.
var (
	// ErrMissingImageReference is returned when a component carries no docker image
	// artifact, the artifact has no name, or the name yields no identifier.
	ErrMissingImageReference = errors.New("missing image reference")
	// ErrInvalidImageURI is returned when the derived file URI cannot be parsed as a URI.
	ErrInvalidImageURI = errors.New("invalid image URI")
)
