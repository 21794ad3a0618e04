package dynamo

import "errors"

// Domain errors for scene generation.
var (
	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrNoFrames indicates a run whose total frame count is zero, which
	// would make the camera orbit angle undefined.
	ErrNoFrames = errors.New("dynamo: total frame count must be positive")

	// ErrContextCanceled indicates the run was interrupted between frames.
	ErrContextCanceled = errors.New("dynamo: generation canceled by context")

	// ErrOutput indicates the output boundary could not persist a frame.
	ErrOutput = errors.New("dynamo: frame output failed")
)

// FieldError reports one invalid configuration field.
type FieldError struct {
	Field   string
	Value   any
	Message string
}

func (e *FieldError) Error() string {
	return "invalid " + e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidConfig
}
