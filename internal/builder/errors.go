package builder

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyMessage    = errors.New("message is empty")
	ErrNoImages        = errors.New("no images uploaded")
	ErrTooManyImages   = errors.New("too many images")
	ErrNotAnImage      = errors.New("file is not an image")
	ErrPublishDisabled = errors.New("publishing is not configured")
	ErrUnknownSiteFile = errors.New("unknown site file")
)

// AnalysisError reports that the vision model could not describe an image.
type AnalysisError struct {
	File string
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("image analysis failed for %s: %v", e.File, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
