package portal

import "errors"

// Sentinel errors reported to the presentation layer.
var (
	ErrLoadFailed   = errors.New("failed to load portal data")
	ErrSubmitFailed = errors.New("failed to submit")
	ErrNotLoaded    = errors.New("portal data not loaded")
)
