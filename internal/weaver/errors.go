package weaver

import "fmt"

// WeavingError wraps a recoverable failure encountered while installing
// one link into the merged schema. It is
// reported through a WeavingErrorReporter rather than aborting the rest
// of the weave.
type WeavingError struct {
	Endpoint string
	Path     string
	Err      error
}

func (e *WeavingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("weaver: %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("weaver: %s: %s: %v", e.Endpoint, e.Path, e.Err)
}

func (e *WeavingError) Unwrap() error { return e.Err }
