package importer

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported matches every *UnsupportedError.
	ErrUnsupported = errors.New("unsupported statement format")
	// ErrExtraction wraps failures to pull text out of a document.
	ErrExtraction = errors.New("extracting document text")
)

// UnsupportedError is returned when no parser claims an input. Preview
// holds the start of the decoded text for diagnostics.
type UnsupportedError struct {
	Name    string
	Preview string
}

func (e *UnsupportedError) Error() string {
	if e.Name == "" {
		return ErrUnsupported.Error()
	}
	return fmt.Sprintf("%s: %s", ErrUnsupported, e.Name)
}

func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}
