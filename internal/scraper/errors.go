package scraper

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("transport error")
	// ErrParse matches every *ParseError.
	ErrParse = errors.New("parse error")
)

// TransportError reports a failed GET: a network failure or a non-2xx status.
type TransportError struct {
	Kind       Kind
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code: %d", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ParseError reports a document that is not well-formed XML.
type ParseError struct {
	Kind Kind
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s XML: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
