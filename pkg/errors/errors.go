package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeConfiguration represents configuration errors, fatal before any network call
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeFetch represents per-source fetch errors
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeExtractionParse represents per-chunk extraction parse errors
	ErrorTypeExtractionParse ErrorType = "extraction_parse"
	// ErrorTypeNotification represents webhook delivery errors, fatal for the run
	ErrorTypeNotification ErrorType = "notification"
)

// PipelineError represents a pipeline-specific error
type PipelineError struct {
	Type    ErrorType
	Source  string
	Chunk   int
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	prefix := fmt.Sprintf("[%s]", e.Type)
	if e.Source != "" {
		prefix = fmt.Sprintf("%s %s", prefix, e.Source)
	}
	if e.Chunk > 0 {
		prefix = fmt.Sprintf("%s (chunk %d)", prefix, e.Chunk)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsFatal returns true if the error must abort the whole run.
// Fetch and extraction errors stay local to one source or one chunk.
func (e *PipelineError) IsFatal() bool {
	switch e.Type {
	case ErrorTypeConfiguration:
		return true
	case ErrorTypeNotification:
		return true
	default:
		return false
	}
}

// New creates a new PipelineError
func New(errType ErrorType, source, message string, err error) *PipelineError {
	return &PipelineError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *PipelineError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// NewFetch creates a new fetch error for a source
func NewFetch(source, message string, err error) *PipelineError {
	return New(ErrorTypeFetch, source, message, err)
}

// NewExtractionParse creates a new extraction parse error for a chunk
func NewExtractionParse(source string, chunk int, message string, err error) *PipelineError {
	e := New(ErrorTypeExtractionParse, source, message, err)
	e.Chunk = chunk
	return e
}

// NewNotification creates a new notification error
func NewNotification(message string, err error) *PipelineError {
	return New(ErrorTypeNotification, "", message, err)
}
