package adkmodel

import "errors"

var (
	// ErrClientRequired is returned when no Farm client is provided.
	ErrClientRequired = errors.New("adkmodel: farm client is required")
	// ErrRequestNil is returned when the provided request is nil.
	ErrRequestNil = errors.New("adkmodel: request is nil")
	// ErrNoContents is returned when the request has no text to send.
	ErrNoContents = errors.New("adkmodel: LLM request has no contents to convert")
	// ErrToolsNotSupported is returned for function calls, responses or tool declarations.
	ErrToolsNotSupported = errors.New("adkmodel: tools are not supported by the farm adapter")
	// ErrUnsupportedPart is returned for non-text content parts.
	ErrUnsupportedPart = errors.New("adkmodel: unsupported content part")
)
