package farm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
)

var (
	// ErrUpstream matches every UpstreamError.
	ErrUpstream = errors.New("farm: upstream request failed")
	// ErrNoChoices is wrapped when the gateway answers without any choices.
	ErrNoChoices = errors.New("farm: response contained no choices")
	// ErrEmptyUserText is returned when a completion is requested for blank input.
	ErrEmptyUserText = errors.New("farm: user text cannot be empty")
	// ErrNoMessages is returned when a chat request carries no messages.
	ErrNoMessages = errors.New("farm: chat request has no messages")
)

// UpstreamError reports a failed exchange with the gateway: transport
// failure, timeout, an error status or an unusable response body.
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := "farm: upstream request failed"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is makes every UpstreamError match ErrUpstream.
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

func upstreamError(err error) *UpstreamError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error()
		}
		return &UpstreamError{StatusCode: apiErr.StatusCode, Message: msg, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &UpstreamError{Message: "request timed out", Err: err}
	}
	return &UpstreamError{Message: err.Error(), Err: err}
}
