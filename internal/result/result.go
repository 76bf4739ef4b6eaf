// Package result maps transport envelopes onto success/failure outcomes.
package result

import (
	"fmt"

	"github.com/five82/wanreader/internal/wan"
)

// Unit is the payload of outcomes that carry no value.
type Unit = struct{}

// TransportFault reports that the call never produced a usable envelope:
// network failure, timeout, bad HTTP status or undecodable body.
type TransportFault struct {
	Err error
}

func (f *TransportFault) Error() string {
	if f == nil || f.Err == nil {
		return "transport fault"
	}
	return f.Err.Error()
}

func (f *TransportFault) Unwrap() error { return f.Err }

// ApplicationError is a well-formed envelope with a non-zero errorCode.
// Message is the server text, passed through verbatim.
type ApplicationError struct {
	Code    int
	Message string
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with code %d", e.Code)
	}
	return e.Message
}

// emptyResponse is the message for a successful envelope that is missing
// the payload the call asked for.
const emptyResponse = "empty response"

// Outcome is the single result of one operation attempt. It holds either a
// value or an error, never both, and is immutable once built.
type Outcome[T any] struct {
	value T
	err   error
}

// Success builds a successful outcome.
func Success[T any](value T) Outcome[T] {
	return Outcome[T]{value: value}
}

// Failure builds a failed outcome. A nil err is replaced so the outcome still
// reads as failed.
func Failure[T any](err error) Outcome[T] {
	if err == nil {
		err = &TransportFault{}
	}
	return Outcome[T]{err: err}
}

// OK reports whether the outcome is a success.
func (o Outcome[T]) OK() bool { return o.err == nil }

// Value returns the payload and whether it is valid.
func (o Outcome[T]) Value() (T, bool) { return o.value, o.err == nil }

// Err returns the failure, or nil on success.
func (o Outcome[T]) Err() error { return o.err }

// Message returns the human-readable failure text, or "" on success.
func (o Outcome[T]) Message() string {
	if o.err == nil {
		return ""
	}
	return o.err.Error()
}

// Then transforms a successful value, passing failures through.
func Then[T, U any](o Outcome[T], fn func(T) U) Outcome[U] {
	if o.err != nil {
		return Outcome[U]{err: o.err}
	}
	return Success(fn(o.value))
}

// FromEnvelope maps a payload-bearing call. A zero errorCode without data is
// a failure: the payload is what the caller asked for.
func FromEnvelope[T any](env wan.Envelope[T], err error) Outcome[T] {
	if err != nil {
		return Failure[T](&TransportFault{Err: err})
	}
	if !env.OK() {
		return Failure[T](&ApplicationError{Code: env.ErrorCode, Message: env.ErrorMsg})
	}
	if env.Data == nil {
		msg := env.ErrorMsg
		if msg == "" {
			msg = emptyResponse
		}
		return Failure[T](&ApplicationError{Message: msg})
	}
	return Success(*env.Data)
}

// FromAck maps a call whose payload is ignored.
func FromAck[T any](env wan.Envelope[T], err error) Outcome[Unit] {
	if err != nil {
		return Failure[Unit](&TransportFault{Err: err})
	}
	if env.OK() {
		return Success(Unit{})
	}
	return Failure[Unit](&ApplicationError{Code: env.ErrorCode, Message: env.ErrorMsg})
}
