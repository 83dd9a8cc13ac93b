// Package outcome models what a request handler produced: either a
// Confirmation shown to the user on success, or a Failure with a kind
// that maps onto an HTTP status. Both render through the same page
// template, but they are distinct types so a confirmation can never be
// mistaken for a fault.
package outcome

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a request outcome.
type Kind int

const (
	// Success is only ever carried by a Confirmation.
	Success Kind = iota
	// ServerError covers I/O and other internal failures.
	ServerError
	// UserError covers malformed or invalid client input.
	UserError
	// NotFound covers missing routes and assets.
	NotFound
	// Unknown covers ambiguous partial-completion states.
	Unknown
)

// HTTPStatus returns the response status code for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case Success:
		return http.StatusOK
	case UserError:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case ServerError, Unknown:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Description returns the human-readable name of the kind.
func (k Kind) Description() string {
	switch k {
	case Success:
		return "Success"
	case ServerError:
		return "Server error"
	case UserError:
		return "Client error"
	case NotFound:
		return "Not found"
	case Unknown:
		return "Unknown"
	}
	return "Unknown"
}

func (k Kind) String() string {
	return k.Description()
}

// Failure is a request outcome the user should see as an error page.
type Failure struct {
	Kind Kind
	Msg  string
}

// Failuref builds a Failure with a formatted message.
func Failuref(kind Kind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// FromIOError wraps an OS-level error as a ServerError, keeping the
// underlying error text in the message.
func FromIOError(err error, description string) *Failure {
	return &Failure{
		Kind: ServerError,
		Msg:  fmt.Sprintf("%s: %v", description, err),
	}
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind.Description(), f.Msg)
}

// AsFailure coerces any error into a *Failure. Errors that are not
// already failures become ServerError.
func AsFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: ServerError, Msg: err.Error()}
}

// Confirmation is a non-error outcome whose message is shown to the
// user through the same page template as failures, always with a 200.
type Confirmation struct {
	Msg string
}

// Confirmf builds a Confirmation with a formatted message.
func Confirmf(format string, args ...any) *Confirmation {
	return &Confirmation{Msg: fmt.Sprintf(format, args...)}
}
