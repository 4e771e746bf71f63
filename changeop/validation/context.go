// Package validation provides the path-tracking context used while
// deserializing change requests, the structured errors it produces, and the
// term validators shared by the deserializers.
package validation

import (
	"fmt"
	"strconv"
	"strings"
)

// Context records where in a request payload a value sits.
// It is a value type; At returns a new context and leaves the receiver untouched.
type Context struct {
	parameter string
	path      []string
}

// Create returns the root context for a request parameter such as "data".
func Create(parameter string) Context {
	return Context{parameter: parameter}
}

// At returns a child context one level deeper.
func (c Context) At(segment string) Context {
	path := make([]string, len(c.path), len(c.path)+1)
	copy(path, c.path)
	return Context{parameter: c.parameter, path: append(path, segment)}
}

// AtIndex returns a child context for a list element.
func (c Context) AtIndex(i int) Context {
	return c.At(strconv.Itoa(i))
}

// Parameter returns the request parameter the context is rooted at.
func (c Context) Parameter() string { return c.parameter }

// Path returns a copy of the path segments below the parameter.
func (c Context) Path() []string {
	return append([]string(nil), c.path...)
}

// String renders the context as "parameter/seg/seg".
func (c Context) String() string {
	if len(c.path) == 0 {
		return c.parameter
	}
	return c.parameter + "/" + strings.Join(c.path, "/")
}

// Violation binds an API error to this location.
func (c Context) Violation(apiErr APIError) *Error {
	return &Error{
		Parameter: c.parameter,
		Path:      c.Path(),
		Err:       apiErr,
	}
}

// Error is a failure located at a specific point of the request payload.
type Error struct {
	Parameter string
	Path      []string
	Err       APIError
}

func (e *Error) Error() string {
	loc := e.Parameter
	if len(e.Path) > 0 {
		loc += "/" + strings.Join(e.Path, "/")
	}
	return fmt.Sprintf("%s: %s (%s)", loc, e.Err.Code(), e.Err.MessageKey())
}

// Code returns the API error code.
func (e *Error) Code() string { return e.Err.Code() }

// Kind returns the error category.
func (e *Error) Kind() Kind { return e.Err.Kind() }

// MessageKey returns the i18n message key.
func (e *Error) MessageKey() string { return e.Err.MessageKey() }

// MessageParams returns the message parameters: the parameter name, the
// slash-joined path, then the error-specific values.
func (e *Error) MessageParams() []string {
	params := []string{e.Parameter, strings.Join(e.Path, "/")}
	return append(params, e.Err.Params()...)
}
