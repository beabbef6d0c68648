package apperrors

import (
	"errors"
	"strings"
)

type appError struct {
	msg         string
	base        error
	causes      []error
	statusCode  int
	expandError bool
	prefix      string
}

func (e *appError) Error() string {
	if e.prefix != "" {
		return e.prefix + ": " + e.msg
	}
	return e.msg
}

// ErrorAll joins the message with every attached cause when expansion is
// enabled. Causes that repeat the base message are skipped.
func (e *appError) ErrorAll() string {
	if !e.expandError {
		return e.Error()
	}
	var b strings.Builder
	b.WriteString(e.Error())
	for _, err := range e.causes {
		if err == e.base {
			continue
		}
		b.WriteString("; ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *appError) Unwrap() error {
	return e.base
}

func (e *appError) UnwrapAll() []error {
	return e.causes
}

func (e *appError) New(msg string) Error {
	return &appError{
		msg:         msg,
		base:        e,
		statusCode:  e.statusCode,
		expandError: e.expandError,
	}
}

func (e *appError) Msg(msg string) Error {
	return &appError{
		msg:         msg,
		base:        e,
		causes:      append([]error{e}, e.causes...),
		statusCode:  e.statusCode,
		expandError: e.expandError,
	}
}

func (e *appError) MsgErr(msg string, errs ...error) Error {
	return &appError{
		msg:         msg,
		base:        e,
		causes:      append([]error{e}, nonNil(errs)...),
		statusCode:  e.statusCode,
		expandError: e.expandError,
	}
}

func (e *appError) Err(errs ...error) Error {
	return &appError{
		msg:         e.msg,
		base:        e,
		causes:      append([]error{e}, nonNil(errs)...),
		statusCode:  e.statusCode,
		expandError: e.expandError,
		prefix:      e.prefix,
	}
}

func (e *appError) Prefix(p string) Error {
	cp := *e
	cp.prefix = p
	return &cp
}

func (e *appError) SetExpandError(flag bool) Error {
	cp := *e
	cp.expandError = flag
	return &cp
}

func (e *appError) SetStatusCode(code int) Error {
	cp := *e
	cp.statusCode = code
	return &cp
}

func (e *appError) StatusCode() int {
	return e.statusCode
}

// Is matches the target against the base chain and every attached cause.
func (e *appError) Is(target error) bool {
	if target == nil {
		return false
	}
	if errors.Is(e.base, target) {
		return true
	}
	for _, err := range e.causes {
		if err == e {
			continue
		}
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// As lets errors.As reach typed causes such as *ServiceError that were
// attached with Err or MsgErr.
func (e *appError) As(target any) bool {
	for _, err := range e.causes {
		if err == e || err == e.base {
			continue
		}
		if errors.As(err, target) {
			return true
		}
	}
	return false
}

// New creates a root error with the given message.
func New(msg string) Error {
	return &appError{msg: msg}
}

func nonNil(errs []error) []error {
	out := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
