// Package apperrors provides chainable errors for the Megaplan client. An error
// carries a message, the sentinel it was derived from, any number of attached
// causes and, when the failure came from the remote service, its HTTP status.
package apperrors

// Error extends the standard error interface with derivation and wrapping
// helpers. All methods return a new Error and leave the receiver untouched, so
// package-level sentinels can be shared safely.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // derives a new error with msg, keeping this one as its base
	Msg(msg string) Error                  // like New, but also records the receiver as a cause
	MsgErr(msg string, err ...error) Error // like Msg, and attaches extra causes
	Err(err ...error) Error                // keeps the message and attaches causes
	SetExpandError(bool) Error             // ErrorAll includes the causes when set
	SetStatusCode(int) Error               // HTTP status reported by the service, 0 when none
	StatusCode() int
	Prefix(string) Error // prepends "prefix: " to the message
	ErrorAll() string    // message plus causes when expansion is enabled
	UnwrapAll() []error  // attached causes in order
}
