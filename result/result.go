// Package result holds the value returned by every API call: either a parsed
// success value or exactly one classified failure.
package result

// Result is Ok(T) or Err(*Error). The zero value is Ok with the zero T.
// A Result is never mutated after construction.
type Result[T any] struct {
	value T
	err   *Error
}

// Ok wraps a success value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps a classified failure. A nil err yields Ok with the zero T.
func Fail[T any](err *Error) Result[T] {
	return Result[T]{err: err}
}

// TransportRejected builds a failed Result for a call that never got a response.
func TransportRejected[T any](cause error) Result[T] {
	return Fail[T](NewTransportRejected(cause))
}

// RequestFailed builds a failed Result for a non-success response.
func RequestFailed[T any](statusCode int, body []byte) Result[T] {
	return Fail[T](NewRequestFailed(statusCode, body))
}

// ParsingFailed builds a failed Result for an undecodable success response.
func ParsingFailed[T any](message string) Result[T] {
	return Fail[T](NewParsingFailed(message))
}

// IsOk reports whether r holds a value.
func (r Result[T]) IsOk() bool { return r.err == nil }

// IsErr reports whether r holds a failure.
func (r Result[T]) IsErr() bool { return r.err != nil }

// Value returns the success value. Only meaningful when IsOk holds;
// on a failed Result it returns the zero T.
func (r Result[T]) Value() T { return r.value }

// Err returns the failure, or nil for Ok.
func (r Result[T]) Err() *Error { return r.err }

// Kind returns the failure kind, or 0 for Ok.
func (r Result[T]) Kind() Kind {
	if r.err == nil {
		return 0
	}
	return r.err.Kind
}

// Unwrap converts r to Go's (value, error) form.
func (r Result[T]) Unwrap() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// String renders r for logs. Not stable.
func (r Result[T]) String() string {
	if r.err == nil {
		return "success"
	}
	return r.err.Error()
}

// Map applies fn to the value of an Ok result. A failed r is carried over
// unchanged and fn is not called.
func Map[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.err != nil {
		return Fail[U](r.err)
	}
	return fn(r.value)
}
