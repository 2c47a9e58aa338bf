// Package result provides a generic two-state container holding either a
// success value or a failure value, never both.
//
// A Result is built once with Success or Failure and inspected by its caller
// with IsSuccess or IsFailure before reading the matching side. Reading the
// wrong side is a programming error and panics with a *ContractError.
package result

import "fmt"

type state uint8

const (
	stateUnset state = iota
	stateSuccess
	stateFailure
)

// Result holds either a value of type T or a failure of type E.
// The zero Result is neither; all accessors on it panic.
type Result[T, E any] struct {
	st  state
	val T
	err E
}

// Success returns a Result holding v.
func Success[T, E any](v T) Result[T, E] {
	return Result[T, E]{st: stateSuccess, val: v}
}

// Failure returns a Result holding e.
func Failure[T, E any](e E) Result[T, E] {
	return Result[T, E]{st: stateFailure, err: e}
}

// IsSuccess reports whether r holds a value.
func (r Result[T, E]) IsSuccess() bool {
	return r.st == stateSuccess
}

// IsFailure reports whether r holds a failure.
func (r Result[T, E]) IsFailure() bool {
	return r.st == stateFailure
}

// Value returns the success value. It panics if r is not a success.
func (r Result[T, E]) Value() T {
	if r.st != stateSuccess {
		panic(&ContractError{Op: "Value", State: r.st.String()})
	}
	return r.val
}

// Err returns the failure value. It panics if r is not a failure.
func (r Result[T, E]) Err() E {
	if r.st != stateFailure {
		panic(&ContractError{Op: "Err", State: r.st.String()})
	}
	return r.err
}

// Get returns the success value and true, or the zero value and false.
func (r Result[T, E]) Get() (T, bool) {
	if r.st != stateSuccess {
		var zero T
		return zero, false
	}
	return r.val, true
}

func (r Result[T, E]) String() string {
	switch r.st {
	case stateSuccess:
		return fmt.Sprintf("success(%v)", r.val)
	case stateFailure:
		return fmt.Sprintf("failure(%v)", r.err)
	default:
		return "unset"
	}
}

func (s state) String() string {
	switch s {
	case stateSuccess:
		return "success"
	case stateFailure:
		return "failure"
	default:
		return "unset"
	}
}

// ContractError is the panic value raised when a Result is read on the wrong side.
type ContractError struct {
	Op    string
	State string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("result: %s() called on %s result", e.Op, e.State)
}
