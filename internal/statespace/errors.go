package statespace

import (
	"errors"
	"fmt"
)

// #region sentinels
// Domain errors for model lookup and shock-path solving.
var (
	// ErrSingularSystem indicates the assembled coefficient matrix cannot be inverted.
	ErrSingularSystem = errors.New("statespace: singular system")

	// ErrUnknownVariable indicates a name or shock horizon absent from the model's index maps.
	ErrUnknownVariable = errors.New("statespace: unknown variable")

	// ErrDimensionMismatch indicates disagreeing path lengths, name counts or matrix shapes.
	ErrDimensionMismatch = errors.New("statespace: dimension mismatch")
)

// #endregion sentinels

// #region singular
// SingularSystemError carries the condition estimate of the rejected matrix.
// Condition is +Inf for an exactly singular system.
type SingularSystemError struct {
	Size      int
	Condition float64
}

func (e *SingularSystemError) Error() string {
	return fmt.Sprintf("%v: %dx%d coefficient matrix (condition %g)", ErrSingularSystem, e.Size, e.Size, e.Condition)
}

func (e *SingularSystemError) Unwrap() error {
	return ErrSingularSystem
}

// #endregion singular

// #region unknown-variable
// UnknownVariableError names the category ("control", "state", "variable") that was searched.
type UnknownVariableError struct {
	Category string
	Name     string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("%v: %s %q", ErrUnknownVariable, e.Category, e.Name)
}

func (e *UnknownVariableError) Unwrap() error {
	return ErrUnknownVariable
}

// #endregion unknown-variable

// #region dimension-mismatch
// DimensionMismatchError describes which quantity disagreed.
type DimensionMismatchError struct {
	What string
	Want string
	Got  string
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%v: %s: want %s, got %s", ErrDimensionMismatch, e.What, e.Want, e.Got)
}

func (e *DimensionMismatchError) Unwrap() error {
	return ErrDimensionMismatch
}

// mismatch builds a DimensionMismatchError from integer shapes.
func mismatch(what string, want, got int) error {
	return &DimensionMismatchError{What: what, Want: fmt.Sprint(want), Got: fmt.Sprint(got)}
}

// shapeMismatch builds a DimensionMismatchError from matrix shapes.
func shapeMismatch(what string, wr, wc, gr, gc int) error {
	return &DimensionMismatchError{
		What: what,
		Want: fmt.Sprintf("%dx%d", wr, wc),
		Got:  fmt.Sprintf("%dx%d", gr, gc),
	}
}

// #endregion dimension-mismatch
