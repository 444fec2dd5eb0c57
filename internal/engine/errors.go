package engine

import (
	"errors"
	"strings"
)

// ErrorMarker prefixes a logical conversion failure returned as text.
const ErrorMarker = "Erro"

// Domain errors for engine operations.
var (
	// ErrUnavailable indicates the engine could not be initialized.
	ErrUnavailable = errors.New("engine: conversion engine unavailable")

	// ErrReleased indicates use of a buffer after it was released.
	ErrReleased = errors.New("engine: buffer already released")

	// ErrFault indicates the conversion call panicked.
	ErrFault = errors.New("engine: conversion fault")
)

// FaultError carries the recovered value of a conversion panic.
type FaultError struct {
	Value   any
	Wrapped error
}

func (e *FaultError) Error() string {
	return e.Wrapped.Error()
}

func (e *FaultError) Unwrap() error {
	return e.Wrapped
}

// IsLogicalFailure reports whether text is an error payload rather than art.
func IsLogicalFailure(text string) bool {
	return strings.HasPrefix(text, ErrorMarker)
}
