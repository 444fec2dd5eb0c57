package flow

import (
	"errors"
	"fmt"
)

// Kind classifies everything that can land the controller in the error state.
type Kind int

const (
	KindInit Kind = iota + 1
	KindValidation
	KindIO
	KindLogical
	KindCritical
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "initialization"
	case KindValidation:
		return "validation"
	case KindIO:
		return "io"
	case KindLogical:
		return "logical-conversion"
	case KindCritical:
		return "critical-conversion"
	}
	return "unknown"
}

var (
	ErrEngineUnavailable = errors.New("flow: conversion engine unavailable")
	ErrEngineNotReady    = errors.New("flow: conversion engine not ready")
	ErrNotImage          = errors.New("flow: file is not an image")
	ErrUnreadable        = errors.New("flow: file could not be read")
	ErrConversion        = errors.New("flow: conversion reported an error")
	ErrEngineFault       = errors.New("flow: conversion engine fault")
)

// Error is a failure surfaced in the error view.
type Error struct {
	Kind    Kind
	Detail  string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Wrapped.Error()
	}
	return fmt.Sprintf("%s: %s", e.Wrapped, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Message is the text shown to the user.
func (e *Error) Message() string {
	switch {
	case errors.Is(e.Wrapped, ErrEngineNotReady):
		return "The conversion engine is not ready yet."
	case e.Kind == KindInit:
		return "Could not load the conversion engine."
	case e.Kind == KindValidation:
		return "Please select a valid image file."
	case e.Kind == KindIO:
		return "Could not read the selected file."
	case e.Kind == KindLogical:
		return "The conversion failed: " + e.Detail
	case e.Kind == KindCritical:
		return "A critical error occurred during conversion."
	}
	return "Something went wrong."
}

func newError(kind Kind, sentinel error, cause error) *Error {
	e := &Error{Kind: kind, Wrapped: sentinel}
	if cause != nil {
		e.Detail = cause.Error()
	}
	return e
}
