/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package multi is an error type that holds multiple errors, e.g. the errors
// received on a broadcast stream or collected while releasing connections to
// several endpoints.
package multi

import (
	"strings"
)

// Errors is used to represent multiple errors
type Errors []error

// New returns nil when no non-nil error is given, the error itself when exactly
// one is given and an Errors value otherwise.
func New(errs ...error) error {
	var collected Errors
	for _, err := range errs {
		collected = collected.add(err)
	}
	return collected.ToError()
}

// Append err to errs. If errs is not an Errors value, one is created.
func Append(errs error, err error) error {
	m, ok := errs.(Errors)
	if !ok {
		return New(errs, err)
	}
	return m.add(err).ToError()
}

func (errs Errors) add(err error) Errors {
	if err == nil {
		return errs
	}
	if nested, ok := err.(Errors); ok {
		return append(errs, nested...)
	}
	return append(errs, err)
}

// ToError converts Errors to the error interface
// returns nil if no errors are present, a single error object if only one is present
func (errs Errors) ToError() error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errs
	}
}

// Error implements the error interface to return a string representation of Errors
func (errs Errors) Error() string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Error()
	}

	msgs := make([]string, 0, len(errs)+1)
	msgs = append(msgs, "Multiple errors occurred:")
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, " - ")
}
