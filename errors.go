/*
Copyright © 2026 the Aquifer authors.
This file is part of Aquifer.

Aquifer is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Aquifer is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Aquifer.  If not, see <http://www.gnu.org/licenses/>.
*/

package aquifer

import (
	"errors"
	"fmt"
)

// Kinds of fit failure. A failed FitResult carries a *FitError whose
// Kind is one of these, so callers can use errors.Is to tell them apart.
var (
	// ErrInvalidInput indicates observation data, distances, or fit
	// settings that a model cannot be evaluated with.
	ErrInvalidInput = errors.New("aquifer: invalid input")

	// ErrSingular indicates that the least-squares system could not be
	// factorized.
	ErrSingular = errors.New("aquifer: jacobian could not be factorized")

	// ErrNonFinite indicates NaN or Inf in model output, the jacobian,
	// or a parameter update, for example from overflow or parameters
	// that drifted below zero.
	ErrNonFinite = errors.New("aquifer: non-finite value")

	// ErrCanceled indicates that the fit was interrupted by its context.
	ErrCanceled = errors.New("aquifer: fit canceled")
)

// FitError wraps the cause of a failed fit with the iteration it
// occurred in. Iteration is 0 for failures detected before iterating.
type FitError struct {
	Kind      error
	Iteration int
	Err       error
}

func (e *FitError) Error() string {
	if e.Err == nil || e.Err == e.Kind {
		return fmt.Sprintf("%v (iteration %d)", e.Kind, e.Iteration)
	}
	if errors.Is(e.Err, e.Kind) {
		return fmt.Sprintf("%v (iteration %d)", e.Err, e.Iteration)
	}
	return fmt.Sprintf("%v (iteration %d): %v", e.Kind, e.Iteration, e.Err)
}

// Unwrap returns both the kind and the underlying cause.
func (e *FitError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// invalidf returns an error that wraps ErrInvalidInput.
func invalidf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, a...))
}
