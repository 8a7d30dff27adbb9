package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrForbidden means the caller's role does not allow the operation.
	// It is decided before any store access so it never depends on whether
	// the target record exists.
	ErrForbidden = errors.New("admin access required")

	// ErrUnauthorized means the caller presented no usable credential.
	ErrUnauthorized = errors.New("authentication required")
)

// ValidationError reports every offending field of a rejected payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

type fieldErrors map[string]string

func (f fieldErrors) add(field, reason string) {
	f[field] = reason
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}
