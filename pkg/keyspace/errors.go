// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keyspace

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCandidates is returned when a keyspace would hold no candidates.
	ErrNoCandidates = errors.New("keyspace holds no candidates")
	// ErrCountOverflow is returned when the candidate count exceeds 10^length.
	ErrCountOverflow = errors.New("candidate count exceeds the numeric range")
	// ErrNotTransformed is returned when reversing a plaintext of a
	// keyspace without a byte transform key.
	ErrNotTransformed = errors.New("keyspace has no byte transform")
)

// ConfigurationError reports degenerate or inconsistent run parameters.
// It is always returned before any work is started.
type ConfigurationError struct {
	Field string
	Err   error
}

// NewConfigurationError wraps err as a ConfigurationError for field.
func NewConfigurationError(field string, err error) *ConfigurationError {
	return &ConfigurationError{Field: field, Err: err}
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("configuration: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
