// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable reports a provider whose runtime dependency or
	// service is not configured or reachable.  Recoverable by choosing
	// another source.
	ErrSourceUnavailable = errors.New("source: provider unavailable")

	// ErrOutOfCoverage reports a query coordinate outside a provider's
	// covered geographic bounds.  Recoverable by switching source.
	ErrOutOfCoverage = errors.New("source: coordinate outside provider coverage")

	// ErrNoDataFound reports a query that returned zero usable buildings.
	// Recoverable by widening the radius or switching source.
	ErrNoDataFound = errors.New("source: no buildings found")
)

// QueryError reports a transient network or service failure while querying a
// provider.  The caller may retry; this package never retries internally.
type QueryError struct {
	Kind Kind
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("source: %s query failed: %v", e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// ValidationError reports a malformed custom-building entry, annotated with
// the path of the offending field.  Not retryable without fixing the input.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("source: invalid custom building at %s: %s", e.Path, e.Reason)
}
