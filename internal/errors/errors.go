// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidToken indicates the FOSSA API rejected the bearer token.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid api token")

	// ErrEndpointNotFound indicates the exceptions endpoint does not exist
	// or is not accessible with the supplied credentials.
	// Maps to exit code 2.
	ErrEndpointNotFound = errors.New("endpoint not found")

	// ErrRateLimit indicates the FOSSA API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("api rate limit exceeded")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrBadStatus indicates the API returned a non-success status code that
	// does not classify as an auth, not-found, or rate-limit failure.
	// Maps to exit code 1.
	ErrBadStatus = errors.New("unexpected status code")

	// ErrEmptyResultSet indicates a CSV export was requested for an empty
	// result set, which has no first record to derive a header from.
	ErrEmptyResultSet = errors.New("empty result set")

	// ErrSchemaMismatch indicates a record's key set differs from the CSV
	// header derived from the first record.
	ErrSchemaMismatch = errors.New("record keys do not match header")
)

// IsStatus reports whether err was caused by a non-success HTTP status code
// from the API, as opposed to a transport failure or a malformed response.
// Status-caused failures are the only ones eligible for partial export.
func IsStatus(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrEndpointNotFound) ||
		errors.Is(err, ErrRateLimit) ||
		errors.Is(err, ErrBadStatus)
}
