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

package apierror

import (
	"net/http"
	"strings"
)

// Inspector classifies API failures. Status codes are inspected directly;
// transport errors are classified from the error text because net/http does
// not expose a stable error taxonomy.
type Inspector interface {
	// IsAuthStatus returns true if the status code indicates an
	// authentication or authorization failure.
	IsAuthStatus(code int) bool

	// IsNotFoundStatus returns true if the status code indicates the
	// requested endpoint does not exist.
	IsNotFoundStatus(code int) bool

	// IsRateLimitStatus returns true if the status code indicates the API
	// rate limit has been exceeded.
	IsRateLimitStatus(code int) bool

	// IsNetworkError returns true if the error represents a network
	// connectivity failure.
	IsNetworkError(err error) bool
}

// RESTErrorInspector implements the Inspector interface for FOSSA REST API errors.
type RESTErrorInspector struct{}

// NewInspector creates a new RESTErrorInspector.
func NewInspector() Inspector {
	return &RESTErrorInspector{}
}

// IsAuthStatus checks if the status code is an authentication or authorization failure.
func (i *RESTErrorInspector) IsAuthStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsNotFoundStatus checks if the status code is a not found failure.
func (i *RESTErrorInspector) IsNotFoundStatus(code int) bool {
	return code == http.StatusNotFound
}

// IsRateLimitStatus checks if the status code is a rate limit failure.
func (i *RESTErrorInspector) IsRateLimitStatus(code int) bool {
	return code == http.StatusTooManyRequests
}

// IsNetworkError checks if the error is a network connectivity failure.
func (i *RESTErrorInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "timed out") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "eof")
}
