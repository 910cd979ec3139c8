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

package fossa

import (
	"context"
	"fmt"

	exporterrors "github.com/sirseerhq/fossa-export/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	// Pages holds the exceptions returned for each page: Pages[0] is page 1,
	// and so on. Requests beyond the configured pages return an empty page.
	Pages [][]Exception

	// FailAtPage, when positive, makes fetching that page return Error.
	FailAtPage int

	// Error to return when FailAtPage is hit. Defaults to a bad-status error.
	Error error

	// Behavior flags
	ShouldFailAuth    bool
	ShouldFailNetwork bool

	// Track calls for verification
	CallCount int
	LastOpts  FetchOptions
}

// FetchExceptions implements the Client interface
func (m *MockClient) FetchExceptions(ctx context.Context, opts FetchOptions) (*ExceptionPage, error) {
	m.CallCount++
	m.LastOpts = opts

	// Check for context cancellation
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", exporterrors.ErrInvalidToken)
	}

	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("network timeout: %w", exporterrors.ErrNetworkFailure)
	}

	if m.FailAtPage > 0 && opts.Page == m.FailAtPage {
		if m.Error != nil {
			return nil, m.Error
		}
		return nil, fmt.Errorf("fetch failed with status 500: %w", exporterrors.ErrBadStatus)
	}

	if opts.Page < 1 || opts.Page > len(m.Pages) {
		return &ExceptionPage{}, nil
	}

	return &ExceptionPage{Exceptions: m.Pages[opts.Page-1]}, nil
}
