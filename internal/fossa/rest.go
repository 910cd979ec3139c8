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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"

	"github.com/sirseerhq/fossa-export/internal/apierror"
	exporterrors "github.com/sirseerhq/fossa-export/internal/errors"
	"github.com/sirseerhq/fossa-export/pkg/version"
)

// DefaultEndpoint is the production FOSSA issue-exceptions endpoint.
const DefaultEndpoint = "https://app.fossa.com/api/v2/issues/exceptions"

// RESTClient implements the Client interface against the FOSSA REST API.
// It is configured with:
//   - Authentication via the provided bearer token
//   - Custom endpoint URL (e.g., for on-premise FOSSA deployments)
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
//   - Optimized connection pooling for API performance
type RESTClient struct {
	httpClient *http.Client
	endpoint   string
	inspector  apierror.Inspector
	logger     zerolog.Logger
}

// NewRESTClient creates a new FOSSA API client with the provided token and
// endpoint. An empty endpoint selects the production FOSSA API.
func NewRESTClient(token, endpoint string, logger zerolog.Logger) *RESTClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	// Create optimized transport with connection pooling
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
		ForceAttemptHTTP2:   true,
	}

	httpClient := &http.Client{
		Transport: &authTransport{
			token: token,
			base:  transport,
		},
	}

	return &RESTClient{
		httpClient: httpClient,
		endpoint:   endpoint,
		inspector:  apierror.NewInspector(),
		logger:     logger,
	}
}

// FetchExceptions fetches one page of issue exceptions. On a 200 response
// the "exceptions" array is decoded; a missing field decodes to an empty
// page, which callers treat as the end of the listing. Any non-200 status
// is mapped to a classified sentinel error.
func (c *RESTClient) FetchExceptions(ctx context.Context, opts FetchOptions) (*ExceptionPage, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Count <= 0 {
		opts.Count = defaultPageSize
	}

	params, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query parameters: %w", err)
	}

	url := c.endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Int("page", opts.Page).
		Int("count", opts.Count).
		Str("category", opts.Category).
		Str("url", url).
		Msg("fetching exceptions page")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain the body so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, c.mapStatus(resp.StatusCode)
	}

	var body struct {
		Exceptions []Exception `json:"exceptions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse response for page %d: %w", opts.Page, err)
	}

	c.logger.Debug().
		Int("page", opts.Page).
		Int("records", len(body.Exceptions)).
		Msg("page fetched")

	return &ExceptionPage{Exceptions: body.Exceptions}, nil
}

// mapTransportError maps request-level failures to domain errors with actionable messages.
func (c *RESTClient) mapTransportError(err error) error {
	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to the FOSSA API. Please check your internet connection and try again: %w", exporterrors.ErrNetworkFailure)
	}
	return fmt.Errorf("request failed: %w", err)
}

// mapStatus maps a non-200 status code to a classified sentinel error.
func (c *RESTClient) mapStatus(code int) error {
	switch {
	case c.inspector.IsAuthStatus(code):
		return fmt.Errorf("FOSSA API authentication failed (status %d). Please provide a valid bearer token: %w", code, exporterrors.ErrInvalidToken)
	case c.inspector.IsNotFoundStatus(code):
		return fmt.Errorf("exceptions endpoint not found (status %d). Please check the endpoint URL: %w", code, exporterrors.ErrEndpointNotFound)
	case c.inspector.IsRateLimitStatus(code):
		return fmt.Errorf("FOSSA API rate limit exceeded (status %d). Please wait before retrying: %w", code, exporterrors.ErrRateLimit)
	default:
		return fmt.Errorf("fetch failed with status %d: %w", code, exporterrors.ErrBadStatus)
	}
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// authTransport adds authentication headers and safety limits to HTTP requests
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("User-Agent", fmt.Sprintf("fossa-export/%s", version.Version))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// Apply response size limit (10MB)
	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      10 * 1024 * 1024,
		}
	}

	return resp, nil
}
