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

package export

import (
	"fmt"
	"io"

	"github.com/sirseerhq/fossa-export/internal/fossa"
)

// Format identifiers accepted by the --output flag.
const (
	FormatJSON   = "json"
	FormatCSV    = "csv"
	FormatNDJSON = "ndjson"
)

// Exporter serializes a complete result set to an output stream.
// The result set is consumed exactly once, at the end of pagination.
type Exporter interface {
	// Export writes all records to w. Implementations must not write
	// anything if they return an error before the first record.
	Export(records []fossa.Exception, w io.Writer) error
}

// New returns the exporter for the given format identifier.
func New(format string) (Exporter, error) {
	switch format {
	case FormatJSON:
		return &JSONExporter{}, nil
	case FormatCSV:
		return &CSVExporter{}, nil
	case FormatNDJSON:
		return &NDJSONExporter{}, nil
	default:
		return nil, fmt.Errorf("invalid output format %q. Choose %q, %q or %q", format, FormatJSON, FormatCSV, FormatNDJSON)
	}
}

// Filename returns the default output filename for a format, written to
// the current working directory.
func Filename(format string) string {
	return "paginated_results." + format
}
