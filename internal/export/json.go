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
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirseerhq/fossa-export/internal/fossa"
)

// JSONExporter writes the result set as a pretty-printed JSON array.
// Records round-trip exactly: field order and numeric representation are
// preserved from the API response. An empty result set exports as [].
type JSONExporter struct{}

// Export implements the Exporter interface.
func (e *JSONExporter) Export(records []fossa.Exception, w io.Writer) error {
	if records == nil {
		records = []fossa.Exception{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result set: %w", err)
	}
	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write result set: %w", err)
	}
	return nil
}
