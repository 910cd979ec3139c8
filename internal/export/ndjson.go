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

// NDJSONExporter writes one compact JSON object per line. The format
// suits line-oriented downstream tooling and streams without holding an
// encoded copy of the whole result set.
type NDJSONExporter struct{}

// Export implements the Exporter interface.
func (e *NDJSONExporter) Export(records []fossa.Exception, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for i, rec := range records {
		if err := encoder.Encode(rec); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return nil
}
