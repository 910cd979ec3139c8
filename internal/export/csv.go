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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	exporterrors "github.com/sirseerhq/fossa-export/internal/errors"
	"github.com/sirseerhq/fossa-export/internal/fossa"
)

// CSVExporter writes the result set as CSV. The header row is the first
// record's keys in that record's order. Every record must carry exactly
// the header's key set; the whole set is validated before any row is
// written so a schema mismatch never produces a truncated file.
type CSVExporter struct{}

// Export implements the Exporter interface.
func (e *CSVExporter) Export(records []fossa.Exception, w io.Writer) error {
	if len(records) == 0 {
		return fmt.Errorf("cannot derive a CSV header without records: %w", exporterrors.ErrEmptyResultSet)
	}

	header := records[0].Keys()
	for i, rec := range records {
		if err := checkSchema(header, rec, i); err != nil {
			return err
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	row := make([]string, len(header))
	for _, rec := range records {
		for j, key := range header {
			value, _ := rec.Get(key)
			row[j] = formatValue(value)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// checkSchema verifies that a record's key set equals the header's.
func checkSchema(header []string, rec fossa.Exception, index int) error {
	if rec.Len() != len(header) {
		return fmt.Errorf("record %d has %d fields, header has %d: %w",
			index, rec.Len(), len(header), exporterrors.ErrSchemaMismatch)
	}
	for _, key := range header {
		if _, ok := rec.Get(key); !ok {
			return fmt.Errorf("record %d is missing field %q: %w",
				index, key, exporterrors.ErrSchemaMismatch)
		}
	}
	return nil
}

// formatValue renders a single field value as a CSV cell. Strings are
// written verbatim, numbers keep their source representation, null becomes
// an empty cell, and nested arrays or objects are JSON-encoded.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
