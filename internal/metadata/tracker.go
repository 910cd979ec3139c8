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

package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Tracker collects statistics during an export run and generates metadata.
// Create a new tracker at the start of each run and call its methods as
// pages are fetched.
type Tracker struct {
	startTime    time.Time
	apiCallCount int
	recordCount  int
	pageCount    int
}

// New creates a new metadata tracker and initializes it with the current time.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// IncrementAPICall records that an API call was made. Call this after each
// request, including the final empty-page request that ends pagination.
func (t *Tracker) IncrementAPICall() {
	t.apiCallCount++
}

// RecordPage records one non-empty page of fetched records.
func (t *Tracker) RecordPage(records int) {
	t.pageCount++
	t.recordCount += records
}

// GenerateMetadata creates an ExportMetadata instance capturing the complete
// run statistics. Call this once, after the output file has been written.
func (t *Tracker) GenerateMetadata(toolVersion string, params ExportParams, partial bool) *ExportMetadata {
	completedAt := time.Now()

	return &ExportMetadata{
		ToolVersion: toolVersion,
		ExportID:    uuid.NewString(),
		Parameters:  params,
		Results: ExportResults{
			TotalRecords: t.recordCount,
			Pages:        t.pageCount,
			APICalls:     t.apiCallCount,
			StartedAt:    t.startTime,
			CompletedAt:  completedAt,
			Duration:     completedAt.Sub(t.startTime).Round(time.Millisecond).String(),
			Partial:      partial,
		},
	}
}

// Save writes the metadata record as indented JSON to the given path,
// overwriting any existing file.
func Save(meta *ExportMetadata, path string) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}
