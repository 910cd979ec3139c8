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

// Package metadata types define the structures persisted alongside an
// export. They capture what was exported, with which parameters, and how
// the run went, providing an audit trail for compliance tooling.
package metadata

import "time"

// ExportMetadata is the complete metadata record for a single export run.
type ExportMetadata struct {
	ToolVersion string        `json:"tool_version"`
	ExportID    string        `json:"export_id"`
	Parameters  ExportParams  `json:"parameters"`
	Results     ExportResults `json:"results"`
}

// ExportParams captures the input parameters used for an export run.
// Preserved to make exports reproducible and debuggable.
type ExportParams struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Format   string `json:"format"`
	Endpoint string `json:"endpoint"`
}

// ExportResults contains statistics about a completed export run.
type ExportResults struct {
	TotalRecords int       `json:"total_records"`
	Pages        int       `json:"pages"`
	APICalls     int       `json:"api_calls"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
	Duration     string    `json:"duration"`

	// Partial is true when pagination stopped on a non-success status and
	// the export contains only the records from earlier pages.
	Partial bool `json:"partial"`
}
