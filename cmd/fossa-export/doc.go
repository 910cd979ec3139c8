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

// fossa-export fetches issue-exception records from the FOSSA API and
// writes them to a local file.
//
// Usage:
//
//	fossa-export <access_token> [flags]
//
// The tool pages through the exceptions endpoint until it is exhausted,
// accumulates all records, and serializes them as a JSON array, a CSV
// file, or newline-delimited JSON.
//
// Exit codes:
//
//	0 - success
//	1 - general error
//	2 - authentication, not-found, or rate-limit error
//	3 - network error
package main
