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

package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	exporterrors "github.com/sirseerhq/fossa-export/internal/errors"
	"github.com/sirseerhq/fossa-export/internal/fossa"
	"github.com/sirseerhq/fossa-export/internal/metadata"
)

// newExceptionsServer serves pages in order, then empty pages forever.
// failAt, when positive, makes that page return the given status code.
func newExceptionsServer(t *testing.T, pages []string, failAt, failStatus int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")

		var pageNum int
		if _, err := fmt.Sscanf(page, "%d", &pageNum); err != nil {
			t.Errorf("request without a parseable page parameter: %q", page)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if failAt > 0 && pageNum == failAt {
			w.WriteHeader(failStatus)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if pageNum <= len(pages) {
			fmt.Fprintf(w, `{"exceptions":%s}`, pages[pageNum-1])
			return
		}
		fmt.Fprint(w, `{"exceptions":[]}`)
	}))
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(new(strings.Builder))
	cmd.SetErr(new(strings.Builder))
	return cmd.Execute()
}

func TestExport_JSONEndToEnd(t *testing.T) {
	server := newExceptionsServer(t, []string{
		`[{"id":1,"category":"licensing"},{"id":2,"category":"licensing"}]`,
		`[{"id":3,"category":"licensing"}]`,
	}, 0, 0)
	defer server.Close()

	outFile := filepath.Join(t.TempDir(), "out.json")
	err := runCommand(t, "test-token",
		"--endpoint", server.URL,
		"--output", "json",
		"--output-file", outFile,
	)
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}

	var records []fossa.Exception
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i, rec := range records {
		v, _ := rec.Get("id")
		if num := v.(json.Number); num.String() != fmt.Sprint(i+1) {
			t.Errorf("record %d id = %v, want %d", i, v, i+1)
		}
	}
}

func TestExport_CSVEndToEnd(t *testing.T) {
	server := newExceptionsServer(t, []string{
		`[{"id":1,"note":"first"},{"id":2,"note":"second"}]`,
	}, 0, 0)
	defer server.Close()

	outFile := filepath.Join(t.TempDir(), "out.csv")
	err := runCommand(t, "test-token",
		"--endpoint", server.URL,
		"--output", "csv",
		"--output-file", outFile,
	)
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	f, err := os.Open(outFile)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 data rows", len(rows))
	}
	if rows[0][0] != "id" || rows[0][1] != "note" {
		t.Errorf("header = %v, want [id note]", rows[0])
	}
	if rows[2][1] != "second" {
		t.Errorf("row 2 note = %q, want second", rows[2][1])
	}
}

func TestExport_CSVEmptyResultSetFails(t *testing.T) {
	server := newExceptionsServer(t, nil, 0, 0)
	defer server.Close()

	outFile := filepath.Join(t.TempDir(), "out.csv")
	err := runCommand(t, "test-token",
		"--endpoint", server.URL,
		"--output", "csv",
		"--output-file", outFile,
	)
	if err == nil {
		t.Fatal("command succeeded on empty CSV export")
	}
	if !errors.Is(err, exporterrors.ErrEmptyResultSet) {
		t.Errorf("error = %v, want ErrEmptyResultSet", err)
	}
	if _, statErr := os.Stat(outFile); !os.IsNotExist(statErr) {
		t.Errorf("output file left behind after failed export")
	}
}

func TestExport_CSVSchemaMismatchLeavesNoFile(t *testing.T) {
	server := newExceptionsServer(t, []string{
		`[{"id":1,"note":"a"},{"id":2}]`,
	}, 0, 0)
	defer server.Close()

	outFile := filepath.Join(t.TempDir(), "out.csv")
	err := runCommand(t, "test-token",
		"--endpoint", server.URL,
		"--output", "csv",
		"--output-file", outFile,
	)
	if err == nil {
		t.Fatal("command succeeded on mismatched record schemas")
	}
	if !errors.Is(err, exporterrors.ErrSchemaMismatch) {
		t.Errorf("error = %v, want ErrSchemaMismatch", err)
	}
	if _, statErr := os.Stat(outFile); !os.IsNotExist(statErr) {
		t.Errorf("output file left behind after failed export")
	}
}

func TestExport_FlagOverridesEnvCategory(t *testing.T) {
	var gotCategories []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCategories = append(gotCategories, r.URL.Query().Get("filters[category]"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"exceptions":[]}`)
	}))
	defer server.Close()

	t.Setenv("FOSSA_EXPORT_CATEGORY", "security")

	// Without the flag, the environment override applies.
	outFile := filepath.Join(t.TempDir(), "out.json")
	if err := runCommand(t, "test-token",
		"--endpoint", server.URL,
		"--output-file", outFile,
	); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if gotCategories[0] != "security" {
		t.Errorf("category = %q, want env value security", gotCategories[0])
	}

	// With the flag, the flag wins over the environment.
	if err := runCommand(t, "test-token",
		"--endpoint", server.URL,
		"--output-file", outFile,
		"--category", "licensing",
	); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if got := gotCategories[len(gotCategories)-1]; got != "licensing" {
		t.Errorf("category = %q, want flag value licensing over env", got)
	}
}

func TestExport_FailsOnErrorStatusByDefault(t *testing.T) {
	server := newExceptionsServer(t, []string{
		`[{"id":1}]`,
		`[{"id":2}]`,
	}, 2, http.StatusInternalServerError)
	defer server.Close()

	outFile := filepath.Join(t.TempDir(), "out.json")
	err := runCommand(t, "test-token",
		"--endpoint", server.URL,
		"--output-file", outFile,
	)
	if err == nil {
		t.Fatal("command succeeded, want failure on error status")
	}
	if !errors.Is(err, exporterrors.ErrBadStatus) {
		t.Errorf("error = %v, want ErrBadStatus", err)
	}
}

func TestExport_AllowPartialExportsEarlierPages(t *testing.T) {
	server := newExceptionsServer(t, []string{
		`[{"id":1},{"id":2}]`,
		`[{"id":3}]`,
	}, 2, http.StatusInternalServerError)
	defer server.Close()

	outFile := filepath.Join(t.TempDir(), "out.json")
	err := runCommand(t, "test-token",
		"--endpoint", server.URL,
		"--output-file", outFile,
		"--allow-partial",
	)
	if err != nil {
		t.Fatalf("command failed despite --allow-partial: %v", err)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	var records []fossa.Exception
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want the 2 from page 1", len(records))
	}
}

func TestExport_AuthFailureExitClass(t *testing.T) {
	server := newExceptionsServer(t, nil, 1, http.StatusUnauthorized)
	defer server.Close()

	err := runCommand(t, "bad-token",
		"--endpoint", server.URL,
		"--output-file", filepath.Join(t.TempDir(), "out.json"),
	)
	if err == nil {
		t.Fatal("command succeeded with rejected token")
	}
	if !errors.Is(err, exporterrors.ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
	if code := mapErrorToExitCode(err); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestExport_InvalidFormatRejected(t *testing.T) {
	err := runCommand(t, "test-token", "--output", "xml")
	if err == nil {
		t.Fatal("command accepted invalid output format")
	}
	if !strings.Contains(err.Error(), "invalid output format") {
		t.Errorf("error = %v, want invalid-format message", err)
	}
}

func TestExport_MissingTokenRejected(t *testing.T) {
	t.Setenv("FOSSA_API_KEY", "")

	err := runCommand(t)
	if err == nil {
		t.Fatal("command succeeded without a token")
	}
	if !strings.Contains(err.Error(), "token not found") {
		t.Errorf("error = %v, want missing-token message", err)
	}
}

func TestExport_MetadataFile(t *testing.T) {
	server := newExceptionsServer(t, []string{
		`[{"id":1},{"id":2}]`,
	}, 0, 0)
	defer server.Close()

	outFile := filepath.Join(t.TempDir(), "out.json")
	err := runCommand(t, "test-token",
		"--endpoint", server.URL,
		"--output-file", outFile,
		"--category", "security",
		"--metadata",
	)
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	data, err := os.ReadFile(outFile + ".metadata.json")
	if err != nil {
		t.Fatalf("metadata file not written: %v", err)
	}

	var meta metadata.ExportMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatalf("metadata does not parse: %v", err)
	}
	if meta.Results.TotalRecords != 2 {
		t.Errorf("TotalRecords = %d, want 2", meta.Results.TotalRecords)
	}
	if meta.Results.Pages != 1 {
		t.Errorf("Pages = %d, want 1", meta.Results.Pages)
	}
	if meta.Results.APICalls != 2 {
		t.Errorf("APICalls = %d, want 2 (data page + empty page)", meta.Results.APICalls)
	}
	if meta.Parameters.Category != "security" {
		t.Errorf("Category = %q, want security", meta.Parameters.Category)
	}
	if meta.Results.Partial {
		t.Error("Partial = true for a complete export")
	}
	if meta.ExportID == "" {
		t.Error("ExportID is empty")
	}
}
