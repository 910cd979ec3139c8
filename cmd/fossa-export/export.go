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
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/fossa-export/internal/config"
	exporterrors "github.com/sirseerhq/fossa-export/internal/errors"
	"github.com/sirseerhq/fossa-export/internal/export"
	"github.com/sirseerhq/fossa-export/internal/fossa"
	"github.com/sirseerhq/fossa-export/internal/metadata"
	"github.com/sirseerhq/fossa-export/pkg/version"
)

// exportOptions carries the merged flag/env/config parameters for one run.
type exportOptions struct {
	category      string
	count         int
	format        string
	endpoint      string
	outputFile    string
	allowPartial  bool
	writeMetadata bool
}

// newRootCommand builds the fossa-export command. The export runs directly
// on the root command; there are no subcommands.
func newRootCommand() *cobra.Command {
	var (
		category      string
		count         int
		format        string
		endpoint      string
		outputFile    string
		configPath    string
		logLevel      string
		allowPartial  bool
		writeMetadata bool
	)

	cmd := &cobra.Command{
		Use:   "fossa-export <access_token>",
		Short: "Export FOSSA issue exceptions to a local file",
		Long: `fossa-export fetches issue-exception records from the FOSSA API and
saves them to a local file. It pages through the exceptions endpoint until
exhaustion and writes the accumulated records as a JSON array, a CSV file,
or newline-delimited JSON.

Authentication is required via a FOSSA API bearer token:
  - Pass the token as the first argument
  - Or set the FOSSA_API_KEY environment variable`,
		Version:       version.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(logLevel)

			token := getToken(args)
			if token == "" {
				return fmt.Errorf("FOSSA API token not found. Pass it as an argument or set FOSSA_API_KEY")
			}

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			// Flags take precedence over environment and config file.
			if cmd.Flags().Changed("category") {
				cfg.Defaults.Category = category
			}
			if cmd.Flags().Changed("count") {
				cfg.Defaults.Count = count
			}
			if cmd.Flags().Changed("output") {
				cfg.Defaults.Format = format
			}
			if cmd.Flags().Changed("endpoint") {
				cfg.API.Endpoint = endpoint
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			client := fossa.NewRESTClient(token, cfg.API.Endpoint, logger)

			return runExport(cmd.Context(), client, exportOptions{
				category:      cfg.Defaults.Category,
				count:         cfg.Defaults.Count,
				format:        cfg.Defaults.Format,
				endpoint:      cfg.API.Endpoint,
				outputFile:    outputFile,
				allowPartial:  allowPartial,
				writeMetadata: writeMetadata,
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", config.DefaultCategory, "Category filter (e.g. licensing, security)")
	cmd.Flags().IntVar(&count, "count", config.DefaultCount, "Number of items per page")
	cmd.Flags().StringVar(&format, "output", config.DefaultFormat, "Output format (json, csv or ndjson)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "FOSSA exceptions endpoint URL (overrides config)")
	cmd.Flags().StringVar(&outputFile, "output-file", "", "Output file path (default: paginated_results.<format>)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&allowPartial, "allow-partial", false, "Export records fetched so far instead of failing when the API returns an error status")
	cmd.Flags().BoolVar(&writeMetadata, "metadata", false, "Write an export metadata file next to the output file")

	return cmd
}

// getToken returns the API token from the positional argument or the
// FOSSA_API_KEY environment variable.
func getToken(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return os.Getenv("FOSSA_API_KEY")
}

// newLogger builds the stderr logger. Progress output stays on plain
// stderr; the logger carries request-level diagnostics behind --log-level.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}

// runExport executes the full export: paginate, serialize, report.
func runExport(ctx context.Context, client fossa.Client, opts exportOptions) error {
	exporter, err := export.New(opts.format)
	if err != nil {
		return err
	}

	tracker := metadata.New()

	records, fetchErr := fetchAllExceptions(ctx, client, opts.category, opts.count, tracker)
	partial := false
	if fetchErr != nil {
		// Only status-caused failures are eligible for partial export;
		// transport failures and malformed responses are always fatal.
		if !opts.allowPartial || !exporterrors.IsStatus(fetchErr) {
			return fetchErr
		}
		fmt.Fprintf(os.Stderr, "Warning: %v\n", fetchErr)
		fmt.Fprintf(os.Stderr, "Exporting the %d records fetched from earlier pages.\n", len(records))
		partial = true
	}

	filename := opts.outputFile
	if filename == "" {
		filename = export.Filename(opts.format)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := exporter.Export(records, file); err != nil {
		file.Close()
		// Don't leave an empty output file behind when nothing was written.
		_ = os.Remove(filename)
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	if opts.writeMetadata {
		meta := tracker.GenerateMetadata(version.Version, metadata.ExportParams{
			Category: opts.category,
			Count:    opts.count,
			Format:   opts.format,
			Endpoint: opts.endpoint,
		}, partial)
		if err := metadata.Save(meta, filename+".metadata.json"); err != nil {
			return err
		}
	}

	fmt.Printf("Pagination complete. %d records retrieved and saved to %q.\n", len(records), filename)
	return nil
}

// fetchAllExceptions pages through the exceptions endpoint until a page
// comes back empty. The accumulated result set is returned even on error,
// so the caller can decide whether a partial export is acceptable.
func fetchAllExceptions(ctx context.Context, client fossa.Client, category string, count int, tracker *metadata.Tracker) ([]fossa.Exception, error) {
	var results []fossa.Exception

	for page := 1; ; page++ {
		fetchOpts := fossa.FetchOptions{
			Category: category,
			Page:     page,
			Count:    count,
		}

		resp, err := client.FetchExceptions(ctx, fetchOpts)
		if err != nil {
			return results, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}
		tracker.IncrementAPICall()

		if len(resp.Exceptions) == 0 {
			return results, nil
		}

		results = append(results, resp.Exceptions...)
		tracker.RecordPage(len(resp.Exceptions))

		fmt.Fprintf(os.Stderr, "paginate: %d (%d records)\n", page, len(results))
	}
}
