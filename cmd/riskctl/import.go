package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/slopewatch/landslide-risk/internal/adapter/sqlite"
	"github.com/slopewatch/landslide-risk/internal/domain"
	"github.com/spf13/cobra"
)

// CSV columns: latitude, longitude, occurred_at (RFC 3339 or date only),
// severity, notes. A header row is detected and skipped.
func newImportIncidentsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import-incidents <file.csv>",
		Short: "Load recorded landslide incidents into the incident database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			repo, err := sqlite.NewRepository(dbPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			imported, err := importIncidents(cmd, repo, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d incidents into %s\n", imported, dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "incidents.db", "path to the incident database")
	return cmd
}

func importIncidents(cmd *cobra.Command, repo *sqlite.Repository, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	imported := 0
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read csv: %w", err)
		}
		line++

		inc, err := parseIncident(record)
		if err != nil {
			if line == 1 {
				// Header row.
				continue
			}
			return imported, fmt.Errorf("line %d: %w", line, err)
		}

		if err := repo.Insert(cmd.Context(), inc); err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		imported++
	}
	return imported, nil
}

func parseIncident(record []string) (domain.Incident, error) {
	if len(record) < 4 {
		return domain.Incident{}, fmt.Errorf("expected at least 4 columns, got %d", len(record))
	}

	lat, err := strconv.ParseFloat(record[0], 64)
	if err != nil {
		return domain.Incident{}, fmt.Errorf("invalid latitude %q", record[0])
	}
	lon, err := strconv.ParseFloat(record[1], 64)
	if err != nil {
		return domain.Incident{}, fmt.Errorf("invalid longitude %q", record[1])
	}
	coord, err := domain.NewCoordinate(lat, lon)
	if err != nil {
		return domain.Incident{}, err
	}

	occurredAt, err := time.Parse(time.RFC3339, record[2])
	if err != nil {
		occurredAt, err = time.Parse("2006-01-02", record[2])
		if err != nil {
			return domain.Incident{}, fmt.Errorf("invalid occurred_at %q", record[2])
		}
	}

	inc := domain.Incident{
		Location:   coord,
		OccurredAt: occurredAt,
		Severity:   record[3],
	}
	if len(record) > 4 {
		inc.Notes = record[4]
	}
	return inc, nil
}
