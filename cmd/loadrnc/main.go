// Command loadrnc loads a DGII RNC padron export into the local
// taxpayer registry cache. The export is a pipe-delimited text file
// with the RNC in the first column, legal name in the second, and the
// taxpayer status in the last populated column.
// Usage: go run ./cmd/loadrnc -file DGII_RNC_PUB.TXT
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"colmado/internal/config"
	"colmado/internal/domain"
	"colmado/internal/registry"
	"colmado/internal/repository/postgres"
)

const batchSize = 1000

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	path := flag.String("file", "", "path to the DGII padron export")
	delimiter := flag.String("delimiter", "|", "field delimiter")
	statusCol := flag.Int("status-col", 9, "zero-based index of the status column")
	flag.Parse()

	if *path == "" {
		return fmt.Errorf("-file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	repo := postgres.NewRegistryRepo(db)

	f, err := os.Open(*path)
	if err != nil {
		return fmt.Errorf("open padron file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = rune((*delimiter)[0])
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	ctx := context.Background()
	now := time.Now().UTC()
	var batch []domain.TaxpayerEntry
	var total, skipped int

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read padron row: %w", err)
		}
		entry, ok := parseRow(row, *statusCol, now)
		if !ok {
			skipped++
			continue
		}
		batch = append(batch, entry)
		if len(batch) >= batchSize {
			n, err := repo.BulkUpsert(ctx, batch)
			if err != nil {
				return fmt.Errorf("upsert batch: %w", err)
			}
			total += n
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		n, err := repo.BulkUpsert(ctx, batch)
		if err != nil {
			return fmt.Errorf("upsert final batch: %w", err)
		}
		total += n
	}

	log.Printf("loaded %d registry entries (%d rows skipped)", total, skipped)
	return nil
}

// parseRow converts one padron row into a registry entry. Rows with a
// malformed identifier or no usable status are skipped, not fatal; the
// export carries historical junk.
func parseRow(row []string, statusCol int, now time.Time) (domain.TaxpayerEntry, bool) {
	if len(row) < 2 {
		return domain.TaxpayerEntry{}, false
	}
	taxID := registry.Normalize(row[0])
	if len(taxID) != 9 && len(taxID) != 11 {
		return domain.TaxpayerEntry{}, false
	}
	name := strings.TrimSpace(row[1])
	if name == "" {
		return domain.TaxpayerEntry{}, false
	}

	status := domain.TaxpayerSuspended
	if statusCol < len(row) {
		raw := strings.ToUpper(strings.TrimSpace(row[statusCol]))
		switch raw {
		case string(domain.TaxpayerActive):
			status = domain.TaxpayerActive
		case string(domain.TaxpayerCancelled):
			status = domain.TaxpayerCancelled
		case string(domain.TaxpayerSuspended):
			status = domain.TaxpayerSuspended
		default:
			return domain.TaxpayerEntry{}, false
		}
	}

	return domain.TaxpayerEntry{
		TaxID:      taxID,
		LegalName:  name,
		Status:     status,
		LastSynced: now,
	}, true
}
