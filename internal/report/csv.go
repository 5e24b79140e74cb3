package report

import (
	"encoding/csv"
	"fmt"
)

var csvHeader = []string{"account_number", "region", "language", "language_version", "name", "ARN"}

// Generate writes the deprecated-runtime findings as CSV. An empty
// finding set still yields a header row; callers decide whether the
// file is worth creating at all.
func (r *CSVReporter) Generate(data Data) error {
	w := csv.NewWriter(r.Writer)

	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, row := range data.Deprecated {
		record := []string{
			row.AccountNumber,
			row.Region,
			row.Language,
			row.LanguageVersion,
			row.Name,
			row.ARN,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}
	return nil
}
