package report

import (
	"encoding/json"
	"fmt"
)

// Generate writes the full inventory report as indented JSON.
func (r *JSONReporter) Generate(data Data) error {
	enc := json.NewEncoder(r.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data.Report); err != nil {
		return fmt.Errorf("encode JSON report: %w", err)
	}
	return nil
}
