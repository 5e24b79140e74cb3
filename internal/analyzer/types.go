package analyzer

import (
	"github.com/ppiankov/lambdaspectre/internal/scan"
)

// Stats holds aggregated statistics over the scanned functions.
type Stats struct {
	TotalFunctions   int            `json:"total_functions"`
	ByRuntime        map[string]int `json:"by_runtime"`
	ByLanguage       map[string]int `json:"by_language"`
	BySupportStatus  map[string]int `json:"by_support_status"`
	ByComplexity     map[string]int `json:"by_complexity"`
	TotalCodeSize    int64          `json:"total_code_size_bytes"`
	TotalLinesOfCode int            `json:"total_lines_of_code"`
	DeprecatedCount  int            `json:"deprecated_count"`
}

// Analysis holds the statistics plus the records that need attention.
type Analysis struct {
	Stats      Stats                 `json:"stats"`
	Deprecated []scan.FunctionRecord `json:"deprecated"`
	Largest    []scan.FunctionRecord `json:"largest"`
}
