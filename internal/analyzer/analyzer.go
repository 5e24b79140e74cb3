package analyzer

import (
	"sort"

	"github.com/ppiankov/lambdaspectre/internal/runtimes"
	"github.com/ppiankov/lambdaspectre/internal/scan"
)

// largestN caps how many top-size functions the analysis surfaces.
const largestN = 3

// Analyze computes aggregate statistics over the scanned functions and
// extracts the records worth calling out in the summary.
func Analyze(records []scan.FunctionRecord) *Analysis {
	stats := Stats{
		TotalFunctions:  len(records),
		ByRuntime:       make(map[string]int),
		ByLanguage:      make(map[string]int),
		BySupportStatus: make(map[string]int),
		ByComplexity:    make(map[string]int),
	}

	var deprecated []scan.FunctionRecord
	for _, r := range records {
		stats.ByRuntime[r.Runtime]++
		stats.ByLanguage[r.LanguageName]++
		stats.BySupportStatus[string(r.SupportStatus)]++
		stats.ByComplexity[string(r.ComplexityScore)]++
		stats.TotalCodeSize += r.CodeSizeBytes
		stats.TotalLinesOfCode += r.LinesOfCode

		if r.SupportStatus == runtimes.StatusDeprecated {
			deprecated = append(deprecated, r)
		}
	}
	stats.DeprecatedCount = len(deprecated)

	return &Analysis{
		Stats:      stats,
		Deprecated: deprecated,
		Largest:    largestByLines(records),
	}
}

// largestByLines returns the top functions by line count, skipping
// functions whose code could not be measured.
func largestByLines(records []scan.FunctionRecord) []scan.FunctionRecord {
	measured := make([]scan.FunctionRecord, 0, len(records))
	for _, r := range records {
		if r.LinesOfCode > 0 {
			measured = append(measured, r)
		}
	}

	sort.SliceStable(measured, func(i, j int) bool {
		return measured[i].LinesOfCode > measured[j].LinesOfCode
	})

	if len(measured) > largestN {
		measured = measured[:largestN]
	}
	return measured
}
