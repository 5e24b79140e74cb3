package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// Generate writes the human-readable console summary.
func (r *TextReporter) Generate(data Data) error {
	w := &errWriter{w: r.Writer}
	stats := data.Analysis.Stats
	report := data.Report

	w.printf("%s — Lambda Runtime Inventory\n", data.Tool)
	w.println(strings.Repeat("=", 40))
	w.println("")

	w.printf("Scanned at:        %s\n", report.ScanTimestamp.Format("2006-01-02 15:04:05 MST"))
	if report.AccountID != "" {
		w.printf("Account:           %s\n", report.AccountID)
	}
	w.printf("Regions scanned:   %d (%s)\n", len(report.RegionsScanned), strings.Join(report.RegionsScanned, ", "))
	if len(report.AccountsScanned) > 0 {
		w.printf("Accounts scanned:  %d\n", len(report.AccountsScanned))
	}
	w.printf("Total functions:   %d\n", stats.TotalFunctions)
	w.println("")

	if stats.TotalFunctions == 0 {
		w.println("No Lambda functions found.")
		writeWarnings(w, report.Warnings)
		return w.err
	}

	writeBreakdown(w, "By runtime", stats.ByRuntime, stats.TotalFunctions)
	writeBreakdown(w, "By language", stats.ByLanguage, stats.TotalFunctions)
	writeBreakdown(w, "By support status", stats.BySupportStatus, stats.TotalFunctions)
	writeBreakdown(w, "By complexity", stats.ByComplexity, stats.TotalFunctions)

	w.println("Code size")
	w.println("---------")
	w.printf("Total:   %s\n", humanize.Bytes(uint64(stats.TotalCodeSize)))
	w.printf("Average: %s\n", humanize.Bytes(uint64(stats.TotalCodeSize/int64(stats.TotalFunctions))))
	if stats.TotalLinesOfCode > 0 {
		w.printf("Lines of code (measured): %s\n", humanize.Comma(int64(stats.TotalLinesOfCode)))
	}
	w.println("")

	if len(data.Analysis.Largest) > 0 {
		w.println("Largest functions")
		w.println("-----------------")
		for i, f := range data.Analysis.Largest {
			w.printf("%d. %s (%s, %d lines, %s)\n",
				i+1, f.FunctionName, f.Runtime, f.LinesOfCode, humanize.Bytes(uint64(f.CodeSizeBytes)))
		}
		w.println("")
	}

	if err := r.writeDeprecated(w, data); err != nil {
		return err
	}

	writeWarnings(w, report.Warnings)
	return w.err
}

func (r *TextReporter) writeDeprecated(w *errWriter, data Data) error {
	deprecated := data.Analysis.Deprecated
	if len(deprecated) == 0 {
		w.println("No functions on deprecated runtimes.")
		w.println("")
		return w.err
	}

	w.printf("Deprecated runtimes (%d functions)\n", len(deprecated))
	w.println(strings.Repeat("-", 34))

	tw := tabwriter.NewWriter(w.w, 0, 4, 2, ' ', 0)
	tww := &errWriter{w: tw}
	tww.printf("FUNCTION\tREGION\tRUNTIME\tLANGUAGE\n")
	for _, f := range deprecated {
		tww.printf("%s\t%s\t%s\t%s %s\n",
			f.FunctionName, f.Region, f.Runtime, f.LanguageName, f.LanguageVersion)
	}
	if tww.err != nil {
		return tww.err
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	w.println("")
	return w.err
}

// writeBreakdown prints a sorted histogram with percentages.
func writeBreakdown(w *errWriter, title string, m map[string]int, total int) {
	if len(m) == 0 {
		return
	}

	w.println(title)
	w.println(strings.Repeat("-", len(title)))

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		count := m[k]
		w.printf("%-20s %4d (%.1f%%)\n", k, count, float64(count)*100/float64(total))
	}
	w.println("")
}

func writeWarnings(w *errWriter, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	w.printf("Warnings (%d):\n", len(warnings))
	for _, warning := range warnings {
		w.printf("  - %s\n", warning)
	}
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
