package report

import (
	"io"

	"github.com/ppiankov/lambdaspectre/internal/analyzer"
	"github.com/ppiankov/lambdaspectre/internal/scan"
)

// Reporter is the interface for output formatters.
type Reporter interface {
	Generate(data Data) error
}

// Data holds all information needed to generate a report.
type Data struct {
	Tool       string               `json:"tool"`
	Version    string               `json:"version"`
	Report     *scan.Report         `json:"report"`
	Deprecated []scan.DeprecatedRow `json:"-"`
	Analysis   *analyzer.Analysis   `json:"analysis"`
}

// TextReporter generates the human-readable console summary.
type TextReporter struct {
	Writer io.Writer
}

// JSONReporter generates the full inventory as indented JSON.
type JSONReporter struct {
	Writer io.Writer
}

// CSVReporter generates the deprecated-runtime findings as CSV.
type CSVReporter struct {
	Writer io.Writer
}
