package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/lambdaspectre/internal/analyzer"
	"github.com/ppiankov/lambdaspectre/internal/complexity"
	"github.com/ppiankov/lambdaspectre/internal/runtimes"
	"github.com/ppiankov/lambdaspectre/internal/scan"
)

func sampleData() Data {
	functions := []scan.FunctionRecord{
		{
			Region:          "us-east-1",
			FunctionName:    "legacy-api",
			FunctionARN:     "arn:aws:lambda:us-east-1:111111111111:function:legacy-api",
			Runtime:         "python3.6",
			LanguageName:    "Python",
			LanguageVersion: "3.6",
			SupportStatus:   runtimes.StatusDeprecated,
			CodeSizeBytes:   1200,
			LinesOfCode:     200,
			ComplexityScore: complexity.ScoreMedium,
		},
		{
			Region:          "us-east-1",
			FunctionName:    "modern-api",
			FunctionARN:     "arn:aws:lambda:us-east-1:111111111111:function:modern-api",
			Runtime:         "python3.12",
			LanguageName:    "Python",
			LanguageVersion: "3.12",
			AWSSupported:    true,
			SupportStatus:   runtimes.StatusSupported,
			CodeSizeBytes:   4800,
			LinesOfCode:     50,
			ComplexityScore: complexity.ScoreLow,
		},
	}

	report := &scan.Report{
		ScanTimestamp:  time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC),
		AccountID:      "111111111111",
		TotalFunctions: 2,
		RegionsScanned: []string{"us-east-1"},
		Functions:      functions,
	}

	return Data{
		Tool:    "lambdaspectre",
		Version: "0.1.0",
		Report:  report,
		Deprecated: []scan.DeprecatedRow{
			{
				AccountNumber:   "111111111111",
				Region:          "us-east-1",
				Language:        "Python",
				LanguageVersion: "3.6",
				Name:            "legacy-api",
				ARN:             "arn:aws:lambda:us-east-1:111111111111:function:legacy-api",
			},
		},
		Analysis: analyzer.Analyze(functions),
	}
}

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &JSONReporter{Writer: &buf}

	if err := r.Generate(sampleData()); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, `"function_name": "legacy-api"`) {
		t.Error("missing function record")
	}
	if !strings.Contains(output, `"support_status": "deprecated"`) {
		t.Error("missing support status")
	}
	if !strings.Contains(output, `"account_id": "111111111111"`) {
		t.Error("missing account id")
	}

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
}

func TestTextReporterWithDeprecated(t *testing.T) {
	var buf bytes.Buffer
	r := &TextReporter{Writer: &buf}

	if err := r.Generate(sampleData()); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "lambdaspectre") {
		t.Error("missing header")
	}
	if !strings.Contains(output, "Total functions:   2") {
		t.Error("missing total")
	}
	if !strings.Contains(output, "By runtime") {
		t.Error("missing runtime breakdown")
	}
	if !strings.Contains(output, "python3.6") {
		t.Error("missing runtime entry")
	}
	if !strings.Contains(output, "(50.0%)") {
		t.Error("missing percentage")
	}
	if !strings.Contains(output, "Deprecated runtimes (1 functions)") {
		t.Error("missing deprecated section")
	}
	if !strings.Contains(output, "legacy-api") {
		t.Error("missing deprecated function name")
	}
	if !strings.Contains(output, "Largest functions") {
		t.Error("missing largest section")
	}
}

func TestTextReporterNoFunctions(t *testing.T) {
	data := sampleData()
	data.Report.Functions = nil
	data.Report.TotalFunctions = 0
	data.Analysis = analyzer.Analyze(nil)
	data.Deprecated = nil

	var buf bytes.Buffer
	r := &TextReporter{Writer: &buf}

	if err := r.Generate(data); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(buf.String(), "No Lambda functions found.") {
		t.Error("missing empty-inventory message")
	}
}

func TestTextReporterNoDeprecated(t *testing.T) {
	data := sampleData()
	data.Report.Functions = data.Report.Functions[1:]
	data.Analysis = analyzer.Analyze(data.Report.Functions)
	data.Deprecated = nil

	var buf bytes.Buffer
	r := &TextReporter{Writer: &buf}

	if err := r.Generate(data); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(buf.String(), "No functions on deprecated runtimes.") {
		t.Error("missing all-clear message")
	}
}

func TestTextReporterWarnings(t *testing.T) {
	data := sampleData()
	data.Report.Warnings = []string{"eu-west-1: AccessDenied"}

	var buf bytes.Buffer
	r := &TextReporter{Writer: &buf}

	if err := r.Generate(data); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(buf.String(), "Warnings (1):") {
		t.Error("missing warnings section")
	}
}

func TestCSVReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CSVReporter{Writer: &buf}

	if err := r.Generate(sampleData()); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][0] != "account_number" || rows[0][5] != "ARN" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "111111111111" || rows[1][4] != "legacy-api" {
		t.Errorf("row = %v", rows[1])
	}
}

func TestTimestampedName(t *testing.T) {
	at := time.Date(2026, 2, 28, 9, 30, 15, 0, time.UTC)

	got := TimestampedName("lambda_report.json", "111111111111", at)
	if got != "20260228-093015-111111111111_lambda_report.json" {
		t.Errorf("TimestampedName() = %q", got)
	}

	got = TimestampedName("lambda_report.json", "", at)
	if got != "20260228-093015-lambda_report.json" {
		t.Errorf("TimestampedName() without account = %q", got)
	}
}
