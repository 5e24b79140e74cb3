package scan

import (
	"context"
	"time"

	"github.com/ppiankov/lambdaspectre/internal/complexity"
	"github.com/ppiankov/lambdaspectre/internal/runtimes"
)

// FunctionRecord is the normalized description of one Lambda function.
// Records are created once during a scan pass and never mutated.
type FunctionRecord struct {
	Region               string                 `json:"region"`
	AccountID            string                 `json:"account_id,omitempty"`
	FunctionName         string                 `json:"function_name"`
	FunctionARN          string                 `json:"function_arn"`
	Runtime              string                 `json:"runtime"`
	LanguageName         string                 `json:"language_name"`
	LanguageVersion      string                 `json:"language_version"`
	AWSSupported         bool                   `json:"aws_supported"`
	SupportStatus        runtimes.SupportStatus `json:"support_status"`
	CodeSizeBytes        int64                  `json:"code_size_bytes"`
	MemoryMB             int32                  `json:"memory_mb"`
	TimeoutSeconds       int32                  `json:"timeout_seconds"`
	EnvironmentVariables int                    `json:"environment_variable_count"`
	LayerCount           int                    `json:"layer_count"`
	VPCConfigured        bool                   `json:"vpc_configured"`
	LinesOfCode          int                    `json:"lines_of_code"`
	ComplexityScore      complexity.Score       `json:"complexity_score"`
	CodeLocation         string                 `json:"code_location_url,omitempty"`
}

// Report is the aggregate result of one scan pass.
type Report struct {
	ScanTimestamp   time.Time        `json:"scan_timestamp"`
	AccountID       string           `json:"account_id,omitempty"`
	TotalFunctions  int              `json:"total_functions"`
	RegionsScanned  []string         `json:"regions_scanned"`
	AccountsScanned []string         `json:"accounts_scanned,omitempty"`
	Warnings        []string         `json:"warnings,omitempty"`
	Functions       []FunctionRecord `json:"functions"`
}

// DeprecatedRow is the CSV projection of a deprecated-runtime finding.
type DeprecatedRow struct {
	AccountNumber   string
	Region          string
	Language        string
	LanguageVersion string
	Name            string
	ARN             string
}

// Account identifies one AWS account discovered in an organization.
type Account struct {
	ID   string
	Name string
}

// Scope describes what a scan pass should cover.
type Scope struct {
	Regions     []string
	OrgMode     bool
	AccountID   string // resolved primary (scanning or management) account
	Concurrency int
}

// RegionScanner lists and analyzes every function in one region.
// A returned error means the whole region listing failed; per-function
// problems come back as warnings alongside the usable records.
type RegionScanner interface {
	ScanRegion(ctx context.Context, region string) ([]FunctionRecord, []string, error)
}

// AccountResolver supplies org-mode scans with the active account list
// and a credentialed scanner per account.
type AccountResolver interface {
	ListAccounts(ctx context.Context) ([]Account, error)
	ScannerFor(ctx context.Context, account Account) (RegionScanner, error)
}
