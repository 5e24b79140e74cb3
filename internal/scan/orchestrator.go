package scan

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/lambdaspectre/internal/runtimes"
)

// DefaultConcurrency caps how many (account, region) units run at once.
const DefaultConcurrency = 16

// Orchestrator drives a scan across regions and, in org mode, across
// accounts. Results are merged deterministically so concurrency level
// never changes report content.
type Orchestrator struct {
	scanner  RegionScanner   // single-account mode
	resolver AccountResolver // org mode
	now      func() time.Time
}

// NewOrchestrator creates an orchestrator. scanner serves
// single-account scans, resolver serves org scans; either may be nil
// when the corresponding mode is unused.
func NewOrchestrator(scanner RegionScanner, resolver AccountResolver) *Orchestrator {
	return &Orchestrator{scanner: scanner, resolver: resolver, now: time.Now}
}

// unit is one independent (account, region) listing to perform.
type unit struct {
	account Account
	scanner RegionScanner
	region  string
}

// unitResult is the private accumulator slot for one unit.
type unitResult struct {
	records  []FunctionRecord
	warnings []string
	err      error
}

// Run executes a scan pass. Region listing failures and unreachable
// accounts become warnings and skips; the report is always best-effort.
// Only a failure to enumerate the organization itself is fatal.
func (o *Orchestrator) Run(ctx context.Context, scope Scope) (*Report, []DeprecatedRow, error) {
	started := o.now()
	var warnings []string

	units, accountsScanned, err := o.buildUnits(ctx, scope, &warnings)
	if err != nil {
		return nil, nil, err
	}

	concurrency := scope.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	// Each unit writes only its own slot; no locking needed.
	results := make([]unitResult, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			records, warns, err := u.scanner.ScanRegion(gctx, u.region)
			results[i] = unitResult{records: records, warnings: warns, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var records []FunctionRecord
	regionSet := make(map[string]bool)

	for i, u := range units {
		res := results[i]
		if res.err != nil {
			warnings = append(warnings, unitWarning(u, res.err))
			slog.Warn("Region listing failed", "region", u.region, "account", u.account.ID, "error", res.err)
			continue
		}
		regionSet[u.region] = true
		warnings = append(warnings, res.warnings...)
		records = append(records, res.records...)
	}

	sortRecords(records)

	report := &Report{
		ScanTimestamp:   started,
		AccountID:       scope.AccountID,
		TotalFunctions:  len(records),
		RegionsScanned:  sortedKeys(regionSet),
		AccountsScanned: accountsScanned,
		Warnings:        warnings,
		Functions:       records,
	}
	return report, o.deprecatedRows(records, scope), nil
}

// buildUnits expands the scope into independent work units. In org
// mode an account whose credentials cannot be resolved is skipped with
// a warning and contributes no units.
func (o *Orchestrator) buildUnits(ctx context.Context, scope Scope, warnings *[]string) ([]unit, []string, error) {
	if !scope.OrgMode {
		units := make([]unit, 0, len(scope.Regions))
		for _, region := range scope.Regions {
			units = append(units, unit{scanner: o.scanner, region: region})
		}
		return units, nil, nil
	}

	accounts, err := o.resolver.ListAccounts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list organization accounts: %w", err)
	}
	slog.Info("Resolved organization accounts", "count", len(accounts))

	var units []unit
	var scanned []string
	for _, account := range accounts {
		scanner, err := o.resolver.ScannerFor(ctx, account)
		if err != nil {
			*warnings = append(*warnings, fmt.Sprintf("account %s (%s): %v", account.ID, account.Name, err))
			slog.Warn("Skipping unreachable account", "account", account.ID, "error", err)
			continue
		}
		scanned = append(scanned, account.ID)
		for _, region := range scope.Regions {
			units = append(units, unit{account: account, scanner: scanner, region: region})
		}
	}
	sort.Strings(scanned)
	return units, scanned, nil
}

// deprecatedRows projects deprecated-runtime records, preserving the
// sorted record order. The result is empty, never nil.
func (o *Orchestrator) deprecatedRows(records []FunctionRecord, scope Scope) []DeprecatedRow {
	rows := make([]DeprecatedRow, 0)
	for _, r := range records {
		if r.SupportStatus != runtimes.StatusDeprecated {
			continue
		}
		account := r.AccountID
		if account == "" {
			account = scope.AccountID
		}
		rows = append(rows, DeprecatedRow{
			AccountNumber:   account,
			Region:          r.Region,
			Language:        r.LanguageName,
			LanguageVersion: r.LanguageVersion,
			Name:            r.FunctionName,
			ARN:             r.FunctionARN,
		})
	}
	return rows
}

func unitWarning(u unit, err error) string {
	if u.account.ID != "" {
		return fmt.Sprintf("%s/%s: %v", u.account.ID, u.region, err)
	}
	return fmt.Sprintf("%s: %v", u.region, err)
}

// sortRecords orders records by region, then account, then name so
// parallel and sequential runs produce identical reports.
func sortRecords(records []FunctionRecord) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.AccountID != b.AccountID {
			return a.AccountID < b.AccountID
		}
		return a.FunctionName < b.FunctionName
	})
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
