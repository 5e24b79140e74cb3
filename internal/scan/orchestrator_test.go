package scan

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/ppiankov/lambdaspectre/internal/complexity"
	"github.com/ppiankov/lambdaspectre/internal/runtimes"
)

// fakeScanner serves canned per-region records and errors.
type fakeScanner struct {
	records  map[string][]FunctionRecord
	warnings map[string][]string
	errs     map[string]error
}

func (f *fakeScanner) ScanRegion(_ context.Context, region string) ([]FunctionRecord, []string, error) {
	if err := f.errs[region]; err != nil {
		return nil, nil, err
	}
	return f.records[region], f.warnings[region], nil
}

// fakeResolver maps accounts to scanners, failing configured IDs.
type fakeResolver struct {
	accounts []Account
	scanners map[string]RegionScanner
	listErr  error
}

func (f *fakeResolver) ListAccounts(_ context.Context) ([]Account, error) {
	return f.accounts, f.listErr
}

func (f *fakeResolver) ScannerFor(_ context.Context, account Account) (RegionScanner, error) {
	s, ok := f.scanners[account.ID]
	if !ok {
		return nil, errors.New("no credentials")
	}
	return s, nil
}

func record(region, account, name string, status runtimes.SupportStatus) FunctionRecord {
	return FunctionRecord{
		Region:          region,
		AccountID:       account,
		FunctionName:    name,
		FunctionARN:     fmt.Sprintf("arn:aws:lambda:%s:%s:function:%s", region, account, name),
		Runtime:         "python3.9",
		LanguageName:    "Python",
		LanguageVersion: "3.9",
		SupportStatus:   status,
		AWSSupported:    status == runtimes.StatusSupported,
		ComplexityScore: complexity.ScoreLow,
	}
}

func fixedOrchestrator(scanner RegionScanner, resolver AccountResolver) *Orchestrator {
	o := NewOrchestrator(scanner, resolver)
	o.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	return o
}

func TestRunSingleAccount(t *testing.T) {
	scanner := &fakeScanner{
		records: map[string][]FunctionRecord{
			"us-east-1": {record("us-east-1", "", "api", runtimes.StatusSupported)},
			"eu-west-1": {record("eu-west-1", "", "worker", runtimes.StatusSupported)},
		},
	}

	o := fixedOrchestrator(scanner, nil)
	report, rows, err := o.Run(context.Background(), Scope{
		Regions:   []string{"us-east-1", "eu-west-1"},
		AccountID: "111111111111",
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.TotalFunctions != 2 {
		t.Errorf("TotalFunctions = %d, want 2", report.TotalFunctions)
	}
	want := []string{"eu-west-1", "us-east-1"}
	if !reflect.DeepEqual(report.RegionsScanned, want) {
		t.Errorf("RegionsScanned = %v, want %v", report.RegionsScanned, want)
	}
	if len(rows) != 0 {
		t.Errorf("deprecated rows = %d, want 0", len(rows))
	}
	if rows == nil {
		t.Error("deprecated rows should be empty, not nil")
	}
}

func TestRunRegionFailureIsSkipped(t *testing.T) {
	scanner := &fakeScanner{
		records: map[string][]FunctionRecord{
			"us-east-1": {record("us-east-1", "", "api", runtimes.StatusSupported)},
		},
		errs: map[string]error{
			"ap-south-1": errors.New("AccessDenied: not authorized"),
		},
	}

	o := fixedOrchestrator(scanner, nil)
	report, _, err := o.Run(context.Background(), Scope{
		Regions: []string{"us-east-1", "ap-south-1"},
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if !reflect.DeepEqual(report.RegionsScanned, []string{"us-east-1"}) {
		t.Errorf("RegionsScanned = %v, want [us-east-1]", report.RegionsScanned)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("Warnings = %d, want 1", len(report.Warnings))
	}
	if report.TotalFunctions != 1 {
		t.Errorf("TotalFunctions = %d, want 1", report.TotalFunctions)
	}
}

func TestRunEmptyRegionStillCountsScanned(t *testing.T) {
	scanner := &fakeScanner{records: map[string][]FunctionRecord{}}

	o := fixedOrchestrator(scanner, nil)
	report, _, err := o.Run(context.Background(), Scope{Regions: []string{"us-west-2"}})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// A successful listing that found nothing still marks the region scanned.
	if !reflect.DeepEqual(report.RegionsScanned, []string{"us-west-2"}) {
		t.Errorf("RegionsScanned = %v, want [us-west-2]", report.RegionsScanned)
	}
}

func TestRunDeprecatedRows(t *testing.T) {
	scanner := &fakeScanner{
		records: map[string][]FunctionRecord{
			"us-east-1": {
				record("us-east-1", "", "legacy", runtimes.StatusDeprecated),
				record("us-east-1", "", "modern", runtimes.StatusSupported),
			},
		},
	}

	o := fixedOrchestrator(scanner, nil)
	_, rows, err := o.Run(context.Background(), Scope{
		Regions:   []string{"us-east-1"},
		AccountID: "111111111111",
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("deprecated rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.Name != "legacy" || row.Region != "us-east-1" {
		t.Errorf("row = %+v", row)
	}
	// Single-account records carry no account ID; the row falls back
	// to the primary scan account.
	if row.AccountNumber != "111111111111" {
		t.Errorf("AccountNumber = %q, want 111111111111", row.AccountNumber)
	}
}

func TestRunOrgSkipsUnreachableAccount(t *testing.T) {
	reachable := &fakeScanner{
		records: map[string][]FunctionRecord{
			"us-east-1": {record("us-east-1", "222222222222", "billing", runtimes.StatusSupported)},
		},
	}
	resolver := &fakeResolver{
		accounts: []Account{
			{ID: "222222222222", Name: "prod"},
			{ID: "333333333333", Name: "sandbox"}, // no scanner → unreachable
		},
		scanners: map[string]RegionScanner{"222222222222": reachable},
	}

	o := fixedOrchestrator(nil, resolver)
	report, _, err := o.Run(context.Background(), Scope{
		Regions:   []string{"us-east-1"},
		OrgMode:   true,
		AccountID: "111111111111",
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.TotalFunctions != 1 {
		t.Errorf("TotalFunctions = %d, want 1", report.TotalFunctions)
	}
	if !reflect.DeepEqual(report.AccountsScanned, []string{"222222222222"}) {
		t.Errorf("AccountsScanned = %v, want [222222222222]", report.AccountsScanned)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("Warnings = %d, want 1", len(report.Warnings))
	}
}

func TestRunOrgListAccountsFatal(t *testing.T) {
	resolver := &fakeResolver{listErr: errors.New("AWSOrganizationsNotInUseException")}

	o := fixedOrchestrator(nil, resolver)
	_, _, err := o.Run(context.Background(), Scope{Regions: []string{"us-east-1"}, OrgMode: true})
	if err == nil {
		t.Fatal("expected fatal error when the organization cannot be enumerated")
	}
}

func TestRunDeterministicAcrossConcurrency(t *testing.T) {
	regions := []string{"ap-northeast-2", "eu-west-1", "us-east-1", "us-west-2"}
	scanner := &fakeScanner{records: map[string][]FunctionRecord{}}
	for _, region := range regions {
		for _, name := range []string{"zeta", "alpha", "mid"} {
			scanner.records[region] = append(scanner.records[region],
				record(region, "", name, runtimes.StatusSupported))
		}
	}

	run := func(concurrency int) *Report {
		o := fixedOrchestrator(scanner, nil)
		report, _, err := o.Run(context.Background(), Scope{Regions: regions, Concurrency: concurrency})
		if err != nil {
			t.Fatalf("Run(concurrency=%d) error: %v", concurrency, err)
		}
		return report
	}

	serial := run(1)
	parallel := run(8)

	if !reflect.DeepEqual(serial.Functions, parallel.Functions) {
		t.Error("functions differ between concurrency 1 and 8")
	}
	if !reflect.DeepEqual(serial.RegionsScanned, parallel.RegionsScanned) {
		t.Error("regions differ between concurrency 1 and 8")
	}

	// Sorted by region then name.
	first := serial.Functions[0]
	if first.Region != "ap-northeast-2" || first.FunctionName != "alpha" {
		t.Errorf("first record = %s/%s, want ap-northeast-2/alpha", first.Region, first.FunctionName)
	}
}

func TestRunIdempotent(t *testing.T) {
	scanner := &fakeScanner{
		records: map[string][]FunctionRecord{
			"us-east-1": {record("us-east-1", "", "api", runtimes.StatusDeprecated)},
		},
	}

	o := fixedOrchestrator(scanner, nil)
	scope := Scope{Regions: []string{"us-east-1"}, AccountID: "111111111111"}

	r1, rows1, err := o.Run(context.Background(), scope)
	if err != nil {
		t.Fatal(err)
	}
	r2, rows2, err := o.Run(context.Background(), scope)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(r1.Functions, r2.Functions) {
		t.Error("functions differ between identical runs")
	}
	if !reflect.DeepEqual(rows1, rows2) {
		t.Error("deprecated rows differ between identical runs")
	}
}
