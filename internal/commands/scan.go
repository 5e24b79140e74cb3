package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/ppiankov/lambdaspectre/internal/analyzer"
	"github.com/ppiankov/lambdaspectre/internal/complexity"
	"github.com/ppiankov/lambdaspectre/internal/config"
	awslambda "github.com/ppiankov/lambdaspectre/internal/lambda"
	"github.com/ppiankov/lambdaspectre/internal/orgs"
	"github.com/ppiankov/lambdaspectre/internal/report"
	"github.com/ppiankov/lambdaspectre/internal/runtimes"
	"github.com/ppiankov/lambdaspectre/internal/scan"
)

var scanFlags struct {
	profile         string
	regions         []string
	allRegions      bool
	org             bool
	roleName        string
	concurrency     int
	format          string
	outputFile      string
	csvFile         string
	downloadTimeout time.Duration
	timeout         time.Duration
	noProgress      bool
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Inventory Lambda functions and flag deprecated runtimes",
	Long: `Scan Lambda functions in one account or across an AWS Organization,
classify every runtime against the end-of-support schedule, and write a full
JSON inventory plus a CSV of deprecated-runtime findings.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanFlags.profile, "profile", "", "AWS profile name")
	scanCmd.Flags().StringSliceVar(&scanFlags.regions, "regions", nil, "Regions to scan (comma-separated)")
	scanCmd.Flags().BoolVar(&scanFlags.allRegions, "all-regions", false, "Scan every region enabled for the account")
	scanCmd.Flags().BoolVar(&scanFlags.org, "org", false, "Scan all active accounts in the AWS Organization")
	scanCmd.Flags().StringVar(&scanFlags.roleName, "role", orgs.DefaultRoleName, "IAM role to assume in member accounts")
	scanCmd.Flags().IntVar(&scanFlags.concurrency, "concurrency", scan.DefaultConcurrency, "Parallel (account, region) listings")
	scanCmd.Flags().StringVar(&scanFlags.format, "format", "text", "Console output format: text or json")
	scanCmd.Flags().StringVarP(&scanFlags.outputFile, "output", "o", "lambda_report.json", "Base name for the JSON inventory file")
	scanCmd.Flags().StringVar(&scanFlags.csvFile, "csv", "deprecated_functions.csv", "Base name for the deprecated-runtime CSV")
	scanCmd.Flags().DurationVar(&scanFlags.downloadTimeout, "download-timeout", complexity.DefaultDownloadTimeout, "Timeout per deployment package download")
	scanCmd.Flags().DurationVar(&scanFlags.timeout, "timeout", 10*time.Minute, "Overall scan timeout")
	scanCmd.Flags().BoolVar(&scanFlags.noProgress, "no-progress", false, "Disable progress output")
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(".")
	if err != nil {
		slog.Warn("Failed to load config file", "error", err)
	}
	applyScanConfigDefaults(cfg)

	ctx := cmd.Context()
	if scanFlags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, scanFlags.timeout)
		defer cancel()
	}

	profile := scanFlags.profile
	if profile == "" {
		profile = cfg.Profile
	}

	client, err := awslambda.NewClient(ctx, profile, "")
	if err != nil {
		return enhanceError("initialize AWS client", err)
	}

	// The primary identity must resolve; everything past this point
	// degrades to warnings instead.
	accountID, err := client.AccountID(ctx)
	if err != nil {
		return enhanceError("resolve scan identity", err)
	}
	slog.Info("Scanning as account", "account", accountID)

	regions, err := resolveRegions(ctx, client)
	if err != nil {
		return enhanceError("resolve regions", err)
	}

	registry := runtimes.Default()
	estimator := complexity.NewEstimator(scanFlags.downloadTimeout, thresholdsFromConfig(cfg))
	scanner := awslambda.NewScanner(client.LambdaFor, registry, estimator, "")

	var resolver scan.AccountResolver
	if scanFlags.org {
		resolver = orgs.NewResolver(
			organizations.NewFromConfig(client.Config()),
			accountID,
			[]orgs.CredentialStrategy{
				orgs.NewProfileStrategy(),
				orgs.NewAssumeRoleStrategy(client.Config(), scanFlags.roleName),
			},
			func(memberCfg aws.Config, memberID string) scan.RegionScanner {
				member := awslambda.NewClientFromConfig(memberCfg)
				return awslambda.NewScanner(member.LambdaFor, registry, estimator, memberID)
			},
		)
	}

	orchestrator := scan.NewOrchestrator(scanner, resolver)

	var spin *spinner.Spinner
	if !scanFlags.noProgress {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		spin.Suffix = fmt.Sprintf(" scanning %d regions...", len(regions))
		spin.Start()
	}

	result, deprecated, err := orchestrator.Run(ctx, scan.Scope{
		Regions:     regions,
		OrgMode:     scanFlags.org,
		AccountID:   accountID,
		Concurrency: scanFlags.concurrency,
	})

	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return enhanceError("scan", err)
	}

	data := report.Data{
		Tool:       "lambdaspectre",
		Version:    version,
		Report:     result,
		Deprecated: deprecated,
		Analysis:   analyzer.Analyze(result.Functions),
	}

	reporter, err := consoleReporter(scanFlags.format)
	if err != nil {
		return err
	}

	if err := writeReportFiles(data); err != nil {
		return err
	}
	return reporter.Generate(data)
}

// resolveRegions picks the region set: explicit flags, then config,
// then discovery when --all-regions or nothing else is given.
func resolveRegions(ctx context.Context, client *awslambda.Client) ([]string, error) {
	if scanFlags.allRegions {
		return client.DiscoverRegions(ctx)
	}
	if len(scanFlags.regions) > 0 {
		return scanFlags.regions, nil
	}
	if region := client.Region(); region != "" {
		return []string{region}, nil
	}
	return client.DiscoverRegions(ctx)
}

// writeReportFiles writes the timestamped JSON inventory and, only
// when deprecated findings exist, the CSV.
func writeReportFiles(data report.Data) error {
	jsonPath := report.TimestampedName(scanFlags.outputFile, data.Report.AccountID, data.Report.ScanTimestamp)
	err := writeFileReport(jsonPath, data, func(w *os.File) report.Reporter {
		return &report.JSONReporter{Writer: w}
	})
	if err != nil {
		return err
	}
	slog.Info("Wrote inventory report", "path", jsonPath)

	if len(data.Deprecated) == 0 {
		return nil
	}
	csvPath := report.TimestampedName(scanFlags.csvFile, data.Report.AccountID, data.Report.ScanTimestamp)
	err = writeFileReport(csvPath, data, func(w *os.File) report.Reporter {
		return &report.CSVReporter{Writer: w}
	})
	if err != nil {
		return err
	}
	slog.Info("Wrote deprecated-runtime CSV", "path", csvPath, "findings", len(data.Deprecated))
	return nil
}

func writeFileReport(path string, data report.Data, build func(*os.File) report.Reporter) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := build(f).Generate(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// consoleReporter selects the stdout formatter.
func consoleReporter(format string) (report.Reporter, error) {
	switch format {
	case "text":
		return &report.TextReporter{Writer: os.Stdout}, nil
	case "json":
		return &report.JSONReporter{Writer: os.Stdout}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use text or json)", format)
	}
}

func applyScanConfigDefaults(cfg config.Config) {
	if scanFlags.format == "text" && cfg.Format != "" {
		scanFlags.format = cfg.Format
	}
	if len(scanFlags.regions) == 0 && len(cfg.Regions) > 0 {
		scanFlags.regions = cfg.Regions
	}
	if scanFlags.roleName == orgs.DefaultRoleName && cfg.RoleName != "" {
		scanFlags.roleName = cfg.RoleName
	}
	if scanFlags.concurrency == scan.DefaultConcurrency && cfg.Concurrency > 0 {
		scanFlags.concurrency = cfg.Concurrency
	}
	if scanFlags.outputFile == "lambda_report.json" && cfg.Output != "" {
		scanFlags.outputFile = cfg.Output
	}
	if scanFlags.downloadTimeout == complexity.DefaultDownloadTimeout {
		if d := cfg.DownloadTimeoutDuration(); d > 0 {
			scanFlags.downloadTimeout = d
		}
	}
	if scanFlags.timeout == 10*time.Minute {
		if d := cfg.TimeoutDuration(); d > 0 {
			scanFlags.timeout = d
		}
	}
}

func thresholdsFromConfig(cfg config.Config) complexity.Thresholds {
	th := complexity.DefaultThresholds
	if cfg.Complexity.MediumMin > 0 {
		th.MediumMin = cfg.Complexity.MediumMin
	}
	if cfg.Complexity.HighMax > 0 {
		th.HighMax = cfg.Complexity.HighMax
	}
	return th
}
