package lambda

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/ppiankov/lambdaspectre/internal/complexity"
	"github.com/ppiankov/lambdaspectre/internal/runtimes"
	"github.com/ppiankov/lambdaspectre/internal/scan"
)

// Scanner inventories the Lambda functions of one account, producing
// one normalized record per function.
type Scanner struct {
	clientFor func(region string) LambdaAPI
	registry  *runtimes.Registry
	estimator *complexity.Estimator
	accountID string // tagged onto records in org mode; empty otherwise
}

// NewScanner creates a scanner. accountID is empty for single-account
// scans and the member account ID for org scans.
func NewScanner(clientFor func(region string) LambdaAPI, registry *runtimes.Registry, estimator *complexity.Estimator, accountID string) *Scanner {
	return &Scanner{
		clientFor: clientFor,
		registry:  registry,
		estimator: estimator,
		accountID: accountID,
	}
}

// ScanRegion implements scan.RegionScanner. A listing failure is
// returned as an error for the orchestrator to record and skip;
// per-function analysis problems degrade that function's complexity
// fields and come back as warnings.
func (s *Scanner) ScanRegion(ctx context.Context, region string) ([]scan.FunctionRecord, []string, error) {
	client := s.clientFor(region)

	functions, err := ListAllFunctions(ctx, client)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("Listed Lambda functions", "region", region, "count", len(functions))

	records := make([]scan.FunctionRecord, 0, len(functions))
	var warnings []string

	for _, fc := range functions {
		record, warns := s.analyzeFunction(ctx, client, region, fc)
		records = append(records, record)
		warnings = append(warnings, warns...)
	}
	return records, warnings, nil
}

// analyzeFunction folds raw metadata, runtime classification, and the
// complexity estimate into one record. It never fails: a fetch problem
// leaves lines_of_code=0 / complexity=low and adds a warning.
func (s *Scanner) analyzeFunction(ctx context.Context, client LambdaAPI, region string, fc lambdatypes.FunctionConfiguration) (scan.FunctionRecord, []string) {
	name := aws.ToString(fc.FunctionName)
	entry := s.registry.Classify(string(fc.Runtime))

	record := scan.FunctionRecord{
		Region:          region,
		AccountID:       s.accountID,
		FunctionName:    name,
		FunctionARN:     aws.ToString(fc.FunctionArn),
		Runtime:         string(fc.Runtime),
		LanguageName:    entry.Language,
		LanguageVersion: entry.Version,
		SupportStatus:   entry.Status,
		AWSSupported:    entry.Status == runtimes.StatusSupported,
		CodeSizeBytes:   fc.CodeSize,
		MemoryMB:        aws.ToInt32(fc.MemorySize),
		TimeoutSeconds:  aws.ToInt32(fc.Timeout),
		LayerCount:      len(fc.Layers),
		ComplexityScore: complexity.ScoreLow,
	}
	if fc.Environment != nil {
		record.EnvironmentVariables = len(fc.Environment.Variables)
	}
	if fc.VpcConfig != nil && aws.ToString(fc.VpcConfig.VpcId) != "" {
		record.VPCConfigured = true
	}

	var warnings []string

	url, err := s.codeLocation(ctx, client, name)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("%s/%s: %v", region, name, err))
		return record, warnings
	}
	record.CodeLocation = url

	estimate, err := s.estimator.Estimate(ctx, url, entry.Language)
	record.LinesOfCode = estimate.LinesOfCode
	record.ComplexityScore = estimate.Score
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("%s/%s: %v", region, name, err))
	}
	return record, warnings
}

// codeLocation fetches the presigned download URL for the function's
// deployment package. Image-packaged functions have no location.
func (s *Scanner) codeLocation(ctx context.Context, client LambdaAPI, name string) (string, error) {
	out, err := client.GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("get function code location: %w", err)
	}
	if out.Code == nil {
		return "", nil
	}
	return aws.ToString(out.Code.Location), nil
}
