package lambda

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// LambdaAPI defines the subset of the Lambda API used by the scanner.
type LambdaAPI interface {
	ListFunctions(ctx context.Context, input *lambda.ListFunctionsInput, opts ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error)
	GetFunction(ctx context.Context, input *lambda.GetFunctionInput, opts ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error)
}

// Client wraps the AWS SDK configuration for creating per-region
// service clients.
type Client struct {
	cfg aws.Config
}

// NewClient creates a new AWS client using the specified profile and region.
func NewClient(ctx context.Context, profile, region string) (*Client, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Client{cfg: cfg}, nil
}

// NewClientFromConfig wraps an already-resolved AWS config, used for
// cross-account sessions.
func NewClientFromConfig(cfg aws.Config) *Client {
	return &Client{cfg: cfg}
}

// Config returns the underlying AWS config.
func (c *Client) Config() aws.Config {
	return c.cfg
}

// Region returns the configured region.
func (c *Client) Region() string {
	return c.cfg.Region
}

// LambdaFor creates a Lambda service client bound to the given region.
func (c *Client) LambdaFor(region string) LambdaAPI {
	return lambda.NewFromConfig(c.cfg, func(o *lambda.Options) {
		o.Region = region
	})
}

// AccountID resolves the caller's account via STS. Failure here means
// the scan identity is unusable and the run should abort.
func (c *Client) AccountID(ctx context.Context) (string, error) {
	out, err := sts.NewFromConfig(c.cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("resolve caller identity: %w", err)
	}
	slog.Debug("Resolved AWS identity", "arn", aws.ToString(out.Arn))
	return aws.ToString(out.Account), nil
}

// DiscoverRegions lists the regions enabled for the account.
func (c *Client) DiscoverRegions(ctx context.Context) ([]string, error) {
	out, err := ec2.NewFromConfig(c.cfg).DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		return nil, fmt.Errorf("describe regions: %w", err)
	}

	regions := make([]string, 0, len(out.Regions))
	for _, r := range out.Regions {
		regions = append(regions, aws.ToString(r.RegionName))
	}
	sort.Strings(regions)

	slog.Debug("Discovered enabled regions", "count", len(regions))
	return regions, nil
}

// ListAllFunctions returns every function in the client's region using
// pagination.
func ListAllFunctions(ctx context.Context, client LambdaAPI) ([]lambdatypes.FunctionConfiguration, error) {
	var functions []lambdatypes.FunctionConfiguration
	input := &lambda.ListFunctionsInput{}

	for {
		out, err := client.ListFunctions(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list functions: %w", err)
		}
		functions = append(functions, out.Functions...)
		if out.NextMarker == nil || *out.NextMarker == "" {
			break
		}
		input.Marker = out.NextMarker
	}

	return functions, nil
}
