package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initFlags struct {
	force bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate sample config and IAM policy",
	Long:  `Creates a sample .lambdaspectre.yaml config file and a read-only IAM policy for scanning.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite existing files")
}

func runInit(_ *cobra.Command, _ []string) error {
	configPath := ".lambdaspectre.yaml"
	policyPath := "lambdaspectre-policy.json"

	if err := writeIfNotExists(configPath, sampleConfig, initFlags.force); err != nil {
		return err
	}
	if err := writeIfNotExists(policyPath, sampleIAMPolicy, initFlags.force); err != nil {
		return err
	}

	fmt.Printf("Created %s and %s\n", configPath, policyPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit .lambdaspectre.yaml to set profile and regions")
	fmt.Println("  2. Apply lambdaspectre-policy.json to your IAM role/user")
	fmt.Println("  3. Run: lambdaspectre scan  OR  lambdaspectre scan --org --all-regions")
	return nil
}

func writeIfNotExists(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Skipping %s (already exists, use --force to overwrite)\n", path)
			return nil
		}
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return os.WriteFile(path, []byte(content), 0o644)
}

const sampleConfig = `# lambdaspectre configuration
# See: https://github.com/ppiankov/lambdaspectre

# AWS profile (or set AWS_PROFILE env var)
# profile: default

# Regions to scan (default: profile region, or all enabled regions)
# regions:
#   - us-east-1
#   - us-west-2

# IAM role assumed in member accounts for --org scans
role_name: OrganizationAccountAccessRole

# Parallel (account, region) listings
concurrency: 16

# Base name for the JSON inventory file
output: lambda_report.json

# Console output format: text or json
format: text

# Overall scan timeout
timeout: 10m

# Timeout per deployment package download
download_timeout: 30s

# Line-count boundaries for the complexity score
# complexity:
#   medium_min: 100
#   high_max: 500
`

const sampleIAMPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Sid": "LambdaSpectreReadOnly",
      "Effect": "Allow",
      "Action": [
        "lambda:ListFunctions",
        "lambda:GetFunction",
        "ec2:DescribeRegions",
        "organizations:DescribeOrganization",
        "organizations:ListAccounts",
        "sts:AssumeRole",
        "sts:GetCallerIdentity"
      ],
      "Resource": "*"
    }
  ]
}
`
