// Package orgs enumerates AWS Organization accounts and resolves
// cross-account credentials for scanning them.
package orgs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/ppiankov/lambdaspectre/internal/scan"
)

// DefaultRoleName is the role assumed in member accounts when no
// profile matches and no role override is given. AWS creates it in
// every account provisioned through Organizations.
const DefaultRoleName = "OrganizationAccountAccessRole"

// OrganizationsAPI defines the subset of the Organizations API used here.
type OrganizationsAPI interface {
	DescribeOrganization(ctx context.Context, input *organizations.DescribeOrganizationInput, opts ...func(*organizations.Options)) (*organizations.DescribeOrganizationOutput, error)
	ListAccounts(ctx context.Context, input *organizations.ListAccountsInput, opts ...func(*organizations.Options)) (*organizations.ListAccountsOutput, error)
}

// CredentialStrategy resolves an AWS config scoped to a member account.
type CredentialStrategy interface {
	Resolve(ctx context.Context, accountID string) (aws.Config, error)
}

// verifyIdentity returns the account ID the config authenticates as.
func verifyIdentity(ctx context.Context, cfg aws.Config) (string, error) {
	out, err := sts.NewFromConfig(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.Account), nil
}

// ProfileStrategy tries a shared-config profile named after the
// account ID, accepting it only when STS confirms the identity lands
// in that account.
type ProfileStrategy struct {
	loadConfig func(ctx context.Context, profile string) (aws.Config, error)
	verify     func(ctx context.Context, cfg aws.Config) (string, error)
}

// NewProfileStrategy creates a profile-based strategy.
func NewProfileStrategy() *ProfileStrategy {
	return &ProfileStrategy{
		loadConfig: func(ctx context.Context, profile string) (aws.Config, error) {
			return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithSharedConfigProfile(profile))
		},
		verify: verifyIdentity,
	}
}

// Resolve implements CredentialStrategy.
func (s *ProfileStrategy) Resolve(ctx context.Context, accountID string) (aws.Config, error) {
	cfg, err := s.loadConfig(ctx, accountID)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load profile %s: %w", accountID, err)
	}
	got, err := s.verify(ctx, cfg)
	if err != nil {
		return aws.Config{}, fmt.Errorf("verify profile %s: %w", accountID, err)
	}
	if got != accountID {
		return aws.Config{}, fmt.Errorf("profile %s authenticates as account %s", accountID, got)
	}
	slog.Debug("Using shared-config profile for account", "account", accountID)
	return cfg, nil
}

// AssumeRoleStrategy assumes an IAM role in the member account using
// the primary identity's STS credentials.
type AssumeRoleStrategy struct {
	base     aws.Config
	roleName string
	verify   func(ctx context.Context, cfg aws.Config) (string, error)
}

// NewAssumeRoleStrategy creates an assume-role strategy. An empty
// roleName falls back to DefaultRoleName.
func NewAssumeRoleStrategy(base aws.Config, roleName string) *AssumeRoleStrategy {
	if roleName == "" {
		roleName = DefaultRoleName
	}
	return &AssumeRoleStrategy{base: base, roleName: roleName, verify: verifyIdentity}
}

// Resolve implements CredentialStrategy.
func (s *AssumeRoleStrategy) Resolve(ctx context.Context, accountID string) (aws.Config, error) {
	roleARN := fmt.Sprintf("arn:aws:iam::%s:role/%s", accountID, s.roleName)

	provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(s.base), roleARN, func(o *stscreds.AssumeRoleOptions) {
		o.RoleSessionName = "lambdaspectre-" + accountID
		o.Duration = time.Hour
	})

	cfg := s.base.Copy()
	cfg.Credentials = aws.NewCredentialsCache(provider)

	got, err := s.verify(ctx, cfg)
	if err != nil {
		return aws.Config{}, fmt.Errorf("assume role %s: %w", roleARN, err)
	}
	if got != accountID {
		return aws.Config{}, fmt.Errorf("role %s authenticates as account %s", roleARN, got)
	}
	slog.Debug("Assumed cross-account role", "account", accountID, "role", s.roleName)
	return cfg, nil
}

// Resolver lists active organization accounts and builds per-account
// scanners, trying credential strategies in order. It implements
// scan.AccountResolver.
type Resolver struct {
	org        OrganizationsAPI
	primaryID  string
	strategies []CredentialStrategy
	newScanner func(cfg aws.Config, accountID string) scan.RegionScanner
}

// NewResolver creates a resolver. primaryID is the caller's account;
// org scanning requires it to be the organization's management account.
func NewResolver(org OrganizationsAPI, primaryID string, strategies []CredentialStrategy, newScanner func(cfg aws.Config, accountID string) scan.RegionScanner) *Resolver {
	return &Resolver{
		org:        org,
		primaryID:  primaryID,
		strategies: strategies,
		newScanner: newScanner,
	}
}

// ListAccounts returns every ACTIVE account in the organization after
// confirming the caller is the management account.
func (r *Resolver) ListAccounts(ctx context.Context) ([]scan.Account, error) {
	desc, err := r.org.DescribeOrganization(ctx, &organizations.DescribeOrganizationInput{})
	if err != nil {
		return nil, fmt.Errorf("describe organization: %w", err)
	}

	management := aws.ToString(desc.Organization.MasterAccountId)
	if r.primaryID != management {
		return nil, fmt.Errorf("account %s is not the management account (%s); organization scanning requires management account credentials", r.primaryID, management)
	}

	var accounts []scan.Account
	input := &organizations.ListAccountsInput{}
	for {
		out, err := r.org.ListAccounts(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list organization accounts: %w", err)
		}
		for _, a := range out.Accounts {
			if a.Status != orgtypes.AccountStatusActive {
				continue
			}
			accounts = append(accounts, scan.Account{
				ID:   aws.ToString(a.Id),
				Name: aws.ToString(a.Name),
			})
		}
		if out.NextToken == nil || *out.NextToken == "" {
			break
		}
		input.NextToken = out.NextToken
	}

	slog.Info("Found active organization accounts", "count", len(accounts))
	return accounts, nil
}

// ScannerFor resolves credentials for the account and wraps them in a
// region scanner. Strategies are tried in order; the first success
// wins.
func (r *Resolver) ScannerFor(ctx context.Context, account scan.Account) (scan.RegionScanner, error) {
	var errs []error
	for _, strategy := range r.strategies {
		cfg, err := strategy.Resolve(ctx, account.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return r.newScanner(cfg, account.ID), nil
	}
	return nil, fmt.Errorf("no usable credentials: %w", errors.Join(errs...))
}
