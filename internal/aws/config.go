package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/chefgpt/chefgpt-api/internal/config"
)

// LoadAWSConfig builds the SDK config. In local mode DynamoDB Local
// accepts any credentials, so a static fake pair is injected instead of
// the default chain.
func LoadAWSConfig(ctx context.Context, cfg config.AWSConfig) (sdkaws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.UseLocalDB {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("fakeAccessKeyId", "fakeSecretAccessKey", ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return awsCfg, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return awsCfg, nil
}
