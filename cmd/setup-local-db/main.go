// Command setup-local-db provisions the two application tables on a
// DynamoDB Local instance: Recipes (userId/recipeId) and RateLimit
// (userId/requestId with TTL on the ttl attribute). Safe to re-run.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/kelseyhightower/envconfig"

	internalaws "github.com/chefgpt/chefgpt-api/internal/aws"
	"github.com/chefgpt/chefgpt-api/internal/config"
)

// localConfig is the slice of configuration the provisioning tool
// needs; the full Config requires API credentials this tool does not.
type localConfig struct {
	AWS    config.AWSConfig
	Tables config.TableConfig
}

func main() {
	var cfg localConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.AWS.UseLocalDB = true

	ctx := context.Background()
	awsCfg, err := internalaws.LoadAWSConfig(ctx, cfg.AWS)
	if err != nil {
		log.Fatalf("failed to load AWS config: %v", err)
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = &cfg.AWS.DynamoDBEndpoint
	})

	existing, err := client.ListTables(ctx, &dynamodb.ListTablesInput{})
	if err != nil {
		log.Fatalf("failed to list tables: %v", err)
	}
	log.Printf("existing tables: %v", existing.TableNames)

	if !contains(existing.TableNames, cfg.Tables.Recipes) {
		if err := createTable(ctx, client, cfg.Tables.Recipes, "recipeId"); err != nil {
			log.Fatalf("failed to create recipes table: %v", err)
		}
		log.Printf("created table %s", cfg.Tables.Recipes)
	} else {
		log.Printf("table %s already exists", cfg.Tables.Recipes)
	}

	if !contains(existing.TableNames, cfg.Tables.RateLimit) {
		if err := createTable(ctx, client, cfg.Tables.RateLimit, "requestId"); err != nil {
			log.Fatalf("failed to create rate limit table: %v", err)
		}
		if err := enableTTL(ctx, client, cfg.Tables.RateLimit); err != nil {
			log.Fatalf("failed to enable TTL: %v", err)
		}
		log.Printf("created table %s with TTL enabled", cfg.Tables.RateLimit)
	} else {
		log.Printf("table %s already exists", cfg.Tables.RateLimit)
	}

	log.Println("local database setup complete")
}

func createTable(ctx context.Context, client *dynamodb.Client, name, rangeKey string) error {
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: &name,
		KeySchema: []types.KeySchemaElement{
			{AttributeName: awsString("userId"), KeyType: types.KeyTypeHash},
			{AttributeName: &rangeKey, KeyType: types.KeyTypeRange},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: awsString("userId"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: &rangeKey, AttributeType: types.ScalarAttributeTypeS},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	return err
}

func enableTTL(ctx context.Context, client *dynamodb.Client, name string) error {
	_, err := client.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: &name,
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			Enabled:       awsBool(true),
			AttributeName: awsString("ttl"),
		},
	})
	return err
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func awsString(s string) *string { return &s }

func awsBool(b bool) *bool { return &b }
