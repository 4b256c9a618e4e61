package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/resumetry/backend/internal/table"
)

// NewDynamoClient builds a DynamoDB client for AWS or, when endpoint is
// set, for a local DynamoDB (which requires dummy credentials).
func NewDynamoClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if endpoint != "" {
		loadOpts = append(loadOpts,
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("local", "local", "")),
		)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// EnsureTable creates the table if it does not exist and waits for it
// to become active. Provisioning is on-demand.
func EnsureTable(ctx context.Context, ddb *dynamodb.Client, def table.Definition) error {
	_, err := ddb.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: &def.Name,
	})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("describe table: %w", err)
	}

	_, err = ddb.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: &def.Name,
		KeySchema: []types.KeySchemaElement{
			{AttributeName: &def.Keys.PartitionKey.Name, KeyType: types.KeyTypeHash},
			{AttributeName: &def.Keys.SortKey.Name, KeyType: types.KeyTypeRange},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: &def.Keys.PartitionKey.Name, AttributeType: types.ScalarAttributeType(def.Keys.PartitionKey.Kind)},
			{AttributeName: &def.Keys.SortKey.Name, AttributeType: types.ScalarAttributeType(def.Keys.SortKey.Kind)},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		// Another process may have won the create race.
		var inUse *types.ResourceInUseException
		if !errors.As(err, &inUse) {
			return fmt.Errorf("create table: %w", err)
		}
	}

	waiter := dynamodb.NewTableExistsWaiter(ddb)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: &def.Name}, 2*time.Minute); err != nil {
		return fmt.Errorf("wait for table: %w", err)
	}
	return nil
}
