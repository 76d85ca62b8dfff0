package document

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"tripstore/config"
	"tripstore/internal/domain/schema"
	"tripstore/internal/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const tableActiveTimeout = 2 * time.Minute

// TableAPI is the part of the DynamoDB client provisioning needs.
type TableAPI interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Provisioner creates the DynamoDB tables and indexes described by the schema.
type Provisioner struct {
	client      TableAPI
	logger      *slog.Logger
	prefix      string
	waitTimeout time.Duration
}

// NewProvisioner is the constructor for Provisioner.
func NewProvisioner(client TableAPI, prefix string, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Provisioner{
		client:      client,
		logger:      logger,
		prefix:      prefix,
		waitTimeout: tableActiveTimeout,
	}
}

// NewDynamoDBClient loads the default AWS configuration for the configured
// region, pointing at a local endpoint when one is set.
func NewDynamoDBClient(ctx context.Context, cfg *config.DynamoDBConfig) (*dynamodb.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// ProvisionTables ensures every schema table exists in the configured account.
func ProvisionTables(ctx context.Context, cfg *config.DynamoDBConfig, prefix string, logger *slog.Logger) error {
	client, err := NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return err
	}

	_, err = NewProvisioner(client, prefix, logger).Ensure(ctx, schema.All())

	return err
}

// Ensure creates the tables that do not exist yet and waits for them to
// become active. It returns the names of the tables it created.
func (p *Provisioner) Ensure(ctx context.Context, tables []schema.Table) ([]string, error) {
	var created []string
	for _, table := range tables {
		name := p.prefix + table.Name

		_, err := p.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
		if err == nil {
			p.logger.Debug("DynamoDB table exists", slog.String("table", name))

			continue
		}

		var notFound *types.ResourceNotFoundException
		if !errors.As(err, &notFound) {
			return created, errors.Wrapf(err, "failed to describe table %s", name)
		}

		if _, err := p.client.CreateTable(ctx, buildCreateTableInput(name, table)); err != nil {
			return created, errors.Wrapf(err, "failed to create table %s", name)
		}

		waiter := dynamodb.NewTableExistsWaiter(p.client)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)}, p.waitTimeout); err != nil {
			return created, errors.Wrapf(err, "table %s did not become active", name)
		}

		p.logger.Info("DynamoDB table created",
			slog.String("table", name),
			slog.Int("indexes", len(table.Indexes)),
		)
		created = append(created, name)
	}

	return created, nil
}

func buildCreateTableInput(name string, table schema.Table) *dynamodb.CreateTableInput {
	defs := map[string]schema.AttrType{}
	addDef := func(k schema.Key) {
		defs[k.Name] = k.Type
	}

	addDef(table.PartitionKey)
	if table.SortKey != nil {
		addDef(*table.SortKey)
	}

	indexes := make([]types.GlobalSecondaryIndex, 0, len(table.Indexes))
	for _, idx := range table.Indexes {
		addDef(idx.PartitionKey)
		if idx.SortKey != nil {
			addDef(*idx.SortKey)
		}
		indexes = append(indexes, types.GlobalSecondaryIndex{
			IndexName:  aws.String(idx.Name),
			KeySchema:  keySchema(idx.PartitionKey, idx.SortKey),
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		})
	}

	attrs := make([]types.AttributeDefinition, 0, len(defs))
	for attr, typ := range defs {
		attrs = append(attrs, types.AttributeDefinition{
			AttributeName: aws.String(attr),
			AttributeType: scalarType(typ),
		})
	}
	slices.SortFunc(attrs, func(a, b types.AttributeDefinition) int {
		return cmp.Compare(aws.ToString(a.AttributeName), aws.ToString(b.AttributeName))
	})

	input := &dynamodb.CreateTableInput{
		TableName:            aws.String(name),
		KeySchema:            keySchema(table.PartitionKey, table.SortKey),
		AttributeDefinitions: attrs,
		BillingMode:          types.BillingModePayPerRequest,
	}
	if len(indexes) > 0 {
		input.GlobalSecondaryIndexes = indexes
	}

	return input
}

func keySchema(partition schema.Key, sort *schema.Key) []types.KeySchemaElement {
	elems := []types.KeySchemaElement{{
		AttributeName: aws.String(partition.Name),
		KeyType:       types.KeyTypeHash,
	}}
	if sort != nil {
		elems = append(elems, types.KeySchemaElement{
			AttributeName: aws.String(sort.Name),
			KeyType:       types.KeyTypeRange,
		})
	}

	return elems
}

func scalarType(t schema.AttrType) types.ScalarAttributeType {
	if t == schema.TypeNumber {
		return types.ScalarAttributeTypeN
	}

	return types.ScalarAttributeTypeS
}
