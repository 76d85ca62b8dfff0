package document

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/schema"
)

type fakeTableAPI struct {
	existing map[string]bool
	created  []*dynamodb.CreateTableInput
}

func (f *fakeTableAPI) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if !f.existing[aws.ToString(in.TableName)] {
		return nil, &types.ResourceNotFoundException{Message: aws.String("table not found")}
	}

	return &dynamodb.DescribeTableOutput{
		Table: &types.TableDescription{TableName: in.TableName, TableStatus: types.TableStatusActive},
	}, nil
}

func (f *fakeTableAPI) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.created = append(f.created, in)
	f.existing[aws.ToString(in.TableName)] = true

	return &dynamodb.CreateTableOutput{}, nil
}

func TestBuildCreateTableInput_SavedPlans(t *testing.T) {
	in := buildCreateTableInput("dev_saved_plans", schema.MustFor(entity.TypeSavedPlan))

	assert.Equal(t, "dev_saved_plans", aws.ToString(in.TableName))
	assert.Equal(t, types.BillingModePayPerRequest, in.BillingMode)

	require.Len(t, in.KeySchema, 2)
	assert.Equal(t, "userId", aws.ToString(in.KeySchema[0].AttributeName))
	assert.Equal(t, types.KeyTypeHash, in.KeySchema[0].KeyType)
	assert.Equal(t, "travelPlanId", aws.ToString(in.KeySchema[1].AttributeName))
	assert.Equal(t, types.KeyTypeRange, in.KeySchema[1].KeyType)

	var names []string
	for _, def := range in.AttributeDefinitions {
		names = append(names, aws.ToString(def.AttributeName))
		assert.Equal(t, types.ScalarAttributeTypeS, def.AttributeType)
	}
	assert.Equal(t, []string{"id", "travelPlanId", "travelPlanIdReverse", "userId", "userIdReverse"}, names)

	require.Len(t, in.GlobalSecondaryIndexes, 2)
	for _, gsi := range in.GlobalSecondaryIndexes {
		assert.Equal(t, types.ProjectionTypeAll, gsi.Projection.ProjectionType)
	}
}

func TestBuildCreateTableInput_NumericKeys(t *testing.T) {
	in := buildCreateTableInput("reviews", schema.MustFor(entity.TypeReview))

	attrTypes := map[string]types.ScalarAttributeType{}
	for _, def := range in.AttributeDefinitions {
		attrTypes[aws.ToString(def.AttributeName)] = def.AttributeType
	}
	assert.Equal(t, types.ScalarAttributeTypeN, attrTypes["rating"])
	assert.Equal(t, types.ScalarAttributeTypeS, attrTypes["placeRatingComposite"])
	assert.Len(t, in.GlobalSecondaryIndexes, 5)
}

func TestProvisioner_CreatesOnlyMissingTables(t *testing.T) {
	api := &fakeTableAPI{existing: map[string]bool{"dev_users": true}}
	p := NewProvisioner(api, "dev_", nil)

	created, err := p.Ensure(context.Background(), schema.All())
	require.NoError(t, err)

	assert.Len(t, created, len(schema.All())-1)
	assert.NotContains(t, created, "dev_users")
	assert.Contains(t, created, "dev_saved_plans")
	assert.Len(t, api.created, len(created))

	created, err = p.Ensure(context.Background(), schema.All())
	require.NoError(t, err)
	assert.Empty(t, created)
}
