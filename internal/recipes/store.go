package recipes

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/chefgpt/chefgpt-api/internal/apperr"
	"github.com/chefgpt/chefgpt-api/internal/aws"
)

// Store encapsulates operations on the Recipes table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewStore creates a recipes Store bound to tableName.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
	}
}

// CountByOwner returns the number of recipes in the owner's partition.
// Pages through LastEvaluatedKey so the count is exact over committed
// state regardless of partition size.
func (s *Store) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	total := 0
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Query(ctx, &dyn.QueryInput{
			TableName:              &s.tableName,
			KeyConditionExpression: awsString("userId = :userId"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":userId": &types.AttributeValueMemberS{Value: ownerID},
			},
			Select:            types.SelectCount,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return 0, apperr.Mark(fmt.Errorf("count recipes: %w", err), apperr.ErrStoreUnavailable)
		}
		total += int(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			return total, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// GetByID fetches one recipe by exact key. Returns (nil, nil) when absent.
func (s *Store) GetByID(ctx context.Context, ownerID, recipeID string) (*Recipe, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"userId":   &types.AttributeValueMemberS{Value: ownerID},
			"recipeId": &types.AttributeValueMemberS{Value: recipeID},
		},
	})
	if err != nil {
		return nil, apperr.Mark(fmt.Errorf("get recipe: %w", err), apperr.ErrStoreUnavailable)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var r Recipe
	if err := attributevalue.UnmarshalMap(out.Item, &r); err != nil {
		return nil, apperr.Mark(fmt.Errorf("unmarshal recipe: %w", err), apperr.ErrStoreUnavailable)
	}
	return &r, nil
}

// ListByOwner returns all recipes for the owner, newest first. The
// range key is a random UUID, so creation order has to come from the
// createdAt attribute rather than the key sort.
func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]Recipe, error) {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Query(ctx, &dyn.QueryInput{
			TableName:              &s.tableName,
			KeyConditionExpression: awsString("userId = :userId"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":userId": &types.AttributeValueMemberS{Value: ownerID},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, apperr.Mark(fmt.Errorf("list recipes: %w", err), apperr.ErrStoreUnavailable)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	result := make([]Recipe, 0, len(items))
	for _, item := range items {
		var r Recipe
		if err := attributevalue.UnmarshalMap(item, &r); err != nil {
			return nil, apperr.Mark(fmt.Errorf("unmarshal recipe: %w", err), apperr.ErrStoreUnavailable)
		}
		result = append(result, r)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt > result[j].CreatedAt
	})
	return result, nil
}

// Create writes the recipe unconditionally. A duplicate (userId,
// recipeId) key is silently overwritten; ids are freshly generated v4
// UUIDs per write, so a collision is negligible.
func (s *Store) Create(ctx context.Context, recipe Recipe) error {
	item, err := attributevalue.MarshalMap(recipe)
	if err != nil {
		return apperr.Mark(fmt.Errorf("marshal recipe: %w", err), apperr.ErrStoreUnavailable)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return apperr.Mark(fmt.Errorf("put recipe: %w", err), apperr.ErrStoreUnavailable)
	}
	return nil
}

// DeleteByID removes the recipe if present. Deleting an absent key is a
// no-op, so the operation is idempotent.
func (s *Store) DeleteByID(ctx context.Context, ownerID, recipeID string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"userId":   &types.AttributeValueMemberS{Value: ownerID},
			"recipeId": &types.AttributeValueMemberS{Value: recipeID},
		},
	})
	if err != nil {
		return apperr.Mark(fmt.Errorf("delete recipe: %w", err), apperr.ErrStoreUnavailable)
	}
	return nil
}

func awsString(s string) *string { return &s }
