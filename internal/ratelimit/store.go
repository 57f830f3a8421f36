// Package ratelimit gates recipe generation to at most one event per
// rolling window per owner. Events are keyed by a time-prefixed range
// key so the window check is a single sorted-range query; an epoch
// seconds TTL lets DynamoDB purge stale records in the background. The
// TTL is not load-bearing: the window comparison is explicit.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/chefgpt/chefgpt-api/internal/apperr"
	"github.com/chefgpt/chefgpt-api/internal/aws"
)

// requestIDPrefix namespaces generation events within the range key.
const requestIDPrefix = "gen#"

// Record is the item stored in the RateLimit table.
type Record struct {
	OwnerID   string `dynamodbav:"userId"`    // PK
	RequestID string `dynamodbav:"requestId"` // SK, "gen#<unix millis>"
	TTL       int64  `dynamodbav:"ttl"`       // epoch seconds, consumed by DynamoDB TTL
}

// Store encapsulates throttle records against DynamoDB.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	window    time.Duration
	nowFunc   func() time.Time
}

// NewStore returns a Store enforcing one generation per window.
func NewStore(client aws.DynamoDBAPI, tableName string, window time.Duration) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		window:    window,
		nowFunc:   time.Now,
	}
}

// requestID encodes t into the sortable range-key form. Millisecond
// epoch values keep a fixed width for the relevant future, so the
// lexicographic order of requestIds matches time order.
func requestID(t time.Time) string {
	return fmt.Sprintf("%s%d", requestIDPrefix, t.UnixMilli())
}

// Allowed reports whether the owner may generate now: true iff no
// record exists with an event time strictly inside the current window.
func (s *Store) Allowed(ctx context.Context, ownerID string) (bool, error) {
	windowStart := requestID(s.nowFunc().Add(-s.window))

	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		KeyConditionExpression: awsString("userId = :userId AND requestId > :windowStart"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userId":      &types.AttributeValueMemberS{Value: ownerID},
			":windowStart": &types.AttributeValueMemberS{Value: windowStart},
		},
		Select: types.SelectCount,
	})
	if err != nil {
		return false, apperr.Mark(fmt.Errorf("query rate limit: %w", err), apperr.ErrStoreUnavailable)
	}

	// Count == 0 means no recent generations; the owner is allowed.
	return out.Count == 0, nil
}

// RecordGeneration writes one throttle record for the owner at the
// current time. Called only after a generated recipe has been
// persisted, so a failed attempt never consumes the window.
func (s *Store) RecordGeneration(ctx context.Context, ownerID string) error {
	now := s.nowFunc()
	rec := Record{
		OwnerID:   ownerID,
		RequestID: requestID(now),
		TTL:       now.Add(s.window).Unix(),
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return apperr.Mark(fmt.Errorf("marshal rate limit record: %w", err), apperr.ErrStoreUnavailable)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return apperr.Mark(fmt.Errorf("put rate limit record: %w", err), apperr.ErrStoreUnavailable)
	}
	return nil
}

func awsString(s string) *string { return &s }
