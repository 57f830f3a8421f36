package recipes

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// simpleMock is a small in-memory stand-in for the DynamoDB client. It
// keys items by "userId|recipeId" and supports the partition queries
// the store issues. Not production-grade.
type simpleMock struct {
	mu    sync.Mutex
	table map[string]map[string]types.AttributeValue

	queryCalls  int
	putCalls    int
	getCalls    int
	deleteCalls int

	failNext error // when set, the next call returns this error once
}

func newSimpleMock() *simpleMock {
	return &simpleMock{table: map[string]map[string]types.AttributeValue{}}
}

func itemKey(owner, recipe string) string { return owner + "|" + recipe }

func attrS(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (m *simpleMock) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *simpleMock) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	owner := attrS(params.Item["userId"])
	recipe := attrS(params.Item["recipeId"])
	if owner == "" || recipe == "" {
		return nil, errors.New("missing key attributes")
	}
	m.table[itemKey(owner, recipe)] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *simpleMock) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	key := itemKey(attrS(params.Key["userId"]), attrS(params.Key["recipeId"]))
	item, ok := m.table[key]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *simpleMock) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	key := itemKey(attrS(params.Key["userId"]), attrS(params.Key["recipeId"]))
	delete(m.table, key)
	return &dyn.DeleteItemOutput{}, nil
}

func (m *simpleMock) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryCalls++
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	owner := attrS(params.ExpressionAttributeValues[":userId"])

	var keys []string
	for k := range m.table {
		if strings.HasPrefix(k, owner+"|") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := &dyn.QueryOutput{Count: int32(len(keys))}
	if params.Select != types.SelectCount {
		for _, k := range keys {
			out.Items = append(out.Items, m.table[k])
		}
	}
	return out, nil
}
