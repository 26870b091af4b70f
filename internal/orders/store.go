package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/imrishuroy/go-storefront/internal/aws"
)

// ErrNotFound indicates an unknown order id or number.
var ErrNotFound = errors.New("order not found")

// ErrBadTransition indicates the requested status change is not allowed by
// the lifecycle (including any update to a terminal order).
var ErrBadTransition = errors.New("illegal status transition")

// Store encapsulates operations on the orders table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create persists a new order. The caller must have set OrderID, OrderNumber
// and Status; CreatedAt/UpdatedAt are stamped here if zero.
func (s *Store) Create(ctx context.Context, order *Order) error {
	now := s.nowFunc()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(order_id)"),
	})
	if err != nil {
		return fmt.Errorf("put order: %w", err)
	}
	return nil
}

// Get fetches an order by its id.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// GetByNumber fetches an order by its human-readable number.
func (s *Store) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	found, err := s.scan(ctx, "order_number = :num", map[string]types.AttributeValue{
		":num": &types.AttributeValueMemberS{Value: orderNumber},
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return &found[0], nil
}

// ListByUser returns the user's orders, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	found, err := s.scan(ctx, "user_id = :uid", map[string]types.AttributeValue{
		":uid": &types.AttributeValueMemberS{Value: userID},
	})
	if err != nil {
		return nil, err
	}
	sortNewestFirst(found)
	return found, nil
}

// ListRecent returns up to limit orders, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Order, error) {
	found, err := s.scan(ctx, "", nil)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(found)
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

// ListPending returns orders awaiting the kitchen, oldest first.
func (s *Store) ListPending(ctx context.Context) ([]Order, error) {
	found, err := s.scan(ctx, "#s = :pending", map[string]types.AttributeValue{
		":pending": &types.AttributeValueMemberS{Value: StatusPending},
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(found, func(i, j int) bool { return found[i].CreatedAt.Before(found[j].CreatedAt) })
	return found, nil
}

// UpdateStatus moves an order to newStatus if the lifecycle allows it.
// The write is conditional on the status we read, so a concurrent admin
// action surfaces as ErrBadTransition instead of a lost update.
func (s *Store) UpdateStatus(ctx context.Context, orderID, newStatus string) (*Order, error) {
	if !KnownStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrBadTransition, newStatus)
	}

	current, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrBadTransition, current.Status, newStatus)
	}

	now := s.nowFunc()
	out, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:         awsString("SET #s = :new, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new":      &types.AttributeValueMemberS{Value: newStatus},
			":ua":       &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
			":expected": &types.AttributeValueMemberS{Value: current.Status},
		},
		ConditionExpression: awsString("#s = :expected"),
		ReturnValues:        types.ReturnValueAllNew,
	})
	if err != nil {
		var cf *types.ConditionalCheckFailedException
		if errors.As(err, &cf) {
			return nil, fmt.Errorf("%w: status changed concurrently", ErrBadTransition)
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	var o Order
	if err := attributevalue.UnmarshalMap(out.Attributes, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

func (s *Store) scan(ctx context.Context, filter string, values map[string]types.AttributeValue) ([]Order, error) {
	input := &dyn.ScanInput{TableName: &s.tableName}
	if filter != "" {
		input.FilterExpression = &filter
		input.ExpressionAttributeValues = values
		if filter == "#s = :pending" {
			input.ExpressionAttributeNames = map[string]string{"#s": "status"}
		}
	}
	orders := []Order{}
	// follow LastEvaluatedKey: a single Scan call stops at 1MB
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan orders: %w", err)
		}
		for _, item := range out.Items {
			var o Order
			if err := attributevalue.UnmarshalMap(item, &o); err != nil {
				return nil, fmt.Errorf("unmarshal order: %w", err)
			}
			orders = append(orders, o)
		}
		if len(out.LastEvaluatedKey) == 0 {
			return orders, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func sortNewestFirst(orders []Order) {
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
}

func awsString(s string) *string { return &s }
