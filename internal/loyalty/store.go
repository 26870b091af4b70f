package loyalty

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/imrishuroy/go-storefront/internal/aws"
)

// ErrNotFound indicates the user has no loyalty profile yet.
var ErrNotFound = errors.New("profile not found")

// ErrInsufficientPoints indicates the balance dropped below the redemption
// between the caller's read and the conditional write (a concurrent order).
var ErrInsufficientPoints = errors.New("insufficient points")

// Store encapsulates operations on the profiles table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new loyalty Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Get fetches a profile by user id.
func (s *Store) Get(ctx context.Context, userID string) (*Profile, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var p Profile
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &p, nil
}

// GetOrCreate returns the existing profile or lazily creates a zeroed one.
// Creation is conditional on the key not existing, so two concurrent first
// orders cannot clobber each other; the loser of the race re-reads.
func (s *Store) GetOrCreate(ctx context.Context, userID, email, name string) (*Profile, error) {
	p, err := s.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := s.nowFunc()
	fresh := Profile{
		UserID:    userID,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	item, err := attributevalue.MarshalMap(fresh)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(user_id)"),
	})
	if err != nil {
		var cf *types.ConditionalCheckFailedException
		if errors.As(err, &cf) {
			return s.Get(ctx, userID)
		}
		return nil, fmt.Errorf("put profile: %w", err)
	}
	return &fresh, nil
}

// ApplyOrder applies an order's loyalty delta as one atomic update: points,
// order count and spend are incremented relative to the stored values, never
// from client state. The condition keeps the balance from going negative if
// a concurrent order redeemed points in between.
func (s *Store) ApplyOrder(ctx context.Context, userID string, upd OrderUpdate) error {
	delta := upd.PointsEarned - upd.PointsRedeemed
	values := map[string]types.AttributeValue{
		":dp":    &types.AttributeValueMemberN{Value: strconv.Itoa(delta)},
		":one":   &types.AttributeValueMemberN{Value: "1"},
		":spent": &types.AttributeValueMemberN{Value: strconv.FormatFloat(upd.Spent, 'f', -1, 64)},
		":ua":    &types.AttributeValueMemberS{Value: s.nowFunc().Format(time.RFC3339Nano)},
	}
	condition := "attribute_exists(user_id)"
	if upd.PointsRedeemed > 0 {
		condition = "attribute_exists(user_id) AND points >= :redeemed"
		values[":redeemed"] = &types.AttributeValueMemberN{Value: strconv.Itoa(upd.PointsRedeemed)}
	}

	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
		UpdateExpression:          awsString("SET points = points + :dp, total_orders = total_orders + :one, total_spent = total_spent + :spent, updated_at = :ua"),
		ExpressionAttributeValues: values,
		ConditionExpression:       &condition,
	})
	if err != nil {
		var cf *types.ConditionalCheckFailedException
		if errors.As(err, &cf) {
			return ErrInsufficientPoints
		}
		return fmt.Errorf("apply order to profile: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
