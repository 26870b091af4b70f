package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/imrishuroy/go-storefront/internal/aws"
)

// ErrNotFound indicates the product id does not exist in the table.
var ErrNotFound = errors.New("product not found")

// Store encapsulates operations on the products table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
	newID     func() string
}

// NewStore creates a new catalog Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
		newID:     uuid.NewString,
	}
}

// List returns available products, optionally restricted to one category.
// Soft-deleted products are never returned.
func (s *Store) List(ctx context.Context, category string) ([]Product, error) {
	filter := "available = :avail"
	values := map[string]types.AttributeValue{
		":avail": &types.AttributeValueMemberBOOL{Value: true},
	}
	if category != "" && category != "all" {
		filter += " AND category = :cat"
		values[":cat"] = &types.AttributeValueMemberS{Value: category}
	}

	input := &dyn.ScanInput{
		TableName:                 &s.tableName,
		FilterExpression:          &filter,
		ExpressionAttributeValues: values,
	}
	products := []Product{}
	// follow LastEvaluatedKey: a single Scan call stops at 1MB
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan products: %w", err)
		}
		for _, item := range out.Items {
			var p Product
			if err := attributevalue.UnmarshalMap(item, &p); err != nil {
				return nil, fmt.Errorf("unmarshal product: %w", err)
			}
			products = append(products, p)
		}
		if len(out.LastEvaluatedKey) == 0 {
			return products, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// hasAny reports whether the table holds any record at all, soft-deleted
// ones included.
func (s *Store) hasAny(ctx context.Context) (bool, error) {
	limit := int32(1)
	out, err := s.client.Scan(ctx, &dyn.ScanInput{
		TableName: &s.tableName,
		Limit:     &limit,
	})
	if err != nil {
		return false, fmt.Errorf("scan products: %w", err)
	}
	return len(out.Items) > 0 || len(out.LastEvaluatedKey) > 0, nil
}

// Get fetches a product by id regardless of availability, so admin views and
// historical order lines can still resolve soft-deleted items.
func (s *Store) Get(ctx context.Context, productID string) (*Product, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var p Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

// Create assigns an id, defaults availability to true and persists the record.
func (s *Store) Create(ctx context.Context, np NewProduct) (*Product, error) {
	now := s.nowFunc()
	p := Product{
		ProductID:   s.newID(),
		Name:        np.Name,
		Description: np.Description,
		Price:       np.Price,
		Category:    np.Category,
		ImageURL:    np.ImageURL,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return nil, fmt.Errorf("marshal product: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("put product: %w", err)
	}
	return &p, nil
}

// Update merges the provided fields onto the stored record and re-stamps
// updated_at. Returns ErrNotFound if the id is absent.
func (s *Store) Update(ctx context.Context, productID string, patch ProductPatch) (*Product, error) {
	sets := []string{"updated_at = :ua"}
	values := map[string]types.AttributeValue{
		":ua": &types.AttributeValueMemberS{Value: s.nowFunc().Format(time.RFC3339Nano)},
	}
	names := map[string]string{}

	if patch.Name != nil {
		names["#n"] = "name"
		sets = append(sets, "#n = :name")
		values[":name"] = &types.AttributeValueMemberS{Value: *patch.Name}
	}
	if patch.Description != nil {
		sets = append(sets, "description = :desc")
		values[":desc"] = &types.AttributeValueMemberS{Value: *patch.Description}
	}
	if patch.Price != nil {
		sets = append(sets, "price = :price")
		values[":price"] = &types.AttributeValueMemberN{Value: formatFloat(*patch.Price)}
	}
	if patch.Category != nil {
		sets = append(sets, "category = :cat")
		values[":cat"] = &types.AttributeValueMemberS{Value: *patch.Category}
	}
	if patch.ImageURL != nil {
		sets = append(sets, "image_url = :img")
		values[":img"] = &types.AttributeValueMemberS{Value: *patch.ImageURL}
	}
	if patch.Available != nil {
		sets = append(sets, "available = :avail")
		values[":avail"] = &types.AttributeValueMemberBOOL{Value: *patch.Available}
	}

	updateExpr := "SET " + strings.Join(sets, ", ")
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
		UpdateExpression:          &updateExpr,
		ExpressionAttributeValues: values,
		ConditionExpression:       awsString("attribute_exists(product_id)"),
		ReturnValues:              types.ReturnValueAllNew,
	}
	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}

	out, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var cf *types.ConditionalCheckFailedException
		if errors.As(err, &cf) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	var p Product
	if err := attributevalue.UnmarshalMap(out.Attributes, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

// SoftDelete marks the product unavailable. The record is kept so past order
// lines stay resolvable; calling it twice is a no-op, not an error.
func (s *Store) SoftDelete(ctx context.Context, productID string) error {
	updateExpr := "SET available = :false, updated_at = :ua"
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
		UpdateExpression: &updateExpr,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":false": &types.AttributeValueMemberBOOL{Value: false},
			":ua":    &types.AttributeValueMemberS{Value: s.nowFunc().Format(time.RFC3339Nano)},
		},
		ConditionExpression: awsString("attribute_exists(product_id)"),
	})
	if err != nil {
		var cf *types.ConditionalCheckFailedException
		if errors.As(err, &cf) {
			return ErrNotFound
		}
		return fmt.Errorf("soft delete product: %w", err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}

func awsString(s string) *string { return &s }
