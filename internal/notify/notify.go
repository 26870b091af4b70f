// Package notify carries the order-confirmation email pipeline: the API
// enqueues an OrderEmail to SQS and the worker renders and sends it.
// Notification is best-effort; a failed enqueue never fails an order.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imrishuroy/go-storefront/internal/aws"
	"github.com/imrishuroy/go-storefront/internal/orders"
)

// OrderEmail is the payload sent from API -> SQS -> worker.
type OrderEmail struct {
	OrderNumber   string        `json:"order_number"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	Items         []orders.Item `json:"items"`
	Total         float64       `json:"total"`
	PointsEarned  int           `json:"points_earned,omitempty"`
	PointsUsed    int           `json:"points_used,omitempty"`
}

// QueueNotifier enqueues confirmation emails to SQS.
type QueueNotifier struct {
	publisher *aws.Publisher
}

// NewQueueNotifier returns a notifier publishing to the given queue.
func NewQueueNotifier(sqsClient aws.SQSAPI, queueURL string) *QueueNotifier {
	return &QueueNotifier{publisher: aws.NewPublisher(sqsClient, queueURL)}
}

// OrderPlaced enqueues a confirmation email for a placed order.
func (n *QueueNotifier) OrderPlaced(ctx context.Context, email OrderEmail) error {
	if email.CustomerEmail == "" {
		return nil
	}
	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("marshal email message: %w", err)
	}
	attrs := map[string]string{
		"order_number": email.OrderNumber,
	}
	if err := n.publisher.SendMessage(ctx, string(body), attrs); err != nil {
		return fmt.Errorf("enqueue order email: %w", err)
	}
	return nil
}
