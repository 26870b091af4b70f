package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/go-storefront/internal/notify"
)

// Processor drains the confirmation-email queue.
type Processor struct {
	sender Sender
}

// NewProcessor creates a worker processor sending through the given Sender.
func NewProcessor(sender Sender) *Processor {
	return &Processor{sender: sender}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	log.Printf("received %d SQS messages", len(ev.Records))
	for _, rec := range ev.Records {
		if err := p.processMessage(rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(rec events.SQSMessage) error {
	var email notify.OrderEmail
	if err := json.Unmarshal([]byte(rec.Body), &email); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if email.CustomerEmail == "" {
		// nothing to deliver; drop rather than retry forever
		log.Printf("[worker] order %s has no customer email, skipping", email.OrderNumber)
		return nil
	}

	log.Printf("[worker] sending confirmation for order=%s to=%s", email.OrderNumber, email.CustomerEmail)
	if err := p.sender.Send(email); err != nil {
		return err
	}
	log.Printf("[worker] sent confirmation for order=%s", email.OrderNumber)
	return nil
}
