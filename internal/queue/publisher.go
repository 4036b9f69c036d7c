package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/service"
)

// Publisher sends booking confirmations to RabbitMQ.  It satisfies
// service.Notifier; every error is returned so the engine can log and drop
// it.
type Publisher struct {
	url string
	log *zap.Logger
}

func NewPublisher(url string, log *zap.Logger) *Publisher {
	return &Publisher{url: url, log: log}
}

var _ service.Notifier = (*Publisher)(nil)

// Notify publishes the notification as a persistent BookingConfirmedEvent.
// A connection is opened per message; confirmations are rare next to
// requests.
func (p *Publisher) Notify(ctx context.Context, n service.Notification) error {
	body, err := json.Marshal(NewBookingConfirmedEvent(n))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.publish(ctx, body)
}

func (p *Publisher) publish(ctx context.Context, body []byte) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := declareBookingQueue(ch); err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",           // default exchange
		BookingQueue, // routing key = queue name
		false,        // mandatory
		false,        // immediate
		pub,
	); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	p.log.Debug("booking event published", zap.Int("bytes", len(body)))
	return nil
}

func declareBookingQueue(ch *amqp.Channel) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		BookingQueue, // name
		true,         // durable
		false,        // autoDelete
		false,        // exclusive
		false,        // noWait
		nil,          // args
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("queue declare: %w", err)
	}
	return q, nil
}
