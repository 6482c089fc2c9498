package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/Cheertaboi/restaurant-service/internal/logger"
	"github.com/Cheertaboi/restaurant-service/internal/models"
)

const publishTimeout = 5 * time.Second

// Publisher sends domain events to the configured topic exchange.
type Publisher struct {
	conn    *Connection
	log     *slog.Logger
	timeout time.Duration
}

func NewPublisher(conn *Connection, log *slog.Logger) *Publisher {
	return &Publisher{conn: conn, log: log, timeout: publishTimeout}
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, o models.Order) error {
	key, event := newOrderPlaced(o)
	return p.publish(ctx, key, event)
}

func (p *Publisher) PublishReservationConfirmed(ctx context.Context, r models.Reservation) error {
	key, event := newReservationConfirmed(r)
	return p.publish(ctx, key, event)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	msg := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		MessageId:    logger.RequestID(ctx),
	}

	// Publishing must not outlive the request by much, but the event should
	// still go out if the request context was cancelled right after commit.
	// The timeout covers waiting for the lock and any redial.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.conn.lock(ctx); err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	defer p.conn.unlock()

	ch, err := p.conn.channelLocked(ctx)
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx,
		p.conn.exchange, // exchange
		routingKey,      // routing key
		false,           // mandatory
		false,           // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	logger.FromContext(ctx, p.log).Debug("message published",
		slog.String("exchange", p.conn.exchange),
		slog.String("routing_key", routingKey),
		slog.Int("message_size", len(body)),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, models.Order) error { return nil }

func (NopPublisher) PublishReservationConfirmed(context.Context, models.Reservation) error {
	return nil
}
