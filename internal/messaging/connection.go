package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const (
	dialAttempts   = 5
	defaultDialCap = 30 * time.Second
)

// Connection wraps a RabbitMQ connection and channel, redialling when the
// broker drops it. Every wait, including for the lock, is bounded by the
// caller's context.
type Connection struct {
	sem      chan struct{} // held while the channel is used or replaced
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	url      string
	exchange string
	log      *slog.Logger
}

func newConnection(url, exchange string, log *slog.Logger) *Connection {
	return &Connection{sem: make(chan struct{}, 1), url: url, exchange: exchange, log: log}
}

// Dial connects to url and declares exchange as a durable topic exchange,
// retrying with backoff until ctx ends.
func Dial(ctx context.Context, url, exchange string, log *slog.Logger) (*Connection, error) {
	c := newConnection(url, exchange, log)
	if err := c.connect(ctx, dialAttempts); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}
	return c, nil
}

func (c *Connection) lock(ctx context.Context) error {
	select {
	case c.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Connection) unlock() { <-c.sem }

// connect must be called with the lock held or before c is shared.
func (c *Connection) connect(ctx context.Context, attempts int) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = c.open(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		wait := time.Duration(i+1) * 2 * time.Second
		c.log.Warn("rabbitmq connection failed, retrying",
			slog.Duration("wait", wait),
			slog.Any("error", err),
		)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return fmt.Errorf("failed to connect to RabbitMQ: %w (last error: %v)", ctx.Err(), err)
		}
	}
	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", attempts, err)
}

func (c *Connection) open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := defaultDialCap
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	conn, err := amqp091.DialConfig(c.url, amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp091.DefaultDial(timeout),
	})
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	err = ch.ExchangeDeclare(
		c.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", c.exchange, err)
	}
	c.conn, c.channel = conn, ch
	return nil
}

// channelLocked returns a live channel. A dropped connection gets one
// redial attempt bounded by ctx; the next publish tries again.
func (c *Connection) channelLocked(ctx context.Context) (*amqp091.Channel, error) {
	if c.conn == nil || c.conn.IsClosed() || c.channel == nil || c.channel.IsClosed() {
		c.closeLocked()
		if err := c.connect(ctx, 1); err != nil {
			return nil, fmt.Errorf("failed to reconnect: %w", err)
		}
	}
	return c.channel, nil
}

func (c *Connection) Close() error {
	c.sem <- struct{}{}
	defer c.unlock()
	return c.closeLocked()
}

func (c *Connection) closeLocked() error {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		if err != nil && err != amqp091.ErrClosed {
			return err
		}
	}
	return nil
}
