// Package amqp publishes payoff plan events to a RabbitMQ topic exchange.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
	"github.com/simaogato/wealthflow-payoff/internal/log"
)

const (
	publishTimeout       = 5 * time.Second
	maxReconnectAttempts = 5
	maxBackoff           = 30 * time.Second
)

// Publisher implements domain.PlanPublisher
type Publisher struct {
	url        string
	exchange   string
	routingKey string
	logger     *log.Logger

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// NewPublisher dials url and declares a durable topic exchange
func NewPublisher(url, exchange, routingKey string, logger *log.Logger) (*Publisher, error) {
	if logger == nil {
		logger = log.Discard()
	}
	p := &Publisher{
		url:        url,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger.WithComponent(log.ComponentAMQP),
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp091.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		p.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	p.conn = conn
	p.channel = channel
	return nil
}

// PublishPlanComputed publishes a PlanComputedMessage for plan. A dropped
// connection is re-established with exponential backoff and the publish retried once.
func (p *Publisher) PublishPlanComputed(ctx context.Context, plan *domain.PayoffPlan) error {
	body, err := NewPlanComputedMessage(plan, time.Now()).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.publish(ctx, body)
	if err != nil && isConnectionError(err) {
		p.logger.WarnContext(ctx, "AMQP connection lost, reconnecting", log.FieldError, err.Error())
		if rerr := p.reconnect(ctx); rerr != nil {
			return fmt.Errorf("publish message: %w", errors.Join(err, rerr))
		}
		err = p.publish(ctx, body)
	}
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.logger.DebugContext(ctx, "published plan computed message",
		log.FieldHousehold, plan.HouseholdID.String(),
		"exchange", p.exchange,
		"routing_key", p.routingKey)
	return nil
}

func (p *Publisher) publish(ctx context.Context, body []byte) error {
	if p.channel == nil || p.channel.IsClosed() {
		return amqp091.ErrClosed
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		p.exchange,   // exchange
		p.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

func (p *Publisher) reconnect(ctx context.Context) error {
	p.closeLocked()

	var err error
	for attempt := 0; attempt < maxReconnectAttempts; attempt++ {
		if err = p.connect(); err == nil {
			p.logger.InfoContext(ctx, "AMQP reconnected", "attempt", attempt+1)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(exponentialBackoff(attempt)):
		}
	}
	return fmt.Errorf("reconnect after %d attempts: %w", maxReconnectAttempts, err)
}

// exponentialBackoff returns 1s, 2s, 4s... capped at 30s
func exponentialBackoff(attempt int) time.Duration {
	if attempt >= 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe", "channel/connection is not open"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (p *Publisher) closeLocked() {
	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}

// Close closes the channel and connection
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}

// NopPublisher discards every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishPlanComputed(context.Context, *domain.PayoffPlan) error { return nil }
