// Package queue publishes and consumes weekly summary jobs over AMQP.
package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"fincheck/internal/finance"
)

const (
	publishTimeout = 5 * time.Second
	maxBackoff     = 30 * time.Second
)

// Client owns one AMQP connection and channel bound to a direct exchange.
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
	log          *zap.SugaredLogger
}

// NewClient dials the broker and declares the exchange, queue and binding.
func NewClient(url, exchangeName, queueName string, log *zap.SugaredLogger) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
		log:          log,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

// DialWithRetry keeps calling NewClient with exponential backoff until it
// succeeds, a non-connection error occurs or ctx ends.
func DialWithRetry(ctx context.Context, url, exchangeName, queueName string, log *zap.SugaredLogger) (*Client, error) {
	for attempt := 0; ; attempt++ {
		client, err := NewClient(url, exchangeName, queueName, log)
		if err == nil {
			return client, nil
		}
		if !isConnectionError(err) {
			return nil, err
		}

		wait := exponentialBackoff(attempt)
		log.Warnw("AMQP broker unavailable, retrying", "attempt", attempt+1, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key equals the queue name on the direct exchange.
	if err := c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	// One unacknowledged email at a time per worker.
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	return nil
}

// PublishWeeklySummary enqueues one user's weekly summary.
func (c *Client) PublishWeeklySummary(ctx context.Context, report finance.WeeklyReport) error {
	msg := &SummaryMessage{Report: report}
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			MessageId:    report.UserID + ":" + report.WeekStart.Format("2006-01-02"),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	c.log.Debugw("published weekly summary",
		"user_id", report.UserID,
		"exchange", c.exchangeName,
		"queue", c.queueName,
	)
	return nil
}

// ConsumeWeeklySummaries hands each queued summary to handler until ctx ends.
// Undecodable messages are dropped; handler failures are requeued once.
func (c *Client) ConsumeWeeklySummaries(ctx context.Context, handler func(context.Context, *SummaryMessage) error) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.log.Infow("consuming weekly summaries", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			c.log.Infow("stopping consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}
			c.handleDelivery(ctx, delivery, handler)
		}
	}
}

func (c *Client) handleDelivery(ctx context.Context, delivery amqp091.Delivery, handler func(context.Context, *SummaryMessage) error) {
	msg, err := SummaryMessageFromJSON(delivery.Body)
	if err != nil {
		c.log.Errorw("dropping undecodable message", "error", err)
		_ = delivery.Nack(false, false)
		return
	}

	if err := handler(ctx, msg); err != nil {
		c.log.Errorw("failed to deliver weekly summary",
			"user_id", msg.Report.UserID,
			"redelivered", delivery.Redelivered,
			"error", err,
		)
		_ = delivery.Nack(false, !delivery.Redelivered)
		return
	}

	_ = delivery.Ack(false)
	c.log.Infow("delivered weekly summary", "user_id", msg.Report.UserID)
}

// Close closes the channel and the connection.
func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// exponentialBackoff returns 1s, 2s, 4s... capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt > 5 {
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
	msg := err.Error()
	for _, marker := range []string{"connection", "EOF", "broken pipe", "closed network"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
