package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	"community-board/pkg/config"
	"community-board/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ActivityExchange  = "community.activity"
	ActivityQueueName = "community_activity"
)

// Routing keys published on ActivityExchange.
const (
	RoutingPostLiked      = "post.liked"
	RoutingCommentCreated = "comment.created"
)

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
	mu      sync.Mutex
}

// URL builds the broker address, escaping the credentials.
func URL(cfg *config.Config) string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(cfg.RabbitMQUser, cfg.RabbitMQPassword),
		Host:   net.JoinHostPort(cfg.RabbitMQHost, cfg.RabbitMQPort),
		Path:   "/",
	}
	return u.String()
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	conn, err := amqp.Dial(URL(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		ActivityExchange, // name
		"topic",          // type
		true,             // durable
		false,            // auto-deleted
		false,            // internal
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		ActivityQueueName, // name
		true,              // durable
		false,             // delete when unused
		false,             // exclusive
		false,             // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, key := range []string{RoutingPostLiked, RoutingCommentCreated} {
		if err := channel.QueueBind(ActivityQueueName, key, ActivityExchange, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to bind queue: %w", err)
		}
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// PublishActivity sends payload as JSON under routingKey. amqp channels are not safe for concurrent publishes.
func (c *Client) PublishActivity(ctx context.Context, routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	c.mu.Lock()
	err = c.channel.PublishWithContext(ctx,
		ActivityExchange, // exchange
		routingKey,       // routing key
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish to exchange=%s, routing_key=%s: %v", ActivityExchange, routingKey, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug("[RABBITMQ] Published %s: %s", routingKey, string(body))
	return nil
}

// ErrUnknownEvent marks a routing key no handler understands. Such messages are dropped.
var ErrUnknownEvent = errors.New("unknown activity event")

type ActivityHandler func(routingKey string, event map[string]interface{}) error

// ConsumeActivity hands each message to handler, acking on success and requeueing on error.
// Malformed bodies and ErrUnknownEvent failures are dropped.
func (c *Client) ConsumeActivity(handler ActivityHandler) error {
	msgs, err := c.channel.Consume(
		ActivityQueueName, // queue
		"",                // consumer
		false,             // auto-ack
		false,             // exclusive
		false,             // no-local
		false,             // no-wait
		nil,               // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			c.deliver(msg, handler)
		}
	}()

	return nil
}

func (c *Client) deliver(msg amqp.Delivery, handler ActivityHandler) {
	var event map[string]interface{}
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.logger.Error("[RABBITMQ] Failed to unmarshal event: %v, body=%s", err, string(msg.Body))
		msg.Nack(false, false)
		return
	}

	if err := handler(msg.RoutingKey, event); err != nil {
		requeue := !errors.Is(err, ErrUnknownEvent)
		c.logger.Error("[RABBITMQ] Handler failed for %s (requeue=%t): %v", msg.RoutingKey, requeue, err)
		msg.Nack(false, requeue)
		return
	}
	msg.Ack(false)
}
