package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

func declareQueue(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	return err
}

// RabbitPublisher wraps an AMQP channel and publishes to durable queues.
type RabbitPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	mu   sync.Mutex
}

// NewRabbitPublisher dials url and declares every queue it will publish to.
func NewRabbitPublisher(url string, queues ...string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	for _, q := range queues {
		if err := declareQueue(ch, q); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("declare %s: %w", q, err)
		}
	}
	return &RabbitPublisher{conn: conn, ch: ch}, nil
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishJSON publishes a persistent JSON message to queue via the default exchange.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, queue string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = queue
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         b,
		},
	)
}

// MessageHandler processes one message body. A returned error is terminal
// for that message.
type MessageHandler func(ctx context.Context, body []byte) error

// RabbitConsumer reads one durable queue with manual acknowledgements.
type RabbitConsumer struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	Queue  string
	Logger *logrus.Logger

	// Workers is how many deliveries are handled at once. It matches the
	// prefetch so every unacked message the broker hands over is in work.
	Workers int
}

func NewRabbitConsumer(url, queue string, prefetch int, logger *logrus.Logger) (*RabbitConsumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	// prefetch for fair dispatch between worker processes
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("qos: %w", err)
	}
	if err := declareQueue(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	return &RabbitConsumer{conn: conn, ch: ch, Queue: queue, Workers: prefetch, Logger: logger}, nil
}

func (c *RabbitConsumer) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Run consumes until ctx is cancelled or the broker closes the channel.
func (c *RabbitConsumer) Run(ctx context.Context, handle MessageHandler) error {
	msgs, err := c.ch.Consume(c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	return Dispatch(ctx, c.Queue, msgs, c.Workers, handle, c.Logger)
}

// Dispatch handles up to workers deliveries at once: success is acked,
// failure is nacked without requeue so a poisoned job never loops. It
// returns after in-flight deliveries are settled.
func Dispatch(ctx context.Context, queue string, msgs <-chan amqp.Delivery, workers int, handle MessageHandler, logger *logrus.Logger) error {
	if logger == nil {
		logger = DiscardLogger()
	}
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				// left unacked; the broker redelivers it once the channel closes
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				settle(ctx, queue, msg, handle, logger)
			}()
		}
	}
}

func settle(ctx context.Context, queue string, msg amqp.Delivery, handle MessageHandler, logger *logrus.Logger) {
	fields := logrus.Fields{"queue": queue, "delivery_tag": msg.DeliveryTag, "redelivered": msg.Redelivered}
	if err := handle(ctx, msg.Body); err != nil {
		LogError(logger, "job failed", err, fields)
		if nErr := msg.Nack(false, false); nErr != nil {
			LogError(logger, "nack failed", nErr, fields)
		}
		return
	}
	if aErr := msg.Ack(false); aErr != nil {
		LogError(logger, "ack failed", aErr, fields)
	}
}
