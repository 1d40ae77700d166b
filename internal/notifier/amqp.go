package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"food_marketplace/internal/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrNotConnected = errors.New("notifier is not connected")

// AMQPPublisher publishes order events to a durable topic exchange. The
// routing key is the topic and the message id is the event key.
type AMQPPublisher struct {
	url            string
	exchange       string
	connectTimeout time.Duration
	publishTimeout time.Duration
	log            *logger.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewAMQPPublisher(url, exchange string, connectTimeout, publishTimeout time.Duration, log *logger.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		url:            url,
		exchange:       exchange,
		connectTimeout: connectTimeout,
		publishTimeout: publishTimeout,
		log:            log,
	}
}

// Connect dials the broker and declares the exchange. The whole handshake
// is bounded by the connect timeout.
func (p *AMQPPublisher) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil && !p.channel.IsClosed() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.connectTimeout)
	defer cancel()

	type result struct {
		conn *amqp.Connection
		ch   *amqp.Channel
		err  error
	}
	done := make(chan result, 1)

	go func() {
		conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.connectTimeout)})
		if err != nil {
			done <- result{err: fmt.Errorf("failed to dial broker: %w", err)}
			return
		}
		ch, err := conn.Channel()
		if err != nil {
			conn.Close()
			done <- result{err: fmt.Errorf("failed to open channel: %w", err)}
			return
		}
		err = ch.ExchangeDeclare(
			p.exchange, // name
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
			done <- result{err: fmt.Errorf("failed to declare exchange %s: %w", p.exchange, err)}
			return
		}
		done <- result{conn: conn, ch: ch}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return r.err
		}
		p.conn, p.channel = r.conn, r.ch
		p.log.Info(ctx, "notifier_connected", "Connected to event broker", "exchange", p.exchange)
		return nil
	case <-ctx.Done():
		// the dial goroutine may still finish; release whatever it opens
		go func() {
			if r := <-done; r.err == nil {
				r.ch.Close()
				r.conn.Close()
			}
		}()
		return fmt.Errorf("failed to connect to broker: %w", ctx.Err())
	}
}

// Connected reports whether a usable channel is open.
func (p *AMQPPublisher) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel != nil && !p.channel.IsClosed()
}

// Publish serializes payload as JSON and sends it. Failures are logged and
// reported as false.
func (p *AMQPPublisher) Publish(ctx context.Context, topic, key string, payload any) bool {
	if err := p.publish(ctx, topic, key, payload); err != nil {
		p.log.Warn(ctx, "event_publish_failed", "Failed to publish event",
			"topic", topic, "key", key, "error", err.Error())
		return false
	}
	p.log.Debug(ctx, "event_published", "Published event", "topic", topic, "key", key)
	return true
}

func (p *AMQPPublisher) publish(ctx context.Context, topic, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, p.publishTimeout)
	defer cancel()

	return p.channel.PublishWithContext(ctx,
		p.exchange, // exchange
		topic,      // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    key,
			Timestamp:    time.Now(),
			Type:         topic,
			Body:         body,
		},
	)
}

// Shutdown closes the channel and connection. Safe to call more than once.
func (p *AMQPPublisher) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
		p.channel = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
		p.conn = nil
	}
	return errors.Join(errs...)
}
