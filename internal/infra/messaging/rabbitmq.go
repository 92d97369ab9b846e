package messaging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"villa-reservation/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

// session is one connection plus its publishing channel.
type session interface {
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error
	Closed() bool
	Close() error
}

type dialFunc func(url, exchange string) (session, error)

// RabbitPublisher publishes outbox jobs to a durable topic exchange; the routing key is
// the job topic (villa.booking.created, villa.payment.completed, ...). A session lost to
// a broker restart is re-dialled on the next Notify.
type RabbitPublisher struct {
	mu       sync.Mutex
	url      string
	exchange string
	dial     dialFunc
	sess     session
}

func NewRabbitPublisher(url, exchange string) (*RabbitPublisher, error) {
	return newRabbitPublisher(url, exchange, dialAMQP)
}

func newRabbitPublisher(url, exchange string, dial dialFunc) (*RabbitPublisher, error) {
	sess, err := dial(url, exchange)
	if err != nil {
		return nil, err
	}
	return &RabbitPublisher{url: url, exchange: exchange, dial: dial, sess: sess}, nil
}

func (p *RabbitPublisher) Notify(ctx context.Context, msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess == nil || p.sess.Closed() {
		if p.sess != nil {
			_ = p.sess.Close()
			p.sess = nil
		}
		sess, err := p.dial(p.url, p.exchange)
		if err != nil {
			return errs.Wrap(err, "reconnect rabbitmq")
		}
		slog.Info("rabbitmq session re-established", "exchange", p.exchange)
		p.sess = sess
	}

	err := p.sess.Publish(ctx, p.exchange, msg.Topic, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Type:         msg.Kind,
		Timestamp:    time.Now().UTC(),
		Body:         msg.Payload,
	})
	if err != nil {
		if errs.Is(err, amqp.ErrClosed) {
			_ = p.sess.Close()
			p.sess = nil
		}
		return errs.Wrapf(err, "publish %s", msg.Topic)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sess == nil {
		return nil
	}
	err := p.sess.Close()
	p.sess = nil
	return err
}

type amqpSession struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func dialAMQP(url, exchange string) (session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errs.Wrap(err, "dial rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "open channel")
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errs.Wrapf(err, "declare exchange %s", exchange)
	}
	return &amqpSession{conn: conn, ch: ch}, nil
}

func (s *amqpSession) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	return s.ch.PublishWithContext(ctx, exchange, key, false, false, msg)
}

func (s *amqpSession) Closed() bool {
	return s.conn.IsClosed() || s.ch.IsClosed()
}

func (s *amqpSession) Close() error {
	if !s.ch.IsClosed() {
		_ = s.ch.Close()
	}
	if s.conn.IsClosed() {
		return nil
	}
	return s.conn.Close()
}
