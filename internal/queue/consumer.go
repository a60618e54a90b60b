package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/movie-review-backend/internal/logging"
	"github.com/iliyamo/movie-review-backend/internal/metrics"
)

// Sender delivers one rendered template.
type Sender interface {
	Send(recipient, templateFile string, data any) error
}

// MailConsumer drains MailQueueName and sends each message through Sender.
// It implements suture.Service: Serve reconnects with backoff until ctx is
// cancelled.
type MailConsumer struct {
	url    string
	sender Sender
}

func NewMailConsumer(url string, sender Sender) *MailConsumer {
	return &MailConsumer{url: url, sender: sender}
}

func (m *MailConsumer) String() string { return "mail-consumer" }

// Serve runs the reconnect loop.
func (m *MailConsumer) Serve(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(m.url)
		if err != nil {
			logging.Warn().Err(err).Dur("retry_in", backoff).Msg("mail consumer: dial broker failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = m.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.Warn().Err(err).Msg("mail consumer: consume loop ended; reconnecting")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func (m *MailConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logging.Warn().Err(err).Msg("mail consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(MailQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(MailQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	logging.Info().Str("queue", MailQueueName).Msg("mail consumer: listening")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := m.handle(d.Body); err != nil {
				logging.Error().Err(err).Msg("mail consumer: handle message failed")
				_ = d.Nack(false, false) // do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (m *MailConsumer) handle(body []byte) error {
	var ev MailRequested
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Recipient == "" || ev.Template == "" {
		return errors.New("message without recipient or template")
	}
	if err := m.sender.Send(ev.Recipient, ev.Template, ev.Data); err != nil {
		metrics.MailSent.WithLabelValues(ev.Template, "failed").Inc()
		return err
	}
	metrics.MailSent.WithLabelValues(ev.Template, "sent").Inc()
	logging.Debug().Str("id", ev.ID).Str("template", ev.Template).Msg("mail delivered")
	return nil
}
