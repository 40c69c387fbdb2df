package messaging

import (
	"context"
	"log/slog"

	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher sends outbox events to a durable topic exchange, routed by topic.
type RabbitPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   *slog.Logger
}

func NewRabbitPublisher(url, exchange string, logger *slog.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errs.Wrap(err, "failed to connect to rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "failed to open rabbitmq channel")
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, errs.Wrapf(err, "failed to declare exchange %s", exchange)
	}
	return &RabbitPublisher{conn: conn, ch: ch, exchange: exchange, logger: logger}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, ev shared.OutboxEvent) error {
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID.String(),
		Timestamp:    ev.CreatedAt,
		Type:         ev.Topic,
		Body:         ev.Payload,
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, ev.Topic, false, false, msg); err != nil {
		return errs.Wrapf(err, "failed to publish %s", ev.Topic)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.logger.Warn("failed to close rabbitmq channel", "error", err.Error())
	}
	return p.conn.Close()
}

// LogPublisher writes events to the log; used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, ev shared.OutboxEvent) error {
	p.logger.Info("Booking event",
		"topic", ev.Topic,
		"event_id", ev.ID,
		"booking_id", ev.AggregateID,
		"payload", string(ev.Payload))
	return nil
}
