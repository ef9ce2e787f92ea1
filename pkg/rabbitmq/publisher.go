package rabbitmq

import (
	"context"
	"encoding/json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"sync"
	"video-archive-bot/config"
	"video-archive-bot/dto"
)

type Publisher interface {
	Publish(ctx context.Context, event dto.VideoEvent) error
}

type publisher struct {
	mu       sync.Mutex
	ch       *amqp.Channel
	exchange string
}

func (p *publisher) Publish(ctx context.Context, event dto.VideoEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, p.exchange, event.Type.RoutingKey(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().Str("exchange", p.exchange).Str("routing_key", event.Type.RoutingKey()).Msg("event published")
	return nil
}

// NewPublisher opens a channel on conn and declares the event exchange.
func NewPublisher(ctx context.Context, conn *amqp.Connection, cfg *config.RabbitMQ) (Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	err = ch.ExchangeDeclare(cfg.ExchangeName, cfg.Kind, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}

	go func() {
		<-ctx.Done()
		if err := ch.Close(); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("failed to close RabbitMQ channel")
		}
	}()

	return &publisher{
		ch:       ch,
		exchange: cfg.ExchangeName,
	}, nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, event dto.VideoEvent) error {
	return nil
}

// NewNoopPublisher is used when no broker is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}
