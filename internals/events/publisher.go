package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

type Publisher interface {
	PublishStageCompleted(ctx context.Context, ev *StageCompleted) error
	PublishCandidateCompleted(ctx context.Context, ev *CandidateCompleted) error
	Close() error
}

type EventPublisher struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	enabled      bool
}

// NewEventPublisher connects to RabbitMQ and declares the topic exchange.
// An empty URL returns a disabled publisher that drops every event.
func NewEventPublisher(rabbitURL string) (*EventPublisher, error) {
	if rabbitURL == "" {
		log.Warn().Msg("RABBITMQ_URL vazio, publicação de eventos desativada")
		return &EventPublisher{enabled: false}, nil
	}

	conn, err := amqp091.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		ExchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &EventPublisher{
		conn:         conn,
		channel:      channel,
		exchangeName: ExchangeName,
		enabled:      true,
	}, nil
}

func (p *EventPublisher) Enabled() bool { return p != nil && p.enabled }

func (p *EventPublisher) publish(ctx context.Context, routingKey string, ev any) error {
	if !p.Enabled() {
		log.Debug().Str("routing_key", routingKey).Msg("event publishing disabled, skipping")
		return nil
	}

	body, err := sonic.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		pubCtx,
		p.exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	log.Debug().Str("routing_key", routingKey).Msg("event published")
	return nil
}

func (p *EventPublisher) PublishStageCompleted(ctx context.Context, ev *StageCompleted) error {
	ev.EventType = StageCompletedEvent
	return p.publish(ctx, StageCompletedEvent, ev)
}

func (p *EventPublisher) PublishCandidateCompleted(ctx context.Context, ev *CandidateCompleted) error {
	ev.EventType = CandidateCompletedEvent
	return p.publish(ctx, CandidateCompletedEvent, ev)
}

func (p *EventPublisher) Close() error {
	if !p.Enabled() {
		return nil
	}
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			log.Warn().Err(err).Msg("close rabbitmq channel")
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}
	return nil
}

// Recorder is an in-memory Publisher for tests.
type Recorder struct {
	mu         sync.Mutex
	Stages     []StageCompleted
	Candidates []CandidateCompleted
}

func (r *Recorder) PublishStageCompleted(_ context.Context, ev *StageCompleted) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.EventType = StageCompletedEvent
	r.Stages = append(r.Stages, *ev)
	return nil
}

func (r *Recorder) PublishCandidateCompleted(_ context.Context, ev *CandidateCompleted) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.EventType = CandidateCompletedEvent
	r.Candidates = append(r.Candidates, *ev)
	return nil
}

func (r *Recorder) Close() error { return nil }
