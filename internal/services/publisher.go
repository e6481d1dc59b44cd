package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"alfredoptarigan/skillsync/internal/models"
)

// EventPublisher fans analytics events out to other systems after they are
// committed. Publishing is fire-and-forget.
type EventPublisher interface {
	Publish(event *models.AnalyticsEvent)
	Close() error
}

type amqpPublisher struct {
	conn     *amqp.Connection
	exchange string
	mu       sync.Mutex
}

// NewAMQPPublisher declares a durable topic exchange; events are routed as
// "analytics.<event_type>".
func NewAMQPPublisher(url, exchange string) (EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &amqpPublisher{conn: conn, exchange: exchange}, nil
}

func (p *amqpPublisher) Publish(event *models.AnalyticsEvent) {
	if event == nil {
		return
	}
	if err := p.publish(event); err != nil {
		log.WithFields(log.Fields{
			"event_id":   event.ID,
			"event_type": event.EventType,
		}).Warnf("⚠️ Failed to publish analytics event: %v", err)
	}
}

func (p *amqpPublisher) publish(event *models.AnalyticsEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish(
		p.exchange,
		"analytics."+event.EventType,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

func (p *amqpPublisher) Close() error {
	return p.conn.Close()
}

type noopPublisher struct{}

func NewNoopPublisher() EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(event *models.AnalyticsEvent) {}

func (noopPublisher) Close() error {
	return nil
}
