package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is the topic exchange session events are published to.
const DefaultExchange = "shiftlog.sessions"

// Event types double as routing-key suffixes.
const (
	TypeClockIn  = "clock_in"
	TypeClockOut = "clock_out"
	TypeNote     = "note"
)

// SessionEvent is the JSON body of every published message.
type SessionEvent struct {
	Type     string    `json:"type"`
	RecordID string    `json:"record_id"`
	UserID   string    `json:"user_id"`
	At       time.Time `json:"at"`
	Timezone string    `json:"timezone,omitempty"`
	Hours    float64   `json:"hours,omitempty"`
	Note     string    `json:"note,omitempty"`
}

// RoutingKey returns "session.<type>".
func (e SessionEvent) RoutingKey() string {
	return "session." + e.Type
}

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitPublisher forwards clock transitions to RabbitMQ. Publish failures
// are logged and never reach the clock operation.
type RabbitPublisher struct {
	ch       Channel
	exchange string
	timeout  time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// NewRabbitPublisher declares the durable topic exchange and returns a
// publisher on it. A nil logger discards output.
func NewRabbitPublisher(ch Channel, exchange string, log *slog.Logger) (*RabbitPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declaring exchange %s: %w", exchange, err)
	}
	return &RabbitPublisher{
		ch:       ch,
		exchange: exchange,
		timeout:  5 * time.Second,
		log:      log,
		now:      time.Now,
	}, nil
}

func (p *RabbitPublisher) OnClockIn(ctx context.Context, rec *domain.SessionRecord) {
	p.publish(ctx, SessionEvent{
		Type:     TypeClockIn,
		RecordID: rec.ID,
		UserID:   rec.UserID,
		At:       rec.ClockIn,
		Timezone: rec.Timezone,
	})
}

func (p *RabbitPublisher) OnClockOut(ctx context.Context, rec *domain.SessionRecord) {
	p.publish(ctx, SessionEvent{
		Type:     TypeClockOut,
		RecordID: rec.ID,
		UserID:   rec.UserID,
		At:       rec.BucketTime(),
		Timezone: rec.Timezone,
		Hours:    rec.Duration(),
	})
}

func (p *RabbitPublisher) OnNoteSaved(ctx context.Context, rec *domain.SessionRecord, note string) {
	p.publish(ctx, SessionEvent{
		Type:     TypeNote,
		RecordID: rec.ID,
		UserID:   rec.UserID,
		At:       rec.BucketTime(),
		Timezone: rec.Timezone,
		Hours:    rec.Duration(),
		Note:     note,
	})
}

// Publish sends one event and returns any failure.
func (p *RabbitPublisher) Publish(ctx context.Context, ev SessionEvent) error {
	const op = "RabbitPublisher.Publish"

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%s: marshal %s event: %w", op, ev.Type, err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, p.exchange, ev.RoutingKey(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.RecordID + ":" + ev.Type,
		Timestamp:    p.now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%s: publish %s: %w", op, ev.RoutingKey(), err)
	}
	return nil
}

func (p *RabbitPublisher) publish(ctx context.Context, ev SessionEvent) {
	if err := p.Publish(ctx, ev); err != nil {
		p.log.ErrorContext(ctx, "session event not published", "record", ev.RecordID, "error", err.Error())
		return
	}
	p.log.DebugContext(ctx, "session event published", "key", ev.RoutingKey(), "record", ev.RecordID)
}

var _ service.SessionObserver = (*RabbitPublisher)(nil)

// Connection is an open AMQP connection with one channel.
type Connection struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel

	closeOnce sync.Once
}

// Dial connects to url with a heartbeat and opens a channel.
func Dial(url string) (*Connection, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{Heartbeat: 10 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("connecting to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening RabbitMQ channel: %w", err)
	}
	return &Connection{Conn: conn, Channel: ch}, nil
}

// Close closes the channel and then the connection. Later calls do nothing.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.Channel != nil {
			_ = c.Channel.Close()
		}
		if c.Conn != nil {
			err = c.Conn.Close()
		}
	})
	return err
}
