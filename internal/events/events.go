package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	MODEL_CONFIG_CHANNEL Channel = "model_config"
)

type MessageType string

const (
	MODEL_CONFIG_CHANGED     MessageType = "model_config.changed"
	MODEL_PREFERENCE_CHANGED MessageType = "model_preference.changed"
	USER_INITIALIZED         MessageType = "user.initialized"
)

// Actions carried in Event.Data["action"].
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionEnabled = "enabled"
	ActionSet     = "set"
	ActionCleared = "cleared"
)

type Event struct {
	ID        string         `json:"id"`
	Type      MessageType    `json:"type"`
	Channel   Channel        `json:"channel"`
	UserID    *uuid.UUID     `json:"userId,omitempty"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

const publishTimeout = 5 * time.Second

// EventBus fans events out over valkey pub/sub so every API instance and voice
// server sees them. Without a client, events are delivered to local handlers only.
type EventBus struct {
	client    valkey.Client
	log       logger.Logger
	handlers  map[Channel][]EventHandler
	listening map[Channel]bool
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func New(client valkey.Client) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:    client,
		log:       logger.New("eventBus"),
		handlers:  make(map[Channel][]EventHandler),
		listening: make(map[Channel]bool),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Publish stamps missing envelope fields and sends the event. Delivery to
// handlers is asynchronous in both modes.
func (eb *EventBus) Publish(channel Channel, event Event) error {
	log := eb.log.Function("Publish")

	event = stamp(channel, event)

	if eb.client == nil {
		eb.dispatch(channel, event)
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to encode event", err, "eventID", event.ID, "type", event.Type)
	}

	ctx, cancel := context.WithTimeout(eb.ctx, publishTimeout)
	defer cancel()

	command := eb.client.B().Publish().Channel(channel.String()).Message(string(payload)).Build()
	if err := eb.client.Do(ctx, command).Error(); err != nil {
		return log.Err("failed to publish event", err, "channel", channel, "eventID", event.ID)
	}

	log.Debug("Event published", "channel", channel, "eventID", event.ID, "type", event.Type)
	return nil
}

// Subscribe registers handler for channel. With a valkey client the first
// subscription on a channel starts its listener, which also delivers this
// instance's own publishes.
func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) error {
	eb.mu.Lock()
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	startListener := eb.client != nil && !eb.listening[channel]
	if startListener {
		eb.listening[channel] = true
	}
	eb.mu.Unlock()

	eb.log.Function("Subscribe").Debug("Handler subscribed", "channel", channel, "listener", startListener)

	if startListener {
		go eb.listen(channel)
	}

	return nil
}

func stamp(channel Channel, event Event) Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Channel == "" {
		event.Channel = channel
	}
	return event
}

// dispatch runs every handler of channel in its own goroutine. A failing or
// panicking handler is logged and never affects the others.
func (eb *EventBus) dispatch(channel Channel, event Event) {
	eb.mu.RLock()
	handlers := append([]EventHandler(nil), eb.handlers[channel]...)
	eb.mu.RUnlock()

	for _, handler := range handlers {
		go eb.invoke(handler, event)
	}
}

func (eb *EventBus) invoke(handler EventHandler, event Event) {
	log := eb.log.Function("invoke")

	defer func() {
		if r := recover(); r != nil {
			log.Warn("event handler panicked", "eventID", event.ID, "type", event.Type, "panic", r)
		}
	}()

	if err := handler(event); err != nil {
		log.Er("event handler failed", err, "eventID", event.ID, "type", event.Type)
	}
}

func (eb *EventBus) listen(channel Channel) {
	log := eb.log.Function("listen")
	log.Info("Listening", "channel", channel)

	command := eb.client.B().Subscribe().Channel(channel.String()).Build()
	err := eb.client.Receive(eb.ctx, command, func(msg valkey.PubSubMessage) {
		var event Event
		if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
			log.Warn("dropping undecodable event", "channel", channel, "error", err)
			return
		}
		eb.dispatch(channel, event)
	})
	if err != nil && eb.ctx.Err() == nil {
		log.Er("listener stopped", err, "channel", channel)
	}
}

// Close stops all listeners. Publish after Close fails when a client is configured.
func (eb *EventBus) Close() error {
	eb.cancel()
	eb.log.Function("Close").Debug("EventBus closed")
	return nil
}

// PublishModelEvent publishes on the model configuration channel.
func (eb *EventBus) PublishModelEvent(
	eventType MessageType,
	userID uuid.UUID,
	data map[string]any,
) error {
	return eb.Publish(MODEL_CONFIG_CHANNEL, Event{
		Type:   eventType,
		UserID: &userID,
		Data:   data,
	})
}
