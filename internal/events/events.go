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
	RULES_CHANNEL Channel = "rules"
)

type MessageType string

const (
	RULES_UPDATED MessageType = "rules_updated"
)

type Event struct {
	ID        string         `json:"id"`
	Type      MessageType    `json:"type"`
	Channel   Channel        `json:"channel"`
	Source    string         `json:"source"`
	UserID    *uuid.UUID     `json:"userId,omitempty"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

type receiveFunc func(ctx context.Context, channel Channel, onMessage func(valkey.PubSubMessage)) error

const (
	listenRetryBase = time.Second
	listenRetryMax  = 30 * time.Second
)

// EventBus fans events out to local handlers and, when a valkey client is configured, to
// every other instance subscribed to the same channel.
type EventBus struct {
	client     valkey.Client
	logger     logger.Logger
	instanceID string
	handlers   map[Channel][]EventHandler
	listening  map[Channel]bool
	receive    receiveFunc
	retryBase  time.Duration
	mutex      sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
}

func New(client valkey.Client) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	eb := &EventBus{
		client:     client,
		logger:     logger.New("EventBus"),
		instanceID: uuid.New().String(),
		handlers:   make(map[Channel][]EventHandler),
		listening:  make(map[Channel]bool),
		retryBase:  listenRetryBase,
		ctx:        ctx,
		cancel:     cancel,
	}
	if client != nil {
		eb.receive = func(ctx context.Context, channel Channel, onMessage func(valkey.PubSubMessage)) error {
			return client.Receive(ctx, client.B().Subscribe().Channel(channel.String()).Build(), onMessage)
		}
	}

	return eb
}

func (eb *EventBus) Publish(channel Channel, event Event) error {
	log := eb.logger.Function("Publish")

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if event.Channel == "" {
		event.Channel = channel
	}
	event.Source = eb.instanceID

	// Local handlers always run; the listener skips our own messages.
	eb.notifyLocalHandlers(channel, event)

	if eb.client == nil {
		return nil
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(eb.ctx, 5*time.Second)
	defer cancel()

	err = eb.client.Do(ctx, eb.client.B().Publish().Channel(channel.String()).Message(string(eventData)).Build()).
		Error()
	if err != nil {
		return log.Err(
			"failed to publish event to valkey",
			err,
			"channel", channel,
			"eventID", event.ID,
		)
	}

	log.Debug("Event published", "channel", channel, "eventID", event.ID, "eventType", event.Type)
	return nil
}

func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) error {
	log := eb.logger.Function("Subscribe")

	eb.mutex.Lock()
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	startListener := eb.receive != nil && !eb.listening[channel]
	if startListener {
		eb.listening[channel] = true
	}
	eb.mutex.Unlock()

	log.Info("Handler subscribed to channel", "channel", channel)

	if startListener {
		go eb.listenToChannel(channel)
	}

	return nil
}

func (eb *EventBus) notifyLocalHandlers(channel Channel, event Event) {
	log := eb.logger.Function("notifyLocalHandlers")

	eb.mutex.RLock()
	handlers := append([]EventHandler(nil), eb.handlers[channel]...)
	eb.mutex.RUnlock()

	for i, handler := range handlers {
		if err := handler(event); err != nil {
			log.Er(
				"handler failed",
				err,
				"channel", channel,
				"eventID", event.ID,
				"handlerIndex", i,
			)
		}
	}
}

// listenToChannel holds the channel subscription until the bus closes, resubscribing with
// backoff whenever the connection drops.
func (eb *EventBus) listenToChannel(channel Channel) {
	log := eb.logger.Function("listenToChannel")

	for attempt := 0; ; attempt++ {
		log.Info("Starting to listen to channel", "channel", channel, "attempt", attempt)

		started := time.Now()
		err := eb.receive(eb.ctx, channel, func(msg valkey.PubSubMessage) {
			eb.handleMessage(channel, msg)
		})
		if eb.ctx.Err() != nil {
			eb.setListening(channel, false)
			return
		}

		eb.setListening(channel, false)
		if time.Since(started) > listenRetryMax {
			attempt = 0
		}
		delay := eb.retryDelay(attempt)
		log.Er("lost subscription to channel", err, "channel", channel, "retryIn", delay)

		select {
		case <-eb.ctx.Done():
			return
		case <-time.After(delay):
		}

		eb.mutex.Lock()
		if eb.listening[channel] {
			// Another subscriber restarted the listener while we waited.
			eb.mutex.Unlock()
			return
		}
		eb.listening[channel] = true
		eb.mutex.Unlock()
	}
}

func (eb *EventBus) handleMessage(channel Channel, msg valkey.PubSubMessage) {
	log := eb.logger.Function("handleMessage")

	var event Event
	if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
		log.Er("failed to unmarshal event", err, "channel", channel, "message", msg.Message)
		return
	}

	if event.Source == eb.instanceID {
		return
	}

	log.Debug(
		"Received event from valkey",
		"channel", channel,
		"eventID", event.ID,
		"eventType", event.Type,
	)
	eb.notifyLocalHandlers(channel, event)
}

func (eb *EventBus) setListening(channel Channel, listening bool) {
	eb.mutex.Lock()
	eb.listening[channel] = listening
	eb.mutex.Unlock()
}

// retryDelay doubles from retryBase and is capped at listenRetryMax.
func (eb *EventBus) retryDelay(attempt int) time.Duration {
	delay := eb.retryBase << min(attempt, 10)
	return min(delay, listenRetryMax)
}

func (eb *EventBus) Close() error {
	log := eb.logger.Function("Close")

	eb.cancel()

	log.Info("EventBus closed")
	return nil
}

func (eb *EventBus) PublishRulesUpdated(version int) error {
	return eb.Publish(RULES_CHANNEL, Event{
		Type: RULES_UPDATED,
		Data: map[string]any{"version": version},
	})
}
