package watermilldb

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rakesh-sdlc/ng-contracts/internal/core/domain"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

type subscriber struct {
	topic   string
	handler func(events []domain.Event)
}

// storedEvent is the envelope persisted for every published event. The
// payload keeps the event's own JSON shape so it can be replayed later.
type storedEvent struct {
	Id        string `badgerhold:"key"`
	Topic     string
	Type      domain.EventType
	Payload   []byte
	CreatedAt int64
}

type eventRepository struct {
	publisher message.Publisher
	store     *badgerhold.Store

	subscribers    map[string][]subscriber // topic -> subscribers
	subscriberLock *sync.Mutex
}

func NewWatermillEventRepository(
	publisher message.Publisher, store *badgerhold.Store,
) domain.EventRepository {
	return &eventRepository{
		publisher:      publisher,
		store:          store,
		subscribers:    make(map[string][]subscriber),
		subscriberLock: &sync.Mutex{},
	}
}

func (e *eventRepository) Save(
	ctx context.Context, topic string, events ...domain.Event,
) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]*message.Message, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to serialize event %s: %w", event.EventId(), err)
		}

		if err := e.store.Insert(event.EventId(), storedEvent{
			Id:        event.EventId(),
			Topic:     topic,
			Type:      event.Type(),
			Payload:   payload,
			CreatedAt: time.Now().Unix(),
		}); err != nil {
			return fmt.Errorf("failed to store event %s: %w", event.EventId(), err)
		}

		msgs = append(msgs, message.NewMessage(event.EventId(), payload))
	}

	if err := e.publisher.Publish(topic, msgs...); err != nil {
		return err
	}

	e.dispatch(topic, events)
	return nil
}

func (e *eventRepository) RegisterEventsHandler(
	topic string, handler func(events []domain.Event),
) {
	e.subscriberLock.Lock()
	defer e.subscriberLock.Unlock()

	if _, ok := e.subscribers[topic]; !ok {
		e.subscribers[topic] = make([]subscriber, 0)
	}

	e.subscribers[topic] = append(e.subscribers[topic], subscriber{
		topic:   topic,
		handler: handler,
	})
}

func (e *eventRepository) ClearRegisteredHandlers(topics ...string) {
	e.subscriberLock.Lock()
	defer e.subscriberLock.Unlock()

	if len(topics) == 0 {
		e.subscribers = make(map[string][]subscriber)
		return
	}

	for _, topic := range topics {
		delete(e.subscribers, topic)
	}
}

func (e *eventRepository) Close() {
	//nolint:errcheck
	e.publisher.Close()
	if err := e.store.Close(); err != nil {
		log.WithError(err).Warn("failed to close event store")
	}
}

func (e *eventRepository) dispatch(topic string, events []domain.Event) {
	e.subscriberLock.Lock()
	defer e.subscriberLock.Unlock()

	for _, sub := range e.subscribers[topic] {
		go sub.handler(events)
	}
}

// GetEvents replays all persisted events for a topic in insertion order.
func (e *eventRepository) GetEvents(
	ctx context.Context, topic string,
) ([]domain.Event, error) {
	var records []storedEvent
	if err := e.store.Find(
		&records, badgerhold.Where("Topic").Eq(topic).SortBy("CreatedAt"),
	); err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(records))
	for _, record := range records {
		event, err := deserializeEvent(record.Type, record.Payload)
		if err != nil {
			log.WithError(err).Warnf("failed to deserialize event %s", record.Id)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func deserializeEvent(eventType domain.EventType, buf []byte) (domain.Event, error) {
	switch eventType {
	case domain.EventTypeAssetRegistered:
		return decodeEvent[domain.AssetRegistered](eventType, buf)
	case domain.EventTypeAssetUnregistered:
		return decodeEvent[domain.AssetUnregistered](eventType, buf)
	case domain.EventTypeCustodyWalletChanged:
		return decodeEvent[domain.CustodyWalletChanged](eventType, buf)
	case domain.EventTypeControllerPaused:
		return decodeEvent[domain.ControllerPaused](eventType, buf)
	case domain.EventTypeControllerUnpaused:
		return decodeEvent[domain.ControllerUnpaused](eventType, buf)
	case domain.EventTypeExtensionInitialized:
		return decodeEvent[domain.ExtensionInitialized](eventType, buf)
	case domain.EventTypeAssetFeeUpdated:
		return decodeEvent[domain.AssetFeeUpdated](eventType, buf)
	case domain.EventTypeTokensMinted:
		return decodeEvent[domain.TokensMinted](eventType, buf)
	case domain.EventTypeTokensBurned:
		return decodeEvent[domain.TokensBurned](eventType, buf)
	case domain.EventTypeBatchMinted:
		return decodeEvent[domain.BatchMinted](eventType, buf)
	case domain.EventTypeBatchBurned:
		return decodeEvent[domain.BatchBurned](eventType, buf)
	default:
		return nil, fmt.Errorf("unknown event type %s", eventType)
	}
}

func decodeEvent[T domain.Event](eventType domain.EventType, buf []byte) (domain.Event, error) {
	var event T
	if err := json.Unmarshal(buf, &event); err != nil {
		return nil, fmt.Errorf("failed to decode %s event: %w", eventType, err)
	}
	return event, nil
}
