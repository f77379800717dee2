package domain

import "context"

type EventRepository interface {
	Save(ctx context.Context, topic string, events ...Event) error
	GetEvents(ctx context.Context, topic string) ([]Event, error)
	RegisterEventsHandler(topic string, handler func(events []Event))
	ClearRegisteredHandlers(topics ...string)
	Close()
}
