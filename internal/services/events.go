package services

import "pasar/pkg/rabbitmq"

// EventPublisher publishes entity lifecycle events to the message broker.
// *rabbitmq.Client satisfies it; services accept nil when no broker is wired.
type EventPublisher interface {
	PublishEvent(event rabbitmq.Event) error
}
