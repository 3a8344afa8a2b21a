package queue

import "context"

// Publisher emits auth domain events. Publishing is best-effort: handlers
// fire it from a goroutine and never block a response on the broker.
type Publisher interface {
	Publish(ctx context.Context, key string, event any, reqID string) error
	Close() error
}

// NoopPub is used when no broker is configured (tests, local runs).
type NoopPub struct{}

func NewNoop() Publisher { return NoopPub{} }

func (NoopPub) Publish(ctx context.Context, key string, event any, reqID string) error {
	return nil
}
func (NoopPub) Close() error { return nil }
