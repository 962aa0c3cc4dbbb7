package hub

import "context"

type Handler func(event Event)

type Subscription interface {
	ID() string
	EntityIDs() []string
	Unsubscribe()
}

// Hub keeps the current state of every entity and feeds state changes to
// subscribers. Events are delivered one at a time, in the order the changes
// were made; a handler is never called concurrently with another handler.
type Hub interface {
	Get(entityID string) (*State, bool)
	Set(entityID, value string, attributes map[string]any) error
	Remove(entityID string) error
	WriteState(state *State) error

	Subscribe(entityIDs []string, handler Handler) (Subscription, error)

	// Flush blocks until every change made before the call was delivered.
	Flush(ctx context.Context) error

	TriggerStop()
	Wait()
}
