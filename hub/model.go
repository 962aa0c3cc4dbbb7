package hub

import "time"

const (
	StateUnknown     = "unknown"
	StateUnavailable = "unavailable"
)

type State struct {
	EntityID    string         `json:"entity_id" yaml:"entity_id"`
	Value       string         `json:"state" yaml:"state"`
	Attributes  map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	LastChanged time.Time      `json:"last_changed" yaml:"last_changed"`
	LastUpdated time.Time      `json:"last_updated" yaml:"last_updated"`
}

// Known reports whether the state carries a real value rather than one of
// the unknown/unavailable markers.
func (s *State) Known() bool {
	return s != nil && s.Value != StateUnknown && s.Value != StateUnavailable
}

func (s *State) clone() *State {
	if s == nil {
		return nil
	}

	c := *s

	if s.Attributes != nil {
		c.Attributes = make(map[string]any, len(s.Attributes))
		for k, v := range s.Attributes {
			c.Attributes[k] = v
		}
	}

	return &c
}

// Event is delivered when an entity state is created, changed or removed.
// OldState is nil for a new entity, NewState is nil for a removed one.
type Event struct {
	EntityID string
	OldState *State
	NewState *State
}
