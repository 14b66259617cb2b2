package broker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type UpdateKind string

const (
	UpdateAdded   UpdateKind = "Added"
	UpdateRemoved UpdateKind = "Removed"
)

// StateUpdate is one queue-change event on the state_updates channel.
// Wire encoding is {"Added":"<guid>"} or {"Removed":"<guid>"}.
type StateUpdate struct {
	Kind UpdateKind
	ID   uuid.UUID
}

func Added(id uuid.UUID) StateUpdate {
	return StateUpdate{Kind: UpdateAdded, ID: id}
}

func Removed(id uuid.UUID) StateUpdate {
	return StateUpdate{Kind: UpdateRemoved, ID: id}
}

func (u StateUpdate) MarshalJSON() ([]byte, error) {
	switch u.Kind {
	case UpdateAdded, UpdateRemoved:
	default:
		return nil, fmt.Errorf("invalid state update kind %q", u.Kind)
	}
	return json.Marshal(map[UpdateKind]uuid.UUID{u.Kind: u.ID})
}

func (u *StateUpdate) UnmarshalJSON(b []byte) error {
	var m map[string]uuid.UUID
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return errors.New("state update must carry exactly one variant")
	}
	for k, v := range m {
		switch UpdateKind(k) {
		case UpdateAdded, UpdateRemoved:
			u.Kind = UpdateKind(k)
			u.ID = v
		default:
			return fmt.Errorf("unknown state update variant %q", k)
		}
	}
	return nil
}

// CallbackMessage pairs a waiting request with a submitted number.
// Wire encoding is a two-element JSON array ["<guid>","<number>"].
type CallbackMessage struct {
	ID     uuid.UUID
	Number string
}

func (m CallbackMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{m.ID.String(), m.Number})
}

func (m *CallbackMessage) UnmarshalJSON(b []byte) error {
	var pair []string
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("callback message must have 2 elements, got %d", len(pair))
	}
	id, err := uuid.Parse(pair[0])
	if err != nil {
		return fmt.Errorf("callback message id: %w", err)
	}
	m.ID = id
	m.Number = pair[1]
	return nil
}
