package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/five82/tally/internal/store"
)

// wireAction is the JSON form of an action:
//
//	{"name": "ADD_TODO", "payload": "Buy milk"}
//	{"name": "COMPLETE_TODO", "payload": {"index": 0}}
//	{"name": "SET_FILTERS", "payload": ["Complete"]}
type wireAction struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type indexPayload struct {
	Index *int `json:"index"`
}

// Decode parses one JSON action. Names this package does not know decode to
// a store.Descriptor so that dispatching them reports the missing handler.
func Decode(data []byte) (store.Action, error) {
	var w wireAction
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	return fromWire(w)
}

// DecodeScript parses a JSON array of actions.
func DecodeScript(r io.Reader) ([]store.Action, error) {
	var wire []wireAction
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	actions := make([]store.Action, 0, len(wire))
	for i, w := range wire {
		a, err := fromWire(w)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func fromWire(w wireAction) (store.Action, error) {
	if w.Name == "" {
		return nil, errors.New("action name is empty")
	}
	switch w.Name {
	case NameAddTodo:
		var text string
		if err := unmarshalPayload(w, &text); err != nil {
			return nil, err
		}
		return AddTodo{Text: text}, nil
	case NameCompleteTodo, NameInProgressTodo, NameRemoveTodo:
		var p indexPayload
		if err := unmarshalPayload(w, &p); err != nil {
			return nil, err
		}
		if p.Index == nil {
			return nil, fmt.Errorf("%s payload: missing index", w.Name)
		}
		switch w.Name {
		case NameCompleteTodo:
			return CompleteTodo{Index: *p.Index}, nil
		case NameInProgressTodo:
			return InProgressTodo{Index: *p.Index}, nil
		default:
			return RemoveTodo{Index: *p.Index}, nil
		}
	case NameSetFilters:
		var filters []Status
		if err := unmarshalPayload(w, &filters); err != nil {
			return nil, err
		}
		return SetFilters{Filters: filters}, nil
	}

	var payload any
	if len(w.Payload) > 0 && !bytes.Equal(w.Payload, []byte("null")) {
		payload = w.Payload
	}
	return store.Descriptor{Name: w.Name, Payload: payload}, nil
}

func unmarshalPayload(w wireAction, v any) error {
	if len(w.Payload) == 0 {
		return fmt.Errorf("%s payload: missing", w.Name)
	}
	if err := json.Unmarshal(w.Payload, v); err != nil {
		return fmt.Errorf("%s payload: %w", w.Name, err)
	}
	return nil
}

// Encode writes a in the form Decode reads.
func Encode(a store.Action) ([]byte, error) {
	payload, err := encodePayload(a)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireAction{Name: a.ActionName(), Payload: payload})
}

func encodePayload(a store.Action) (json.RawMessage, error) {
	var v any
	switch a := a.(type) {
	case AddTodo:
		v = a.Text
	case CompleteTodo:
		v = indexPayload{Index: &a.Index}
	case InProgressTodo:
		v = indexPayload{Index: &a.Index}
	case RemoveTodo:
		v = indexPayload{Index: &a.Index}
	case SetFilters:
		v = a.Filters
	case store.Descriptor:
		if a.Payload == nil {
			return nil, nil
		}
		v = a.Payload
	case nil:
		return nil, errors.New("encode action: nil")
	default:
		return nil, fmt.Errorf("encode action: unsupported type %T", a)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", a.ActionName(), err)
	}
	return raw, nil
}

// Describe returns a one-line form of a for logs and history views.
func Describe(a store.Action) string {
	if a == nil {
		return "(initial)"
	}
	payload, err := encodePayload(a)
	if err != nil || len(payload) == 0 {
		return a.ActionName()
	}
	return a.ActionName() + " " + string(payload)
}
