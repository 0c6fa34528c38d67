package todo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/five82/tally/internal/store"
)

var (
	// ErrIndexOutOfRange is returned when an action names a todo that does
	// not exist.
	ErrIndexOutOfRange = errors.New("todo index out of range")

	// ErrEmptyText is returned when adding a todo with blank text.
	ErrEmptyText = errors.New("todo text is empty")

	// ErrUnknownStatus is returned when a filter names an unknown status.
	ErrUnknownStatus = errors.New("unknown todo status")
)

// Handlers returns the handler table covering every action in Actions.
func Handlers() map[string]store.Handler[State] {
	return map[string]store.Handler[State]{
		NameAddTodo:        store.On(addTodo),
		NameCompleteTodo:   store.On(completeTodo),
		NameInProgressTodo: store.On(inProgressTodo),
		NameRemoveTodo:     store.On(removeTodo),
		NameSetFilters:     store.On(setFilters),
	}
}

// Every handler builds fresh slices; prev is never written to.

// addTodo stores the text trimmed and refuses blank text, so the list never
// holds an entry that renders as an empty row.
func addTodo(a AddTodo, prev State) (State, error) {
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return State{}, ErrEmptyText
	}
	todos := make([]Todo, len(prev.Todos), len(prev.Todos)+1)
	copy(todos, prev.Todos)
	todos = append(todos, Todo{Text: text, Status: InProgress})
	return State{Todos: todos, Filters: prev.Filters}, nil
}

func completeTodo(a CompleteTodo, prev State) (State, error) {
	return withStatus(prev, a.Index, Complete)
}

func inProgressTodo(a InProgressTodo, prev State) (State, error) {
	return withStatus(prev, a.Index, InProgress)
}

func withStatus(prev State, index int, status Status) (State, error) {
	if err := checkIndex(prev, index); err != nil {
		return State{}, err
	}
	todos := make([]Todo, len(prev.Todos))
	copy(todos, prev.Todos)
	todos[index].Status = status
	return State{Todos: todos, Filters: prev.Filters}, nil
}

func removeTodo(a RemoveTodo, prev State) (State, error) {
	if err := checkIndex(prev, a.Index); err != nil {
		return State{}, err
	}
	todos := make([]Todo, 0, len(prev.Todos)-1)
	todos = append(todos, prev.Todos[:a.Index]...)
	todos = append(todos, prev.Todos[a.Index+1:]...)
	return State{Todos: todos, Filters: prev.Filters}, nil
}

func setFilters(a SetFilters, prev State) (State, error) {
	filters := make([]Status, 0, len(a.Filters))
	for _, f := range a.Filters {
		if f != InProgress && f != Complete {
			return State{}, fmt.Errorf("%w: %q", ErrUnknownStatus, f)
		}
		filters = append(filters, f)
	}
	return State{Todos: prev.Todos, Filters: filters}, nil
}

func checkIndex(s State, index int) error {
	if index < 0 || index >= len(s.Todos) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(s.Todos))
	}
	return nil
}
