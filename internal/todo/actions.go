package todo

import "github.com/five82/tally/internal/store"

// Action names as they appear in scripts and history.
const (
	NameAddTodo        = "ADD_TODO"
	NameCompleteTodo   = "COMPLETE_TODO"
	NameInProgressTodo = "INPROGRESS_TODO"
	NameRemoveTodo     = "REMOVE_TODO"
	NameSetFilters     = "SET_FILTERS"
)

// Action is the closed set of todo actions. Only types in this package
// implement it.
type Action interface {
	store.Action
	todoAction()
}

// AddTodo appends an in-progress todo.
type AddTodo struct {
	Text string
}

// CompleteTodo marks the todo at Index complete.
type CompleteTodo struct {
	Index int
}

// InProgressTodo marks the todo at Index in progress.
type InProgressTodo struct {
	Index int
}

// RemoveTodo deletes the todo at Index.
type RemoveTodo struct {
	Index int
}

// SetFilters replaces the status filter set.
type SetFilters struct {
	Filters []Status
}

func (AddTodo) ActionName() string        { return NameAddTodo }
func (CompleteTodo) ActionName() string   { return NameCompleteTodo }
func (InProgressTodo) ActionName() string { return NameInProgressTodo }
func (RemoveTodo) ActionName() string     { return NameRemoveTodo }
func (SetFilters) ActionName() string     { return NameSetFilters }

// CloneAction implements store.ActionCloner.
func (a SetFilters) CloneAction() store.Action {
	if a.Filters != nil {
		a.Filters = append([]Status{}, a.Filters...)
	}
	return a
}

func (AddTodo) todoAction()        {}
func (CompleteTodo) todoAction()   {}
func (InProgressTodo) todoAction() {}
func (RemoveTodo) todoAction()     {}
func (SetFilters) todoAction()     {}

// Actions returns one zero value of every action variant.
func Actions() []Action {
	return []Action{
		AddTodo{},
		CompleteTodo{},
		InProgressTodo{},
		RemoveTodo{},
		SetFilters{},
	}
}

// Toggle returns the action that flips the todo at index between in
// progress and complete.
func Toggle(index int, t Todo) Action {
	if t.Status == Complete {
		return InProgressTodo{Index: index}
	}
	return CompleteTodo{Index: index}
}
