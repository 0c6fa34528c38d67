package todo

// Status is the completion state of a todo.
type Status string

const (
	InProgress Status = "InProgress"
	Complete   Status = "Complete"
)

// Todo is a single list item.
type Todo struct {
	Text   string `json:"text"`
	Status Status `json:"status"`
}

// State is the whole application state held by the store.
type State struct {
	Todos   []Todo   `json:"todos"`
	Filters []Status `json:"filters"`
}

// Initial returns the state the list starts with.
func Initial() State {
	return State{
		Todos:   []Todo{{Text: "An Initial ToDo", Status: InProgress}},
		Filters: []Status{},
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{}
	if s.Todos != nil {
		out.Todos = make([]Todo, len(s.Todos))
		copy(out.Todos, s.Todos)
	}
	if s.Filters != nil {
		out.Filters = make([]Status, len(s.Filters))
		copy(out.Filters, s.Filters)
	}
	return out
}

// Counts returns the number of completed todos and the total.
func (s State) Counts() (done, total int) {
	for _, t := range s.Todos {
		if t.Status == Complete {
			done++
		}
	}
	return done, len(s.Todos)
}

// Item is a todo paired with its index in State.Todos.
type Item struct {
	Index int
	Todo
}

// Visible returns the todos whose status is in Filters. An empty filter set
// shows everything.
func (s State) Visible() []Item {
	items := make([]Item, 0, len(s.Todos))
	for i, t := range s.Todos {
		if !s.shows(t.Status) {
			continue
		}
		items = append(items, Item{Index: i, Todo: t})
	}
	return items
}

func (s State) shows(status Status) bool {
	if len(s.Filters) == 0 {
		return true
	}
	for _, f := range s.Filters {
		if f == status {
			return true
		}
	}
	return false
}
