package model

// Todo is a single completable entry. Its ID is unique within the owning
// list only.
type Todo struct {
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Done  bool   `json:"done" yaml:"done"`
}

// TodoList is a titled, ordered collection of todos owned by one user.
type TodoList struct {
	ID       int    `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Todos    []Todo `json:"todos" yaml:"todos"`
}

// IsDone reports whether the list has at least one todo and every todo is
// done. An empty list is never done.
func (l TodoList) IsDone() bool {
	if len(l.Todos) == 0 {
		return false
	}
	for _, t := range l.Todos {
		if !t.Done {
			return false
		}
	}
	return true
}

// HasUndone reports whether any todo in the list is not done.
func (l TodoList) HasUndone() bool {
	for _, t := range l.Todos {
		if !t.Done {
			return true
		}
	}
	return false
}

// Counts returns the number of done and pending todos.
func (l TodoList) Counts() (done, pending int) {
	for _, t := range l.Todos {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return
}

// Clone returns a copy of l that shares no backing array with it.
func (l TodoList) Clone() TodoList {
	l.Todos = CloneTodos(l.Todos)
	return l
}

// CloneTodos copies todos into a fresh slice. nil stays nil.
func CloneTodos(todos []Todo) []Todo {
	if todos == nil {
		return nil
	}
	out := make([]Todo, len(todos))
	copy(out, todos)
	return out
}

// CloneLists deep-copies a collection of lists.
func CloneLists(lists []TodoList) []TodoList {
	if lists == nil {
		return nil
	}
	out := make([]TodoList, len(lists))
	for i, l := range lists {
		out[i] = l.Clone()
	}
	return out
}
