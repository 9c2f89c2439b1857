package domain

import "time"

// Todo is a single item of the todo list.
// The db tags match the quoted column names of the "Todo" table.
type Todo struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Done      bool      `json:"done" db:"done"`
	CreatedAt time.Time `json:"createdAt" db:"createdAt"`
}

// Counts summarises the stored items.
type Counts struct {
	Total int `db:"total"`
	Done  int `db:"done"`
}

// Open is the number of items not yet done.
func (c Counts) Open() int { return c.Total - c.Done }

// Event types published after a successful mutation.
const (
	EventCreated = "todo.created"
	EventUpdated = "todo.updated"
	EventDeleted = "todo.deleted"
)

// Event describes a change to the todo list.
type Event struct {
	Type string    `json:"type"`
	ID   string    `json:"id"`
	Done *bool     `json:"done,omitempty"`
	Todo *Todo     `json:"todo,omitempty"`
	At   time.Time `json:"at"`
}
