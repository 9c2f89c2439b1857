package tui

import (
	"fmt"
	"io"

	"github.com/GoSim-25-26J-441/todo-service/internal/todos/domain"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// todoItem adapts domain.Todo to bubbles/list.Item.
// saving is set while a create is in flight and the id is still local.
type todoItem struct {
	todo   domain.Todo
	saving bool
}

func (i todoItem) Title() string       { return i.todo.Title }
func (i todoItem) Description() string { return "" }
func (i todoItem) FilterValue() string { return i.todo.Title }

type itemDelegate struct{}

func (d itemDelegate) Height() int                         { return 1 }
func (d itemDelegate) Spacing() int                        { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(todoItem)
	if !ok {
		return
	}

	box := mutedStyle.Render(boxUnchecked)
	text := it.todo.Title
	if it.todo.Done {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}
	if it.saving {
		text += mutedStyle.Render(" (saving…)")
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

// stats returns done and remaining counts for the header.
func stats(items []todoItem) (done, remaining int) {
	for _, it := range items {
		if it.todo.Done {
			done++
		} else {
			remaining++
		}
	}
	return
}
