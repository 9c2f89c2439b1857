package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/todo-service/internal/todos/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultRequestTimeout = 10 * time.Second

// API is the subset of the todo client the view needs.
type API interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Create(ctx context.Context, title string) (*domain.Todo, error)
	SetDone(ctx context.Context, id string, done bool) error
	Delete(ctx context.Context, id string) error
}

type (
	loadedMsg struct {
		items []domain.Todo
		err   error
	}
	createdMsg struct {
		tempID string
		todo   *domain.Todo
		err    error
	}
	toggledMsg struct {
		id   string
		prev bool
		err  error
	}
	deletedMsg struct {
		item  todoItem
		index int
		err   error
	}
)

// Model is the Bubble Tea model of the todo list. Mutations are applied
// locally first and rolled back when the server rejects them.
type Model struct {
	api     API
	timeout time.Duration

	items []todoItem
	list  list.Model

	adding bool
	ti     textinput.Model

	loading bool
	errMsg  string
	nextTmp int
}

// New builds the model; call Init through tea.Program to load items.
func New(api API) Model {
	l := list.New(nil, itemDelegate{}, 80, 20)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")

	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return bindings }
	l.AdditionalFullHelpKeys = func() []key.Binding { return bindings }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New item title..."
	ti.CharLimit = 200

	m := Model{
		api:     api,
		timeout: defaultRequestTimeout,
		list:    l,
		ti:      ti,
		loading: true,
	}
	m.sync()
	return m
}

// Run starts the interactive list until the user quits.
func Run(api API) error {
	_, err := tea.NewProgram(New(api), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return m.load() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := msg.Height - 4
		if m.adding {
			h -= 3
		}
		m.list.SetSize(msg.Width-4, h)
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.items = m.items[:0]
		for _, t := range msg.items {
			m.items = append(m.items, todoItem{todo: t})
		}
		m.sync()
		return m, nil

	case createdMsg:
		i := m.indexOf(msg.tempID)
		if msg.err != nil {
			if i >= 0 {
				m.items = append(m.items[:i], m.items[i+1:]...)
			}
			m.errMsg = "add failed: " + msg.err.Error()
		} else if i >= 0 {
			m.items[i] = todoItem{todo: *msg.todo}
		} else if m.indexOf(msg.todo.ID) < 0 {
			m.items = append([]todoItem{{todo: *msg.todo}}, m.items...)
		}
		m.sync()
		return m, nil

	case toggledMsg:
		if msg.err != nil {
			i := m.indexOf(msg.id)
			switch {
			case isNotFound(msg.err):
				if i >= 0 {
					m.items = append(m.items[:i], m.items[i+1:]...)
				}
				m.errMsg = "item no longer exists, removed"
			default:
				if i >= 0 {
					m.items[i].todo.Done = msg.prev
				}
				m.errMsg = "update failed: " + msg.err.Error()
			}
			m.sync()
		}
		return m, nil

	case deletedMsg:
		// a 404 means someone else deleted it first; the row stays gone
		if msg.err != nil && !isNotFound(msg.err) {
			idx := min(msg.index, len(m.items))
			m.items = append(m.items[:idx], append([]todoItem{msg.item}, m.items[idx:]...)...)
			m.errMsg = "delete failed: " + msg.err.Error()
			m.sync()
		}
		return m, nil
	}

	if m.adding {
		return m.updateAdding(msg)
	}

	if k, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		m.errMsg = ""
		switch k.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "a":
			m.adding = true
			m.ti.SetValue("")
			return m, m.ti.Focus()
		case "r":
			m.loading = true
			return m, m.load()
		case " ":
			return m.toggleSelected()
		case "d":
			return m.deleteSelected()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			title := strings.TrimSpace(m.ti.Value())
			if title == "" {
				m.errMsg = "Title cannot be empty"
				return m, nil
			}
			m.closeInput()
			return m.create(title)
		case "esc":
			m.closeInput()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.adding = false
	m.errMsg = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m Model) create(title string) (tea.Model, tea.Cmd) {
	m.nextTmp++
	tempID := fmt.Sprintf("tmp-%d", m.nextTmp)
	m.items = append([]todoItem{{
		todo:   domain.Todo{ID: tempID, Title: title, CreatedAt: time.Now()},
		saving: true,
	}}, m.items...)
	m.sync()
	m.list.Select(0)

	api, timeout := m.api, m.timeout
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		t, err := api.Create(ctx, title)
		return createdMsg{tempID: tempID, todo: t, err: err}
	}
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	i, ok := m.selected()
	if !ok {
		return m, nil
	}
	it := m.items[i]
	if it.saving {
		m.errMsg = "still saving, try again in a moment"
		return m, nil
	}

	done := !it.todo.Done
	m.items[i].todo.Done = done
	m.sync()

	api, timeout := m.api, m.timeout
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return toggledMsg{id: it.todo.ID, prev: it.todo.Done, err: api.SetDone(ctx, it.todo.ID, done)}
	}
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	i, ok := m.selected()
	if !ok {
		return m, nil
	}
	it := m.items[i]
	if it.saving {
		m.errMsg = "still saving, try again in a moment"
		return m, nil
	}

	m.items = append(m.items[:i], m.items[i+1:]...)
	m.sync()

	api, timeout := m.api, m.timeout
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return deletedMsg{item: it, index: i, err: api.Delete(ctx, it.todo.ID)}
	}
}

func (m Model) load() tea.Cmd {
	api, timeout := m.api, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		items, err := api.List(ctx)
		return loadedMsg{items: items, err: err}
	}
}

// selected maps the list cursor, which may be filtered, back to m.items.
func (m Model) selected() (int, bool) {
	it, ok := m.list.SelectedItem().(todoItem)
	if !ok {
		return -1, false
	}
	i := m.indexOf(it.todo.ID)
	return i, i >= 0
}

func (m Model) indexOf(id string) int {
	for i, it := range m.items {
		if it.todo.ID == id {
			return i
		}
	}
	return -1
}

// isNotFound reports whether the server answered that the todo is gone.
func isNotFound(err error) bool {
	var nf interface{ NotFound() bool }
	return errors.As(err, &nf) && nf.NotFound()
}

// sync pushes m.items into the list and refreshes the header counts.
func (m *Model) sync() {
	items := make([]list.Item, len(m.items))
	for i, it := range m.items {
		items[i] = it
	}
	m.list.SetItems(items)
	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}

	done, remaining := stats(m.items)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), remaining,
		accentStyle.Render("Total"), len(m.items),
	)
}

func (m Model) View() string {
	content := m.list.View()
	if m.loading {
		content = mutedStyle.Render("loading…") + "\n" + content
	}
	if m.adding {
		content += "\n" + panelStyle.Render("Add new item\n"+m.ti.View())
	}
	if m.errMsg != "" {
		content += "\n" + errorStyle.Render("✖ "+m.errMsg)
	}
	return panelStyle.Render(content)
}
