// Package todofile reads and writes todo lists as YAML for bulk import and export.
package todofile

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/todo-service/internal/todos/domain"
	"gopkg.in/yaml.v3"
)

type File struct {
	Todos []Entry `yaml:"todos"`
}

type Entry struct {
	ID        string    `yaml:"id,omitempty"`
	Title     string    `yaml:"title"`
	Done      bool      `yaml:"done,omitempty"`
	CreatedAt time.Time `yaml:"created_at,omitempty"`
}

type API interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Create(ctx context.Context, title string) (*domain.Todo, error)
	SetDone(ctx context.Context, id string, done bool) error
}

func ParseYAML(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

func WriteYAML(path string, f *File) error {
	b, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Export snapshots the server's list, newest first.
func Export(ctx context.Context, api API) (*File, error) {
	items, err := api.List(ctx)
	if err != nil {
		return nil, err
	}
	f := &File{Todos: make([]Entry, 0, len(items))}
	for _, t := range items {
		f.Todos = append(f.Todos, Entry{ID: t.ID, Title: t.Title, Done: t.Done, CreatedAt: t.CreatedAt})
	}
	return f, nil
}

// Import creates every entry with a non-blank title. Entries are created
// last-to-first so the server lists them in file order. Ids and timestamps in
// the file are ignored; the server assigns new ones.
func Import(ctx context.Context, api API, f *File) (int, error) {
	created := 0
	for i := len(f.Todos) - 1; i >= 0; i-- {
		e := f.Todos[i]
		title := strings.TrimSpace(e.Title)
		if title == "" {
			continue
		}

		t, err := api.Create(ctx, title)
		if err != nil {
			return created, fmt.Errorf("import %q: %w", title, err)
		}
		created++

		if e.Done {
			if err := api.SetDone(ctx, t.ID, true); err != nil {
				return created, fmt.Errorf("mark %q done: %w", title, err)
			}
		}
	}
	return created, nil
}
