package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/todo-service/internal/metrics"
	"github.com/GoSim-25-26J-441/todo-service/internal/todos/domain"
	"github.com/GoSim-25-26J-441/todo-service/internal/todos/events"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// Store is the persistence contract the service depends on.
type Store interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Get(ctx context.Context, id string) (*domain.Todo, error)
	Insert(ctx context.Context, title string) (*domain.Todo, error)
	SetDone(ctx context.Context, id string, done bool) error
	Delete(ctx context.Context, id string) error
}

// Publisher receives an event after every successful mutation.
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

// TodoService handles business logic for todo items
type TodoService struct {
	store   Store
	events  Publisher
	metrics *metrics.Collector
	log     *zap.Logger
	now     func() time.Time
}

// NewTodoService creates a new TodoService. events, m and log may be nil.
func NewTodoService(store Store, pub Publisher, m *metrics.Collector, log *zap.Logger) *TodoService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TodoService{
		store:   store,
		events:  pub,
		metrics: m,
		log:     log.Named("todos"),
		now:     time.Now,
	}
}

// List returns all items, newest first.
func (s *TodoService) List(ctx context.Context) ([]domain.Todo, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, s.storeFailed("list", err)
	}
	return items, nil
}

// Get returns one item.
func (s *TodoService) Get(ctx context.Context, id string) (*domain.Todo, error) {
	id, err := requireID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.storeFailed("get", err)
	}
	return item, nil
}

// Create validates the title and inserts a new item.
func (s *TodoService) Create(ctx context.Context, title string) (*domain.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &domain.ValidationError{Field: "title", Message: "must not be empty"}
	}

	item, err := s.store.Insert(ctx, title)
	if err != nil {
		return nil, s.storeFailed("insert", err)
	}

	s.metrics.IncMutation("created")
	s.log.Debug("todo created", zap.String("id", item.ID))
	s.publish(ctx, domain.Event{Type: domain.EventCreated, ID: item.ID, Todo: item})
	return item, nil
}

// SetDone updates the done flag of an existing item.
func (s *TodoService) SetDone(ctx context.Context, id string, done bool) error {
	id, err := requireID(id)
	if err != nil {
		return err
	}

	if err := s.store.SetDone(ctx, id, done); err != nil {
		return s.storeFailed("set_done", err)
	}

	s.metrics.IncMutation("updated")
	s.log.Debug("todo updated", zap.String("id", id), zap.Bool("done", done))
	s.publish(ctx, domain.Event{Type: domain.EventUpdated, ID: id, Done: &done})
	return nil
}

// Delete removes an existing item.
func (s *TodoService) Delete(ctx context.Context, id string) error {
	id, err := requireID(id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return s.storeFailed("delete", err)
	}

	s.metrics.IncMutation("deleted")
	s.log.Debug("todo deleted", zap.String("id", id))
	s.publish(ctx, domain.Event{Type: domain.EventDeleted, ID: id})
	return nil
}

// publish never fails the caller; the mutation is already committed.
func (s *TodoService) publish(ctx context.Context, ev domain.Event) {
	ev.At = s.now().UTC()

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.events.Publish(pctx, ev); err != nil {
		s.log.Warn("failed to publish todo event",
			zap.String("type", ev.Type),
			zap.String("id", ev.ID),
			zap.Error(err),
		)
	}
}

func (s *TodoService) storeFailed(op string, err error) error {
	var storageErr *domain.StorageError
	if errors.As(err, &storageErr) {
		s.metrics.IncStoreError(op)
		s.log.Error("todo store failure", zap.String("op", op), zap.Error(err))
	}
	return err
}

func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", &domain.ValidationError{Field: "id", Message: "must not be empty"}
	}
	return id, nil
}
