package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/todo-service/internal/metrics"
	"github.com/GoSim-25-26J-441/todo-service/internal/storage/sqlite"
	"github.com/GoSim-25-26J-441/todo-service/internal/todos/domain"
	"github.com/GoSim-25-26J-441/todo-service/internal/todos/events"
	"github.com/GoSim-25-26J-441/todo-service/internal/todos/repository"
	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// failingStore fails every call with the configured error.
type failingStore struct{ err error }

func (f failingStore) List(context.Context) ([]domain.Todo, error)          { return nil, f.err }
func (f failingStore) Get(context.Context, string) (*domain.Todo, error)    { return nil, f.err }
func (f failingStore) Insert(context.Context, string) (*domain.Todo, error) { return nil, f.err }
func (f failingStore) SetDone(context.Context, string, bool) error          { return f.err }
func (f failingStore) Delete(context.Context, string) error                 { return f.err }

func newSQLiteStore(t *testing.T) *repository.TodoRepository {
	t.Helper()

	ctx := context.Background()
	db, err := sqlite.NewConnection(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewTodoRepository(db)
	require.NoError(t, repo.EnsureSchema(ctx))
	return repo
}

func TestTodoService_Lifecycle(t *testing.T) {
	pub := &recordingPublisher{}
	m := metrics.NewCollector("test")
	svc := NewTodoService(newSQLiteStore(t), pub, m, nil)
	ctx := context.Background()

	item, err := svc.Create(ctx, "  Buy milk  ")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", item.Title, "title is stored trimmed")
	assert.False(t, item.Done)

	require.NoError(t, svc.SetDone(ctx, item.ID, true))
	got, err := svc.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.Done)

	require.NoError(t, svc.Delete(ctx, item.ID))
	assert.ErrorIs(t, svc.Delete(ctx, item.ID), domain.ErrNotFound)
	assert.ErrorIs(t, svc.SetDone(ctx, item.ID, false), domain.ErrNotFound)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.Equal(t, []string{domain.EventCreated, domain.EventUpdated, domain.EventDeleted}, pub.types())
	assert.Equal(t, item.ID, pub.events[0].Todo.ID)
	require.NotNil(t, pub.events[1].Done)
	assert.True(t, *pub.events[1].Done)
	for _, ev := range pub.events {
		assert.False(t, ev.At.IsZero())
	}

	reg := m.Registry()
	count, err := testutil.GatherAndCount(reg, "test_todo_mutations_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestTodoService_Validation(t *testing.T) {
	store := failingStore{err: errors.New("store must not be called")}
	pub := &recordingPublisher{}
	svc := NewTodoService(store, pub, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		call  func() error
		field string
	}{
		{"empty title", func() error { _, err := svc.Create(ctx, ""); return err }, "title"},
		{"whitespace title", func() error { _, err := svc.Create(ctx, " \t\n "); return err }, "title"},
		{"blank id on set done", func() error { return svc.SetDone(ctx, "  ", true) }, "id"},
		{"blank id on delete", func() error { return svc.Delete(ctx, "") }, "id"},
		{"blank id on get", func() error { _, err := svc.Get(ctx, ""); return err }, "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var vErr *domain.ValidationError
			require.ErrorAs(t, tt.call(), &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	assert.Empty(t, pub.types(), "rejected input publishes nothing")
}

func TestTodoService_StorageFailure(t *testing.T) {
	storeErr := &domain.StorageError{Op: "insert", Err: errors.New("connection refused")}
	core, logs := observer.New(zap.ErrorLevel)
	m := metrics.NewCollector("test")
	pub := &recordingPublisher{}
	svc := NewTodoService(failingStore{err: storeErr}, pub, m, zap.New(core))

	_, err := svc.Create(context.Background(), "Buy milk")
	var got *domain.StorageError
	require.ErrorAs(t, err, &got)

	_, err = svc.List(context.Background())
	require.Error(t, err)

	assert.Equal(t, 2, logs.FilterMessage("todo store failure").Len())
	count, err := testutil.GatherAndCount(m.Registry(), "test_store_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Empty(t, pub.types())
}

func TestTodoService_PublishFailureDoesNotFailRequest(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	pub := &recordingPublisher{err: errors.New("redis down")}
	svc := NewTodoService(newSQLiteStore(t), pub, nil, zap.New(core))

	item, err := svc.Create(context.Background(), "Buy milk")
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, 1, logs.FilterMessage("failed to publish todo event").Len())
}

func TestTodoService_PublishesToRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	pub := events.NewRedisPublisher(client, "todos:test")
	sub := client.Subscribe(ctx, pub.Channel())
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	svc := NewTodoService(newSQLiteStore(t), pub, nil, nil)
	item, err := svc.Create(ctx, "Buy milk")
	require.NoError(t, err)

	select {
	case msg := <-sub.Channel():
		var ev domain.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, domain.EventCreated, ev.Type)
		assert.Equal(t, item.ID, ev.ID)
		require.NotNil(t, ev.Todo)
		assert.Equal(t, "Buy milk", ev.Todo.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("created event was not published")
	}
}
