package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("todo")

	c.ObserveRequest(http.MethodGet, "/api/todos", http.StatusOK, 15*time.Millisecond)
	c.ObserveRequest(http.MethodGet, "/api/todos", http.StatusOK, 5*time.Millisecond)
	c.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)
	c.IncMutation("created")
	c.IncStoreError("list")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/api/todos", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.todoMutations.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.storeErrors.WithLabelValues("list")))
}

func TestCollector_ItemCounts(t *testing.T) {
	c := NewCollector("todo")

	c.SetItemCounts(3, 4)
	c.SetItemCounts(1, 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.items.WithLabelValues("done")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.items.WithLabelValues("open")))
}

func TestCollector_IndependentRegistries(t *testing.T) {
	a := NewCollector("todo")
	b := NewCollector("todo")

	a.IncMutation("deleted")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.todoMutations.WithLabelValues("deleted")))
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveRequest("GET", "/", 200, time.Millisecond)
		c.IncMutation("created")
		c.IncStoreError("insert")
		c.SetItemCounts(1, 2)
	})
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("todo")
	c.IncMutation("created")

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `todo_todo_mutations_total{kind="created"} 1`)
}
