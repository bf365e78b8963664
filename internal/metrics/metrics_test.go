package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/todos":      "/todos",
		"/todos/12":   "/todos/{id}",
		"/todos/12/x": "/todos/{id}/x",
		"/":           "/",
	}
	for in, want := range cases {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(TodoOpsTotal.WithLabelValues("create"))
	IncTodoOp("create")
	if got := testutil.ToFloat64(TodoOpsTotal.WithLabelValues("create")); got != before+1 {
		t.Errorf("todo_operations_total{op=create}: got %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(AuthEventsTotal.WithLabelValues("login", "failure"))
	IncAuthEvent("login", "failure")
	if got := testutil.ToFloat64(AuthEventsTotal.WithLabelValues("login", "failure")); got != before+1 {
		t.Errorf("auth_events_total: got %v, want %v", got, before+1)
	}
}
