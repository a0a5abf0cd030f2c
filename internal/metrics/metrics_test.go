package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveMutation("add", 1)
	c.ObserveMutation("add", 2)
	c.ObserveMutation("remove", 1)
	c.ObservePersistError()
	c.ObserveGeneration("ok")
	c.ObserveLogin(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.mutations.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.mutations.WithLabelValues("remove")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.reports))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.persistErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.generations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.logins.WithLabelValues("failure")))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.ObserveMutation("edit", 3)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `reportkeeper_store_mutations_total{op="edit"} 1`), body)
	assert.True(t, strings.Contains(body, "reportkeeper_store_reports 3"), body)
}
