package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAndHandler(t *testing.T) {
	m := New()
	m.SectionRenders.WithLabelValues("overview", Outcome(nil)).Inc()
	m.SectionRenders.WithLabelValues("visualization", Outcome(errors.New("boom"))).Inc()
	m.CellsFilled.WithLabelValues("mean").Add(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SectionRenders.WithLabelValues("overview", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SectionRenders.WithLabelValues("visualization", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CellsFilled.WithLabelValues("mean")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cafeteria_section_renders_total")
}
