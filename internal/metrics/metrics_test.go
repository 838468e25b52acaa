package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_HandlerExposesCounters(t *testing.T) {
	m := New(NewRegistry())
	m.PagesFetched.Add(3)
	m.RowsDropped.WithLabelValues("drop_duplicates").Inc()

	require.Equal(t, float64(3), testutil.ToFloat64(m.PagesFetched))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "etl_pages_fetched_total 3")
	require.Contains(t, string(body), `etl_rows_dropped_total{stage="drop_duplicates"} 1`)
}
