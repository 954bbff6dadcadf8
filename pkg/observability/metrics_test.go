package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func TestInitMetrics_ExportsCounters(t *testing.T) {
	provider, handler, err := InitMetrics(MetricsConfig{ServiceName: "quote-service"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	counter, err := provider.Meter("test").Int64Counter("quote_requests")
	require.NoError(t, err)
	counter.Add(context.Background(), 3, metric.WithAttributes(attribute.String("outcome", "approved")))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "quote_requests_total")
	assert.Contains(t, string(body), `outcome="approved"`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestInitMetrics_IndependentRegistries(t *testing.T) {
	_, _, err := InitMetrics(MetricsConfig{})
	require.NoError(t, err)
	_, _, err = InitMetrics(MetricsConfig{})
	assert.NoError(t, err)
}

func TestInitTracer_WithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), TracingConfig{ServiceName: "quote-service"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
