package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dochandler "portal/internal/document/handler"
	docservice "portal/internal/document/service"
	"portal/internal/platform/metrics"
	request "portal/pkg/platform/middleware/request"
	"portal/pkg/testutil"
)

func newTestRouter(checks map[string]HealthCheck) (http.Handler, *prometheus.Registry) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	router := NewRouter(Deps{
		Logger:         logger,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		RequestTimeout: time.Second,
		Handlers:       []RouteRegistrar{dochandler.New(docservice.New(), logger)},
		HealthChecks:   checks,
	})
	return router, reg
}

func TestRouter(t *testing.T) {
	testutil.Given(t, "the portal router", func(t *testing.T) {
		router, _ := newTestRouter(nil)

		testutil.When(t, "computing a CUIL", func(t *testing.T) {
			req := testutil.NewRequestWithBody(t, http.MethodPost, "/documents/compute", `{"national_id":"20615977","category":"masculino"}`)
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "the formatted document is returned with a request id", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				testutil.AssertJSONContains(t, rr, "formatted", "20-20615977-5")
				assert.NotEmpty(t, rr.Header().Get(request.HeaderRequestID))
			})
		})

		testutil.When(t, "calling an unknown route", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/nope"))

			testutil.Then(t, "it responds not found", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusNotFound)
			})
		})

		testutil.When(t, "scraping metrics after a request", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))

			testutil.Then(t, "route patterns label request latency", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				body := rr.Body.String()
				assert.True(t, strings.Contains(body, `portal_http_request_duration_seconds_count{route="/documents/compute",status="200"} 1`), body)
			})
		})
	})
}

func TestHealth(t *testing.T) {
	t.Run("healthy without checks", func(t *testing.T) {
		router, _ := newTestRouter(nil)
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
	})

	t.Run("degraded when a dependency fails", func(t *testing.T) {
		router, _ := newTestRouter(map[string]HealthCheck{
			"redis":    func(context.Context) error { return errors.New("down") },
			"postgres": func(context.Context) error { return nil },
		})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		body := testutil.UnmarshalErrorResponse(t, rr)
		require.Equal(t, "degraded", body["status"])
		assert.Equal(t, "unavailable", body["redis"])
		assert.Equal(t, "ok", body["postgres"])
	})
}
