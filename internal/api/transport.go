package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mrrobot2937/mazorca-system/internal/metrics"
)

const defaultRequestTimeout = 30 * time.Second

// transport wraps the HTTP client shared by both adapters with a circuit
// breaker, so a flapping backend fails fast instead of tying up handlers.
type transport struct {
	rc      *resty.Client
	breaker *gobreaker.CircuitBreaker[*resty.Response]
	log     logrus.FieldLogger
	name    string
}

func newTransport(name, baseURL string, timeout time.Duration, log logrus.FieldLogger) *transport {
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}

	rc := resty.NewWithClient(&http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	rc.SetBaseURL(baseURL)
	rc.SetTimeout(timeout)
	rc.SetHeader("Accept", "application/json")

	st := gobreaker.Settings{
		Name:        name + "-backend",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(cbName string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": cbName,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state change")
		},
	}

	return &transport{
		rc:      rc,
		breaker: gobreaker.NewCircuitBreaker[*resty.Response](st),
		log:     log.WithField("transport", name),
		name:    name,
	}
}

// execute runs one backend call through the breaker and records metrics.
// Non-2xx responses count as breaker failures only when req left them as
// errors; HTTP-level status handling stays with the caller.
func (t *transport) execute(op string, req func() (*resty.Response, error)) (*resty.Response, error) {
	start := time.Now()
	resp, err := t.breaker.Execute(req)
	metrics.BackendDuration.WithLabelValues(t.name, op).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.BackendRequests.WithLabelValues(t.name, op, outcome).Inc()

	if err != nil {
		t.log.WithField("operation", op).WithError(err).Warn("backend call failed")
	}
	return resp, err
}

// troubleshootMessage builds the connection-troubleshooting detail surfaced
// after retries are exhausted.
func troubleshootMessage(err error) string {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "backend temporarily unavailable (circuit open), try again shortly"
	}
	return "could not reach the backend after retrying: check connectivity, that the server is running, and its CORS configuration (" + err.Error() + ")"
}
