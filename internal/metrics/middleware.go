package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/mailcast/internal"
	"github.com/dmitrymomot/mailcast/middlewares"
)

// unmatchedRoute labels requests that did not hit a registered route,
// keeping arbitrary paths out of the label set.
const unmatchedRoute = "unmatched"

// Middleware records request count, latency and in-flight requests
// labelled by the chi route pattern.
func (m *Metrics) Middleware() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			m.httpInflight.Inc()
			start := time.Now()

			err := next(c)

			m.httpInflight.Dec()
			method := strings.ToUpper(c.Request().Method)
			route := middlewares.RoutePattern(c.Request())
			if route == "" {
				route = unmatchedRoute
			}
			status := middlewares.ResponseStatus(c, err)

			m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()

			return err
		}
	}
}
