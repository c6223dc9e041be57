package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// ErrCheckTimeout is reported for a check that exceeded the readiness timeout.
var ErrCheckTimeout = errors.New("health: check timeout")

// LivenessHandler answers 200 while the process can serve HTTP at all.
func LivenessHandler() http.HandlerFunc {
	healthy := &Response{Status: StatusHealthy}
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, healthy)
	}
}

// ReadinessHandler runs checks on every request and answers 503 when any
// fails, so a load balancer stops routing dispatches to an instance whose
// storage is unreachable.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)
	return func(w http.ResponseWriter, r *http.Request) {
		resp := runChecks(r.Context(), checks, cfg)
		code := http.StatusOK
		if resp.Status != StatusHealthy {
			code = http.StatusServiceUnavailable
		}
		respond(w, r, code, resp)
	}
}

// respond writes JSON for ?format=json or an Accept header asking for it,
// and the bare status text otherwise.
func respond(w http.ResponseWriter, r *http.Request, code int, resp *Response) {
	if r.URL.Query().Get("format") == "json" || strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	body := "OK"
	if code != http.StatusOK {
		body = http.StatusText(code)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}
