package observability

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
)

const (
	healthStatusOK          = "ok"
	healthStatusUnavailable = "unavailable"
)

// ReadyCheck reports whether a subsystem can serve traffic.
type ReadyCheck func(ctx context.Context) error

// HealthHandler answers liveness checks with 200 {"status":"ok"}.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(http.StatusOK)
		writeHealthJSON(rw, healthStatusOK, "")
	})
}

// ReadyHandler runs every check in order. The first failure answers 503
// {"status":"unavailable","reason":...}; otherwise 200 {"status":"ok"}.
func ReadyHandler(checks ...ReadyCheck) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		rw.Header().Set("Content-Type", "application/json")

		for _, check := range checks {
			checkErr := check(hr.Context())
			if checkErr != nil {
				rw.WriteHeader(http.StatusServiceUnavailable)
				writeHealthJSON(rw, healthStatusUnavailable, checkErr.Error())

				return
			}
		}

		rw.WriteHeader(http.StatusOK)
		writeHealthJSON(rw, healthStatusOK, "")
	})
}

type healthBody struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func writeHealthJSON(w io.Writer, status, reason string) {
	data, err := json.Marshal(healthBody{Status: status, Reason: reason})
	if err != nil {
		return
	}

	// The status line is already sent; a failed body write cannot be reported.
	_, _ = w.Write(data)
}
