package middleware

import (
	"context"
	"net/http"

	"github.com/rs/xid"
)

const CorrelationIDHeader = "X-Correlation-ID"
const correlationIDKey = "correlation_id"

// maxCorrelationIDLen bounds inbound IDs; anything longer (or containing
// control characters) is discarded and regenerated so a hostile header
// cannot smuggle junk into logs and extraction process IDs.
const maxCorrelationIDLen = 64

// CorrelationCtx retrieves the correlation ID from the context. Empty when
// the correlation middleware did not run.
func CorrelationCtx(ctx context.Context) string {
	id, ok := ctx.Value(correlationIDKey).(string)
	if !ok {
		return ""
	}
	return id
}

// CorrelationIDMiddleware tags every request with a correlation ID, reusing
// a well-formed inbound one so callers can stitch their own traces together.
// The ID doubles as the process ID of any extraction the request starts.
func CorrelationIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationIDHeader)
		if !validCorrelationID(id) {
			id = xid.New().String()
		}
		w.Header().Set(CorrelationIDHeader, id)

		ctx := context.WithValue(r.Context(), correlationIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validCorrelationID(id string) bool {
	if id == "" || len(id) > maxCorrelationIDLen {
		return false
	}
	for _, r := range id {
		if r <= ' ' || r > '~' {
			return false
		}
	}
	return true
}
