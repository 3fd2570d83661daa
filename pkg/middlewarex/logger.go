package middlewarex

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"pricewatch/pkg/contextx"
	"pricewatch/pkg/logx"
)

const headerNameRequestID = "X-Request-Id"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Logger attaches a request scoped logger to the request context.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestID := r.Header.Get(headerNameRequestID)
		if requestID == "" {
			requestID = xid.New().String()
		}

		w.Header().Set(headerNameRequestID, requestID)

		ctx = contextx.WithLogger(
			ctx,
			logger(ctx).With(
				slog.String(logx.FieldRequestID, requestID),
				slog.String(logx.FieldPath, r.URL.Path),
				slog.String(logx.FieldHTTPMethod, r.Method),
				slog.String(logx.FieldRemoteAddr, r.RemoteAddr),
			),
		)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
