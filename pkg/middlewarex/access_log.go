package middlewarex

import (
	"cmp"
	"log/slog"
	"net/http"
	"time"

	"github.com/zenazn/goji/web/mutil"

	"pricewatch/pkg/logx"
)

// AccessLog logs status and latency of every request at debug level.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := mutil.WrapWriter(w)

		next.ServeHTTP(lw, r)

		// Status is 0 when the handler never called WriteHeader.
		status := cmp.Or(lw.Status(), http.StatusOK)

		logger(r.Context()).Debug(
			logx.FieldHTTPResponse,
			slog.Int(logx.FieldResponseStatus, status),
			slog.Int("bytes", lw.BytesWritten()),
			slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
		)
	})
}
