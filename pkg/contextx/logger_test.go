package contextx_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"pricewatch/pkg/contextx"
)

func TestLogger(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	var testLoggerNil *slog.Logger

	var buf bytes.Buffer

	testLogger := slog.New(slog.NewTextHandler(&buf, nil))

	logger, err := contextx.LoggerFromContext(ctx)
	rq.Equal(testLoggerNil, logger)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.ErrorContains(err, "logger: no value in context")

	rq.Equal(slog.Default(), contextx.LoggerFromContextOrDefault(ctx))

	ctx = contextx.WithLogger(ctx, testLogger)

	logger, err = contextx.LoggerFromContext(ctx)
	rq.Equal(testLogger, logger)
	rq.NoError(err)

	contextx.LoggerFromContextOrDefault(ctx).Info("price checked", slog.String("key", "value"))
	rq.Contains(buf.String(), "price checked")
	rq.Contains(buf.String(), "key=value")
}
