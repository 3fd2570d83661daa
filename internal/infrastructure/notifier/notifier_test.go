package notifier_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"pricewatch/internal/domain/entity"
	"pricewatch/internal/infrastructure/notifier"
)

type notifierFunc func(ctx context.Context, alerts []entity.Alert) error

func (f notifierFunc) Notify(ctx context.Context, alerts []entity.Alert) error {
	return f(ctx, alerts)
}

func TestMulti(t *testing.T) {
	rq := require.New(t)

	errFirst := errors.New("first")
	errThird := errors.New("third")

	var calls int

	multi := notifier.Multi{
		notifierFunc(func(context.Context, []entity.Alert) error { calls++; return errFirst }),
		notifierFunc(func(context.Context, []entity.Alert) error { calls++; return nil }),
		notifierFunc(func(context.Context, []entity.Alert) error { calls++; return errThird }),
	}

	err := multi.Notify(context.Background(), testAlerts())
	rq.ErrorIs(err, errFirst)
	rq.ErrorIs(err, errThird)
	rq.Equal(3, calls)

	rq.NoError(notifier.Multi{}.Notify(context.Background(), testAlerts()))
}

func TestRecipients(t *testing.T) {
	rq := require.New(t)

	rq.Equal([]string{"1", "2"}, notifier.Recipients(testAlerts()))
	rq.Empty(notifier.Recipients(nil))
}
