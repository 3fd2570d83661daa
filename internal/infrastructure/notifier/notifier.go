package notifier

import (
	"context"
	"errors"
	"sort"

	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"pricewatch/internal/domain/entity"
	"pricewatch/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Notifier delivers one message describing every alert of a run.
type Notifier interface {
	Notify(ctx context.Context, alerts []entity.Alert) error
}

// Multi sends the alerts through every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, alerts []entity.Alert) error {
	var errs []error

	for _, n := range m {
		if err := n.Notify(ctx, alerts); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Recipients returns the sorted union of user ids over alerts.
func Recipients(alerts []entity.Alert) []string {
	ids := lo.Uniq(lo.FlatMap(alerts, func(a entity.Alert, _ int) []string {
		return a.Listing.UserIDs
	}))

	sort.Strings(ids)

	return ids
}

func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

func yen(p *message.Printer, amount int64) string {
	return p.Sprintf("¥%d", amount)
}
