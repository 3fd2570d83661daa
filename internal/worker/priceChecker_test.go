package worker_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"pricewatch/internal/domain"
	"pricewatch/internal/domain/entity"
	"pricewatch/internal/domain/service/watch"
	"pricewatch/internal/infrastructure/listings"
	"pricewatch/internal/infrastructure/marketplace"
	"pricewatch/internal/infrastructure/notifier"
	"pricewatch/internal/worker"
	"pricewatch/pkg/contextx"
	"pricewatch/pkg/errcodes"
	"pricewatch/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type recordingNotifier struct {
	mu     sync.Mutex
	calls  [][]entity.Alert
	runIDs []contextx.RunID
	err    error
}

func (n *recordingNotifier) Notify(ctx context.Context, alerts []entity.Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	runID, _ := contextx.RunIDFromContext(ctx) //nolint:errcheck

	n.calls = append(n.calls, alerts)
	n.runIDs = append(n.runIDs, runID)

	return n.err
}

type failingSource struct {
	err error
}

func (s failingSource) Load(context.Context) ([]entity.Listing, error) {
	return nil, s.err
}

type recorder struct {
	mu            sync.Mutex
	runs          []metrics.RunCounts
	runErrs       []error
	notifications []error
}

func (r *recorder) ObserveRun(counts metrics.RunCounts, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs = append(r.runs, counts)
	r.runErrs = append(r.runErrs, err)
}

func (r *recorder) ObserveNotification(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = append(r.notifications, err)
}

func fixedPrices(prices map[string]int64) *marketplace.PriceSourceMock {
	return &marketplace.PriceSourceMock{
		FetchPriceFunc: func(_ context.Context, url string) (int64, bool, error) {
			price, ok := prices[url]
			if !ok {
				return 0, false, errors.New("navigation failed")
			}

			return price, true, nil
		},
	}
}

func newChecker(src worker.ListingSource, prices map[string]int64, n worker.Notifier) *worker.PriceChecker {
	svc := watch.NewService(marketplace.NewMercariRegistry(fixedPrices(prices)))

	return worker.NewPriceChecker(src, svc, n)
}

func TestPriceCheckerRunOnce(t *testing.T) {
	rq := require.New(t)

	src := listings.Static{
		{Name: "A", URL: "a", Threshold: 10000, UserIDs: []string{"1"}},
		{Name: "B", URL: "b", Threshold: 5000, UserIDs: []string{"2"}},
		{Name: "C", URL: "c", Threshold: 100, UserIDs: []string{"3"}},
	}

	testCases := []struct {
		name           string
		prices         map[string]int64
		notifyErr      error
		wantNotified   []string
		wantRecipients []string
		wantCounts     metrics.RunCounts
		notifications  int
	}{
		{
			name:           "Two drops, one failure",
			prices:         map[string]int64{"a": 9500, "b": 4000},
			wantNotified:   []string{"A", "B"},
			wantRecipients: []string{"1", "2"},
			wantCounts:     metrics.RunCounts{Checked: 3, Failed: 1, Matched: 2},
			notifications:  1,
		},
		{
			name:       "No drops",
			prices:     map[string]int64{"a": 20000, "b": 6000, "c": 101},
			wantCounts: metrics.RunCounts{Checked: 3},
		},
		{
			name:           "Delivery error is not fatal",
			prices:         map[string]int64{"a": 10000, "b": 5001, "c": 200},
			notifyErr:      errors.New("webhook rejected"),
			wantNotified:   []string{"A"},
			wantRecipients: []string{"1"},
			wantCounts:     metrics.RunCounts{Checked: 3, Matched: 1},
			notifications:  1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			n := &recordingNotifier{err: tc.notifyErr}
			rec := &recorder{}

			checker := newChecker(src, tc.prices, n).WithRecorder(rec)

			rq.NoError(checker.RunOnce(context.Background()))

			rq.Len(n.calls, tc.notifications)

			if len(tc.wantNotified) > 0 {
				names := make([]string, 0, len(n.calls[0]))
				for _, a := range n.calls[0] {
					names = append(names, a.Listing.Name)
				}

				rq.Equal(tc.wantNotified, names)
				rq.Equal(tc.wantRecipients, notifier.Recipients(n.calls[0]))
				rq.NotEmpty(n.runIDs[0])
			}

			rq.Equal([]metrics.RunCounts{tc.wantCounts}, rec.runs)
			rq.Equal([]error{nil}, rec.runErrs)
			rq.Len(rec.notifications, tc.notifications)
		})
	}
}

func TestPriceCheckerRunOnceSourceError(t *testing.T) {
	rq := require.New(t)

	loadErr := domain.NewError(errcodes.ListingsUnreadable, "listings file unreadable")
	n := &recordingNotifier{}
	rec := &recorder{}

	checker := newChecker(failingSource{err: loadErr}, nil, n).WithRecorder(rec)

	err := checker.RunOnce(context.Background())
	rq.ErrorIs(err, loadErr)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.ListingsUnreadable, code)

	rq.Empty(n.calls)
	rq.Len(rec.runErrs, 1)
	rq.Error(rec.runErrs[0])
}

func TestPriceCheckerRunScheduled(t *testing.T) {
	rq := require.New(t)

	var runs atomic.Int32

	src := &countingSource{runs: &runs}
	checker := newChecker(src, nil, &recordingNotifier{})

	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()

	rq.NoError(checker.RunScheduled(ctx, "* * * * * *"))

	// One immediate run plus at least one tick.
	rq.GreaterOrEqual(runs.Load(), int32(2))
}

func TestPriceCheckerRunScheduledSkipsOverlap(t *testing.T) {
	rq := require.New(t)

	var runs atomic.Int32

	src := &countingSource{runs: &runs, delay: 3 * time.Second}
	checker := newChecker(src, nil, &recordingNotifier{})

	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()

	rq.NoError(checker.RunScheduled(ctx, "* * * * * *"))
	rq.Equal(int32(1), runs.Load())
}

func TestPriceCheckerRunScheduledInvalidSpec(t *testing.T) {
	rq := require.New(t)

	checker := newChecker(listings.Static{}, nil, &recordingNotifier{})

	err := checker.RunScheduled(context.Background(), "every tuesday")

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InvalidSchedule, code)
}

type countingSource struct {
	runs  *atomic.Int32
	delay time.Duration
}

func (s *countingSource) Load(ctx context.Context) ([]entity.Listing, error) {
	s.runs.Add(1)

	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
	}

	return nil, nil
}

// displayedPrices parses the text a page would show for each url.
func displayedPrices(texts map[string]string) *marketplace.PriceSourceMock {
	return &marketplace.PriceSourceMock{
		FetchPriceFunc: func(_ context.Context, url string) (int64, bool, error) {
			text, ok := texts[url]
			if !ok {
				return 0, false, marketplace.ErrPriceElementTimeout
			}

			price, err := marketplace.ParsePrice(text)
			if err != nil {
				return 0, false, err
			}

			return price, true, nil
		},
	}
}

func TestPriceCheckerRunOnceDiscord(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		listings listings.Static
		texts    map[string]string
		posts    int
		blocks   []string
	}{
		{
			name: "One of two below threshold",
			listings: listings.Static{
				{Name: "Umbreon", Code: "S6a", Condition: "PSA 10", URL: "https://jp.mercari.com/item/m1", Threshold: 220000, UserIDs: []string{"7"}},
				{Name: "Pikachu", Code: "S8a", Condition: "Raw", URL: "https://jp.mercari.com/item/m2", Threshold: 40000, UserIDs: []string{"8"}},
			},
			texts: map[string]string{
				"https://jp.mercari.com/item/m1": "215,000",
				"https://jp.mercari.com/item/m2": "50,000",
			},
			posts: 1,
			blocks: []string{
				"• **Umbreon - (S6a) - PSA 10**\n  Price: **¥215,000** (Threshold: ¥220,000) - [Link](https://jp.mercari.com/item/m1)",
			},
		},
		{
			name: "Timeout on first listing",
			listings: listings.Static{
				{Name: "Mew", Code: "SV2a", Condition: "Raw", URL: "https://jp.mercari.com/item/m3", Threshold: 5000},
				{Name: "Eevee", Code: "SV4a", Condition: "Raw", URL: "https://jp.mercari.com/item/m4", Threshold: 20000},
			},
			texts: map[string]string{
				"https://jp.mercari.com/item/m4": "10,000",
			},
			posts: 1,
			blocks: []string{
				"• **Eevee - (SV4a) - Raw**\n  Price: **¥10,000** (Threshold: ¥20,000) - [Link](https://jp.mercari.com/item/m4)",
			},
		},
		{
			name: "Nothing qualifies",
			listings: listings.Static{
				{Name: "Mew", Code: "SV2a", Condition: "Raw", URL: "https://jp.mercari.com/item/m3", Threshold: 5000},
			},
			texts: map[string]string{
				"https://jp.mercari.com/item/m3": "5,001",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var (
				mu    sync.Mutex
				posts int
				body  []byte
			)

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mu.Lock()
				defer mu.Unlock()

				posts++
				body, _ = io.ReadAll(r.Body) //nolint:errcheck

				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			svc := watch.NewService(marketplace.NewMercariRegistry(displayedPrices(tc.texts)))
			discord := notifier.NewDiscord(server.URL+"/api/webhooks/1/token", server.Client())

			rq.NoError(worker.NewPriceChecker(tc.listings, svc, discord).RunOnce(context.Background()))

			mu.Lock()
			defer mu.Unlock()

			rq.Equal(tc.posts, posts)

			if tc.posts == 0 {
				return
			}

			var payload notifier.WebhookPayload
			rq.NoError(json.Unmarshal(body, &payload))
			rq.Len(payload.Embeds, 1)

			blocks := strings.Split(payload.Embeds[0].Description, "\n\n")
			rq.Equal(tc.blocks, blocks)
		})
	}
}
