package tokenmap

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/polyrabbit/tokenmap/cache"
	"github.com/polyrabbit/tokenmap/model"
)

// Rates are stamped at this time, the clock sits one minute later by default
var rateTime = model.ParseTimestamp("2017-08-30T00:00:00-0500")

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

type fixture struct {
	client  *Client
	fetcher *MockFetcher
	store   *cache.MemoryStore
	clock   *testClock
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	clock := &testClock{now: rateTime.Add(time.Minute)}
	f := &fixture{
		fetcher: NewMockFetcher(ctrl),
		store:   cache.NewMemoryStore(cache.WithClock(clock.Now)),
		clock:   clock,
	}
	f.client = New(f.fetcher, f.store, append([]Option{WithClock(clock.Now)}, opts...)...)
	return f
}

func newRate(source, pair string, last int64, inSatoshis bool) model.Quote {
	price := decimal.NewFromInt(last)
	return model.Quote{
		Source:     source,
		Pair:       pair,
		InSatoshis: inSatoshis,
		Bid:        price.Sub(decimal.RequireFromString("0.05")),
		Last:       price,
		Ask:        price.Add(decimal.RequireFromString("0.05")),
		LastAvg:    price,
		Start:      model.Timestamp{Time: rateTime},
		End:        model.Timestamp{Time: rateTime},
		Time:       model.Timestamp{Time: rateTime},
	}
}

func defaultRates() []model.Quote {
	return []model.Quote{
		newRate("bitcoinAverage", "USD:BTC", 4000, false),
		newRate("bitstamp", "USD:BTC", 4001, false),
		newRate("poloniex", "BTC:MYTOKEN", 100, true),
	}
}

func quoteListBody(t *testing.T, quotes []model.Quote) []byte {
	t.Helper()
	body, err := json.Marshal(model.QuoteList{Quotes: quotes})
	require.NoError(t, err)
	return body
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return body
}
