package tokenmap

import (
	"context"
	"encoding/json"
	"time"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/polyrabbit/tokenmap/http"
	"github.com/polyrabbit/tokenmap/model"
)

type QuoteRequest struct {
	Currency string // base currency, e.g. USD or BTC
	Token    string // e.g. BTC or MYTOKEN
	Chain    string // e.g. bitcoin or ethereum

	// MaxStaleness fails the request with ErrExpiredQuote when the quote is at
	// least this old. Zero means no bound, so a zero-width window that rejects
	// every quote cannot be requested.
	MaxStaleness time.Duration
	// ForceReload skips the cache read, the fetched quote is still cached
	ForceReload bool
}

func quoteKey(chain, currency, token string) string {
	return "quote/" + chain + "/" + model.JoinPair(currency, token)
}

func sourceQuoteKey(source, pair string) string {
	return "source/" + source + "/" + pair
}

// IsFresh reports whether the quote is younger than window at now.
// A quote exactly window old is stale.
func IsFresh(quote *model.Quote, now time.Time, window time.Duration) bool {
	quoteTime := quote.Time.Time
	if quote.Time.IsZero() {
		quoteTime = time.Unix(0, 0)
	}
	return now.Sub(quoteTime) < window
}

// Quote resolves currency:token on chain
func (c *Client) Quote(ctx context.Context, req QuoteRequest) (*model.Quote, error) {
	key := quoteKey(req.Chain, req.Currency, req.Token)

	var quote *model.Quote
	if !req.ForceReload {
		if state, value := c.readCache(key); state == cacheFound && !emptyJSON(value) {
			quote = new(model.Quote)
			if err := json.Unmarshal(value, quote); err != nil {
				c.logger.WithField("key", key).Debugf("Dropping undecodable cached quote: %v", err)
				quote = nil
			}
		}
	}

	if quote == nil {
		var err error
		if quote, err = c.loadQuote(ctx, key, req); err != nil {
			return nil, err
		}
	}

	if req.MaxStaleness > 0 && !IsFresh(quote, c.now(), req.MaxStaleness) {
		return nil, &ExpiredQuoteError{Message: "The requested quote was not fresh."}
	}
	return quote, nil
}

func (c *Client) loadQuote(ctx context.Context, key string, req QuoteRequest) (*model.Quote, error) {
	body, err := c.fetcher.Get(ctx, key, nil)
	if err != nil {
		return nil, err
	}
	if emptyJSON(body) {
		return nil, errors.Wrapf(ErrQuoteNotFound, "%s on chain %s", model.JoinPair(req.Currency, req.Token), req.Chain)
	}

	quote := new(model.Quote)
	if err := json.Unmarshal(body, quote); err != nil {
		return nil, errors.Wrapf(http.ErrUnexpectedResponse, "decode quote %s: %v", key, err)
	}
	c.store.Put(key, body, c.quoteTTL)
	return quote, nil
}

// SimpleQuote returns only the last traded price
func (c *Client) SimpleQuote(ctx context.Context, req QuoteRequest) (decimal.Decimal, error) {
	quote, err := c.Quote(ctx, req)
	if err != nil {
		return decimal.Zero, err
	}
	return quote.Last, nil
}

// SourceQuote resolves currency:token as reported by one quote source, e.g. bitstamp.
// Misses are served from the bulk feed, which refreshes every source at once.
// No freshness check happens here.
func (c *Client) SourceQuote(ctx context.Context, source, currency, token string) (*model.Quote, error) {
	pair := model.JoinPair(currency, token)
	key := sourceQuoteKey(source, pair)

	if state, value := c.readCache(key); state == cacheFound && !emptyJSON(value) {
		var quote model.Quote
		if err := json.Unmarshal(value, &quote); err == nil {
			return &quote, nil
		}
	}

	quotes, err := c.loadAllQuotes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range quotes {
		if quotes[i].Source == source && quotes[i].Pair == pair {
			return &quotes[i], nil
		}
	}
	return nil, errors.Wrapf(ErrQuoteNotFound, "for %s with pair %s", source, pair)
}

// AllQuotes returns the bulk feed as is, uncached
func (c *Client) AllQuotes(ctx context.Context) ([]model.Quote, error) {
	body, err := c.fetcher.Get(ctx, "quote/all", nil)
	if err != nil {
		return nil, err
	}
	if emptyJSON(body) {
		return nil, nil
	}
	var list model.QuoteList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, errors.Wrapf(http.ErrUnexpectedResponse, "decode quote list: %v", err)
	}
	return list.Quotes, nil
}

// PopulateQuotes loads the bulk feed into the cache and reports how many quotes it stored
func (c *Client) PopulateQuotes(ctx context.Context) (int, error) {
	quotes, err := c.loadAllQuotes(ctx)
	return len(quotes), err
}

// loadAllQuotes caches every quote of the bulk feed as the service sent it
func (c *Client) loadAllQuotes(ctx context.Context) ([]model.Quote, error) {
	body, err := c.fetcher.Get(ctx, "quote/all", nil)
	if err != nil {
		return nil, err
	}
	if emptyJSON(body) {
		return nil, nil
	}

	var (
		quotes   []model.Quote
		entryErr error
	)
	_, err = jsonparser.ArrayEach(body, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if entryErr != nil || dataType != jsonparser.Object {
			return
		}
		var quote model.Quote
		if err := json.Unmarshal(value, &quote); err != nil {
			entryErr = errors.Wrapf(http.ErrUnexpectedResponse, "decode quote: %v", err)
			return
		}
		c.store.Put(sourceQuoteKey(quote.Source, quote.Pair), value, c.quoteTTL)
		quotes = append(quotes, quote)
	}, "quotes")
	if err != nil && err != jsonparser.KeyPathNotFoundError {
		return nil, errors.Wrapf(http.ErrUnexpectedResponse, "decode quote list: %v", err)
	}
	if entryErr != nil {
		return nil, entryErr
	}
	c.logger.Debugf("Cached %d quotes from the bulk feed", len(quotes))
	return quotes, nil
}
