package tokenmap

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// satoshiExponent shifts subunit amounts into whole coins
const satoshiExponent = -8

// ReferenceQuoteWithFallback returns the last price of fiat:reference-asset from
// the first source in order whose quote is fresh. Empty arguments fall back to
// the client's configured fiat, sources and staleness window.
// Any source error ends the walk, so a source missing from the bulk feed fails
// with ErrQuoteNotFound even when a later source is fresh.
func (c *Client) ReferenceQuoteWithFallback(ctx context.Context, fiat string, sources []string, stale time.Duration) (decimal.Decimal, error) {
	if fiat == "" {
		fiat = c.fiat
	}
	if len(sources) == 0 {
		sources = c.fallbackSources
	}
	if stale <= 0 {
		stale = c.staleness
	}

	now := c.now()
	for _, source := range sources {
		quote, err := c.SourceQuote(ctx, source, fiat, c.referenceAsset)
		if err != nil {
			return decimal.Zero, err
		}
		if IsFresh(quote, now, stale) {
			return quote.Last, nil
		}
		c.logger.WithField("source", source).Debugf("Quote %s from %s is stale", quote.Pair, quote.Time)
	}
	return decimal.Zero, &ExpiredQuoteError{Message: "No sources were fresh."}
}

// TokenValue prices one token in fiat by going through the reference asset:
// the token's last price on source times the fallback-resolved fiat price.
func (c *Client) TokenValue(ctx context.Context, source, token, fiat string) (decimal.Decimal, error) {
	quote, err := c.SourceQuote(ctx, source, c.referenceAsset, token)
	if err != nil {
		return decimal.Zero, err
	}

	fiatPrice, err := c.ReferenceQuoteWithFallback(ctx, fiat, nil, 0)
	if err != nil {
		return decimal.Zero, err
	}

	value := quote.Last
	if quote.InSatoshis {
		value = value.Shift(satoshiExponent)
	}
	return value.Mul(fiatPrice), nil
}
