package tokenmap

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"github.com/polyrabbit/tokenmap/http"
	"github.com/polyrabbit/tokenmap/model"
)

const allTokensKey = "tokenmap.allTokens"

// TokenByChainAndSymbol returns nil without error when the service does not know the token.
// That answer is cached too, so a repeat lookup does not go back to the network.
func (c *Client) TokenByChainAndSymbol(ctx context.Context, chain, symbol string, useCache bool) (*model.Token, error) {
	key := ""
	if useCache {
		key = "bySymbol." + chain + "." + symbol
	}
	return c.loadToken(ctx, key, "token/"+chain+"/"+symbol)
}

// TokenByChainAndAsset is TokenByChainAndSymbol keyed by asset, e.g. a contract address
func (c *Client) TokenByChainAndAsset(ctx context.Context, chain, asset string, useCache bool) (*model.Token, error) {
	key := ""
	if useCache {
		key = "byAsset." + chain + "." + asset
	}
	return c.loadToken(ctx, key, "asset/"+chain+"/"+asset)
}

func (c *Client) loadToken(ctx context.Context, key, path string) (*model.Token, error) {
	if key != "" {
		switch state, value := c.readCache(key); state {
		case cacheNegative:
			return nil, nil
		case cacheFound:
			var token model.Token
			if err := json.Unmarshal(value, &token); err == nil {
				return &token, nil
			}
		}
	}

	body, err := c.fetcher.Get(ctx, path, nil)
	if err != nil {
		if !http.IsNotFound(err) {
			// other errors are not cached
			return nil, err
		}
		if key != "" {
			c.store.Put(key, negativeMarker, c.tokenTTL)
		}
		return nil, nil
	}
	if emptyJSON(body) {
		return nil, nil
	}

	var token model.Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, errors.Wrapf(http.ErrUnexpectedResponse, "decode token %s: %v", path, err)
	}
	if key != "" {
		c.store.Put(key, body, c.tokenTTL)
	}
	return &token, nil
}

// AllTokens returns the first page of tokens, at most 100 of them.
// Later pages are never requested.
func (c *Client) AllTokens(ctx context.Context, useCache bool) ([]model.Token, error) {
	if useCache {
		if state, value := c.readCache(allTokensKey); state == cacheFound && !emptyJSON(value) {
			var tokens []model.Token
			if err := json.Unmarshal(value, &tokens); err == nil {
				return tokens, nil
			}
		}
	}

	page, err := c.TokensByPage(ctx, 0, maxPageSize)
	if err != nil {
		return nil, err
	}

	if useCache {
		encoded, err := json.Marshal(page.Items)
		if err != nil {
			return nil, errors.Wrap(err, "encode token list")
		}
		c.store.Put(allTokensKey, encoded, c.tokenTTL)
	}
	return page.Items, nil
}

// TokensByPage fetches one raw page, uncached. limit is clamped to 1..100.
func (c *Client) TokensByPage(ctx context.Context, pg, limit int) (*model.TokenPage, error) {
	if pg < 0 {
		pg = 0
	}
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	body, err := c.fetcher.Get(ctx, "token/all", map[string]string{
		"pg":    strconv.Itoa(pg),
		"limit": strconv.Itoa(limit),
	})
	if err != nil {
		return nil, err
	}

	page := new(model.TokenPage)
	if emptyJSON(body) {
		return page, nil
	}
	if err := json.Unmarshal(body, page); err != nil {
		return nil, errors.Wrapf(http.ErrUnexpectedResponse, "decode token page: %v", err)
	}
	return page, nil
}
