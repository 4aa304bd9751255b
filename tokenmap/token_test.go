package tokenmap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/polyrabbit/tokenmap/http"
	"github.com/polyrabbit/tokenmap/model"
)

func defaultTokens() []model.Token {
	return []model.Token{
		{Chain: "bitcoin", Symbol: "BTC", Name: "Bitcoin", Asset: "BTC"},
		{Chain: "ethereum", Symbol: "ETH", Name: "Ethereum", Asset: "ETH"},
		{Chain: "bitcoin", Symbol: "XCP", Name: "Counterparty", Asset: "XCP"},
		{Chain: "bitcoin", Symbol: "FLDC", Name: "FoldingCoin", Asset: "FLDC"},
		{Chain: "bitcoin", Symbol: "SOUP", Name: "Soup", Asset: "SOUP"},
		{Chain: "ethereum", Symbol: "CK", Name: "CryptoKitties", Asset: "0x06012c8cf97BEaD5deAe237070F9587f8E7A266d"},
	}
}

func notFound() error {
	return &http.ResponseError{StatusCode: 404, Status: "404 Not Found", Message: "Token not found"}
}

func TestClient_TokenByChainAndSymbol(t *testing.T) {
	ctx := context.Background()
	fldc := defaultTokens()[3]

	t.Run("found token is cached", func(t *testing.T) {
		f := newFixture(t)
		f.fetcher.EXPECT().
			Get(gomock.Any(), "token/bitcoin/FLDC", gomock.Any()).
			Return(mustJSON(t, fldc), nil).
			Times(1)

		for i := 0; i < 2; i++ {
			token, err := f.client.TokenByChainAndSymbol(ctx, "bitcoin", "FLDC", true)
			require.NoError(t, err)
			assert.Equal(t, &fldc, token)
		}
		cached, ok := f.store.Get("bySymbol.bitcoin.FLDC")
		require.True(t, ok)
		assert.JSONEq(t, string(mustJSON(t, fldc)), string(cached))
	})

	t.Run("not found is cached as negative", func(t *testing.T) {
		f := newFixture(t)
		f.fetcher.EXPECT().
			Get(gomock.Any(), "token/bitcoin/NOTFOUND", gomock.Any()).
			Return(nil, notFound()).
			Times(1)

		token, err := f.client.TokenByChainAndSymbol(ctx, "bitcoin", "NOTFOUND", true)
		require.NoError(t, err)
		assert.Nil(t, token)

		cached, ok := f.store.Get("bySymbol.bitcoin.NOTFOUND")
		require.True(t, ok, "negative result must be distinguishable from absent")
		assert.Equal(t, "false", string(cached))

		token, err = f.client.TokenByChainAndSymbol(ctx, "bitcoin", "NOTFOUND", true)
		require.NoError(t, err)
		assert.Nil(t, token)
	})

	t.Run("negative entry expires with the token ttl", func(t *testing.T) {
		f := newFixture(t)
		f.fetcher.EXPECT().
			Get(gomock.Any(), "token/bitcoin/LATER", gomock.Any()).
			Return(nil, notFound()).
			Times(2)

		_, err := f.client.TokenByChainAndSymbol(ctx, "bitcoin", "LATER", true)
		require.NoError(t, err)
		f.clock.now = f.clock.now.Add(2 * time.Minute)
		_, err = f.client.TokenByChainAndSymbol(ctx, "bitcoin", "LATER", true)
		require.NoError(t, err)
	})

	t.Run("other errors propagate uncached", func(t *testing.T) {
		f := newFixture(t)
		boom := errors.New("i/o timeout")
		f.fetcher.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)

		_, err := f.client.TokenByChainAndSymbol(ctx, "bitcoin", "FLDC", true)
		assert.Equal(t, boom, err)
		_, ok := f.store.Get("bySymbol.bitcoin.FLDC")
		assert.False(t, ok)
	})

	t.Run("cache disabled always fetches", func(t *testing.T) {
		f := newFixture(t)
		f.fetcher.EXPECT().
			Get(gomock.Any(), "token/bitcoin/FLDC", gomock.Any()).
			Return(mustJSON(t, fldc), nil).
			Times(2)

		for i := 0; i < 2; i++ {
			_, err := f.client.TokenByChainAndSymbol(ctx, "bitcoin", "FLDC", false)
			require.NoError(t, err)
		}
		assert.Equal(t, 0, f.store.Len())
	})
}

func TestClient_TokenByChainAndAsset(t *testing.T) {
	ctx := context.Background()
	kitty := defaultTokens()[5]

	t.Run("found token is cached by asset", func(t *testing.T) {
		f := newFixture(t)
		f.fetcher.EXPECT().
			Get(gomock.Any(), "asset/ethereum/"+kitty.Asset, gomock.Any()).
			Return(mustJSON(t, kitty), nil)

		token, err := f.client.TokenByChainAndAsset(ctx, "ethereum", kitty.Asset, true)
		require.NoError(t, err)
		assert.Equal(t, &kitty, token)

		_, ok := f.store.Get("byAsset.ethereum." + kitty.Asset)
		assert.True(t, ok)
	})

	t.Run("not found asset", func(t *testing.T) {
		f := newFixture(t)
		f.fetcher.EXPECT().
			Get(gomock.Any(), "asset/bitcoin/NOTFOUNDASSET", gomock.Any()).
			Return(nil, notFound())

		token, err := f.client.TokenByChainAndAsset(ctx, "bitcoin", "NOTFOUNDASSET", true)
		require.NoError(t, err)
		assert.Nil(t, token)

		cached, ok := f.store.Get("byAsset.bitcoin.NOTFOUNDASSET")
		require.True(t, ok)
		assert.Equal(t, "false", string(cached))
	})
}

func TestClient_AllTokens(t *testing.T) {
	ctx := context.Background()
	page := model.TokenPage{Page: 0, PerPage: 100, PageCount: 1, Count: 6, Items: defaultTokens()}

	t.Run("single page fetched once", func(t *testing.T) {
		f := newFixture(t)
		f.fetcher.EXPECT().
			Get(gomock.Any(), "token/all", map[string]string{"pg": "0", "limit": "100"}).
			Return(mustJSON(t, page), nil).
			Times(1)

		tokens, err := f.client.AllTokens(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, defaultTokens(), tokens)

		tokens, err = f.client.AllTokens(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, defaultTokens(), tokens)
	})

	t.Run("refetched after ttl", func(t *testing.T) {
		f := newFixture(t)
		f.fetcher.EXPECT().Get(gomock.Any(), "token/all", gomock.Any()).Return(mustJSON(t, page), nil).Times(2)

		_, err := f.client.AllTokens(ctx, true)
		require.NoError(t, err)
		f.clock.now = f.clock.now.Add(2 * time.Minute)
		_, err = f.client.AllTokens(ctx, true)
		require.NoError(t, err)
	})

	t.Run("without cache", func(t *testing.T) {
		f := newFixture(t)
		f.fetcher.EXPECT().Get(gomock.Any(), "token/all", gomock.Any()).Return(mustJSON(t, page), nil).Times(2)

		for i := 0; i < 2; i++ {
			_, err := f.client.AllTokens(ctx, false)
			require.NoError(t, err)
		}
	})
}

func TestClient_TokensByPage(t *testing.T) {
	f := newFixture(t)
	f.fetcher.EXPECT().
		Get(gomock.Any(), "token/all", map[string]string{"pg": "2", "limit": "100"}).
		Return(nil, nil)

	page, err := f.client.TokensByPage(context.Background(), 2, 500)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
