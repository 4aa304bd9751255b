package writer

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyrabbit/tokenmap/config"
	"github.com/polyrabbit/tokenmap/model"
)

func init() {
	color.NoColor = true
}

func TestTableWriter(t *testing.T) {
	quote := &model.Quote{
		Source: "bitstamp",
		Pair:   "USD:BTC",
		Last:   decimal.RequireFromString("4001.5"),
		Time:   model.Timestamp{Time: model.ParseTimestamp("2017-08-30T00:00:00-0500")},
	}

	t.Run("RenderQuotes", func(t *testing.T) {
		var out bytes.Buffer
		tw := NewPlainTableWriter(&out, []string{config.ColumnSource, config.ColumnPair, config.ColumnLast, config.ColumnSatoshis})
		require.NoError(t, tw.RenderQuotes([]*model.Quote{quote}))
		assert.Contains(t, out.String(), "bitstamp")
		assert.Contains(t, out.String(), "4001.5")
		assert.Contains(t, out.String(), "no")
	})

	t.Run("unknown column", func(t *testing.T) {
		tw := NewPlainTableWriter(&bytes.Buffer{}, []string{"Volume"})
		assert.Error(t, tw.RenderQuotes([]*model.Quote{quote}))
	})

	t.Run("RenderTokens", func(t *testing.T) {
		var out bytes.Buffer
		tw := NewPlainTableWriter(&out, nil)
		require.NoError(t, tw.RenderTokens([]model.Token{{Chain: "bitcoin", Symbol: "FLDC", Name: "FoldingCoin", Asset: "FLDC"}}))
		assert.Contains(t, out.String(), "FoldingCoin")
	})

	t.Run("RenderValue", func(t *testing.T) {
		var out bytes.Buffer
		tw := NewPlainTableWriter(&out, nil)
		require.NoError(t, tw.RenderValue("MYTOKEN", decimal.RequireFromString("0.004"), "USD"))
		assert.Contains(t, out.String(), "0.004")
	})
}
