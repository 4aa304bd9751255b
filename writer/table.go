package writer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uilive"
	"github.com/mattn/go-colorable"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/polyrabbit/tokenmap/config"
	"github.com/polyrabbit/tokenmap/model"
)

var faint = color.New(color.Faint).SprintFunc()

type TableWriter struct {
	*uilive.Writer
	columns []string
}

// NewTableWriter renders to colored stdout, repeated renders overwrite the previous output
func NewTableWriter(columns []string) *TableWriter {
	tw := &TableWriter{Writer: uilive.New(), columns: columns}
	tw.Writer.Out = colorable.NewColorableStdout() // For Windows
	return tw
}

// NewPlainTableWriter writes to out without terminal tricks
func NewPlainTableWriter(out io.Writer, columns []string) *TableWriter {
	tw := &TableWriter{Writer: uilive.New(), columns: columns}
	tw.Writer.Out = out
	return tw
}

// Set up ascii table writer
func (tw *TableWriter) newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(tw.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	formattedHeaders := make([]string, len(headers))
	for i, hdr := range headers {
		formattedHeaders[i] = color.YellowString(hdr)
	}
	table.SetHeader(formattedHeaders)
	table.SetRowLine(true)
	table.SetCenterSeparator(faint("-"))
	table.SetColumnSeparator(faint("|"))
	table.SetRowSeparator(faint("-"))
	return table
}

func (tw *TableWriter) highlightSatoshis(inSatoshis bool) string {
	if inSatoshis {
		return color.CyanString("yes")
	}
	return faint("no")
}

func (tw *TableWriter) formatPrice(price decimal.Decimal) string {
	if price.IsZero() {
		return faint("0")
	}
	return price.String()
}

func (tw *TableWriter) RenderQuotes(quotes []*model.Quote) error {
	table := tw.newTable(tw.columns)
	for _, quote := range quotes {
		var columns []string
		for _, hdr := range tw.columns {
			switch strings.ToLower(hdr) {
			case strings.ToLower(config.ColumnSource):
				columns = append(columns, quote.Source)
			case strings.ToLower(config.ColumnPair):
				columns = append(columns, quote.Pair)
			case strings.ToLower(config.ColumnLast):
				columns = append(columns, tw.formatPrice(quote.Last))
			case strings.ToLower(config.ColumnBid):
				columns = append(columns, tw.formatPrice(quote.Bid))
			case strings.ToLower(config.ColumnAsk):
				columns = append(columns, tw.formatPrice(quote.Ask))
			case strings.ToLower(config.ColumnSatoshis):
				columns = append(columns, tw.highlightSatoshis(quote.InSatoshis))
			case strings.ToLower(config.ColumnUpdated):
				if quote.Time.Epoch() {
					columns = append(columns, faint("unknown"))
				} else {
					columns = append(columns, quote.Time.Local().Format("2006-01-02 15:04:05"))
				}
			default:
				return fmt.Errorf("unknown column: %s", hdr)
			}
		}
		table.Append(columns)
	}
	table.Render()
	return tw.Flush()
}

func (tw *TableWriter) RenderTokens(tokens []model.Token) error {
	table := tw.newTable([]string{"#", "Chain", "Symbol", "Name", "Asset"})
	for i, token := range tokens {
		table.Append([]string{strconv.Itoa(i + 1), token.Chain, token.Symbol, token.Name, token.Asset})
	}
	table.Render()
	return tw.Flush()
}

func (tw *TableWriter) RenderAssets(assets []*model.BVAMAsset) error {
	table := tw.newTable([]string{"Asset", "Name", "Description", "Website"})
	for _, asset := range assets {
		table.Append([]string{asset.Asset, asset.Name, asset.Description, asset.Website})
	}
	table.Render()
	return tw.Flush()
}

// RenderValue prints a single labelled amount, eg. a fallback rate or a token value
func (tw *TableWriter) RenderValue(label string, value decimal.Decimal, unit string) error {
	table := tw.newTable([]string{label, "Unit"})
	table.Append([]string{color.GreenString(value.String()), unit})
	table.Render()
	return tw.Flush()
}
