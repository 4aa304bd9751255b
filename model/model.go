package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Quote struct {
	Source     string          `json:"source"`
	Pair       string          `json:"pair"`
	InSatoshis bool            `json:"inSatoshis"`
	Bid        decimal.Decimal `json:"bid"`
	Last       decimal.Decimal `json:"last"`
	Ask        decimal.Decimal `json:"ask"`
	BidLow     decimal.Decimal `json:"bidLow"`
	BidHigh    decimal.Decimal `json:"bidHigh"`
	BidAvg     decimal.Decimal `json:"bidAvg"`
	LastLow    decimal.Decimal `json:"lastLow"`
	LastHigh   decimal.Decimal `json:"lastHigh"`
	LastAvg    decimal.Decimal `json:"lastAvg"`
	AskLow     decimal.Decimal `json:"askLow"`
	AskHigh    decimal.Decimal `json:"askHigh"`
	AskAvg     decimal.Decimal `json:"askAvg"`
	Start      Timestamp       `json:"start"`
	End        Timestamp       `json:"end"`
	Time       Timestamp       `json:"time"`
}

// Currency is the left side of the pair, e.g. USD in USD:BTC
func (q *Quote) Currency() string {
	currency, _ := SplitPair(q.Pair)
	return currency
}

// Token is the right side of the pair, e.g. BTC in USD:BTC
func (q *Quote) Token() string {
	_, token := SplitPair(q.Pair)
	return token
}

func JoinPair(currency, token string) string {
	return currency + ":" + token
}

func SplitPair(pair string) (string, string) {
	parts := strings.SplitN(pair, ":", 2)
	if len(parts) != 2 {
		return pair, ""
	}
	return parts[0], parts[1]
}

type Token struct {
	Chain  string `json:"chain"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Asset  string `json:"asset"`
}

type TokenPage struct {
	Page      int     `json:"page"`
	PerPage   int     `json:"perPage"`
	PageCount int     `json:"pageCount"`
	Count     int     `json:"count"`
	Items     []Token `json:"items"`
}

type QuoteList struct {
	Quotes []Quote `json:"quotes"`
}

// BVAMAsset is the subset of the asset metadata we care about, the full document is kept in Raw
type BVAMAsset struct {
	Asset       string          `json:"asset"`
	Name        string          `json:"name"`
	ShortName   string          `json:"short_name"`
	Description string          `json:"description"`
	Website     string          `json:"website"`
	Raw         json.RawMessage `json:"-"`
}

func (a *BVAMAsset) UnmarshalJSON(data []byte) error {
	type plain BVAMAsset
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = BVAMAsset(p)
	a.Raw = append(json.RawMessage(nil), data...)
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a quote time as reported by the service. Anything missing or
// unparseable collapses to the Unix epoch, so it reads as infinitely old.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() || t.Unix() == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = ParseTimestamp(string(bytes.Trim(data, `"`)))
	return nil
}

func ParseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw != "" && raw != "null" {
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, raw); err == nil {
				return parsed
			}
		}
	}
	return time.Unix(0, 0)
}

// Epoch reports whether the timestamp was missing or could not be parsed
func (t Timestamp) Epoch() bool {
	return t.IsZero() || t.Unix() == 0
}
