package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Market-data records are passed through largely unmodified from the
// exchange. The client types out only the fields it reads and keeps the raw
// body for callers that serialize the record onward.

// Instrument describes a tradeable instrument.
type Instrument struct {
	InstrumentName string          `json:"instrument_name"`
	BaseCurrency   string          `json:"base_currency"`
	QuoteCurrency  string          `json:"quote_currency"`
	InstrumentType string          `json:"instrument_type"`
	IsActive       bool            `json:"is_active"`
	TickSize       decimal.Decimal `json:"tick_size"`
	MinimumAmount  decimal.Decimal `json:"minimum_amount"`
	raw            json.RawMessage `json:"-"`
}

func (i *Instrument) UnmarshalJSON(b []byte) error {
	type plain Instrument
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*i = Instrument(p)
	i.raw = append(json.RawMessage(nil), b...)
	return nil
}

// Raw returns the instrument record exactly as the exchange sent it.
func (i *Instrument) Raw() json.RawMessage { return i.raw }

// Ticker carries live market data for one instrument. The on-chain asset
// address and sub-id are required to build a signed trade action.
type Ticker struct {
	InstrumentName   string          `json:"instrument_name"`
	BaseAssetAddress string          `json:"base_asset_address"`
	BaseAssetSubID   json.Number     `json:"base_asset_sub_id"`
	BestBidPrice     decimal.Decimal `json:"best_bid_price"`
	BestAskPrice     decimal.Decimal `json:"best_ask_price"`
	MarkPrice        decimal.Decimal `json:"mark_price"`
	IndexPrice       decimal.Decimal `json:"index_price"`
	raw              json.RawMessage `json:"-"`
}

func (t *Ticker) UnmarshalJSON(b []byte) error {
	type plain Ticker
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*t = Ticker(p)
	t.raw = append(json.RawMessage(nil), b...)
	return nil
}

// Raw returns the ticker record exactly as the exchange sent it.
func (t *Ticker) Raw() json.RawMessage { return t.raw }

// Orderbook is a depth snapshot. Levels are [price, amount] string pairs as
// delivered by the exchange.
type Orderbook struct {
	InstrumentName string          `json:"instrument_name"`
	Bids           [][]string      `json:"bids"`
	Asks           [][]string      `json:"asks"`
	Timestamp      int64           `json:"timestamp"`
	raw            json.RawMessage `json:"-"`
}

func (o *Orderbook) UnmarshalJSON(b []byte) error {
	type plain Orderbook
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*o = Orderbook(p)
	o.raw = append(json.RawMessage(nil), b...)
	return nil
}

// Raw returns the book snapshot exactly as the exchange sent it.
func (o *Orderbook) Raw() json.RawMessage { return o.raw }
