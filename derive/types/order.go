package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// OrderParams are the caller-supplied parameters for placing one order.
// Consumed once per request; not retained by the client.
type OrderParams struct {
	InstrumentName string
	Side           Side
	Amount         decimal.Decimal
	LimitPrice     decimal.Decimal
	OrderType      OrderType   // defaults to limit
	TimeInForce    TimeInForce // defaults to gtc
	ReduceOnly     bool
	PostOnly       bool
	Label          string // client order label; generated when empty
}

// Normalize fills the defaulted fields in place.
func (p *OrderParams) Normalize() {
	if p.OrderType == "" {
		p.OrderType = OrderTypeLimit
	}
	if p.TimeInForce == "" {
		p.TimeInForce = TimeInForceGTC
	}
}

// Validate rejects malformed parameters before any network call.
func (p *OrderParams) Validate() error {
	if p.InstrumentName == "" {
		return &ValidationError{Field: "instrument_name", Reason: "must not be empty"}
	}
	if !p.Side.Valid() {
		return &ValidationError{Field: "side", Reason: "must be buy or sell"}
	}
	if p.Amount.Sign() <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if p.LimitPrice.Sign() < 0 {
		return &ValidationError{Field: "limit_price", Reason: "must not be negative"}
	}
	if p.OrderType != "" && !p.OrderType.Valid() {
		return &ValidationError{Field: "order_type", Reason: "must be limit or market"}
	}
	if p.TimeInForce != "" && !p.TimeInForce.Valid() {
		return &ValidationError{Field: "time_in_force", Reason: "must be gtc, ioc or fok"}
	}
	return nil
}

// OrderResult is the structured outcome of an order placement. Exchange
// rejections and transport failures are data, not exceptions: exactly one of
// Order or Error is set.
type OrderResult struct {
	Order json.RawMessage `json:"order,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Order is an open order as reported by the exchange.
type Order struct {
	OrderID        string          `json:"order_id"`
	SubaccountID   uint64          `json:"subaccount_id"`
	InstrumentName string          `json:"instrument_name"`
	Direction      Side            `json:"direction"`
	LimitPrice     decimal.Decimal `json:"limit_price"`
	Amount         decimal.Decimal `json:"amount"`
	FilledAmount   decimal.Decimal `json:"filled_amount"`
	Status         string          `json:"order_status"`
	Label          string          `json:"label"`
	CreationTimeMs int64           `json:"creation_timestamp"`
}

// Position is a read-only projection of exchange state, reconstructed fresh
// on every query. Side comes from the sign of the raw amount; Amount is the
// absolute value.
type Position struct {
	InstrumentName string
	Side           PositionSide
	Amount         decimal.Decimal
	AveragePrice   decimal.Decimal
	UnrealizedPnL  decimal.Decimal
	RealizedPnL    decimal.Decimal
}

// Collateral is one collateral balance entry.
type Collateral struct {
	AssetName    string          `json:"asset_name"`
	Amount       decimal.Decimal `json:"amount"`
	MarkPrice    decimal.Decimal `json:"mark_price"`
	MarkValue    decimal.Decimal `json:"mark_value"`
	CurrentPrice decimal.Decimal `json:"current_price"`
}
