package client

import (
	"context"
	"encoding/json"

	"github.com/betbot/goderive/derive/types"
)

// Public market-data queries. These degrade to empty/absent results on any
// failure: the caller treats market data as best-effort, and every failure
// is logged so nothing disappears silently.

// GetInstruments lists active instruments for a currency and kind. Returns
// the exchange's list unfiltered and in its original order; empty on any
// failure.
func (c *Client) GetInstruments(ctx context.Context, currency string, kind types.InstrumentKind) []types.Instrument {
	resp, err := c.transport.post(ctx, EndpointGetInstruments, nil, map[string]any{
		"currency":        currency,
		"instrument_type": string(kind),
		"expired":         false,
	}, true)
	if err != nil || resp == nil || resp.Error != nil || resp.Result == nil {
		return nil
	}
	var instruments []types.Instrument
	if err := json.Unmarshal(resp.Result, &instruments); err != nil {
		c.log.WithError(err).Error("unexpected get_instruments result shape")
		return nil
	}
	return instruments
}

// GetTicker fetches live market data for one instrument; nil on failure.
func (c *Client) GetTicker(ctx context.Context, instrumentName string) *types.Ticker {
	resp, err := c.transport.post(ctx, EndpointGetTicker, nil, map[string]any{
		"instrument_name": instrumentName,
	}, true)
	if err != nil || resp == nil || resp.Error != nil || resp.Result == nil {
		return nil
	}
	var ticker types.Ticker
	if err := json.Unmarshal(resp.Result, &ticker); err != nil {
		c.log.WithError(err).Error("unexpected get_ticker result shape")
		return nil
	}
	return &ticker
}

// GetOrderbook fetches a depth snapshot; nil on failure or non-positive
// depth.
func (c *Client) GetOrderbook(ctx context.Context, instrumentName string, depth int) *types.Orderbook {
	if depth <= 0 {
		return nil
	}
	resp, err := c.transport.post(ctx, EndpointGetOrderbook, nil, map[string]any{
		"instrument_name": instrumentName,
		"depth":           depth,
	}, true)
	if err != nil || resp == nil || resp.Error != nil || resp.Result == nil {
		return nil
	}
	var book types.Orderbook
	if err := json.Unmarshal(resp.Result, &book); err != nil {
		c.log.WithError(err).Error("unexpected get_order_book result shape")
		return nil
	}
	return &book
}
