package client

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/betbot/goderive/derive/signing"
	"github.com/betbot/goderive/derive/types"
)

// maxOrderFee is the max fee the signed action authorizes the exchange to
// charge, in quote units.
var maxOrderFee = decimal.NewFromInt(1000)

// PlaceOrder signs and submits one order. Exchange rejections and transport
// failures come back inside the OrderResult; the error return is reserved
// for the programmer/config class (bad params, failed login, broken signing
// capability). A failed placement leaves no state behind.
func (c *Client) PlaceOrder(ctx context.Context, params types.OrderParams) (*types.OrderResult, error) {
	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	headers, err := c.ensureAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	c.log.Infof("placing order: %s %s %s @ %s",
		params.Side, params.Amount, params.InstrumentName, params.LimitPrice)

	// The on-chain asset address and sub-id come from live market data, so
	// a stale or delisted instrument surfaces here instead of as a signing
	// failure downstream.
	ticker := c.GetTicker(ctx, params.InstrumentName)
	if ticker == nil {
		msg := fmt.Sprintf("Could not get ticker for %s", params.InstrumentName)
		c.log.Error(msg)
		return &types.OrderResult{Error: msg}, nil
	}

	action, err := c.buildAction(params, ticker)
	if err != nil {
		return nil, err
	}
	if err := action.Sign(c.signer, c.constants); err != nil {
		return nil, err
	}

	label := params.Label
	if label == "" {
		label = uuid.NewString()
	}
	payload := map[string]any{
		"instrument_name": params.InstrumentName,
		"direction":       string(params.Side),
		"order_type":      string(params.OrderType),
		"mmp":             false,
		"time_in_force":   string(params.TimeInForce),
		"reduce_only":     params.ReduceOnly,
		"post_only":       params.PostOnly,
		"label":           label,
	}
	for k, v := range action.ToPayload() {
		payload[k] = v
	}

	if err := c.limiter.Wait(ctx, rateClassOrder); err != nil {
		return nil, err
	}
	// Never retried: an ambiguous timeout may have landed, and duplicate
	// detection belongs to the exchange's per-nonce idempotency.
	resp, postErr := c.transport.post(ctx, EndpointOrder, headers, payload, false)
	switch {
	case postErr != nil:
		return &types.OrderResult{Error: postErr.Error()}, nil
	case resp == nil:
		return &types.OrderResult{Error: "unexpected response from exchange"}, nil
	case resp.Error != nil:
		msg := fmt.Sprintf("%s — %s", resp.Error.Message, resp.Error.DataString())
		c.log.Errorf("order rejected: %s", msg)
		return &types.OrderResult{Error: msg}, nil
	case resp.Result != nil:
		c.log.Info("order placed")
		return &types.OrderResult{Order: extractOrder(resp.Result)}, nil
	default:
		return &types.OrderResult{Error: "unexpected response shape"}, nil
	}
}

// buildAction assembles the unsigned trade action for one order. The signed
// magnitude encodes direction: sell amounts are negated.
func (c *Client) buildAction(params types.OrderParams, ticker *types.Ticker) (*signing.SignedAction, error) {
	subID := new(big.Int)
	if s := ticker.BaseAssetSubID.String(); s != "" {
		if _, ok := subID.SetString(s, 10); !ok {
			return nil, &types.SigningError{Reason: fmt.Sprintf("bad base_asset_sub_id %q", s)}
		}
	}
	amount := params.Amount
	if params.Side == types.SideSell {
		amount = amount.Neg()
	}
	return &signing.SignedAction{
		SubaccountID:       c.subaccountID,
		Owner:              common.HexToAddress(c.wallet),
		Signer:             c.signer.Address(),
		SignatureExpirySec: signing.MaxSignatureExpirySec,
		Nonce:              signing.ActionNonce(),
		ModuleAddress:      c.constants.TradeModuleAddress,
		ModuleData: signing.TradeModuleData{
			AssetAddress: common.HexToAddress(ticker.BaseAssetAddress),
			SubID:        subID,
			LimitPrice:   params.LimitPrice,
			Amount:       amount,
			MaxFee:       maxOrderFee,
			RecipientID:  c.subaccountID,
			IsBid:        params.Side == types.SideBuy,
		},
	}, nil
}

// extractOrder pulls the order member out of the result when present; some
// deployments return the order object directly.
func extractOrder(result json.RawMessage) json.RawMessage {
	var wrapped struct {
		Order json.RawMessage `json:"order"`
	}
	if err := json.Unmarshal(result, &wrapped); err == nil && len(wrapped.Order) > 0 {
		return wrapped.Order
	}
	return result
}

// CancelOrder cancels one open order; false on any failure.
func (c *Client) CancelOrder(ctx context.Context, orderID string) bool {
	headers, err := c.ensureAuthenticated(ctx)
	if err != nil {
		c.log.WithError(err).Error("cancel aborted")
		return false
	}
	if err := c.limiter.Wait(ctx, rateClassCancel); err != nil {
		return false
	}
	resp, postErr := c.transport.post(ctx, EndpointCancel, headers, map[string]any{
		"subaccount_id": c.subaccountID,
		"order_id":      orderID,
	}, false)
	if postErr != nil || resp == nil || resp.Error != nil || resp.Result == nil {
		c.log.Errorf("cancel of %s failed", orderID)
		return false
	}
	c.log.Infof("order %s cancelled", orderID)
	return true
}

// CancelAllOrders cancels all open orders, optionally only for one
// instrument. Returns the cancelled count best-effort: the exchange answers
// either with a scalar acknowledgement (reported as at least one) or a
// structured count; 0 means the call failed.
func (c *Client) CancelAllOrders(ctx context.Context, instrumentName string) int {
	headers, err := c.ensureAuthenticated(ctx)
	if err != nil {
		c.log.WithError(err).Error("cancel all aborted")
		return 0
	}
	payload := map[string]any{"subaccount_id": c.subaccountID}
	if instrumentName != "" {
		payload["instrument_name"] = instrumentName
	}
	if err := c.limiter.Wait(ctx, rateClassCancel); err != nil {
		return 0
	}
	resp, postErr := c.transport.post(ctx, EndpointCancelAll, headers, payload, false)
	if postErr != nil || resp == nil || resp.Error != nil || resp.Result == nil {
		return 0
	}

	var structured struct {
		Cancelled *int `json:"cancelled"`
	}
	if err := json.Unmarshal(resp.Result, &structured); err == nil && structured.Cancelled != nil {
		c.log.Infof("cancelled %d orders", *structured.Cancelled)
		return *structured.Cancelled
	}
	// Scalar acknowledgement ("ok" or similar): at least one cancelled.
	c.log.Info("all orders cancelled")
	return 1
}
