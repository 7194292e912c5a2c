package client

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/betbot/goderive/derive/types"
)

// Privileged account queries. Each passes through ensureAuthenticated and
// returns an AuthError when the login probe fails; other failures degrade to
// empty/absent results, logged.

// GetAccount fetches the raw account record for the bound subaccount.
func (c *Client) GetAccount(ctx context.Context) (json.RawMessage, error) {
	resp, err := c.privatePost(ctx, EndpointGetAccount, c.subaccountPayload())
	if err != nil || resp == nil {
		return nil, err
	}
	return resp.Result, nil
}

// GetPositions fetches all open positions, reconstructed fresh on every
// call. Side comes from the sign of the raw amount.
func (c *Client) GetPositions(ctx context.Context) ([]types.Position, error) {
	resp, err := c.privatePost(ctx, EndpointGetPositions, c.subaccountPayload())
	if err != nil || resp == nil || resp.Result == nil {
		return nil, err
	}
	var result struct {
		Positions []struct {
			InstrumentName string          `json:"instrument_name"`
			Amount         decimal.Decimal `json:"amount"`
			AveragePrice   decimal.Decimal `json:"average_price"`
			UnrealizedPnL  decimal.Decimal `json:"unrealized_pnl"`
			RealizedPnL    decimal.Decimal `json:"realized_pnl"`
		} `json:"positions"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		c.log.WithError(err).Error("unexpected get_positions result shape")
		return nil, nil
	}
	positions := make([]types.Position, 0, len(result.Positions))
	for _, p := range result.Positions {
		side := types.PositionSideShort
		if p.Amount.Sign() > 0 {
			side = types.PositionSideLong
		}
		positions = append(positions, types.Position{
			InstrumentName: p.InstrumentName,
			Side:           side,
			Amount:         p.Amount.Abs(),
			AveragePrice:   p.AveragePrice,
			UnrealizedPnL:  p.UnrealizedPnL,
			RealizedPnL:    p.RealizedPnL,
		})
	}
	return positions, nil
}

// GetOpenOrders fetches all open orders on the bound subaccount.
func (c *Client) GetOpenOrders(ctx context.Context) ([]types.Order, error) {
	resp, err := c.privatePost(ctx, EndpointGetOpenOrders, c.subaccountPayload())
	if err != nil || resp == nil || resp.Result == nil {
		return nil, err
	}
	var result struct {
		Orders []types.Order `json:"orders"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		c.log.WithError(err).Error("unexpected get_open_orders result shape")
		return nil, nil
	}
	return result.Orders, nil
}

// GetCollaterals fetches collateral balances for the bound subaccount.
func (c *Client) GetCollaterals(ctx context.Context) ([]types.Collateral, error) {
	resp, err := c.privatePost(ctx, EndpointGetCollaterals, c.subaccountPayload())
	if err != nil || resp == nil || resp.Result == nil {
		return nil, err
	}
	var result struct {
		Collaterals []types.Collateral `json:"collaterals"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		c.log.WithError(err).Error("unexpected get_collaterals result shape")
		return nil, nil
	}
	return result.Collaterals, nil
}

// privatePost runs one authenticated read. A nil, nil return means the
// exchange failed in a way reads absorb (absent result).
func (c *Client) privatePost(ctx context.Context, endpoint string, payload map[string]any) (*rpcResponse, error) {
	headers, err := c.ensureAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	resp, postErr := c.transport.post(ctx, endpoint, headers, payload, true)
	if postErr != nil || resp == nil {
		return nil, nil
	}
	if resp.Error != nil {
		c.log.Errorf("%s rejected: %s", endpoint, resp.Error.Message)
		return nil, nil
	}
	return resp, nil
}

func (c *Client) subaccountPayload() map[string]any {
	return map[string]any{"subaccount_id": c.subaccountID}
}
