package client

import (
	"context"

	"github.com/betbot/goderive/derive/signing"
	"github.com/betbot/goderive/derive/types"
)

// freshHeaders derives signed-timestamp auth headers for one request. They
// are returned as local values and never stored on shared state: the
// embedded timestamp ages out within seconds, and two closely-spaced calls
// must not share one.
func (c *Client) freshHeaders() (map[string]string, error) {
	return signing.AuthHeaders(c.signer, c.wallet)
}

// Login verifies that the exchange accepts this session key by fetching the
// bound subaccount with fresh auth headers. The exchange is stateless per
// request; "authenticated" is a local liveness flag, not a server session.
func (c *Client) Login(ctx context.Context) error {
	headers, err := c.freshHeaders()
	if err != nil {
		return err
	}
	resp, err := c.transport.post(ctx, EndpointGetSubaccount, headers, map[string]any{
		"subaccount_id": c.subaccountID,
	}, true)
	if err != nil {
		return &types.AuthError{Detail: err.Error()}
	}
	if resp == nil {
		return &types.AuthError{Detail: "no response from exchange"}
	}
	if resp.Error != nil {
		c.log.Errorf("login rejected: %s", resp.Error.Message)
		return &types.AuthError{Detail: resp.Error.Message}
	}
	if resp.Result == nil {
		return &types.AuthError{Detail: "unexpected response shape"}
	}

	c.mu.Lock()
	c.authenticated = true
	c.mu.Unlock()
	c.log.Info("login successful")
	return nil
}

// ensureAuthenticated is the single choke point every privileged operation
// passes through. It logs in when the session has not been verified yet and
// always returns freshly derived headers, even when already authenticated,
// because a prior call's headers have stale timestamps.
func (c *Client) ensureAuthenticated(ctx context.Context) (map[string]string, error) {
	c.mu.Lock()
	authed := c.authenticated
	c.mu.Unlock()
	if !authed {
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
	}
	return c.freshHeaders()
}
