// Package client implements the authenticated Derive trading client:
// session auth lifecycle, typed-action order signing and submission, and
// market-data queries over the exchange JSON REST API.
package client

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/betbot/goderive/derive/signing"
	"github.com/betbot/goderive/derive/types"
	"github.com/betbot/goderive/pkg/credentials"
	"github.com/betbot/goderive/pkg/logger"
	"github.com/betbot/goderive/pkg/ratelimit"
)

// Options tune the client beyond the credential tuple. The zero value is
// usable; BaseURL overrides the per-network REST URL (stub exchanges in
// tests, private gateways).
type Options struct {
	BaseURL string
	Timeout time.Duration
	Retry   RetryPolicy
	Logger  *logrus.Entry
}

// Client is the façade everything else depends on. It is safe for
// concurrent use: auth headers are derived per call as local values, and the
// authenticated flag is the only shared mutable state.
type Client struct {
	network      types.Network
	constants    signing.NetworkConstants
	wallet       string
	subaccountID uint64
	signer       *signing.Signer
	transport    *transport
	limiter      *ratelimit.Manager
	log          *logrus.Entry

	mu            sync.Mutex
	authenticated bool
}

// New validates the credentials, resolves per-network protocol constants and
// parses the session key. All construction failures are fatal: a client
// either signs correctly for exactly one network or does not exist.
func New(creds credentials.Credentials, opts *Options) (*Client, error) {
	if opts == nil {
		opts = &Options{}
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	constants, err := signing.Constants(creds.Network)
	if err != nil {
		return nil, err
	}
	signer, err := signing.NewSigner(creds.SessionKey)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = logger.Component("derive_client")
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = constants.RestURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limiter := ratelimit.NewManager()
	limiter.Register(rateClassOrder, 10, 5)
	limiter.Register(rateClassCancel, 20, 10)

	c := &Client{
		network:      creds.Network,
		constants:    constants,
		wallet:       creds.WalletAddress,
		subaccountID: creds.SubaccountID,
		signer:       signer,
		transport:    newTransport(baseURL, creds.WalletAddress, timeout, opts.Retry, log),
		limiter:      limiter,
		log:          log,
	}
	c.log.WithFields(logrus.Fields{
		"network":    creds.Network,
		"wallet":     creds.WalletAddress,
		"subaccount": creds.SubaccountID,
		"signer":     signer.Address().Hex(),
	}).Info("derive client initialized")
	return c, nil
}

// Network returns the deployment this client is bound to.
func (c *Client) Network() types.Network {
	return c.network
}

// SubaccountID returns the bound subaccount.
func (c *Client) SubaccountID() uint64 {
	return c.subaccountID
}
