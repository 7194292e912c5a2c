package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/betbot/goderive/derive/signing"
	"github.com/betbot/goderive/derive/types"
)

// RetryPolicy controls automatic retries on the transport. It applies to
// idempotent reads only; order mutations are never retried automatically
// because an ambiguous timeout may have landed on the exchange, and the
// correct recovery is reconciliation via GetOpenOrders, with the action
// nonce as the duplicate-submission backstop.
type RetryPolicy struct {
	Count       int
	WaitTime    time.Duration
	MaxWaitTime time.Duration
}

// rpcError is the structured error the exchange embeds in response bodies.
type rpcError struct {
	Code    int64           `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// DataString renders the error detail for display. The exchange sends it as
// a plain string, an object, or not at all.
func (e *rpcError) DataString() string {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Data, &s); err == nil {
		return s
	}
	return string(e.Data)
}

// rpcResponse is the JSON envelope of every exchange response.
type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// transport executes POST requests against the exchange REST API. Two resty
// clients share base URL and timeout; only the read client carries the retry
// policy.
type transport struct {
	read  *resty.Client
	write *resty.Client
	log   *logrus.Entry
}

func newTransport(baseURL, walletAddress string, timeout time.Duration, retry RetryPolicy, log *logrus.Entry) *transport {
	build := func() *resty.Client {
		return resty.New().
			SetBaseURL(strings.TrimSuffix(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader(signing.HeaderWallet, walletAddress)
	}
	read := build()
	if retry.Count > 0 {
		read.SetRetryCount(retry.Count).
			SetRetryWaitTime(retry.WaitTime).
			SetRetryMaxWaitTime(retry.MaxWaitTime)
	}
	return &transport{read: read, write: build(), log: log}
}

// post performs one POST and always attempts to parse a JSON body, 2xx or
// not, since the exchange embeds structured error detail in error bodies.
// A nil response with nil error means the exchange answered without a
// parseable body; callers distinguish that from a transport failure (err)
// and from a structured exchange error (resp.Error).
func (t *transport) post(ctx context.Context, endpoint string, headers map[string]string, payload any, retryable bool) (*rpcResponse, error) {
	c := t.write
	if retryable {
		c = t.read
	}
	resp, err := c.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetBody(payload).
		Post(endpoint)
	if err != nil {
		t.log.WithError(err).Errorf("request to %s failed", endpoint)
		return nil, &types.NetworkError{Endpoint: endpoint, Err: pkgerrors.Wrap(err, "post")}
	}

	body := resp.Body()
	var envelope rpcResponse
	parseErr := json.Unmarshal(body, &envelope)

	if !resp.IsSuccess() {
		t.log.Errorf("HTTP %d from %s: %s", resp.StatusCode(), endpoint, truncate(string(body), 500))
		if resp.StatusCode() == http.StatusForbidden {
			t.log.Warn("403 Forbidden: possible geo-restriction on this endpoint")
		}
		if parseErr != nil {
			// No structured body to pass along.
			return nil, nil
		}
		// Error bodies still carry exchange error detail.
		return &envelope, nil
	}

	if parseErr != nil {
		t.log.WithError(parseErr).Errorf("unparseable body from %s", endpoint)
		return nil, nil
	}
	return &envelope, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
