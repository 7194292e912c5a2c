package client

// REST endpoints. All calls are JSON POST.
const (
	// Public (no auth)
	EndpointGetInstruments = "/public/get_instruments"
	EndpointGetTicker      = "/public/get_ticker"
	EndpointGetOrderbook   = "/public/get_order_book"

	// Private (signed-timestamp auth headers)
	EndpointGetSubaccount  = "/private/get_subaccount"
	EndpointGetAccount     = "/private/get_account"
	EndpointGetPositions   = "/private/get_positions"
	EndpointGetOpenOrders  = "/private/get_open_orders"
	EndpointGetCollaterals = "/private/get_collaterals"
	EndpointOrder          = "/private/order"
	EndpointCancel         = "/private/cancel"
	EndpointCancelAll      = "/private/cancel_all"
)

// Rate-limit request classes (see pkg/ratelimit). Reads share the manager's
// default bucket.
const (
	rateClassOrder  = "derive:order"
	rateClassCancel = "derive:cancel"
)
