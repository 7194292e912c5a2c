package types

// Network identifies a Derive deployment. Protocol constants and endpoints
// differ per network and must never be mixed.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

// Valid reports whether the network identifier is a known deployment.
func (n Network) Valid() bool {
	return n == NetworkMainnet || n == NetworkTestnet
}

// Side is the order direction.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// OrderType is the order execution type.
type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"
)

func (o OrderType) Valid() bool {
	return o == OrderTypeLimit || o == OrderTypeMarket
}

// TimeInForce controls order lifetime on the book.
type TimeInForce string

const (
	TimeInForceGTC TimeInForce = "gtc" // Good Till Cancel
	TimeInForceIOC TimeInForce = "ioc" // Immediate or Cancel
	TimeInForceFOK TimeInForce = "fok" // Fill or Kill
)

func (t TimeInForce) Valid() bool {
	return t == TimeInForceGTC || t == TimeInForceIOC || t == TimeInForceFOK
}

// InstrumentKind is the instrument class.
type InstrumentKind string

const (
	InstrumentKindOption InstrumentKind = "option"
	InstrumentKindPerp   InstrumentKind = "perp"
	InstrumentKindSpot   InstrumentKind = "spot"
)

// PositionSide is derived from the sign of the raw position amount.
type PositionSide string

const (
	PositionSideLong  PositionSide = "long"
	PositionSideShort PositionSide = "short"
)
