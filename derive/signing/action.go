package signing

import (
	"math"
	"math/big"
	"math/rand/v2"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"

	"github.com/betbot/goderive/derive/types"
)

// MaxSignatureExpirySec is the default expiry for signed actions. The
// exchange accepts any future unix-second timestamp; the original client
// uses max int32.
const MaxSignatureExpirySec = math.MaxInt32

var (
	typAddress = mustABIType("address")
	typUint256 = mustABIType("uint256")
	typInt256  = mustABIType("int256")
	typBytes32 = mustABIType("bytes32")
	typBool    = mustABIType("bool")

	moduleDataArgs = abi.Arguments{
		{Type: typAddress}, // asset_address
		{Type: typUint256}, // sub_id
		{Type: typInt256},  // limit_price (1e18 fixed)
		{Type: typInt256},  // amount (1e18 fixed, signed magnitude)
		{Type: typUint256}, // max_fee (1e18 fixed)
		{Type: typUint256}, // recipient_id
		{Type: typBool},    // is_bid
	}

	actionArgs = abi.Arguments{
		{Type: typBytes32}, // action typehash
		{Type: typUint256}, // subaccount_id
		{Type: typUint256}, // nonce
		{Type: typAddress}, // module_address
		{Type: typBytes32}, // keccak(module_data)
		{Type: typUint256}, // signature_expiry_sec
		{Type: typAddress}, // owner
		{Type: typAddress}, // signer
	}
)

func mustABIType(name string) abi.Type {
	t, err := abi.NewType(name, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

// TradeModuleData is the trade-module payload of a signed action. Amount
// carries a signed magnitude: negative for sells, positive for buys.
type TradeModuleData struct {
	AssetAddress common.Address
	SubID        *big.Int
	LimitPrice   decimal.Decimal
	Amount       decimal.Decimal
	MaxFee       decimal.Decimal
	RecipientID  uint64
	IsBid        bool
}

// ABIEncode packs the module data the way the trade module contract decodes
// it. Decimal fields are converted to 1e18 fixed-point integers.
func (d TradeModuleData) ABIEncode() ([]byte, error) {
	packed, err := moduleDataArgs.Pack(
		d.AssetAddress,
		d.SubID,
		toFixed18(d.LimitPrice),
		toFixed18(d.Amount),
		toFixed18(d.MaxFee),
		new(big.Int).SetUint64(d.RecipientID),
		d.IsBid,
	)
	if err != nil {
		return nil, &types.SigningError{Reason: "encode trade module data", Err: err}
	}
	return packed, nil
}

// Hash returns keccak256 of the ABI-encoded module data.
func (d TradeModuleData) Hash() (common.Hash, error) {
	encoded, err := d.ABIEncode()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(encoded), nil
}

// toPayload is the JSON shape the order endpoint expects for module data.
func (d TradeModuleData) toPayload() map[string]any {
	return map[string]any{
		"asset_address": d.AssetAddress.Hex(),
		"sub_id":        d.SubID.String(),
		"limit_price":   d.LimitPrice,
		"amount":        d.Amount,
		"max_fee":       d.MaxFee,
		"recipient_id":  d.RecipientID,
		"is_bid":        d.IsBid,
	}
}

// SignedAction is an off-chain, typed, hashed and signed message authorizing
// one exchange operation. Built and signed exactly once per submission.
type SignedAction struct {
	SubaccountID       uint64
	Owner              common.Address
	Signer             common.Address
	SignatureExpirySec int64
	Nonce              uint64
	ModuleAddress      common.Address
	ModuleData         TradeModuleData
	Signature          string
}

// Digest computes the typed-message hash the signature commits to:
// keccak256(0x1901 || domain_separator || action_hash). Wrong constants here
// do not fail loudly; they produce signatures the exchange rejects, so the
// constants come in as one per-network record.
func (a *SignedAction) Digest(nc NetworkConstants) (common.Hash, error) {
	moduleDataHash, err := a.ModuleData.Hash()
	if err != nil {
		return common.Hash{}, err
	}
	packed, err := actionArgs.Pack(
		[32]byte(nc.ActionTypehash),
		new(big.Int).SetUint64(a.SubaccountID),
		new(big.Int).SetUint64(a.Nonce),
		a.ModuleAddress,
		[32]byte(moduleDataHash),
		big.NewInt(a.SignatureExpirySec),
		a.Owner,
		a.Signer,
	)
	if err != nil {
		return common.Hash{}, &types.SigningError{Reason: "encode action", Err: err}
	}
	actionHash := crypto.Keccak256(packed)

	raw := make([]byte, 0, 2+32+32)
	raw = append(raw, 0x19, 0x01)
	raw = append(raw, nc.DomainSeparator.Bytes()...)
	raw = append(raw, actionHash...)
	return crypto.Keccak256Hash(raw), nil
}

// Sign computes the digest and attaches the session-key signature.
func (a *SignedAction) Sign(signer *Signer, nc NetworkConstants) error {
	digest, err := a.Digest(nc)
	if err != nil {
		return err
	}
	sig, err := signer.SignHash(digest.Bytes())
	if err != nil {
		return err
	}
	a.Signature = sig
	return nil
}

// ToPayload returns the JSON-serializable representation of the signed
// action, merged by the caller into the order payload.
func (a *SignedAction) ToPayload() map[string]any {
	return map[string]any{
		"subaccount_id":        a.SubaccountID,
		"owner":                a.Owner.Hex(),
		"signer":               a.Signer.Hex(),
		"signature_expiry_sec": a.SignatureExpirySec,
		"nonce":                a.Nonce,
		"module_address":       a.ModuleAddress.Hex(),
		"module_data":          a.ModuleData.toPayload(),
		"signature":            a.Signature,
	}
}

// ActionNonce generates a unique per-signer nonce: utc millisecond timestamp
// with three random digits appended. Collisions require two actions in the
// same millisecond drawing the same digits; the exchange rejects reuse
// server-side either way.
func ActionNonce() uint64 {
	return uint64(time.Now().UnixMilli())*1000 + uint64(rand.IntN(1000))
}

// toFixed18 converts a decimal to its 1e18 fixed-point integer, truncating
// anything below 1e-18.
func toFixed18(d decimal.Decimal) *big.Int {
	return d.Shift(18).BigInt()
}
