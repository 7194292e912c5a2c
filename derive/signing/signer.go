package signing

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/betbot/goderive/derive/types"
)

// Signer holds the session key and produces the two signature kinds the
// exchange accepts: raw digest signatures for signed actions and EIP-191
// personal-message signatures for auth headers. A malformed key is a
// construction error, not a per-call one.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSigner parses a hex-encoded session private key (0x prefix optional).
func NewSigner(sessionKey string) (*Signer, error) {
	hexKey := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(sessionKey), "0x"))
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, &types.SigningError{Reason: "malformed session key", Err: err}
	}
	return &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Address returns the address derived from the session key. This is the
// "signer" of actions, distinct from the owning wallet.
func (s *Signer) Address() common.Address {
	return s.address
}

// SignHash signs a 32-byte digest and returns the 65-byte r||s||v signature
// hex encoded, with v normalized to 27/28 as the exchange expects.
func (s *Signer) SignHash(digest []byte) (string, error) {
	sig, err := crypto.Sign(digest, s.key)
	if err != nil {
		return "", &types.SigningError{Reason: "sign digest", Err: err}
	}
	sig[64] += 27
	return hexutil.Encode(sig), nil
}

// SignMessage signs an arbitrary message with EIP-191 personal-message
// hashing ("\x19Ethereum Signed Message:\n" prefix).
func (s *Signer) SignMessage(msg []byte) (string, error) {
	return s.SignHash(accounts.TextHash(msg))
}
