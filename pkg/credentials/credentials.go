// Package credentials loads and validates the four-field credential tuple
// the trading client is constructed with. The interactive prompt that writes
// the .env file lives outside this repo; this side only consumes it.
package credentials

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/betbot/goderive/derive/types"
)

// Environment variable names, matching the credential setup utility.
const (
	EnvSessionKey    = "DERIVE_SESSION_KEY"
	EnvWalletAddress = "DERIVE_WALLET_ADDRESS"
	EnvSubaccountID  = "DERIVE_SUBACCOUNT_ID"
	EnvNetwork       = "DERIVE_NETWORK"
)

// Credentials is the immutable tuple required to construct a client.
type Credentials struct {
	SessionKey    string
	WalletAddress string
	SubaccountID  uint64
	Network       types.Network
}

// Load reads credentials from a .env file (when present) merged with the
// process environment. Missing variables are reported by name.
func Load(envFiles ...string) (Credentials, error) {
	// godotenv never overrides variables already set in the environment,
	// and a missing file is not an error here: the variables may be set
	// directly.
	_ = godotenv.Load(envFiles...)
	return FromEnv()
}

// FromEnv builds credentials from the process environment only.
func FromEnv() (Credentials, error) {
	sk := strings.TrimSpace(os.Getenv(EnvSessionKey))
	wa := strings.TrimSpace(os.Getenv(EnvWalletAddress))
	sub := strings.TrimSpace(os.Getenv(EnvSubaccountID))
	network := strings.TrimSpace(os.Getenv(EnvNetwork))
	if network == "" {
		network = string(types.NetworkMainnet)
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{EnvSessionKey, sk},
		{EnvWalletAddress, wa},
		{EnvSubaccountID, sub},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return Credentials{}, &types.CredentialError{Missing: missing}
	}

	subID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || subID == 0 {
		return Credentials{}, &types.CredentialError{
			Reasons: []string{EnvSubaccountID + " must be a positive integer"},
		}
	}

	creds := Credentials{
		SessionKey:    sk,
		WalletAddress: wa,
		SubaccountID:  subID,
		Network:       types.Network(network),
	}
	if err := creds.Validate(); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// Validate checks well-formedness of all four fields.
func (c Credentials) Validate() error {
	var reasons []string
	if !strings.HasPrefix(c.SessionKey, "0x") || len(c.SessionKey) != 66 {
		reasons = append(reasons, "session key must be 66 chars (0x + 64 hex digits)")
	}
	if !strings.HasPrefix(c.WalletAddress, "0x") || len(c.WalletAddress) != 42 {
		reasons = append(reasons, "wallet address must be 42 chars (0x + 40 hex digits)")
	}
	if c.SubaccountID == 0 {
		reasons = append(reasons, "subaccount id must be a positive integer")
	}
	if !c.Network.Valid() {
		reasons = append(reasons, "network must be mainnet or testnet")
	}
	if len(reasons) > 0 {
		return &types.CredentialError{Reasons: reasons}
	}
	return nil
}
