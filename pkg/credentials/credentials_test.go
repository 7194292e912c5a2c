package credentials

import (
	"errors"
	"testing"

	"github.com/betbot/goderive/derive/types"
)

const (
	validKey    = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	validWallet = "0x1111111111111111111111111111111111111111"
)

func setValidEnv(t *testing.T) {
	t.Setenv(EnvSessionKey, validKey)
	t.Setenv(EnvWalletAddress, validWallet)
	t.Setenv(EnvSubaccountID, "5")
	t.Setenv(EnvNetwork, "testnet")
}

func TestFromEnv(t *testing.T) {
	setValidEnv(t)
	creds, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if creds.SessionKey != validKey {
		t.Errorf("session key = %q", creds.SessionKey)
	}
	if creds.SubaccountID != 5 {
		t.Errorf("subaccount id = %d, want 5", creds.SubaccountID)
	}
	if creds.Network != types.NetworkTestnet {
		t.Errorf("network = %q, want testnet", creds.Network)
	}
}

func TestFromEnvDefaultsToMainnet(t *testing.T) {
	setValidEnv(t)
	t.Setenv(EnvNetwork, "")
	creds, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if creds.Network != types.NetworkMainnet {
		t.Errorf("network = %q, want mainnet", creds.Network)
	}
}

func TestFromEnvNamesMissingVariables(t *testing.T) {
	setValidEnv(t)
	t.Setenv(EnvSessionKey, "")
	t.Setenv(EnvSubaccountID, "")

	_, err := FromEnv()
	var credErr *types.CredentialError
	if !errors.As(err, &credErr) {
		t.Fatalf("err = %v, want CredentialError", err)
	}
	want := map[string]bool{EnvSessionKey: true, EnvSubaccountID: true}
	if len(credErr.Missing) != len(want) {
		t.Fatalf("missing = %v", credErr.Missing)
	}
	for _, name := range credErr.Missing {
		if !want[name] {
			t.Errorf("unexpected missing var %q", name)
		}
	}
}

func TestFromEnvRejectsBadSubaccountID(t *testing.T) {
	for _, bad := range []string{"0", "-3", "abc"} {
		setValidEnv(t)
		t.Setenv(EnvSubaccountID, bad)
		if _, err := FromEnv(); err == nil {
			t.Errorf("subaccount id %q accepted", bad)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := Credentials{
		SessionKey:    validKey,
		WalletAddress: validWallet,
		SubaccountID:  5,
		Network:       types.NetworkMainnet,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid credentials rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Credentials)
	}{
		{"short session key", func(c *Credentials) { c.SessionKey = "0xabcd" }},
		{"no 0x prefix on key", func(c *Credentials) { c.SessionKey = validKey[2:] + "00" }},
		{"short wallet", func(c *Credentials) { c.WalletAddress = "0x1234" }},
		{"zero subaccount", func(c *Credentials) { c.SubaccountID = 0 }},
		{"unknown network", func(c *Credentials) { c.Network = types.Network("devnet") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			var credErr *types.CredentialError
			if err := c.Validate(); !errors.As(err, &credErr) {
				t.Errorf("err = %v, want CredentialError", err)
			}
		})
	}
}
