package signing

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/betbot/goderive/derive/types"
)

// Throwaway key used across the signing tests.
const testSessionKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func testAction(nonce uint64, expiry int64, amount string) *SignedAction {
	return &SignedAction{
		SubaccountID:       5,
		Owner:              common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Signer:             common.HexToAddress("0x2222222222222222222222222222222222222222"),
		SignatureExpirySec: expiry,
		Nonce:              nonce,
		ModuleAddress:      common.HexToAddress("0x87F2863866D85E3192a35A73b388BD625D83f2be"),
		ModuleData: TradeModuleData{
			AssetAddress: common.HexToAddress("0x3333333333333333333333333333333333333333"),
			SubID:        big.NewInt(0),
			LimitPrice:   decimal.RequireFromString("3000.00"),
			Amount:       decimal.RequireFromString(amount),
			MaxFee:       decimal.NewFromInt(1000),
			RecipientID:  5,
			IsBid:        true,
		},
	}
}

func TestSignDeterministic(t *testing.T) {
	signer, err := NewSigner(testSessionKey)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	nc, err := Constants(types.NetworkTestnet)
	if err != nil {
		t.Fatalf("Constants: %v", err)
	}

	a := testAction(12345, MaxSignatureExpirySec, "0.1")
	b := testAction(12345, MaxSignatureExpirySec, "0.1")
	if err := a.Sign(signer, nc); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := b.Sign(signer, nc); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if a.Signature == "" || len(a.Signature) != 132 {
		t.Fatalf("want 65-byte hex signature, got %q", a.Signature)
	}
	if a.Signature != b.Signature {
		t.Errorf("identical actions should sign identically:\n%s\n%s", a.Signature, b.Signature)
	}
}

func TestSignatureSensitivity(t *testing.T) {
	signer, _ := NewSigner(testSessionKey)
	nc, _ := Constants(types.NetworkTestnet)

	base := testAction(12345, MaxSignatureExpirySec, "0.1")
	if err := base.Sign(signer, nc); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	cases := map[string]*SignedAction{
		"different nonce":  testAction(12346, MaxSignatureExpirySec, "0.1"),
		"different expiry": testAction(12345, MaxSignatureExpirySec-1, "0.1"),
		"negated amount":   testAction(12345, MaxSignatureExpirySec, "-0.1"),
	}
	for name, action := range cases {
		if err := action.Sign(signer, nc); err != nil {
			t.Fatalf("%s: Sign: %v", name, err)
		}
		if action.Signature == base.Signature {
			t.Errorf("%s: signature should differ from base", name)
		}
	}
}

func TestDigestBindsNetwork(t *testing.T) {
	mainnet, _ := Constants(types.NetworkMainnet)
	testnet, _ := Constants(types.NetworkTestnet)

	a := testAction(12345, MaxSignatureExpirySec, "0.1")
	dMain, err := a.Digest(mainnet)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	dTest, err := a.Digest(testnet)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if dMain == dTest {
		t.Error("digest must differ across networks: domain separator not bound")
	}
}

func TestActionNonce(t *testing.T) {
	before := uint64(time.Now().UnixMilli())
	n := ActionNonce()
	after := uint64(time.Now().UnixMilli())

	// Millisecond timestamp with three random digits appended.
	ms := n / 1000
	if ms < before || ms > after {
		t.Errorf("nonce timestamp %d outside [%d, %d]", ms, before, after)
	}

	// Draws from different milliseconds can never collide.
	seen := make(map[uint64]bool)
	for i := 0; i < 5; i++ {
		n := ActionNonce()
		if seen[n] {
			t.Fatalf("nonce collision across milliseconds: %d", n)
		}
		seen[n] = true
		time.Sleep(2 * time.Millisecond)
	}
}

func TestToFixed18(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1000000000000000000"},
		{"0.1", "100000000000000000"},
		{"-0.1", "-100000000000000000"},
		{"3000.00", "3000000000000000000000"},
		{"0", "0"},
	}
	for _, tt := range tests {
		got := toFixed18(decimal.RequireFromString(tt.in))
		if got.String() != tt.want {
			t.Errorf("toFixed18(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestConstantsPerNetwork(t *testing.T) {
	mainnet, err := Constants(types.NetworkMainnet)
	if err != nil {
		t.Fatalf("mainnet constants: %v", err)
	}
	testnet, err := Constants(types.NetworkTestnet)
	if err != nil {
		t.Fatalf("testnet constants: %v", err)
	}

	// Domain separator and module address are deployment-specific; the
	// action typehash is a hash of the type struct and network-independent.
	if mainnet.DomainSeparator == testnet.DomainSeparator {
		t.Error("domain separators must differ per network")
	}
	if mainnet.TradeModuleAddress == testnet.TradeModuleAddress {
		t.Error("trade module addresses must differ per network")
	}
	if mainnet.ActionTypehash != testnet.ActionTypehash {
		t.Error("action typehash should be identical on both networks")
	}
	if mainnet.RestURL == testnet.RestURL || mainnet.WSURL == testnet.WSURL {
		t.Error("endpoints must differ per network")
	}
}

func TestConstantsUnknownNetwork(t *testing.T) {
	_, err := Constants(types.Network("devnet"))
	if err == nil {
		t.Fatal("expected error for unknown network")
	}
	if _, ok := err.(*types.ConfigError); !ok {
		t.Errorf("want *types.ConfigError, got %T", err)
	}
}

func TestNewSignerRejectsMalformedKey(t *testing.T) {
	for _, key := range []string{"", "0x1234", "not-a-key"} {
		if _, err := NewSigner(key); err == nil {
			t.Errorf("NewSigner(%q) should fail", key)
		} else if _, ok := err.(*types.SigningError); !ok {
			t.Errorf("NewSigner(%q): want *types.SigningError, got %T", key, err)
		}
	}
}
