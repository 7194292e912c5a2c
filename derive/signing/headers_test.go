package signing

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

func TestAuthHeadersRecoverToSigner(t *testing.T) {
	signer, err := NewSigner(testSessionKey)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	wallet := "0x1111111111111111111111111111111111111111"

	headers, err := AuthHeaders(signer, wallet)
	if err != nil {
		t.Fatalf("AuthHeaders: %v", err)
	}
	if headers[HeaderWallet] != wallet {
		t.Errorf("wallet header = %q, want %q", headers[HeaderWallet], wallet)
	}

	sig, err := hexutil.Decode(headers[HeaderSignature])
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	if len(sig) != 65 {
		t.Fatalf("signature length = %d, want 65", len(sig))
	}
	if sig[64] != 27 && sig[64] != 28 {
		t.Fatalf("recovery id = %d, want 27 or 28", sig[64])
	}

	// The signature must verify as an EIP-191 personal message over the
	// timestamp, recovering the session key's address.
	sig[64] -= 27
	pub, err := crypto.SigToPub(accounts.TextHash([]byte(headers[HeaderTimestamp])), sig)
	if err != nil {
		t.Fatalf("SigToPub: %v", err)
	}
	if got := crypto.PubkeyToAddress(*pub); got != signer.Address() {
		t.Errorf("recovered %s, want %s", got.Hex(), signer.Address().Hex())
	}
}

func TestAuthHeadersAreFresh(t *testing.T) {
	signer, _ := NewSigner(testSessionKey)
	wallet := "0x1111111111111111111111111111111111111111"

	first, err := AuthHeaders(signer, wallet)
	if err != nil {
		t.Fatalf("AuthHeaders: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	second, err := AuthHeaders(signer, wallet)
	if err != nil {
		t.Fatalf("AuthHeaders: %v", err)
	}

	if first[HeaderTimestamp] == second[HeaderTimestamp] {
		t.Error("timestamps must advance between derivations")
	}
	if first[HeaderSignature] == second[HeaderSignature] {
		t.Error("signatures must differ when the timestamp differs")
	}
}
