package signing

import (
	"strconv"
	"time"
)

// Auth header names. The exchange keeps the historical Lyra prefix.
const (
	HeaderWallet    = "X-LyraWallet"
	HeaderTimestamp = "X-LyraTimestamp"
	HeaderSignature = "X-LyraSignature"
)

// AuthHeaders produces the signed-timestamp headers proving control of the
// session key. The timestamp must stay close to wall-clock now or the
// exchange rejects the request, so callers regenerate these immediately
// before every privileged dispatch and never cache them.
func AuthHeaders(signer *Signer, walletAddress string) (map[string]string, error) {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	sig, err := signer.SignMessage([]byte(ts))
	if err != nil {
		return nil, err
	}
	return map[string]string{
		HeaderWallet:    walletAddress,
		HeaderTimestamp: ts,
		HeaderSignature: sig,
	}, nil
}
