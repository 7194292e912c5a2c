package signing

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/betbot/goderive/derive/types"
)

// NetworkConstants are the per-deployment protocol constants a signature is
// bound to. The domain separator and trade module address differ between
// mainnet and testnet; the action typehash is a hash of the EIP-712 type
// struct and is the same on both. The values are published protocol
// parameters, never derived from one another.
type NetworkConstants struct {
	RestURL            string
	WSURL              string
	DomainSeparator    common.Hash
	ActionTypehash     common.Hash
	TradeModuleAddress common.Address
}

var networks = map[types.Network]NetworkConstants{
	types.NetworkMainnet: {
		RestURL:            "https://api.lyra.finance",
		WSURL:              "wss://api.lyra.finance/ws",
		DomainSeparator:    common.HexToHash("0xd96e5f90797da7ec8dc4e276260c7f3f87fedf68775fbe1ef116e996fc60441b"),
		ActionTypehash:     common.HexToHash("0x4d7a9f27c403ff9c0f19bce61d76d82f9aa29f8d6d4b0c5474607d9770d1af17"),
		TradeModuleAddress: common.HexToAddress("0xB8D20c2B7a1Ad2EE33Bc50eF10876eD3035b5e7b"),
	},
	types.NetworkTestnet: {
		RestURL:            "https://api-demo.lyra.finance",
		WSURL:              "wss://api-demo.lyra.finance/ws",
		DomainSeparator:    common.HexToHash("0x9bcf4dc06df5d8bf23af818d5716491b995020f377d3b7b64c29ed14e3dd1105"),
		ActionTypehash:     common.HexToHash("0x4d7a9f27c403ff9c0f19bce61d76d82f9aa29f8d6d4b0c5474607d9770d1af17"),
		TradeModuleAddress: common.HexToAddress("0x87F2863866D85E3192a35A73b388BD625D83f2be"),
	},
}

// Constants returns the protocol constants for the given network.
func Constants(network types.Network) (NetworkConstants, error) {
	nc, ok := networks[network]
	if !ok {
		return NetworkConstants{}, &types.ConfigError{Network: network}
	}
	return nc, nil
}
