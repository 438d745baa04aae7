package chain

import (
	"fmt"
	"math/big"
	"strings"
)

// Spec describes a blockchain network the minter knows how to talk to.
// Built-in chains carry a default ERC-721 contract and a marketplace link
// template; any other network needs an explicit contract address.
type Spec struct {
	Name            string
	ChainID         int64
	DefaultContract string
	// OpenseaAssetURL is a format template taking contract address and
	// token id.
	OpenseaAssetURL string
}

var builtinChains = []Spec{
	{
		Name:            "polygon",
		ChainID:         137,
		DefaultContract: "0x69C53E7b8c41bF436EF5A2D81DB759Dc8bD83b5F",
		OpenseaAssetURL: "https://opensea.io/assets/matic/%s/%s",
	},
	{
		Name:            "mumbai",
		ChainID:         80001,
		DefaultContract: "0xA4E1d8FE768d471B048F9d73ff90ED8fcCC03643",
		OpenseaAssetURL: "https://testnets.opensea.io/assets/mumbai/%s/%s",
	},
}

// ByChainID looks up a built-in chain by its numeric id.
func ByChainID(id int64) (Spec, bool) {
	for _, spec := range builtinChains {
		if spec.ChainID == id {
			return spec, true
		}
	}
	return Spec{}, false
}

// ByName looks up a built-in chain by its short name, case-insensitive.
func ByName(name string) (Spec, bool) {
	for _, spec := range builtinChains {
		if strings.EqualFold(spec.Name, name) {
			return spec, true
		}
	}
	return Spec{}, false
}

// OpenseaURL renders the marketplace deep link for a minted token, or ""
// when the chain has no known marketplace or the token id is unknown.
func (s Spec) OpenseaURL(contract string, tokenID *big.Int) string {
	if s.OpenseaAssetURL == "" || tokenID == nil {
		return ""
	}
	return fmt.Sprintf(s.OpenseaAssetURL, contract, tokenID.String())
}
