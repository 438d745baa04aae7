package models

import "math/big"

// UploadSlot is the response to a request-upload call: a pre-signed URL to
// stream the file to, the pending asset record, and the import task to poll.
type UploadSlot struct {
	Url   string `json:"url"`
	Asset *Asset `json:"asset"`
	Task  *Task  `json:"task"`
}

// MintedNft describes the on-chain result of a successful mint. TokenID is
// nil when the contract emitted no Mint event to recover it from.
type MintedNft struct {
	TxHash          string   `json:"txHash"`
	ContractAddress string   `json:"contractAddress"`
	TokenID         *big.Int `json:"tokenId,omitempty"`
	OpenseaURL      string   `json:"openseaUrl,omitempty"`
}
