// Package chain mints ERC-721 tokens referencing exported video metadata.
package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"

	"github.com/amankumarsingh77/video-nft-minter/internal/config"
	"github.com/amankumarsingh77/video-nft-minter/internal/models"
	"github.com/amankumarsingh77/video-nft-minter/pkg/logger"
)

const videoNftABI = `[
	{"inputs":[{"internalType":"address","name":"owner","type":"address"},{"internalType":"string","name":"tokenURI","type":"string"}],"name":"mint","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"anonymous":false,"inputs":[{"indexed":true,"internalType":"address","name":"sender","type":"address"},{"indexed":true,"internalType":"address","name":"owner","type":"address"},{"indexed":false,"internalType":"string","name":"tokenURI","type":"string"},{"indexed":false,"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"Mint","type":"event"}
]`

// ChainError covers mint rejections, wrong-network connections and missing
// signer configuration. Financial operations are never retried.
type ChainError struct {
	Msg   string
	Cause error
}

func (e *ChainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *ChainError) Unwrap() error { return e.Cause }

// Minter turns an exported metadata URL into an on-chain token.
type Minter interface {
	Mint(ctx context.Context, tokenURI string) (*models.MintedNft, error)
}

type ethMinter struct {
	client   *ethclient.Client
	abi      abi.ABI
	contract *bind.BoundContract
	address  common.Address
	key      *ecdsa.PrivateKey
	owner    common.Address
	chainID  *big.Int
	spec     Spec
	logger   logger.Logger
}

// NewMinter dials the configured RPC endpoint and resolves the target
// contract, either from an explicit config address or from the built-in
// chain registry. The connected node's chain id is checked against the
// configured chain to catch wrong-network mistakes before any funds move.
func NewMinter(ctx context.Context, cfg *config.ChainConfig, log logger.Logger) (Minter, error) {
	if cfg.PrivateKey == "" {
		return nil, &ChainError{Msg: "no private key configured"}
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, &ChainError{Msg: "invalid private key", Cause: err}
	}

	client, err := ethclient.DialContext(ctx, cfg.RpcUrl)
	if err != nil {
		return nil, &ChainError{Msg: "dialing rpc endpoint", Cause: err}
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, &ChainError{Msg: "reading chain id", Cause: err}
	}

	spec, builtin := ByChainID(chainID.Int64())
	if cfg.Name != "" {
		named, ok := ByName(cfg.Name)
		if ok && named.ChainID != chainID.Int64() {
			return nil, &ChainError{Msg: fmt.Sprintf(
				"connected node is chain %d but config wants %s (chain %d)",
				chainID.Int64(), named.Name, named.ChainID,
			)}
		}
	}
	if cfg.ChainID != 0 && cfg.ChainID != chainID.Int64() {
		return nil, &ChainError{Msg: fmt.Sprintf(
			"connected node is chain %d, config wants chain %d", chainID.Int64(), cfg.ChainID,
		)}
	}

	contractAddr := cfg.ContractAddress
	if contractAddr == "" {
		if !builtin {
			return nil, &ChainError{Msg: fmt.Sprintf(
				"chain %d has no built-in contract, set an explicit contract address", chainID.Int64(),
			)}
		}
		contractAddr = spec.DefaultContract
	}
	if !common.IsHexAddress(contractAddr) {
		return nil, &ChainError{Msg: fmt.Sprintf("invalid contract address %q", contractAddr)}
	}

	parsed, err := abi.JSON(strings.NewReader(videoNftABI))
	if err != nil {
		return nil, errors.Wrap(err, "parsing contract abi")
	}
	address := common.HexToAddress(contractAddr)
	return &ethMinter{
		client:   client,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, client, client, client),
		address:  address,
		key:      key,
		owner:    crypto.PubkeyToAddress(key.PublicKey),
		chainID:  chainID,
		spec:     spec,
		logger:   log,
	}, nil
}

func (m *ethMinter) Mint(ctx context.Context, tokenURI string) (*models.MintedNft, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(m.key, m.chainID)
	if err != nil {
		return nil, &ChainError{Msg: "building transactor", Cause: err}
	}
	opts.Context = ctx

	m.logger.Infof("Minting token for %s to %s on chain %d", tokenURI, m.owner.Hex(), m.chainID.Int64())
	tx, err := m.contract.Transact(opts, "mint", m.owner, tokenURI)
	if err != nil {
		return nil, &ChainError{Msg: "mint transaction rejected", Cause: err}
	}

	receipt, err := bind.WaitMined(ctx, m.client, tx)
	if err != nil {
		return nil, &ChainError{Msg: "waiting for mint transaction", Cause: err}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &ChainError{Msg: fmt.Sprintf("mint transaction %s reverted", tx.Hash().Hex())}
	}

	nft := &models.MintedNft{
		TxHash:          tx.Hash().Hex(),
		ContractAddress: m.address.Hex(),
		TokenID:         m.tokenIDFromReceipt(receipt),
	}
	nft.OpenseaURL = m.spec.OpenseaURL(nft.ContractAddress, nft.TokenID)
	return nft, nil
}

// tokenIDFromReceipt scans the receipt for the contract's Mint event. A
// missing event is not an error, the token just cannot be identified.
func (m *ethMinter) tokenIDFromReceipt(receipt *types.Receipt) *big.Int {
	mintEvent := m.abi.Events["Mint"]
	for _, entry := range receipt.Logs {
		if entry.Address != m.address || len(entry.Topics) == 0 || entry.Topics[0] != mintEvent.ID {
			continue
		}
		unpacked, err := m.abi.Unpack("Mint", entry.Data)
		if err != nil || len(unpacked) < 2 {
			m.logger.Warnf("Could not unpack Mint event in tx %s: %v", receipt.TxHash.Hex(), err)
			continue
		}
		if tokenID, ok := unpacked[1].(*big.Int); ok {
			return tokenID
		}
	}
	return nil
}
