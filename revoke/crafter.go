package revoke

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/tranvictor/revoker/common"
	"github.com/tranvictor/revoker/config"
	"github.com/tranvictor/revoker/networks"
)

// NodeCrafter builds the zero-allowance approve tx against a live node:
// pending nonce, suggested gas settings, estimated gas limit. Explicit
// --nonce/--gasprice/--gas flags short-circuit the corresponding lookup.
type NodeCrafter struct {
	client  *ethclient.Client
	network networks.Network
}

// NewNodeCrafter dials the first reachable default node of the network.
func NewNodeCrafter(network networks.Network) (*NodeCrafter, error) {
	var lastErr error
	for _, url := range network.GetDefaultNodes() {
		client, err := ethclient.Dial(url)
		if err != nil {
			lastErr = err
			continue
		}
		return &NodeCrafter{client: client, network: network}, nil
	}
	return nil, fmt.Errorf("no node of %s is reachable: %w", network.GetName(), lastErr)
}

func (c *NodeCrafter) Craft(
	ctx context.Context,
	from, token, spender ethcommon.Address,
) (*types.Transaction, error) {
	data, err := common.PackERC20Data("approve", spender, big.NewInt(0))
	if err != nil {
		return nil, fmt.Errorf("packing approve calldata: %w", err)
	}

	nonce := config.Nonce
	if !config.NonceSet {
		pending, err := c.client.PendingNonceAt(ctx, from)
		if err != nil {
			return nil, fmt.Errorf("querying pending nonce: %w", err)
		}
		nonce = pending
	}

	gasPriceGwei := config.GasPrice
	tipGwei := config.TipGas
	if gasPriceGwei == 0 {
		suggested, err := c.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("querying gas price: %w", err)
		}
		gasPriceGwei = common.BigToFloat(suggested, 9)
		if tip, err := c.client.SuggestGasTipCap(ctx); err == nil {
			tipGwei = common.BigToFloat(tip, 9)
		}
	}

	gasLimit := config.GasLimit
	if gasLimit == 0 {
		estimated, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
			From: from,
			To:   &token,
			Data: data,
		})
		if err != nil {
			return nil, fmt.Errorf("estimating gas, the revocation would revert or the node errored: %w", err)
		}
		gasLimit = estimated
	}

	txType := common.TxTypeDynamicFee
	if config.ForceLegacy {
		txType = common.TxTypeLegacy
	}

	return common.BuildExactTx(
		nonce,
		token.Hex(),
		big.NewInt(0),
		gasLimit+config.ExtraGasLimit,
		gasPriceGwei+config.ExtraGasPrice,
		tipGwei,
		data,
		txType,
		c.network.GetChainID(),
	), nil
}
