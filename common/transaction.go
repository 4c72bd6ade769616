package common

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	TxTypeLegacy     string = "legacy"
	TxTypeDynamicFee string = "dynamicfee"
)

// RawTxToHash returns valid hex data of a transaction to
// transaction hash
func RawTxToHash(data string) string {
	return crypto.Keccak256Hash(hexutil.MustDecode(data)).Hex()
}

func BuildExactTx(
	nonce uint64, to string, ethAmount *big.Int, gasLimit uint64,
	priceGwei float64, tipGwei float64,
	data []byte, txType string, chainID int64,
) (tx *types.Transaction) {
	toAddress := common.HexToAddress(to)
	gasPrice := GweiToWei(priceGwei)
	tipInt := GweiToWei(tipGwei)
	chainIDInt := big.NewInt(chainID)
	if txType == TxTypeDynamicFee {
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   chainIDInt,
			Nonce:     nonce,
			GasTipCap: tipInt,
			GasFeeCap: gasPrice,
			Gas:       gasLimit,
			To:        &toAddress,
			Value:     ethAmount,
			Data:      data,
		})
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &toAddress,
		Value:    ethAmount,
		Data:     data,
	})
}
