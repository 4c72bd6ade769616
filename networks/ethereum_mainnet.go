package networks

import (
	"os"
	"strings"
	"time"
)

var EthereumMainnet Network = ethereumMainnet{}

type ethereumMainnet struct{}

func (self ethereumMainnet) GetName() string {
	return "mainnet"
}

func (self ethereumMainnet) GetChainID() int64 {
	return 1
}

func (self ethereumMainnet) GetNativeTokenSymbol() string {
	return "ETH"
}

func (self ethereumMainnet) GetNativeTokenDecimal() int64 {
	return 18
}

func (self ethereumMainnet) GetBlockTime() time.Duration {
	return 14 * time.Second
}

func (self ethereumMainnet) GetNodeVariableName() string {
	return "ETHEREUM_MAINNET_NODE"
}

// GetDefaultNodes returns the broadcast endpoints. A node url set via the
// env var named by GetNodeVariableName replaces the defaults entirely.
func (self ethereumMainnet) GetDefaultNodes() map[string]string {
	custom := strings.Trim(os.Getenv(self.GetNodeVariableName()), " ")
	if custom != "" {
		return map[string]string{"custom": custom}
	}
	return map[string]string{
		"mainnet-alchemy": "https://eth-mainnet.alchemyapi.io/v2/YP5f6eM2wC9c2nwJfB0DC1LObdSY7Qfv",
		"mainnet-infura":  "https://mainnet.infura.io/v3/247128ae36b6444d944d4c3793c8e3f5",
	}
}
