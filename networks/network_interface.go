package networks

import (
	"time"
)

type Network interface {
	GetName() string
	GetChainID() int64
	GetNativeTokenSymbol() string
	GetNativeTokenDecimal() int64
	GetBlockTime() time.Duration

	GetNodeVariableName() string
	GetDefaultNodes() map[string]string
}
