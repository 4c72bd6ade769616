package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tranvictor/revoker/config"
)

func AddCommonFlagsToTransactionalCmds(c *cobra.Command) {
	c.PersistentFlags().
		Float64VarP(&config.GasPrice, "gasprice", "p", 0, "Gas price in gwei. If default value is used, we will ask a node for a fast gas price. The gas price to be used in the tx is gas price + extra gas price")
	c.PersistentFlags().
		Float64VarP(&config.TipGas, "tipgas", "s", 0, "tip in gwei, will be used in dynamic fee tx, default value get from node.")
	c.PersistentFlags().
		Float64VarP(&config.ExtraGasPrice, "extraprice", "P", 0, "Extra gas price in gwei. The gas price to be used in the tx is gas price + extra gas price")
	c.PersistentFlags().
		Uint64VarP(&config.GasLimit, "gas", "g", 0, "Base gas limit for the tx. If default value is used, we will use ethereum nodes to estimate the gas limit. The gas limit to be used in the tx is gas limit + extra gas limit")
	c.PersistentFlags().
		Uint64VarP(&config.ExtraGasLimit, "extragas", "G", 50000, "Extra gas limit for the tx. The gas limit to be used in the tx is gas limit + extra gas limit")
	c.PersistentFlags().
		Uint64VarP(&config.Nonce, "nonce", "n", 0, "Nonce of the from account. If default value is used, we will use the next available nonce of from account")
	c.PersistentFlags().
		BoolVarP(&config.ForceLegacy, "legacy-tx", "L", false, "Force using legacy transaction")
	c.PersistentFlags().
		Uint64VarP(&config.TimeoutSeconds, "timeout", "t", 0, "Deadline in seconds for one revocation attempt. 0 means the built-in default.")
}

// captureNonceFlag distinguishes "--nonce 0" from "no --nonce at all" so a
// genuine zero nonce can be forced.
func captureNonceFlag(c *cobra.Command) {
	config.NonceSet = c.Flags().Changed("nonce")
}
