package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tranvictor/revoker/config"
	"github.com/tranvictor/revoker/networks"
)

var rootCmd = &cobra.Command{
	Use:   "revoker",
	Short: "Inspect and revoke your outstanding ERC-20 spending approvals",
	Long: fmt.Sprintf(`Revoker shows every outstanding ERC-20 spending approval of an ethereum
wallet, how much of your balance each one puts at risk in USD, and lets you
revoke any of them by sending a zero-allowance approve transaction.

Revoker supports you on different ends:

	1. It looks a wallet up by address or ENS name and lists its
	approvals with spender identity, approved amount and the USD value
	currently at risk, so you can see at a glance what needs attention.

	2. It sorts, filters and searches the approvals (by age, amount,
	value at risk, asset name, limited vs unlimited) without refetching.

	3. It connects your wallet from a JSON keystore and sends the
	revocation transaction to multiple nodes for you.

Wallet data (approvals, balances, ENS) comes from the Moralis deep index
API. You need an API key in the %s env var (a .env file in the working
directory is read too). To interact with the chain, revoker uses alchemy
and infura nodes by default; you can point it at your own node by setting
the %s env var.

Note: revoker will only check if the env vars are not empty and take the
env vars blindly, it will not check if it is a valid url or not, the error
will pop up during its command execution instead.`,
		config.MoralisAPIKeyVar(),
		networks.CurrentNetwork().GetNodeVariableName(),
	),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	config.LoadEnv()

	rootCmd.PersistentFlags().
		StringVarP(&config.Keystore, "keystore", "w", "", "Path to the JSON keystore acting as your wallet. Only needed for revoking, not for inspecting.")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
