package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tranvictor/revoker/approvals"
	"github.com/tranvictor/revoker/common"
	"github.com/tranvictor/revoker/config"
	"github.com/tranvictor/revoker/networks"
	"github.com/tranvictor/revoker/revoke"
	"github.com/tranvictor/revoker/ui"
	"github.com/tranvictor/revoker/wallet"
)

var revokeCmd = &cobra.Command{
	Use:   "revoke <token address> <spender address>",
	Short: "Revoke one approval of your wallet without the interactive listing",
	Long: `Revoke connects the wallet from --keystore, verifies the (token, spender)
approval is actually outstanding, and sends the zero-allowance approve
transaction. Use inspect first if you don't know the exact addresses.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		captureNonceFlag(cmd)
		u := ui.NewTerminalUI()

		token, spender := args[0], args[1]
		for _, addr := range []string{token, spender} {
			if !common.IsRealAddress(addr) {
				u.Error("%q is not a hex ethereum address.", addr)
				return
			}
		}
		if config.Keystore == "" {
			u.Error("Revoking needs a wallet. Pass --keystore.")
			return
		}

		client, err := newMoralisClient()
		if err != nil {
			u.Error("%s", err)
			return
		}

		ctx := context.Background()
		network := networks.CurrentNetwork()

		controller := wallet.NewController(wallet.NewKeystoreProvider(config.Keystore), u)
		session, err := controller.Connect(ctx)
		if err != nil {
			u.Error("Could not connect the wallet: %s", err)
			return
		}
		address := session.Address().Hex()
		u.Success("Connected as %s", common.ShortenAddress(address))

		// The workflow only revokes approvals it can see, so load the
		// wallet's outstanding set first.
		collection := approvals.NewCollection()
		stop := u.Spinner("Fetching the wallet's approvals...")
		raws, err := client.FetchApprovals(ctx, address)
		stop()
		if err != nil {
			u.Error("Could not fetch approvals: %s", err)
			return
		}
		collection.Replace(approvals.Normalize(raws))

		key := approvals.NewKey(token, spender)
		target, found := collection.Get(key)
		if !found {
			u.Error("No outstanding approval of %s for spender %s.",
				common.ShortenAddress(token), common.ShortenAddress(spender))
			return
		}

		u.Critical("You are about to revoke this approval:")
		u.Indent().KeyValue([][2]string{
			{"Asset", formatAsset(target)},
			{"Approved amount", formatApprovedAmount(target)},
			{"Value at risk", formatUSD(target.USDAtRisk)},
			{"Spender", formatSpender(target)},
		})
		if !u.Confirm("Send the zero-allowance approve transaction?", false) {
			u.Info("Aborted.")
			return
		}

		crafter, err := revoke.NewNodeCrafter(network)
		if err != nil {
			u.Error("Cannot reach any %s node: %s", network.GetName(), err)
			return
		}
		workflow := revoke.NewWorkflow(
			controller, collection, crafter, revoke.NewBroadcaster(network.GetDefaultNodes()), network,
		)
		if config.TimeoutSeconds > 0 {
			workflow.SetTimeout(time.Duration(config.TimeoutSeconds) * time.Second)
		}

		if task := runRevocation(ctx, u, workflow, key); task.State() == revoke.Failed {
			os.Exit(1)
		}
	},
}

func init() {
	AddCommonFlagsToTransactionalCmds(revokeCmd)
	rootCmd.AddCommand(revokeCmd)
}
