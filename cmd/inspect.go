package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tranvictor/revoker/approvals"
	"github.com/tranvictor/revoker/common"
	"github.com/tranvictor/revoker/config"
	"github.com/tranvictor/revoker/moralis"
	"github.com/tranvictor/revoker/networks"
	"github.com/tranvictor/revoker/revoke"
	"github.com/tranvictor/revoker/ui"
	"github.com/tranvictor/revoker/wallet"
)

var inspectCmd = &cobra.Command{
	Use:     "inspect [address or ENS name]",
	Aliases: []string{"i"},
	Short:   "List a wallet's outstanding approvals and revoke them interactively",
	Long: `Inspect looks a wallet up by address or ENS name, lists all of its
outstanding ERC-20 spending approvals with the USD value each one puts at
risk, and drops you into an interactive loop where you can re-sort, filter,
search, copy addresses and revoke individual approvals.

Revoking needs a wallet: pass --keystore pointing at the JSON keystore of
the inspected address.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		captureNonceFlag(cmd)
		u := ui.NewTerminalUI()

		client, err := newMoralisClient()
		if err != nil {
			u.Error("%s", err)
			return
		}

		input := ""
		if len(args) > 0 {
			input = args[0]
		}

		ctx := context.Background()
		address, ensName, err := resolveWallet(ctx, u, client, input)
		if err != nil {
			u.Error("%s", err)
			return
		}

		collection := approvals.NewCollection()
		native := fetchWalletData(ctx, u, client, address, collection)

		session := &inspectSession{
			ui:         u,
			client:     client,
			network:    networks.CurrentNetwork(),
			collection: collection,
			address:    address,
			ensName:    ensName,
			native:     native,
			policy: approvals.Policy{
				Sort:   approvals.SortNewestToOldest,
				Filter: approvals.FilterEverything,
			},
		}
		session.loop(ctx)
	},
}

func init() {
	AddCommonFlagsToTransactionalCmds(inspectCmd)
	rootCmd.AddCommand(inspectCmd)
}

func newMoralisClient() (*moralis.Client, error) {
	key := config.MoralisAPIKey()
	if key == "" {
		return nil, fmt.Errorf(
			"no Moralis API key found, set the %s env var (a .env file works too)",
			config.MoralisAPIKeyVar(),
		)
	}
	return moralis.NewClient(key), nil
}

// resolveWallet turns user input (hex address, ENS name, or nothing) into a
// wallet address plus its ENS name when one is known. Reverse resolution is
// best effort; a wallet without a name is not an error.
func resolveWallet(
	ctx context.Context,
	u ui.UI,
	client *moralis.Client,
	input string,
) (address string, ensName string, err error) {
	if input == "" {
		u.Info("Which wallet do you want to inspect? (address or ENS name)")
		input = u.Ask(func(s string) error {
			if common.IsRealAddress(s) || moralis.IsENSName(s) {
				return nil
			}
			return fmt.Errorf("%q is neither a hex address nor a .eth name", s)
		})
	}

	if moralis.IsENSName(input) {
		stop := u.Spinner(fmt.Sprintf("Resolving %s...", input))
		address, err = client.ResolveNameToAddress(ctx, input)
		stop()
		if errors.Is(err, moralis.ErrNotFound) {
			return "", "", fmt.Errorf("%s does not resolve to any address", input)
		}
		if err != nil {
			return "", "", fmt.Errorf("resolving %s: %w", input, err)
		}
		return address, input, nil
	}

	if !common.IsRealAddress(input) {
		return "", "", fmt.Errorf("%q is neither a hex address nor a .eth name", input)
	}

	stop := u.Spinner("Looking up ENS name...")
	ensName, err = client.ResolveAddressToName(ctx, input)
	stop()
	if err != nil && !errors.Is(err, moralis.ErrNotFound) {
		u.Warn("Could not look up the wallet's ENS name: %s", err)
	}
	return input, ensName, nil
}

// fetchWalletData loads approvals and the native balance in parallel.
// Approval failures surface as an error line plus an empty listing; a wallet
// with no native entry simply shows no balance.
func fetchWalletData(
	ctx context.Context,
	u ui.UI,
	client *moralis.Client,
	address string,
	collection *approvals.Collection,
) *moralis.NativeBalance {
	var native *moralis.NativeBalance

	stop := u.Spinner("Fetching approvals and balances...")
	err, _ := common.RunParallel(
		func() error {
			raws, err := client.FetchApprovals(ctx, address)
			if err != nil {
				return err
			}
			collection.Replace(approvals.Normalize(raws))
			return nil
		},
		func() error {
			balance, err := client.FetchNativeBalance(ctx, address)
			if errors.Is(err, moralis.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			native = balance
			return nil
		},
	)
	stop()
	if err != nil {
		u.Error("Some wallet data could not be fetched: %s", err)
	}
	return native
}

// inspectSession holds the view state of one interactive run. None of it
// survives the process.
type inspectSession struct {
	ui         ui.UI
	client     *moralis.Client
	network    networks.Network
	collection *approvals.Collection
	address    string
	ensName    string
	native     *moralis.NativeBalance
	policy     approvals.Policy
	search     string

	workflow *revoke.Workflow
}

// view computes the approvals currently on screen: search narrows, then the
// policy filters and sorts.
func (s *inspectSession) view() []approvals.Approval {
	list := approvals.Search(s.collection.Snapshot(), s.search)
	return approvals.Apply(list, s.policy)
}

func (s *inspectSession) render() []approvals.Approval {
	s.ui.Section("Wallet")
	renderWalletSummary(s.ui, s.address, s.ensName, s.native, s.network)
	renderHeadlineStats(s.ui, s.collection)

	title := fmt.Sprintf("Approvals (%s, %s)", s.policy.Filter, s.policy.Sort)
	if s.search != "" {
		title += fmt.Sprintf(", matching %q", s.search)
	}
	s.ui.Section(title)
	list := s.view()
	renderApprovalTable(s.ui, list)
	return list
}

func (s *inspectSession) loop(ctx context.Context) {
	for {
		list := s.render()

		actions := []string{
			"Revoke an approval",
			"Change sort order",
			"Change filter",
			"Search",
			"Copy an address",
			"Refresh",
			"Quit",
		}
		switch s.ui.Choose("What do you want to do?", actions) {
		case 0:
			s.revokeOne(ctx, list)
		case 1:
			s.chooseSort()
		case 2:
			s.chooseFilter()
		case 3:
			s.ui.Info("Search by asset, spender name or spender address (empty to clear):")
			s.search = strings.TrimSpace(s.ui.Ask(nil))
		case 4:
			s.copyAddress(list)
		case 5:
			s.native = fetchWalletData(ctx, s.ui, s.client, s.address, s.collection)
		case 6:
			return
		}
	}
}

func (s *inspectSession) chooseSort() {
	keys := approvals.SortKeys()
	options := make([]string, len(keys))
	for i, k := range keys {
		options[i] = string(k)
	}
	s.policy.Sort = keys[s.ui.Choose("Sort approvals by:", options)]
}

func (s *inspectSession) chooseFilter() {
	keys := approvals.FilterKeys()
	options := make([]string, len(keys))
	for i, k := range keys {
		options[i] = string(k)
	}
	s.policy.Filter = keys[s.ui.Choose("Show approvals of type:", options)]
}

// pickRow asks for a row number from the table just shown, returning the
// 0-based index.
func (s *inspectSession) pickRow(prompt string, count int) int {
	s.ui.Info("%s (1-%d)", prompt, count)
	answer := s.ui.Ask(func(input string) error {
		n, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil || n < 1 || n > count {
			return fmt.Errorf("please enter a number between 1 and %d", count)
		}
		return nil
	})
	n, _ := strconv.Atoi(strings.TrimSpace(answer))
	return n - 1
}

func (s *inspectSession) copyAddress(list []approvals.Approval) {
	if len(list) == 0 {
		s.ui.Warn("Nothing to copy from an empty listing.")
		return
	}
	idx := s.pickRow("Which row?", len(list))
	a := list[idx]
	which := s.ui.Choose(
		"Copy which address?",
		[]string{
			fmt.Sprintf("token   %s", a.TokenAddress),
			fmt.Sprintf("spender %s", a.SpenderAddress),
		},
	)
	if which == 0 {
		ui.CopyAddress(s.ui, a.TokenAddress)
	} else {
		ui.CopyAddress(s.ui, a.SpenderAddress)
	}
}

// ensureWorkflow wires the revocation pipeline on first use: wallet
// controller over the configured keystore, a node-backed tx crafter and the
// multi-node broadcaster.
func (s *inspectSession) ensureWorkflow() (*revoke.Workflow, error) {
	if s.workflow != nil {
		return s.workflow, nil
	}

	var provider wallet.Provider
	if config.Keystore != "" {
		provider = wallet.NewKeystoreProvider(config.Keystore)
	}
	controller := wallet.NewController(provider, s.ui)

	crafter, err := revoke.NewNodeCrafter(s.network)
	if err != nil {
		return nil, err
	}
	broadcaster := revoke.NewBroadcaster(s.network.GetDefaultNodes())

	s.workflow = revoke.NewWorkflow(controller, s.collection, crafter, broadcaster, s.network)
	if config.TimeoutSeconds > 0 {
		s.workflow.SetTimeout(time.Duration(config.TimeoutSeconds) * time.Second)
	}
	return s.workflow, nil
}

func (s *inspectSession) revokeOne(ctx context.Context, list []approvals.Approval) {
	if len(list) == 0 {
		s.ui.Warn("Nothing to revoke in an empty listing.")
		return
	}
	idx := s.pickRow("Which approval do you want to revoke?", len(list))
	a := list[idx]

	s.ui.Critical("You are about to revoke this approval:")
	s.ui.Indent().KeyValue([][2]string{
		{"Asset", formatAsset(a)},
		{"Approved amount", formatApprovedAmount(a)},
		{"Value at risk", formatUSD(a.USDAtRisk)},
		{"Spender", formatSpender(a)},
	})
	if !s.ui.Confirm("Send the zero-allowance approve transaction?", false) {
		s.ui.Info("Aborted.")
		return
	}

	workflow, err := s.ensureWorkflow()
	if err != nil {
		s.ui.Error("Cannot set up the revocation pipeline: %s", err)
		return
	}

	// On success the next render already shows the zeroed allowance, the
	// collection is patched optimistically.
	runRevocation(ctx, s.ui, workflow, a.Key())
}

// runRevocation drives one task to a terminal state and reports the outcome.
// Shared between the interactive loop and the one-shot revoke command.
func runRevocation(
	ctx context.Context,
	u ui.UI,
	workflow *revoke.Workflow,
	key approvals.Key,
) *revoke.Task {
	if workflow.InFlight(key) {
		u.Warn("A revocation for this approval is already in flight.")
	}

	stop := u.Spinner("Revoking...")
	task := workflow.Revoke(ctx, key)
	stop()

	switch task.State() {
	case revoke.Confirmed:
		u.Success("Revoked. Transaction: %s", task.TxHash())
	case revoke.Failed:
		err := task.ErrorDetail()
		switch {
		case errors.Is(err, wallet.ErrProviderUnavailable):
			u.Error("No wallet available. Pass --keystore to be able to revoke.")
		case errors.Is(err, wallet.ErrUserRejected):
			u.Info("Wallet request declined, nothing was sent.")
		default:
			u.Error("Revocation failed: %s", err)
			u.Info("The approval is unchanged, you can retry.")
		}
	default:
		u.Warn("Revocation is still %s.", task.State())
	}
	return task
}
