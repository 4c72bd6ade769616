package cmd

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tranvictor/revoker/approvals"
	"github.com/tranvictor/revoker/common"
	"github.com/tranvictor/revoker/moralis"
	"github.com/tranvictor/revoker/networks"
	"github.com/tranvictor/revoker/ui"
)

// numberPrinter groups digits (1,234,567.89) so big allowances stay readable.
var numberPrinter = message.NewPrinter(language.English)

func formatTokenValue(v float64, symbol string) string {
	s := numberPrinter.Sprintf("%.4f", v)
	if symbol == "" {
		return s
	}
	return s + " " + symbol
}

func formatUSD(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return numberPrinter.Sprintf("$%.2f", *v)
}

func formatApprovedAmount(a approvals.Approval) string {
	if a.Unlimited {
		return "Unlimited"
	}
	return formatTokenValue(a.ApprovedAmount, a.TokenSymbol)
}

func formatSpender(a approvals.Approval) string {
	entity := a.SpenderEntity
	if entity == "" {
		entity = "Unknown"
	}
	return fmt.Sprintf("%s (%s)", entity, common.ShortenAddress(a.SpenderAddress))
}

func formatAsset(a approvals.Approval) string {
	symbol := a.TokenSymbol
	if symbol == "" {
		symbol = common.ShortenAddress(a.TokenAddress)
	}
	if a.CurrentBalance == nil {
		return symbol
	}
	return fmt.Sprintf("%s, holding %s", symbol, formatTokenValue(*a.CurrentBalance, a.TokenSymbol))
}

func formatLastUpdated(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("02 Jan 2006 15:04")
}

func renderWalletSummary(
	u ui.UI,
	address string,
	ensName string,
	native *moralis.NativeBalance,
	network networks.Network,
) {
	rows := [][2]string{
		{"Address", fmt.Sprintf("%s (%s)", address, common.ShortenAddress(address))},
	}
	if ensName != "" {
		rows = append(rows, [2]string{"ENS name", ensName})
	}
	if native != nil {
		balance := fmt.Sprintf(
			"%s (%s)",
			formatTokenValue(native.BalanceFormatted, network.GetNativeTokenSymbol()),
			formatUSD(&native.USDValue),
		)
		rows = append(rows, [2]string{"Native balance", balance})
	}
	u.KeyValue(rows)
}

func renderHeadlineStats(u ui.UI, collection *approvals.Collection) {
	risk := collection.TotalValueAtRisk()
	u.KeyValue([][2]string{
		{"Total approvals", fmt.Sprintf("%d", collection.TotalApprovals())},
		{"Total value at risk", formatUSD(&risk)},
	})
}

var approvalTableHeaders = []string{
	"#", "Asset", "Type", "Approved Amount", "Value at Risk", "Spender", "Last Updated",
}

func approvalTableRow(index int, a approvals.Approval) []string {
	kind := "Limited"
	if a.Unlimited {
		kind = "Unlimited"
	}
	risk := formatUSD(a.USDAtRisk)
	return []string{
		fmt.Sprintf("%d", index+1),
		formatAsset(a),
		kind,
		formatApprovedAmount(a),
		risk,
		formatSpender(a),
		formatLastUpdated(a.LastUpdatedAt),
	}
}

func renderApprovalTable(u ui.UI, list []approvals.Approval) {
	if len(list) == 0 {
		u.Info("No approvals to show.")
		return
	}
	rows := make([][]string, 0, len(list))
	for i, a := range list {
		rows = append(rows, approvalTableRow(i, a))
	}
	u.Table(approvalTableHeaders, rows)
}
