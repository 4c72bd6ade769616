package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/tranvictor/revoker/approvals"
	"github.com/tranvictor/revoker/moralis"
	"github.com/tranvictor/revoker/networks"
	"github.com/tranvictor/revoker/ui"
)

func floatPtr(v float64) *float64 { return &v }

func TestFormatApprovedAmount(t *testing.T) {
	unlimited := approvals.Approval{ApprovedAmount: 99228162514, Unlimited: true}
	if got := formatApprovedAmount(unlimited); got != "Unlimited" {
		t.Errorf("expected Unlimited, got %q", got)
	}

	limited := approvals.Approval{TokenSymbol: "DAI", ApprovedAmount: 1234567.5}
	if got := formatApprovedAmount(limited); got != "1,234,567.5000 DAI" {
		t.Errorf("unexpected formatted amount %q", got)
	}
}

func TestFormatUSD(t *testing.T) {
	if got := formatUSD(nil); got != "N/A" {
		t.Errorf("expected N/A for unknown value, got %q", got)
	}
	if got := formatUSD(floatPtr(120.5)); got != "$120.50" {
		t.Errorf("unexpected usd %q", got)
	}
	if got := formatUSD(floatPtr(1234567.891)); got != "$1,234,567.89" {
		t.Errorf("unexpected usd %q", got)
	}
}

func TestFormatSpender(t *testing.T) {
	a := approvals.Approval{
		SpenderAddress: "0x1111111254EEB25477B68fb85Ed929f73A960582",
		SpenderEntity:  "1inch",
	}
	if got := formatSpender(a); got != "1inch (0x1111...0582)" {
		t.Errorf("unexpected spender %q", got)
	}

	a.SpenderEntity = ""
	if got := formatSpender(a); got != "Unknown (0x1111...0582)" {
		t.Errorf("expected an unknown entity label, got %q", got)
	}
}

func TestRenderApprovalTable(t *testing.T) {
	u := ui.NewRecordingUI()
	renderApprovalTable(u, []approvals.Approval{
		{
			TokenAddress:   "0xdAC17F958D2ee523a2206206994597C13D831ec7",
			TokenSymbol:    "USDT",
			ApprovedAmount: 99228162514,
			USDAtRisk:      floatPtr(120.5),
			CurrentBalance: floatPtr(120.5),
			SpenderAddress: "0x1111111254EEB25477B68fb85Ed929f73A960582",
			SpenderEntity:  "1inch",
			LastUpdatedAt:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			Unlimited:      true,
		},
		{
			TokenSymbol:    "WETH",
			ApprovedAmount: 0.5,
			SpenderAddress: "0x000000000022D473030F116dDEE9F6B43aC78BA3",
		},
	})

	rows := u.TableRows()
	if len(rows) != 3 { // header + 2 data rows
		t.Fatalf("expected 3 table entries, got %v", rows)
	}
	if !strings.Contains(rows[1], "Unlimited") {
		t.Errorf("expected the first row to be marked Unlimited: %q", rows[1])
	}
	if !strings.Contains(rows[1], "$120.50") {
		t.Errorf("expected the first row to show the value at risk: %q", rows[1])
	}
	if !strings.Contains(rows[1], "1inch") || !strings.Contains(rows[1], "01 Mar 2024") {
		t.Errorf("unexpected first row %q", rows[1])
	}
	if !strings.Contains(rows[2], "N/A") {
		t.Errorf("expected unknown risk to render as N/A: %q", rows[2])
	}

	empty := ui.NewRecordingUI()
	renderApprovalTable(empty, nil)
	if len(empty.TableRows()) != 0 || !empty.HasMessage("no approvals") {
		t.Errorf("expected an empty listing message, got %v", empty.Entries())
	}
}

func TestRenderWalletSummary(t *testing.T) {
	u := ui.NewRecordingUI()
	renderWalletSummary(
		u,
		"0x52bc44d5378309EE2abF1539BF71dE1b7d7bE3b5",
		"vitalik.eth",
		&moralis.NativeBalance{BalanceFormatted: 1.5, USDValue: 4800},
		networks.CurrentNetwork(),
	)

	if !u.HasMessage("0x52bc...E3b5") {
		t.Errorf("expected the shortened address in the summary: %v", u.Entries())
	}
	if !u.HasMessage("vitalik.eth") {
		t.Errorf("expected the ENS name in the summary: %v", u.Entries())
	}
	if !u.HasMessage("1.5000 ETH ($4,800.00)") {
		t.Errorf("expected the native balance in the summary: %v", u.Entries())
	}
}

func TestRenderHeadlineStats(t *testing.T) {
	c := approvals.NewCollection()
	c.Replace([]approvals.Approval{
		{TokenAddress: "0x1", SpenderAddress: "0xa", USDAtRisk: floatPtr(10)},
		{TokenAddress: "0x2", SpenderAddress: "0xb"},
		{TokenAddress: "0x3", SpenderAddress: "0xc", USDAtRisk: floatPtr(5)},
	})

	u := ui.NewRecordingUI()
	renderHeadlineStats(u, c)

	if !u.HasMessage("Total approvals | 3") {
		t.Errorf("expected the approval count: %v", u.Entries())
	}
	if !u.HasMessage("Total value at risk | $15.00") {
		t.Errorf("expected the risk sum: %v", u.Entries())
	}
}
