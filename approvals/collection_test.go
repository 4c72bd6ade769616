package approvals_test

import (
	"testing"

	"github.com/tranvictor/revoker/approvals"
)

func floatPtr(v float64) *float64 { return &v }

// fixtureApprovals builds a small collection-ready set: one unlimited, one
// limited, one with unknown risk.
func fixtureApprovals(t *testing.T) []approvals.Approval {
	t.Helper()
	return []approvals.Approval{
		{
			TokenAddress:   "0xAAA0000000000000000000000000000000000001",
			TokenSymbol:    "USDT",
			ApprovedAmount: 99228162514,
			USDAtRisk:      floatPtr(10),
			SpenderAddress: "0xBBB0000000000000000000000000000000000001",
			SpenderEntity:  "1inch",
			Unlimited:      true,
		},
		{
			TokenAddress:   "0xAAA0000000000000000000000000000000000002",
			TokenSymbol:    "WETH",
			ApprovedAmount: 0.5,
			USDAtRisk:      nil,
			SpenderAddress: "0xBBB0000000000000000000000000000000000002",
			SpenderEntity:  "Uniswap",
		},
		{
			TokenAddress:   "0xAAA0000000000000000000000000000000000003",
			TokenSymbol:    "DAI",
			ApprovedAmount: 250,
			USDAtRisk:      floatPtr(5),
			SpenderAddress: "0xBBB0000000000000000000000000000000000003",
			SpenderEntity:  "",
		},
	}
}

func TestHeadlineStats(t *testing.T) {
	c := approvals.NewCollection()
	c.Replace(fixtureApprovals(t))

	if got := c.TotalApprovals(); got != 3 {
		t.Errorf("expected 3 total approvals, got %d", got)
	}
	// Unknown risk counts as 0 in the sum.
	if got := c.TotalValueAtRisk(); got != 15 {
		t.Errorf("expected total value at risk 15, got %f", got)
	}
}

func TestReplaceDedupesByKey(t *testing.T) {
	items := fixtureApprovals(t)
	dup := items[0]
	// Same token and spender, different hex casing: still the same key.
	dup.TokenAddress = "0xaaa0000000000000000000000000000000000001"
	dup.USDAtRisk = floatPtr(9999)
	items = append(items, dup)

	c := approvals.NewCollection()
	c.Replace(items)

	if got := c.TotalApprovals(); got != 3 {
		t.Fatalf("expected duplicate key to be dropped, got %d entries", got)
	}
	kept, found := c.Get(items[0].Key())
	if !found {
		t.Fatalf("expected the first occurrence to be kept")
	}
	if *kept.USDAtRisk != 10 {
		t.Errorf("expected the first occurrence to win, got risk %f", *kept.USDAtRisk)
	}
}

func TestZeroOut(t *testing.T) {
	c := approvals.NewCollection()
	c.Replace(fixtureApprovals(t))
	key := approvals.NewKey(
		"0xAAA0000000000000000000000000000000000001",
		"0xBBB0000000000000000000000000000000000001",
	)

	if !c.ZeroOut(key) {
		t.Fatalf("expected ZeroOut to find the entry")
	}

	// The entry stays visible with a zeroed allowance.
	if got := c.TotalApprovals(); got != 3 {
		t.Errorf("expected the revoked entry to stay, got %d entries", got)
	}
	revoked, found := c.Get(key)
	if !found {
		t.Fatalf("expected the revoked entry to still be there")
	}
	if revoked.ApprovedAmount != 0 {
		t.Errorf("expected approved amount 0, got %f", revoked.ApprovedAmount)
	}
	if revoked.Unlimited {
		t.Errorf("expected the revoked entry to no longer be unlimited")
	}
	if revoked.USDAtRisk != nil {
		t.Errorf("expected no value at risk after revocation, got %f", *revoked.USDAtRisk)
	}
	if got := c.TotalValueAtRisk(); got != 5 {
		t.Errorf("expected total value at risk to drop to 5, got %f", got)
	}
}

func TestZeroOutUnknownKey(t *testing.T) {
	c := approvals.NewCollection()
	c.Replace(fixtureApprovals(t))
	if c.ZeroOut(approvals.NewKey("0xdead", "0xbeef")) {
		t.Errorf("expected ZeroOut to report a miss")
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	c := approvals.NewCollection()
	c.Replace(fixtureApprovals(t))

	snap := c.Snapshot()
	snap[0].ApprovedAmount = 123456

	fresh, _ := c.Get(snap[0].Key())
	if fresh.ApprovedAmount == 123456 {
		t.Errorf("mutating a snapshot must not leak into the collection")
	}
}
