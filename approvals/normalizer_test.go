package approvals_test

import (
	"errors"
	"testing"
	"time"

	"github.com/tranvictor/revoker/approvals"
)

const approvalsFixture = `{
	"result": [
		{
			"token": {
				"symbol": "USDT",
				"address": "0xdAC17F958D2ee523a2206206994597C13D831ec7",
				"logo": "https://example.com/usdt.png",
				"usd_at_risk": "120.5",
				"current_balance_formatted": "120.5",
				"usd_price": 1.0
			},
			"value_formatted": "79228162514.26",
			"spender": {
				"address": "0x1111111254EEB25477B68fb85Ed929f73A960582",
				"entity": "1inch"
			},
			"block_timestamp": "2024-03-01T10:00:00.000Z"
		},
		{
			"token": {
				"symbol": "WETH",
				"address": "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
				"usd_at_risk": null,
				"current_balance_formatted": "not-a-number",
				"usd_price": "3200"
			},
			"value_formatted": 0.5,
			"spender": {
				"address": "0x000000000022D473030F116dDEE9F6B43aC78BA3",
				"entity": ""
			},
			"block_timestamp": "garbage"
		}
	]
}`

func TestParsePayloadDecodesRecords(t *testing.T) {
	raws, err := approvals.ParsePayload([]byte(approvalsFixture))
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	if len(raws) != 2 {
		t.Fatalf("expected 2 records, got %d", len(raws))
	}
	if raws[0].Token.Symbol != "USDT" {
		t.Errorf("expected first token symbol USDT, got %q", raws[0].Token.Symbol)
	}
	if raws[1].Spender.Address != "0x000000000022D473030F116dDEE9F6B43aC78BA3" {
		t.Errorf("unexpected second spender address %q", raws[1].Spender.Address)
	}
}

func TestParsePayloadFailsClosed(t *testing.T) {
	bad := map[string]string{
		"not json":           `{{{`,
		"no result field":    `{"total": 2}`,
		"result not a list":  `{"result": 5}`,
		"result is a string": `{"result": "nope"}`,
		"top level list":     `[1, 2, 3]`,
	}
	for name, body := range bad {
		t.Run(name, func(t *testing.T) {
			raws, err := approvals.ParsePayload([]byte(body))
			if len(raws) != 0 {
				t.Errorf("expected no records, got %d", len(raws))
			}
			var fetchErr *approvals.FetchError
			if !errors.As(err, &fetchErr) {
				t.Errorf("expected a FetchError, got %v", err)
			}
		})
	}
}

func TestCheckUnlimitedBoundary(t *testing.T) {
	cases := []struct {
		amount float64
		want   bool
	}{
		{0, false},
		{1000000, false},
		{79228162513, false},
		{79228162514, true},
		{79228162514.0001, true},
		{1e18, true},
	}
	for _, c := range cases {
		if got := approvals.CheckUnlimited(c.amount); got != c.want {
			t.Errorf("CheckUnlimited(%f) = %t, want %t", c.amount, got, c.want)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	if got := approvals.ParseDecimal(nil); got != nil {
		t.Errorf("expected nil for nil input, got %f", *got)
	}
	if got := approvals.ParseDecimal(""); got != nil {
		t.Errorf("expected nil for empty string, got %f", *got)
	}
	if got := approvals.ParseDecimal("abc"); got != nil {
		t.Errorf("expected nil for garbage string, got %f", *got)
	}
	if got := approvals.ParseDecimal([]int{1}); got != nil {
		t.Errorf("expected nil for unexpected type, got %f", *got)
	}
	if got := approvals.ParseDecimal(12.5); got == nil || *got != 12.5 {
		t.Errorf("expected 12.5 for float input, got %v", got)
	}
	if got := approvals.ParseDecimal("3200"); got == nil || *got != 3200 {
		t.Errorf("expected 3200 for numeric string, got %v", got)
	}
}

func TestNormalize(t *testing.T) {
	raws, err := approvals.ParsePayload([]byte(approvalsFixture))
	if err != nil {
		t.Fatalf("fixture did not parse: %s", err)
	}
	list := approvals.Normalize(raws)
	if len(list) != 2 {
		t.Fatalf("expected 2 approvals, got %d", len(list))
	}

	usdt := list[0]
	if !usdt.Unlimited {
		t.Errorf("expected the USDT approval to be unlimited")
	}
	if usdt.USDAtRisk == nil || *usdt.USDAtRisk != 120.5 {
		t.Errorf("unexpected USDT value at risk: %v", usdt.USDAtRisk)
	}
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if !usdt.LastUpdatedAt.Equal(want) {
		t.Errorf("unexpected USDT timestamp: %s", usdt.LastUpdatedAt)
	}

	weth := list[1]
	if weth.Unlimited {
		t.Errorf("expected the WETH approval to be limited")
	}
	if weth.ApprovedAmount != 0.5 {
		t.Errorf("expected WETH approved amount 0.5, got %f", weth.ApprovedAmount)
	}
	if weth.USDAtRisk != nil {
		t.Errorf("expected unknown WETH value at risk, got %f", *weth.USDAtRisk)
	}
	if weth.CurrentBalance != nil {
		t.Errorf("expected unparsable balance to degrade to unknown, got %f", *weth.CurrentBalance)
	}
	if weth.USDPrice == nil || *weth.USDPrice != 3200 {
		t.Errorf("unexpected WETH usd price: %v", weth.USDPrice)
	}
	if !weth.LastUpdatedAt.IsZero() {
		t.Errorf("expected garbage timestamp to degrade to zero time, got %s", weth.LastUpdatedAt)
	}
}

func TestNormalizeClampsNegatives(t *testing.T) {
	var raw approvals.RawApproval
	raw.Token.Address = "0xToken"
	raw.Token.USDAtRisk = -5.0
	raw.ValueFormatted = "-42"
	raw.Spender.Address = "0xSpender"

	list := approvals.Normalize([]approvals.RawApproval{raw})
	if len(list) != 1 {
		t.Fatalf("expected 1 approval, got %d", len(list))
	}
	if list[0].ApprovedAmount != 0 {
		t.Errorf("expected negative approved amount clamped to 0, got %f", list[0].ApprovedAmount)
	}
	if list[0].USDAtRisk != nil {
		t.Errorf("expected negative risk to degrade to unknown, got %f", *list[0].USDAtRisk)
	}
}
