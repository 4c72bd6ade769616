package common_test

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/tranvictor/revoker/common"
)

func TestIsRealAddress(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"0x52bc44d5378309EE2abF1539BF71dE1b7d7bE3b5", true},
		{"0x52bc44d5378309EE2abF1539BF71dE1b7d7bE3b", false},  // too short
		{"52bc44d5378309EE2abF1539BF71dE1b7d7bE3b5ab", false}, // no 0x prefix
		{"vitalik.eth", false},
		{"", false},
	}
	for _, c := range cases {
		if got := common.IsRealAddress(c.input); got != c.want {
			t.Errorf("IsRealAddress(%q) = %t, want %t", c.input, got, c.want)
		}
	}
}

func TestShortenAddress(t *testing.T) {
	got := common.ShortenAddress("0x52bc44d5378309EE2abF1539BF71dE1b7d7bE3b5")
	if got != "0x52bc...E3b5" {
		t.Errorf("unexpected shortened address %q", got)
	}
	// Inputs shorter than the compact form pass through untouched.
	if got := common.ShortenAddress("0x1234"); got != "0x1234" {
		t.Errorf("expected short input unchanged, got %q", got)
	}
}

func TestRunParallel(t *testing.T) {
	err, n := common.RunParallel(
		func() error { return nil },
		func() error { return fmt.Errorf("node a is down") },
		func() error { return fmt.Errorf("node b is down") },
	)
	if n != 2 {
		t.Errorf("expected 2 errors, got %d", n)
	}
	if err == nil {
		t.Errorf("expected a joined error")
	}

	err, n = common.RunParallel(func() error { return nil })
	if err != nil || n != 0 {
		t.Errorf("expected no errors, got %v (%d)", err, n)
	}
}

func TestPackERC20Approve(t *testing.T) {
	spender := common.HexToAddress("0x1111111254EEB25477B68fb85Ed929f73A960582")
	data, err := common.PackERC20Data("approve", spender, big.NewInt(0))
	if err != nil {
		t.Fatalf("packing failed: %s", err)
	}
	// 4-byte selector + two 32-byte words.
	if len(data) != 68 {
		t.Fatalf("unexpected calldata length %d", len(data))
	}
	if fmt.Sprintf("%x", data[:4]) != "095ea7b3" {
		t.Errorf("unexpected approve selector %x", data[:4])
	}
	for _, b := range data[36:] {
		if b != 0 {
			t.Fatalf("expected a zero amount word, got %x", data[36:])
		}
	}
}

func TestBuildExactTx(t *testing.T) {
	to := "0xdAC17F958D2ee523a2206206994597C13D831ec7"

	legacy := common.BuildExactTx(7, to, big.NewInt(0), 60000, 20, 0, nil, common.TxTypeLegacy, 1)
	if legacy.Type() != 0 {
		t.Errorf("expected a legacy tx, got type %d", legacy.Type())
	}
	if legacy.Nonce() != 7 {
		t.Errorf("unexpected nonce %d", legacy.Nonce())
	}
	if legacy.GasPrice().Cmp(big.NewInt(20000000000)) != 0 {
		t.Errorf("expected 20 gwei gas price, got %s", legacy.GasPrice())
	}

	dynamic := common.BuildExactTx(7, to, big.NewInt(0), 60000, 20, 2, nil, common.TxTypeDynamicFee, 1)
	if dynamic.Type() != 2 {
		t.Errorf("expected a dynamic fee tx, got type %d", dynamic.Type())
	}
	if dynamic.GasTipCap().Cmp(big.NewInt(2000000000)) != 0 {
		t.Errorf("expected 2 gwei tip, got %s", dynamic.GasTipCap())
	}
	if dynamic.ChainId().Cmp(big.NewInt(1)) != 0 {
		t.Errorf("unexpected chain id %s", dynamic.ChainId())
	}
}
