package moralis_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tranvictor/revoker/approvals"
	"github.com/tranvictor/revoker/moralis"
)

const testAddress = "0x52bc44d5378309EE2abF1539BF71dE1b7d7bE3b5"

// newTestClient points a client at a stub API and fails the test on any
// request missing the API key header.
func newTestClient(t *testing.T, handler http.HandlerFunc) *moralis.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "test-api-key" {
			t.Errorf("request to %s is missing the API key header", r.URL.Path)
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client := moralis.NewClient("test-api-key")
	client.Domain = server.URL
	return client
}

func TestIsENSName(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"vitalik.eth", true},
		{"  Vitalik.ETH  ", true},
		{testAddress, false},
		{"", false},
		{"eth", false},
	}
	for _, c := range cases {
		if got := moralis.IsENSName(c.input); got != c.want {
			t.Errorf("IsENSName(%q) = %t, want %t", c.input, got, c.want)
		}
	}
}

func TestResolveNameToAddress(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/resolve/ens/vitalik.eth" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"address": "` + testAddress + `"}`))
	})

	address, err := client.ResolveNameToAddress(context.Background(), "vitalik.eth")
	if err != nil {
		t.Fatalf("expected resolution to succeed, got %s", err)
	}
	if address != testAddress {
		t.Errorf("unexpected address %q", address)
	}

	_, err = client.ResolveNameToAddress(context.Background(), "nobody.eth")
	if !errors.Is(err, moralis.ErrNotFound) {
		t.Errorf("expected ErrNotFound for an unknown name, got %v", err)
	}
}

func TestResolveNameToAddressEmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.ResolveNameToAddress(context.Background(), "vitalik.eth")
	if !errors.Is(err, moralis.ErrNotFound) {
		t.Errorf("expected an empty resolution to read as a miss, got %v", err)
	}
}

func TestResolveAddressToName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/resolve/"+testAddress+"/reverse" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"name": "vitalik.eth"}`))
	})

	name, err := client.ResolveAddressToName(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("expected reverse resolution to succeed, got %s", err)
	}
	if name != "vitalik.eth" {
		t.Errorf("unexpected name %q", name)
	}
}

func TestFetchApprovals(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("chain") != "eth" {
			t.Errorf("missing chain query param on %s", r.URL)
		}
		w.Write([]byte(`{
			"result": [{
				"token": {"symbol": "USDT", "address": "0xToken", "usd_at_risk": "12.5"},
				"value_formatted": "100",
				"spender": {"address": "0xSpender", "entity": "1inch"},
				"block_timestamp": "2024-03-01T10:00:00.000Z"
			}]
		}`))
	})

	raws, err := client.FetchApprovals(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("expected the fetch to succeed, got %s", err)
	}
	if len(raws) != 1 || raws[0].Token.Symbol != "USDT" {
		t.Errorf("unexpected records %+v", raws)
	}
}

func TestFetchApprovalsMalformedPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected": true}`))
	})

	raws, err := client.FetchApprovals(context.Background(), testAddress)
	if len(raws) != 0 {
		t.Errorf("expected no records from a malformed payload, got %d", len(raws))
	}
	var fetchErr *approvals.FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("expected a FetchError, got %v", err)
	}
}

func TestFetchNativeBalance(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Sentinel casing differs from the canonical constant on purpose.
		w.Write([]byte(`{
			"result": [
				{"token_address": "0xToken", "balance_formatted": "5", "usd_value": 10},
				{"token_address": "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee", "balance_formatted": "1.5", "usd_value": "4800"}
			]
		}`))
	})

	balance, err := client.FetchNativeBalance(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("expected the fetch to succeed, got %s", err)
	}
	if balance.BalanceFormatted != 1.5 {
		t.Errorf("unexpected native balance %f", balance.BalanceFormatted)
	}
	if balance.USDValue != 4800 {
		t.Errorf("unexpected native usd value %f", balance.USDValue)
	}
}

func TestFetchNativeBalanceMissing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": [{"token_address": "0xToken"}]}`))
	})

	_, err := client.FetchNativeBalance(context.Background(), testAddress)
	if !errors.Is(err, moralis.ErrNotFound) {
		t.Errorf("expected ErrNotFound when the wallet has no native entry, got %v", err)
	}
}
