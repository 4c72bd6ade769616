// Package moralis is the HTTP client for the deep-index wallet API that
// backs revoker: ENS resolution both ways, outstanding token approvals and
// native balance lookup. All lookups are best-effort for callers: a miss or
// a network failure surfaces as a typed error, never a crash.
package moralis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tranvictor/revoker/approvals"
)

const DefaultDomain = "https://deep-index.moralis.io/api/v2.2"

// NativeAssetSentinel is the pseudo token address the tokens endpoint uses
// for the chain's native asset.
const NativeAssetSentinel = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

// ErrNotFound signals a resolution miss: the name has no address or the
// address has no primary name. Callers fall back to showing the raw input.
var ErrNotFound = errors.New("not found")

type Client struct {
	Domain string
	APIKey string

	httpClient *http.Client
	chain      string
}

func NewClient(apiKey string) *Client {
	return &Client{
		Domain:     DefaultDomain,
		APIKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		chain:      "eth",
	}
}

// IsENSName reports whether the user's search input should be resolved as a
// name rather than used as an address directly.
func IsENSName(input string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(input)), ".eth")
}

func (c *Client) ResolveENSURL(name string) string {
	return fmt.Sprintf("%s/resolve/ens/%s", c.Domain, name)
}

func (c *Client) ResolveReverseURL(address string) string {
	return fmt.Sprintf("%s/resolve/%s/reverse", c.Domain, address)
}

func (c *Client) WalletApprovalsURL(address string) string {
	return fmt.Sprintf("%s/wallets/%s/approvals?chain=%s", c.Domain, address, c.chain)
}

func (c *Client) WalletTokensURL(address string) string {
	return fmt.Sprintf("%s/wallets/%s/tokens?chain=%s", c.Domain, address, c.chain)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, url, string(body))
	}
	return body, nil
}

type resolveENSResponse struct {
	Address string `json:"address"`
}

// ResolveNameToAddress resolves an ENS-style name to its address.
// Returns ErrNotFound when the name doesn't resolve.
func (c *Client) ResolveNameToAddress(ctx context.Context, name string) (string, error) {
	body, err := c.get(ctx, c.ResolveENSURL(name))
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", name, err)
	}
	var parsed resolveENSResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("resolving %s: %w", name, err)
	}
	if parsed.Address == "" {
		return "", fmt.Errorf("resolving %s: %w", name, ErrNotFound)
	}
	return parsed.Address, nil
}

type resolveReverseResponse struct {
	Name string `json:"name"`
}

// ResolveAddressToName reverse-resolves an address to its primary name.
// Returns ErrNotFound when the address has none.
func (c *Client) ResolveAddressToName(ctx context.Context, address string) (string, error) {
	body, err := c.get(ctx, c.ResolveReverseURL(address))
	if err != nil {
		return "", fmt.Errorf("reverse resolving %s: %w", address, err)
	}
	var parsed resolveReverseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("reverse resolving %s: %w", address, err)
	}
	if parsed.Name == "" {
		return "", fmt.Errorf("reverse resolving %s: %w", address, ErrNotFound)
	}
	return parsed.Name, nil
}

// FetchApprovals returns the wallet's raw approval records. The payload is
// parsed fail-closed by the approvals package; any failure comes back as an
// approvals.FetchError wrapping the cause.
func (c *Client) FetchApprovals(ctx context.Context, address string) ([]approvals.RawApproval, error) {
	body, err := c.get(ctx, c.WalletApprovalsURL(address))
	if err != nil {
		return nil, &approvals.FetchError{Op: "fetching approvals", Err: err}
	}
	return approvals.ParsePayload(body)
}

// NativeBalance is the wallet's native asset holding as the tokens endpoint
// reports it.
type NativeBalance struct {
	BalanceFormatted float64
	USDValue         float64
}

type walletTokensResponse struct {
	Result []struct {
		TokenAddress     string `json:"token_address"`
		BalanceFormatted any    `json:"balance_formatted"`
		USDValue         any    `json:"usd_value"`
	} `json:"result"`
}

// FetchNativeBalance looks the native asset up in the wallet's token list by
// its sentinel pseudo-address. A wallet with no native entry returns
// ErrNotFound wrapped in a FetchError.
func (c *Client) FetchNativeBalance(ctx context.Context, address string) (*NativeBalance, error) {
	body, err := c.get(ctx, c.WalletTokensURL(address))
	if err != nil {
		return nil, &approvals.FetchError{Op: "fetching native balance", Err: err}
	}
	var parsed walletTokensResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &approvals.FetchError{Op: "decoding wallet tokens", Err: err}
	}
	for _, token := range parsed.Result {
		if !strings.EqualFold(token.TokenAddress, NativeAssetSentinel) {
			continue
		}
		balance := approvals.ParseDecimal(token.BalanceFormatted)
		usd := approvals.ParseDecimal(token.USDValue)
		result := &NativeBalance{}
		if balance != nil {
			result.BalanceFormatted = *balance
		}
		if usd != nil {
			result.USDValue = *usd
		}
		return result, nil
	}
	return nil, &approvals.FetchError{Op: "fetching native balance", Err: ErrNotFound}
}
