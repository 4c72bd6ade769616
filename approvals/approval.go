// Package approvals is the data pipeline of revoker: it takes the raw
// approval records the wallet API returns, normalizes them into a canonical
// model, keeps them in an in-memory collection with headline risk stats, and
// produces deterministic sorted/filtered views for display.
package approvals

import (
	"fmt"
	"strings"
	"time"
)

// Key identifies an approval by its (token, spender) pair. Addresses are
// lowercased so keys coming from different sources always compare equal.
type Key struct {
	Token   string
	Spender string
}

func (k Key) String() string {
	return fmt.Sprintf("%s->%s", k.Token, k.Spender)
}

// Approval is the canonical, normalized form of one outstanding token
// spending approval. It is an immutable snapshot; the collection mutates
// only by replacing entries.
//
// Decimal fields the source may omit or garble are pointers: nil means
// "unknown" and renders as N/A, but aggregates treat it as 0.
type Approval struct {
	TokenAddress string
	TokenSymbol  string
	TokenLogoURL string

	CurrentBalance *float64
	USDPrice       *float64

	// ApprovedAmount is in the token's human-readable units, never negative.
	ApprovedAmount float64

	USDAtRisk *float64

	SpenderAddress string
	SpenderEntity  string

	LastUpdatedAt time.Time

	// Unlimited is true when ApprovedAmount is at or above
	// UnlimitedThreshold and the allowance is treated as unbounded.
	Unlimited bool
}

// Key returns the collection key of this approval.
func (a Approval) Key() Key {
	return NewKey(a.TokenAddress, a.SpenderAddress)
}

func NewKey(token, spender string) Key {
	return Key{Token: strings.ToLower(token), Spender: strings.ToLower(spender)}
}

// RiskUSD returns the value at risk, treating unknown as 0 so it can be
// summed and compared directly.
func (a Approval) RiskUSD() float64 {
	if a.USDAtRisk == nil {
		return 0
	}
	return *a.USDAtRisk
}

// BalanceUSD returns current balance times usd price, or nil when either
// side is unknown.
func (a Approval) BalanceUSD() *float64 {
	if a.CurrentBalance == nil || a.USDPrice == nil {
		return nil
	}
	v := *a.CurrentBalance * *a.USDPrice
	return &v
}
