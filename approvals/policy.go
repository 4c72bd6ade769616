package approvals

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the comparator Apply uses. The string values double as the
// selector option values shown to the user.
type SortKey string

const (
	SortNewestToOldest       SortKey = "newest-to-oldest"
	SortOldestToNewest       SortKey = "oldest-to-newest"
	SortApprovedAmountLowHi  SortKey = "approved-amount-low-high"
	SortApprovedAmountHiLow  SortKey = "approved-amount-high-low"
	SortValueAtRiskLowHi     SortKey = "value-at-risk-low-high"
	SortValueAtRiskHiLow     SortKey = "value-at-risk-high-low"
	SortAssetAZ              SortKey = "asset-a-z"
	SortAssetZA              SortKey = "asset-z-a"
)

// FilterKey restricts which approvals are shown.
type FilterKey string

const (
	FilterEverything FilterKey = "everything"
	FilterLimited    FilterKey = "limited"
	FilterUnlimited  FilterKey = "unlimited"
)

// Policy is the user's current display choice. It lives for the session
// only; nothing is persisted.
type Policy struct {
	Sort   SortKey
	Filter FilterKey
}

// SortKeys lists all selectable sort options in display order.
func SortKeys() []SortKey {
	return []SortKey{
		SortNewestToOldest,
		SortOldestToNewest,
		SortApprovedAmountLowHi,
		SortApprovedAmountHiLow,
		SortValueAtRiskLowHi,
		SortValueAtRiskHiLow,
		SortAssetAZ,
		SortAssetZA,
	}
}

// FilterKeys lists all selectable filter options in display order.
func FilterKeys() []FilterKey {
	return []FilterKey{FilterEverything, FilterLimited, FilterUnlimited}
}

// symbolCollator makes asset-name ordering locale-aware instead of byte-wise,
// so e.g. "éTH" sorts next to "ETH".
var symbolCollator = collate.New(language.English, collate.IgnoreCase)

// Apply returns the displayable view of list under p: filter first, then a
// stable sort (ties keep their prior relative order). The input is never
// mutated and the headline stats are unaffected since they are computed over
// the unfiltered collection.
//
// An unknown sort or filter key degrades to identity rather than erroring.
func Apply(list []Approval, p Policy) []Approval {
	out := filterApprovals(list, p.Filter)
	sortApprovals(out, p.Sort)
	return out
}

func filterApprovals(list []Approval, key FilterKey) []Approval {
	out := make([]Approval, 0, len(list))
	for _, a := range list {
		switch key {
		case FilterLimited:
			if a.Unlimited {
				continue
			}
		case FilterUnlimited:
			if !a.Unlimited {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

func sortApprovals(list []Approval, key SortKey) {
	var less func(a, b Approval) bool
	switch key {
	case SortNewestToOldest:
		less = func(a, b Approval) bool { return a.LastUpdatedAt.After(b.LastUpdatedAt) }
	case SortOldestToNewest:
		less = func(a, b Approval) bool { return a.LastUpdatedAt.Before(b.LastUpdatedAt) }
	case SortApprovedAmountLowHi:
		less = func(a, b Approval) bool { return a.ApprovedAmount < b.ApprovedAmount }
	case SortApprovedAmountHiLow:
		less = func(a, b Approval) bool { return a.ApprovedAmount > b.ApprovedAmount }
	case SortValueAtRiskLowHi:
		less = func(a, b Approval) bool { return a.RiskUSD() < b.RiskUSD() }
	case SortValueAtRiskHiLow:
		less = func(a, b Approval) bool { return a.RiskUSD() > b.RiskUSD() }
	case SortAssetAZ:
		less = func(a, b Approval) bool {
			return symbolCollator.CompareString(a.TokenSymbol, b.TokenSymbol) < 0
		}
	case SortAssetZA:
		less = func(a, b Approval) bool {
			return symbolCollator.CompareString(a.TokenSymbol, b.TokenSymbol) > 0
		}
	default:
		return
	}
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
}

// Search narrows list to approvals fuzzy-matching query against the token
// symbol, the spender's entity name and the spender address, ranked best
// match first. An empty query returns a copy of list unchanged so Search
// composes with Apply either way around.
func Search(list []Approval, query string) []Approval {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]Approval, len(list))
		copy(out, list)
		return out
	}
	targets := make([]string, len(list))
	for i, a := range list {
		targets[i] = a.TokenSymbol + " " + a.SpenderEntity + " " + a.SpenderAddress
	}
	matches := fuzzy.Find(query, targets)
	out := make([]Approval, 0, len(matches))
	for _, m := range matches {
		out = append(out, list[m.Index])
	}
	return out
}
