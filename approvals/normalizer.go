package approvals

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// UnlimitedThreshold is the de-facto "infinite approval" boundary for
// 18-decimal tokens once the allowance is rendered in human-readable units
// (2^96 - 1 scaled down). Anything at or above it is treated as practically
// unlimited regardless of the token's true max uint256.
const UnlimitedThreshold float64 = 79228162514

// CheckUnlimited reports whether a formatted allowance amount should be
// treated as an unlimited approval.
func CheckUnlimited(amount float64) bool {
	return amount >= UnlimitedThreshold
}

// FetchError wraps any failure to obtain or decode approval/balance data
// from the remote source. It is the only error kind that crosses the data
// pipeline boundary; callers render it as an empty/zero display plus a
// diagnostic, never as a crash.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RawApproval mirrors one record of the wallet approvals endpoint. Numeric
// fields are declared as any because the source serializes them
// inconsistently (sometimes JSON numbers, sometimes strings, sometimes
// missing); ParseDecimal absorbs all of that.
type RawApproval struct {
	Token struct {
		Symbol                  string `json:"symbol"`
		Address                 string `json:"address"`
		Logo                    string `json:"logo"`
		USDAtRisk               any    `json:"usd_at_risk"`
		CurrentBalanceFormatted any    `json:"current_balance_formatted"`
		USDPrice                any    `json:"usd_price"`
	} `json:"token"`
	ValueFormatted any `json:"value_formatted"`
	Spender        struct {
		Address string `json:"address"`
		Entity  string `json:"entity"`
	} `json:"spender"`
	BlockTimestamp string `json:"block_timestamp"`
}

type approvalsPayload struct {
	Result json.RawMessage `json:"result"`
}

// ParsePayload decodes the body of the wallet approvals endpoint into raw
// records. It fails closed: any shape other than an object whose "result"
// field is a list yields an empty slice and a FetchError. It never panics
// past this boundary.
func ParsePayload(body []byte) ([]RawApproval, error) {
	var payload approvalsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &FetchError{Op: "decoding approvals payload", Err: err}
	}
	if len(payload.Result) == 0 {
		return nil, &FetchError{
			Op:  "decoding approvals payload",
			Err: fmt.Errorf("payload has no result list"),
		}
	}
	var raws []RawApproval
	if err := json.Unmarshal(payload.Result, &raws); err != nil {
		return nil, &FetchError{Op: "decoding approvals result list", Err: err}
	}
	return raws, nil
}

// ParseDecimal converts a defensively-typed numeric field to a float, or nil
// when the field is missing, empty or unparsable. Downstream treats nil as 0
// for aggregation and as "N/A" for display.
func ParseDecimal(v any) *float64 {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		return &x
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil
		}
		return &f
	case string:
		if x == "" {
			return nil
		}
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// Normalize converts raw records into canonical approvals. Bad numeric
// fields degrade to unknown instead of erroring; a missing or unparsable
// approved amount degrades to 0 and negatives are clamped so the
// ApprovedAmount >= 0 invariant holds no matter what the source sends.
func Normalize(raws []RawApproval) []Approval {
	result := make([]Approval, 0, len(raws))
	for _, raw := range raws {
		approved := 0.0
		if v := ParseDecimal(raw.ValueFormatted); v != nil && *v > 0 {
			approved = *v
		}

		risk := ParseDecimal(raw.Token.USDAtRisk)
		if risk != nil && *risk < 0 {
			risk = nil
		}

		result = append(result, Approval{
			TokenAddress:   raw.Token.Address,
			TokenSymbol:    raw.Token.Symbol,
			TokenLogoURL:   raw.Token.Logo,
			CurrentBalance: ParseDecimal(raw.Token.CurrentBalanceFormatted),
			USDPrice:       ParseDecimal(raw.Token.USDPrice),
			ApprovedAmount: approved,
			USDAtRisk:      risk,
			SpenderAddress: raw.Spender.Address,
			SpenderEntity:  raw.Spender.Entity,
			LastUpdatedAt:  parseTimestamp(raw.BlockTimestamp),
			Unlimited:      CheckUnlimited(approved),
		})
	}
	return result
}

func parseTimestamp(ts string) time.Time {
	if ts == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}
	}
	return t
}
