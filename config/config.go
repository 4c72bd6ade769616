package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Flag-bound state shared by all commands. cobra writes these during flag
// parsing; everything else reads them.
var (
	GasPrice      float64
	ExtraGasPrice float64
	TipGas        float64
	GasLimit      uint64
	ExtraGasLimit uint64
	Nonce         uint64
	NonceSet      bool
	ForceLegacy   bool

	// Keystore is the path of the JSON keystore acting as the wallet
	// provider. Empty means no provider is available.
	Keystore string

	// TimeoutSeconds bounds one revocation attempt; 0 keeps the default.
	TimeoutSeconds uint64
)

const moralisAPIKeyVar = "MORALIS_API_KEY"

// LoadEnv pulls a .env file into the environment if one is present.
// Missing .env is fine; explicit env vars always win.
func LoadEnv() {
	godotenv.Load()
}

// MoralisAPIKey returns the API key for the wallet data API, or "" when the
// user hasn't configured one.
func MoralisAPIKey() string {
	return strings.Trim(os.Getenv(moralisAPIKeyVar), " ")
}

// MoralisAPIKeyVar names the env var so error messages can tell the user
// exactly what to set.
func MoralisAPIKeyVar() string {
	return moralisAPIKeyVar
}
