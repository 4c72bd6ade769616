// Package networks declares the chains revoker can talk to. The tool is
// deliberately single-chain for now; the Network interface stays so adding a
// chain later is one new file, not a refactor.
package networks

// CurrentNetwork returns the network every command operates on.
func CurrentNetwork() Network {
	return EthereumMainnet
}
