package ui

import (
	"github.com/atotto/clipboard"

	"github.com/tranvictor/revoker/common"
)

// CopyAddress puts an address on the system clipboard and tells the user,
// showing the shortened form so the confirmation line stays compact.
// Clipboard access failing (headless box, no X selection) is only a warning:
// the full address is printed instead so it can be copied manually.
func CopyAddress(u UI, address string) {
	if err := clipboard.WriteAll(address); err != nil {
		u.Warn("couldn't access clipboard: %s", err)
		u.Info("%s", address)
		return
	}
	u.Success("Copied %s to clipboard", common.ShortenAddress(address))
}
