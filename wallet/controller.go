package wallet

import (
	"context"
	"errors"
	"sync"

	"github.com/tranvictor/revoker/ui"
)

var (
	// ErrProviderUnavailable means no wallet provider is configured at all.
	// Every wallet-dependent action fails on it; the remedy is user-side
	// (point revoker at a keystore), so it is never retried automatically.
	ErrProviderUnavailable = errors.New("no wallet provider available")

	// ErrUserRejected means the user declined the provider's prompt. The
	// action simply does not proceed.
	ErrUserRejected = errors.New("user rejected the wallet request")
)

// Controller drives the wallet session lifecycle. There is one session per
// process, created Disconnected; nothing reconnects across runs.
type Controller struct {
	mu       sync.Mutex
	provider Provider
	ui       ui.UI
	session  Session
}

func NewController(provider Provider, u ui.UI) *Controller {
	return &Controller{provider: provider, ui: u}
}

// Connect establishes the session. Calling it while already Connected
// returns the existing session without prompting again. Any provider
// failure (including rejection) leaves the session Disconnected.
func (c *Controller) Connect(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.state == Connected {
		return &c.session, nil
	}
	if c.provider == nil {
		return nil, ErrProviderUnavailable
	}

	c.session.state = Connecting
	address, signer, err := c.provider.RequestAccount(ctx, c.ui)
	if err != nil {
		c.session.reset()
		return nil, err
	}

	c.session.state = Connected
	c.session.address = address
	c.session.signer = signer
	return &c.session, nil
}

// CurrentSession returns the session in whatever state it is in.
func (c *Controller) CurrentSession() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &c.session
}

// Disconnect resets the session to Disconnected and drops the signing
// capability.
func (c *Controller) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.reset()
}
