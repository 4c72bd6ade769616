package wallet

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// State is the wallet session lifecycle position.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Session is the authenticated signing context. Address and signer are only
// present while Connected. The signer is owned exclusively by the session:
// callers sign through SignTx and never extract the capability itself.
type Session struct {
	state   State
	address common.Address
	signer  Signer
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Connected() bool {
	return s.state == Connected
}

// Address returns the authorized wallet address; the zero address while not
// Connected.
func (s *Session) Address() common.Address {
	if s.state != Connected {
		return common.Address{}
	}
	return s.address
}

// SignTx signs tx with the session's capability.
func (s *Session) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if s.state != Connected || s.signer == nil {
		return nil, fmt.Errorf("session is %s, nothing can sign", s.state)
	}
	signed, err := s.signer.SignTx(tx, chainID)
	if err != nil {
		return nil, fmt.Errorf("signing failed: %w", err)
	}
	return signed, nil
}

func (s *Session) reset() {
	s.state = Disconnected
	s.address = common.Address{}
	s.signer = nil
}
