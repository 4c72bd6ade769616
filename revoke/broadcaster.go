package revoke

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/tranvictor/revoker/common"
)

// Broadcaster pushes a signed tx to all nodes it manages as fast as
// possible. Submission succeeds as soon as at least one node accepted the
// tx; only when every node rejects it do the errors surface.
type Broadcaster struct {
	clients map[string]*rpc.Client
}

// NewBroadcaster dials every node in the map. Unreachable nodes are logged
// and skipped rather than failing construction: one live node is enough.
func NewBroadcaster(nodes map[string]string) *Broadcaster {
	clients := map[string]*rpc.Client{}
	for name, url := range nodes {
		client, err := rpc.Dial(url)
		if err != nil {
			log.Printf("couldn't connect to %s (%s): %v", name, url, err)
		} else {
			clients[name] = client
		}
	}
	return &Broadcaster{clients: clients}
}

func (b *Broadcaster) broadcast(ctx context.Context, client *rpc.Client, data string) error {
	return client.CallContext(ctx, nil, "eth_sendRawTransaction", data)
}

// Submit implements Submitter: encode, fan out in parallel, report the tx
// hash once any node took it.
func (b *Broadcaster) Submit(ctx context.Context, tx *types.Transaction) (string, error) {
	if len(b.clients) == 0 {
		return "", fmt.Errorf("no nodes to broadcast to")
	}
	encoded, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("tx is not valid, couldn't encode it: %w", err)
	}
	data := hexutil.Encode(encoded)

	timeout, cancel := context.WithTimeout(ctx, 4*time.Second)
	defer cancel()

	parallelTasks := []func() error{}
	for id := range b.clients {
		cli := b.clients[id]
		parallelTasks = append(parallelTasks, func() error {
			return b.broadcast(timeout, cli, data)
		})
	}
	err, numErrs := common.RunParallel(parallelTasks...)
	if numErrs == len(b.clients) {
		return "", err
	}
	return common.RawTxToHash(data), nil
}
