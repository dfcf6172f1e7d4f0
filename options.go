package bitswap

import (
	"fmt"

	"github.com/adlrocha/go-bitswap/internal/decision"

	delay "github.com/ipfs/go-ipfs-delay"
)

// Option defines the functional option type that can be used to configure
// bitswap instances
type Option func(*Bitswap)

// EngineBlockstoreWorkerCount sets the number of worker threads used for
// blockstore operations in the decision engine
func EngineBlockstoreWorkerCount(count int) Option {
	if count <= 0 {
		panic(fmt.Sprintf("Engine blockstore worker count is %d but must be > 0", count))
	}
	return func(bs *Bitswap) {
		bs.engineOpts = append(bs.engineOpts, decision.WithBlockstoreWorkerCount(count))
	}
}

// EngineTaskWorkerCount sets the number of worker threads building outgoing
// messages in the decision engine
func EngineTaskWorkerCount(count int) Option {
	if count <= 0 {
		panic(fmt.Sprintf("Engine task worker count is %d but must be > 0", count))
	}
	return func(bs *Bitswap) {
		bs.engineOpts = append(bs.engineOpts, decision.WithTaskWorkerCount(count))
	}
}

// TaskWorkerCount sets the number of worker threads sending outgoing messages
func TaskWorkerCount(count int) Option {
	if count <= 0 {
		panic(fmt.Sprintf("Task worker count is %d but must be > 0", count))
	}
	return func(bs *Bitswap) {
		bs.taskWorkerCount = count
	}
}

// MaxOutgoingMessageSize sets the amount of block data the engine batches
// into one message
func MaxOutgoingMessageSize(size int) Option {
	return func(bs *Bitswap) {
		bs.engineOpts = append(bs.engineOpts, decision.WithTargetMessageSize(size))
	}
}

// RebroadcastDelay sets the time between two broadcasts of the full wantlist
func RebroadcastDelay(newRebroadcastDelay delay.D) Option {
	return func(bs *Bitswap) {
		bs.rebroadcastDelay = newRebroadcastDelay
	}
}

// SetSendDontHaves indicates what to do when the engine receives a want-block
// for a block that is not in the blockstore: send a DONT_HAVE or stay silent
func SetSendDontHaves(send bool) Option {
	return func(bs *Bitswap) {
		bs.engineOpts = append(bs.engineOpts, decision.WithSendDontHaves(send))
	}
}

// WithDebtRatio sets the function computing the value of a peer ledger
func WithDebtRatio(f decision.DebtRatioFunc) Option {
	return func(bs *Bitswap) {
		bs.engineOpts = append(bs.engineOpts, decision.WithDebtRatio(f))
	}
}

// WithPeerBlockRegistry turns on or off the tracking of which peers have
// which blocks. When off, want-blocks are sent to every peer.
func WithPeerBlockRegistry(enabled bool) Option {
	return func(bs *Bitswap) {
		bs.pbrEnabled = enabled
	}
}

// MaxReplaceHasWithBlockSize sets the size up to which a want-have is
// answered with the block itself
func MaxReplaceHasWithBlockSize(size int) Option {
	return func(bs *Bitswap) {
		bs.engineOpts = append(bs.engineOpts, decision.WithMaxReplaceHasWithBlockSize(size))
	}
}
