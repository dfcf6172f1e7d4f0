// Package notifications lets any number of local callers wait for a block
// and lets the exchange tell them when it arrives, becomes unwanted, or when
// a peer reports that it has or does not have it.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/adlrocha/go-bitswap/wantlist"

	pubsub "github.com/cskr/pubsub"
	blocks "github.com/ipfs/go-block-format"
	cid "github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log"
	peer "github.com/libp2p/go-libp2p-core/peer"
)

var log = logging.Logger("bitswap/notifications")

const bufferSize = 16

// allPresences is the topic every HAVE / DONT_HAVE is published on.
const allPresences = "presence/*"

var (
	// ErrUnwanted is returned to waiters of a block that was unwanted
	// before it arrived.
	ErrUnwanted = errors.New("block was unwanted")
	// ErrAborted is returned to a waiter whose context ended before the
	// block arrived.
	ErrAborted = errors.New("want aborted")
	// ErrShutdown is returned to waiters still pending on Shutdown.
	ErrShutdown = errors.New("notifications shut down")
)

// abortError is ErrAborted carrying the error of the context that ended
// the want.
type abortError struct {
	err error
}

// Aborted returns an error that matches both ErrAborted and ctxErr.
func Aborted(ctxErr error) error {
	return &abortError{err: ctxErr}
}

func (e *abortError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAborted, e.err)
}

func (e *abortError) Is(target error) bool {
	return target == ErrAborted
}

func (e *abortError) Unwrap() error {
	return e.err
}

// Presence is a peer's claim that it has, or does not have, a block.
type Presence struct {
	Cid  cid.Cid
	Peer peer.ID
	Have bool
}

type result struct {
	block blocks.Block
	from  peer.ID
	err   error
}

// Notifications is a registry of waiters keyed by multihash, so CIDs that
// only differ in codec are satisfied by the same block.
type Notifications struct {
	lk      sync.Mutex
	waiters map[string]map[*Subscription]struct{}
	closed  bool

	presences *pubsub.PubSub
}

// New returns an empty registry.
func New() *Notifications {
	return &Notifications{
		waiters:   make(map[string]map[*Subscription]struct{}),
		presences: pubsub.New(bufferSize),
	}
}

// Subscription is a single pending wait for a block. It is registered as
// soon as it is created, so a block arriving before Wait is called is not
// missed.
type Subscription struct {
	n   *Notifications
	key string
	c   cid.Cid
	out chan result
}

// Subscribe registers a waiter for c.
func (n *Notifications) Subscribe(c cid.Cid) *Subscription {
	s := &Subscription{
		n:   n,
		key: wantlist.KeyOf(c),
		c:   c,
		out: make(chan result, 1),
	}

	n.lk.Lock()
	defer n.lk.Unlock()

	if n.closed {
		s.out <- result{err: ErrShutdown}
		return s
	}

	ws, ok := n.waiters[s.key]
	if !ok {
		ws = make(map[*Subscription]struct{})
		n.waiters[s.key] = ws
	}
	ws[s] = struct{}{}
	return s
}

// Wait blocks until the block arrives, the want is cancelled with
// UnwantBlock, or ctx is done. It must be called at most once.
func (s *Subscription) Wait(ctx context.Context) (blocks.Block, error) {
	select {
	case r := <-s.out:
		return r.block, r.err
	case <-ctx.Done():
		s.Cancel()
		return nil, Aborted(ctx.Err())
	}
}

// Cancel removes the waiter from the registry. It is safe to call at any
// time and more than once.
func (s *Subscription) Cancel() {
	s.n.lk.Lock()
	defer s.n.lk.Unlock()
	s.n.removeLocked(s)
}

func (n *Notifications) removeLocked(s *Subscription) {
	ws, ok := n.waiters[s.key]
	if !ok {
		return
	}
	delete(ws, s)
	if len(ws) == 0 {
		delete(n.waiters, s.key)
	}
}

// WantBlock waits for the block identified by c. It returns ErrUnwanted if
// the block is unwanted first and ErrAborted if ctx ends first.
func (n *Notifications) WantBlock(ctx context.Context, c cid.Cid) (blocks.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, Aborted(err)
	}
	s := n.Subscribe(c)
	defer s.Cancel()
	return s.Wait(ctx)
}

// ReceivedBlock resolves every waiter for the block's multihash.
func (n *Notifications) ReceivedBlock(from peer.ID, blk blocks.Block) {
	n.resolve(wantlist.KeyOf(blk.Cid()), result{block: blk, from: from})
}

// UnwantBlock rejects every waiter for c with ErrUnwanted.
func (n *Notifications) UnwantBlock(c cid.Cid) {
	n.resolve(wantlist.KeyOf(c), result{err: ErrUnwanted})
}

func (n *Notifications) resolve(key string, r result) {
	n.lk.Lock()
	defer n.lk.Unlock()

	ws, ok := n.waiters[key]
	if !ok {
		return
	}
	delete(n.waiters, key)
	for s := range ws {
		// out has room for exactly one result and a waiter is only ever
		// resolved once, while it is still registered.
		s.out <- r
	}
	log.Debugw("resolved waiters", "waiters", len(ws), "unwanted", r.err != nil)
}

// HaveBlock publishes that p has the block c.
func (n *Notifications) HaveBlock(c cid.Cid, p peer.ID) {
	n.publishPresence(Presence{Cid: c, Peer: p, Have: true})
}

// DoNotHaveBlock publishes that p does not have the block c.
func (n *Notifications) DoNotHaveBlock(c cid.Cid, p peer.ID) {
	n.publishPresence(Presence{Cid: c, Peer: p, Have: false})
}

func (n *Notifications) publishPresence(p Presence) {
	n.lk.Lock()
	defer n.lk.Unlock()
	if n.closed {
		return
	}
	n.presences.TryPub(p, presenceTopic(p.Cid), allPresences)
}

// SubscribePresence returns a channel of HAVE / DONT_HAVE reports for the
// given blocks. The channel is closed when ctx is done or on Shutdown.
// Reports are dropped when the subscriber falls behind.
func (n *Notifications) SubscribePresence(ctx context.Context, keys ...cid.Cid) <-chan Presence {
	topics := make([]string, 0, len(keys))
	for _, c := range keys {
		topics = append(topics, presenceTopic(c))
	}
	return n.subscribePresence(ctx, topics)
}

// SubscribeAllPresences returns a channel of every HAVE / DONT_HAVE report.
func (n *Notifications) SubscribeAllPresences(ctx context.Context) <-chan Presence {
	return n.subscribePresence(ctx, []string{allPresences})
}

func (n *Notifications) subscribePresence(ctx context.Context, topics []string) <-chan Presence {
	out := make(chan Presence)

	n.lk.Lock()
	if n.closed || len(topics) == 0 {
		n.lk.Unlock()
		close(out)
		return out
	}
	in := n.presences.Sub(topics...)
	n.lk.Unlock()

	go func() {
		defer close(out)
		for {
			select {
			case v, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- v.(Presence):
				case <-ctx.Done():
					n.unsub(in)
					return
				}
			case <-ctx.Done():
				n.unsub(in)
				return
			}
		}
	}()
	return out
}

func (n *Notifications) unsub(ch chan interface{}) {
	n.lk.Lock()
	defer n.lk.Unlock()
	if n.closed {
		return
	}
	n.presences.Unsub(ch)
}

// Shutdown rejects every pending waiter with ErrShutdown and closes every
// presence subscription.
func (n *Notifications) Shutdown() {
	n.lk.Lock()
	defer n.lk.Unlock()
	if n.closed {
		return
	}
	n.closed = true

	for key, ws := range n.waiters {
		for s := range ws {
			s.out <- result{err: ErrShutdown}
		}
		delete(n.waiters, key)
	}
	n.presences.Shutdown()
}

func (n *Notifications) waiting(c cid.Cid) int {
	n.lk.Lock()
	defer n.lk.Unlock()
	return len(n.waiters[wantlist.KeyOf(c)])
}

func presenceTopic(c cid.Cid) string {
	return "presence/" + wantlist.KeyOf(c)
}
