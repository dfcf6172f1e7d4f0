// Package session scopes wants to a mutable set of peers.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/adlrocha/go-bitswap/internal/getter"
	"github.com/adlrocha/go-bitswap/internal/wantmanager"
	"github.com/adlrocha/go-bitswap/tracing"
	wl "github.com/adlrocha/go-bitswap/wantlist"

	blocks "github.com/ipfs/go-block-format"
	cid "github.com/ipfs/go-cid"
	exchange "github.com/ipfs/go-ipfs-exchange-interface"
	logging "github.com/ipfs/go-log"
	peer "github.com/libp2p/go-libp2p-core/peer"
	"go.opencensus.io/trace"
)

var log = logging.Logger("bitswap/session")

// ErrNoSessionPeers is returned by a want on a session without peers.
var ErrNoSessionPeers = errors.New("session has no peers")

var _ exchange.Fetcher = (*Session)(nil)

// WantManager sends wants and waits for the blocks.
type WantManager interface {
	Want(ctx context.Context, c cid.Cid, opts wantmanager.WantOptions) (blocks.Block, error)
}

// Session fetches blocks only from its peers. Peers can be added and
// removed at any time; every want uses the peers of the moment.
type Session struct {
	ctx context.Context
	id  uint64
	wm  WantManager

	lk    sync.RWMutex
	peers wl.PeerSet
}

// New creates a session with the given initial peers.
func New(ctx context.Context, id uint64, wm WantManager, peers ...peer.ID) *Session {
	return &Session{
		ctx:   ctx,
		id:    id,
		wm:    wm,
		peers: wl.NewPeerSet(peers...),
	}
}

// ID returns the session identifier.
func (s *Session) ID() uint64 {
	return s.id
}

// AddPeer adds p to the session.
func (s *Session) AddPeer(p peer.ID) {
	s.lk.Lock()
	defer s.lk.Unlock()
	s.peers[p] = struct{}{}
}

// RemovePeer removes p from the session.
func (s *Session) RemovePeer(p peer.ID) {
	s.lk.Lock()
	defer s.lk.Unlock()
	delete(s.peers, p)
}

// HasPeer reports whether p is part of the session.
func (s *Session) HasPeer(p peer.ID) bool {
	s.lk.RLock()
	defer s.lk.RUnlock()
	return s.peers.Has(p)
}

// Peers returns the current peers of the session.
func (s *Session) Peers() []peer.ID {
	s.lk.RLock()
	defer s.lk.RUnlock()
	return s.peers.Peers()
}

// Want asks the session peers for c and waits for the block.
func (s *Session) Want(ctx context.Context, c cid.Cid) (blocks.Block, error) {
	ctx, span := tracing.StartSpan(ctx, "Session.Want")
	defer span.End()
	span.AddAttributes(trace.Int64Attribute("session", int64(s.id)),
		trace.StringAttribute("cid", c.String()))

	peers := s.Peers()
	if len(peers) == 0 {
		span.SetStatus(trace.Status{Code: trace.StatusCodeFailedPrecondition, Message: ErrNoSessionPeers.Error()})
		return nil, fmt.Errorf("%w: session %d", ErrNoSessionPeers, s.id)
	}
	log.Debugw("session want", "session", s.id, "cid", c, "peers", len(peers))
	return s.wm.Want(ctx, c, wantmanager.WantOptions{Session: peers})
}

// GetBlock fetches a single block from the session peers.
func (s *Session) GetBlock(parent context.Context, k cid.Cid) (blocks.Block, error) {
	return getter.SyncGetBlock(parent, s.ctx, k, s.Want)
}

// GetBlocks fetches a set of blocks from the session peers. Blocks are
// delivered on the returned channel as they arrive; it is closed once every
// block arrived or ctx is done.
func (s *Session) GetBlocks(ctx context.Context, keys []cid.Cid) (<-chan blocks.Block, error) {
	if len(s.Peers()) == 0 {
		return nil, fmt.Errorf("%w: session %d", ErrNoSessionPeers, s.id)
	}
	return getter.AsyncGetBlocks(ctx, s.ctx, keys, s.Want), nil
}
