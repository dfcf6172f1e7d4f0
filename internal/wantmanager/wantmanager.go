// Package wantmanager keeps the local wantlist and tells connected peers
// about it: it sends wants when a block is asked for, cancels once it is
// no longer wanted, and the full wantlist to new and, periodically, to all
// peers.
package wantmanager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pbr "github.com/adlrocha/go-bitswap/internal/peerblockregistry"
	bsmsg "github.com/adlrocha/go-bitswap/message"
	pb "github.com/adlrocha/go-bitswap/message/pb"
	"github.com/adlrocha/go-bitswap/notifications"
	"github.com/adlrocha/go-bitswap/tracing"
	wl "github.com/adlrocha/go-bitswap/wantlist"

	blocks "github.com/ipfs/go-block-format"
	cid "github.com/ipfs/go-cid"
	delay "github.com/ipfs/go-ipfs-delay"
	logging "github.com/ipfs/go-log"
	peer "github.com/libp2p/go-libp2p-core/peer"
	mh "github.com/multiformats/go-multihash"
	"go.opencensus.io/trace"
)

var log = logging.Logger("bitswap/wantmanager")

const (
	// defaultPriority is given to wants that don't set one
	defaultPriority = 1
	// defaultRebroadcastDelay is the time between two full wantlist broadcasts
	defaultRebroadcastDelay = time.Minute
)

// ErrHashMismatch is returned when a block's data does not hash to the
// multihash of its CID.
var ErrHashMismatch = errors.New("data did not match given hash")

// PeerQueue provides a queue of messages to be sent for a single peer.
type PeerQueue interface {
	AddMessage(m *pb.Message)
	AddWants(priority int32, wantBlocks []cid.Cid, wantHaves []cid.Cid)
	AddCancels(cancelKs []cid.Cid)
	Startup()
	Shutdown()
}

// PeerQueueFactory provides a function that will create a PeerQueue.
type PeerQueueFactory func(ctx context.Context, p peer.ID) PeerQueue

// WantOptions qualify a single want.
type WantOptions struct {
	// Session, when not empty, restricts the peers the want is sent to.
	Session []peer.ID
	// Priority of the want. Zero means the default priority.
	Priority int32
	// WantType is the type of want sent to peers not known to have the
	// block. Defaults to want-block.
	WantType pb.Message_Wantlist_WantType
}

// wantState is the bookkeeping of one local want.
type wantState struct {
	refs int
	// callers that may ask any peer
	unscoped int
	// session peers of the scoped callers, counted per caller
	sessionPeers map[peer.ID]int
	// peers we sent the want to, and whether it was a want-block
	sentTo map[peer.ID]bool
}

func newWantState() *wantState {
	return &wantState{
		sessionPeers: make(map[peer.ID]int),
		sentTo:       make(map[peer.ID]bool),
	}
}

func (ws *wantState) add(session []peer.ID) {
	ws.refs++
	if len(session) == 0 {
		ws.unscoped++
		return
	}
	for _, p := range session {
		ws.sessionPeers[p]++
	}
}

func (ws *wantState) remove(session []peer.ID) {
	ws.refs--
	if len(session) == 0 {
		ws.unscoped--
		return
	}
	for _, p := range session {
		ws.sessionPeers[p]--
		if ws.sessionPeers[p] <= 0 {
			delete(ws.sessionPeers, p)
		}
	}
}

// allows reports whether some caller still waiting may ask p.
func (ws *wantState) allows(p peer.ID) bool {
	return ws.unscoped > 0 || ws.sessionPeers[p] > 0
}

func (ws *wantState) sessionSet() wl.PeerSet {
	ps := make(wl.PeerSet, len(ws.sessionPeers))
	for p := range ws.sessionPeers {
		ps[p] = struct{}{}
	}
	return ps
}

// WantManager manages the local wantlist and the peer queues the wants
// are sent through.
type WantManager struct {
	ctx              context.Context
	peerQueueFactory PeerQueueFactory
	notif            *notifications.Notifications
	providers        pbr.PeerBlockRegistry
	rebroadcastDelay delay.D

	lk         sync.Mutex
	wantlist   *wl.Wantlist
	wants      map[string]*wantState
	peerQueues map[peer.ID]PeerQueue
}

// New initializes a new WantManager.
func New(ctx context.Context, peerQueueFactory PeerQueueFactory, notif *notifications.Notifications,
	providers pbr.PeerBlockRegistry, rebroadcastDelay delay.D) *WantManager {
	if rebroadcastDelay == nil {
		rebroadcastDelay = delay.Fixed(defaultRebroadcastDelay)
	}
	return &WantManager{
		ctx:              ctx,
		peerQueueFactory: peerQueueFactory,
		notif:            notif,
		providers:        providers,
		rebroadcastDelay: rebroadcastDelay,
		wantlist:         wl.New(),
		wants:            make(map[string]*wantState),
		peerQueues:       make(map[peer.ID]PeerQueue),
	}
}

// Startup starts the periodic full wantlist broadcast.
func (wm *WantManager) Startup() {
	go wm.rebroadcastWorker()
}

// ValidateBlock checks that the data of blk hashes to c's multihash.
func ValidateBlock(c cid.Cid, blk blocks.Block) error {
	dmh, err := mh.Decode(c.Hash())
	if err != nil {
		return fmt.Errorf("invalid multihash in %s: %w", c, err)
	}
	sum, err := mh.Sum(blk.RawData(), dmh.Code, dmh.Length)
	if err != nil {
		return err
	}
	if string(sum) != string(c.Hash()) {
		return fmt.Errorf("%w: %s", ErrHashMismatch, c)
	}
	return nil
}

// Want adds c to the local wantlist, sends the want to the target peers and
// waits for the block. The want is removed, and cancels are sent, once the
// block arrives, the want is unwanted or ctx is done.
func (wm *WantManager) Want(ctx context.Context, c cid.Cid, opts WantOptions) (blocks.Block, error) {
	ctx, span := tracing.StartSpan(ctx, "WantManager.Want")
	defer span.End()
	span.AddAttributes(trace.StringAttribute("cid", c.String()),
		trace.Int64Attribute("sessionPeers", int64(len(opts.Session))))

	if err := ctx.Err(); err != nil {
		return nil, notifications.Aborted(err)
	}

	// Subscribe before sending so a fast answer is not missed
	sub := wm.notif.Subscribe(c)
	defer sub.Cancel()

	wm.addWant(c, opts)
	defer wm.removeWant(c, opts.Session)

	blk, err := sub.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if err := ValidateBlock(c, blk); err != nil {
		return nil, err
	}
	return blk, nil
}

// Unwant rejects every local waiter for c.
func (wm *WantManager) Unwant(c cid.Cid) {
	wm.notif.UnwantBlock(c)
}

func (wm *WantManager) addWant(c cid.Cid, opts WantOptions) {
	priority := opts.Priority
	if priority == 0 {
		priority = defaultPriority
	}

	wm.lk.Lock()
	defer wm.lk.Unlock()

	k := wl.KeyOf(c)
	ws, ok := wm.wants[k]
	if !ok {
		ws = newWantState()
		wm.wants[k] = ws
	}
	ws.add(opts.Session)
	wm.wantlist.Add(c, priority, pb.Message_Wantlist_Block)
	wm.wantlist.AddSession(c, opts.Session...)

	targets := wm.targetsLocked(opts.Session)
	if len(targets) == 0 {
		log.Debugf("no peers to send want for %s to", c)
		return
	}

	// Peers known to have the block get a want-block, the rest a
	// want-have, unless none of the targets is known to have it.
	candidates := make(map[peer.ID]struct{})
	for _, p := range wm.providers.GetCandidates(c) {
		candidates[p] = struct{}{}
	}
	wantType := opts.WantType
	anyCandidate := false
	for _, p := range targets {
		if _, ok := candidates[p]; ok {
			anyCandidate = true
			break
		}
	}

	for _, p := range targets {
		_, isCandidate := candidates[p]
		asBlock := wantType == pb.Message_Wantlist_Block && (isCandidate || !anyCandidate)
		if sentBlock, sent := ws.sentTo[p]; sent && (sentBlock || !asBlock) {
			continue
		}
		ws.sentTo[p] = asBlock
		if asBlock {
			wm.peerQueues[p].AddWants(priority, []cid.Cid{c}, nil)
		} else {
			wm.peerQueues[p].AddWants(priority, nil, []cid.Cid{c})
		}
	}
}

// targetsLocked returns the connected peers among session, or every
// connected peer for an empty session.
func (wm *WantManager) targetsLocked(session []peer.ID) []peer.ID {
	if len(session) == 0 {
		targets := make([]peer.ID, 0, len(wm.peerQueues))
		for p := range wm.peerQueues {
			targets = append(targets, p)
		}
		return targets
	}
	targets := make([]peer.ID, 0, len(session))
	for _, p := range session {
		if _, ok := wm.peerQueues[p]; ok {
			targets = append(targets, p)
		}
	}
	return targets
}

// removeWant releases the interest of one caller in c. Peers no remaining
// caller may ask are sent a cancel.
func (wm *WantManager) removeWant(c cid.Cid, session []peer.ID) {
	wm.lk.Lock()
	defer wm.lk.Unlock()

	k := wl.KeyOf(c)
	ws, ok := wm.wants[k]
	if !ok {
		return
	}
	ws.remove(session)
	if ws.refs <= 0 {
		delete(wm.wants, k)
		wm.wantlist.Remove(c)
	} else if e, ok := wm.wantlist.Contains(c); ok {
		e.Session = ws.sessionSet()
		wm.wantlist.Set(e)
	}

	for p := range ws.sentTo {
		if ws.refs > 0 && ws.allows(p) {
			continue
		}
		delete(ws.sentTo, p)
		if pq, ok := wm.peerQueues[p]; ok {
			pq.AddCancels([]cid.Cid{c})
		}
	}
}

// ReceiveFrom records what a peer sent us: the blocks and HAVEs make it a
// provider of those blocks, a DONT_HAVE drops it. Blocks and presences are
// published to the local waiters, and a HAVE for a block still wanted is
// followed by a want-block.
func (wm *WantManager) ReceiveFrom(from peer.ID, blks []blocks.Block, haves []cid.Cid, dontHaves []cid.Cid) {
	for _, blk := range blks {
		if err := wm.providers.UpdateRegistry(from, blk.Cid()); err != nil {
			log.Errorf("failed to record %s as provider of %s: %s", from, blk.Cid(), err)
		}
	}
	for _, c := range haves {
		if err := wm.providers.UpdateRegistry(from, c); err != nil {
			log.Errorf("failed to record %s as provider of %s: %s", from, c, err)
		}
	}
	for _, c := range dontHaves {
		wm.providers.Remove(from, c)
	}

	wm.followUpHaves(from, haves)

	for _, blk := range blks {
		wm.notif.ReceivedBlock(from, blk)
	}
	for _, c := range haves {
		wm.notif.HaveBlock(c, from)
	}
	for _, c := range dontHaves {
		wm.notif.DoNotHaveBlock(c, from)
	}
}

func (wm *WantManager) followUpHaves(from peer.ID, haves []cid.Cid) {
	wm.lk.Lock()
	defer wm.lk.Unlock()

	pq, ok := wm.peerQueues[from]
	if !ok {
		return
	}
	var wantBlocks []cid.Cid
	priority := int32(defaultPriority)
	for _, c := range haves {
		ws, ok := wm.wants[wl.KeyOf(c)]
		if !ok || ws.sentTo[from] || !ws.allows(from) {
			continue
		}
		e, ok := wm.wantlist.Contains(c)
		if !ok {
			continue
		}
		ws.sentTo[from] = true
		wantBlocks = append(wantBlocks, c)
		if e.Priority > priority {
			priority = e.Priority
		}
	}
	if len(wantBlocks) == 0 {
		return
	}
	pq.AddWants(priority, wantBlocks, nil)
}

// PeerConnected sets up a queue for p and sends it the full wantlist.
func (wm *WantManager) PeerConnected(p peer.ID) {
	wm.lk.Lock()
	defer wm.lk.Unlock()

	pq, ok := wm.peerQueues[p]
	if ok {
		return
	}
	pq = wm.peerQueueFactory(wm.ctx, p)
	pq.Startup()
	wm.peerQueues[p] = pq
	wm.sendFullWantlistLocked(p, pq)
}

// PeerDisconnected tears down the queue of p and forgets what it provides.
func (wm *WantManager) PeerDisconnected(p peer.ID) {
	wm.lk.Lock()
	pq, ok := wm.peerQueues[p]
	if ok {
		pq.Shutdown()
		delete(wm.peerQueues, p)
	}
	for _, ws := range wm.wants {
		delete(ws.sentTo, p)
	}
	wm.lk.Unlock()

	wm.providers.RemovePeer(p)
}

// ConnectedPeers returns the peers with a queue.
func (wm *WantManager) ConnectedPeers() []peer.ID {
	wm.lk.Lock()
	defer wm.lk.Unlock()

	peers := make([]peer.ID, 0, len(wm.peerQueues))
	for p := range wm.peerQueues {
		peers = append(peers, p)
	}
	return peers
}

// Wantlist returns the local wantlist, highest priority first.
func (wm *WantManager) Wantlist() []wl.Entry {
	wm.lk.Lock()
	defer wm.lk.Unlock()
	return append([]wl.Entry(nil), wm.wantlist.Entries()...)
}

// sendFullWantlistLocked queues the wants p may be asked for as a full
// wantlist. Nothing is sent when there are none.
func (wm *WantManager) sendFullWantlistLocked(p peer.ID, pq PeerQueue) {
	msg := bsmsg.New(true)
	for _, e := range wm.wantlist.Entries() {
		ws := wm.wants[wl.KeyOf(e.Cid)]
		if !ws.allows(p) {
			continue
		}
		wantType := pb.Message_Wantlist_Have
		if sentBlock, sent := ws.sentTo[p]; sent && sentBlock {
			wantType = pb.Message_Wantlist_Block
		} else if !sent {
			ws.sentTo[p] = false
		}
		msg.AddEntry(e.Cid, e.Priority, wantType, true)
	}
	if msg.Empty() {
		return
	}
	pq.AddMessage(msg.ToProtoV1())
}

func (wm *WantManager) rebroadcastWorker() {
	t := time.NewTimer(wm.rebroadcastDelay.Get())
	defer t.Stop()

	for {
		select {
		case <-wm.ctx.Done():
			return
		case <-t.C:
			wm.rebroadcast()
			t.Reset(wm.rebroadcastDelay.Get())
		}
	}
}

func (wm *WantManager) rebroadcast() {
	wm.lk.Lock()
	defer wm.lk.Unlock()

	if wm.wantlist.Len() == 0 {
		return
	}
	log.Debugw("rebroadcasting wantlist", "wants", wm.wantlist.Len(), "peers", len(wm.peerQueues))
	for p, pq := range wm.peerQueues {
		wm.sendFullWantlistLocked(p, pq)
	}
}
