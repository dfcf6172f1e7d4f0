// Package decision implements the decision engine for the bitswap service:
// the per-peer ledgers and the registry that routes messages to them.
package decision

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	pbr "github.com/adlrocha/go-bitswap/internal/peerblockregistry"
	bsmsg "github.com/adlrocha/go-bitswap/message"
	pb "github.com/adlrocha/go-bitswap/message/pb"
	"github.com/adlrocha/go-bitswap/tracing"
	wl "github.com/adlrocha/go-bitswap/wantlist"

	blocks "github.com/ipfs/go-block-format"
	cid "github.com/ipfs/go-cid"
	bstore "github.com/ipfs/go-ipfs-blockstore"
	logging "github.com/ipfs/go-log"
	"github.com/ipfs/go-peertaskqueue"
	"github.com/ipfs/go-peertaskqueue/peertask"
	process "github.com/jbenet/goprocess"
	peer "github.com/libp2p/go-libp2p-core/peer"
	"go.opencensus.io/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var log = logging.Logger("engine")

var logger = log.Desugar()

const (
	// outboxChanBuffer must be 0 to prevent stale messages from being sent
	outboxChanBuffer = 0
	// targetMessageSize is the ideal size of the batched payload. We try to
	// pop this much data off the request queue, but it may be a little more
	// or less depending on what's in the queue.
	targetMessageSize = 16 * 1024
	// tagFormat is the tag given to peers associated an engine
	tagFormat = "bs-engine-%s-%s"

	// queuedTagWeight is the default weight for peers that have work queued
	// on their behalf.
	queuedTagWeight = 10

	// usefulTagWeight is the weight for peers that sent us blocks.
	usefulTagWeight = 5

	// maxBlockSizeReplaceHasWithBlock is the maximum size of the block in
	// bytes up to which we will replace a want-have with a want-block
	maxBlockSizeReplaceHasWithBlock = 1024

	// Number of concurrent workers that pull tasks off the request queue
	taskWorkerCount = 8

	// Number of concurrent workers that process requests to the blockstore
	blockstoreWorkerCount = 128
)

// Envelope contains a message for a Peer.
type Envelope struct {
	// Peer is the intended recipient.
	Peer peer.ID

	// Message is the payload.
	Message bsmsg.BitSwapMessage

	// A callback to notify the decision queue that the task is complete
	Sent func()
}

// PeerTagger covers the methods on the connection manager used by the decision
// engine to tag peers
type PeerTagger interface {
	TagPeer(peer.ID, string, int)
	UntagPeer(p peer.ID, tag string)
}

// Option configures an Engine.
type Option func(*Engine)

// WithDebtRatio replaces the function used to compute Receipt.Value.
func WithDebtRatio(f DebtRatioFunc) Option {
	return func(e *Engine) {
		e.debtRatio = f
	}
}

// WithTaskWorkerCount sets the number of workers building envelopes.
func WithTaskWorkerCount(n int) Option {
	return func(e *Engine) {
		e.taskWorkerCount = n
	}
}

// WithBlockstoreWorkerCount sets the number of workers querying the blockstore.
func WithBlockstoreWorkerCount(n int) Option {
	return func(e *Engine) {
		e.bsWorkerCount = n
	}
}

// WithMaxReplaceHasWithBlockSize sets the block size up to which a
// want-have is answered with the block itself.
func WithMaxReplaceHasWithBlockSize(n int) Option {
	return func(e *Engine) {
		e.maxBlockSizeReplaceHasWithBlock = n
	}
}

// WithTargetMessageSize sets the amount of data popped off the request
// queue for one outgoing message.
func WithTargetMessageSize(n int) Option {
	return func(e *Engine) {
		e.targetMessageSize = n
	}
}

// WithSendDontHaves sets whether DONT_HAVEs are sent. See SetSendDontHaves.
func WithSendDontHaves(send bool) Option {
	return func(e *Engine) {
		e.sendDontHaves = send
	}
}

// Engine manages the ledgers of remote peers and sends them the blocks
// they want.
type Engine struct {
	// peerRequestQueue is a priority queue of requests received from peers.
	// Requests are popped from the queue, packaged up, and placed in the
	// outbox.
	peerRequestQueue *peertaskqueue.PeerTaskQueue

	// workSignal wakes up the task workers when new tasks are pushed.
	workSignal chan struct{}

	// outbox contains outgoing messages to peers. This is owned by the
	// taskWorker goroutine
	outbox chan (<-chan *Envelope)

	bsm           *blockstoreManager
	bsWorkerCount int

	peerTagger PeerTagger

	tagQueued, tagUseful string

	lock sync.RWMutex // protects the fields immediatly below

	// ledgerMap lists block-related Ledgers by their Partner key.
	ledgerMap map[peer.ID]*ledger

	// wanters maps every wanted block to the peers whose ledger wants it.
	// It is updated while holding the lock of the ledger being changed.
	wanters *pbr.FlatRegistry

	debtRatio DebtRatioFunc

	ticker *time.Ticker

	taskWorkerLock  sync.Mutex
	taskWorkerCount int

	// maxBlockSizeReplaceHasWithBlock is the maximum size of the block in
	// bytes up to which we will replace a want-have with a want-block
	maxBlockSizeReplaceHasWithBlock int

	sendDontHaves bool

	targetMessageSize int

	self peer.ID
}

// NewEngine creates a new block sending engine for the given block store
func NewEngine(ctx context.Context, bs bstore.Blockstore, peerTagger PeerTagger, self peer.ID, opts ...Option) *Engine {
	e := &Engine{
		ledgerMap:                       make(map[peer.ID]*ledger),
		wanters:                         pbr.NewFlatRegistry(0),
		debtRatio:                       DefaultDebtRatio,
		peerTagger:                      peerTagger,
		outbox:                          make(chan (<-chan *Envelope), outboxChanBuffer),
		workSignal:                      make(chan struct{}, 1),
		ticker:                          time.NewTicker(time.Millisecond * 100),
		maxBlockSizeReplaceHasWithBlock: maxBlockSizeReplaceHasWithBlock,
		taskWorkerCount:                 taskWorkerCount,
		bsWorkerCount:                   blockstoreWorkerCount,
		sendDontHaves:                   true,
		targetMessageSize:               targetMessageSize,
		self:                            self,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.bsm = newBlockstoreManager(ctx, bs, e.bsWorkerCount)
	e.tagQueued = fmt.Sprintf(tagFormat, "queued", uuid.New().String())
	e.tagUseful = fmt.Sprintf(tagFormat, "useful", uuid.New().String())
	e.peerRequestQueue = peertaskqueue.New(
		peertaskqueue.OnPeerAddedHook(e.onPeerAdded),
		peertaskqueue.OnPeerRemovedHook(e.onPeerRemoved),
		peertaskqueue.TaskMerger(newTaskMerger()),
		peertaskqueue.IgnoreFreezing(true))
	return e
}

// SetSendDontHaves indicates what to do when the engine receives a want-block
// for a block that is not in the blockstore. Either
// - Send a DONT_HAVE message
// - Simply don't respond
// Older versions of Bitswap did not respond, so this allows us to simulate
// those older versions for testing.
func (e *Engine) SetSendDontHaves(send bool) {
	e.sendDontHaves = send
}

// StartWorkers starts up workers to handle requests from other nodes for the
// data on this node
func (e *Engine) StartWorkers(ctx context.Context, px process.Process) {
	// Start up blockstore manager
	e.bsm.start(px)

	for i := 0; i < e.taskWorkerCount; i++ {
		px.Go(func(px process.Process) {
			e.taskWorker(ctx)
		})
	}
	px.Go(func(px process.Process) {
		<-px.Closing()
		e.ticker.Stop()
	})
}

func (e *Engine) onPeerAdded(p peer.ID) {
	e.peerTagger.TagPeer(p, e.tagQueued, queuedTagWeight)
}

func (e *Engine) onPeerRemoved(p peer.ID) {
	e.peerTagger.UntagPeer(p, e.tagQueued)
}

// WantlistForPeer returns the list of keys that the given peer has asked for
func (e *Engine) WantlistForPeer(p peer.ID) []wl.Entry {
	partner := e.ledgerFor(p)
	if partner == nil {
		return nil
	}

	partner.lk.RLock()
	entries := append([]wl.Entry(nil), partner.wantList.Entries()...)
	partner.lk.RUnlock()

	wl.SortEntries(entries)

	return entries
}

// LedgerForPeer returns aggregated data communication with a given peer, or
// nil if the peer is not tracked.
func (e *Engine) LedgerForPeer(p peer.ID) *Receipt {
	l := e.ledgerFor(p)
	if l == nil {
		return nil
	}

	l.lk.RLock()
	defer l.lk.RUnlock()

	return l.receipt(e.debtRatio)
}

// Each taskWorker pulls items off the request queue up to the maximum size
// and adds them to an envelope that is passed off to the bitswap workers,
// which send the message to the network.
func (e *Engine) taskWorker(ctx context.Context) {
	defer e.taskWorkerExit()
	for {
		oneTimeUse := make(chan *Envelope, 1) // buffer to prevent blocking
		select {
		case <-ctx.Done():
			return
		case e.outbox <- oneTimeUse:
		}
		// receiver is ready for an outoing envelope. let's prepare one. first,
		// we must acquire a task from the PQ...
		envelope, err := e.nextEnvelope(ctx)
		if err != nil {
			close(oneTimeUse)
			return // ctx cancelled
		}
		oneTimeUse <- envelope // buffered. won't block
		close(oneTimeUse)
	}
}

// taskWorkerExit handles cleanup of task workers
func (e *Engine) taskWorkerExit() {
	e.taskWorkerLock.Lock()
	defer e.taskWorkerLock.Unlock()

	e.taskWorkerCount--
	if e.taskWorkerCount == 0 {
		close(e.outbox)
	}
}

// nextEnvelope runs in the taskWorker goroutine. Returns an error if the
// context is cancelled before the next Envelope can be created.
func (e *Engine) nextEnvelope(ctx context.Context) (*Envelope, error) {
	for {
		// Pop some tasks off the request queue
		p, nextTasks, pendingBytes := e.peerRequestQueue.PopTasks(e.targetMessageSize)
		for len(nextTasks) == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-e.workSignal:
				p, nextTasks, pendingBytes = e.peerRequestQueue.PopTasks(e.targetMessageSize)
			case <-e.ticker.C:
				// When a task is cancelled, the queue may be "frozen" for a
				// period of time. We periodically "thaw" the queue to make
				// sure it doesn't get stuck in a frozen state.
				e.peerRequestQueue.ThawRound()
				p, nextTasks, pendingBytes = e.peerRequestQueue.PopTasks(e.targetMessageSize)
			}
		}

		// The peer went away while its tasks were queued.
		if e.ledgerFor(p) == nil {
			e.peerRequestQueue.TasksDone(p, nextTasks...)
			continue
		}

		// Create a new message
		msg := bsmsg.New(false)

		log.Debugw("Bitswap process tasks", "local", e.self, "taskCount", len(nextTasks))

		// Amount of data in the request queue still waiting to be popped
		msg.SetPendingBytes(int32(pendingBytes))

		// Split out want-blocks, want-haves and DONT_HAVEs
		blockCids := make([]cid.Cid, 0, len(nextTasks))
		blockTasks := make(map[cid.Cid]*taskData, len(nextTasks))
		for _, t := range nextTasks {
			td := t.Data.(*taskData)
			if td.HaveBlock {
				if td.IsWantBlock {
					blockCids = append(blockCids, td.Cid)
					blockTasks[td.Cid] = td
				} else {
					// Add HAVES to the message
					msg.AddHave(td.Cid)
				}
			} else {
				// Add DONT_HAVEs to the message
				msg.AddDontHave(td.Cid)
			}
		}

		// Fetch blocks from datastore
		blks, err := e.bsm.getBlocks(ctx, blockCids)
		if err != nil {
			// we're dropping the envelope but that's not an issue in practice.
			return nil, err
		}

		for c, t := range blockTasks {
			blk := blks[c]
			// If the block was not found (it has been removed)
			if blk == nil {
				// If the client requested DONT_HAVE, add DONT_HAVE to the message
				if t.SendDontHave {
					msg.AddDontHave(c)
				}
			} else {
				// Add the block to the message
				msg.AddBlock(blk)
			}
		}

		// If there's nothing in the message, bail out
		if msg.Empty() {
			e.peerRequestQueue.TasksDone(p, nextTasks...)
			continue
		}

		log.Debugw("Bitswap engine -> msg", "local", e.self, "to", p, "blockCount", len(msg.Blocks()), "presenceCount", len(msg.BlockPresences()), "size", msg.Size())
		return &Envelope{
			Peer:    p,
			Message: msg,
			Sent: func() {
				// Once the message has been sent, signal the request queue so
				// it can be cleared from the queue
				e.peerRequestQueue.TasksDone(p, nextTasks...)

				// Signal the worker to check for more work
				e.signalNewWork()
			},
		}, nil
	}
}

// Outbox returns a channel of one-time use Envelope channels.
func (e *Engine) Outbox() <-chan (<-chan *Envelope) {
	return e.outbox
}

// Peers returns a slice of Peers with whom the local node has active sessions.
func (e *Engine) Peers() []peer.ID {
	e.lock.RLock()
	defer e.lock.RUnlock()

	response := make([]peer.ID, 0, len(e.ledgerMap))

	for _, ledger := range e.ledgerMap {
		response = append(response, ledger.Partner)
	}
	return response
}

// MessageReceived is called when a message is received from a remote peer.
// It accounts the blocks received, applies the wantlist to the peer's ledger
// (a full wantlist replaces it) and queues a response for every want.
func (e *Engine) MessageReceived(ctx context.Context, p peer.ID, m bsmsg.BitSwapMessage) {
	entries := m.Wantlist()

	ctx, span := tracing.StartSpan(ctx, "Engine.MessageReceived")
	defer span.End()
	span.AddAttributes(
		trace.StringAttribute("peer", p.String()),
		trace.Int64Attribute("entries", int64(len(entries))),
		trace.BoolAttribute("full", m.Full()))

	if ce := logger.Check(zap.DebugLevel, "Bitswap engine <- message"); ce != nil {
		ce.Write(zap.Stringer("from", p), zap.Any("message", m.Loggable()))
	}

	if len(entries) > 0 {
		log.Debugw("Bitswap engine <- msg", "local", e.self, "from", p, "entryCount", len(entries))
		for _, et := range entries {
			if et.Cancel {
				continue
			}
			if et.WantType == pb.Message_Wantlist_Have {
				logger.Debug("Bitswap engine <- want-have", zap.Stringer("local", e.self), zap.Stringer("from", p), zap.Stringer("cid", et.Cid))
			} else {
				logger.Debug("Bitswap engine <- want-block", zap.Stringer("local", e.self), zap.Stringer("from", p), zap.Stringer("cid", et.Cid))
			}
		}
	}

	if m.Empty() && !m.Full() {
		log.Infof("received empty message from %s", p)
	}

	// Get block sizes before taking the ledger lock
	wants, cancels := e.splitWantsCancels(entries)
	wantKs := cid.NewSet()
	for _, entry := range wants {
		wantKs.Add(entry.Cid)
	}
	blockSizes, err := e.bsm.getBlockSizes(ctx, wantKs.Keys())
	if err != nil {
		// The wantlist is still recorded, only the response is skipped.
		log.Errorf("failed to look up %d wanted blocks for %s: %s", wantKs.Len(), p, err)
		span.SetStatus(trace.Status{Code: trace.StatusCodeUnavailable, Message: err.Error()})
		blockSizes = nil
	}

	// Get the ledger for the peer. A ledger dropped by a disconnect while we
	// waited for its lock is replaced.
	l := e.findOrCreate(p)
	l.lk.Lock()
	for l.removed {
		l.lk.Unlock()
		l = e.findOrCreate(p)
		l.lk.Lock()
	}
	defer l.lk.Unlock()

	// Record how many bytes were received in the ledger
	received := false
	for _, blk := range m.Blocks() {
		log.Debugw("Bitswap engine <- block", "local", e.self, "from", p, "cid", blk.Cid(), "size", len(blk.RawData()))
		l.ReceivedBytes(len(blk.RawData()))
		received = true
	}
	if received {
		e.peerTagger.TagPeer(p, e.tagUseful, usefulTagWeight)
	}

	// If the peer sent a full wantlist, replace the ledger's wantlist
	if m.Full() {
		e.clearWants(l)
	}

	// For cancels seen
	for _, entry := range cancels {
		// Remove cancelled blocks from the queue
		log.Debugw("Bitswap engine <- cancel", "local", e.self, "from", p, "cid", entry.Cid)
		if l.CancelWant(entry.Cid) {
			e.peerRequestQueue.Remove(wl.KeyOf(entry.Cid), p)
		}
		e.wanters.Remove(p, entry.Cid)
	}

	// For each want-have / want-block
	for _, entry := range wants {
		// Add each want-have / want-block to the ledger
		l.Wants(entry.Cid, entry.Priority, entry.WantType, entry.SendDontHave)
		if err := e.wanters.UpdateRegistry(p, entry.Cid); err != nil {
			log.Errorf("failed to index want of %s for %s: %s", p, entry.Cid, err)
		}
	}

	if blockSizes != nil {
		e.sendBlocksToPeer(l, wants, blockSizes)
	}
}

// clearWants drops every want of l. The caller holds l.lk.
func (e *Engine) clearWants(l *ledger) {
	for _, entry := range l.wantList.Entries() {
		e.peerRequestQueue.Remove(wl.KeyOf(entry.Cid), l.Partner)
		e.wanters.Remove(l.Partner, entry.Cid)
	}
	l.wantList.Clear()
}

// sendBlocksToPeer queues a response for every want of l found in
// blockSizes, and a DONT_HAVE for the missing ones if the peer asked for
// it. The caller holds l.lk.
func (e *Engine) sendBlocksToPeer(l *ledger, wants []bsmsg.Entry, blockSizes map[cid.Cid]int) {
	var activeEntries []peertask.Task

	for _, entry := range wants {
		c := entry.Cid
		blockSize, found := blockSizes[c]

		// If the block was not found
		if !found {
			log.Debugw("Bitswap engine: block not found", "local", e.self, "from", l.Partner, "cid", c, "sendDontHave", entry.SendDontHave)

			// Only add the task to the queue if the requester wants a DONT_HAVE
			if e.sendDontHaves && entry.SendDontHave {
				activeEntries = append(activeEntries, peertask.Task{
					Topic:    wl.KeyOf(c),
					Priority: int(entry.Priority),
					Work:     bsmsg.BlockPresenceSize(c),
					Data: &taskData{
						Cid:          c,
						BlockSize:    0,
						HaveBlock:    false,
						IsWantBlock:  entry.WantType == pb.Message_Wantlist_Block,
						SendDontHave: entry.SendDontHave,
					},
				})
			}
			continue
		}

		// The block was found, add it to the queue
		isWantBlock := e.sendAsBlock(entry.WantType, blockSize)

		log.Debugw("Bitswap engine: block found", "local", e.self, "from", l.Partner, "cid", c, "isWantBlock", isWantBlock)

		activeEntries = append(activeEntries, e.foundTask(c, entry.Priority, isWantBlock, blockSize, entry.SendDontHave))
	}

	// Push entries onto the request queue
	if len(activeEntries) > 0 {
		e.peerRequestQueue.PushTasks(l.Partner, activeEntries...)
		e.signalNewWork()
	}
}

// foundTask builds the task for a block we have. entrySize is the amount of
// space the entry takes up in the message we send to the recipient: the size
// of the block if we send it, the size of a block presence otherwise.
func (e *Engine) foundTask(c cid.Cid, priority int32, isWantBlock bool, blockSize int, sendDontHave bool) peertask.Task {
	entrySize := blockSize
	if !isWantBlock {
		entrySize = bsmsg.BlockPresenceSize(c)
	}
	return peertask.Task{
		Topic:    wl.KeyOf(c),
		Priority: int(priority),
		Work:     entrySize,
		Data: &taskData{
			Cid:          c,
			BlockSize:    blockSize,
			HaveBlock:    true,
			IsWantBlock:  isWantBlock,
			SendDontHave: sendDontHave,
		},
	}
}

// Split the want-have / want-block entries from the cancel entries
func (e *Engine) splitWantsCancels(es []bsmsg.Entry) ([]bsmsg.Entry, []bsmsg.Entry) {
	wants := make([]bsmsg.Entry, 0, len(es))
	cancels := make([]bsmsg.Entry, 0, len(es))
	for _, et := range es {
		if et.Cancel {
			cancels = append(cancels, et)
		} else {
			wants = append(wants, et)
		}
	}
	return wants, cancels
}

// ReceivedBlocks is called when new blocks are added to the block store,
// meaning there may be peers who want those blocks. Every ledger wanting one
// of them gets a response queued, ledgers being handled concurrently.
func (e *Engine) ReceivedBlocks(ctx context.Context, blks []blocks.Block) error {
	if len(blks) == 0 {
		return nil
	}

	// Group the blocks by the peers wanting them
	interested := make(map[peer.ID][]blocks.Block)
	for _, blk := range blks {
		for _, p := range e.wanters.Peers(blk.Cid()) {
			interested[p] = append(interested[p], blk)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for p, pblks := range interested {
		p, pblks := p, pblks
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			l := e.ledgerFor(p)
			if l == nil {
				return nil
			}
			e.sendReceivedBlocks(l, pblks)
			return nil
		})
	}
	return g.Wait()
}

func (e *Engine) sendReceivedBlocks(l *ledger, blks []blocks.Block) {
	l.lk.Lock()
	defer l.lk.Unlock()

	var tasks []peertask.Task
	for _, blk := range blks {
		entry, ok := l.WantListContains(blk.Cid())
		if !ok {
			continue
		}
		blockSize := len(blk.RawData())
		isWantBlock := e.sendAsBlock(entry.WantType, blockSize)
		tasks = append(tasks, e.foundTask(blk.Cid(), entry.Priority, isWantBlock, blockSize, false))
	}

	if len(tasks) > 0 {
		e.peerRequestQueue.PushTasks(l.Partner, tasks...)
		e.signalNewWork()
	}
}

// MessageSent is called when a message has successfully been sent out, to record
// changes.
func (e *Engine) MessageSent(p peer.ID, m bsmsg.BitSwapMessage) {
	l := e.ledgerFor(p)
	if l == nil {
		return
	}
	l.lk.Lock()
	defer l.lk.Unlock()

	// Remove sent blocks from the want list for the peer
	for _, block := range m.Blocks() {
		l.SentBytes(len(block.RawData()))
		if l.wantList.RemoveType(block.Cid(), pb.Message_Wantlist_Block) {
			e.wanters.Remove(p, block.Cid())
		}
	}

	// Remove sent block presences from the want list for the peer
	for _, bp := range m.BlockPresences() {
		// Don't record sent data. We reserve that for data blocks.
		if bp.Type == pb.Message_Have {
			if l.wantList.RemoveType(bp.Cid, pb.Message_Wantlist_Have) {
				e.wanters.Remove(p, bp.Cid)
			}
		}
	}
}

// PeerConnected is called when a new peer connects, meaning we should start
// sending blocks.
func (e *Engine) PeerConnected(p peer.ID) {
	e.lock.Lock()
	defer e.lock.Unlock()

	_, ok := e.ledgerMap[p]
	if !ok {
		e.ledgerMap[p] = newLedger(p)
	}
}

// PeerDisconnected is called when a peer disconnects. Its ledger is dropped
// along with every want it had.
func (e *Engine) PeerDisconnected(p peer.ID) {
	e.lock.Lock()
	if l, ok := e.ledgerMap[p]; ok {
		l.lk.Lock()
		e.clearWants(l)
		l.removed = true
		l.lk.Unlock()
		delete(e.ledgerMap, p)
	}
	e.lock.Unlock()

	e.peerTagger.UntagPeer(p, e.tagUseful)
}

// If the want is a want-have, and it's below a certain size, send the full
// block (instead of sending a HAVE)
func (e *Engine) sendAsBlock(wantType pb.Message_Wantlist_WantType, blockSize int) bool {
	isWantBlock := wantType == pb.Message_Wantlist_Block
	return isWantBlock || blockSize <= e.maxBlockSizeReplaceHasWithBlock
}

func (e *Engine) ledgerFor(p peer.ID) *ledger {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return e.ledgerMap[p]
}

// ledger lazily instantiates a ledger
func (e *Engine) findOrCreate(p peer.ID) *ledger {
	// Take a read lock (as it's less expensive) to check if we have a ledger
	// for the peer
	e.lock.RLock()
	l, ok := e.ledgerMap[p]
	e.lock.RUnlock()
	if ok {
		return l
	}

	// There's no ledger, so take a write lock, then check again and create the
	// ledger if necessary
	e.lock.Lock()
	defer e.lock.Unlock()
	l, ok = e.ledgerMap[p]
	if !ok {
		l = newLedger(p)
		e.ledgerMap[p] = l
	}
	return l
}

func (e *Engine) signalNewWork() {
	// Signal task generation to restart (if stopped!)
	select {
	case e.workSignal <- struct{}{}:
	default:
	}
}
