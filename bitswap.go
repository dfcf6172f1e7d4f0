// Package bitswap implements the IPFS exchange interface with the BitSwap
// bilateral exchange protocol.
package bitswap

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adlrocha/go-bitswap/internal/decision"
	"github.com/adlrocha/go-bitswap/internal/getter"
	"github.com/adlrocha/go-bitswap/internal/messagequeue"
	pbr "github.com/adlrocha/go-bitswap/internal/peerblockregistry"
	"github.com/adlrocha/go-bitswap/internal/wantmanager"
	bsmsg "github.com/adlrocha/go-bitswap/message"
	pb "github.com/adlrocha/go-bitswap/message/pb"
	bsnet "github.com/adlrocha/go-bitswap/network"
	"github.com/adlrocha/go-bitswap/notifications"
	"github.com/adlrocha/go-bitswap/session"
	"github.com/adlrocha/go-bitswap/tracing"

	blocks "github.com/ipfs/go-block-format"
	cid "github.com/ipfs/go-cid"
	blockstore "github.com/ipfs/go-ipfs-blockstore"
	delay "github.com/ipfs/go-ipfs-delay"
	exchange "github.com/ipfs/go-ipfs-exchange-interface"
	logging "github.com/ipfs/go-log"
	metrics "github.com/ipfs/go-metrics-interface"
	process "github.com/jbenet/goprocess"
	procctx "github.com/jbenet/goprocess/context"
	peer "github.com/libp2p/go-libp2p-core/peer"
	"go.opencensus.io/trace"
	"golang.org/x/sync/errgroup"
)

var log = logging.Logger("bitswap")

var _ exchange.SessionExchange = (*Bitswap)(nil)

const (
	defaultTaskWorkerCount = 8
	rebroadcastDelay       = time.Minute
)

var metricsBuckets = []float64{1 << 6, 1 << 10, 1 << 14, 1 << 18, 1<<18 + 15, 1 << 22}

// New initializes a BitSwap instance that communicates over the provided
// BitSwapNetwork. This function registers the returned instance as the network
// delegate. Runs until context is cancelled or Close is called.
func New(parent context.Context, network bsnet.BitSwapNetwork,
	bstore blockstore.Blockstore, options ...Option) *Bitswap {

	// important to use provided parent context (since it may include important
	// loggable data).
	ctx, cancelFunc := context.WithCancel(parent)
	ctx = metrics.CtxSubScope(ctx, "bitswap")

	dupHist := metrics.NewCtx(ctx, "recv_dup_blocks_bytes", "Summary of duplicate"+
		" data blocks recived").Histogram(metricsBuckets)
	allHist := metrics.NewCtx(ctx, "recv_all_blocks_bytes", "Summary of all"+
		" data blocks recived").Histogram(metricsBuckets)
	sentHistogram := metrics.NewCtx(ctx, "sent_all_blocks_bytes", "Histogram of blocks sent by"+
		" this bitswap").Histogram(metricsBuckets)
	sendTimeHistogram := metrics.NewCtx(ctx, "send_times", "Histogram of how long it takes to send messages"+
		" in this bitswap").Histogram(metricsBuckets)

	notif := notifications.New()
	px := process.WithTeardown(func() error {
		notif.Shutdown()
		return nil
	})

	bs := &Bitswap{
		blockstore:        bstore,
		network:           network,
		notif:             notif,
		process:           px,
		counters:          new(counters),
		dupMetric:         dupHist,
		allMetric:         allHist,
		sentHistogram:     sentHistogram,
		sendTimeHistogram: sendTimeHistogram,
		taskWorkerCount:   defaultTaskWorkerCount,
		rebroadcastDelay:  delay.Fixed(rebroadcastDelay),
		pbrEnabled:        true,
	}

	// apply functional options before starting and running bitswap
	for _, option := range options {
		option(bs)
	}

	if bs.pbrEnabled {
		bs.providers = pbr.NewBoundedRegistry()
	} else {
		bs.providers = pbr.NewNilRegistry()
	}

	peerQueueFactory := func(ctx context.Context, p peer.ID) wantmanager.PeerQueue {
		return messagequeue.New(ctx, p, network)
	}
	bs.wm = wantmanager.New(ctx, peerQueueFactory, notif, bs.providers, bs.rebroadcastDelay)
	bs.engine = decision.NewEngine(ctx, bstore, network.ConnectionManager(), network.Self(), bs.engineOpts...)
	bs.ctx = ctx

	bs.wm.Startup()
	bs.engine.StartWorkers(ctx, px)
	bs.startWorkers(ctx, px)
	network.Start(bs)

	// bind the context and process.
	// do it over here to avoid closing before all setup is done.
	go func() {
		<-px.Closing() // process closes first
		cancelFunc()
	}()
	procctx.CloseAfterContext(px, ctx) // parent cancelled first

	return bs
}

// Bitswap instances implement the bitswap protocol.
type Bitswap struct {
	// sessID is first for 64-bit alignment of atomic operations
	sessID uint64

	ctx context.Context

	// the engine is the bit of logic that decides who to send which blocks to
	engine *decision.Engine

	// network delivers messages on behalf of the session
	network bsnet.BitSwapNetwork

	// blockstore is the local database
	// NB: ensure threadsafety
	blockstore blockstore.Blockstore

	// manages channels of outgoing blocks for sessions
	notif *notifications.Notifications

	// the local wantlist and the peers it is sent to
	wm *wantmanager.WantManager

	// peers known to have blocks, from the HAVEs and blocks they sent
	providers pbr.PeerBlockRegistry

	process process.Process

	// Counters for various statistics
	counterLk sync.Mutex
	counters  *counters

	// Metrics interface metrics
	dupMetric         metrics.Histogram
	allMetric         metrics.Histogram
	sentHistogram     metrics.Histogram
	sendTimeHistogram metrics.Histogram

	// options
	engineOpts       []decision.Option
	taskWorkerCount  int
	rebroadcastDelay delay.D
	pbrEnabled       bool
}

type counters struct {
	blocksRecvd    uint64
	dupBlocksRecvd uint64
	dupDataRecvd   uint64
	blocksSent     uint64
	dataSent       uint64
	dataRecvd      uint64
	messagesRecvd  uint64
}

// GetBlock attempts to retrieve a particular block from peers within the
// deadline enforced by the context.
func (bs *Bitswap) GetBlock(parent context.Context, k cid.Cid) (blocks.Block, error) {
	return getter.SyncGetBlock(parent, bs.ctx, k, bs.getBlock)
}

// GetBlocks returns a channel where the caller may receive blocks that
// correspond to the provided |keys|. Returns an error if BitSwap is unable to
// begin this request within the deadline enforced by the context.
func (bs *Bitswap) GetBlocks(ctx context.Context, keys []cid.Cid) (<-chan blocks.Block, error) {
	if err := bs.ctx.Err(); err != nil {
		return nil, err
	}
	return getter.AsyncGetBlocks(ctx, bs.ctx, keys, bs.getBlock), nil
}

// getBlock serves the block from the local store when present and asks
// every connected peer for it otherwise.
func (bs *Bitswap) getBlock(ctx context.Context, k cid.Cid) (blocks.Block, error) {
	blk, err := bs.blockstore.Get(k)
	if err == nil {
		return blk, nil
	}
	if !errors.Is(err, blockstore.ErrNotFound) {
		log.Errorf("blockstore.Get(%s) error: %s", k, err)
	}
	return bs.wm.Want(ctx, k, wantmanager.WantOptions{})
}

// NewSession creates a session seeded with the currently connected peers.
func (bs *Bitswap) NewSession(ctx context.Context) exchange.Fetcher {
	return bs.NewSessionWithPeers(ctx, bs.wm.ConnectedPeers()...)
}

// NewSessionWithPeers creates a session fetching only from peers.
func (bs *Bitswap) NewSessionWithPeers(ctx context.Context, peers ...peer.ID) *session.Session {
	id := atomic.AddUint64(&bs.sessID, 1)
	return session.New(ctx, id, bs.wm, peers...)
}

// NewSessionForKeys creates a session seeded with the peers known to have
// any of keys.
func (bs *Bitswap) NewSessionForKeys(ctx context.Context, keys ...cid.Cid) *session.Session {
	seen := make(map[peer.ID]struct{})
	var peers []peer.ID
	for _, k := range keys {
		for _, p := range bs.providers.Peers(k) {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			peers = append(peers, p)
		}
	}
	return bs.NewSessionWithPeers(ctx, peers...)
}

// HasBlock announces the existence of a block to this bitswap service. The
// service will potentially notify its peers.
func (bs *Bitswap) HasBlock(blk blocks.Block) error {
	select {
	case <-bs.process.Closing():
		return errors.New("bitswap is closed")
	default:
	}

	if err := bs.blockstore.Put(blk); err != nil {
		log.Errorf("Error writing block to datastore: %s", err)
		return err
	}

	bs.notif.ReceivedBlock(bs.network.Self(), blk)
	return bs.engine.ReceivedBlocks(bs.ctx, []blocks.Block{blk})
}

// ReceiveMessage is called by the network interface when a new message is
// received.
func (bs *Bitswap) ReceiveMessage(ctx context.Context, p peer.ID, incoming bsmsg.BitSwapMessage) {
	ctx, span := tracing.StartSpan(ctx, "ReceiveMessage")
	defer span.End()
	span.AddAttributes(trace.StringAttribute("peer", p.String()),
		trace.Int64Attribute("blocks", int64(len(incoming.Blocks()))))

	bs.counterLk.Lock()
	bs.counters.messagesRecvd++
	bs.counterLk.Unlock()

	// This call records changes to wantlists, blocks received,
	// and number of bytes transfered.
	bs.engine.MessageReceived(ctx, p, incoming)

	iblocks := bs.validBlocks(ctx, incoming.Blocks())
	if len(iblocks) > 0 {
		bs.updateReceiveCounters(iblocks)
		for _, b := range iblocks {
			log.Debugf("[recv] block; cid=%s, peer=%s", b.Cid(), p)
		}

		// Store the blocks before anyone is told about them. Blocks that
		// could not be stored are not handed on.
		if err := bs.blockstore.PutMany(iblocks); err != nil {
			log.Errorf("Error writing %d blocks to datastore: %s", len(iblocks), err)
			span.SetStatus(trace.Status{Code: trace.StatusCodeInternal, Message: err.Error()})
			iblocks = nil
		}
	}

	bs.wm.ReceiveFrom(p, iblocks, incoming.Haves(), incoming.DontHaves())

	if len(iblocks) == 0 {
		return
	}
	if err := bs.engine.ReceivedBlocks(ctx, iblocks); err != nil {
		log.Debugf("error queueing received blocks: %s", err)
	}
}

// validBlocks hashes the blocks concurrently and drops those whose data does
// not match their CID.
func (bs *Bitswap) validBlocks(ctx context.Context, blks []blocks.Block) []blocks.Block {
	if len(blks) == 0 {
		return nil
	}
	valid := make([]bool, len(blks))
	g, gctx := errgroup.WithContext(ctx)
	for i, b := range blks {
		i, b := i, b
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := wantmanager.ValidateBlock(b.Cid(), b); err != nil {
				log.Warnf("dropping invalid block: %s", err)
				return nil
			}
			valid[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Debugf("block validation interrupted: %s", err)
		return nil
	}

	out := make([]blocks.Block, 0, len(blks))
	for i, b := range blks {
		if valid[i] {
			out = append(out, b)
		}
	}
	return out
}

func (bs *Bitswap) updateReceiveCounters(blks []blocks.Block) {
	// Check which blocks are in the datastore
	// (Note: any errors from the blockstore are simply logged out in
	// blockstoreHas())
	blksHas := bs.blockstoreHas(blks)

	bs.counterLk.Lock()
	defer bs.counterLk.Unlock()

	// Do some accounting for each block
	for i, b := range blks {
		has := blksHas[i]

		blkLen := len(b.RawData())
		bs.allMetric.Observe(float64(blkLen))
		if has {
			bs.dupMetric.Observe(float64(blkLen))
		}

		c := bs.counters

		c.blocksRecvd++
		c.dataRecvd += uint64(blkLen)
		if has {
			c.dupBlocksRecvd++
			c.dupDataRecvd += uint64(blkLen)
		}
	}
}

func (bs *Bitswap) blockstoreHas(blks []blocks.Block) []bool {
	res := make([]bool, len(blks))

	wg := sync.WaitGroup{}
	for i, block := range blks {
		wg.Add(1)
		go func(i int, b blocks.Block) {
			defer wg.Done()

			has, err := bs.blockstore.Has(b.Cid())
			if err != nil {
				log.Infof("blockstore.Has error: %s", err)
				has = false
			}

			res[i] = has
		}(i, block)
	}
	wg.Wait()

	return res
}

// PeerConnected is called by the network interface
// when a peer initiates a new connection to bitswap.
func (bs *Bitswap) PeerConnected(p peer.ID) {
	bs.wm.PeerConnected(p)
	bs.engine.PeerConnected(p)
}

// PeerDisconnected is called by the network interface when a peer
// closes a connection
func (bs *Bitswap) PeerDisconnected(p peer.ID) {
	bs.wm.PeerDisconnected(p)
	bs.engine.PeerDisconnected(p)
}

// ReceiveError is called by the network interface when an error happens
// at the network layer. Currently just logs error.
func (bs *Bitswap) ReceiveError(err error) {
	log.Infof("Bitswap ReceiveError: %s", err)
}

// Close is called to shutdown Bitswap
func (bs *Bitswap) Close() error {
	bs.network.Stop()
	return bs.process.Close()
}

// GetWantlist returns the current local wantlist.
func (bs *Bitswap) GetWantlist() []cid.Cid {
	entries := bs.wm.Wantlist()
	out := make([]cid.Cid, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Cid)
	}
	return out
}

// WantlistForPeer returns the currently understood list of blocks requested by a
// given peer. The local wantlist is returned for our own peer ID.
func (bs *Bitswap) WantlistForPeer(p peer.ID) []cid.Cid {
	if p == bs.network.Self() {
		return bs.GetWantlist()
	}
	var out []cid.Cid
	for _, e := range bs.engine.WantlistForPeer(p) {
		out = append(out, e.Cid)
	}
	return out
}

// LedgerForPeer returns aggregated data about blocks swapped and communication
// with a given peer, or nil when the peer is not known.
func (bs *Bitswap) LedgerForPeer(p peer.ID) *decision.Receipt {
	return bs.engine.LedgerForPeer(p)
}

// IsOnline is needed to match go-ipfs-exchange-interface
func (bs *Bitswap) IsOnline() bool {
	return true
}

func (bs *Bitswap) startWorkers(ctx context.Context, px process.Process) {
	// Start up workers to handle requests from other nodes for the data on this node
	for i := 0; i < bs.taskWorkerCount; i++ {
		i := i
		px.Go(func(px process.Process) {
			bs.taskWorker(ctx, i)
		})
	}
}

func (bs *Bitswap) taskWorker(ctx context.Context, id int) {
	defer log.Debugw("bitswap task worker shutting down...", "id", id)
	for {
		select {
		case nextEnvelope := <-bs.engine.Outbox():
			select {
			case envelope, ok := <-nextEnvelope:
				if !ok {
					continue
				}

				start := time.Now()
				bs.sendBlocks(ctx, envelope)
				bs.sendTimeHistogram.Observe(time.Since(start).Seconds())
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (bs *Bitswap) sendBlocks(ctx context.Context, env *decision.Envelope) {
	// Blocks need to be sent synchronously to maintain proper backpressure
	// throughout the network stack
	defer env.Sent()

	err := bs.network.SendMessage(ctx, env.Peer, env.Message.ToProtoV1())
	if err != nil {
		log.Debugw("failed to send blocks message", "peer", env.Peer, "error", err)
		return
	}

	// Only a delivered message changes the ledger
	bs.engine.MessageSent(env.Peer, env.Message)
	bs.logOutgoingBlocks(env)

	dataSent := 0
	blks := env.Message.Blocks()
	for _, b := range blks {
		dataSent += len(b.RawData())
	}
	bs.counterLk.Lock()
	bs.counters.blocksSent += uint64(len(blks))
	bs.counters.dataSent += uint64(dataSent)
	bs.counterLk.Unlock()
	bs.sentHistogram.Observe(float64(env.Message.Size()))
}

func (bs *Bitswap) logOutgoingBlocks(env *decision.Envelope) {
	self := bs.network.Self()

	for _, bp := range env.Message.BlockPresences() {
		switch bp.Type {
		case pb.Message_Have:
			log.Debugw("sent message", "type", "HAVE", "cid", bp.Cid, "local", self, "to", env.Peer)
		case pb.Message_DontHave:
			log.Debugw("sent message", "type", "DONT_HAVE", "cid", bp.Cid, "local", self, "to", env.Peer)
		}
	}

	for _, b := range env.Message.Blocks() {
		log.Debugw("sent message", "type", "BLOCK", "cid", b.Cid(), "local", self, "to", env.Peer)
	}
}
