package decision

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/adlrocha/go-bitswap/internal/testutil"
	message "github.com/adlrocha/go-bitswap/message"
	pb "github.com/adlrocha/go-bitswap/message/pb"

	blocks "github.com/ipfs/go-block-format"
	ds "github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	blockstore "github.com/ipfs/go-ipfs-blockstore"
	process "github.com/jbenet/goprocess"
	peer "github.com/libp2p/go-libp2p-core/peer"
)

type peerTag struct {
	done  chan struct{}
	peers map[peer.ID]int
}

type fakePeerTagger struct {
	lk   sync.Mutex
	tags map[string]*peerTag
}

func (fpt *fakePeerTagger) TagPeer(p peer.ID, tag string, n int) {
	fpt.lk.Lock()
	defer fpt.lk.Unlock()
	if fpt.tags == nil {
		fpt.tags = make(map[string]*peerTag, 1)
	}
	pt, ok := fpt.tags[tag]
	if !ok {
		pt = &peerTag{peers: make(map[peer.ID]int, 1), done: make(chan struct{})}
		fpt.tags[tag] = pt
	}
	pt.peers[p] = n
}

func (fpt *fakePeerTagger) UntagPeer(p peer.ID, tag string) {
	fpt.lk.Lock()
	defer fpt.lk.Unlock()
	pt := fpt.tags[tag]
	if pt == nil {
		return
	}
	delete(pt.peers, p)
	if len(pt.peers) == 0 {
		close(pt.done)
		delete(fpt.tags, tag)
	}
}

func (fpt *fakePeerTagger) count(tag string) int {
	fpt.lk.Lock()
	defer fpt.lk.Unlock()
	if pt, ok := fpt.tags[tag]; ok {
		return len(pt.peers)
	}
	return 0
}

type engineSet struct {
	PeerTagger *fakePeerTagger
	Engine     *Engine
	Blockstore blockstore.Blockstore
}

func newTestEngine(ctx context.Context, t *testing.T, opts ...Option) (engineSet, func()) {
	ctx, cancel := context.WithCancel(ctx)
	fpt := &fakePeerTagger{}
	bs := blockstore.NewBlockstore(dssync.MutexWrap(ds.NewMapDatastore()))
	e := NewEngine(ctx, bs, fpt, peer.ID("self"), opts...)
	px := process.WithTeardown(func() error { return nil })
	e.StartWorkers(ctx, px)
	return engineSet{PeerTagger: fpt, Engine: e, Blockstore: bs}, func() {
		cancel()
		px.Close()
	}
}

func wantMessage(full bool, wantType pb.Message_Wantlist_WantType, sendDontHave bool, blks ...blocks.Block) message.BitSwapMessage {
	msg := message.New(full)
	for i, blk := range blks {
		msg.AddEntry(blk.Cid(), int32(len(blks)-i), wantType, sendDontHave)
	}
	return msg
}

func nextEnvelope(t *testing.T, e *Engine) *Envelope {
	t.Helper()
	select {
	case next := <-e.Outbox():
		select {
		case env, ok := <-next:
			if !ok {
				t.Fatal("engine closed the outbox")
			}
			return env
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for envelope")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outbox")
	}
	return nil
}

func TestFullWantlistReplacesPriorWants(t *testing.T) {
	ctx := context.Background()
	set, done := newTestEngine(ctx, t)
	defer done()
	e := set.Engine

	p := testutil.GeneratePeers(1)[0]
	blks := testutil.GenerateBlocks(3)

	e.MessageReceived(ctx, p, wantMessage(false, pb.Message_Wantlist_Block, false, blks...))
	if n := len(e.WantlistForPeer(p)); n != 3 {
		t.Fatalf("expected 3 wants, got %d", n)
	}

	e.MessageReceived(ctx, p, message.New(true))
	if n := len(e.WantlistForPeer(p)); n != 0 {
		t.Fatalf("expected full empty wantlist to clear wants, got %d", n)
	}
	for _, blk := range blks {
		if len(e.wanters.Peers(blk.Cid())) != 0 {
			t.Fatal("cleared wants should leave the wanters index")
		}
	}

	// A full wantlist with entries replaces rather than merges.
	e.MessageReceived(ctx, p, wantMessage(false, pb.Message_Wantlist_Block, false, blks[:2]...))
	e.MessageReceived(ctx, p, wantMessage(true, pb.Message_Wantlist_Have, false, blks[2]))
	wants := e.WantlistForPeer(p)
	if len(wants) != 1 || !wants[0].Cid.Equals(blks[2].Cid()) {
		t.Fatalf("expected only %s to be wanted, got %v", blks[2].Cid(), wants)
	}
	if wants[0].WantType != pb.Message_Wantlist_Have {
		t.Fatal("want type should come from the latest entry")
	}
}

func TestCancelRemovesWant(t *testing.T) {
	ctx := context.Background()
	set, done := newTestEngine(ctx, t)
	defer done()
	e := set.Engine

	p := testutil.GeneratePeers(1)[0]
	blks := testutil.GenerateBlocks(2)
	e.MessageReceived(ctx, p, wantMessage(false, pb.Message_Wantlist_Block, false, blks...))

	cancel := message.New(false)
	cancel.Cancel(blks[0].Cid())
	e.MessageReceived(ctx, p, cancel)

	wants := e.WantlistForPeer(p)
	if len(wants) != 1 || !wants[0].Cid.Equals(blks[1].Cid()) {
		t.Fatalf("unexpected wantlist after cancel: %v", wants)
	}
	if len(e.wanters.Peers(blks[0].Cid())) != 0 {
		t.Fatal("cancelled want should leave the wanters index")
	}
}

func TestUpsertDropsSessionInterest(t *testing.T) {
	ctx := context.Background()
	set, done := newTestEngine(ctx, t)
	defer done()
	e := set.Engine

	p := testutil.GeneratePeers(1)[0]
	blk := testutil.GenerateBlocks(1)[0]
	e.MessageReceived(ctx, p, wantMessage(false, pb.Message_Wantlist_Have, true, blk))

	l := e.ledgerFor(p)
	l.lk.Lock()
	l.wantList.AddSession(blk.Cid(), peer.ID("session-peer"))
	l.lk.Unlock()

	e.MessageReceived(ctx, p, wantMessage(false, pb.Message_Wantlist_Block, false, blk))
	wants := e.WantlistForPeer(p)
	if len(wants) != 1 {
		t.Fatalf("expected one want, got %d", len(wants))
	}
	if len(wants[0].Session) != 0 {
		t.Fatal("upsert should start with an empty session set")
	}
	if wants[0].SendDontHave || wants[0].WantType != pb.Message_Wantlist_Block {
		t.Fatal("upsert should take the fields of the new entry")
	}
}

func TestLedgerForPeer(t *testing.T) {
	ctx := context.Background()
	set, done := newTestEngine(ctx, t, WithDebtRatio(func(sent, recv uint64) float64 {
		return float64(sent) - float64(recv)
	}))
	defer done()
	e := set.Engine

	p := testutil.GeneratePeers(1)[0]
	if e.LedgerForPeer(p) != nil {
		t.Fatal("untracked peer should have no ledger")
	}

	blk := testutil.GenerateBlocksOfSize(1, 100)[0]
	msg := message.New(false)
	msg.AddBlock(blk)
	e.MessageReceived(ctx, p, msg)

	r := e.LedgerForPeer(p)
	if r == nil {
		t.Fatal("expected a ledger after a message")
	}
	if r.Recv != 100 || r.Sent != 0 || r.Exchanged != 1 {
		t.Fatalf("unexpected receipt %+v", r)
	}
	if r.Value != -100 {
		t.Fatalf("custom debt ratio not applied: %f", r.Value)
	}
	if r.Peer != p.String() {
		t.Fatal("receipt for wrong peer")
	}
	if set.PeerTagger.count(e.tagUseful) != 1 {
		t.Fatal("peer sending blocks should be tagged")
	}

	e.PeerDisconnected(p)
	if e.LedgerForPeer(p) != nil {
		t.Fatal("disconnected peer should have no ledger")
	}
	if e.WantlistForPeer(p) != nil {
		t.Fatal("disconnected peer should have no wantlist")
	}
	if set.PeerTagger.count(e.tagUseful) != 0 {
		t.Fatal("disconnected peer should be untagged")
	}
}

func TestDefaultDebtRatioMonotone(t *testing.T) {
	if DefaultDebtRatio(0, 0) != 0 {
		t.Fatal("nothing exchanged should rank first")
	}
	if DefaultDebtRatio(200, 10) <= DefaultDebtRatio(100, 10) {
		t.Fatal("ratio should grow with bytes sent")
	}
	if DefaultDebtRatio(100, 20) >= DefaultDebtRatio(100, 10) {
		t.Fatal("ratio should shrink with bytes received")
	}
}

func TestSendsWantedBlock(t *testing.T) {
	ctx := context.Background()
	set, done := newTestEngine(ctx, t)
	defer done()
	e := set.Engine

	p := testutil.GeneratePeers(1)[0]
	blk := testutil.GenerateBlocksOfSize(1, 2048)[0]
	if err := set.Blockstore.Put(blk); err != nil {
		t.Fatal(err)
	}

	e.MessageReceived(ctx, p, wantMessage(false, pb.Message_Wantlist_Block, false, blk))

	env := nextEnvelope(t, e)
	if env.Peer != p {
		t.Fatal("envelope for wrong peer")
	}
	if len(env.Message.Blocks()) != 1 || !env.Message.Blocks()[0].Cid().Equals(blk.Cid()) {
		t.Fatal("expected the wanted block")
	}

	e.MessageSent(env.Peer, env.Message)
	env.Sent()

	if len(e.WantlistForPeer(p)) != 0 {
		t.Fatal("sent block should leave the wantlist")
	}
	if r := e.LedgerForPeer(p); r.Sent != 2048 {
		t.Fatalf("expected 2048 bytes sent, got %d", r.Sent)
	}
}

func TestWantHaveAnsweredWithHave(t *testing.T) {
	ctx := context.Background()
	set, done := newTestEngine(ctx, t)
	defer done()
	e := set.Engine

	p := testutil.GeneratePeers(1)[0]
	blk := testutil.GenerateBlocksOfSize(1, 4096)[0]
	if err := set.Blockstore.Put(blk); err != nil {
		t.Fatal(err)
	}

	e.MessageReceived(ctx, p, wantMessage(false, pb.Message_Wantlist_Have, false, blk))

	env := nextEnvelope(t, e)
	haves := env.Message.Haves()
	if len(haves) != 1 || !haves[0].Equals(blk.Cid()) || len(env.Message.Blocks()) != 0 {
		t.Fatal("large block should be announced with a HAVE")
	}
}

func TestSendsDontHave(t *testing.T) {
	ctx := context.Background()
	set, done := newTestEngine(ctx, t)
	defer done()
	e := set.Engine

	p := testutil.GeneratePeers(1)[0]
	blk := testutil.GenerateBlocks(1)[0]

	e.MessageReceived(ctx, p, wantMessage(false, pb.Message_Wantlist_Block, true, blk))

	env := nextEnvelope(t, e)
	dontHaves := env.Message.DontHaves()
	if len(dontHaves) != 1 || !dontHaves[0].Equals(blk.Cid()) {
		t.Fatal("expected a DONT_HAVE for the missing block")
	}
}

func TestReceivedBlocksFanOut(t *testing.T) {
	ctx := context.Background()
	set, done := newTestEngine(ctx, t)
	defer done()
	e := set.Engine

	peers := testutil.GeneratePeers(3)
	blks := testutil.GenerateBlocks(2)

	e.MessageReceived(ctx, peers[0], wantMessage(false, pb.Message_Wantlist_Block, false, blks[0]))
	e.MessageReceived(ctx, peers[1], wantMessage(false, pb.Message_Wantlist_Have, false, blks[0]))
	e.MessageReceived(ctx, peers[2], wantMessage(false, pb.Message_Wantlist_Block, false, blks[1]))

	if err := set.Blockstore.Put(blks[0]); err != nil {
		t.Fatal(err)
	}
	if err := e.ReceivedBlocks(ctx, blks[:1]); err != nil {
		t.Fatal(err)
	}

	got := make(map[peer.ID]bool)
	for i := 0; i < 2; i++ {
		env := nextEnvelope(t, e)
		if len(env.Message.Blocks()) != 1 || !env.Message.Blocks()[0].Cid().Equals(blks[0].Cid()) {
			t.Fatalf("unexpected message for %s", env.Peer)
		}
		got[env.Peer] = true
		env.Sent()
	}
	if !got[peers[0]] || !got[peers[1]] {
		t.Fatal("every peer wanting the block should receive it")
	}
	if got[peers[2]] {
		t.Fatal("peer not wanting the block should not receive it")
	}
}

func TestConcurrentMessagesFromOnePeer(t *testing.T) {
	ctx := context.Background()
	set, done := newTestEngine(ctx, t)
	defer done()
	e := set.Engine

	p := testutil.GeneratePeers(1)[0]
	blks := testutil.GenerateBlocks(50)

	var wg sync.WaitGroup
	var total uint64
	for _, blk := range blks {
		total += uint64(len(blk.RawData()))
		wg.Add(1)
		go func(blk blocks.Block) {
			defer wg.Done()
			msg := message.New(false)
			msg.AddBlock(blk)
			msg.AddEntry(blk.Cid(), 1, pb.Message_Wantlist_Have, false)
			e.MessageReceived(ctx, p, msg)
		}(blk)
	}
	wg.Wait()

	r := e.LedgerForPeer(p)
	if r == nil || r.Recv != total {
		t.Fatalf("expected %d bytes received, got %+v", total, r)
	}
	if got := len(e.WantlistForPeer(p)); got != len(blks) {
		t.Fatalf("expected %d wants, got %d", len(blks), got)
	}
}

func TestDisconnectRacingMessages(t *testing.T) {
	ctx := context.Background()
	set, done := newTestEngine(ctx, t)
	defer done()
	e := set.Engine

	p := testutil.GeneratePeers(1)[0]
	blk := testutil.GenerateBlocks(1)[0]

	const rounds = 200
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			e.MessageReceived(ctx, p, wantMessage(false, pb.Message_Wantlist_Block, false, blk))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			e.PeerDisconnected(p)
		}
	}()
	wg.Wait()

	// The wanters index agrees with the ledger
	wanting := false
	if l := e.ledgerFor(p); l != nil {
		l.lk.RLock()
		_, wanting = l.wantList.Contains(blk.Cid())
		l.lk.RUnlock()
	}
	indexed := false
	for _, q := range e.wanters.Peers(blk.Cid()) {
		if q == p {
			indexed = true
		}
	}
	if wanting != indexed {
		t.Fatalf("ledger wants block: %t, indexed as wanter: %t", wanting, indexed)
	}

	// A want after the dust settles is served
	e.MessageReceived(ctx, p, wantMessage(false, pb.Message_Wantlist_Block, false, blk))
	if err := set.Blockstore.Put(blk); err != nil {
		t.Fatal(err)
	}
	if err := e.ReceivedBlocks(ctx, []blocks.Block{blk}); err != nil {
		t.Fatal(err)
	}
	env := nextEnvelope(t, e)
	if env.Peer != p || len(env.Message.Blocks()) != 1 {
		t.Fatal("expected the block to be sent to the peer")
	}
	env.Sent()
}
