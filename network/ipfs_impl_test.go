package network

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/adlrocha/go-bitswap/internal/testutil"
	bsmsg "github.com/adlrocha/go-bitswap/message"
	pb "github.com/adlrocha/go-bitswap/message/pb"

	blocks "github.com/ipfs/go-block-format"
	"github.com/libp2p/go-libp2p-core/host"
	peer "github.com/libp2p/go-libp2p-core/peer"
	"github.com/libp2p/go-libp2p-core/peerstore"
	"github.com/libp2p/go-libp2p-core/protocol"
	mocknet "github.com/libp2p/go-libp2p/p2p/net/mock"
	msgio "github.com/libp2p/go-msgio"
)

// receiver records everything the network delivers to it.
type receiver struct {
	lk            sync.Mutex
	peers         map[peer.ID]struct{}
	messages      []bsmsg.BitSwapMessage
	errs          []error
	messageSignal chan struct{}
	connSignal    chan struct{}
	errSignal     chan struct{}
}

func newReceiver() *receiver {
	return &receiver{
		peers:         make(map[peer.ID]struct{}),
		messageSignal: make(chan struct{}, 64),
		connSignal:    make(chan struct{}, 64),
		errSignal:     make(chan struct{}, 64),
	}
}

func (r *receiver) ReceiveMessage(ctx context.Context, sender peer.ID, incoming bsmsg.BitSwapMessage) {
	r.lk.Lock()
	r.messages = append(r.messages, incoming)
	r.lk.Unlock()
	r.messageSignal <- struct{}{}
}

func (r *receiver) ReceiveError(err error) {
	r.lk.Lock()
	r.errs = append(r.errs, err)
	r.lk.Unlock()
	r.errSignal <- struct{}{}
}

func (r *receiver) errors() []error {
	r.lk.Lock()
	defer r.lk.Unlock()
	return append([]error(nil), r.errs...)
}

func (r *receiver) PeerConnected(p peer.ID) {
	r.lk.Lock()
	r.peers[p] = struct{}{}
	r.lk.Unlock()
	r.connSignal <- struct{}{}
}

func (r *receiver) PeerDisconnected(p peer.ID) {
	r.lk.Lock()
	delete(r.peers, p)
	r.lk.Unlock()
	r.connSignal <- struct{}{}
}

func (r *receiver) connected(p peer.ID) bool {
	r.lk.Lock()
	defer r.lk.Unlock()
	_, ok := r.peers[p]
	return ok
}

func (r *receiver) received() []bsmsg.BitSwapMessage {
	r.lk.Lock()
	defer r.lk.Unlock()
	return append([]bsmsg.BitSwapMessage(nil), r.messages...)
}

func waitFor(t *testing.T, signal chan struct{}, cond func() bool) {
	t.Helper()
	for !cond() {
		select {
		case <-signal:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out")
		}
	}
}

type testNet struct {
	mn       mocknet.Mocknet
	hosts    []host.Host
	nets     []BitSwapNetwork
	recvs    []*receiver
	shutdown func()
}

func newTestNet(ctx context.Context, t *testing.T, n int, opts ...NetOpt) *testNet {
	ctx, cancel := context.WithCancel(ctx)
	mn := mocknet.New(ctx)
	tn := &testNet{mn: mn, shutdown: cancel}
	for i := 0; i < n; i++ {
		h, err := mn.GenPeer()
		if err != nil {
			t.Fatal(err)
		}
		bsnet := NewFromIpfsHost(ctx, h, opts...)
		r := newReceiver()
		bsnet.Start(r)
		tn.hosts = append(tn.hosts, h)
		tn.nets = append(tn.nets, bsnet)
		tn.recvs = append(tn.recvs, r)
	}
	if err := mn.LinkAll(); err != nil {
		t.Fatal(err)
	}
	return tn
}

// connect dials peer j from peer i through the bitswap network.
func (tn *testNet) connect(ctx context.Context, t *testing.T, i, j int) {
	tn.hosts[i].Peerstore().AddAddrs(tn.hosts[j].ID(), tn.hosts[j].Addrs(), peerstore.PermanentAddrTTL)
	if err := tn.nets[i].ConnectTo(ctx, tn.hosts[j].ID()); err != nil {
		t.Fatal(err)
	}
}

func TestMessageSendAndReceive(t *testing.T) {
	ctx := context.Background()
	tn := newTestNet(ctx, t, 2)
	defer tn.shutdown()

	p1, p2 := tn.nets[0].Self(), tn.nets[1].Self()
	tn.connect(ctx, t, 0, 1)
	waitFor(t, tn.recvs[1].connSignal, func() bool { return tn.recvs[1].connected(p1) })
	waitFor(t, tn.recvs[0].connSignal, func() bool { return tn.recvs[0].connected(p2) })

	blks := testutil.GenerateBlocks(2)
	sent := bsmsg.New(true)
	sent.AddEntry(blks[0].Cid(), 1, pb.Message_Wantlist_Block, true)
	sent.AddBlock(blks[1])
	sent.AddHave(blks[0].Cid())
	sent.SetPendingBytes(10)

	if err := tn.nets[0].SendMessage(ctx, p2, sent.ToProtoV1()); err != nil {
		t.Fatal(err)
	}

	r := tn.recvs[1]
	waitFor(t, r.messageSignal, func() bool { return len(r.received()) == 1 })
	got := r.received()[0]

	if !got.Full() || got.PendingBytes() != 10 {
		t.Fatal("message flags lost in transit")
	}
	wl := got.Wantlist()
	if len(wl) != 1 || !wl[0].Cid.Equals(blks[0].Cid()) || !wl[0].SendDontHave {
		t.Fatal("wantlist lost in transit")
	}
	if len(got.Blocks()) != 1 || !got.Blocks()[0].Cid().Equals(blks[1].Cid()) {
		t.Fatal("block lost in transit")
	}
	if len(got.Haves()) != 1 {
		t.Fatal("presence lost in transit")
	}

	stats := tn.nets[0].Stats()
	if stats.MessagesSent != 1 || stats.FramesSent != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if tn.nets[1].Stats().MessagesRecvd != 1 {
		t.Fatal("receiver should count the message")
	}
}

func TestLargeMessageIsFramed(t *testing.T) {
	ctx := context.Background()
	tn := newTestNet(ctx, t, 2, MaxMessageSize(3000))
	defer tn.shutdown()

	p2 := tn.nets[1].Self()
	tn.connect(ctx, t, 0, 1)

	blks := testutil.GenerateBlocksOfSize(5, 1000)
	sent := bsmsg.New(true)
	for _, blk := range blks {
		sent.AddBlock(blk)
	}
	wants := testutil.GenerateCids(20)
	for i, c := range wants {
		sent.AddEntry(c, int32(i), pb.Message_Wantlist_Have, false)
	}

	if err := tn.nets[0].SendMessage(ctx, p2, sent.ToProtoV1()); err != nil {
		t.Fatal(err)
	}
	frames := int(tn.nets[0].Stats().FramesSent)
	if frames < 2 {
		t.Fatalf("expected several frames, got %d", frames)
	}

	r := tn.recvs[1]
	waitFor(t, r.messageSignal, func() bool { return len(r.received()) == frames })

	var gotBlocks []blocks.Block
	gotWants := 0
	for i, m := range r.received() {
		if m.Full() != (i == 0) {
			t.Fatalf("frame %d has full=%t", i, m.Full())
		}
		gotBlocks = append(gotBlocks, m.Blocks()...)
		gotWants += len(m.Wantlist())
	}
	if len(gotBlocks) != len(blks) {
		t.Fatalf("expected %d blocks, got %d", len(blks), len(gotBlocks))
	}
	for i, blk := range blks {
		if !gotBlocks[i].Cid().Equals(blk.Cid()) {
			t.Fatal("blocks out of order")
		}
	}
	if gotWants != len(wants) {
		t.Fatalf("expected %d wants, got %d", len(wants), gotWants)
	}
}

func TestLegacyProtocol(t *testing.T) {
	ctx := context.Background()
	tn := newTestNet(ctx, t, 2, SupportedProtocols([]protocol.ID{ProtocolBitswapOneZero}))
	defer tn.shutdown()

	p2 := tn.nets[1].Self()
	tn.connect(ctx, t, 0, 1)

	blk := testutil.GenerateBlocks(1)[0]
	sent := bsmsg.New(false)
	sent.AddBlock(blk)
	sent.AddHave(blk.Cid())

	if err := tn.nets[0].SendMessage(ctx, p2, sent.ToProtoV1()); err != nil {
		t.Fatal(err)
	}

	r := tn.recvs[1]
	waitFor(t, r.messageSignal, func() bool { return len(r.received()) == 1 })
	got := r.received()[0]
	if len(got.Blocks()) != 1 || !got.Blocks()[0].Cid().Equals(blk.Cid()) {
		t.Fatal("legacy block lost in transit")
	}
	if len(got.BlockPresences()) != 0 {
		t.Fatal("legacy messages carry no presences")
	}
}

func TestPeerDisconnected(t *testing.T) {
	ctx := context.Background()
	tn := newTestNet(ctx, t, 2)
	defer tn.shutdown()

	p1, p2 := tn.nets[0].Self(), tn.nets[1].Self()
	tn.connect(ctx, t, 0, 1)
	waitFor(t, tn.recvs[0].connSignal, func() bool { return tn.recvs[0].connected(p2) })
	waitFor(t, tn.recvs[1].connSignal, func() bool { return tn.recvs[1].connected(p1) })

	if err := tn.nets[0].DisconnectFrom(ctx, p2); err != nil {
		t.Fatal(err)
	}
	waitFor(t, tn.recvs[0].connSignal, func() bool { return !tn.recvs[0].connected(p2) })
}

// writeRaw writes frame to peer j on a fresh bitswap stream from peer i.
func (tn *testNet) writeRaw(ctx context.Context, t *testing.T, i, j int, frame []byte) {
	s, err := tn.hosts[i].NewStream(ctx, tn.hosts[j].ID(), ProtocolBitswap)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := msgio.NewVarintWriter(s).WriteMsg(frame); err != nil {
		t.Fatal(err)
	}
}

func TestMalformedMessageReportsError(t *testing.T) {
	ctx := context.Background()
	tn := newTestNet(ctx, t, 3)
	defer tn.shutdown()

	tn.connect(ctx, t, 0, 1)
	tn.connect(ctx, t, 2, 1)

	// field 1 with wire type 7, which does not exist
	tn.writeRaw(ctx, t, 0, 1, []byte{0x0f, 0x01})

	r := tn.recvs[1]
	waitFor(t, r.errSignal, func() bool { return len(r.errors()) == 1 })
	if len(r.received()) != 0 {
		t.Fatal("malformed message should not be delivered")
	}

	// Other peers are still served
	blk := testutil.GenerateBlocks(1)[0]
	sent := bsmsg.New(false)
	sent.AddBlock(blk)
	if err := tn.nets[2].SendMessage(ctx, tn.hosts[1].ID(), sent.ToProtoV1()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, r.messageSignal, func() bool { return len(r.received()) == 1 })
	if len(r.errors()) != 1 {
		t.Fatal("valid message should not report an error")
	}
}

func TestInboundFrameLimit(t *testing.T) {
	ctx := context.Background()
	tn := newTestNet(ctx, t, 2, MaxMessageSize(1000))
	defer tn.shutdown()

	tn.connect(ctx, t, 0, 1)
	tn.writeRaw(ctx, t, 0, 1, make([]byte, 2000))

	r := tn.recvs[1]
	waitFor(t, r.errSignal, func() bool { return len(r.errors()) == 1 })
	if !errors.Is(r.errors()[0], msgio.ErrMsgTooLarge) {
		t.Fatalf("expected ErrMsgTooLarge, got %v", r.errors()[0])
	}
	if len(r.received()) != 0 {
		t.Fatal("oversized frame should not be delivered")
	}
}
