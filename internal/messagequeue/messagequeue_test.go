package messagequeue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/adlrocha/go-bitswap/internal/testutil"
	pb "github.com/adlrocha/go-bitswap/message/pb"

	peer "github.com/libp2p/go-libp2p-core/peer"
	"github.com/stretchr/testify/require"
)

type fakeMessageNetwork struct {
	lk       sync.Mutex
	messages []*pb.Message
	failures int
	// block, when set, holds every send until it is closed
	block chan struct{}
	sent  chan struct{}
}

func newFakeMessageNetwork() *fakeMessageNetwork {
	return &fakeMessageNetwork{sent: make(chan struct{}, 16)}
}

func (fmn *fakeMessageNetwork) SendMessage(ctx context.Context, p peer.ID, m *pb.Message) error {
	if fmn.block != nil {
		<-fmn.block
	}
	fmn.lk.Lock()
	if fmn.failures > 0 {
		fmn.failures--
		fmn.lk.Unlock()
		return errors.New("send failed")
	}
	fmn.messages = append(fmn.messages, m)
	fmn.lk.Unlock()
	fmn.sent <- struct{}{}
	return nil
}

func (fmn *fakeMessageNetwork) Self() peer.ID {
	return peer.ID("self")
}

func (fmn *fakeMessageNetwork) received() []*pb.Message {
	fmn.lk.Lock()
	defer fmn.lk.Unlock()
	return append([]*pb.Message(nil), fmn.messages...)
}

func waitSent(t *testing.T, fmn *fakeMessageNetwork) {
	t.Helper()
	select {
	case <-fmn.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("message not sent")
	}
}

func TestSendsWantsAndCancels(t *testing.T) {
	ctx := context.Background()
	fmn := newFakeMessageNetwork()
	p := testutil.GeneratePeers(1)[0]
	mq := New(ctx, p, fmn)
	mq.Startup()
	defer mq.Shutdown()

	cids := testutil.GenerateCids(3)
	mq.AddWants(5, cids[:1], cids[1:])
	waitSent(t, fmn)

	msgs := fmn.received()
	require.Len(t, msgs, 1)
	entries := msgs[0].Wantlist.Entries
	require.Len(t, entries, 3)
	require.Equal(t, pb.Message_Wantlist_Block, entries[0].GetWantType())
	require.Equal(t, pb.Message_Wantlist_Have, entries[1].GetWantType())
	require.True(t, entries[0].GetSendDontHave())

	mq.AddCancels(cids[:1])
	waitSent(t, fmn)
	msgs = fmn.received()
	require.Len(t, msgs, 2)
	require.True(t, msgs[1].Wantlist.Entries[0].GetCancel())
}

func TestMergesWhileSending(t *testing.T) {
	ctx := context.Background()
	fmn := newFakeMessageNetwork()
	fmn.block = make(chan struct{})
	p := testutil.GeneratePeers(1)[0]
	mq := New(ctx, p, fmn)
	mq.Startup()
	defer mq.Shutdown()

	cids := testutil.GenerateCids(3)
	mq.AddWants(1, cids[:1], nil)

	// Wait for the first send to be in flight.
	for {
		mq.pendingLk.Lock()
		pending := mq.pending
		mq.pendingLk.Unlock()
		if pending == nil {
			break
		}
		time.Sleep(time.Millisecond)
	}

	mq.AddWants(1, nil, cids[1:2])
	mq.AddWants(9, nil, cids[1:2])
	mq.AddWants(2, cids[2:], nil)
	close(fmn.block)

	waitSent(t, fmn)
	waitSent(t, fmn)

	msgs := fmn.received()
	require.Len(t, msgs, 2)
	second := msgs[1].Wantlist.Entries
	require.Len(t, second, 2)
	require.True(t, second[0].Block.Cid.Equals(cids[1]))
	require.Equal(t, int32(9), second[0].Priority)
	require.True(t, second[1].Block.Cid.Equals(cids[2]))
}

func TestFullWantlistSupersedesPending(t *testing.T) {
	ctx := context.Background()
	fmn := newFakeMessageNetwork()
	p := testutil.GeneratePeers(1)[0]
	mq := New(ctx, p, fmn)
	cids := testutil.GenerateCids(2)

	// Not started yet, so both messages stay pending.
	mq.AddWants(1, cids[:1], nil)
	full := testutil.GenerateWantMessage(true, pb.Message_Wantlist_Block, cids[1])
	mq.AddMessage(full)

	mq.Startup()
	defer mq.Shutdown()
	waitSent(t, fmn)

	msgs := fmn.received()
	require.Len(t, msgs, 1)
	require.True(t, msgs[0].Wantlist.GetFull())
	require.Len(t, msgs[0].Wantlist.Entries, 1)
	require.True(t, msgs[0].Wantlist.Entries[0].Block.Cid.Equals(cids[1]))
}

func TestRetriesFailedSend(t *testing.T) {
	ctx := context.Background()
	fmn := newFakeMessageNetwork()
	fmn.failures = 2
	p := testutil.GeneratePeers(1)[0]
	mq := newMessageQueue(ctx, p, fmn, 3, time.Millisecond)
	mq.Startup()
	defer mq.Shutdown()

	mq.AddWants(1, testutil.GenerateCids(1), nil)
	waitSent(t, fmn)
	require.Len(t, fmn.received(), 1)
}

func TestEmptyWantsSendNothing(t *testing.T) {
	ctx := context.Background()
	fmn := newFakeMessageNetwork()
	p := testutil.GeneratePeers(1)[0]
	mq := New(ctx, p, fmn)
	mq.Startup()
	defer mq.Shutdown()

	mq.AddWants(1, nil, nil)
	select {
	case <-fmn.sent:
		t.Fatal("empty wants should not produce a message")
	case <-time.After(100 * time.Millisecond):
	}
	require.Empty(t, fmn.received())
}
