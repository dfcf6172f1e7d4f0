package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/adlrocha/go-bitswap/internal/testutil"
	"github.com/adlrocha/go-bitswap/internal/wantmanager"
	wl "github.com/adlrocha/go-bitswap/wantlist"

	blocks "github.com/ipfs/go-block-format"
	cid "github.com/ipfs/go-cid"
	peer "github.com/libp2p/go-libp2p-core/peer"
	"github.com/stretchr/testify/require"
)

// fakeWantManager answers wants from a fixed set of blocks and records the
// peers each want was scoped to.
type fakeWantManager struct {
	lk     sync.Mutex
	blks   map[string]blocks.Block
	scopes [][]peer.ID
}

func newFakeWantManager(blks ...blocks.Block) *fakeWantManager {
	fwm := &fakeWantManager{blks: make(map[string]blocks.Block)}
	for _, b := range blks {
		fwm.blks[wl.KeyOf(b.Cid())] = b
	}
	return fwm
}

func (fwm *fakeWantManager) Want(ctx context.Context, c cid.Cid, opts wantmanager.WantOptions) (blocks.Block, error) {
	fwm.lk.Lock()
	fwm.scopes = append(fwm.scopes, opts.Session)
	blk, ok := fwm.blks[wl.KeyOf(c)]
	fwm.lk.Unlock()
	if ok {
		return blk, nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (fwm *fakeWantManager) wants() [][]peer.ID {
	fwm.lk.Lock()
	defer fwm.lk.Unlock()
	return append([][]peer.ID(nil), fwm.scopes...)
}

func TestWantWithoutPeersFailsImmediately(t *testing.T) {
	ctx := context.Background()
	fwm := newFakeWantManager()
	s := New(ctx, 1, fwm)

	_, err := s.Want(ctx, testutil.GenerateCids(1)[0])
	require.True(t, errors.Is(err, ErrNoSessionPeers))

	_, err = s.GetBlocks(ctx, testutil.GenerateCids(2))
	require.True(t, errors.Is(err, ErrNoSessionPeers))

	require.Empty(t, fwm.wants())
}

func TestAddPeerIsPickedUpByLaterWants(t *testing.T) {
	ctx := context.Background()
	blk := testutil.GenerateBlocks(1)[0]
	fwm := newFakeWantManager(blk)
	s := New(ctx, 1, fwm)

	peers := testutil.GeneratePeers(2)
	s.AddPeer(peers[0])
	got, err := s.Want(ctx, blk.Cid())
	require.NoError(t, err)
	require.True(t, got.Cid().Equals(blk.Cid()))

	s.AddPeer(peers[1])
	_, err = s.GetBlock(ctx, blk.Cid())
	require.NoError(t, err)

	s.RemovePeer(peers[0])
	require.False(t, s.HasPeer(peers[0]))
	_, err = s.Want(ctx, blk.Cid())
	require.NoError(t, err)

	scopes := fwm.wants()
	require.Len(t, scopes, 3)
	require.Equal(t, []peer.ID{peers[0]}, scopes[0])
	require.Len(t, scopes[1], 2)
	require.Equal(t, []peer.ID{peers[1]}, scopes[2])
}

func TestGetBlocks(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	blks := testutil.GenerateBlocks(5)
	fwm := newFakeWantManager(blks...)
	s := New(ctx, 7, fwm, testutil.GeneratePeers(1)...)

	keys := make([]cid.Cid, 0, len(blks)+1)
	for _, b := range blks {
		keys = append(keys, b.Cid())
	}
	// duplicates are fetched once
	keys = append(keys, blks[0].Cid())

	out, err := s.GetBlocks(ctx, keys)
	require.NoError(t, err)

	var got []blocks.Block
	for blk := range out {
		got = append(got, blk)
	}
	require.Len(t, got, len(blks))
	for _, b := range blks {
		require.True(t, testutil.ContainsBlock(got, b))
	}
	require.Len(t, fwm.wants(), len(blks))
}

func TestGetBlocksClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fwm := newFakeWantManager()
	s := New(ctx, 1, fwm, testutil.GeneratePeers(1)...)

	out, err := s.GetBlocks(ctx, testutil.GenerateCids(3))
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-out:
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
