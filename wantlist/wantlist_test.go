package wantlist_test

import (
	"testing"

	"github.com/adlrocha/go-bitswap/internal/testutil"
	pb "github.com/adlrocha/go-bitswap/message/pb"
	"github.com/adlrocha/go-bitswap/wantlist"

	cid "github.com/ipfs/go-cid"
)

var testcids = testutil.GenerateCids(3)

type wli interface {
	Contains(cid.Cid) (wantlist.Entry, bool)
}

func assertHasCid(t *testing.T, w wli, c cid.Cid) {
	e, ok := w.Contains(c)
	if !ok {
		t.Fatal("expected to have ", c)
	}
	if !e.Cid.Equals(c) {
		t.Fatal("returned entry had wrong cid value")
	}
}

func TestBasicWantlist(t *testing.T) {
	wl := wantlist.New()

	if !wl.Add(testcids[0], 5, pb.Message_Wantlist_Block) {
		t.Fatal("expected true")
	}
	assertHasCid(t, wl, testcids[0])
	if !wl.Add(testcids[1], 4, pb.Message_Wantlist_Block) {
		t.Fatal("expected true")
	}
	assertHasCid(t, wl, testcids[0])
	assertHasCid(t, wl, testcids[1])

	if wl.Len() != 2 {
		t.Fatal("should have had two items")
	}

	if wl.Add(testcids[1], 4, pb.Message_Wantlist_Block) {
		t.Fatal("add shouldnt report success on second add")
	}
	assertHasCid(t, wl, testcids[0])
	assertHasCid(t, wl, testcids[1])

	if wl.Len() != 2 {
		t.Fatal("should have had two items")
	}

	if !wl.RemoveType(testcids[0], pb.Message_Wantlist_Block) {
		t.Fatal("should have gotten true")
	}

	assertHasCid(t, wl, testcids[1])
	if _, has := wl.Contains(testcids[0]); has {
		t.Fatal("shouldnt have this cid")
	}
}

func TestAddHaveThenBlock(t *testing.T) {
	wl := wantlist.New()

	wl.Add(testcids[0], 5, pb.Message_Wantlist_Have)
	wl.Add(testcids[0], 5, pb.Message_Wantlist_Block)

	e, ok := wl.Contains(testcids[0])
	if !ok {
		t.Fatal("expected to have ", testcids[0])
	}
	if e.WantType != pb.Message_Wantlist_Block {
		t.Fatal("expected to be ", pb.Message_Wantlist_Block)
	}
}

func TestAddBlockThenHave(t *testing.T) {
	wl := wantlist.New()

	wl.Add(testcids[0], 5, pb.Message_Wantlist_Block)
	wl.Add(testcids[0], 5, pb.Message_Wantlist_Have)

	e, ok := wl.Contains(testcids[0])
	if !ok {
		t.Fatal("expected to have ", testcids[0])
	}
	if e.WantType != pb.Message_Wantlist_Block {
		t.Fatal("expected to be ", pb.Message_Wantlist_Block)
	}
}

func TestRemoveHaveThenBlock(t *testing.T) {
	wl := wantlist.New()

	wl.Add(testcids[0], 5, pb.Message_Wantlist_Block)
	if wl.RemoveType(testcids[0], pb.Message_Wantlist_Have) {
		t.Fatal("removing a want-have should not remove a want-block")
	}
	if _, ok := wl.Contains(testcids[0]); !ok {
		t.Fatal("expected to have ", testcids[0])
	}

	if !wl.Remove(testcids[0]) {
		t.Fatal("expected remove to succeed")
	}
	if wl.Len() != 0 {
		t.Fatal("expected an empty wantlist")
	}
}

func TestKeyedByMultihash(t *testing.T) {
	wl := wantlist.New()
	v0 := testcids[0]
	v1 := cid.NewCidV1(cid.DagProtobuf, v0.Hash())

	wl.Add(v0, 1, pb.Message_Wantlist_Block)
	if wl.Add(v1, 1, pb.Message_Wantlist_Block) {
		t.Fatal("a CIDv1 of the same multihash should share the entry")
	}
	assertHasCid(t, wl, v0)
	if _, ok := wl.Contains(v1); !ok {
		t.Fatal("lookup by CIDv1 should find the entry")
	}
	if wantlist.KeyOf(v0) != wantlist.KeyOf(v1) {
		t.Fatal("keys should match")
	}
}

func TestSortEntries(t *testing.T) {
	wl := wantlist.New()

	wl.Add(testcids[0], 3, pb.Message_Wantlist_Block)
	wl.Add(testcids[1], 5, pb.Message_Wantlist_Have)
	wl.Add(testcids[2], 4, pb.Message_Wantlist_Have)

	entries := wl.Entries()
	if !entries[0].Cid.Equals(testcids[1]) ||
		!entries[1].Cid.Equals(testcids[2]) ||
		!entries[2].Cid.Equals(testcids[0]) {
		t.Fatal("wrong order")
	}
}

func TestSessionPeers(t *testing.T) {
	wl := wantlist.New()
	peers := testutil.GeneratePeers(2)

	if wl.AddSession(testcids[0], peers...) {
		t.Fatal("cannot add a session to a missing entry")
	}

	wl.Add(testcids[0], 1, pb.Message_Wantlist_Block)
	if !wl.AddSession(testcids[0], peers[0]) {
		t.Fatal("expected to add the session")
	}
	e, _ := wl.Contains(testcids[0])
	if !e.Session.Has(peers[0]) || e.Session.Has(peers[1]) {
		t.Fatal("unexpected session peers")
	}

	// Set replaces the entry with a fresh session set
	wl.Set(wantlist.Entry{Cid: testcids[0], Priority: 2, WantType: pb.Message_Wantlist_Have})
	e, _ = wl.Contains(testcids[0])
	if e.Priority != 2 || e.WantType != pb.Message_Wantlist_Have || len(e.Session) != 0 {
		t.Fatalf("unexpected entry after set: %+v", e)
	}
}

func TestClear(t *testing.T) {
	wl := wantlist.New()
	wl.Add(testcids[0], 1, pb.Message_Wantlist_Block)
	wl.Add(testcids[1], 2, pb.Message_Wantlist_Have)

	wl.Clear()
	if wl.Len() != 0 || len(wl.Entries()) != 0 {
		t.Fatal("expected an empty wantlist")
	}
}
