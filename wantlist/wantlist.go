// Package wantlist implements an object for bitswap that contains the keys
// that a given peer wants.
package wantlist

import (
	"sort"

	pb "github.com/adlrocha/go-bitswap/message/pb"

	cid "github.com/ipfs/go-cid"
	peer "github.com/libp2p/go-libp2p-core/peer"
)

// Wantlist is a raw list of wanted blocks and their priorities.
// Entries are keyed by the multihash of their CID, so CIDs that only differ
// in version or codec share an entry.
type Wantlist struct {
	set map[string]Entry

	// Re-computing this can get expensive so we memoize it.
	cached []Entry
}

// PeerSet is a set of peers interested in a want.
type PeerSet map[peer.ID]struct{}

// NewPeerSet returns a set holding the given peers.
func NewPeerSet(peers ...peer.ID) PeerSet {
	ps := make(PeerSet, len(peers))
	for _, p := range peers {
		ps[p] = struct{}{}
	}
	return ps
}

// Peers returns the members of the set.
func (ps PeerSet) Peers() []peer.ID {
	out := make([]peer.ID, 0, len(ps))
	for p := range ps {
		out = append(out, p)
	}
	return out
}

// Has reports whether p is in the set.
func (ps PeerSet) Has(p peer.ID) bool {
	_, ok := ps[p]
	return ok
}

// Entry is an entry in a want list, consisting of a cid and its priority
type Entry struct {
	Cid          cid.Cid
	Priority     int32
	WantType     pb.Message_Wantlist_WantType
	SendDontHave bool
	// Session holds the peers of the sessions that are interested in the
	// entry. Empty when no session is targeting it.
	Session PeerSet
}

// NewRefEntry creates a new reference tracked wantlist entry.
func NewRefEntry(c cid.Cid, p int32) Entry {
	return Entry{
		Cid:      c,
		Priority: p,
		WantType: pb.Message_Wantlist_Block,
		Session:  PeerSet{},
	}
}

type entrySlice []Entry

func (es entrySlice) Len() int           { return len(es) }
func (es entrySlice) Swap(i, j int)      { es[i], es[j] = es[j], es[i] }
func (es entrySlice) Less(i, j int) bool { return es[i].Priority > es[j].Priority }

// KeyOf returns the key under which c is stored: its raw multihash bytes.
func KeyOf(c cid.Cid) string {
	return string(c.Hash())
}

// New generates a new raw Wantlist
func New() *Wantlist {
	return &Wantlist{
		set: make(map[string]Entry),
	}
}

// Len returns the number of entries in a wantlist.
func (w *Wantlist) Len() int {
	return len(w.set)
}

// Add adds an entry in a wantlist from CID & Priority, if not already present.
// A want-have does not replace a want-block; a want-block upgrades a want-have.
func (w *Wantlist) Add(c cid.Cid, priority int32, wantType pb.Message_Wantlist_WantType) bool {
	k := KeyOf(c)
	e, ok := w.set[k]

	// Adding want-have should not override want-block
	if ok && (e.WantType == pb.Message_Wantlist_Block || wantType == pb.Message_Wantlist_Have) {
		return false
	}

	session := e.Session
	if session == nil {
		session = PeerSet{}
	}
	w.put(k, Entry{
		Cid:          c,
		Priority:     priority,
		WantType:     wantType,
		SendDontHave: e.SendDontHave,
		Session:      session,
	})

	return true
}

// Set stores e unconditionally, replacing any entry for the same multihash.
func (w *Wantlist) Set(e Entry) {
	if e.Session == nil {
		e.Session = PeerSet{}
	}
	w.put(KeyOf(e.Cid), e)
}

// Remove removes the given cid from the wantlist.
func (w *Wantlist) Remove(c cid.Cid) bool {
	k := KeyOf(c)
	_, ok := w.set[k]
	if !ok {
		return false
	}

	w.delete(k)
	return true
}

// RemoveType removes the given cid from the wantlist, respecting the type:
// Remove with want-have will not remove an existing want-block.
func (w *Wantlist) RemoveType(c cid.Cid, wantType pb.Message_Wantlist_WantType) bool {
	k := KeyOf(c)
	e, ok := w.set[k]
	if !ok {
		return false
	}

	// Removing want-have should not remove want-block
	if e.WantType == pb.Message_Wantlist_Block && wantType == pb.Message_Wantlist_Have {
		return false
	}

	w.delete(k)
	return true
}

// AddSession records that the sessions made of peers want c.
func (w *Wantlist) AddSession(c cid.Cid, peers ...peer.ID) bool {
	e, ok := w.set[KeyOf(c)]
	if !ok {
		return false
	}
	for _, p := range peers {
		e.Session[p] = struct{}{}
	}
	return true
}

func (w *Wantlist) delete(k string) {
	delete(w.set, k)
	w.cached = nil
}

func (w *Wantlist) put(k string, e Entry) {
	w.cached = nil
	w.set[k] = e
}

// Contains returns the entry, if present, for the given CID, plus whether it
// was present.
func (w *Wantlist) Contains(c cid.Cid) (Entry, bool) {
	e, ok := w.set[KeyOf(c)]
	return e, ok
}

// Entries returns all wantlist entries for a want list, sorted by priority.
//
// DO NOT MODIFY. The returned list is cached.
func (w *Wantlist) Entries() []Entry {
	if w.cached != nil {
		return w.cached
	}
	es := make([]Entry, 0, len(w.set))
	for _, e := range w.set {
		es = append(es, e)
	}
	sort.Stable(entrySlice(es))
	w.cached = es
	return es[0:len(es):len(es)]
}

// Clear removes every entry.
func (w *Wantlist) Clear() {
	w.set = make(map[string]Entry)
	w.cached = nil
}

// SortEntries sorts the list of entries by priority.
func SortEntries(es []Entry) {
	sort.Stable(entrySlice(es))
}
