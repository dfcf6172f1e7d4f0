package peerblockregistry

import (
	"sync"

	"github.com/adlrocha/go-bitswap/wantlist"

	cid "github.com/ipfs/go-cid"
	peer "github.com/libp2p/go-libp2p-core/peer"
)

// FlatRegistry keeps, for every multihash, the list of associated peers with
// the most recent first, and the inverse index from peer to multihashes so a
// peer can be dropped at once.
type FlatRegistry struct {
	pbrLk sync.RWMutex

	cidList map[string][]peer.ID
	peers   map[peer.ID]map[string]struct{}

	maxEntries int
}

// NewFlatRegistry returns a registry keeping at most maxEntries peers per
// block. A registry created with maxEntries 0 is unbounded.
func NewFlatRegistry(maxEntries int) *FlatRegistry {
	return &FlatRegistry{
		cidList:    make(map[string][]peer.ID),
		peers:      make(map[peer.ID]map[string]struct{}),
		maxEntries: maxEntries,
	}
}

// NewBoundedRegistry returns a registry keeping the default number of
// recent peers per block.
func NewBoundedRegistry() *FlatRegistry {
	return NewFlatRegistry(maxEntries)
}

// GetCandidates to send the WANT-BLOCK to.
func (fr *FlatRegistry) GetCandidates(c cid.Cid) []peer.ID {
	fr.pbrLk.RLock()
	defer fr.pbrLk.RUnlock()

	entries := fr.cidList[wantlist.KeyOf(c)]
	if len(entries) > numberWantBlocks {
		entries = entries[:numberWantBlocks]
	}
	return append([]peer.ID(nil), entries...)
}

// Peers returns every peer associated with c.
func (fr *FlatRegistry) Peers(c cid.Cid) []peer.ID {
	fr.pbrLk.RLock()
	defer fr.pbrLk.RUnlock()

	return append([]peer.ID(nil), fr.cidList[wantlist.KeyOf(c)]...)
}

// UpdateRegistry associates p with c.
func (fr *FlatRegistry) UpdateRegistry(p peer.ID, c cid.Cid) error {
	k := wantlist.KeyOf(c)

	fr.pbrLk.Lock()
	defer fr.pbrLk.Unlock()

	list, evicted, err := addEntry(fr.cidList[k], p, fr.maxEntries)
	if err != nil {
		return err
	}
	fr.cidList[k] = list

	ks, ok := fr.peers[p]
	if !ok {
		ks = make(map[string]struct{})
		fr.peers[p] = ks
	}
	ks[k] = struct{}{}

	if evicted != "" {
		fr.forgetKey(evicted, k)
	}
	return nil
}

// Remove drops the association between p and c.
func (fr *FlatRegistry) Remove(p peer.ID, c cid.Cid) {
	k := wantlist.KeyOf(c)

	fr.pbrLk.Lock()
	defer fr.pbrLk.Unlock()

	fr.removePeerFromKey(p, k)
	fr.forgetKey(p, k)
}

// RemovePeer drops every association of p.
func (fr *FlatRegistry) RemovePeer(p peer.ID) {
	fr.pbrLk.Lock()
	defer fr.pbrLk.Unlock()

	for k := range fr.peers[p] {
		fr.removePeerFromKey(p, k)
	}
	delete(fr.peers, p)
	log.Debugf("removed peer %s from registry", p)
}

// Clear cleans the registry.
func (fr *FlatRegistry) Clear() {
	fr.pbrLk.Lock()
	defer fr.pbrLk.Unlock()

	fr.cidList = make(map[string][]peer.ID)
	fr.peers = make(map[peer.ID]map[string]struct{})
}

// Len returns the number of blocks tracked.
func (fr *FlatRegistry) Len() int {
	fr.pbrLk.RLock()
	defer fr.pbrLk.RUnlock()
	return len(fr.cidList)
}

func (fr *FlatRegistry) removePeerFromKey(p peer.ID, k string) {
	list := fr.cidList[k]
	for i, entry := range list {
		if entry == p {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(fr.cidList, k)
		return
	}
	fr.cidList[k] = list
}

func (fr *FlatRegistry) forgetKey(p peer.ID, k string) {
	ks, ok := fr.peers[p]
	if !ok {
		return
	}
	delete(ks, k)
	if len(ks) == 0 {
		delete(fr.peers, p)
	}
}
