// Package peerblockregistry keeps track of which peers are associated with a
// block: peers that asked for it, sent it, or announced they have it.
package peerblockregistry

import (
	"fmt"

	cid "github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log"
	peer "github.com/libp2p/go-libp2p-core/peer"
)

var log = logging.Logger("pbr")

const (
	numberWantBlocks = 3  // Number of peers to send want blocks to
	maxEntries       = 10 // Default max number of peers per CID in a bounded registry
)

// PeerBlockRegistry implements the table with information about content flowing around.
type PeerBlockRegistry interface {
	// GetCandidates returns the peers most recently associated with the CID,
	// newest first, to send a WANT-BLOCK to.
	GetCandidates(c cid.Cid) []peer.ID
	// Peers returns every peer associated with the CID.
	Peers(c cid.Cid) []peer.ID
	// UpdateRegistry associates the peer with the CID.
	UpdateRegistry(p peer.ID, c cid.Cid) error
	// Remove drops the association between the peer and the CID.
	Remove(p peer.ID, c cid.Cid)
	// RemovePeer drops every association of the peer.
	RemovePeer(p peer.ID)
	// Clear cleans the registry.
	Clear()
}

func removeItem(s []peer.ID, index int) ([]peer.ID, error) {
	if index >= len(s) || index < 0 {
		return nil, fmt.Errorf("wrong index used")
	}
	return append(s[:index], s[index+1:]...), nil
}

// addEntry moves p to the front of peerList. When maxItems is positive the
// oldest peer is evicted once the list grows past it and returned.
func addEntry(peerList []peer.ID, p peer.ID, maxItems int) ([]peer.ID, peer.ID, error) {
	var err error
	for i, entry := range peerList {
		if entry == p {
			// Remove previous entry of the peer in registry
			peerList, err = removeItem(peerList, i)
			if err != nil {
				return nil, "", err
			}
			break
		}
	}
	// Add entry to the beginning
	peerList = append([]peer.ID{p}, peerList...)
	// If size of the CID registry over maximum permitted, remove last item
	var evicted peer.ID
	if maxItems > 0 && len(peerList) > maxItems {
		evicted = peerList[len(peerList)-1]
		peerList, err = removeItem(peerList, len(peerList)-1)
		if err != nil {
			return nil, "", err
		}
	}

	return peerList, evicted, nil
}

// nilRegistry records nothing. It stands in for the registry when
// candidate selection is turned off.
type nilRegistry struct{}

// NewNilRegistry returns a registry that never has candidates.
func NewNilRegistry() PeerBlockRegistry {
	return nilRegistry{}
}

func (nilRegistry) GetCandidates(c cid.Cid) []peer.ID         { return nil }
func (nilRegistry) Peers(c cid.Cid) []peer.ID                 { return nil }
func (nilRegistry) UpdateRegistry(p peer.ID, c cid.Cid) error { return nil }
func (nilRegistry) Remove(p peer.ID, c cid.Cid)               {}
func (nilRegistry) RemovePeer(p peer.ID)                      {}
func (nilRegistry) Clear()                                    {}
