package decision

import (
	"sync"
	"time"

	pb "github.com/adlrocha/go-bitswap/message/pb"
	wl "github.com/adlrocha/go-bitswap/wantlist"

	cid "github.com/ipfs/go-cid"
	peer "github.com/libp2p/go-libp2p-core/peer"
)

// DebtRatioFunc ranks a partner from the bytes we sent it and the bytes we
// received from it. Higher values mean the partner is served later.
type DebtRatioFunc func(sent, recv uint64) float64

// DefaultDebtRatio grows with the bytes sent to the partner and shrinks with
// the bytes received from it.
func DefaultDebtRatio(sent, recv uint64) float64 {
	return float64(sent) / float64(recv+1)
}

// Receipt is a summary of the ledger for a given peer
// collecting various pieces of aggregated data for external
// reporting purposes.
type Receipt struct {
	Peer      string
	Value     float64
	Sent      uint64
	Recv      uint64
	Exchanged uint64
}

func newLedger(p peer.ID) *ledger {
	return &ledger{
		wantList: wl.New(),
		Partner:  p,
	}
}

// ledger stores the data exchange relationship between two peers.
// Every field below Partner is protected by lk.
type ledger struct {
	// Partner is the remote Peer.
	Partner peer.ID

	// bytesSent and bytesRecv account the block payloads exchanged.
	bytesSent uint64
	bytesRecv uint64

	// firstExchange is the time of the first data exchange.
	firstExchange time.Time

	// lastExchange is the time of the last data exchange.
	lastExchange time.Time

	// exchangeCount is the number of exchanges with this peer
	exchangeCount uint64

	// wantList is the peer's last known wantlist.
	wantList *wl.Wantlist

	// removed is set once the ledger is dropped from the engine.
	removed bool

	lk sync.RWMutex
}

func (l *ledger) exchanged() {
	now := time.Now()
	if l.firstExchange.IsZero() {
		l.firstExchange = now
	}
	l.lastExchange = now
	l.exchangeCount++
}

// SentBytes records n block bytes sent to the partner.
func (l *ledger) SentBytes(n int) {
	l.exchanged()
	l.bytesSent += uint64(n)
}

// ReceivedBytes records n block bytes received from the partner.
func (l *ledger) ReceivedBytes(n int) {
	l.exchanged()
	l.bytesRecv += uint64(n)
}

// Wants upserts the entry for c. Any session interest recorded for the
// previous entry is dropped.
func (l *ledger) Wants(c cid.Cid, priority int32, wantType pb.Message_Wantlist_WantType, sendDontHave bool) {
	log.Debugf("peer %s wants %s", l.Partner, c)
	l.wantList.Set(wl.Entry{
		Cid:          c,
		Priority:     priority,
		WantType:     wantType,
		SendDontHave: sendDontHave,
		Session:      wl.PeerSet{},
	})
}

// CancelWant removes c from the wantlist, reporting whether it was present.
func (l *ledger) CancelWant(c cid.Cid) bool {
	return l.wantList.Remove(c)
}

// WantListContains returns the entry for c, if any.
func (l *ledger) WantListContains(c cid.Cid) (wl.Entry, bool) {
	return l.wantList.Contains(c)
}

// ExchangeCount returns the number of exchanges with the partner.
func (l *ledger) ExchangeCount() uint64 {
	return l.exchangeCount
}

func (l *ledger) receipt(debtRatio DebtRatioFunc) *Receipt {
	return &Receipt{
		Peer:      l.Partner.String(),
		Value:     debtRatio(l.bytesSent, l.bytesRecv),
		Sent:      l.bytesSent,
		Recv:      l.bytesRecv,
		Exchanged: l.exchangeCount,
	}
}
