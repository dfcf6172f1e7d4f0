// Package network connects bitswap to libp2p: it reads messages off
// incoming streams and writes outgoing messages as size-bounded frames.
package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	bsmsg "github.com/adlrocha/go-bitswap/message"
	pb "github.com/adlrocha/go-bitswap/message/pb"

	logging "github.com/ipfs/go-log"
	"github.com/libp2p/go-libp2p-core/connmgr"
	"github.com/libp2p/go-libp2p-core/host"
	"github.com/libp2p/go-libp2p-core/network"
	peer "github.com/libp2p/go-libp2p-core/peer"
	"github.com/libp2p/go-libp2p-core/protocol"
	msgio "github.com/libp2p/go-msgio"
	ma "github.com/multiformats/go-multiaddr"
	msmux "github.com/multiformats/go-multistream"
)

var log = logging.Logger("bitswap/network")

var sendMessageTimeout = time.Minute * 10

// ErrNotSupported is returned when the remote peer speaks none of our
// bitswap protocols.
var ErrNotSupported = errors.New("peer does not support bitswap")

// NewFromIpfsHost returns a BitSwapNetwork supported by underlying IPFS host.
func NewFromIpfsHost(ctx context.Context, host host.Host, opts ...NetOpt) BitSwapNetwork {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	protocols := make([]protocol.ID, 0, len(s.SupportedProtocols))
	for _, proto := range s.SupportedProtocols {
		protocols = append(protocols, s.ProtocolPrefix+proto)
	}

	return &impl{
		host:           host,
		protocolPrefix: s.ProtocolPrefix,
		protocols:      protocols,
		maxMessageSize: s.MaxMessageSize,
		metrics:        newMetrics(ctx),
	}
}

// impl transforms the ipfs network interface, which sends and receives
// NetMessage objects, into the bitswap network interface.
type impl struct {
	// NOTE: Stats must be at the top of the heap allocation to ensure 64bit
	// alignment.
	stats Stats

	host           host.Host
	protocolPrefix protocol.ID
	protocols      []protocol.ID
	maxMessageSize int
	metrics        *metrics

	// inbound messages from the network are forwarded to the receiver
	receiver Receiver
}

func (bsnet *impl) Self() peer.ID {
	return bsnet.host.ID()
}

func (bsnet *impl) newStreamToPeer(ctx context.Context, p peer.ID) (network.Stream, error) {
	s, err := bsnet.host.NewStream(ctx, p, bsnet.protocols...)
	if err != nil {
		if errors.Is(err, msmux.ErrNotSupported) {
			return nil, fmt.Errorf("%w: %s", ErrNotSupported, p)
		}
		return nil, err
	}
	return s, nil
}

// SendMessage opens a stream to p and writes outgoing on it, split into
// frames no larger than the maximum message size.
func (bsnet *impl) SendMessage(ctx context.Context, p peer.ID, outgoing *pb.Message) error {
	s, err := bsnet.newStreamToPeer(ctx, p)
	if err != nil {
		return err
	}

	if err = bsnet.msgToStream(ctx, s, outgoing); err != nil {
		_ = s.Reset()
		return err
	}
	atomic.AddUint64(&bsnet.stats.MessagesSent, 1)
	bsnet.metrics.MessagesSent.Inc()

	return s.Close()
}

func (bsnet *impl) msgToStream(ctx context.Context, s network.Stream, msg *pb.Message) error {
	deadline := time.Now().Add(sendMessageTimeout)
	if dl, ok := ctx.Deadline(); ok {
		deadline = dl
	}
	if err := s.SetWriteDeadline(deadline); err != nil {
		log.Warnf("error setting deadline: %s", err)
	}

	switch s.Protocol() {
	case bsnet.prefixed(ProtocolBitswap), bsnet.prefixed(ProtocolBitswapOneOne):
	case bsnet.prefixed(ProtocolBitswapOneZero), bsnet.prefixed(ProtocolBitswapNoVers):
		// Legacy peers only understand raw blocks and a wantlist.
		m, err := bsmsg.FromProto(msg)
		if err != nil {
			return err
		}
		msg = m.ToProtoV0()
	default:
		return fmt.Errorf("unrecognized protocol on remote: %s", s.Protocol())
	}

	w := msgio.NewVarintWriter(s)
	frames := bsmsg.Split(msg, bsnet.maxMessageSize)
	for frames.Next() {
		frame := frames.Frame()
		if err := w.WriteMsg(frame); err != nil {
			log.Debugf("error writing frame to %s: %s", s.Conn().RemotePeer(), err)
			return err
		}
		atomic.AddUint64(&bsnet.stats.FramesSent, 1)
		bsnet.metrics.FramesSent.Inc()
		bsnet.metrics.FrameSizes.Observe(float64(len(frame)))
	}
	if err := frames.Err(); err != nil {
		return err
	}

	if err := s.SetWriteDeadline(time.Time{}); err != nil {
		log.Warnf("error resetting deadline: %s", err)
	}
	return nil
}

func (bsnet *impl) prefixed(proto protocol.ID) protocol.ID {
	return bsnet.protocolPrefix + proto
}

func (bsnet *impl) Start(r Receiver) {
	bsnet.receiver = r
	for _, proto := range bsnet.protocols {
		bsnet.host.SetStreamHandler(proto, bsnet.handleNewStream)
	}
	bsnet.host.Network().Notify((*netNotifiee)(bsnet))
}

func (bsnet *impl) Stop() {
	for _, proto := range bsnet.protocols {
		bsnet.host.RemoveStreamHandler(proto)
	}
	bsnet.host.Network().StopNotify((*netNotifiee)(bsnet))
}

func (bsnet *impl) ConnectTo(ctx context.Context, p peer.ID) error {
	return bsnet.host.Connect(ctx, peer.AddrInfo{ID: p})
}

func (bsnet *impl) DisconnectFrom(ctx context.Context, p peer.ID) error {
	return bsnet.host.Network().ClosePeer(p)
}

// handleNewStream receives a new stream from the network.
func (bsnet *impl) handleNewStream(s network.Stream) {
	defer s.Close()

	if bsnet.receiver == nil {
		_ = s.Reset()
		return
	}

	reader := msgio.NewVarintReaderSize(s, bsnet.maxMessageSize)
	for {
		received, err := bsmsg.FromMsgReader(reader)
		if err != nil {
			if err != io.EOF {
				_ = s.Reset()
				bsnet.receiver.ReceiveError(err)
				log.Debugf("bitswap net handleNewStream from %s error: %s", s.Conn().RemotePeer(), err)
			}
			return
		}

		p := s.Conn().RemotePeer()
		ctx := context.Background()
		log.Debugf("bitswap net handleNewStream from %s", s.Conn().RemotePeer())
		bsnet.connectionManager().TagPeer(p, "bitswap", 10)
		bsnet.receiver.ReceiveMessage(ctx, p, received)
		atomic.AddUint64(&bsnet.stats.MessagesRecvd, 1)
		bsnet.metrics.MessagesRecvd.Inc()
	}
}

func (bsnet *impl) ConnectionManager() connmgr.ConnManager {
	return bsnet.connectionManager()
}

func (bsnet *impl) connectionManager() connmgr.ConnManager {
	return bsnet.host.ConnManager()
}

func (bsnet *impl) Stats() Stats {
	return Stats{
		MessagesRecvd: atomic.LoadUint64(&bsnet.stats.MessagesRecvd),
		MessagesSent:  atomic.LoadUint64(&bsnet.stats.MessagesSent),
		FramesSent:    atomic.LoadUint64(&bsnet.stats.FramesSent),
	}
}

type netNotifiee impl

func (nn *netNotifiee) impl() *impl {
	return (*impl)(nn)
}

func (nn *netNotifiee) Connected(n network.Network, v network.Conn) {
	nn.impl().receiver.PeerConnected(v.RemotePeer())
}

func (nn *netNotifiee) Disconnected(n network.Network, v network.Conn) {
	// Only the last connection to a peer counts.
	if n.Connectedness(v.RemotePeer()) == network.Connected {
		return
	}
	nn.impl().receiver.PeerDisconnected(v.RemotePeer())
}

func (nn *netNotifiee) OpenedStream(n network.Network, s network.Stream) {}
func (nn *netNotifiee) ClosedStream(n network.Network, v network.Stream) {}
func (nn *netNotifiee) Listen(n network.Network, a ma.Multiaddr)         {}
func (nn *netNotifiee) ListenClose(n network.Network, a ma.Multiaddr)    {}
