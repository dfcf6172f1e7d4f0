// Package messagequeue batches the messages sent to one peer: everything
// queued while a send is in flight is merged into the next message.
package messagequeue

import (
	"context"
	"sync"
	"time"

	bsmsg "github.com/adlrocha/go-bitswap/message"
	pb "github.com/adlrocha/go-bitswap/message/pb"

	cid "github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log"
	peer "github.com/libp2p/go-libp2p-core/peer"
)

var log = logging.Logger("bitswap/msgq")

const (
	// maxRetries is the number of times to attempt to send a message before
	// giving up
	maxRetries = 3
	// sendErrorBackoff is the time to wait before retrying to send a
	// message after an error
	sendErrorBackoff = 100 * time.Millisecond
)

// MessageNetwork is any network that can send a message to a peer.
type MessageNetwork interface {
	SendMessage(context.Context, peer.ID, *pb.Message) error
	Self() peer.ID
}

// MessageQueue implements queue of want messages to send to peers.
type MessageQueue struct {
	ctx      context.Context
	shutdown func()
	p        peer.ID
	network  MessageNetwork

	sendErrorBackoff time.Duration
	maxRetries       int

	outgoingWork chan struct{}

	// pending is the message that goes out with the next send
	pendingLk sync.Mutex
	pending   *pb.Message
}

// New creates a new MessageQueue.
func New(ctx context.Context, p peer.ID, network MessageNetwork) *MessageQueue {
	return newMessageQueue(ctx, p, network, maxRetries, sendErrorBackoff)
}

// This constructor is used by the tests
func newMessageQueue(ctx context.Context, p peer.ID, network MessageNetwork, maxRetries int, sendErrorBackoff time.Duration) *MessageQueue {
	ctx, cancel := context.WithCancel(ctx)
	return &MessageQueue{
		ctx:              ctx,
		shutdown:         cancel,
		p:                p,
		network:          network,
		maxRetries:       maxRetries,
		sendErrorBackoff: sendErrorBackoff,
		outgoingWork:     make(chan struct{}, 1),
	}
}

// AddMessage queues m for the peer, merged into whatever is pending. A full
// wantlist supersedes the pending wantlist entries.
func (mq *MessageQueue) AddMessage(m *pb.Message) {
	mq.pendingLk.Lock()
	if mq.pending == nil {
		mq.pending = new(pb.Message)
	}
	if m.Wantlist.GetFull() {
		mq.pending.Wantlist = pb.Message_Wantlist{}
	}
	mq.pending = bsmsg.Merge(mq.pending, m)
	mq.pendingLk.Unlock()

	mq.signalWorkReady()
}

// AddWants queues want-blocks and want-haves for the peer.
func (mq *MessageQueue) AddWants(priority int32, wantBlocks []cid.Cid, wantHaves []cid.Cid) {
	if len(wantBlocks)+len(wantHaves) == 0 {
		return
	}
	msg := bsmsg.New(false)
	for _, c := range wantBlocks {
		msg.AddEntry(c, priority, pb.Message_Wantlist_Block, true)
	}
	for _, c := range wantHaves {
		msg.AddEntry(c, priority, pb.Message_Wantlist_Have, true)
	}
	mq.AddMessage(msg.ToProtoV1())
}

// AddCancels queues cancels for the peer.
func (mq *MessageQueue) AddCancels(cancelKs []cid.Cid) {
	if len(cancelKs) == 0 {
		return
	}
	msg := bsmsg.New(false)
	for _, c := range cancelKs {
		msg.Cancel(c)
	}
	mq.AddMessage(msg.ToProtoV1())
}

// Startup starts the processing of messages.
func (mq *MessageQueue) Startup() {
	go mq.runQueue()
}

// Shutdown stops the processing of messages for a message queue.
func (mq *MessageQueue) Shutdown() {
	mq.shutdown()
}

func (mq *MessageQueue) runQueue() {
	for {
		select {
		case <-mq.outgoingWork:
			mq.sendMessage()
		case <-mq.ctx.Done():
			return
		}
	}
}

func (mq *MessageQueue) signalWorkReady() {
	select {
	case mq.outgoingWork <- struct{}{}:
	default:
	}
}

func (mq *MessageQueue) extractOutgoingMessage() *pb.Message {
	mq.pendingLk.Lock()
	defer mq.pendingLk.Unlock()

	msg := mq.pending
	mq.pending = nil
	return msg
}

func (mq *MessageQueue) sendMessage() {
	msg := mq.extractOutgoingMessage()
	if msg == nil {
		return
	}
	if len(msg.Wantlist.Entries) == 0 && !msg.Wantlist.GetFull() &&
		len(msg.Payload)+len(msg.Blocks)+len(msg.BlockPresences) == 0 {
		return
	}

	mq.logOutgoingMessage(msg)

	for i := 0; i < mq.maxRetries; i++ {
		err := mq.network.SendMessage(mq.ctx, mq.p, msg)
		if err == nil {
			return
		}
		log.Infof("Could not send message to peer %s (attempt %d): %s", mq.p, i+1, err)

		select {
		case <-mq.ctx.Done():
			return
		case <-time.After(mq.sendErrorBackoff):
		}
	}
	log.Warnf("giving up sending %d entries to %s", len(msg.Wantlist.Entries), mq.p)
}

func (mq *MessageQueue) logOutgoingMessage(msg *pb.Message) {
	self := mq.network.Self()
	for _, e := range msg.Wantlist.Entries {
		c := e.Block.Cid
		switch {
		case e.GetCancel():
			log.Debugw("sent message", "type", "CANCEL", "cid", c, "local", self, "to", mq.p)
		case e.GetWantType() == pb.Message_Wantlist_Have:
			log.Debugw("sent message", "type", "WANT_HAVE", "cid", c, "local", self, "to", mq.p)
		default:
			log.Debugw("sent message", "type", "WANT_BLOCK", "cid", c, "local", self, "to", mq.p)
		}
	}
}
