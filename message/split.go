package message

import (
	"errors"
	"fmt"

	pb "github.com/adlrocha/go-bitswap/message/pb"

	pool "github.com/libp2p/go-buffer-pool"
)

const (
	// MaxBlockSize is the largest block the protocol carries.
	MaxBlockSize = 4193648
	// maxBlockSizeSlack is the room left for the tag and length prefix
	// around a block of MaxBlockSize.
	maxBlockSizeSlack = 16
)

// ErrBlockTooLarge is returned by a FrameIterator when an item can not be
// carried by any frame.
var ErrBlockTooLarge = errors.New("block too large")

// FrameIterator lazily cuts a message into encoded frames of bounded size.
// It can only be consumed once.
//
//	it := message.Split(m, maxSize)
//	for it.Next() {
//		send(it.Frame())
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type FrameIterator struct {
	src     *pb.Message
	maxSize int

	// cursors into the source lists
	payload   int
	raw       int
	presences int
	entries   int

	frames int
	frame  []byte
	err    error
	done   bool
}

// Split returns an iterator over the frames of m. Every frame encodes to at
// most maxSize bytes. Items are packed greedily in order: blocks, then block
// presences, then wantlist entries. The first frame carries the full flag and
// the pending bytes of m; later frames are never marked full.
func Split(m *pb.Message, maxSize int) *FrameIterator {
	return &FrameIterator{
		src:     m,
		maxSize: maxSize,
	}
}

// SplitAll encodes every frame of m.
func SplitAll(m *pb.Message, maxSize int) ([][]byte, error) {
	var frames [][]byte
	it := Split(m, maxSize)
	for it.Next() {
		frames = append(frames, append([]byte(nil), it.Frame()...))
	}
	return frames, it.Err()
}

// Frame returns the frame produced by the last call to Next. The frame lives
// in a pooled buffer and is only valid until the next call to Next.
func (it *FrameIterator) Frame() []byte {
	return it.frame
}

// Err returns the error that stopped the iteration, if any.
func (it *FrameIterator) Err() error {
	return it.err
}

// Next encodes the next frame. It returns false once every item has been
// emitted or an error occurred.
func (it *FrameIterator) Next() bool {
	if it.done {
		return false
	}
	it.release()
	if it.frames == 0 {
		if err := it.checkItems(); err != nil {
			return it.fail(err)
		}
	} else if !it.remaining() {
		it.done = true
		return false
	}

	src := it.src
	var frame pb.Message
	if it.frames == 0 {
		frame.Wantlist.Full = src.Wantlist.Full
		frame.PendingBytes = src.PendingBytes
	}
	s := newFrameSizer(&frame, it.maxSize)

	start := it.payload
	for it.payload < len(src.Payload) && s.addOuter(src.Payload[it.payload].Size()) {
		it.payload++
	}
	frame.Payload = src.Payload[start:it.payload]

	if it.payload == len(src.Payload) {
		start = it.raw
		for it.raw < len(src.Blocks) && s.addOuter(len(src.Blocks[it.raw])) {
			it.raw++
		}
		frame.Blocks = src.Blocks[start:it.raw]
	}

	start = it.presences
	for it.presences < len(src.BlockPresences) && s.addOuter(src.BlockPresences[it.presences].Size()) {
		it.presences++
	}
	frame.BlockPresences = src.BlockPresences[start:it.presences]

	start = it.entries
	for it.entries < len(src.Wantlist.Entries) && s.addEntry(src.Wantlist.Entries[it.entries].Size()) {
		it.entries++
	}
	frame.Wantlist.Entries = src.Wantlist.Entries[start:it.entries]

	// An item that only misses the first frame because of the full flag and
	// the pending bytes goes out in the next one.
	if s.items == 0 && it.remaining() && (it.frames > 0 || !it.fitsBare()) {
		return it.fail(fmt.Errorf("%w: next item does not fit in a frame of %d bytes", ErrBlockTooLarge, it.maxSize))
	}

	buf := pool.Get(frame.Size())
	n, err := frame.MarshalTo(buf)
	if err != nil {
		pool.Put(buf)
		return it.fail(err)
	}
	it.frame = buf[:n]
	it.frames++
	return true
}

func (it *FrameIterator) fail(err error) bool {
	it.release()
	it.err = err
	it.done = true
	return false
}

// release hands the buffer of the last frame back to the pool.
func (it *FrameIterator) release() {
	if it.frame != nil {
		pool.Put(it.frame)
		it.frame = nil
	}
}

// fitsBare reports whether the next pending item fits in a frame that carries
// neither the full flag nor pending bytes.
func (it *FrameIterator) fitsBare() bool {
	src := it.src
	s := newFrameSizer(&pb.Message{}, it.maxSize)
	switch {
	case it.payload < len(src.Payload):
		return s.addOuter(src.Payload[it.payload].Size())
	case it.raw < len(src.Blocks):
		return s.addOuter(len(src.Blocks[it.raw]))
	case it.presences < len(src.BlockPresences):
		return s.addOuter(src.BlockPresences[it.presences].Size())
	default:
		return s.addEntry(src.Wantlist.Entries[it.entries].Size())
	}
}

func (it *FrameIterator) remaining() bool {
	return it.payload < len(it.src.Payload) ||
		it.raw < len(it.src.Blocks) ||
		it.presences < len(it.src.BlockPresences) ||
		it.entries < len(it.src.Wantlist.Entries)
}

// checkItems rejects any item larger than the protocol allows, before the
// first frame goes out.
func (it *FrameIterator) checkItems() error {
	limit := MaxBlockSize + maxBlockSizeSlack
	for i := range it.src.Payload {
		if n := framedSize(it.src.Payload[i].Size()); n > limit {
			return fmt.Errorf("%w: block of %d bytes exceeds %d", ErrBlockTooLarge, n, limit)
		}
	}
	for _, b := range it.src.Blocks {
		if n := framedSize(len(b)); n > limit {
			return fmt.Errorf("%w: block of %d bytes exceeds %d", ErrBlockTooLarge, n, limit)
		}
	}
	for i := range it.src.BlockPresences {
		if n := framedSize(it.src.BlockPresences[i].Size()); n > limit {
			return fmt.Errorf("%w: block presence of %d bytes exceeds %d", ErrBlockTooLarge, n, limit)
		}
	}
	for i := range it.src.Wantlist.Entries {
		if n := framedSize(it.src.Wantlist.Entries[i].Size()); n > limit {
			return fmt.Errorf("%w: wantlist entry of %d bytes exceeds %d", ErrBlockTooLarge, n, limit)
		}
	}
	return nil
}

// frameSizer tracks the exact encoded size of a frame while it is filled.
// The wantlist is a nested message so its length prefix is recomputed as
// entries are added.
type frameSizer struct {
	maxSize int
	outer   int
	wlBody  int
	items   int
}

func newFrameSizer(frame *pb.Message, maxSize int) *frameSizer {
	s := &frameSizer{maxSize: maxSize}
	s.outer += 1 + pb.SizeOfVarint(uint64(frame.PendingBytes))
	if frame.Wantlist.Full != nil {
		s.wlBody += 2
	}
	return s
}

func (s *frameSizer) size(outer, wlBody int) int {
	return outer + framedSize(wlBody)
}

// addOuter accounts for a top level item whose body is n bytes long, if it
// fits.
func (s *frameSizer) addOuter(n int) bool {
	outer := s.outer + framedSize(n)
	if s.size(outer, s.wlBody) > s.maxSize {
		return false
	}
	s.outer = outer
	s.items++
	return true
}

// addEntry accounts for a wantlist entry whose body is n bytes long, if it
// fits.
func (s *frameSizer) addEntry(n int) bool {
	wlBody := s.wlBody + framedSize(n)
	if s.size(s.outer, wlBody) > s.maxSize {
		return false
	}
	s.wlBody = wlBody
	s.items++
	return true
}

// framedSize is the size of a length delimited field with a body of n bytes
// and a one byte tag.
func framedSize(n int) int {
	return 1 + pb.SizeOfVarint(uint64(n)) + n
}
