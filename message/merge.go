package message

import (
	pb "github.com/adlrocha/go-bitswap/message/pb"
)

// Merge combines two wire messages into a new one. Neither input is modified.
//
// Wantlist entries and block presences are keyed by CID bytes and blocks by
// their raw data. Items keep the position of their first appearance. On a
// collision b wins: an entry takes the highest priority and b's optional
// flags where b set them, a presence is replaced by b's, a block by b's copy.
// The full flag is a's when set, else b's. Pending bytes add up.
func Merge(a, b *pb.Message) *pb.Message {
	out := new(pb.Message)

	switch {
	case a.Wantlist.Full != nil:
		out.Wantlist.Full = pb.Bool(*a.Wantlist.Full)
	case b.Wantlist.Full != nil:
		out.Wantlist.Full = pb.Bool(*b.Wantlist.Full)
	}

	out.Wantlist.Entries = mergeEntries(a.Wantlist.Entries, b.Wantlist.Entries)
	out.BlockPresences = mergePresences(a.BlockPresences, b.BlockPresences)
	out.Payload = mergePayload(a.Payload, b.Payload)
	out.Blocks = mergeRawBlocks(a.Blocks, b.Blocks)
	out.PendingBytes = a.PendingBytes + b.PendingBytes

	return out
}

func mergeEntries(a, b []pb.Message_Wantlist_Entry) []pb.Message_Wantlist_Entry {
	if len(a)+len(b) == 0 {
		return nil
	}
	out := make([]pb.Message_Wantlist_Entry, 0, len(a)+len(b))
	index := make(map[string]int, len(a)+len(b))
	for _, src := range [2][]pb.Message_Wantlist_Entry{a, b} {
		for _, e := range src {
			k := e.Block.Cid.KeyString()
			i, ok := index[k]
			if !ok {
				index[k] = len(out)
				out = append(out, e)
				continue
			}

			cur := &out[i]
			if e.Priority > cur.Priority {
				cur.Priority = e.Priority
			}
			if e.Cancel != nil {
				cur.Cancel = e.Cancel
			}
			if e.WantType != nil {
				cur.WantType = e.WantType
			}
			if e.SendDontHave != nil {
				cur.SendDontHave = e.SendDontHave
			}
		}
	}
	return out
}

func mergePresences(a, b []pb.Message_BlockPresence) []pb.Message_BlockPresence {
	if len(a)+len(b) == 0 {
		return nil
	}
	out := make([]pb.Message_BlockPresence, 0, len(a)+len(b))
	index := make(map[string]int, len(a)+len(b))
	for _, src := range [2][]pb.Message_BlockPresence{a, b} {
		for _, bp := range src {
			k := bp.Cid.Cid.KeyString()
			if i, ok := index[k]; ok {
				out[i] = bp
				continue
			}
			index[k] = len(out)
			out = append(out, bp)
		}
	}
	return out
}

func mergePayload(a, b []pb.Message_Block) []pb.Message_Block {
	if len(a)+len(b) == 0 {
		return nil
	}
	out := make([]pb.Message_Block, 0, len(a)+len(b))
	index := make(map[string]int, len(a)+len(b))
	for _, src := range [2][]pb.Message_Block{a, b} {
		for _, blk := range src {
			k := string(blk.Data)
			if i, ok := index[k]; ok {
				out[i] = blk
				continue
			}
			index[k] = len(out)
			out = append(out, blk)
		}
	}
	return out
}

func mergeRawBlocks(a, b [][]byte) [][]byte {
	if len(a)+len(b) == 0 {
		return nil
	}
	out := make([][]byte, 0, len(a)+len(b))
	index := make(map[string]int, len(a)+len(b))
	for _, src := range [2][][]byte{a, b} {
		for _, data := range src {
			k := string(data)
			if i, ok := index[k]; ok {
				out[i] = data
				continue
			}
			index[k] = len(out)
			out = append(out, data)
		}
	}
	return out
}
