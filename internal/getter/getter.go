// Package getter turns a single-block fetch into the synchronous and
// asynchronous forms of the exchange API.
package getter

import (
	"context"
	"errors"
	"sync"

	"github.com/adlrocha/go-bitswap/tracing"
	wl "github.com/adlrocha/go-bitswap/wantlist"

	blocks "github.com/ipfs/go-block-format"
	cid "github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log"
	"go.opencensus.io/trace"
)

var log = logging.Logger("bitswap/getter")

// ErrUndefinedCid is returned when asked for cid.Undef.
var ErrUndefinedCid = errors.New("undefined cid")

// GetBlockFunc fetches a single block.
type GetBlockFunc func(context.Context, cid.Cid) (blocks.Block, error)

// SyncGetBlock fetches k with get, stopping when p or sessctx ends.
func SyncGetBlock(p, sessctx context.Context, k cid.Cid, get GetBlockFunc) (blocks.Block, error) {
	p, span := tracing.StartSpan(p, "Getter.SyncGetBlock")
	defer span.End()

	if !k.Defined() {
		log.Error("undefined cid in GetBlock")
		return nil, ErrUndefinedCid
	}

	ctx, cancel := context.WithCancel(p)
	defer cancel()
	go func() {
		select {
		case <-sessctx.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	return get(ctx, k)
}

// AsyncGetBlocks fetches every key with get concurrently. Blocks are
// delivered as they arrive; the channel is closed once every fetch is over
// or either context ends. Duplicate keys are fetched once and failed
// fetches are skipped.
func AsyncGetBlocks(ctx, sessctx context.Context, keys []cid.Cid, get GetBlockFunc) <-chan blocks.Block {
	ctx, span := tracing.StartSpan(ctx, "Getter.AsyncGetBlocks")
	span.AddAttributes(trace.Int64Attribute("keys", int64(len(keys))))

	out := make(chan blocks.Block)
	if len(keys) == 0 {
		span.End()
		close(out)
		return out
	}

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-sessctx.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	seen := make(map[string]struct{}, len(keys))
	var wg sync.WaitGroup
	for _, k := range keys {
		key := wl.KeyOf(k)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		wg.Add(1)
		go func(k cid.Cid) {
			defer wg.Done()
			blk, err := get(ctx, k)
			if err != nil {
				log.Debugf("fetching %s failed: %s", k, err)
				return
			}
			select {
			case out <- blk:
			case <-ctx.Done():
			}
		}(k)
	}

	go func() {
		defer span.End()
		wg.Wait()
		cancel()
		close(out)
	}()
	return out
}
