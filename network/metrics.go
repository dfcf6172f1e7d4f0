package network

import (
	"context"

	imetrics "github.com/ipfs/go-metrics-interface"
)

var frameSizesHistogramBuckets = []float64{1, 1 << 10, 16 << 10, 128 << 10, 512 << 10, 1024 << 10, 2048 << 10, 4096 << 10}

type metrics struct {
	MessagesSent  imetrics.Counter
	MessagesRecvd imetrics.Counter
	FramesSent    imetrics.Counter
	FrameSizes    imetrics.Histogram
}

func newMetrics(ctx context.Context) *metrics {
	ctx = imetrics.CtxSubScope(ctx, "network")

	return &metrics{
		MessagesSent:  imetrics.NewCtx(ctx, "messages_sent_total", "Total number of messages sent").Counter(),
		MessagesRecvd: imetrics.NewCtx(ctx, "messages_received_total", "Total number of messages received").Counter(),
		FramesSent:    imetrics.NewCtx(ctx, "frames_sent_total", "Total number of frames written").Counter(),
		FrameSizes:    imetrics.NewCtx(ctx, "frame_bytes", "Histogram of written frame sizes").Histogram(frameSizesHistogramBuckets),
	}
}
