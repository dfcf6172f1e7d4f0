package network

import (
	"github.com/libp2p/go-libp2p-core/network"
	"github.com/libp2p/go-libp2p-core/protocol"
)

// NetOpt configures the libp2p bitswap network.
type NetOpt func(*Settings)

// Settings are the options of the libp2p bitswap network.
type Settings struct {
	ProtocolPrefix     protocol.ID
	SupportedProtocols []protocol.ID
	MaxMessageSize     int
}

// Prefix prepends prefix to every bitswap protocol ID.
func Prefix(prefix protocol.ID) NetOpt {
	return func(settings *Settings) {
		settings.ProtocolPrefix = prefix
	}
}

// SupportedProtocols replaces the protocols spoken, in order of preference.
func SupportedProtocols(protos []protocol.ID) NetOpt {
	return func(settings *Settings) {
		settings.SupportedProtocols = protos
	}
}

// MaxMessageSize sets the largest frame written to or read from a stream.
func MaxMessageSize(n int) NetOpt {
	return func(settings *Settings) {
		settings.MaxMessageSize = n
	}
}

func defaultSettings() Settings {
	return Settings{
		SupportedProtocols: []protocol.ID{
			ProtocolBitswap,
			ProtocolBitswapOneOne,
			ProtocolBitswapOneZero,
			ProtocolBitswapNoVers,
		},
		MaxMessageSize: network.MessageSizeMax,
	}
}
