package pb

import (
	"testing"

	"github.com/gogo/protobuf/gogoproto"
	"github.com/gogo/protobuf/protoc-gen-gogo/descriptor"
	cid "github.com/ipfs/go-cid"
	u "github.com/ipfs/go-ipfs-util"
	"github.com/stretchr/testify/require"
)

func TestDescriptorMatchesGoTypes(t *testing.T) {
	fd, md := descriptor.ForMessage(&Message_Wantlist_Entry{})
	require.Equal(t, "message.proto", fd.GetName())
	require.Equal(t, "bitswap.message.pb", fd.GetPackage())
	require.Empty(t, fd.GetSyntax(), "schema is proto2")
	require.Equal(t, "Entry", md.GetName())

	nullable := map[string]bool{
		"block":        false,
		"priority":     false,
		"cancel":       true,
		"wantType":     true,
		"sendDontHave": true,
	}
	for name, want := range nullable {
		f := md.GetFieldDescriptor(name)
		require.NotNil(t, f, name)
		require.Equal(t, want, gogoproto.IsNullable(f), name)
	}
	require.Equal(t, "Cid", gogoproto.GetCustomType(md.GetFieldDescriptor("block")))

	_, wl := descriptor.ForMessage(&Message_Wantlist{})
	require.True(t, gogoproto.IsNullable(wl.GetFieldDescriptor("full")))

	_, bp := descriptor.ForMessage(&Message_BlockPresence{})
	require.False(t, gogoproto.IsNullable(bp.GetFieldDescriptor("type")))
	require.Equal(t, "Cid", gogoproto.GetCustomType(bp.GetFieldDescriptor("cid")))
}

func TestPresenceSurvivesRoundTrip(t *testing.T) {
	c := cid.NewCidV0(u.Hash([]byte("presence")))
	src := Message{
		Wantlist: Message_Wantlist{
			Entries: []Message_Wantlist_Entry{
				{Block: Cid{Cid: c}, Priority: 3, Cancel: Bool(false), WantType: Message_Wantlist_Block.Enum()},
				{Block: Cid{Cid: c}},
			},
		},
	}

	data, err := src.Marshal()
	require.NoError(t, err)
	require.Len(t, data, src.Size())

	var got Message
	require.NoError(t, got.Unmarshal(data))
	require.Nil(t, got.Wantlist.Full)

	set := got.Wantlist.Entries[0]
	require.True(t, set.Block.Cid.Equals(c))
	require.Equal(t, int32(3), set.Priority)
	require.NotNil(t, set.Cancel)
	require.False(t, *set.Cancel)
	require.NotNil(t, set.WantType)
	require.Equal(t, Message_Wantlist_Block, *set.WantType)
	require.Nil(t, set.SendDontHave)

	unset := got.Wantlist.Entries[1]
	require.Nil(t, unset.Cancel)
	require.Nil(t, unset.WantType)
	require.Nil(t, unset.SendDontHave)
	require.Equal(t, Message_Wantlist_Block, unset.GetWantType())
}

func TestUnknownFieldsSkipped(t *testing.T) {
	src := Message{PendingBytes: 9}
	data, err := src.Marshal()
	require.NoError(t, err)

	// field 15, varint 1, then field 14, length delimited "xy"
	data = append(data, 0x78, 0x01, 0x72, 0x02, 'x', 'y')

	var got Message
	require.NoError(t, got.Unmarshal(data))
	require.Equal(t, int32(9), got.PendingBytes)
}
