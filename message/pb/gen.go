// Package pb holds the bitswap wire types generated from message.proto.
//
// The cancel, wantType, sendDontHave and full fields keep presence: a nil
// pointer means the sender did not set the field.
package pb

//go:generate protoc --proto_path=$GOPATH/src:. --gogofaster_out=. message.proto
