package pb

// Bool returns a pointer to a copy of v, for use in optional fields.
func Bool(v bool) *bool {
	return &v
}

// SizeOfVarint returns the number of bytes needed to encode x as a protobuf
// varint.
func SizeOfVarint(x uint64) int {
	return sovMessage(x)
}
