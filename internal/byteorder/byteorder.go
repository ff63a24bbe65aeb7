package byteorder

import (
	"encoding/binary"
)

// https://linux.die.net/man/3/ntohs
//
// decrypt names:
// h  = host
// n  = network (big endian)
// s  = short     = 16 bit
// l  = long      = 32 bit
// ll = long long = 64 bit
//
// the Append* variants grow dst instead of allocating a fresh slice per
// value, which is what wire.Buffer wants.

func AppendHtons(dst []byte, val uint16) []byte {
	return binary.BigEndian.AppendUint16(dst, val)
}

func AppendHtonl(dst []byte, val uint32) []byte {
	return binary.BigEndian.AppendUint32(dst, val)
}

func AppendHtonll(dst []byte, val uint64) []byte {
	return binary.BigEndian.AppendUint64(dst, val)
}

func Ntohs(buf []byte) uint16 {
	return binary.BigEndian.Uint16(buf)
}

func Ntohl(buf []byte) uint32 {
	return binary.BigEndian.Uint32(buf)
}

func Ntohll(buf []byte) uint64 {
	return binary.BigEndian.Uint64(buf)
}
