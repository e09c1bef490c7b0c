// Package codec picks one binary encoding per key family and applies it
// uniformly, the way serialization formats should be chosen for a
// strongly-typed store: fixed-width big-endian integers for counters and
// ids, length-prefixed UTF-8 strings for token sets, and a single
// presence byte for set-membership markers. Nothing here reaches for
// encoding/json: hot-path values are small and fixed-shape enough that
// a JSON envelope would only add overhead.
package codec

import (
	"encoding/binary"
	"fmt"
)

// Present is the value written for a set-membership marker key.
var Present = []byte{0x01}

// PutUint64 encodes v as an 8-byte big-endian value.
func PutUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

// Uint64 decodes an 8-byte big-endian value written by PutUint64.
func Uint64(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("codec: uint64 value must be 8 bytes, got %d", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// PutStringSet encodes a set of strings as a uint32 count header followed
// by each member as a uint32-length-prefixed UTF-8 string.
func PutStringSet(members map[string]struct{}) []byte {
	size := 4
	for m := range members {
		size += 4 + len(m)
	}

	buf := make([]byte, 4, size)
	binary.BigEndian.PutUint32(buf, uint32(len(members)))

	for m := range members {
		lenBuf := make([]byte, 4)
		binary.BigEndian.PutUint32(lenBuf, uint32(len(m)))
		buf = append(buf, lenBuf...)
		buf = append(buf, m...)
	}

	return buf
}

// StringSet decodes a value written by PutStringSet.
func StringSet(b []byte) (map[string]struct{}, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("codec: string set value truncated")
	}

	count := binary.BigEndian.Uint32(b[:4])
	b = b[4:]

	out := make(map[string]struct{}, count)
	for i := uint32(0); i < count; i++ {
		if len(b) < 4 {
			return nil, fmt.Errorf("codec: string set value truncated at member %d", i)
		}
		n := binary.BigEndian.Uint32(b[:4])
		b = b[4:]

		if uint32(len(b)) < n {
			return nil, fmt.Errorf("codec: string set value truncated reading member %d", i)
		}
		out[string(b[:n])] = struct{}{}
		b = b[n:]
	}

	return out, nil
}
