package konl

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// hashSaltA and hashSaltB seed the two xxhash passes combined into a
// 128-bit document hash. Their only requirement is that they differ;
// the values themselves carry no meaning.
var (
	hashSaltA = []byte{0x6b, 0x6f, 0x6e, 0x6c, 0x2d, 0x61, 0x00, 0x00}
	hashSaltB = []byte{0x6b, 0x6f, 0x6e, 0x6c, 0x2d, 0x62, 0x00, 0x00}
)

// hash128 returns a 16-byte document hash, the pack's substitute for the
// spec's xxh128: two independently-seeded 64-bit xxhash.Sum64 passes
// concatenated. No 128-bit xxHash binding is available in the retrieval
// pack; this is recorded as a deliberate substitution in DESIGN.md.
func hash128(doc string) [16]byte {
	var out [16]byte

	d := xxhash.New()
	_, _ = d.Write(hashSaltA)
	_, _ = d.Write([]byte(doc))
	binary.BigEndian.PutUint64(out[0:8], d.Sum64())

	d2 := xxhash.New()
	_, _ = d2.Write(hashSaltB)
	_, _ = d2.Write([]byte(doc))
	binary.BigEndian.PutUint64(out[8:16], d2.Sum64())

	return out
}

// hashHex renders a hash128 result as the spec's 32-hex-digit hash key
// segment.
func hashHex(h [16]byte) string {
	return hex.EncodeToString(h[:])
}
