package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Job IDs are ULIDs: 26-character Crockford Base32 strings with a leading
// millisecond timestamp, so IDs sort by creation time.

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

// NewJobID returns a fresh ULID.
func NewJobID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var entropy [10]byte
	rand.Read(entropy[:])
	// Embed the sequence so IDs within one millisecond stay unique.
	binary.BigEndian.PutUint16(entropy[:2], lastSeq)

	return encodeULID(ts, entropy)
}

func encodeULID(ts uint64, entropy [10]byte) string {
	var out [26]byte

	// 48-bit timestamp -> 10 characters, most significant first.
	for i := 9; i >= 0; i-- {
		out[i] = crockford[ts&31]
		ts >>= 5
	}

	// 80 bits of entropy -> 16 characters, 5 bits at a time.
	var acc, bits uint
	j := 10
	for _, b := range entropy {
		acc = acc<<8 | uint(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[j] = crockford[(acc>>bits)&31]
			j++
		}
	}

	return string(out[:])
}
