package service

import (
	"crypto/sha256"
	"encoding/binary"
	"sync/atomic"
)

// counterSeed is the first counter value handed out after process
// start. The counter is not persisted; it restarts here on every boot.
const counterSeed = 1000

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// codeCounter is a monotonically increasing source of code numbers,
// advanced exactly once per generation attempt.
type codeCounter struct {
	n atomic.Uint64
}

func (c *codeCounter) seed(n uint64) {
	c.n.Store(n)
}

func (c *codeCounter) next() uint64 {
	return c.n.Add(1) - 1
}

// encodeBase62 encodes n in base62, most significant digit first.
// Zero encodes as "0".
func encodeBase62(n uint64) string {
	if n == 0 {
		return "0"
	}

	var buf [11]byte // ceil(64 / log2(62))
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = base62Alphabet[n%62]
		n /= 62
	}

	return string(buf[i:])
}

// fallbackCode derives a collision-fallback short code from the
// original URL and the counter value that produced the collision:
// base62 of the low 8 bytes of SHA-256(url || LE64(counter)), read as
// an unsigned little-endian 64-bit integer.
func fallbackCode(originalURL string, counter uint64) string {
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], counter)

	h := sha256.New()
	h.Write([]byte(originalURL))
	h.Write(raw[:])
	sum := h.Sum(nil)

	return encodeBase62(binary.LittleEndian.Uint64(sum[:8]))
}
