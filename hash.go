package simpleorm

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Hasher accumulates column values into a 64-bit hash. Generated Hash
// methods feed every column in declaration order, the same order used by
// the generated Equal methods.
//
// Values are length or tag prefixed, so adjacent columns never alias
// ("ab","c" and "a","bc" hash differently).
type Hasher struct {
	d   *xxhash.Digest
	buf [9]byte
}

// NewHasher returns a ready to use Hasher.
func NewHasher() *Hasher {
	return &Hasher{d: xxhash.New()}
}

func (h *Hasher) tag(t byte, v uint64) {
	h.buf[0] = t
	binary.LittleEndian.PutUint64(h.buf[1:], v)
	_, _ = h.d.Write(h.buf[:])
}

// Int64 adds an integer column.
func (h *Hasher) Int64(v int64) *Hasher {
	h.tag('i', uint64(v))
	return h
}

// String adds a text column.
func (h *Hasher) String(v string) *Hasher {
	h.tag('s', uint64(len(v)))
	_, _ = h.d.WriteString(v)
	return h
}

// Bool adds a boolean column.
func (h *Hasher) Bool(v bool) *Hasher {
	var n uint64
	if v {
		n = 1
	}
	h.tag('b', n)
	return h
}

// Float64 adds a real column. Positive and negative zero hash alike,
// matching the == operator used by the generated Equal methods.
func (h *Hasher) Float64(v float64) *Hasher {
	if v == 0 {
		v = 0
	}
	h.tag('f', math.Float64bits(v))
	return h
}

// Bytes adds a blob column.
func (h *Hasher) Bytes(v []byte) *Hasher {
	h.tag('x', uint64(len(v)))
	_, _ = h.d.Write(v)
	return h
}

// Time adds a time column. Instants that are Equal hash alike regardless
// of their location.
func (h *Hasher) Time(v time.Time) *Hasher {
	h.tag('t', uint64(v.UnixNano()))
	return h
}

// UUID adds a uuid column.
func (h *Hasher) UUID(v uuid.UUID) *Hasher {
	h.tag('u', uint64(len(v)))
	_, _ = h.d.Write(v[:])
	return h
}

// Len adds the length of a list column. It is written before the elements.
func (h *Hasher) Len(n int) *Hasher {
	h.tag('l', uint64(n))
	return h
}

// Present adds the presence bit of a reference column.
func (h *Hasher) Present(ok bool) *Hasher {
	var n uint64
	if ok {
		n = 1
	}
	h.tag('p', n)
	return h
}

// Sum64 returns the hash of everything added so far.
func (h *Hasher) Sum64() uint64 {
	return h.d.Sum64()
}
