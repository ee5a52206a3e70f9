package nrfnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testDatagramHeader(length uint8) Header {
	return Header{From: 0o1, To: 0o2, ID: 42, Length: length}
}

func fragmentPayload(offset int, length uint8) []byte {
	buf := make([]byte, DataSize)
	for i := range buf {
		buf[i] = byte(offset*DataSize + i)
	}
	return buf
}

func TestRBufSingleFragment(t *testing.T) {
	r := NewRBuf(4, 8)
	hdr := testDatagramHeader(10)
	hdr.Offset = 0
	head := r.Add(hdr, fragmentPayload(0, 10)[:10], 0)
	require.NotNil(t, head)
	assert.Equal(t, 0, head.RemainingFragments())

	out := make([]byte, 10)
	got := r.CopyOut(head, out)
	require.NotNil(t, got)
	assert.Len(t, got, 10)
}

func TestRBufReassemblesOutOfOrder(t *testing.T) {
	r := NewRBuf(4, 8)
	length := uint8(3 * DataSize)
	base := testDatagramHeader(length)

	order := []int{2, 0, 1}
	var head *Head
	for _, offset := range order {
		hdr := base
		hdr.Offset = uint8(offset)
		head = r.Add(hdr, fragmentPayload(offset, length), 0)
		require.NotNil(t, head)
	}
	assert.Equal(t, 0, head.RemainingFragments())

	out := make([]byte, length)
	got := r.CopyOut(head, out)
	require.NotNil(t, got)
	for offset := 0; offset < 3; offset++ {
		expect := fragmentPayload(offset, length)
		assert.Equal(t, expect, got[offset*DataSize:(offset+1)*DataSize])
	}
}

// A redundant fragment (duplicate offset) must not corrupt the hole chain
// or double-count toward completion.
func TestRBufRejectsRedundantFragment(t *testing.T) {
	r := NewRBuf(4, 8)
	length := uint8(2 * DataSize)
	base := testDatagramHeader(length)

	hdr0 := base
	hdr0.Offset = 0
	head := r.Add(hdr0, fragmentPayload(0, length), 0)
	require.NotNil(t, head)
	assert.Equal(t, 1, head.RemainingFragments())

	again := r.Add(hdr0, fragmentPayload(0, length), 0)
	require.NotNil(t, again)
	assert.Equal(t, 1, again.RemainingFragments())

	hdr1 := base
	hdr1.Offset = 1
	final := r.Add(hdr1, fragmentPayload(1, length), 0)
	require.NotNil(t, final)
	assert.Equal(t, 0, final.RemainingFragments())
}

func TestRBufGC(t *testing.T) {
	r := NewRBuf(2, 4)
	hdr := testDatagramHeader(10)
	head := r.Add(hdr, fragmentPayload(0, 10)[:10], 100)
	require.NotNil(t, head)

	r.GC(150, 100)
	assert.True(t, head.used)

	r.GC(250, 100)
	assert.False(t, head.used)
}

// TestRBufGCBoundary pins the exact S7 boundary: a head opened at t0 survives
// gc(t0+lifetime, lifetime) and is only reclaimed once t strictly exceeds
// t0+lifetime.
func TestRBufGCBoundary(t *testing.T) {
	r := NewRBuf(1, 4)
	hdr := testDatagramHeader(10)
	head := r.Add(hdr, fragmentPayload(0, 10)[:10], 0)
	require.NotNil(t, head)

	r.GC(10, 10)
	assert.True(t, head.used, "t0+lifetime < now is false at t=10; must not reclaim yet")

	r.GC(21, 10)
	assert.False(t, head.used, "t0+lifetime < now is true at t=21; must reclaim")
}

func TestRBufPoolExhaustion(t *testing.T) {
	r := NewRBuf(1, 1)
	first := testDatagramHeader(10)
	head := r.Add(first, fragmentPayload(0, 10)[:10], 0)
	require.NotNil(t, head)

	other := testDatagramHeader(10)
	other.ID = 99
	assert.Nil(t, r.Add(other, fragmentPayload(0, 10)[:10], 0))
}

// Arbitrary permutations of a datagram's fragment offsets always reassemble
// to the same payload.
func TestRBufReassemblyPermutationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numFrags := rapid.IntRange(1, 10).Draw(t, "numFrags")
		length := uint8(numFrags * DataSize)
		base := testDatagramHeader(length)

		order := seq(numFrags)
		for i := len(order) - 1; i > 0; i-- {
			j := rapid.IntRange(0, i).Draw(t, "swap")
			order[i], order[j] = order[j], order[i]
		}

		r := NewRBuf(2, numFrags+1)
		var head *Head
		for _, offset := range order {
			hdr := base
			hdr.Offset = uint8(offset)
			head = r.Add(hdr, fragmentPayload(offset, length), 0)
			require.NotNil(t, head)
		}
		require.Equal(t, 0, head.RemainingFragments())

		out := make([]byte, length)
		got := r.CopyOut(head, out)
		require.NotNil(t, got)
		for offset := 0; offset < numFrags; offset++ {
			expect := fragmentPayload(offset, length)
			n := DataSize
			if remaining := int(length) - offset*DataSize; n > remaining {
				n = remaining
			}
			assert.Equal(t, expect[:n], got[offset*DataSize:offset*DataSize+n])
		}
	})
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
