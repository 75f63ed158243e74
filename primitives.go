// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

import (
	"encoding/binary"
	"math/bits"
)

// readLE16/readLE32/readLE64 read little-endian, unaligned values. Go's
// encoding/binary already does unaligned memcpy-equivalent reads on every
// platform, so no build-tag split is needed here (compare the 5-byte hash
// constants in hash.go).
func readLE16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func readLE32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func readLE64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

func writeLE16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }
func writeLE32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }

// wildCopy8 copies n bytes from src to dst in 8-byte chunks, always
// overwriting up to 7 trailing bytes past n. Callers must guarantee dst has
// that margin (spec.md §4.1).
func wildCopy8(dst, src []byte, n int) {
	d, s := 0, 0
	for d < n {
		copy(dst[d:d+8], src[s:s+8])
		d += 8
		s += 8
	}
}

// wildCopy32 is wildCopy8 with 32-byte granularity; safe for overlap distance
// >= 16 (spec.md §4.1).
func wildCopy32(dst, src []byte, n int) {
	d, s := 0, 0
	for d < n {
		copy(dst[d:d+16], src[s:s+16])
		copy(dst[d+16:d+32], src[s+16:s+32])
		d += 32
		s += 32
	}
}

// incTable/decTable implement the overlap-safe replicated-pattern copy for
// back-reference distances 3, 5, 6, 7 (spec.md §4.1 INC32TABLE/DEC64TABLE):
// for each 8-byte output step, incTable advances the read cursor and decTable
// walks it back so that every 8-byte write still reads from an already-fully
// -written source region.
var incTable = [8]int{0, 1, 2, 1, 0, 4, 4, 4}
var decTable = [8]int{0, 0, 0, -1, -4, 1, 2, 3}

// copyMatch performs an overlap-safe back-reference copy of length bytes from
// dst[dstPos-dist:] into dst[dstPos:]. Distances 1, 2, 4 replicate a short
// pattern; 3, 5, 6, 7 use incTable/decTable; >= 8 falls through to wildCopy8.
// The caller must guarantee dst has wild-copy margin past dstPos+length.
func copyMatch(dst []byte, dstPos, dist, length int) {
	matchPos := dstPos - dist
	switch dist {
	case 1:
		// Pure run-length-encoded fill.
		c := dst[matchPos]
		for i := 0; i < length; i++ {
			dst[dstPos+i] = c
		}
	case 2, 4:
		// Replicate the dist-byte pattern by doubling.
		pattern := make([]byte, 8)
		for i := 0; i < 8; i += dist {
			copy(pattern[i:], dst[matchPos:matchPos+dist])
		}
		n := 0
		for n < length {
			end := n + 8
			if end > length {
				end = length
			}
			copy(dst[dstPos+n:dstPos+end], pattern[:end-n])
			n += 8
		}
	case 3, 5, 6, 7:
		op, mp := dstPos, matchPos
		end := dstPos + length
		for op < end {
			dst[op+0] = dst[mp+0]
			dst[op+1] = dst[mp+1]
			dst[op+2] = dst[mp+2]
			dst[op+3] = dst[mp+3]
			mp += incTable[dist]
			dst[op+4] = dst[mp+0]
			dst[op+5] = dst[mp+1]
			dst[op+6] = dst[mp+2]
			dst[op+7] = dst[mp+3]
			op += 8
			mp -= decTable[dist]
		}
	default:
		wildCopy8(dst[dstPos:], dst[matchPos:], length)
	}
}

// copyMatchSafe is copyMatch's exact byte-wise fallback, used once the
// remaining destination margin can't absorb copyMatch's up to 7-byte
// overshoot. decodeCore is the only caller: an arbitrary caller-supplied
// dst has no guaranteed margin past the logical match end, unlike the
// encoder's emission call sites (spec.md §4.5 "safe decoder ... no panics
// on valid input"; grounded on _examples/WoozyMasta-lzo/copy.go's
// copyBackRef, which copies exactly length bytes with no overshoot).
func copyMatchSafe(dst []byte, dstPos, dist, length int) {
	matchPos := dstPos - dist
	for i := 0; i < length; i++ {
		dst[dstPos+i] = dst[matchPos+i]
	}
}

// matchLen returns the number of equal leading bytes between a and b,
// stopping before limit bytes (spec.md §4.1 count(a, b, limit)). It compares
// a word at a time via XOR, then locates the first differing byte with a
// trailing-zero count (words are always read little-endian, whatever the
// host byte order), with a single-byte tail.
func matchLen(a, b []byte, limit int) int {
	n := 0
	for n+8 <= limit {
		diff := readLE64(a[n:]) ^ readLE64(b[n:])
		if diff != 0 {
			return n + bits.TrailingZeros64(diff)/8
		}
		n += 8
	}
	for n < limit && a[n] == b[n] {
		n++
	}
	return n
}
