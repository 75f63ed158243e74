// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

import "fmt"

// hcEncoder is the addressing and emission base shared by the three HC
// strategies (spec.md §4.3.1-§4.3.4, §4.4). It mirrors fastEncoder's
// dict/src unified addressing but additionally tracks the caller-held
// (ip, anchor) cursors that every strategy advances, since HC match search
// is driven by outer loops with strategy-specific shapes rather than one
// shared loop.
type hcEncoder struct {
	src     []byte
	dict    []byte
	srcBase int // absolute position of src[0] in the unified dict+src space

	state *StreamState

	dst  []byte
	op   int
	mode outputMode

	anchor int // src-relative
	ip     int // src-relative
}

func (e *hcEncoder) byteAt(pos int) byte {
	if pos < len(e.dict) {
		return e.dict[pos]
	}
	return e.src[pos-e.srcBase]
}

func (e *hcEncoder) read32(pos int) uint32 {
	if pos >= e.srcBase && pos+4 <= e.srcBase+len(e.src) {
		return readLE32(e.src[pos-e.srcBase:])
	}
	if pos+4 <= len(e.dict) {
		return readLE32(e.dict[pos:])
	}
	var b [4]byte
	for i := 0; i < 4; i++ {
		b[i] = e.byteAt(pos + i)
	}
	return readLE32(b[:])
}

func (e *hcEncoder) read64(pos int) uint64 {
	if pos >= e.srcBase && pos+8 <= e.srcBase+len(e.src) {
		return readLE64(e.src[pos-e.srcBase:])
	}
	if pos+8 <= len(e.dict) {
		return readLE64(e.dict[pos:])
	}
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = e.byteAt(pos + i)
	}
	return readLE64(b[:])
}

// count implements spec.md §4.1 count(a, b, limit) across the dict/src
// boundary (spec.md §4.3.3 "ext-dict window: count may straddle the
// dict->prefix boundary").
func (e *hcEncoder) count(aPos, bPos, limitPos int) int {
	if aPos >= e.srcBase && bPos >= e.srcBase {
		return matchLen(e.src[aPos-e.srcBase:], e.src[bPos-e.srcBase:], limitPos-aPos)
	}
	n := 0
	lim := limitPos - aPos
	for n < lim && e.byteAt(aPos+n) == e.byteAt(bPos+n) {
		n++
	}
	return n
}

// emitSequence is the shared HC sequence emitter (spec.md §4.4): given a
// match length and offset, it advances e.ip/e.anchor and writes the
// token+literal+offset+match-extension sequence starting at e.op.
func (e *hcEncoder) emitSequence(matchLength int, offset uint16) error {
	if offset < 1 || int(offset) > maxDistance {
		return fmt.Errorf("%w: offset %d out of range", errInternal, offset)
	}

	litLen := e.ip - e.anchor
	dstEnd := len(e.dst)

	if e.mode == modeBounded && e.op+litLen/255+litLen+8 > dstEnd {
		return ErrOutputTooSmall
	}

	tokenPos := e.op
	e.op++

	var tokLit byte
	if litLen >= 15 {
		tokLit = 15
		e.writeLenExt(litLen - 15)
	} else {
		tokLit = byte(litLen)
	}

	if litLen > 0 {
		copy(e.dst[e.op:e.op+litLen], e.src[e.anchor:e.ip])
		e.op += litLen
	}

	writeLE16(e.dst[e.op:], offset)
	e.op += 2

	mlRem := matchLength - MinMatch
	if e.mode == modeBounded && e.op+mlRem/255+6 > dstEnd {
		return ErrOutputTooSmall
	}

	var tokMl byte
	if mlRem >= 15 {
		tokMl = 15
		e.writeLenExt(mlRem - 15)
	} else {
		tokMl = byte(mlRem)
	}
	e.dst[tokenPos] = tokLit<<4 | tokMl

	e.ip += matchLength
	e.anchor = e.ip
	return nil
}

// writeLenExt appends rem as a run of 0xFF bytes plus a final remainder byte
// (spec.md §4.4 step 4/8).
func (e *hcEncoder) writeLenExt(rem int) {
	for rem >= 255 {
		e.dst[e.op] = 255
		e.op++
		rem -= 255
	}
	e.dst[e.op] = byte(rem)
	e.op++
}

// emitTrailingLiterals flushes src[e.anchor:end] as a final literal-only
// token (spec.md §4.2/§4.3 epilogue, shared shape with the fast encoder).
func (e *hcEncoder) emitTrailingLiterals(end int) error {
	litLen := end - e.anchor
	if e.mode == modeBounded && e.op+(litLen+240)/255+litLen+1 > len(e.dst) {
		return ErrOutputTooSmall
	}
	tokLit := byte(litLen)
	if litLen >= 15 {
		tokLit = 15
	}
	e.dst[e.op] = tokLit << 4
	e.op++
	if litLen >= 15 {
		e.writeLenExt(litLen - 15)
	}
	copy(e.dst[e.op:e.op+litLen], e.src[e.anchor:end])
	e.op += litLen
	e.anchor = end
	e.ip = end
	return nil
}
