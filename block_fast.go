// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

import "fmt"

// CompressorOptions configures the fast block encoder (spec.md §4.2).
type CompressorOptions struct {
	// Acceleration multiplies the initial skip-heuristic step; clamped to
	// >= 1 (spec.md §4.2 "Skip heuristic").
	Acceleration int
}

// DefaultCompressorOptions returns acceleration 1 (no extra skipping).
func DefaultCompressorOptions() *CompressorOptions {
	return &CompressorOptions{Acceleration: 1}
}

func (o *CompressorOptions) acceleration() int {
	if o == nil || o.Acceleration < 1 {
		return 1
	}
	return o.Acceleration
}

// CompressBlockBound returns the worst-case compressed size of an input of
// length n (spec.md §4.2 output mode 1, "Unlimited").
func CompressBlockBound(n int) int {
	if n < 0 {
		return 0
	}
	return n + n/255 + 16
}

// CompressBlock compresses src into dst in unlimited mode: the caller must
// guarantee dst has at least CompressBlockBound(len(src)) capacity. Returns
// the number of bytes written.
func CompressBlock(src, dst []byte, opts *CompressorOptions) (int, error) {
	n, _, err := compressFast(src, dst, opts.acceleration(), modeUnlimited)
	return n, err
}

// CompressBlockLimited compresses src into dst in bounded mode: it never
// writes past len(dst) and returns ErrOutputTooSmall if dst cannot hold the
// result.
func CompressBlockLimited(src, dst []byte, opts *CompressorOptions) (int, error) {
	n, _, err := compressFast(src, dst, opts.acceleration(), modeBounded)
	return n, err
}

// CompressBlockFill encodes as much of src as fits in exactly len(dst) bytes.
// It returns the number of compressed bytes written and the number of source
// bytes consumed; consumed may be less than len(src) (spec.md §4.2 output
// mode 3, "Fill").
func CompressBlockFill(src, dst []byte, opts *CompressorOptions) (written, consumed int, err error) {
	return compressFast(src, dst, opts.acceleration(), modeFill)
}

type outputMode int

const (
	modeUnlimited outputMode = iota
	modeBounded
	modeFill
)

// literalBound and matchExtBound are the worst-case growth formulas from
// spec.md §4.2 "Output-budget checks", used by bounded/fill modes to decide
// whether an emission would overflow dst before writing any of it.
func literalBound(litLen int) int  { return litLen + 2 + 1 + 5 + litLen/255 }
func matchExtBound(ml int) int     { return 1 + 5 + ml/255 }

// fastEncoder holds one compressFast call's mutable state. src is the
// current block; dict/srcBase let the same loop serve both one-shot
// compression (dict == nil, srcBase == 0) and streaming/linked-block
// compression (dict is the previous block's saved history, srcBase ==
// len(dict)) without duplicating the match-finding loop.
type fastEncoder struct {
	src      []byte
	dict     []byte
	srcBase  int // absolute position of src[0] in the unified dict+src space
	lowLimit int // smallest absolute position eligible as a match candidate

	table     []uint32
	tableType tableType

	acceleration int

	dst  []byte
	op   int
	mode outputMode
}

func (e *fastEncoder) byteAt(pos int) byte {
	if pos < len(e.dict) {
		return e.dict[pos]
	}
	return e.src[pos-e.srcBase]
}

// read32 reads 4 bytes starting at absolute position pos, crossing the
// dict/src boundary byte-by-byte when necessary (spec.md §4.2 "Dictionary
// -bearing back-references").
func (e *fastEncoder) read32(pos int) uint32 {
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

// count implements spec.md §4.1 count(a, b, limit) over the unified address
// space, continuing past the dict/src boundary (spec.md §4.2).
func (e *fastEncoder) count(aPos, bPos, limitPos int) int {
	if aPos >= e.srcBase && bPos >= e.srcBase {
		aLim := limitPos - aPos
		return matchLen(e.src[aPos-e.srcBase:], e.src[bPos-e.srcBase:], aLim)
	}
	n := 0
	lim := limitPos - aPos
	for n < lim && e.byteAt(aPos+n) == e.byteAt(bPos+n) {
		n++
	}
	return n
}

func (e *fastEncoder) hashAt(pos int) uint32 {
	return hash4(e.read32(pos), hashLog)
}

func (e *fastEncoder) storeAt(pos int, h uint32) {
	tablePut(e.table, e.tableType, h, uint32(pos))
}

// lookup returns the candidate position stored for h. An unseen bucket
// reads back as position 0, the same as real LZ4 implementations: it is not
// treated as a sentinel, since the 4-byte comparison in the caller rejects
// any false hit cheaply.
func (e *fastEncoder) lookup(h uint32) int {
	return int(tableGet(e.table, e.tableType, h))
}

// compressFast is the shared entry point for the one-shot CompressBlockXxx
// functions; streaming callers go through compressFastWithState instead.
func compressFast(src, dst []byte, acceleration int, mode outputMode) (written, consumed int, err error) {
	if len(src) > maxInputSize {
		return 0, 0, ErrInputTooLarge
	}
	tt := tableByU32
	if len(src) <= 65535 {
		tt = tableByU16
	}
	e := &fastEncoder{
		src:          src,
		table:        make([]uint32, hashTableSize),
		tableType:    tt,
		acceleration: acceleration,
		dst:          dst,
		mode:         mode,
	}
	return e.run()
}

// compressFastWithState is the streaming entry point: it consults and
// updates a StreamState so block N can reference block N-1's bytes as
// history (spec.md §4.2, §3.1).
func compressFastWithState(state *StreamState, src, dst []byte, acceleration int, mode outputMode) (written, consumed int, err error) {
	if state.IsDirty() {
		return 0, 0, fmt.Errorf("%w: StreamState is dirty, call Reset first", errInternal)
	}
	if len(src) > maxInputSize {
		return 0, 0, ErrInputTooLarge
	}
	state.renormalize()

	if state.tableType == tableCleared {
		state.tableType = tableByU32
	}
	// An attached dictionary context's table is copied into this state's
	// own table on first use; its positions already address the same
	// dictionary bytes.
	if state.dictCtx != nil {
		copy(state.hashTable, state.dictCtx.hashTable)
		state.dictCtx = nil
	}
	e := &fastEncoder{
		src:          src,
		dict:         state.dictionary,
		srcBase:      len(state.dictionary),
		lowLimit:     0,
		table:        state.hashTable,
		tableType:    state.tableType,
		acceleration: acceleration,
		dst:          dst,
		mode:         mode,
	}
	written, consumed, err = e.run()
	if err != nil {
		state.MarkDirty()
		return written, consumed, err
	}
	state.currentOffset += uint32(consumed)
	return written, consumed, nil
}

// run executes the fast encoder's main loop (spec.md §4.2 "Main loop"),
// translated from the spec's goto-labelled pseudocode into Go's labelled
// loops per the Design Note on goto-labelled state machines.
func (e *fastEncoder) run() (written, consumed int, err error) {
	srcLen := len(e.src)
	if srcLen < minLength {
		lit, err := e.emitTrailingLiterals(0, srcLen)
		if err != nil {
			return 0, 0, err
		}
		return e.op, lit, nil
	}

	srcEnd := e.srcBase + srcLen
	anchor := 0 // src-relative

	acceleration := e.acceleration
	if acceleration < 1 {
		acceleration = 1
	}
	skipCounter := acceleration << 6

	fwdIP := 0
	fwdIP++
	forwardH := e.hashAt(e.srcBase + fwdIP)
	var ip int

search:
	for {
		forwardIP := fwdIP
		step := 1
		skipN := skipCounter
		var candidate int
		for {
			h := forwardH
			ip = forwardIP
			forwardIP += step
			step = skipN >> 6
			skipN++

			if e.srcBase+forwardIP > srcEnd-mfLimit {
				skipCounter = skipN
				lit, err := e.emitTrailingLiterals(anchor, srcLen)
				if err != nil {
					return 0, 0, err
				}
				return e.op, anchor + lit, nil
			}
			candidate = e.lookup(h)
			forwardH = e.hashAt(e.srcBase + forwardIP)
			e.storeAt(e.srcBase+ip, h)

			dist := e.srcBase + ip - candidate
			if dist >= 1 && dist <= maxDistance &&
				candidate >= e.lowLimit && e.read32(candidate) == e.read32(e.srcBase+ip) {
				break
			}
		}
		fwdIP = forwardIP
		skipCounter = skipN

		// Catch-up: extend the match backwards through matching bytes that
		// precede both positions (spec.md §4.2 GLOSSARY "Catch-up").
		for ip > anchor && candidate > e.lowLimit && e.byteAt(candidate-1) == e.byteAt(e.srcBase+ip-1) {
			ip--
			candidate--
		}

		for {
			litLen := ip - anchor
			if err := e.checkBudget(literalBound(litLen)); err != nil {
				if e.mode == modeFill {
					return e.shrinkToFit(anchor, ip, candidate)
				}
				return 0, 0, err
			}
			offset := e.srcBase + ip - candidate
			if offset < 1 || offset > maxDistance {
				return 0, 0, fmt.Errorf("%w: computed offset %d out of range", errInternal, offset)
			}
			ml := MinMatch + e.count(e.srcBase+ip+MinMatch, candidate+MinMatch, srcEnd-5)
			// token + literal-length extension + literals + offset, then the
			// match-length extension with its end-of-block slack
			if err := e.checkBudget(3 + litLen + (litLen+240)/255 + matchExtBound(ml-MinMatch)); err != nil {
				if e.mode == modeFill {
					return e.shrinkMatchToFit(anchor, ip, offset, ml)
				}
				return 0, 0, err
			}

			e.emitToken(e.src[anchor:ip], uint16(offset), ml)

			ip += ml
			anchor = ip
			if e.srcBase+ip >= srcEnd-mfLimit {
				lit, err := e.emitTrailingLiterals(anchor, srcLen)
				if err != nil {
					return 0, 0, err
				}
				return e.op, anchor + lit, nil
			}

			// Insert the hash for ip-2 so short intervening sequences
			// remain discoverable later (spec.md §4.2 "insert hash for ip-2").
			e.storeAt(e.srcBase+ip-2, e.hashAt(e.srcBase+ip-2))

			h := e.hashAt(e.srcBase + ip)
			cand := e.lookup(h)
			rematchDist := e.srcBase + ip - cand
			if rematchDist >= 1 && rematchDist <= maxDistance && cand >= e.lowLimit &&
				e.read32(cand) == e.read32(e.srcBase+ip) {
				candidate = cand
				continue
			}
			e.storeAt(e.srcBase+ip, h)
			ip++
			forwardH = e.hashAt(e.srcBase + ip)
			fwdIP = ip
			continue search
		}
	}
}

// checkBudget reports ErrOutputTooSmall in bounded mode when emitting
// `need` more bytes would overflow dst; it is a no-op in unlimited mode and
// handled specially (shrink-to-fit) by the caller in fill mode.
func (e *fastEncoder) checkBudget(need int) error {
	if e.mode == modeUnlimited {
		return nil
	}
	if e.op+need > len(e.dst) {
		return ErrOutputTooSmall
	}
	return nil
}

// emitToken writes one literal-run + match sequence (spec.md §4.4 shape,
// inlined here since the fast encoder's budget accounting already happened
// in run()).
func (e *fastEncoder) emitToken(lit []byte, offset uint16, matchLen int) {
	litLen := len(lit)
	ml := matchLen - MinMatch

	tokenPos := e.op
	e.op++
	var tokLit, tokMl byte
	if litLen >= 15 {
		tokLit = 15
	} else {
		tokLit = byte(litLen)
	}
	if ml >= 15 {
		tokMl = 15
	} else {
		tokMl = byte(ml)
	}
	e.dst[tokenPos] = tokLit<<4 | tokMl

	if litLen >= 15 {
		e.writeLenExt(litLen - 15)
	}
	if litLen > 0 {
		copy(e.dst[e.op:e.op+litLen], lit)
		e.op += litLen
	}

	writeLE16(e.dst[e.op:], offset)
	e.op += 2

	if ml >= 15 {
		e.writeLenExt(ml - 15)
	}
}

// writeLenExt appends rem as a run of 0xFF bytes plus a final remainder byte
// (spec.md §4.4 step 4/8).
func (e *fastEncoder) writeLenExt(rem int) {
	for rem >= 255 {
		e.dst[e.op] = 255
		e.op++
		rem -= 255
	}
	e.dst[e.op] = byte(rem)
	e.op++
}

// emitTrailingLiterals emits the final literal-only token covering
// src[anchor:end] (spec.md §4.2 "trailing-literals" epilogue) and returns
// how many literals it wrote; in fill mode that can be fewer than end-anchor.
func (e *fastEncoder) emitTrailingLiterals(anchor, end int) (int, error) {
	litLen := end - anchor
	if err := e.checkBudget(literalBound(litLen)); err != nil {
		if e.mode != modeFill {
			return 0, err
		}
		// Fill mode: shrink the literal run to whatever exactly fits.
		space := len(e.dst) - e.op
		newLit, ok := shrinkLiteralToFit(space)
		if !ok {
			return 0, nil
		}
		if newLit < litLen {
			litLen = newLit
		}
	}
	e.emitFinalLiteralToken(e.src[anchor : anchor+litLen])
	return litLen, nil
}

func (e *fastEncoder) emitFinalLiteralToken(lit []byte) {
	litLen := len(lit)
	tokLit := byte(litLen)
	if litLen >= 15 {
		tokLit = 15
	}
	e.dst[e.op] = tokLit << 4
	e.op++
	if litLen >= 15 {
		e.writeLenExt(litLen - 15)
	}
	copy(e.dst[e.op:e.op+litLen], lit)
	e.op += litLen
}

// shrinkLiteralToFit returns the largest literal length whose token+ext+body
// fits in exactly `space` bytes, per the fill-mode formula in spec.md §4.2.
func shrinkLiteralToFit(space int) (int, bool) {
	if space <= 0 {
		return 0, false
	}
	// Try decreasing lengths; this is a small output (<= a few hundred
	// bytes typically at the shrink boundary) so a linear search is fine.
	for n := space; n >= 0; n-- {
		if 1+(n+240)/255+n <= space { // token + length-extension bytes + literals
			return n, true
		}
	}
	return 0, false
}

// shrinkToFit handles fill-mode overflow at the literal-emission boundary: it
// rewinds to before the current token and ends the stream with whatever
// literal run fits (spec.md §4.2 "fill mode ... the encoder rewinds").
func (e *fastEncoder) shrinkToFit(anchor, _, _ int) (written, consumed int, err error) {
	lit, err := e.emitTrailingLiterals(anchor, anchor+minIntFit(len(e.src)-anchor, maxFitLen(len(e.dst)-e.op)))
	if err != nil {
		return 0, 0, err
	}
	return e.op, anchor + lit, nil
}

// shrinkMatchToFit handles fill-mode overflow at the match-extension
// boundary: new_ml = 14 + (space-1-5)*255 per spec.md §4.2; if that would
// shrink below MinMatch, rewind entirely to a literal-only ending.
func (e *fastEncoder) shrinkMatchToFit(anchor, ip, offset, ml int) (written, consumed int, err error) {
	// space left once the token, literals and offset are written
	space := len(e.dst) - e.op - (3 + (ip - anchor) + (ip-anchor+240)/255)
	newML := 14 + (space-1-5)*255
	if newML < MinMatch {
		return e.shrinkToFit(anchor, ip, offset)
	}
	if newML > ml {
		newML = ml
	}
	e.emitToken(e.src[anchor:ip], uint16(offset), newML)
	return e.op, ip + newML, nil
}

func minIntFit(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxFitLen(space int) int {
	if space <= 0 {
		return 0
	}
	return space
}
