// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

// runMid implements the HC mid-level strategy (spec.md §4.3.2): a
// single-pass dual-hash encoder used for levels 1-2, grounded on
// original_source/src/hc/lz4mid.rs for the two-table probe order since the
// teacher has no two-hash-width analogue (LZO splits by match length, not
// hash width).
func (e *hcEncoder) runMid() error {
	srcLen := len(e.src)
	srcEnd := e.srcBase + srcLen
	e.anchor = 0
	e.ip = 0

	if srcLen < minLength {
		return e.emitTrailingLiterals(srcLen)
	}

	table4 := e.state.hashTable
	table8 := e.state.midTable8

	for e.srcBase+e.ip <= srcEnd-mfLimit {
		pos := e.srcBase + e.ip

		var matchPos int
		var matchLen4 int
		found := false

		// Step 1: 8-byte table, long-match candidate.
		h8 := hash8(e.read64(pos), midHashLog)
		cand8 := int(tableGet(table8, tableByU32, h8))
		tablePut(table8, tableByU32, h8, uint32(pos))
		if cand8 > 0 || pos == 0 {
			dist := pos - cand8
			if dist >= 1 && dist <= maxDistance && e.read32(cand8) == e.read32(pos) {
				ml := MinMatch + e.count(pos+MinMatch, cand8+MinMatch, srcEnd-5)
				if ml >= 4 {
					matchPos, matchLen4, found = cand8, ml, true
				}
			}
		}

		// Step 2: 4-byte table, short-match candidate; opportunistically
		// probe the 8-byte table at ip+1 and keep the longer of the two.
		if !found {
			h4 := hash4(e.read32(pos), midHashLog)
			cand4 := int(tableGet(table4, tableByU32, h4))
			tablePut(table4, tableByU32, h4, uint32(pos))
			dist := pos - cand4
			if (cand4 > 0 || pos == 0) && dist >= 1 && dist <= maxDistance && e.read32(cand4) == e.read32(pos) {
				ml := MinMatch + e.count(pos+MinMatch, cand4+MinMatch, srcEnd-5)
				matchPos, matchLen4, found = cand4, ml, true

				if e.srcBase+e.ip+1 <= srcEnd-mfLimit {
					h8b := hash8(e.read64(pos+1), midHashLog)
					cand8b := int(tableGet(table8, tableByU32, h8b))
					dist2 := (pos + 1) - cand8b
					if dist2 >= 1 && dist2 <= maxDistance && e.read32(cand8b) == e.read32(pos+1) {
						ml2 := MinMatch + e.count(pos+1+MinMatch, cand8b+MinMatch, srcEnd-5)
						if ml2 > ml {
							matchPos, matchLen4 = cand8b, ml2
							e.ip++
						}
					}
				}
			}
		}

		// Step 3: dict-context probe when reachable (spec.md §4.3.2 step 3).
		if !found && e.state.dictCtx != nil {
			if mp, ml, ok := e.probeDictCtxMid(pos); ok {
				matchPos, matchLen4, found = mp, ml, true
			}
		}

		if !found {
			e.ip += 1 + ((e.ip - e.anchor) >> 9)
			continue
		}

		// Extend backwards to anchor.
		backIP, backMatch := e.srcBase+e.ip, matchPos
		for backIP > e.srcBase+e.anchor && backMatch > e.lowLimitAbs() &&
			e.byteAt(backMatch-1) == e.byteAt(backIP-1) {
			backIP--
			backMatch--
		}
		e.ip = backIP - e.srcBase

		offset := uint16(e.srcBase + e.ip - backMatch)
		if err := e.emitSequence(matchLen4, offset); err != nil {
			return err
		}

		// Fill both tables at ip+1, ip+2 (before) and endIp-5..endIp-1 (after).
		endPos := e.srcBase + e.ip
		for _, d := range []int{1, 2} {
			p := endPos - matchLen4 + d
			if p >= e.lowLimitAbs() && p+8 <= srcEnd {
				tablePut(table4, tableByU32, hash4(e.read32(p), midHashLog), uint32(p))
				tablePut(table8, tableByU32, hash8(e.read64(p), midHashLog), uint32(p))
			}
		}
		for _, d := range []int{5, 3, 2, 1} {
			p := endPos - d
			if p >= e.lowLimitAbs() && p+8 <= srcEnd {
				tablePut(table4, tableByU32, hash4(e.read32(p), midHashLog), uint32(p))
				tablePut(table8, tableByU32, hash8(e.read64(p), midHashLog), uint32(p))
			}
		}
	}

	return e.emitTrailingLiterals(srcLen)
}

func (e *hcEncoder) lowLimitAbs() int {
	return e.srcBase - len(e.dict)
}

// probeDictCtxMid searches an attached dict-context's tables for a match
// reachable from pos (spec.md §4.3.2 step 3): the HC chain table if the
// dict was HC-built, else its mid 8-byte then 4-byte tables.
func (e *hcEncoder) probeDictCtxMid(pos int) (matchPos, matchLen int, ok bool) {
	ctx := e.state.dictCtx
	if ctx == nil {
		return 0, 0, false
	}
	srcEnd := e.srcBase + len(e.src)
	reachable := func(cand int) bool {
		return cand > 0 && pos-cand <= maxDistance && e.read32(cand) == e.read32(pos)
	}
	switch ctx.tableVer {
	case versionHC:
		cand := int(tableGet(ctx.hashTable, tableByU32, hash4(e.read32(pos), hcHashLog)))
		if !reachable(cand) {
			return 0, 0, false
		}
		ml := MinMatch + e.count(pos+MinMatch, cand+MinMatch, srcEnd-5)
		return cand, ml, true
	default:
		cand := int(tableGet(ctx.midTable8, tableByU32, hash8(e.read64(pos), midHashLog)))
		if reachable(cand) {
			ml := MinMatch + e.count(pos+MinMatch, cand+MinMatch, srcEnd-5)
			return cand, ml, true
		}
		cand = int(tableGet(ctx.hashTable, tableByU32, hash4(e.read32(pos), midHashLog)))
		if reachable(cand) {
			ml := MinMatch + e.count(pos+MinMatch, cand+MinMatch, srcEnd-5)
			return cand, ml, true
		}
	}
	return 0, 0, false
}
