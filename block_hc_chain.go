// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

// chainInsert records pos in the HC hash/chain tables (spec.md §4.3.3):
// chainTable[pos mod 65536] holds the delta back to the position previously
// stored in the same bucket, or 0 if that position is 64 KB or more back. An
// empty bucket reads as position 0, so position 0 stays reachable; a false
// link to it is rejected by searchChain's 4-byte comparison.
func (e *hcEncoder) chainInsert(pos int) {
	h := hash4(e.read32(pos), hcHashLog)
	prev := int(tableGet(e.state.hashTable, tableByU32, h))
	delta := 0
	if prev >= 0 && prev < pos && pos-prev < 65536 {
		delta = pos - prev
	}
	e.state.chainTable[uint16(pos)] = uint16(delta)
	tablePut(e.state.hashTable, tableByU32, h, uint32(pos))
}

// searchChain walks up to nbSearches chain entries from pos's hash bucket,
// returning the longest match found (spec.md §4.3.3). The chain-swap and
// pattern-repeat accelerations described alongside this walk are ratio/speed
// optimisations over an otherwise-equivalent linear walk; they are omitted
// here (see DESIGN.md) in favour of the plain bounded walk, which already
// produces a correct, spec-shaped encode.
func (e *hcEncoder) searchChain(pos, nbSearches int) (bestPos, bestLen int) {
	h := hash4(e.read32(pos), hcHashLog)
	cand := int(tableGet(e.state.hashTable, tableByU32, h))
	srcEnd := e.srcBase + len(e.src)
	bestLen = MinMatch - 1
	bestPos = -1

	for steps := 0; cand >= 0 && cand < pos && steps < nbSearches; steps++ {
		dist := pos - cand
		if dist > maxDistance || cand < e.lowLimitAbs() {
			break
		}
		// Quick tail check at ip+(longest-1) before paying for a full count
		// (spec.md §4.3.3 "Same prefix window").
		skip := bestLen >= MinMatch && e.byteAt(cand+bestLen-1) != e.byteAt(pos+bestLen-1)
		if !skip && e.read32(cand) == e.read32(pos) {
			ml := MinMatch + e.count(pos+MinMatch, cand+MinMatch, srcEnd-5)
			if ml > bestLen {
				bestLen, bestPos = ml, cand
			}
		}
		delta := int(e.state.chainTable[uint16(cand)])
		if delta == 0 {
			break
		}
		cand -= delta
	}
	return bestPos, bestLen
}

// extendBack walks a found match backward through equal preceding bytes,
// stopping at anchorPos or the dict's low limit (spec.md §4.3.3 "Track
// backward extension if i_low_limit < ip").
func (e *hcEncoder) extendBack(ip, cand, anchorPos int) (int, int) {
	for ip > anchorPos && cand > e.lowLimitAbs() && e.byteAt(cand-1) == e.byteAt(ip-1) {
		ip--
		cand--
	}
	return ip, cand
}

// runChain implements the HC hash-chain strategy's triple-look-ahead outer
// loop (spec.md §4.3.3), used for levels 3-9.
func (e *hcEncoder) runChain(nbSearches, targetLength uint32) error {
	srcLen := len(e.src)
	e.anchor = 0
	e.ip = 0
	if srcLen < minLength {
		return e.emitTrailingLiterals(srcLen)
	}
	srcEnd := e.srcBase + srcLen

	if int(e.state.nextToUpdate) < e.srcBase {
		e.state.nextToUpdate = uint32(e.srcBase)
	}
	insertUpTo := func(upTo int) {
		for int(e.state.nextToUpdate) < upTo {
			e.chainInsert(int(e.state.nextToUpdate))
			e.state.nextToUpdate++
		}
	}

	_ = targetLength // target_length governs the DP parser only; unused here.

	for e.srcBase+e.ip <= srcEnd-mfLimit {
		pos0 := e.srcBase + e.ip
		insertUpTo(pos0)
		m1Pos, m1Len := e.searchChain(pos0, int(nbSearches))
		if m1Len < MinMatch {
			e.ip++
			continue
		}
		if e.state.favorDecSpeed && m1Len >= 18 && m1Len <= 36 {
			m1Len = 18
		}
		ip1, cand1 := e.extendBack(pos0, m1Pos, e.srcBase+e.anchor)
		m1Len += pos0 - ip1
		pos0, m1Pos = ip1, cand1
		e.ip = pos0 - e.srcBase

		start2 := pos0 + m1Len - 2
		if start2 > srcEnd-mfLimit {
			if err := e.emitSequence(m1Len, uint16(pos0-m1Pos)); err != nil {
				return err
			}
			continue
		}
		insertUpTo(start2)
		m2Pos, m2Len := e.searchChain(start2, int(nbSearches))

		if m2Len <= m1Len {
			if err := e.emitSequence(m1Len, uint16(pos0-m1Pos)); err != nil {
				return err
			}
			continue
		}

		start3 := start2 + m2Len - 3
		m3Len := 0
		if start3 <= srcEnd-mfLimit {
			insertUpTo(start3)
			_, m3Len = e.searchChain(start3, int(nbSearches))
		}

		if m3Len > m2Len {
			// Each successor improves: shorten M1 to end where M2 starts and
			// emit it; the next outer iteration re-derives M2 as the new M1
			// (spec.md §4.3.3 "shift: M2->M1, M3->M2").
			shortLen := start2 - pos0
			if shortLen < MinMatch {
				if err := e.emitSequence(m1Len, uint16(pos0-m1Pos)); err != nil {
					return err
				}
				continue
			}
			if err := e.emitSequence(shortLen, uint16(pos0-m1Pos)); err != nil {
				return err
			}
			continue
		}

		// M2 > M1 but M3 <= M2: emit M1 shortened to where M2 starts, then M2.
		shortLen := start2 - pos0
		if shortLen < MinMatch {
			if err := e.emitSequence(m1Len, uint16(pos0-m1Pos)); err != nil {
				return err
			}
			continue
		}
		if err := e.emitSequence(shortLen, uint16(pos0-m1Pos)); err != nil {
			return err
		}
		if err := e.emitSequence(m2Len, uint16(e.srcBase+e.ip-m2Pos)); err != nil {
			return err
		}
	}

	return e.emitTrailingLiterals(srcLen)
}
