// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

// literalsPrice and sequencePrice are the DP cost model from spec.md §4.3.4.
func literalsPrice(n int) int {
	p := n
	if n >= 15 {
		p += 1 + (n-15)/255
	}
	return p
}

func sequencePrice(litLen, matchLen int) int {
	p := 1 + 2 + literalsPrice(litLen)
	rem := matchLen - MinMatch
	if rem >= 15 {
		p += 1 + (rem-15)/255
	}
	return p
}

// optNode is one slot of the DP cost-relaxation array used by runOpt
// (spec.md §4.3.4 steps 3-5). price is the lowest known cost of a parse
// reaching this node. A node reached purely by extending the pending
// literal run (not yet bound to a match) has mLen == 0 and litLen set to
// that run's length; price for such a node is "provisional" in that it has
// not yet paid the owning token's offset/length overhead — literalsPrice,
// not sequencePrice, was added for the pending run. A node reached by a
// completed match has mLen/off set and litLen == 0; its price is final.
type optNode struct {
	price  int
	litLen int
	mLen   int
	off    uint16
}

// runOpt implements the HC optimal-parser strategy (spec.md §4.3.4), used
// for levels 10-12. Each outer iteration relaxes a DP array over a window
// of candidate end-positions: every reachable node is extended one byte as
// a literal, and (when a match is found there) finalized as a match of
// every length the chain search turned up, so a later, cheaper match can
// win out over a greedy longest-match choice. The winning path to the
// window's furthest reached node is then walked backward through mLen/off
// to recover the token sequence, which is emitted in forward order.
func (e *hcEncoder) runOpt(nbSearches, targetLength uint32) error {
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

	var opt [optWindowPad]optNode

	for e.srcBase+e.ip <= srcEnd-mfLimit {
		pos0 := e.srcBase + e.ip
		insertUpTo(pos0)
		m0Pos, m0Len := e.searchChain(pos0, int(nbSearches))
		if m0Len < MinMatch {
			e.ip++
			continue
		}

		// A match already at or past targetLength is "good enough": emit it
		// straight away (after the usual backward catch-up into pending
		// literals) rather than paying for a DP relaxation that targetLength
		// says isn't worth it (spec.md §4.3.4 "sufficient_len shortcut").
		if m0Len >= int(targetLength) {
			winStart, cand := e.extendBack(pos0, m0Pos, e.srcBase+e.anchor)
			winLen := m0Len + (pos0 - winStart)
			if e.state.favorDecSpeed && winLen >= 18 && winLen <= 36 {
				winLen = 18
			}
			e.ip = winStart - e.srcBase
			if err := e.emitSequence(winLen, uint16(winStart-cand)); err != nil {
				return err
			}
			continue
		}

		windowBase, cand0 := e.extendBack(pos0, m0Pos, e.srcBase+e.anchor)
		m0LenFromBase := m0Len + (pos0 - windowBase)
		baseLit := windowBase - (e.srcBase + e.anchor)

		windowLen := srcEnd - windowBase
		if windowLen > optWindow {
			windowLen = optWindow
		}

		for k := 0; k <= windowLen; k++ {
			opt[k] = optNode{price: 1 << 30}
		}
		opt[0] = optNode{price: literalsPrice(baseLit), litLen: baseLit}

		lastPos := 0
		applyMatch := func(j, mLen int, off uint16) {
			if j+mLen > windowLen {
				mLen = windowLen - j
				if mLen < MinMatch {
					return
				}
			}
			base := opt[j].price - literalsPrice(opt[j].litLen)
			for ml := MinMatch; ml <= mLen; ml++ {
				price := base + sequencePrice(opt[j].litLen, ml)
				threshold := opt[j+ml].price
				if e.state.favorDecSpeed {
					threshold-- // must beat the current parse by more than one byte
				}
				if price < threshold {
					opt[j+ml] = optNode{price: price, mLen: ml, off: off}
				}
			}
			if j+mLen > lastPos {
				lastPos = j + mLen
			}
		}
		applyMatch(0, m0LenFromBase, uint16(windowBase-cand0))

		for cur := 1; cur <= lastPos && cur < windowLen; cur++ {
			if opt[cur-1].price < 1<<29 {
				newLit := opt[cur-1].litLen + 1
				base := opt[cur-1].price - literalsPrice(opt[cur-1].litLen)
				price := base + literalsPrice(newLit)
				if price < opt[cur].price {
					opt[cur] = optNode{price: price, litLen: newLit}
				}
			}
			if opt[cur].price >= 1<<29 {
				continue
			}

			searchPos := windowBase + cur
			if searchPos > srcEnd-mfLimit {
				continue
			}
			insertUpTo(searchPos)
			mPos, mLen := e.searchChain(searchPos, int(nbSearches))
			if mLen < MinMatch {
				continue
			}
			applyMatch(cur, mLen, uint16(searchPos-mPos))
			if mLen >= int(targetLength) {
				break
			}
		}

		// Walk the winning path backward from the furthest reached node.
		// A node with mLen == 0 was reached by extending the pending
		// literal run, so it just absorbs into whatever match follows it;
		// a node with mLen > 0 is a real token boundary, recorded and
		// jumped back over.
		type token struct {
			start int
			mLen  int
			off   uint16
		}
		var toks []token
		for k := lastPos; k > 0; {
			n := opt[k]
			if n.mLen == 0 {
				k--
				continue
			}
			start := k - n.mLen
			toks = append(toks, token{start, n.mLen, n.off})
			k = start
		}

		if e.state.favorDecSpeed {
			for i := range toks {
				if toks[i].mLen >= 18 && toks[i].mLen <= 36 {
					toks[i].mLen = 18
				}
			}
		}
		for i := len(toks) - 1; i >= 0; i-- {
			t := toks[i]
			e.ip = windowBase + t.start - e.srcBase
			if err := e.emitSequence(t.mLen, t.off); err != nil {
				return err
			}
		}
	}

	return e.emitTrailingLiterals(srcLen)
}
