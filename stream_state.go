// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

import "sync"

// tableVersion is the HC-side strategy tag (spec.md §3.1 `table_version`); it
// resets on an incompatible level change so a chain table built for one
// strategy is never misread by another.
type tableVersion int

const (
	versionCleared tableVersion = iota
	versionMid
	versionHC
	versionOpt
)

// StreamState holds match-finder history across successive blocks: hash and
// chain tables, prefix/external-dict window pointers, and the running
// absolute position counter (spec.md §3.1).
type StreamState struct {
	hashTable  []uint32 // position index per hash bucket
	chainTable []uint16 // HC only: offset-delta to the next older position

	// midTable8 is the mid-level strategy's second (8-byte, long-match)
	// hash table; hashTable doubles as its 4-byte (short-match) table
	// (spec.md §4.3.2). Unused outside strategyMid.
	midTable8 []uint32

	dictionary []byte      // non-owning: start of history bytes, or nil
	dictCtx    *StreamState // attached dictionary context, read in place or copied on first use

	currentOffset uint32 // absolute position counter across all blocks so far
	dictSize      uint32 // valid history length reachable via dictionary, <= maxDictSize (65536)

	tableType   tableType
	tableVer    tableVersion
	level       int // HC compression level this table was built for

	// HC window bookkeeping (spec.md §4.3.5).
	prefixStart     int // offset into the logical source of the current in-memory block
	end             int // one past the last byte of the current in-memory block
	dictStart       int
	dictLimit       uint32
	lowLimit        uint32
	nextToUpdate    uint32
	dirty           bool
	favorDecSpeed   bool
	compressionLevel int

	src []byte // the logical source bytes backing prefixStart/end/dictStart indices
}

// NewStreamState returns a zero-initialised StreamState sized for the fast
// encoder (by-u32 table, no chain table).
func NewStreamState() *StreamState {
	return &StreamState{
		hashTable: make([]uint32, hashTableSize),
		tableType: tableCleared,
	}
}

// NewHCStreamState returns a zero-initialised StreamState sized for the HC
// encoder family (position hash + chain-delta table).
func NewHCStreamState() *StreamState {
	return &StreamState{
		hashTable:  make([]uint32, hcHashTableSize),
		chainTable: make([]uint16, hcChainSize),
		midTable8:  make([]uint32, midHashTableSize),
		tableType:  tableCleared,
	}
}

// streamStatePool pools fast-path StreamStates the way the teacher pools
// slidingWindowDict in sliding_window_pool.go. FrameWriter does not draw
// from it: each session allocates its own state.
var streamStatePool = sync.Pool{
	New: func() any { return NewStreamState() },
}

func acquireStreamState() *StreamState {
	s := streamStatePool.Get().(*StreamState)
	s.Reset()
	return s
}

func releaseStreamState(s *StreamState) {
	if s == nil {
		return
	}
	s.dictCtx = nil
	s.dictionary = nil
	s.src = nil
	streamStatePool.Put(s)
}

// Reset clears the table and all window bookkeeping, leaving hashTable
// allocated but zeroed, ready for reuse (spec.md §3.1 lifecycle).
func (s *StreamState) Reset() {
	for i := range s.hashTable {
		s.hashTable[i] = 0
	}
	for i := range s.chainTable {
		s.chainTable[i] = 0
	}
	for i := range s.midTable8 {
		s.midTable8[i] = 0
	}
	s.dictionary = nil
	s.dictCtx = nil
	s.currentOffset = 0
	s.dictSize = 0
	s.tableType = tableCleared
	s.tableVer = versionCleared
	s.prefixStart = 0
	s.end = 0
	s.dictStart = 0
	s.dictLimit = 0
	s.lowLimit = 0
	s.nextToUpdate = 0
	s.dirty = false
	s.src = nil
}

// MarkDirty flags the state as unusable until Reset is called again,
// matching spec.md §3.1's "dirty is set only after a failed compression"
// invariant.
func (s *StreamState) MarkDirty() { s.dirty = true }

// IsDirty reports whether the state must be reinitialised before reuse.
func (s *StreamState) IsDirty() bool { return s.dirty }

// LoadDict fills the hash table with positions from dict so that the next
// CompressBlock call can reference it as history (spec.md §3.1 lifecycle
// "optionally loaded with a dictionary"). Loading the same dictionary twice
// yields the same state as loading it once (spec.md §8 "Idempotent prep"):
// LoadDict always starts from a hash-table state freshly derived from dict,
// never accumulating across calls.
func (s *StreamState) LoadDict(dict []byte) {
	for i := range s.hashTable {
		s.hashTable[i] = 0
	}
	s.dictionary = dict
	if len(dict) > maxDictSize {
		dict = dict[len(dict)-maxDictSize:]
		s.dictionary = dict
	}
	s.dictSize = uint32(len(dict))
	s.currentOffset = s.dictSize
	s.tableType = tableByU32

	if len(dict) >= MinMatch {
		for i := 0; i+4 <= len(dict); i++ {
			h := hash4(readLE32(dict[i:]), hashLog)
			tablePut(s.hashTable, s.tableType, h, uint32(i))
		}
	}
}

// LoadDictHC fills an HC-family StreamState's tables the way the given
// strategy's own search expects (spec.md §3.1 dictionary loading, §3.4
// strategy-specific table shapes): the mid-level strategy hashes into both
// its 4-byte and 8-byte tables at midHashLog, while the hash-chain and
// optimal-parser strategies (which share one chain-table format, per
// §4.3.4's reuse of searchChain) hash into the chain-delta table at
// hcHashLog. Using LoadDict's generic hashLog here would silently make a
// preloaded dictionary unreachable by these strategies' lookups, since
// every hash bucket they read would almost never be one LoadDict wrote.
func (s *StreamState) LoadDictHC(dict []byte, strategy hcStrategy) {
	for i := range s.hashTable {
		s.hashTable[i] = 0
	}
	for i := range s.chainTable {
		s.chainTable[i] = 0
	}
	for i := range s.midTable8 {
		s.midTable8[i] = 0
	}

	s.dictionary = dict
	if len(dict) > maxDictSize {
		dict = dict[len(dict)-maxDictSize:]
		s.dictionary = dict
	}
	s.dictSize = uint32(len(dict))
	s.currentOffset = s.dictSize
	s.tableVer = hcTableVersionFor(strategy)

	// runChain/runOpt's lazy chain-insertion cursor must restart exactly at
	// the new srcBase (== dictSize): the loop below already seeds chain
	// entries for every position in [0, dictSize), and the guard the two
	// strategies carry (`if nextToUpdate < srcBase { nextToUpdate = srcBase }`)
	// only corrects a cursor that is too small, never one left too large by a
	// longer previous block — which would otherwise skip inserting the new
	// block's own positions entirely (spec.md §4.2 "linked blocks").
	s.nextToUpdate = s.dictSize

	if len(dict) < MinMatch {
		return
	}
	switch strategy {
	case strategyMid:
		for i := 0; i+4 <= len(dict); i++ {
			tablePut(s.hashTable, tableByU32, hash4(readLE32(dict[i:]), midHashLog), uint32(i))
		}
		for i := 0; i+8 <= len(dict); i++ {
			tablePut(s.midTable8, tableByU32, hash8(readLE64(dict[i:]), midHashLog), uint32(i))
		}
	default: // strategyHC, strategyOpt: shared chain-table format.
		for i := 0; i+4 <= len(dict); i++ {
			h := hash4(readLE32(dict[i:]), hcHashLog)
			prev := int(tableGet(s.hashTable, tableByU32, h))
			delta := 0
			if prev > 0 && prev < i && i-prev < 65536 {
				delta = i - prev
			}
			s.chainTable[uint16(i)] = uint16(delta)
			tablePut(s.hashTable, tableByU32, h, uint32(i))
		}
	}
}

// AttachDict attaches another StreamState's pre-built table for zero-copy
// reuse (spec.md §3.1 `dict_ctx`). The referenced state must outlive this one
// and must not be mutated concurrently; callers achieve that by heap
// -allocating both (spec.md §9 Design Note on shared mutable dict-ctx via
// RAII-equivalent scoping).
func (s *StreamState) AttachDict(ctx *StreamState) {
	s.dictCtx = ctx
}

// SaveDict copies the last up-to-64KB of the current window into dst and
// re-points s.dictionary at it, so the caller can carry history into the
// next independently-allocated StreamState (spec.md §3.1 lifecycle
// "optionally saved").
func (s *StreamState) SaveDict(dst []byte) []byte {
	prefixSize := s.currentOffset - s.dictLimit
	if prefixSize > maxDictSize {
		prefixSize = maxDictSize
	}
	if uint32(cap(dst)) < prefixSize {
		dst = make([]byte, prefixSize)
	}
	dst = dst[:prefixSize]
	if s.src != nil && s.end >= int(prefixSize) {
		copy(dst, s.src[s.end-int(prefixSize):s.end])
	}
	s.dictionary = dst
	s.dictSize = prefixSize
	return dst
}

// refreshLinkedDict rolls chunk onto the end of the carried history and
// reloads it as the dictionary for the next block, keeping up to the last
// 64 KB of the linked session's bytes reachable as history (spec.md §3.1/
// §4.2 lifecycle "updated in place by each block-encoder invocation"). It
// reuses LoadDict's own clearing-then-rebuilding of the hash table, so no
// absolute position computed against the previous block's (now different)
// srcBase survives into the next block's lookup (spec.md §4.2 "linked
// blocks" safety: a stale table entry addressed against a longer earlier
// block must not be read as a position in a shorter later one).
func (s *StreamState) refreshLinkedDict(chunk []byte) {
	hist := append(append([]byte(nil), s.dictionary...), chunk...)
	if len(hist) > maxDictSize {
		hist = hist[len(hist)-maxDictSize:]
	}
	s.LoadDict(hist)
}

// refreshLinkedDictHC is refreshLinkedDict for the HC encoder family, which
// needs the strategy tag to rebuild the right table shape (spec.md §3.4).
func (s *StreamState) refreshLinkedDictHC(chunk []byte, strategy hcStrategy) {
	hist := append(append([]byte(nil), s.dictionary...), chunk...)
	if len(hist) > maxDictSize {
		hist = hist[len(hist)-maxDictSize:]
	}
	s.LoadDictHC(hist, strategy)
}

// rotatePrefixToDict moves the current in-memory prefix into the external
// -dict slot when a new block is not contiguous in memory with the previous
// one (spec.md §4.3.5). Any attached dict-ctx is dropped: it no longer
// describes valid history once the prefix itself becomes the dictionary.
func (s *StreamState) rotatePrefixToDict(newBlockOffset int) {
	s.lowLimit = s.dictLimit
	s.dictStart = s.prefixStart
	s.dictLimit += uint32(s.end - s.prefixStart)
	s.prefixStart = newBlockOffset
	s.end = newBlockOffset
	s.dictCtx = nil
}

// renormalize subtracts the bulk of currentOffset from every hash-table entry
// once currentOffset approaches 2^31, keeping all stored positions
// representable and preventing offset overflow across a very long linked
// stream (spec.md §3.1 invariant, §4.3.5).
func (s *StreamState) renormalize() {
	if s.currentOffset < renormalizeThreshold {
		return
	}
	delta := s.currentOffset - maxDictSize
	for i, v := range s.hashTable {
		if v < delta {
			s.hashTable[i] = 0
		} else {
			s.hashTable[i] = v - delta
		}
	}
	s.currentOffset = maxDictSize
	if s.dictSize > maxDictSize {
		s.dictSize = maxDictSize
	}
	s.lowLimit = 0
	s.dictLimit = 0
}
