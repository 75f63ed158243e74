// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

import (
	"bytes"
	"testing"
)

func TestStreamState_LoadDictIdempotent(t *testing.T) {
	// spec.md §8 "Idempotent prep": loading a dictionary twice yields the
	// same state as loading it once.
	dict := bytes.Repeat([]byte("prep-idempotency-check-"), 100)

	once := NewStreamState()
	once.LoadDict(dict)

	twice := NewStreamState()
	twice.LoadDict(dict)
	twice.LoadDict(dict)

	if !equalU32(once.hashTable, twice.hashTable) {
		t.Fatalf("hashTable diverged after loading the same dict twice")
	}
	if once.dictSize != twice.dictSize || once.currentOffset != twice.currentOffset {
		t.Fatalf("dictSize/currentOffset diverged: once=%d/%d twice=%d/%d",
			once.dictSize, once.currentOffset, twice.dictSize, twice.currentOffset)
	}
}

func TestStreamState_LoadDictHCIdempotent(t *testing.T) {
	dict := bytes.Repeat([]byte("hc-prep-idempotency-check-"), 100)
	for _, strat := range []hcStrategy{strategyMid, strategyHC, strategyOpt} {
		once := NewHCStreamState()
		once.LoadDictHC(dict, strat)

		twice := NewHCStreamState()
		twice.LoadDictHC(dict, strat)
		twice.LoadDictHC(dict, strat)

		if !equalU32(once.hashTable, twice.hashTable) || !equalU16(once.chainTable, twice.chainTable) ||
			!equalU32(once.midTable8, twice.midTable8) {
			t.Fatalf("strategy %v: tables diverged after loading the same dict twice", strat)
		}
	}
}

func TestStreamState_LoadDictHC_StrategyShapesTablesDifferently(t *testing.T) {
	dict := bytes.Repeat([]byte("strategy-shape-probe-"), 200)

	mid := NewHCStreamState()
	mid.LoadDictHC(dict, strategyMid)
	if isAllZero32(mid.midTable8) {
		t.Fatalf("strategyMid should populate midTable8")
	}
	// chainTable is unused by strategyMid; LoadDictHC zeroes it but never
	// writes to it for this strategy.
	if !isAllZero16(mid.chainTable) {
		t.Fatalf("strategyMid should leave chainTable untouched (all zero)")
	}

	hc := NewHCStreamState()
	hc.LoadDictHC(dict, strategyHC)
	if isAllZero16(hc.chainTable) {
		t.Fatalf("strategyHC should populate chainTable")
	}
	if !isAllZero32(hc.midTable8) {
		t.Fatalf("strategyHC should leave midTable8 untouched (all zero)")
	}

	if mid.tableVer == hc.tableVer {
		t.Fatalf("mid and hc strategies must tag distinct table versions, both got %v", mid.tableVer)
	}
}

func TestStreamState_LoadDictHC_ShortDictLeavesTablesEmpty(t *testing.T) {
	// spec.md §3.1: a dictionary shorter than MinMatch contributes no hashable
	// positions at all.
	dict := []byte{0x01, 0x02}
	s := NewHCStreamState()
	s.LoadDictHC(dict, strategyHC)
	if !isAllZero32(s.hashTable) || !isAllZero16(s.chainTable) {
		t.Fatalf("short dict should leave HC tables untouched")
	}
	if s.dictSize != uint32(len(dict)) {
		t.Fatalf("dictSize = %d, want %d", s.dictSize, len(dict))
	}
}

func TestStreamState_LoadDictTrimsToMaxDictSize(t *testing.T) {
	big := make([]byte, maxDictSize+5000)
	for i := range big {
		big[i] = byte(i)
	}
	s := NewStreamState()
	s.LoadDict(big)
	if s.dictSize != maxDictSize {
		t.Fatalf("dictSize = %d, want %d (trimmed to maxDictSize)", s.dictSize, maxDictSize)
	}
	if !bytes.Equal(s.dictionary, big[len(big)-maxDictSize:]) {
		t.Fatalf("trimmed dictionary should be the tail of the original bytes")
	}
}

func TestStreamState_Reset(t *testing.T) {
	s := NewHCStreamState()
	s.LoadDictHC(bytes.Repeat([]byte{0xAB}, 100), strategyHC)
	s.MarkDirty()
	s.currentOffset = 12345
	s.prefixStart = 7

	s.Reset()

	if s.IsDirty() {
		t.Fatalf("Reset should clear the dirty flag")
	}
	if s.currentOffset != 0 || s.dictSize != 0 || s.prefixStart != 0 {
		t.Fatalf("Reset should zero window bookkeeping")
	}
	if !isAllZero32(s.hashTable) || !isAllZero16(s.chainTable) || !isAllZero32(s.midTable8) {
		t.Fatalf("Reset should zero all tables")
	}
	if s.tableVer != versionCleared || s.tableType != tableCleared {
		t.Fatalf("Reset should clear table type/version tags")
	}
}

func TestStreamState_RenormalizeSubtractsAndRebases(t *testing.T) {
	s := NewStreamState()
	s.hashTable[0] = renormalizeThreshold - maxDictSize + 10 // survives: >= delta
	s.hashTable[1] = 5                                       // dropped: < delta
	s.currentOffset = renormalizeThreshold
	s.dictSize = maxDictSize + 1000

	s.renormalize()

	if s.hashTable[0] != 10 {
		t.Fatalf("surviving entry: got %d, want %d", s.hashTable[0], 10)
	}
	if s.hashTable[1] != 0 {
		t.Fatalf("stale entry should be zeroed, got %d", s.hashTable[1])
	}
	if s.currentOffset != maxDictSize {
		t.Fatalf("currentOffset after renormalize = %d, want %d", s.currentOffset, maxDictSize)
	}
	if s.dictSize != maxDictSize {
		t.Fatalf("dictSize should be clamped to maxDictSize, got %d", s.dictSize)
	}
}

func TestStreamState_RenormalizeNoOpBelowThreshold(t *testing.T) {
	s := NewStreamState()
	s.hashTable[3] = 42
	s.currentOffset = renormalizeThreshold - 1

	s.renormalize()

	if s.hashTable[3] != 42 || s.currentOffset != renormalizeThreshold-1 {
		t.Fatalf("renormalize should be a no-op below the threshold")
	}
}

func TestStreamState_AttachDictSharesPointer(t *testing.T) {
	dict := NewStreamState()
	dict.LoadDict(bytes.Repeat([]byte("shared"), 50))

	s := NewStreamState()
	s.AttachDict(dict)
	if s.dictCtx != dict {
		t.Fatalf("AttachDict should store the exact pointer for zero-copy reuse")
	}
}

func TestStreamState_SaveDictRoundTripsRecentHistory(t *testing.T) {
	s := NewStreamState()
	src := bytes.Repeat([]byte("recent-history-bytes"), 10)
	s.src = src
	s.end = len(src)
	s.prefixStart = 0
	s.currentOffset = uint32(len(src))
	s.dictLimit = 0

	saved := s.SaveDict(nil)
	if !bytes.Equal(saved, src) {
		t.Fatalf("SaveDict should copy the full in-memory window when under maxDictSize")
	}
	if !bytes.Equal(s.dictionary, saved) {
		t.Fatalf("SaveDict should repoint s.dictionary at the saved bytes")
	}
}

func equalU32(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalU16(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isAllZero32(a []uint32) bool {
	for _, v := range a {
		if v != 0 {
			return false
		}
	}
	return true
}

func isAllZero16(a []uint16) bool {
	for _, v := range a {
		if v != 0 {
			return false
		}
	}
	return true
}
