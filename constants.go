// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

// LZ4 block-format constants (spec.md §4.1-§4.2, GLOSSARY).
const (
	// MinMatch is the smallest match length that may be emitted as a
	// back-reference.
	MinMatch = 4

	// mfLimit is how far from the end of input the match finder must stop
	// looking for new matches, leaving room for the trailing-literals
	// epilogue to always have a full 5-byte lookahead available.
	mfLimit = 12

	// minLength is the smallest input for which the fast encoder will try to
	// find any match at all; shorter inputs are emitted as one literal run.
	minLength = mfLimit + 1

	// maxInputSize is the largest source size the format can address
	// (spec.md §6, §7 ErrInputTooLarge).
	maxInputSize = 2113929216

	// maxDistance is the largest encodable back-reference offset (16-bit).
	maxDistance = 65535

	hashLog       = 12 // fast encoder: 4096-entry table (by-u16 / by-u32)
	hashTableSize = 1 << hashLog

	// HC chain table constants (spec.md §3.1, §3.4).
	hcHashLog       = 15 // 32768-entry position hash
	hcHashTableSize = 1 << hcHashLog
	hcChainLog      = 16 // 65536-entry chain-delta table
	hcChainSize     = 1 << hcChainLog

	// midHashLog sizes the HC mid-level strategy's two hash tables
	// (spec.md §4.3.2: LZ4MID_HASHLOG = LZ4_HASHLOG - 1 = 14).
	midHashLog       = 14
	midHashTableSize = 1 << midHashLog

	// optWindow is the DP optimal parser's look-ahead window
	// (spec.md §4.3.4: LZ4_OPT_NUM) plus 3 trailing-literal slots.
	optWindow    = 4096
	optWindowPad = optWindow + 3

	// maxDictSize bounds history reachable through a 64KB dictionary window.
	maxDictSize = 65536

	// renormalization threshold: current_offset approaching 2^31 triggers
	// renormalisation (spec.md §3.1 invariants, §4.3.5).
	renormalizeThreshold = uint32(1) << 31
)

// tableType tells readers how to interpret StreamState.hashTable entries
// (spec.md §3.1 `table_type`).
type tableType int

const (
	tableCleared tableType = iota
	tableByU16             // entries are 16-bit positions (single-block <=64KB)
	tableByU32             // entries are 32-bit absolute positions
	tableByPtr             // entries are absolute addresses (32-bit platforms only)
)

// hcStrategy is the strategy tag selected by compression level
// (spec.md §3.4, §4.3.1).
type hcStrategy int

const (
	strategyMid hcStrategy = iota
	strategyHC
	strategyOpt
)

// hcLevelParams is one row of the HC compression-level table (spec.md §3.4).
type hcLevelParams struct {
	strategy     hcStrategy
	nbSearches   uint32
	targetLength uint32
}

// hcLevelTable maps level 0-12 to its strategy/search-depth/target-length.
// Levels 0-2 => mid; 3-9 => hc with nbSearches doubling 4..256; 10/11/12 =>
// opt(96,64)/opt(512,128)/opt(16384,4096).
var hcLevelTable = [13]hcLevelParams{
	{strategyMid, 0, 0},
	{strategyMid, 0, 0},
	{strategyMid, 0, 0},
	{strategyHC, 4, 16},
	{strategyHC, 8, 16},
	{strategyHC, 16, 16},
	{strategyHC, 32, 16},
	{strategyHC, 64, 16},
	{strategyHC, 128, 16},
	{strategyHC, 256, 16},
	{strategyOpt, 96, 64},
	{strategyOpt, 512, 128},
	{strategyOpt, 16384, 4096},
}

// DefaultHCLevel is the level clamp target for level < 1 (spec.md §3.4).
const DefaultHCLevel = 9

// clampHCLevel clamps an arbitrary requested level into [1, 12], with
// anything below 1 clamping to DefaultHCLevel (spec.md §3.4).
func clampHCLevel(level int) int {
	if level < 1 {
		return DefaultHCLevel
	}
	if level > 12 {
		return 12
	}
	return level
}
