// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

import "fmt"

// HCCompressorOptions configures the HC (High-Compression) block encoder
// family (spec.md §3.4, §4.3).
type HCCompressorOptions struct {
	// Level selects the strategy and search depth via hcLevelTable; clamped
	// to [1, 12] with anything below 1 clamping to DefaultHCLevel.
	Level int

	// FavorDecSpeed trades a small ratio loss for a faster decode by
	// rejecting marginally-longer matches and shortening medium-length
	// greedy matches (spec.md §4.3.4).
	FavorDecSpeed bool
}

// DefaultHCCompressorOptions returns level 9, no decode-speed favoring.
func DefaultHCCompressorOptions() *HCCompressorOptions {
	return &HCCompressorOptions{Level: DefaultHCLevel}
}

func (o *HCCompressorOptions) level() int {
	if o == nil {
		return DefaultHCLevel
	}
	return clampHCLevel(o.Level)
}

func (o *HCCompressorOptions) favorDecSpeed() bool {
	return o != nil && o.FavorDecSpeed
}

// CompressBlockHC compresses src into dst using the HC encoder family
// (spec.md §3.4, §4.3.1 "Dispatch"). The caller must guarantee dst has at
// least CompressBlockBound(len(src)) capacity.
func CompressBlockHC(src, dst []byte, opts *HCCompressorOptions) (int, error) {
	if len(src) > maxInputSize {
		return 0, ErrInputTooLarge
	}
	state := NewHCStreamState()
	state.level = opts.level()
	state.favorDecSpeed = opts.favorDecSpeed()
	n, _, err := compressHCWithState(state, src, dst, modeUnlimited)
	return n, err
}

// CompressBlockHCLimited is CompressBlockHC in bounded mode: it never writes
// past len(dst) and returns ErrOutputTooSmall if dst cannot hold the result.
func CompressBlockHCLimited(src, dst []byte, opts *HCCompressorOptions) (int, error) {
	if len(src) > maxInputSize {
		return 0, ErrInputTooLarge
	}
	state := NewHCStreamState()
	state.level = opts.level()
	state.favorDecSpeed = opts.favorDecSpeed()
	n, _, err := compressHCWithState(state, src, dst, modeBounded)
	return n, err
}

// compressHCWithState dispatches to the strategy selected by state.level in
// hcLevelTable, after handling the dict-context attach/rotate directive
// (spec.md §4.3.1). On a non-positive/failed encode, the state is marked
// dirty per the core's "failed operation leaves the context dirty"
// concurrency rule (spec.md §5).
func compressHCWithState(state *StreamState, src, dst []byte, mode outputMode) (written, consumed int, err error) {
	if state.IsDirty() {
		return 0, 0, fmt.Errorf("%w: StreamState is dirty, call Reset first", errInternal)
	}
	if len(src) > maxInputSize {
		return 0, 0, ErrInputTooLarge
	}
	state.renormalize()

	params := hcLevelTable[clampHCLevel(state.level)]

	// A dict-context attached before this state has compressed anything,
	// on a source large enough to amortise the copy, is promoted into this
	// state's own tables by a straight copy, then rotated into the
	// external-dict slot, so search code never special-cases "consult
	// another state's tables" (spec.md §4.3.1 second paragraph).
	if state.dictCtx != nil && state.end == 0 && len(src) > 4096 &&
		state.dictCtx.tableVer == hcTableVersionFor(params.strategy) {
		copy(state.hashTable, state.dictCtx.hashTable)
		if len(state.chainTable) > 0 {
			copy(state.chainTable, state.dictCtx.chainTable)
		}
		state.dictSize = state.dictCtx.dictSize
		state.currentOffset = state.dictCtx.currentOffset
		state.rotatePrefixToDict(int(state.currentOffset))
	}

	e := &hcEncoder{
		src:     src,
		dict:    state.dictionary,
		srcBase: len(state.dictionary),
		state:   state,
		dst:     dst,
		mode:    mode,
	}

	var runErr error
	switch params.strategy {
	case strategyMid:
		runErr = e.runMid()
	case strategyOpt:
		runErr = e.runOpt(params.nbSearches, params.targetLength)
	default:
		runErr = e.runChain(params.nbSearches, params.targetLength)
	}

	state.end += len(src)
	state.tableVer = hcTableVersionFor(params.strategy)
	if runErr != nil {
		state.MarkDirty()
		return 0, 0, runErr
	}
	state.currentOffset += uint32(len(src))
	return e.op, len(src), nil
}

// hcTableVersionFor maps a strategy to the tableVersion tag its tables are
// built under, so a later dict-context attach can tell whether the tables
// are reusable as-is (spec.md §3.1 `table_version`).
func hcTableVersionFor(s hcStrategy) tableVersion {
	switch s {
	case strategyMid:
		return versionMid
	case strategyOpt:
		return versionOpt
	default:
		return versionHC
	}
}
