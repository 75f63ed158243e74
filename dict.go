// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

import "github.com/jafreck/lz4go/internal/xxh32"

// Dictionary is an immutable, pre-digested compression dictionary: a
// trimmed history buffer plus two pre-loaded stream states (fast and HC),
// so sessions that repeatedly compress against the same dictionary skip
// re-hashing it every time (spec.md §3.1/§5 "pre-digested compression
// dictionary ... shared across threads by value-reference").
type Dictionary struct {
	bytes []byte
	id    uint32

	fast *StreamState
	hc   *StreamState
}

// NewDictionary builds a Dictionary from raw bytes, trimming to the last
// 64 KB and pre-loading both the fast and a default-level HC state
// (spec.md §4.6 SUPPLEMENTED "AutoDictID"). id, if zero, is derived as
// XXH32(trimmed dict, seed=0), mirroring how a dictionary that was never
// assigned an explicit ID is still distinguishable across sessions.
func NewDictionary(raw []byte, id uint32) (*Dictionary, error) {
	if len(raw) == 0 {
		return nil, ErrDictionaryError
	}
	trimmed := raw
	if len(trimmed) > maxDictSize {
		trimmed = trimmed[len(trimmed)-maxDictSize:]
	}
	buf := make([]byte, len(trimmed))
	copy(buf, trimmed)

	if id == 0 {
		id = xxh32.Checksum(buf, 0)
	}

	fast := NewStreamState()
	fast.LoadDict(buf)
	hc := NewHCStreamState()
	hc.level = DefaultHCLevel
	hc.LoadDictHC(buf, hcLevelTable[clampHCLevel(DefaultHCLevel)].strategy)

	return &Dictionary{bytes: buf, id: id, fast: fast, hc: hc}, nil
}

// Bytes returns the trimmed dictionary buffer. Callers must not mutate it.
func (d *Dictionary) Bytes() []byte { return d.bytes }

// ID returns the dictionary's identifier (explicit, or auto-derived by
// NewDictionary).
func (d *Dictionary) ID() uint32 { return d.id }

// AttachFast returns a fresh fast-path StreamState attached to this
// dictionary's pre-loaded table (spec.md §3.1 `dict_ctx`); its first
// compression copies that table into the state's own.
func (d *Dictionary) AttachFast() *StreamState {
	s := NewStreamState()
	s.AttachDict(d.fast)
	s.dictionary = d.bytes
	s.dictSize = uint32(len(d.bytes))
	s.currentOffset = s.dictSize
	s.tableType = tableByU32
	return s
}

// AttachHC returns a fresh HC StreamState referencing this dictionary's
// pre-loaded HC table for zero-copy reuse.
func (d *Dictionary) AttachHC(level int) *StreamState {
	s := NewHCStreamState()
	s.level = clampHCLevel(level)
	s.AttachDict(d.hc)
	s.dictionary = d.bytes
	s.dictSize = uint32(len(d.bytes))
	s.currentOffset = s.dictSize
	s.tableVer = hcTableVersionFor(hcLevelTable[s.level].strategy)
	return s
}
