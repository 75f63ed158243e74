// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

import "github.com/jafreck/lz4go/internal/xxh32"

// Frame magic numbers (spec.md §4.6).
const (
	frameMagic        = 0x184D2204
	skippableMagicLo  = 0x184D2A50
	skippableMagicHi  = 0x184D2A5F
	legacyFrameMagic  = 0x184C2102 // recognised only to be rejected, never decoded
)

// BlockMode selects whether block N may reference block N-1 as history
// (spec.md §3.2 `block_mode`).
type BlockMode int

const (
	BlockLinked BlockMode = iota
	BlockIndependent
)

// Preferences configures frame encoding (spec.md §3.2).
type Preferences struct {
	// BlockSizeID selects the maximum uncompressed block size: 4=64KB,
	// 5=256KB, 6=1MB, 7=4MB (default).
	BlockSizeID int

	BlockMode        BlockMode
	ContentChecksum  bool
	BlockChecksum    bool
	ContentSize      uint64
	DictID           uint32
	CompressionLevel int

	// AutoFlush, if false, allows the encoder to buffer small inputs to
	// amortise per-block headers; default true (spec.md §3.2).
	AutoFlush bool

	FavorDecSpeed bool

	// Dict, if non-nil, pre-loads the encoder's first block's history
	// (spec.md §3.1/§5 pre-digested dictionary). Only BlockLinked frames
	// use it; BlockIndependent frames ignore it.
	Dict *Dictionary
}

// DefaultPreferences returns block-size-id 7, linked mode, no checksums,
// auto-flush on (spec.md §3.2 bold defaults).
func DefaultPreferences() *Preferences {
	return &Preferences{
		BlockSizeID: 7,
		BlockMode:   BlockLinked,
		AutoFlush:   true,
	}
}

func (p *Preferences) blockSizeID() int {
	if p == nil || p.BlockSizeID < 4 || p.BlockSizeID > 7 {
		return 7
	}
	return p.BlockSizeID
}

func blockSizeBytes(id int) int {
	switch id {
	case 4:
		return 64 * 1024
	case 5:
		return 256 * 1024
	case 6:
		return 1024 * 1024
	default:
		return 4 * 1024 * 1024
	}
}

func (p *Preferences) autoFlush() bool {
	return p == nil || p.AutoFlush
}

func (p *Preferences) blockMode() BlockMode {
	if p == nil {
		return BlockLinked
	}
	return p.BlockMode
}

// headerChecksum computes the one-byte FLG/BD(+optional fields) checksum
// (spec.md §4.6 "Header checksum").
func headerChecksum(b []byte) byte {
	return byte((xxh32.Checksum(b, 0) >> 8) & 0xFF)
}
