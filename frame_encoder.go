// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

import (
	"io"

	"github.com/jafreck/lz4go/internal/xxh32"
)

// FrameWriter streams the LZ4 Frame Format to an underlying io.Writer
// (spec.md §4.6 "Encoder streaming"), grounded on the teacher's
// DecompressFromReader wrapper shape generalised to a writer-side,
// incremental session.
type FrameWriter struct {
	w     io.Writer
	prefs *Preferences

	blockSize int
	useHC     bool
	fastState *StreamState
	hcState   *StreamState

	pending []byte // buffered remainder when AutoFlush is false

	headerWritten bool
	closed        bool

	contentHash *xxh32.Digest
	written     uint64

	// dictID is what actually gets written into the header: prefs.DictID
	// verbatim, or — when the caller left it zero and attached a
	// Dictionary to a BlockLinked frame — the dictionary's own ID (spec.md §4.6 SUPPLEMENTED
	// "AutoDictID", original_source/src/frame/cdict.rs).
	dictID uint32
}

// NewFrameWriter returns a FrameWriter; prefs == nil uses DefaultPreferences.
func NewFrameWriter(w io.Writer, prefs *Preferences) *FrameWriter {
	if prefs == nil {
		prefs = DefaultPreferences()
	}
	fw := &FrameWriter{
		w:         w,
		prefs:     prefs,
		blockSize: blockSizeBytes(prefs.blockSizeID()),
		useHC:     prefs.CompressionLevel >= 1,
		dictID:    prefs.DictID,
	}
	if prefs.ContentChecksum {
		fw.contentHash = xxh32.New(0)
	}
	if prefs.blockMode() == BlockLinked {
		if fw.useHC {
			fw.hcState = NewHCStreamState()
			fw.hcState.level = clampHCLevel(prefs.CompressionLevel)
			fw.hcState.favorDecSpeed = prefs.FavorDecSpeed
		} else {
			fw.fastState = NewStreamState()
		}
		if prefs.Dict != nil {
			dict := prefs.Dict.bytes
			if fw.useHC {
				fw.hcState.LoadDictHC(dict, hcLevelTable[fw.hcState.level].strategy)
			} else {
				fw.fastState.LoadDict(dict)
			}
			if fw.dictID == 0 {
				fw.dictID = prefs.Dict.ID()
			}
		}
	}
	return fw
}

func (fw *FrameWriter) writeHeader() error {
	var hdr [19]byte
	writeLE32(hdr[0:4], frameMagic)

	flg := byte(1 << 6) // version 01
	if fw.prefs.blockMode() == BlockIndependent {
		flg |= 1 << 5
	}
	if fw.prefs.BlockChecksum {
		flg |= 1 << 4
	}
	if fw.prefs.ContentSize > 0 {
		flg |= 1 << 3
	}
	if fw.prefs.ContentChecksum {
		flg |= 1 << 2
	}
	if fw.dictID != 0 {
		flg |= 1 << 0
	}
	bd := byte(fw.prefs.blockSizeID()&0x7) << 4

	n := 6
	hdr[4] = flg
	hdr[5] = bd
	if fw.prefs.ContentSize > 0 {
		putLE64(hdr[n:], fw.prefs.ContentSize)
		n += 8
	}
	if fw.dictID != 0 {
		writeLE32(hdr[n:], fw.dictID)
		n += 4
	}
	hdr[n] = headerChecksum(hdr[4:n])
	n++

	_, err := fw.w.Write(hdr[:n])
	return err
}

// Write implements io.Writer (spec.md §4.6 "Encoder streaming ... per
// chunk"). With AutoFlush (default), each call compresses and emits its
// data immediately rather than holding a partial block across calls.
func (fw *FrameWriter) Write(p []byte) (int, error) {
	if fw.closed {
		return 0, ErrFrameClosed
	}
	if !fw.headerWritten {
		if err := fw.writeHeader(); err != nil {
			return 0, err
		}
		fw.headerWritten = true
	}

	total := len(p)
	if fw.contentHash != nil {
		fw.contentHash.Write(p)
	}
	fw.written += uint64(len(p))

	data := p
	if len(fw.pending) > 0 {
		data = append(fw.pending, p...)
		fw.pending = nil
	}

	for len(data) >= fw.blockSize {
		if err := fw.flushBlock(data[:fw.blockSize]); err != nil {
			return 0, err
		}
		data = data[fw.blockSize:]
	}

	if len(data) > 0 {
		if fw.prefs.autoFlush() {
			if err := fw.flushBlock(data); err != nil {
				return 0, err
			}
		} else {
			fw.pending = append(fw.pending, data...)
		}
	}

	return total, nil
}

func (fw *FrameWriter) flushBlock(chunk []byte) error {
	bound := CompressBlockBound(len(chunk))
	comp := make([]byte, bound)

	var n int
	var err error
	switch {
	case fw.fastState != nil:
		n, _, err = compressFastWithState(fw.fastState, chunk, comp, 1, modeUnlimited)
	case fw.hcState != nil:
		n, _, err = compressHCWithState(fw.hcState, chunk, comp, modeUnlimited)
	case fw.useHC:
		n, err = CompressBlockHC(chunk, comp, &HCCompressorOptions{
			Level: fw.prefs.CompressionLevel, FavorDecSpeed: fw.prefs.FavorDecSpeed})
	default:
		n, err = CompressBlock(chunk, comp, DefaultCompressorOptions())
	}
	if err != nil {
		return err
	}

	// Carry this block's trailing bytes forward as the next block's
	// dictionary so BlockLinked sessions actually let block N reference
	// block N-1's bytes as history, instead of silently behaving like
	// independent mode (spec.md §3.1/§4.2).
	switch {
	case fw.fastState != nil:
		fw.fastState.refreshLinkedDict(chunk)
	case fw.hcState != nil:
		fw.hcState.refreshLinkedDictHC(chunk, hcLevelTable[fw.hcState.level].strategy)
	}

	var blockField uint32
	var payload []byte
	if n >= len(chunk) {
		blockField = uint32(len(chunk)) | 0x80000000
		payload = chunk
	} else {
		blockField = uint32(n)
		payload = comp[:n]
	}

	var hdr [4]byte
	writeLE32(hdr[:], blockField)
	if _, err := fw.w.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := fw.w.Write(payload); err != nil {
		return err
	}
	if fw.prefs.BlockChecksum {
		var b4 [4]byte
		writeLE32(b4[:], xxh32.Checksum(payload, 0))
		if _, err := fw.w.Write(b4[:]); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes any buffered remainder, emits the end mark, and — if
// enabled — the content checksum (spec.md §4.6 "At end").
func (fw *FrameWriter) Close() error {
	if fw.closed {
		return nil
	}
	if !fw.headerWritten {
		if err := fw.writeHeader(); err != nil {
			return err
		}
		fw.headerWritten = true
	}
	if len(fw.pending) > 0 {
		if err := fw.flushBlock(fw.pending); err != nil {
			return err
		}
		fw.pending = nil
	}

	var end [4]byte
	if _, err := fw.w.Write(end[:]); err != nil {
		return err
	}
	if fw.contentHash != nil {
		var b4 [4]byte
		writeLE32(b4[:], fw.contentHash.Sum32())
		if _, err := fw.w.Write(b4[:]); err != nil {
			return err
		}
	}
	fw.closed = true
	return nil
}

func putLE64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
