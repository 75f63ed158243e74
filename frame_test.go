// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

import (
	"bytes"
	"io"
	"testing"
)

func frameRoundTrip(t *testing.T, data []byte, prefs *Preferences) []byte {
	t.Helper()
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf, prefs)
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("FrameWriter.Write failed: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("FrameWriter.Close failed: %v", err)
	}

	out, err := io.ReadAll(NewFrameReader(bytes.NewReader(buf.Bytes())))
	if err != nil {
		t.Fatalf("FrameReader read failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("frame round-trip mismatch: got %d bytes, want %d", len(out), len(data))
	}
	return buf.Bytes()
}

func TestFrame_EmptyFrameBytes(t *testing.T) {
	// spec.md §8 scenario 3: encoding an empty slice with the documented
	// defaults (block-independent, content-checksum on, block-size-id 7)
	// produces this exact 15-byte sequence: header, end mark, then the
	// content checksum (XXH32 of no bytes, 0x02CC5D05, little-endian) that
	// follows the end mark whenever content-checksum is on (see DESIGN.md
	// for why DefaultPreferences() itself follows §3.2's bold defaults instead).
	prefs := &Preferences{BlockMode: BlockIndependent, ContentChecksum: true, BlockSizeID: 7}
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf, prefs)
	if err := fw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	want := []byte{0x04, 0x22, 0x4D, 0x18, 0x64, 0x70, 0xB9, 0x00, 0x00, 0x00, 0x00, 0x05, 0x5D, 0xCC, 0x02}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("empty-frame bytes mismatch:\ngot  % x\nwant % x", buf.Bytes(), want)
	}
}

func TestFrame_TruncatedFrameNeverPanics(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf, &Preferences{BlockMode: BlockIndependent, ContentChecksum: true, BlockSizeID: 7})
	if err := fw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	truncated := buf.Bytes()[:buf.Len()-1]

	state := NewFrameDecoderState()
	dst := make([]byte, 64)
	_, _, hint, err := state.Decode(truncated, dst)
	if err == nil && hint <= 0 {
		t.Fatalf("expected a positive hint or an error for truncated input, got hint=%d err=%v", hint, err)
	}
	if err != nil && err != ErrFrameHeaderIncomplete && err != ErrChecksumFailed && err != ErrMalformedInput {
		t.Fatalf("unexpected error kind for truncated frame: %v", err)
	}
}

func TestFrame_AllZeroHeaderIsFrameTypeUnknown(t *testing.T) {
	state := NewFrameDecoderState()
	zeros := make([]byte, 32)
	dst := make([]byte, 32)
	_, _, _, err := state.Decode(zeros, dst)
	if err != ErrFrameTypeUnknown {
		t.Fatalf("expected ErrFrameTypeUnknown for all-zero input, got %v", err)
	}
}

func TestFrame_LegacyMagicIsFrameTypeUnknown(t *testing.T) {
	state := NewFrameDecoderState()
	var hdr [4]byte
	writeLE32(hdr[:], legacyFrameMagic)
	dst := make([]byte, 16)
	_, _, _, err := state.Decode(hdr[:], dst)
	if err != ErrFrameTypeUnknown {
		t.Fatalf("expected ErrFrameTypeUnknown for legacy magic, got %v", err)
	}
}

func TestFrame_SkippableFramePassthrough(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x50, 0x2A, 0x4D, 0x18}) // skippable magic 0x184D2A50
	payload := []byte("opaque skippable payload")
	var sizeBuf [4]byte
	writeLE32(sizeBuf[:], uint32(len(payload)))
	buf.Write(sizeBuf[:])
	buf.Write(payload)

	// Followed by a real, minimal frame.
	fw := NewFrameWriter(&buf, DefaultPreferences())
	data := []byte("hello after a skippable frame")
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	var skippedSize uint32
	fr := NewFrameReader(bytes.NewReader(buf.Bytes()))
	fr.State().OnSkippableFrame = func(size uint32) { skippedSize = size }

	out, err := io.ReadAll(fr)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if skippedSize != uint32(len(payload)) {
		t.Fatalf("OnSkippableFrame size = %d, want %d", skippedSize, len(payload))
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("frame-after-skippable mismatch: got %q want %q", out, data)
	}
}

func TestFrame_RoundTripVariousPreferences(t *testing.T) {
	data := xorPseudoRandom(262144)

	cases := []struct {
		name  string
		prefs *Preferences
	}{
		{"defaults", DefaultPreferences()},
		{"level1-linked", &Preferences{BlockSizeID: 7, BlockMode: BlockLinked, CompressionLevel: 1}},
		{"level9-linked", &Preferences{BlockSizeID: 7, BlockMode: BlockLinked, CompressionLevel: 9}},
		{"independent-blockchecksum", &Preferences{BlockSizeID: 5, BlockMode: BlockIndependent, BlockChecksum: true}},
		{"content-checksum", &Preferences{BlockSizeID: 4, BlockMode: BlockLinked, ContentChecksum: true}},
		{"content-size", &Preferences{BlockSizeID: 6, BlockMode: BlockLinked, ContentSize: uint64(len(data))}},
		{"small-blocks-multi-block", &Preferences{BlockSizeID: 4, BlockMode: BlockLinked}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			frameRoundTrip(t, data, c.prefs)
		})
	}
}

func TestFrame_LinkedShortTrailingBlockAfterLongerBlock(t *testing.T) {
	// A linked session whose block size does not evenly divide the input
	// produces a final block shorter than the ones before it. Earlier blocks
	// must not leave table entries addressed past the shorter trailing
	// block's own length (spec.md §3.1/§4.2).
	blockSize := blockSizeBytes(4)
	data := xorPseudoRandom(blockSize*2 + blockSize/3)

	cases := []struct {
		name  string
		prefs *Preferences
	}{
		{"fast", &Preferences{BlockSizeID: 4, BlockMode: BlockLinked}},
		{"hc-chain", &Preferences{BlockSizeID: 4, BlockMode: BlockLinked, CompressionLevel: 6}},
		{"hc-opt", &Preferences{BlockSizeID: 4, BlockMode: BlockLinked, CompressionLevel: 11}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			frameRoundTrip(t, data, c.prefs)
		})
	}
}

func TestFrame_ContentChecksumMismatchIsDetected(t *testing.T) {
	data := []byte("some content to checksum")
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf, &Preferences{BlockSizeID: 7, ContentChecksum: true})
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	corrupted := append([]byte{}, buf.Bytes()...)
	corrupted[len(corrupted)-1] ^= 0xFF // flip a bit in the trailing content checksum

	_, err := io.ReadAll(NewFrameReader(bytes.NewReader(corrupted)))
	if err != ErrChecksumFailed {
		t.Fatalf("expected ErrChecksumFailed, got %v", err)
	}
}

func TestFrame_BlockChecksumMismatchIsDetected(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefgh"), 1000)
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf, &Preferences{BlockSizeID: 4, BlockChecksum: true})
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	raw := buf.Bytes()
	// Flip a byte inside the first block's payload (just past the 7-byte
	// header + 4-byte block-size field).
	raw[12] ^= 0xFF

	_, err := io.ReadAll(NewFrameReader(bytes.NewReader(raw)))
	if err == nil {
		t.Fatalf("expected an error after corrupting a block, got nil")
	}
}

func TestFrame_IndependentBlocksDecodeWithEmptyHistory(t *testing.T) {
	// spec.md §8 "Independent-block isolation": each compressed block must
	// decode correctly on its own; exercised here by forcing many small
	// blocks via a tiny block size so most of the 300 000-byte round trip is
	// spent on genuinely independent blocks.
	data := xorPseudoRandom(300000)
	frameRoundTrip(t, data, &Preferences{BlockSizeID: 4, BlockMode: BlockIndependent})
}

func TestFrame_DictBearingFrame(t *testing.T) {
	// spec.md §8 scenario 6: pre-digest a 1025-byte dictionary, encode a
	// 3160-byte payload at level 3 with the dict attached; a decoder given
	// the same raw dictionary reproduces the payload; a decoder given no
	// dictionary fails cleanly.
	dictBytes := bytes.Repeat([]byte("dictionary-history-chunk."), 41) // 1025 bytes
	dict, err := NewDictionary(dictBytes, 0)
	if err != nil {
		t.Fatalf("NewDictionary failed: %v", err)
	}

	payload := append(append([]byte{}, dict.Bytes()[len(dict.Bytes())-100:]...),
		bytes.Repeat([]byte("fresh-payload-bytes-that-repeat-fresh-payload-bytes"), 60)...)

	var buf bytes.Buffer
	prefs := &Preferences{BlockSizeID: 7, BlockMode: BlockLinked, CompressionLevel: 3, Dict: dict}
	fw := NewFrameWriter(&buf, prefs)
	if _, err := fw.Write(payload); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	fr := NewFrameReader(bytes.NewReader(buf.Bytes()))
	fr.State().SeedDict(dict)
	out, err := io.ReadAll(fr)
	if err != nil {
		t.Fatalf("dict-seeded read failed: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Fatalf("dict-bearing round trip mismatch: got %d bytes, want %d", len(out), len(payload))
	}

	frNoDict := NewFrameReader(bytes.NewReader(buf.Bytes()))
	if _, err := io.ReadAll(frNoDict); err == nil {
		t.Fatalf("expected decode without the dictionary to fail cleanly, got nil error")
	}
}
