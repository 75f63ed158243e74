// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

import "errors"

// Sentinel errors returned by the block, HC, and frame codecs.
var (
	// ErrOutputTooSmall is returned in bounded output mode when the
	// destination capacity would be exceeded.
	ErrOutputTooSmall = errors.New("lz4go: output buffer too small")
	// ErrInputTooLarge is returned when src exceeds the maximum input size
	// (2_113_929_216 bytes) the format can address.
	ErrInputTooLarge = errors.New("lz4go: input too large")
	// ErrMalformedInput is returned by decoders when an encoded invariant is
	// violated: zero offset, offset beyond history, a length extension past
	// the buffer, a block larger than the declared maximum, or a header
	// checksum mismatch.
	ErrMalformedInput = errors.New("lz4go: malformed input")
	// ErrFrameTypeUnknown is returned when a frame's magic number is neither
	// the LZ4 frame magic nor a skippable-frame magic.
	ErrFrameTypeUnknown = errors.New("lz4go: unknown frame magic")
	// ErrFrameHeaderIncomplete is advisory: the caller supplied fewer bytes
	// than the declared frame header needs and should buffer more and retry.
	ErrFrameHeaderIncomplete = errors.New("lz4go: incomplete frame header")
	// ErrChecksumFailed is returned when an XXH32 block or content checksum
	// does not match.
	ErrChecksumFailed = errors.New("lz4go: checksum mismatch")
	// ErrDictionaryError is returned when a pre-digested dictionary cannot be
	// constructed.
	ErrDictionaryError = errors.New("lz4go: invalid dictionary")
	// ErrFrameClosed is returned by FrameWriter methods called after Close.
	ErrFrameClosed = errors.New("lz4go: frame writer is closed")

	// errInternal marks an internal invariant violation in the encoder (a
	// logic bug, not a malformed-input condition). Encoders that hit it leave
	// their StreamState dirty; decode never returns it.
	errInternal = errors.New("lz4go: internal encoder error")
)
