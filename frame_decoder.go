// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

import (
	"io"

	"github.com/jafreck/lz4go/internal/xxh32"
)

// FrameDecoderState is the pull-style frame-decoder state machine (spec.md
// §3.3, §4.6 "Decoder streaming"): callers feed it src bytes and a dst
// buffer and it reports how much of each it used, along with a next_hint
// when more input is required to make progress.
type FrameDecoderState struct {
	inBuf  []byte
	outBuf []byte // decoded bytes produced but not yet delivered to a small dst

	headerParsed      bool
	blockIndependent  bool
	blockChecksumOn   bool
	contentChecksumOn bool
	contentSizeKnown  uint64
	dictID            uint32
	blockSizeMax      int

	history []byte // last up to 64 KB of decoded bytes, linked-block mode only

	contentHash *xxh32.Digest
	ended       bool

	// OnSkippableFrame, if set, is invoked with each skippable frame's
	// payload size as it is skipped (spec.md §4.6 supplemented: exposes
	// what the dispatcher silently discards rather than hiding it).
	OnSkippableFrame func(size uint32)
}

// NewFrameDecoderState returns a fresh, empty decoder state.
func NewFrameDecoderState() *FrameDecoderState {
	return &FrameDecoderState{}
}

// SeedDict pre-loads the 64 KB history ring from a pre-digested Dictionary,
// so the first linked block of the frame can resolve dict-relative offsets
// (spec.md §3.1/§5).
func (fd *FrameDecoderState) SeedDict(d *Dictionary) {
	if d == nil {
		return
	}
	fd.history = append([]byte(nil), d.Bytes()...)
}

// Decode feeds src into the state machine and writes decoded bytes into
// dst, returning how much of each it used and a next_hint (spec.md §4.6).
// next_hint == 0 with err == nil means the frame ended cleanly.
func (fd *FrameDecoderState) Decode(src, dst []byte) (srcConsumed, dstWritten, nextHint int, err error) {
	fd.inBuf = append(fd.inBuf, src...)
	dstPos := 0

	if len(fd.outBuf) > 0 {
		n := copy(dst, fd.outBuf)
		dstPos = n
		fd.outBuf = fd.outBuf[n:]
		if len(fd.outBuf) > 0 {
			return len(src), dstPos, 1, nil
		}
	}

	if !fd.headerParsed {
		hint, herr := fd.tryParseHeader()
		if herr != nil {
			return 0, dstPos, 0, herr
		}
		if hint > 0 {
			return len(src), dstPos, hint, nil
		}
	}

	for !fd.ended {
		if dstPos >= len(dst) && len(dst) > 0 {
			break
		}
		if len(fd.inBuf) < 4 {
			return len(src), dstPos, 4 - len(fd.inBuf), nil
		}
		blockField := readLE32(fd.inBuf)

		if blockField == 0 {
			need := 4
			if fd.contentChecksumOn {
				need = 8
			}
			if len(fd.inBuf) < need {
				return len(src), dstPos, need - len(fd.inBuf), nil
			}
			if fd.contentChecksumOn {
				want := readLE32(fd.inBuf[4:8])
				if want != fd.contentHash.Sum32() {
					return 0, dstPos, 0, ErrChecksumFailed
				}
			}
			fd.inBuf = fd.inBuf[need:]
			fd.ended = true
			break
		}

		uncompressed := blockField&0x80000000 != 0
		blockLen := int(blockField & 0x7FFFFFFF)
		if blockLen > fd.blockSizeMax {
			return 0, dstPos, 0, ErrMalformedInput
		}
		need := 4 + blockLen
		if fd.blockChecksumOn {
			need += 4
		}
		if len(fd.inBuf) < need {
			return len(src), dstPos, need - len(fd.inBuf), nil
		}

		payload := fd.inBuf[4 : 4+blockLen]
		if fd.blockChecksumOn {
			want := readLE32(fd.inBuf[4+blockLen : need])
			if want != xxh32.Checksum(payload, 0) {
				return 0, dstPos, 0, ErrChecksumFailed
			}
		}

		var decoded []byte
		if uncompressed {
			decoded = payload
		} else {
			tmp := make([]byte, fd.blockSizeMax)
			var n int
			var derr error
			if fd.blockIndependent || len(fd.history) == 0 {
				n, derr = UncompressBlock(payload, tmp)
			} else {
				n, derr = UncompressBlockDict(payload, tmp, fd.history)
			}
			if derr != nil {
				return 0, dstPos, 0, derr
			}
			decoded = tmp[:n]
		}

		if fd.contentHash != nil {
			fd.contentHash.Write(decoded)
		}
		if !fd.blockIndependent {
			fd.history = append(fd.history, decoded...)
			if len(fd.history) > maxDictSize {
				fd.history = fd.history[len(fd.history)-maxDictSize:]
			}
		}

		n := copy(dst[dstPos:], decoded)
		dstPos += n
		if n < len(decoded) {
			fd.outBuf = append(fd.outBuf, decoded[n:]...)
		}
		fd.inBuf = fd.inBuf[need:]
	}

	if !fd.ended {
		// dst filled up before the end mark; more blocks remain.
		return len(src), dstPos, 1, nil
	}
	return len(src), dstPos, 0, nil
}

// tryParseHeader consumes the frame magic/FLG/BD/content-size/dict-id/
// header-checksum, silently skipping any skippable frames first (spec.md
// §4.6 "Skippable frames"). hint > 0 means more bytes are needed to make
// progress.
func (fd *FrameDecoderState) tryParseHeader() (hint int, err error) {
	for {
		if len(fd.inBuf) < 4 {
			return 4 - len(fd.inBuf), nil
		}
		magic := readLE32(fd.inBuf)
		if magic == legacyFrameMagic {
			return 0, ErrFrameTypeUnknown
		}
		if magic >= skippableMagicLo && magic <= skippableMagicHi {
			if len(fd.inBuf) < 8 {
				return 8 - len(fd.inBuf), nil
			}
			size := readLE32(fd.inBuf[4:8])
			need := 8 + int(size)
			if len(fd.inBuf) < need {
				return need - len(fd.inBuf), nil
			}
			if fd.OnSkippableFrame != nil {
				fd.OnSkippableFrame(size)
			}
			fd.inBuf = fd.inBuf[need:]
			continue
		}
		if magic != frameMagic {
			return 0, ErrFrameTypeUnknown
		}

		if len(fd.inBuf) < 7 {
			return 7 - len(fd.inBuf), nil
		}
		flg := fd.inBuf[4]
		bd := fd.inBuf[5]
		hasContentSize := flg&(1<<3) != 0
		hasDictID := flg&1 != 0

		need := 7
		if hasContentSize {
			need += 8
		}
		if hasDictID {
			need += 4
		}
		if len(fd.inBuf) < need {
			return need - len(fd.inBuf), nil
		}

		hcPos := need - 1
		want := headerChecksum(fd.inBuf[4:hcPos])
		if fd.inBuf[hcPos] != want {
			return 0, ErrMalformedInput
		}

		fd.blockIndependent = flg&(1<<5) != 0
		fd.blockChecksumOn = flg&(1<<4) != 0
		fd.contentChecksumOn = flg&(1<<2) != 0
		if fd.contentChecksumOn {
			fd.contentHash = xxh32.New(0)
		}

		pos := 6
		if hasContentSize {
			fd.contentSizeKnown = readLE64(fd.inBuf[pos : pos+8])
			pos += 8
		}
		if hasDictID {
			fd.dictID = readLE32(fd.inBuf[pos : pos+4])
		}
		fd.blockSizeMax = blockSizeBytes(int(bd>>4) & 0x7)

		fd.inBuf = fd.inBuf[need:]
		fd.headerParsed = true
		return 0, nil
	}
}

// FrameReader adapts FrameDecoderState to io.Reader, pulling from an
// underlying source only as needed (spec.md §4.6 "Decoder streaming").
type FrameReader struct {
	r     io.Reader
	state *FrameDecoderState
	rbuf  []byte
	eof   bool
}

// NewFrameReader returns a FrameReader over r.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r, state: NewFrameDecoderState(), rbuf: make([]byte, 64*1024)}
}

// State exposes the underlying pull-style decoder state, e.g. to call
// SeedDict before the first Read.
func (fr *FrameReader) State() *FrameDecoderState { return fr.state }

func (fr *FrameReader) Read(p []byte) (int, error) {
	var feed []byte
	for {
		_, n, hint, err := fr.state.Decode(feed, p)
		feed = nil
		if err != nil {
			return n, err
		}
		if n > 0 {
			return n, nil
		}
		if hint == 0 {
			return 0, io.EOF
		}
		if fr.eof {
			return 0, io.ErrUnexpectedEOF
		}
		rn, rerr := fr.r.Read(fr.rbuf)
		if rn > 0 {
			feed = fr.rbuf[:rn]
		}
		if rerr == io.EOF {
			fr.eof = true
		} else if rerr != nil {
			return 0, rerr
		}
	}
}
