// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

// UncompressBlock decodes one LZ4 block from src into dst, which must be
// sized to exactly hold the decompressed output (spec.md §4.5). It returns
// the number of bytes written.
func UncompressBlock(src, dst []byte) (int, error) {
	n, _, err := decodeCore(src, dst, nil, len(dst), false)
	return n, err
}

// UncompressBlockDict decodes one LZ4 block that may back-reference dict as
// 64 KB of preceding history (spec.md §4.2 linked-block streams, §4.5 "a
// 64 KB history ring is kept").
func UncompressBlockDict(src, dst, dict []byte) (int, error) {
	n, _, err := decodeCore(src, dst, dict, len(dst), false)
	return n, err
}

// UncompressBlockPartial decodes src into dst, stopping cleanly as soon as
// targetSize output bytes have been produced and the current sequence is
// complete (spec.md §4.5 "A partial decode variant"). It returns the number
// of bytes written and the number of input bytes consumed.
func UncompressBlockPartial(src, dst []byte, targetSize int) (written, consumed int, err error) {
	return decodeCore(src, dst, nil, targetSize, true)
}

// decodeCore is the shared safe single-pass decoder (spec.md §4.5). dict, if
// non-nil, is a non-owning view of up to 64 KB of history preceding dst[0];
// back-references may read into it. When partial is true, decoding stops as
// soon as dstPos reaches targetSize and the sequence in progress has been
// fully copied, rather than continuing until src is exhausted.
func decodeCore(src, dst, dict []byte, targetSize int, partial bool) (written, consumed int, err error) {
	srcPos, dstPos := 0, 0
	srcEnd := len(src)
	dstLimit := len(dst)
	if partial && targetSize < dstLimit {
		dstLimit = targetSize
	}

	readExt := func() (int, error) {
		total := 0
		for {
			if srcPos >= srcEnd {
				return 0, ErrMalformedInput
			}
			b := src[srcPos]
			srcPos++
			total += int(b)
			if b != 0xFF {
				return total, nil
			}
		}
	}

	for srcPos < srcEnd {
		token := src[srcPos]
		srcPos++

		litLen := int(token >> 4)
		if litLen == 15 {
			ext, err := readExt()
			if err != nil {
				return 0, 0, err
			}
			litLen += ext
		}

		if srcPos+litLen > srcEnd {
			return 0, 0, ErrMalformedInput
		}
		if dstPos+litLen > len(dst) {
			return 0, 0, ErrMalformedInput
		}
		copy(dst[dstPos:dstPos+litLen], src[srcPos:srcPos+litLen])
		srcPos += litLen
		dstPos += litLen

		// A block may legitimately end right after a literal run with no
		// trailing match (spec.md §4.5 "if input exhausted, stop").
		if srcPos >= srcEnd {
			return dstPos, srcPos, nil
		}

		if srcPos+2 > srcEnd {
			return 0, 0, ErrMalformedInput
		}
		offset := int(readLE16(src[srcPos:]))
		srcPos += 2
		if offset < 1 {
			return 0, 0, ErrMalformedInput
		}

		matchLen := int(token & 0x0F)
		if matchLen == 15 {
			ext, err := readExt()
			if err != nil {
				return 0, 0, err
			}
			matchLen += ext
		}
		matchLen += MinMatch

		matchStart := dstPos - offset
		if matchStart < -len(dict) {
			return 0, 0, ErrMalformedInput
		}
		if dstPos+matchLen > len(dst) {
			return 0, 0, ErrMalformedInput
		}

		if matchStart < 0 {
			// Match straddles or lies entirely within the external dict
			// (spec.md §4.2 "Dictionary-bearing back-references").
			dictPos := len(dict) + matchStart
			n := 0
			for n < matchLen && dictPos+n < len(dict) {
				dst[dstPos+n] = dict[dictPos+n]
				n++
			}
			for n < matchLen {
				dst[dstPos+n] = dst[dstPos+n-offset]
				n++
			}
		} else if len(dst)-(dstPos+matchLen) < 8 {
			// Too close to the end of dst for copyMatch's chunked writes,
			// which may overshoot the logical match end by up to 7 bytes.
			copyMatchSafe(dst, dstPos, offset, matchLen)
		} else {
			copyMatch(dst, dstPos, offset, matchLen)
		}
		dstPos += matchLen

		if partial && dstPos >= dstLimit {
			return dstPos, srcPos, nil
		}
	}

	return dstPos, srcPos, nil
}
