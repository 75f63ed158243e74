// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (teacher; this package implements LZ4, not LZO)

/*
Package lz4go implements the LZ4 block format, the LZ4 high-compression (HC)
encoder family, and the LZ4 Frame Format.

# Block API

CompressBlock implements the fast encoder (CompressBlockBound gives the
worst-case output size):

	n, err := lz4go.CompressBlock(src, dst, nil)

CompressBlockHC implements the high-compression encoder family, dispatched by
level (1-12):

	n, err := lz4go.CompressBlockHC(src, dst, &lz4go.HCCompressorOptions{Level: 9})

UncompressBlock implements the safe reference decoder:

	n, err := lz4go.UncompressBlock(src, dst)

# Frame API

NewFrameWriter and NewFrameReader wrap the block codec into the on-wire LZ4
Frame Format (magic number, header, per-block framing, optional checksums):

	w := lz4go.NewFrameWriter(out, lz4go.DefaultPreferences())
	_, err := w.Write(data)
	err = w.Close()

	r := lz4go.NewFrameReader(in)
	out, err := io.ReadAll(r)
*/
package lz4go
