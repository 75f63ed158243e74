//go:build cabi

// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

// Package cabi exports the four canonical LZ4 C-ABI symbols (spec.md §6)
// via cgo, for linking this module into C/C++ programs that already expect
// the reference library's function names and calling convention. It is
// gated behind the `cabi` build tag since cgo exports are only meaningful
// when building a C-callable archive/shared object, not a normal Go binary.
package cabi

/*
#include <stddef.h>
*/
import "C"

import "github.com/jafreck/lz4go"

//export LZ4_compress_default
func LZ4_compress_default(src *C.char, dst *C.char, srcSize C.int, dstCapacity C.int) C.int {
	srcBuf, dstBuf, ok := borrow(src, dst, srcSize, dstCapacity)
	if !ok {
		return 0
	}
	n, err := lz4go.CompressBlockLimited(srcBuf, dstBuf, lz4go.DefaultCompressorOptions())
	if err != nil {
		return 0
	}
	return C.int(n)
}

//export LZ4_compress_fast
func LZ4_compress_fast(src *C.char, dst *C.char, srcSize C.int, dstCapacity C.int, acceleration C.int) C.int {
	srcBuf, dstBuf, ok := borrow(src, dst, srcSize, dstCapacity)
	if !ok {
		return 0
	}
	accel := int(acceleration)
	if accel < 1 {
		accel = 1
	}
	n, err := lz4go.CompressBlockLimited(srcBuf, dstBuf, &lz4go.CompressorOptions{Acceleration: accel})
	if err != nil {
		return 0
	}
	return C.int(n)
}

//export LZ4_compress_HC
func LZ4_compress_HC(src *C.char, dst *C.char, srcSize C.int, dstCapacity C.int, level C.int) C.int {
	srcBuf, dstBuf, ok := borrow(src, dst, srcSize, dstCapacity)
	if !ok {
		return 0
	}
	n, err := lz4go.CompressBlockHCLimited(srcBuf, dstBuf, &lz4go.HCCompressorOptions{Level: int(level)})
	if err != nil {
		return 0
	}
	return C.int(n)
}

//export LZ4_decompress_safe
func LZ4_decompress_safe(src *C.char, dst *C.char, compressedSize C.int, dstCapacity C.int) C.int {
	srcBuf, dstBuf, ok := borrow(src, dst, compressedSize, dstCapacity)
	if !ok {
		return -1
	}
	n, err := lz4go.UncompressBlock(srcBuf, dstBuf)
	if err != nil {
		return -1
	}
	return C.int(n)
}

// borrow validates sizes and wraps the C buffers as Go slices without
// copying (spec.md §6 "Null pointers, negative sizes ... return the error
// sentinel").
func borrow(src, dst *C.char, srcSize, dstCapacity C.int) (srcBuf, dstBuf []byte, ok bool) {
	if src == nil || dst == nil || srcSize < 0 || dstCapacity < 0 {
		return nil, nil, false
	}
	srcBuf = unsafeSlice(src, int(srcSize))
	dstBuf = unsafeSlice(dst, int(dstCapacity))
	return srcBuf, dstBuf, true
}
