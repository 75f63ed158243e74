//go:build cabi

// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package cabi

/*
#include <stddef.h>
*/
import "C"
import "unsafe"

// unsafeSlice views n bytes starting at p as a Go byte slice without
// copying. The caller guarantees p is non-nil and the C buffer outlives the
// slice's use, which holds here since every cabi entry point only reads/
// writes through it synchronously before returning.
func unsafeSlice(p *C.char, n int) []byte {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), n)
}
