// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

import (
	"bytes"
	"testing"
)

func TestMatchLen(t *testing.T) {
	cases := []struct {
		name  string
		a, b  []byte
		limit int
		want  int
	}{
		{"empty", []byte{}, []byte{}, 0, 0},
		{"identical-short", []byte("abc"), []byte("abc"), 3, 3},
		{"differ-first-byte", []byte("abc"), []byte("xbc"), 3, 0},
		{"differ-mid-word", []byte("abcdefgh"), []byte("abcdXfgh"), 8, 4},
		{"limit-caps-equal-run", []byte("aaaaaaaaaa"), []byte("aaaaaaaaaa"), 5, 5},
		{"cross-word-boundary", []byte("abcdefghij"), []byte("abcdefghiX"), 10, 9},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := matchLen(c.a, c.b, c.limit)
			if got != c.want {
				t.Fatalf("matchLen(%q, %q, %d) = %d, want %d", c.a, c.b, c.limit, got, c.want)
			}
		})
	}
}

func TestWildCopy8(t *testing.T) {
	src := []byte("0123456789abcdef")
	dst := make([]byte, 16)
	wildCopy8(dst, src, 9)
	if !bytes.Equal(dst[:9], src[:9]) {
		t.Fatalf("wildCopy8 logical bytes mismatch: got %q want %q", dst[:9], src[:9])
	}
}

func TestCopyMatch_DistanceClasses(t *testing.T) {
	cases := []struct {
		name    string
		dist    int
		length  int
		history []byte
	}{
		{"dist1-rle", 1, 20, []byte("X")},
		{"dist2-pattern", 2, 21, []byte("AB")},
		{"dist3-table", 3, 23, []byte("ABC")},
		{"dist4-pattern", 4, 19, []byte("ABCD")},
		{"dist5-table", 5, 17, []byte("ABCDE")},
		{"dist6-table", 6, 25, []byte("ABCDEF")},
		{"dist7-table", 7, 29, []byte("ABCDEFG")},
		{"dist8-wildcopy", 8, 33, []byte("ABCDEFGH")},
		{"dist-large", 16, 40, bytes.Repeat([]byte("Z"), 16)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			// Margin past the logical copy so wildCopy-style overshoot never
			// runs out of backing array (callers guarantee this, spec.md §4.1).
			buf := make([]byte, len(c.history)+c.length+32)
			copy(buf, c.history)
			dstPos := len(c.history)

			copyMatch(buf, dstPos, c.dist, c.length)

			for i := 0; i < c.length; i++ {
				want := buf[dstPos+i-c.dist]
				got := buf[dstPos+i]
				if got != want {
					t.Fatalf("byte %d: got %q want %q (copy of a repeating distance-%d pattern must reproduce it exactly)", i, got, want, c.dist)
				}
			}
		})
	}
}
