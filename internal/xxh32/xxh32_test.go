// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package xxh32

import (
	"bytes"
	"fmt"
	"testing"
)

func TestChecksum_KnownVectors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		seed uint32
		want uint32
	}{
		{"empty/seed0", []byte{}, 0, 0x02CC5D05},
		{"empty/seed1", []byte{}, 1, 0x0B2CB792},
		{"a/seed0", []byte("a"), 0, 0x550D7456},
		{"abc/seed0", []byte("abc"), 0, 0x32D153FF},
		{"fox/seed0", []byte("The quick brown fox jumps over the lazy dog"), 0, 0xE85EA4DE},
		{"byte-cycle-20/seed0", byteCycle(20), 0, 0x828B819C},
		{"hundred-a/seed0", bytes.Repeat([]byte("a"), 100), 0, 0x17E3108B},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Checksum(c.data, c.seed)
			if got != c.want {
				t.Fatalf("Checksum(%q, %d) = 0x%08X, want 0x%08X", c.data, c.seed, got, c.want)
			}
		})
	}
}

func byteCycle(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func TestDigest_ChunkedWriteMatchesOneShot(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefghijklmnop"), 50) // 800 bytes, spans many 16-byte blocks

	for _, chunkSize := range []int{1, 3, 7, 16, 17, 31, 64, 257} {
		t.Run(fmt.Sprintf("chunk-%d", chunkSize), func(t *testing.T) {
			d := New(0)
			for i := 0; i < len(data); i += chunkSize {
				end := i + chunkSize
				if end > len(data) {
					end = len(data)
				}
				d.Write(data[i:end])
			}
			got := d.Sum32()
			want := Checksum(data, 0)
			if got != want {
				t.Fatalf("chunked Sum32() = 0x%08X, want 0x%08X", got, want)
			}
		})
	}
}

func TestDigest_Sum32IsNonMutating(t *testing.T) {
	d := New(0)
	d.Write([]byte("partial block"))
	first := d.Sum32()
	second := d.Sum32()
	if first != second {
		t.Fatalf("Sum32 is not idempotent: %08X then %08X", first, second)
	}
	d.Write([]byte("more"))
	third := d.Sum32()
	if third == first {
		t.Fatalf("Sum32 did not change after further Write")
	}
}

func TestDigest_ResetReusesState(t *testing.T) {
	d := New(5)
	d.Write([]byte("hello"))
	d.Reset(5)
	got := d.Sum32()
	want := Checksum(nil, 5)
	if got != want {
		t.Fatalf("Reset did not clear state: got 0x%08X, want 0x%08X", got, want)
	}
}
