// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz4go

// hash4Prime and hash5Prime are Knuth-style multiplicative hash constants.
// The 5-byte hash has one prime per byte order (spec.md §9 "Endian-dependent
// hash constants"). hash5 picks between them with hostIsBigEndian, a
// run-time probe that builds its bytes by shifting and therefore reports
// false on every host; the LE prime is the one that matches, since words
// are always read little-endian (primitives.go).
const (
	hash4Prime = 2654435761 // same constant xiaojun207-lz4/block.go uses
	hash5PrimeLE = 889523592379
	hash5PrimeBE = 11400714785074694791
)

var hostIsBigEndian = func() bool {
	var x uint16 = 1
	b := [2]byte{byte(x), byte(x >> 8)}
	return b[0] == 0
}()

// hash4 hashes the first 4 bytes of a 32-bit little-endian word into a
// hashLog-bit bucket index, used by the fast encoder and the HC mid-level
// short-match table (spec.md §4.2, §4.3.2).
func hash4(sequence uint32, log uint) uint32 {
	return (sequence * hash4Prime) >> (32 - log)
}

// hash5 hashes the low 5 bytes of a 64-bit word into a log-bit bucket
// index. No encoder calls it: the hash-chain and optimal strategies index
// with hash4, and the mid-level long-match table uses hash8.
func hash5(sequence uint64, log uint) uint32 {
	if hostIsBigEndian {
		return uint32((sequence << (64 - 40)) * hash5PrimeBE >> (64 - log))
	}
	return uint32(((sequence << (64 - 40)) * hash5PrimeLE) >> (64 - log))
}

// hash8 hashes the first 8 bytes of a 64-bit little-endian word for the HC
// mid-level long-match table (spec.md §4.3.2).
func hash8(sequence uint64, log uint) uint32 {
	const prime8 = 0x9E3779B185EBCA87
	return uint32((sequence * prime8) >> (64 - log))
}

// tableGet/tablePut resolve a hashTable entry under the StreamState's current
// tableType, abstracting the by-u16/by-u32/by-ptr reinterpretation (spec.md
// §3.1 `table_type`) so search code never branches on it directly.
func tableGet(table []uint32, tt tableType, h uint32) uint32 {
	switch tt {
	case tableByU16:
		return uint32(uint16(table[h]))
	default:
		return table[h]
	}
}

func tablePut(table []uint32, tt tableType, h uint32, pos uint32) {
	switch tt {
	case tableByU16:
		table[h] = uint32(uint16(pos))
	default:
		table[h] = pos
	}
}
