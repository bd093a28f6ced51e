// Package obfuscate masks the two header words of a pak archive.
//
// The hash is a non-cryptographic scrambler. It only keeps the last-entry
// offset and the split flag from being readable at a glance.
package obfuscate

// Keys used by the pak header.
const (
	KeyFirstHeader = "firstheader"
	KeySplit       = "split"
)

const (
	seedA = 0x000F8C9
	multB = 0x005C6B7
)

// Hash returns the keyed hash of key. Arithmetic wraps at 32 bits.
func Hash(key string) uint32 {
	var hash uint32
	a := uint32(seedA)
	for i := range len(key) {
		hash = hash*a + uint32(key[i])
		a *= multB
	}
	return hash
}

// Mask XORs v with the hash of key.
func Mask(v uint32, key string) uint32 {
	return v ^ Hash(key)
}

// Unmask reverses Mask.
func Unmask(v uint32, key string) uint32 {
	return Mask(v, key)
}
