package common

import "crypto/sha512"

// Sha512Half returns the first 256 bits of the SHA-512 digest of the
// concatenated inputs. All ledger indexes are derived with it.
func Sha512Half(inputs ...[]byte) [32]byte {
	h := sha512.New()
	for _, in := range inputs {
		h.Write(in)
	}
	sum := h.Sum(nil)
	var result [32]byte
	copy(result[:], sum[:32])
	return result
}
