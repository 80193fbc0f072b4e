// Package xorcrack recovers keys for single-byte and repeating-key XOR ciphers.
//
// # Single-byte keys
//
// Crack tries all 256 key bytes against one buffer and keeps the decryption
// whose letter distribution is closest to English:
//
//	res := xorcrack.Crack(ciphertext, true)
//	if res.Found() {
//	    fmt.Printf("key=%d text=%q\n", res.Key, res.Text)
//	}
//
// Detect runs Crack over a set of buffers and picks the single most
// English-like decryption across all of them.
//
// # Repeating keys
//
// CrackRepeatingKey ranks candidate key lengths by the normalized Hamming
// distance between the first two blocks. It then transposes the ciphertext
// into one column per key position and solves every column as a single-byte
// problem. The first length whose columns all decrypt to printable text wins:
//
//	key, ok := xorcrack.CrackRepeatingKey(ciphertext)
//	if ok {
//	    plaintext := xorcrack.XORRepeating(ciphertext, key)
//	}
//
// # Thread Safety
//
// Every function in this package is pure and safe for concurrent use.
package xorcrack
