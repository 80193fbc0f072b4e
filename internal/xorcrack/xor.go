package xorcrack

// XOR combines a and b byte by byte over the length of the shorter buffer.
func XOR(a, b []byte) []byte {
	n := min(len(a), len(b))
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// XORSingle combines every byte of buf with k.
func XORSingle(buf []byte, k byte) []byte {
	out := make([]byte, len(buf))
	for i, c := range buf {
		out[i] = c ^ k
	}
	return out
}

// XORRepeating combines buf with key repeated cyclically. Encryption and
// decryption are the same operation. An empty key returns a copy of buf.
func XORRepeating(buf, key []byte) []byte {
	out := make([]byte, len(buf))
	if len(key) == 0 {
		copy(out, buf)
		return out
	}
	for i, c := range buf {
		out[i] = c ^ key[i%len(key)]
	}
	return out
}
