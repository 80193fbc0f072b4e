// Package cipher provides the encoding and XOR transformation operations used
// at the edges of the cracker: reading hex or Base64 ciphertext, rendering
// keys, and applying known keys.
//
// # Operations
//
// Operations live in a registry and are looked up by name:
//
//	op, _ := cipher.GetOperation("hex_decode")
//	ct, _ := op.Execute(ctx, []byte("1b37373331363f78"), nil)
//
// Built-in operations:
//   - hex_encode/decode - Hexadecimal (0x prefix and separators tolerated)
//   - base64_encode/decode - Standard Base64 (line breaks tolerated)
//   - xor_single - XOR with one key byte, params: key
//   - xor_repeating - XOR with a repeating key, params: key or key_hex
//
// # Pipelines
//
// Operations chain into pipelines, which can be reversed when every step has
// an inverse:
//
//	p := &cipher.Pipeline{
//	    Operations: []cipher.OperationConfig{
//	        {Name: "xor_repeating", Parameters: map[string]interface{}{"key": "ICE"}},
//	        {Name: "hex_encode"},
//	    },
//	    Reversible: true,
//	}
//	encoded, _ := p.Execute(ctx, plaintext)
//	back, _ := p.Reverse()
//	plaintext, _ = back.Execute(ctx, encoded)
//
// # Input Detection
//
// DecodeInput with EncodingAuto asks the SmartDetector whether input looks
// like hex or Base64. Pure hex digits always prefer hex.
//
// # Thread Safety
//
// Registries are safe for concurrent use and operations are stateless.
package cipher
