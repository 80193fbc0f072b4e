package cipher

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/RowanDark/xorcrack/internal/xorcrack"
)

// Hex Operations

// HexEncodeOp encodes bytes as hexadecimal string
type HexEncodeOp struct {
	BaseOperation
}

func (op *HexEncodeOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	encoded := hex.EncodeToString(input)
	return []byte(encoded), nil
}

// HexDecodeOp decodes hexadecimal string to bytes
type HexDecodeOp struct {
	BaseOperation
}

func (op *HexDecodeOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	inputStr := cleanHex(string(input))

	decoded, err := hex.DecodeString(inputStr)
	if err != nil {
		return nil, fmt.Errorf("hex decode failed: %w", err)
	}
	return decoded, nil
}

// cleanHex strips prefixes, separators and whitespace accepted around hex input.
func cleanHex(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "\\x")
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', ':', '-', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
}

// Base64 Operations

// Base64EncodeOp encodes data as standard Base64
type Base64EncodeOp struct {
	BaseOperation
}

func (op *Base64EncodeOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	encoded := base64.StdEncoding.EncodeToString(input)
	return []byte(encoded), nil
}

// Base64DecodeOp decodes standard Base64 data. Line breaks are ignored so
// wrapped files decode as one buffer.
type Base64DecodeOp struct {
	BaseOperation
}

func (op *Base64DecodeOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	inputStr := stripWhitespace(string(input))

	decoded, err := base64.StdEncoding.DecodeString(inputStr)
	if err != nil {
		// Try with RawStdEncoding (no padding)
		decoded, err = base64.RawStdEncoding.DecodeString(inputStr)
		if err != nil {
			return nil, fmt.Errorf("base64 decode failed: %w", err)
		}
	}
	return decoded, nil
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// XOR Operations

// XORSingleOp combines every byte with a single key byte. Params: "key".
type XORSingleOp struct {
	BaseOperation
}

func (op *XORSingleOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	key, err := singleKeyParam(params)
	if err != nil {
		return nil, err
	}
	return xorcrack.XORSingle(input, key), nil
}

// XORRepeatingOp combines the input with a cyclically repeated key.
// Params: "key" as text, or "key_hex".
type XORRepeatingOp struct {
	BaseOperation
}

func (op *XORRepeatingOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	key, err := repeatingKeyParam(params)
	if err != nil {
		return nil, err
	}
	return xorcrack.XORRepeating(input, key), nil
}

func singleKeyParam(params map[string]interface{}) (byte, error) {
	raw, ok := params["key"]
	if !ok {
		return 0, fmt.Errorf("xor_single requires a key parameter")
	}

	var n int64
	switch v := raw.(type) {
	case byte:
		return v, nil
	case int:
		n = int64(v)
	case int64:
		n = v
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("key must be an integer, got %v", v)
		}
		n = int64(v)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 0, 64)
		if err != nil {
			if len(v) == 1 {
				return v[0], nil
			}
			return 0, fmt.Errorf("invalid key %q: %w", v, err)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("unsupported key type %T", raw)
	}

	if n < 0 || n > 255 {
		return 0, fmt.Errorf("key %d out of byte range", n)
	}
	return byte(n), nil
}

func repeatingKeyParam(params map[string]interface{}) ([]byte, error) {
	if raw, ok := params["key_hex"]; ok {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("key_hex must be a string, got %T", raw)
		}
		key, err := hex.DecodeString(cleanHex(s))
		if err != nil {
			return nil, fmt.Errorf("invalid key_hex: %w", err)
		}
		if len(key) == 0 {
			return nil, fmt.Errorf("key cannot be empty")
		}
		return key, nil
	}

	raw, ok := params["key"]
	if !ok {
		return nil, fmt.Errorf("xor_repeating requires a key or key_hex parameter")
	}
	var key []byte
	switch v := raw.(type) {
	case string:
		key = []byte(v)
	case []byte:
		key = v
	default:
		return nil, fmt.Errorf("unsupported key type %T", raw)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("key cannot be empty")
	}
	return key, nil
}

// init registers the built-in operations
func init() {
	hexEncode := &HexEncodeOp{
		BaseOperation: BaseOperation{
			NameValue:        "hex_encode",
			TypeValue:        OperationTypeEncode,
			DescriptionValue: "Encode bytes as hexadecimal string",
		},
	}
	hexDecode := &HexDecodeOp{
		BaseOperation: BaseOperation{
			NameValue:        "hex_decode",
			TypeValue:        OperationTypeDecode,
			DescriptionValue: "Decode hexadecimal string to bytes",
		},
	}
	hexEncode.ReverseOp = hexDecode
	hexDecode.ReverseOp = hexEncode

	base64Encode := &Base64EncodeOp{
		BaseOperation: BaseOperation{
			NameValue:        "base64_encode",
			TypeValue:        OperationTypeEncode,
			DescriptionValue: "Encode data as standard Base64",
		},
	}
	base64Decode := &Base64DecodeOp{
		BaseOperation: BaseOperation{
			NameValue:        "base64_decode",
			TypeValue:        OperationTypeDecode,
			DescriptionValue: "Decode standard Base64 data, ignoring line breaks",
		},
	}
	base64Encode.ReverseOp = base64Decode
	base64Decode.ReverseOp = base64Encode

	xorSingle := &XORSingleOp{
		BaseOperation: BaseOperation{
			NameValue:        "xor_single",
			TypeValue:        OperationTypeXOR,
			DescriptionValue: "XOR every byte with a single key byte",
		},
	}
	xorSingle.ReverseOp = xorSingle

	xorRepeating := &XORRepeatingOp{
		BaseOperation: BaseOperation{
			NameValue:        "xor_repeating",
			TypeValue:        OperationTypeXOR,
			DescriptionValue: "XOR with a repeating multi-byte key",
		},
	}
	xorRepeating.ReverseOp = xorRepeating

	for _, op := range []Operation{hexEncode, hexDecode, base64Encode, base64Decode, xorSingle, xorRepeating} {
		if err := RegisterOperation(op); err != nil {
			panic(err)
		}
	}
}
