package rpc

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"

	"github.com/RowanDark/xorcrack/internal/xorcrack"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client is a typed wrapper over a connection to the Cracker service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Crack asks the service for the best single-byte key.
func (c *Client) Crack(ctx context.Context, ciphertext []byte, printable bool, opts ...grpc.CallOption) (xorcrack.Result, error) {
	req, err := structpb.NewStruct(map[string]any{
		"ciphertext": base64.StdEncoding.EncodeToString(ciphertext),
		"printable":  printable,
	})
	if err != nil {
		return xorcrack.Result{}, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodCrack, req, out, opts...); err != nil {
		return xorcrack.Result{}, err
	}
	return parseResult(out)
}

// Detect asks the service which candidate is single-byte XOR encrypted.
func (c *Client) Detect(ctx context.Context, candidates [][]byte, printable bool, opts ...grpc.CallOption) (xorcrack.Detection, error) {
	encoded := make([]any, len(candidates))
	for i, cand := range candidates {
		encoded[i] = base64.StdEncoding.EncodeToString(cand)
	}
	req, err := structpb.NewStruct(map[string]any{
		"candidates": encoded,
		"printable":  printable,
	})
	if err != nil {
		return xorcrack.Detection{}, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodDetect, req, out, opts...); err != nil {
		return xorcrack.Detection{}, err
	}

	res, err := parseResult(out)
	if err != nil {
		return xorcrack.Detection{}, err
	}
	index := int(out.GetFields()["index"].GetNumberValue())
	if index < 0 || index >= len(candidates) {
		return xorcrack.Detection{}, fmt.Errorf("response index %d out of range", index)
	}
	return xorcrack.Detection{Index: index, Input: candidates[index], Result: res}, nil
}

// CrackRepeatingKey asks the service for the repeating key within r.
func (c *Client) CrackRepeatingKey(ctx context.Context, ciphertext []byte, r xorcrack.KeyLengthRange, opts ...grpc.CallOption) ([]byte, bool, error) {
	req, err := structpb.NewStruct(map[string]any{
		"ciphertext":     base64.StdEncoding.EncodeToString(ciphertext),
		"min_key_length": r.Min,
		"max_key_length": r.Max,
	})
	if err != nil {
		return nil, false, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodCrackRepeatingKey, req, out, opts...); err != nil {
		return nil, false, err
	}
	if !out.GetFields()["found"].GetBoolValue() {
		return nil, false, nil
	}
	key, err := responseBytes(out, "key")
	if err != nil {
		return nil, false, err
	}
	return key, true, nil
}

func parseResult(out *structpb.Struct) (xorcrack.Result, error) {
	fields := out.GetFields()
	if !fields["found"].GetBoolValue() {
		return xorcrack.Result{Score: math.Inf(1)}, nil
	}
	key, err := responseBytes(out, "key")
	if err != nil {
		return xorcrack.Result{}, err
	}
	if len(key) != 1 {
		return xorcrack.Result{}, fmt.Errorf("expected a one-byte key, got %d bytes", len(key))
	}
	plaintext, err := responseBytes(out, "plaintext")
	if err != nil {
		return xorcrack.Result{}, err
	}
	return xorcrack.Result{
		Key:       key[0],
		Plaintext: plaintext,
		Text:      string(plaintext),
		Score:     fields["score"].GetNumberValue(),
	}, nil
}

func responseBytes(out *structpb.Struct, name string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(out.GetFields()[name].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return b, nil
}
