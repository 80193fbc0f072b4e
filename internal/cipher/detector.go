package cipher

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Input encodings accepted by DecodeInput.
const (
	EncodingAuto   = "auto"
	EncodingHex    = "hex"
	EncodingBase64 = "base64"
	EncodingRaw    = "raw"
)

var (
	hexPattern    = regexp.MustCompile(`^[0-9a-fA-F]+$`)
	base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]+=*$`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)
)

// SmartDetector guesses how ciphertext input has been encoded
type SmartDetector struct{}

// inputDetector ranks encodings for DecodeInput in auto mode.
var inputDetector Detector = NewSmartDetector()

// NewSmartDetector creates a new smart detector
func NewSmartDetector() *SmartDetector {
	return &SmartDetector{}
}

// Detect returns candidate encodings for input, most confident first.
func (d *SmartDetector) Detect(ctx context.Context, input []byte) ([]DetectionResult, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	results := []DetectionResult{}
	results = append(results, d.detectHex(input)...)
	results = append(results, d.detectBase64(input)...)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	filtered := []DetectionResult{}
	for _, r := range results {
		if r.Confidence >= 0.3 {
			filtered = append(filtered, r)
		}
	}

	return filtered, nil
}

// SupportedEncodings returns the encodings this detector can identify
func (d *SmartDetector) SupportedEncodings() []string {
	return []string{EncodingHex, EncodingBase64}
}

// detectHex checks if input is hexadecimal
func (d *SmartDetector) detectHex(input []byte) []DetectionResult {
	raw := strings.TrimSpace(string(input))
	hasPrefix := strings.HasPrefix(raw, "0x")
	cleaned := cleanHex(raw)

	if !hexPattern.MatchString(cleaned) || len(cleaned)%2 != 0 {
		return nil
	}
	if _, err := hex.DecodeString(cleaned); err != nil {
		return nil
	}

	confidence := 0.9
	if hasPrefix {
		confidence = 0.95
	}
	// Lower confidence if it's all numbers (could be decimal)
	if digitsPattern.MatchString(cleaned) {
		confidence *= 0.6
	}

	return []DetectionResult{{
		Encoding:   EncodingHex,
		Confidence: confidence,
		Reasoning:  "Matches hexadecimal pattern with an even digit count",
		Operation:  "hex_decode",
	}}
}

// detectBase64 checks if input is Base64 encoded
func (d *SmartDetector) detectBase64(input []byte) []DetectionResult {
	cleaned := stripWhitespace(string(input))
	if !base64Pattern.MatchString(cleaned) {
		return nil
	}

	confidence := 0.85
	reasoning := "Matches Base64 pattern and decodes successfully"
	if _, err := base64.StdEncoding.DecodeString(cleaned); err != nil {
		if _, err := base64.RawStdEncoding.DecodeString(cleaned); err != nil {
			return nil
		}
		confidence = 0.6
		reasoning = "Matches Base64 pattern without padding"
	}

	// Every hex string is also valid Base64 text, so defer to hex.
	if hexPattern.MatchString(cleaned) {
		confidence *= 0.6
	}

	return []DetectionResult{{
		Encoding:   EncodingBase64,
		Confidence: confidence,
		Reasoning:  reasoning,
		Operation:  "base64_decode",
	}}
}

// DecodeInput turns CLI or RPC input into ciphertext bytes. encoding is one of
// auto, hex, base64 or raw. Auto uses the most confident detection and falls
// back to raw bytes when nothing matches.
func DecodeInput(ctx context.Context, input []byte, encoding string) ([]byte, error) {
	var opName string
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case EncodingRaw:
		return input, nil
	case EncodingHex:
		opName = "hex_decode"
	case EncodingBase64:
		opName = "base64_decode"
	case EncodingAuto, "":
		detections, err := inputDetector.Detect(ctx, input)
		if err != nil || len(detections) == 0 {
			return input, nil
		}
		opName = detections[0].Operation
	default:
		return nil, fmt.Errorf("unsupported input encoding %q", encoding)
	}

	op, ok := GetOperation(opName)
	if !ok {
		return nil, fmt.Errorf("operation %s is not registered", opName)
	}
	return op.Execute(ctx, input, nil)
}

// EncodeOutput renders bytes for display. encoding is one of hex, base64 or raw.
func EncodeOutput(ctx context.Context, data []byte, encoding string) ([]byte, error) {
	var opName string
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case EncodingRaw:
		return data, nil
	case EncodingHex, "":
		opName = "hex_encode"
	case EncodingBase64:
		opName = "base64_encode"
	default:
		return nil, fmt.Errorf("unsupported output encoding %q", encoding)
	}

	op, ok := GetOperation(opName)
	if !ok {
		return nil, fmt.Errorf("operation %s is not registered", opName)
	}
	return op.Execute(ctx, data, nil)
}
