package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log/slog"

	"github.com/RowanDark/xorcrack/internal/cipher"
	"github.com/RowanDark/xorcrack/internal/history"
	"github.com/RowanDark/xorcrack/internal/xorcrack"
)

func (a *app) runCrack(args []string) int {
	fs := flag.NewFlagSet("crack", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	printable := fs.Bool("printable", a.cfg.Printable, "only accept newline and 0x20-0x7F plaintext bytes")
	encoding := fs.String("input", a.cfg.InputEncoding, "input encoding: auto, hex, base64 or raw")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	path, ok := positional(fs.Args())
	if !ok {
		fmt.Fprintln(a.stderr, "crack takes at most one input file")
		return 2
	}

	ctx := context.Background()
	data, err := a.readInput(path)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	ciphertext, err := cipher.DecodeInput(ctx, data, *encoding)
	if err != nil {
		fmt.Fprintf(a.stderr, "decode input: %v\n", err)
		return 1
	}

	res := xorcrack.Crack(ciphertext, *printable)
	a.logger.Debug("single-byte crack", "bytes", len(ciphertext), "printable", *printable, "found", res.Found())

	entry := history.Entry{
		Kind:       history.KindSingle,
		Digest:     history.Digest(ciphertext),
		InputBytes: len(ciphertext),
		Found:      res.Found(),
	}
	if !res.Found() {
		a.record(ctx, entry)
		fmt.Fprintln(a.stderr, "no viable key")
		return 1
	}
	entry.Key, entry.Plaintext, entry.Score = []byte{res.Key}, res.Text, res.Score
	a.record(ctx, entry)

	a.printResult(res)
	return 0
}

func (a *app) runDetect(args []string) int {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	printable := fs.Bool("printable", a.cfg.Printable, "only accept newline and 0x20-0x7F plaintext bytes")
	encoding := fs.String("input", a.cfg.InputEncoding, "per-line encoding: auto, hex, base64 or raw")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.stderr, "detect requires exactly one candidates file")
		return 2
	}

	ctx := context.Background()
	data, err := a.readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	candidates, err := readCandidates(ctx, data, *encoding)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}

	det, err := xorcrack.Detect(candidates, *printable)
	if err != nil {
		if errors.Is(err, xorcrack.ErrNoCandidates) {
			fmt.Fprintln(a.stderr, "candidates file has no lines")
		} else {
			fmt.Fprintln(a.stderr, err)
		}
		return 1
	}
	a.logger.Debug("detect", "candidates", len(candidates), "index", det.Index, "found", det.Found())
	if !det.Found() {
		fmt.Fprintln(a.stderr, "no candidate produced a viable key")
		return 1
	}
	a.record(ctx, history.Entry{
		Kind:       history.KindDetect,
		Digest:     history.Digest(det.Input),
		InputBytes: len(det.Input),
		Key:        []byte{det.Key},
		Plaintext:  det.Text,
		Score:      det.Score,
		Found:      true,
	})

	fmt.Fprintf(a.stdout, "index: %d\n", det.Index)
	a.printResult(det.Result)
	return 0
}

func (a *app) runVigenere(args []string) int {
	fs := flag.NewFlagSet("vigenere", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	encoding := fs.String("input", a.cfg.InputEncoding, "input encoding: auto, hex, base64 or raw")
	minLen := fs.Int("min", a.cfg.MinKeyLength, "shortest key length to try")
	maxLen := fs.Int("max", a.cfg.MaxKeyLength, "longest key length to try")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	path, ok := positional(fs.Args())
	if !ok {
		fmt.Fprintln(a.stderr, "vigenere takes at most one input file")
		return 2
	}

	ctx := context.Background()
	data, err := a.readInput(path)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	ciphertext, err := cipher.DecodeInput(ctx, data, *encoding)
	if err != nil {
		fmt.Fprintf(a.stderr, "decode input: %v\n", err)
		return 1
	}

	r := xorcrack.KeyLengthRange{Min: *minLen, Max: *maxLen}
	if a.logger.Enabled(ctx, slog.LevelDebug) {
		for _, c := range xorcrack.RankKeyLengths(ciphertext, r) {
			a.logger.Debug("key length candidate", "length", c.Length, "distance", c.Distance)
		}
	}

	key, found := xorcrack.CrackRepeatingKeyRange(ciphertext, r)
	entry := history.Entry{
		Kind:       history.KindRepeating,
		Digest:     history.Digest(ciphertext),
		InputBytes: len(ciphertext),
		Found:      found,
	}
	if !found {
		a.record(ctx, entry)
		fmt.Fprintln(a.stderr, "no key length produced a viable key")
		return 1
	}
	plaintext := xorcrack.XORRepeating(ciphertext, key)
	entry.Key, entry.Plaintext = key, string(plaintext)
	a.record(ctx, entry)

	fmt.Fprintf(a.stdout, "key_length: %d\n", len(key))
	fmt.Fprintf(a.stdout, "key: %q\n", string(key))
	fmt.Fprintf(a.stdout, "key_hex: %s\n", hex.EncodeToString(key))
	a.annotateLanguage(string(plaintext))
	fmt.Fprintln(a.stdout, "plaintext:")
	fmt.Fprintln(a.stdout, string(plaintext))
	return 0
}

func (a *app) printResult(res xorcrack.Result) {
	fmt.Fprintf(a.stdout, "key: 0x%02x (%d)\n", res.Key, res.Key)
	fmt.Fprintf(a.stdout, "score: %.6f\n", res.Score)
	fmt.Fprintf(a.stdout, "plaintext: %q\n", res.Text)
	a.annotateLanguage(res.Text)
}
