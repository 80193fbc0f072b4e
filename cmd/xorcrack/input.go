package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RowanDark/xorcrack/internal/cipher"
	"github.com/RowanDark/xorcrack/internal/history"
	"github.com/RowanDark/xorcrack/internal/language"
)

// readInput reads path, or stdin when path is empty or "-".
func (a *app) readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// readCandidates decodes every non-empty line of data.
func readCandidates(ctx context.Context, data []byte, encoding string) ([][]byte, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	var candidates [][]byte
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		decoded, err := cipher.DecodeInput(ctx, []byte(raw), encoding)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		candidates = append(candidates, decoded)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan candidates: %w", err)
	}
	return candidates, nil
}

// positional returns the single optional positional argument.
func positional(args []string) (string, bool) {
	switch len(args) {
	case 0:
		return "", true
	case 1:
		return args[0], true
	default:
		return "", false
	}
}

// record stores entry when a history path is configured. Failures are logged
// and never fail the command.
func (a *app) record(ctx context.Context, entry history.Entry) {
	if a.cfg.HistoryPath == "" {
		return
	}
	store, err := history.Open(a.cfg.HistoryPath)
	if err != nil {
		a.logger.Warn("open history", "path", a.cfg.HistoryPath, "error", err)
		return
	}
	defer store.Close()

	saved, err := store.Record(ctx, entry)
	if err != nil {
		a.logger.Warn("record history", "kind", string(entry.Kind), "error", err)
		return
	}
	a.logger.Debug("recorded analysis", "id", saved.ID, "kind", string(saved.Kind), "digest", saved.Digest)
}

// annotateLanguage prints the English confidence of text when enabled.
func (a *app) annotateLanguage(text string) {
	if !a.cfg.LanguageCheck {
		return
	}
	if a.checker == nil {
		a.checker = language.NewChecker()
	}
	verdict := a.checker.Assess(text)
	lang := verdict.Language
	if lang == "" {
		lang = "unknown"
	}
	fmt.Fprintf(a.stdout, "english_confidence: %.2f (language: %s)\n", verdict.English, lang)
}
