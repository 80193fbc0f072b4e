package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/RowanDark/xorcrack/internal/history"
)

func (a *app) runHistory(args []string) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	limit := fs.Int("limit", 20, "maximum entries to list (0 for all)")
	digest := fs.String("digest", "", "only entries for this ciphertext digest")
	file := fs.String("file", "", "only entries for the ciphertext bytes in this file")
	asJSON := fs.Bool("json", false, "emit one JSON object per line")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(a.stderr, "history takes no arguments")
		return 2
	}
	if *digest != "" && *file != "" {
		fmt.Fprintln(a.stderr, "use either -digest or -file")
		return 2
	}
	if a.cfg.HistoryPath == "" {
		fmt.Fprintln(a.stderr, "history_path is not configured")
		return 1
	}

	store, err := history.Open(a.cfg.HistoryPath)
	if err != nil {
		fmt.Fprintf(a.stderr, "open history: %v\n", err)
		return 1
	}
	defer store.Close()

	if *file != "" {
		data, err := a.readInput(*file)
		if err != nil {
			fmt.Fprintln(a.stderr, err)
			return 1
		}
		*digest = history.Digest(data)
	}

	ctx := context.Background()
	var entries []history.Entry
	if *digest != "" {
		entries, err = store.FindByDigest(ctx, *digest)
		if err == nil && *limit > 0 && len(entries) > *limit {
			entries = entries[:*limit]
		}
	} else {
		entries, err = store.List(ctx, *limit)
	}
	if err != nil {
		fmt.Fprintf(a.stderr, "query history: %v\n", err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetEscapeHTML(false)
		for _, e := range entries {
			if err := enc.Encode(e); err != nil {
				fmt.Fprintf(a.stderr, "encode entry: %v\n", err)
				return 1
			}
		}
		return 0
	}

	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tCREATED\tBYTES\tKEY\tDIGEST")
	for _, e := range entries {
		key := "-"
		if e.Found {
			key = hex.EncodeToString(e.Key)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			e.ID, e.Kind, e.CreatedAt.Format(time.RFC3339), e.InputBytes, key, shortDigest(e.Digest))
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(a.stderr, "write output: %v\n", err)
		return 1
	}
	return 0
}

func shortDigest(d string) string {
	if len(d) > 16 {
		return d[:16]
	}
	return d
}
