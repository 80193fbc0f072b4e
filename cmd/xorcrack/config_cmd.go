package main

import (
	"fmt"
	"io"

	"github.com/RowanDark/xorcrack/internal/config"
)

func (a *app) runConfig(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.stderr, "config subcommand required")
		return 2
	}

	switch args[0] {
	case "print":
		printResolvedConfig(a.stdout, a.cfg)
		return 0
	default:
		fmt.Fprintf(a.stderr, "unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func printResolvedConfig(out io.Writer, cfg config.Config) {
	fmt.Fprintf(out, "min_key_length: %d\n", cfg.MinKeyLength)
	fmt.Fprintf(out, "max_key_length: %d\n", cfg.MaxKeyLength)
	fmt.Fprintf(out, "printable: %t\n", cfg.Printable)
	fmt.Fprintf(out, "input_encoding: %s\n", cfg.InputEncoding)
	fmt.Fprintf(out, "history_path: %s\n", cfg.HistoryPath)
	fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
	fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
	fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
	fmt.Fprintf(out, "log_file: %s\n", cfg.LogFile)
	fmt.Fprintf(out, "language_check: %t\n", cfg.LanguageCheck)
}
