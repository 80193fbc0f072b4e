package main

import (
	"fmt"
	"io"
	"os"

	"github.com/RowanDark/xorcrack/internal/config"
	"github.com/RowanDark/xorcrack/internal/language"
	"github.com/RowanDark/xorcrack/internal/logging"
)

const productName = "xorcrack"
const cliBanner = productName + " - single-byte and repeating-key XOR cracker"

// app carries the resolved configuration and I/O streams shared by subcommands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	cfg    config.Config
	logger *logging.Logger

	checker *language.Checker
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		// No subcommand provided: show usage and exit non-zero.
		usage(stderr)
		return 2
	}

	switch args[0] {
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return 0
	case "version", "-version", "--version":
		return runVersion(args[1:], stdout, stderr)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 1
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 1
	}
	logOpts := []logging.Option{
		logging.WithoutStderr(),
		logging.WithWriter(stderr),
		logging.WithLevel(level),
		logging.WithFormat(cfg.LogFormat),
	}
	if cfg.LogFile != "" {
		logOpts = append(logOpts, logging.WithFile(cfg.LogFile))
	}
	logger, err := logging.New(productName, logOpts...)
	if err != nil {
		fmt.Fprintf(stderr, "configure logging: %v\n", err)
		return 1
	}
	defer logger.Close()

	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, cfg: cfg, logger: logger}

	switch args[0] {
	case "crack":
		return a.runCrack(args[1:])
	case "detect":
		return a.runDetect(args[1:])
	case "vigenere":
		return a.runVigenere(args[1:])
	case "encrypt":
		return a.runEncrypt(args[1:])
	case "hamming":
		return a.runHamming(args[1:])
	case "levenshtein":
		return a.runLevenshtein(args[1:])
	case "history":
		return a.runHistory(args[1:])
	case "ops":
		return a.runOps(args[1:])
	case "serve":
		return a.runServe(args[1:])
	case "config":
		return a.runConfig(args[1:])
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(out io.Writer) {
	fmt.Fprintln(out, cliBanner)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: xorcrack <command> [flags] [args]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  crack        recover the single-byte key of one buffer")
	fmt.Fprintln(out, "  detect       find the single-byte XORed line in a file")
	fmt.Fprintln(out, "  vigenere     recover a repeating XOR key")
	fmt.Fprintln(out, "  encrypt      apply a repeating XOR key")
	fmt.Fprintln(out, "  hamming      bit distance between two equal-length strings")
	fmt.Fprintln(out, "  levenshtein  edit distance between two strings")
	fmt.Fprintln(out, "  history      list recorded analyses")
	fmt.Fprintln(out, "  ops          list the registered cipher operations")
	fmt.Fprintln(out, "  serve        run the gRPC service")
	fmt.Fprintln(out, "  config       print the resolved configuration")
	fmt.Fprintln(out, "  version      print the version")
}
