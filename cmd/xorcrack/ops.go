package main

import (
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/RowanDark/xorcrack/internal/cipher"
)

func (a *app) runOps(args []string) int {
	fs := flag.NewFlagSet("ops", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	opType := fs.String("type", "", "only list one category: encode, decode or xor")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(a.stderr, "ops takes no arguments")
		return 2
	}

	var ops []cipher.Operation
	switch t := cipher.OperationType(strings.ToLower(strings.TrimSpace(*opType))); t {
	case "":
		ops = cipher.ListOperations()
	case cipher.OperationTypeEncode, cipher.OperationTypeDecode, cipher.OperationTypeXOR:
		ops = cipher.ListOperationsByType(t)
	default:
		fmt.Fprintf(a.stderr, "unknown operation type %q\n", *opType)
		return 2
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tINVERSE\tDESCRIPTION")
	for _, op := range ops {
		inverse := "-"
		if rev, ok := op.Reverse(); ok {
			inverse = rev.Name()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", op.Name(), op.Type(), inverse, op.Description())
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}

	detected := cipher.NewSmartDetector().SupportedEncodings()
	fmt.Fprintf(a.stdout, "\nauto-detected input encodings: %s\n", strings.Join(detected, ", "))
	return 0
}
