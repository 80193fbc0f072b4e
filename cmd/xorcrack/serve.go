package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/RowanDark/xorcrack/internal/history"
	"github.com/RowanDark/xorcrack/internal/rpc"
	"github.com/RowanDark/xorcrack/internal/xorcrack"
)

func (a *app) runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	addr := fs.String("addr", a.cfg.ListenAddr, "gRPC listen address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(a.stderr, "serve takes no arguments")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		fmt.Fprintf(a.stderr, "listen on %s: %v\n", *addr, err)
		return 1
	}
	if err := a.serve(ctx, lis); err != nil {
		fmt.Fprintf(a.stderr, "serve: %v\n", err)
		return 1
	}
	return 0
}

// serve runs the gRPC service on lis until ctx is cancelled.
func (a *app) serve(ctx context.Context, lis net.Listener) error {
	opts := []rpc.Option{
		rpc.WithLogger(a.logger.WithComponent("rpc").Logger),
		rpc.WithPrintable(a.cfg.Printable),
		rpc.WithKeyLengthRange(xorcrack.KeyLengthRange{Min: a.cfg.MinKeyLength, Max: a.cfg.MaxKeyLength}),
	}
	if a.cfg.HistoryPath != "" {
		store, err := history.Open(a.cfg.HistoryPath)
		if err != nil {
			lis.Close()
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
		opts = append(opts, rpc.WithHistory(store))
	}

	return rpc.Serve(ctx, lis, rpc.NewServer(opts...))
}
