package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ahmedbadawy4/llm-pii-shield/internal/cli"
	"github.com/ahmedbadawy4/llm-pii-shield/internal/harness"
	"github.com/ahmedbadawy4/llm-pii-shield/internal/render"
	"github.com/ahmedbadawy4/llm-pii-shield/internal/upstream"
)

func main() {
	opts, err := cli.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: opts.Config.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := harness.New(upstream.NewClient(opts.Config.RequestTimeout, opts.Config.ProxyURL))
	term := render.NewTerminal(os.Stdout, opts.Verbose)

	switch opts.Command {
	case cli.CmdHealth:
		err = h.CheckHealth(ctx, opts.Form, term)
	case cli.CmdSend:
		err = h.Send(ctx, opts.Form, term)
	case cli.CmdStats:
		err = h.FetchStats(ctx, opts.Form, term)
	}
	h.Wait()

	if err != nil || term.Status().Error {
		os.Exit(1)
	}
}
