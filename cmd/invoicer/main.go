package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/andy/invoicer/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.Execute(ctx)
	cli.Shutdown(os.Stderr)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
