package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/domespec/internal/cli"
	domerrors "github.com/matzehuels/domespec/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintf(os.Stderr, "error: %s\n", domerrors.UserMessage(err))
		var v *domerrors.ValidationError
		if errors.As(err, &v) {
			for _, p := range v.Problems {
				fmt.Fprintf(os.Stderr, "  - %s\n", p)
			}
		}
		if code := domerrors.GetCode(err); code != "" {
			fmt.Fprintf(os.Stderr, "code:  %s\n", code)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	err := c.RootCommand().ExecuteContext(ctx)
	if cerr := c.Close(); err == nil {
		err = cerr
	}
	return err
}
