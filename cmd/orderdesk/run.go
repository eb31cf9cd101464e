package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

// run drives the fx app until the signal context or the app itself is done.
func run(ctx context.Context, app *fx.App) {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "orderdesk: start: %v\n", err)
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "orderdesk: stop: %v\n", err)
		os.Exit(1)
	}
}
