package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/anvilbuild/anvil/internal/cmd"
	"github.com/anvilbuild/anvil/internal/exitcode"
	"github.com/anvilbuild/anvil/internal/ux"
)

func main() {
	// Cancel the run context on Ctrl+C or SIGTERM so in-flight tool
	// processes get killed before the CLI exits
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() == context.Canceled {
			fmt.Fprintln(os.Stderr, "\nRun cancelled")
			exitcode.Exit(exitcode.Interrupted)
		}

		fmt.Fprint(os.Stderr, ux.RenderError(err, ux.StylesFor(!ux.ShouldColor(false))))
		exitcode.ExitWithError(err)
	}
	exitcode.Exit(exitcode.Success)
}
