// Command invoicemigrate migrates eligible legacy invoices into the target store
// from the command line, over the remote RPC interface or the legacy database.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(newAppRunner).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
