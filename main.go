package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/binalyze/n8n-workflow-tool/cmd"
)

func main() {
	// Print a cancellation notice instead of a bare ^C on interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n\n⚠️  Operation cancelled by user")
		os.Exit(1)
	}()

	// Every error surfaces exactly once, here
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\n❌ Error: %v\n", err)
		os.Exit(1)
	}
}
