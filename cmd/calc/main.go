package main

import (
	"context"
	"fmt"
	"os"

	"go-chi-calculator/internal/cli"
	"go-chi-calculator/internal/observability"
)

func main() {
	err := cli.NewRootCommand().ExecuteContext(context.Background())
	observability.SyncLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "calc:", err)
		os.Exit(1)
	}
}
