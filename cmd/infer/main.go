package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-infer/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "infer:", err)
		os.Exit(1)
	}
}
