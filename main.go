package main

import (
	"os"

	"github.com/dokai/gitctl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
