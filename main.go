package main

import (
	"os"

	"github.com/harlequix/parcheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
