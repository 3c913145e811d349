package main

import (
	"os"

	"github.com/blogsmith/blogsmith/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
