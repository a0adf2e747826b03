package main

import (
	"os"

	"github.com/themandi/JoyJoin/cmd/joyjoin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
